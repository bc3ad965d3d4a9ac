package loader

// modelSchema constrains the shape of a serialized unit snapshot before it
// is decoded. Expression bodies are only checked to be objects here; the
// verifier itself fails closed on node kinds it does not recognize.
const modelSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["items"],
  "properties": {
    "unit": { "type": "string" },
    "namespace": { "type": "string" },
    "traits": {
      "type": "array",
      "items": { "type": "string" }
    },
    "items": {
      "type": "array",
      "items": { "$ref": "#/$defs/item" }
    }
  },
  "$defs": {
    "item": {
      "type": "object",
      "required": ["name", "kind"],
      "properties": {
        "name": { "type": "string" },
        "kind": { "enum": ["function", "type", "impl"] },
        "path": {
          "type": "array",
          "items": { "type": "string" }
        },
        "terminating": { "type": "boolean" },
        "visibility": { "enum": ["public", "private"] },
        "trait": {
          "type": "array",
          "items": { "type": "string" }
        },
        "target": { "type": "string" },
        "body": { "type": "object" }
      }
    }
  }
}`
