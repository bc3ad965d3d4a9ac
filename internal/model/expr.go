package model

// ExprKind identifies the shape of an expression node. The verifier maps
// every kind to exactly one traversal rule; kinds it does not recognize are
// treated as unsafe rather than silently passed through.
type ExprKind string

const (
	KindLit        ExprKind = "lit"
	KindPath       ExprKind = "path"
	KindCall       ExprKind = "call"
	KindMethodCall ExprKind = "method_call"
	KindArray      ExprKind = "array"
	KindTuple      ExprKind = "tuple"
	KindStruct     ExprKind = "struct"
	KindRepeat     ExprKind = "repeat"
	KindBinary     ExprKind = "binary"
	KindUnary      ExprKind = "unary"
	KindField      ExprKind = "field"
	KindIndex      ExprKind = "index"
	KindCast       ExprKind = "cast"
	KindAscription ExprKind = "ascription"
	KindAddrOf     ExprKind = "addr_of"
	KindIf         ExprKind = "if"
	KindMatch      ExprKind = "match"
	KindBlock      ExprKind = "block"
	KindLet        ExprKind = "let"
	KindClosure    ExprKind = "closure"
	KindAssign     ExprKind = "assign"
	KindAssignOp   ExprKind = "assign_op"
	KindBreak      ExprKind = "break"
	KindContinue   ExprKind = "continue"
	KindReturn     ExprKind = "return"
	KindBecome     ExprKind = "become"
	KindLoop       ExprKind = "loop"
	KindConstBlock ExprKind = "const_block"
	KindForeign    ExprKind = "foreign"
	KindOffsetOf   ExprKind = "offset_of"
	KindYield      ExprKind = "yield"
	KindError      ExprKind = "error"
)

// MatchSource distinguishes a hand-written pattern match from iteration
// sugar the front end lowered into match form.
type MatchSource string

const (
	MatchNormal     MatchSource = "normal"
	MatchForDesugar MatchSource = "for_desugar"
)

// Expr is one node of a resolved expression tree. Only the fields relevant
// to a node's Kind are populated; everything else stays nil/zero so trees
// round-trip cleanly through the YAML snapshot format.
type Expr struct {
	Kind ExprKind `yaml:"kind"`

	// call / method_call: the symbol the call site resolves through.
	// An empty or unknown reference means the target is external.
	CallSite string  `yaml:"call_site,omitempty"`
	Recv     *Expr   `yaml:"recv,omitempty"`
	Args     []*Expr `yaml:"args,omitempty"`

	// if
	Cond *Expr `yaml:"cond,omitempty"`
	Then *Expr `yaml:"then,omitempty"`
	Else *Expr `yaml:"else,omitempty"`

	// match
	Source    MatchSource `yaml:"source,omitempty"`
	Scrutinee *Expr       `yaml:"scrutinee,omitempty"`
	Arms      []*Expr     `yaml:"arms,omitempty"`

	// binary / assign / assign_op / index
	Left  *Expr `yaml:"left,omitempty"`
	Right *Expr `yaml:"right,omitempty"`

	// unary / field / addr_of / repeat / yield / let / break / return / become
	Value *Expr `yaml:"value,omitempty"`

	// block statements, array/tuple elements, struct field values
	Exprs []*Expr `yaml:"exprs,omitempty"`
	// block tail expression, struct functional-update base
	Tail *Expr `yaml:"tail,omitempty"`
	Base *Expr `yaml:"base,omitempty"`

	// closure / loop / const_block body
	Body *Expr `yaml:"body,omitempty"`

	// closure: the closure is restricted to a provably halting subset
	Terminating bool `yaml:"terminating,omitempty"`
}

// Expression constructors. They keep test fixtures and generated snapshots
// readable; the loader produces the same shapes from YAML.

func Lit() *Expr  { return &Expr{Kind: KindLit} }
func Path() *Expr { return &Expr{Kind: KindPath} }

func Call(target string, args ...*Expr) *Expr {
	return &Expr{Kind: KindCall, CallSite: target, Args: args}
}

func MethodCall(target string, recv *Expr, args ...*Expr) *Expr {
	return &Expr{Kind: KindMethodCall, CallSite: target, Recv: recv, Args: args}
}

func Binary(left, right *Expr) *Expr {
	return &Expr{Kind: KindBinary, Left: left, Right: right}
}

func Unary(value *Expr) *Expr { return &Expr{Kind: KindUnary, Value: value} }

func If(cond, then, els *Expr) *Expr {
	return &Expr{Kind: KindIf, Cond: cond, Then: then, Else: els}
}

func Match(scrutinee *Expr, arms ...*Expr) *Expr {
	return &Expr{Kind: KindMatch, Source: MatchNormal, Scrutinee: scrutinee, Arms: arms}
}

// ForDesugar builds the match shape the front end lowers for-style
// iteration into.
func ForDesugar(scrutinee *Expr, arms ...*Expr) *Expr {
	return &Expr{Kind: KindMatch, Source: MatchForDesugar, Scrutinee: scrutinee, Arms: arms}
}

func Block(stmts ...*Expr) *Expr { return &Expr{Kind: KindBlock, Exprs: stmts} }

func BlockTail(tail *Expr, stmts ...*Expr) *Expr {
	return &Expr{Kind: KindBlock, Exprs: stmts, Tail: tail}
}

func Let(init *Expr) *Expr { return &Expr{Kind: KindLet, Value: init} }

func Closure(terminating bool, body *Expr) *Expr {
	return &Expr{Kind: KindClosure, Terminating: terminating, Body: body}
}

func Assign(left, right *Expr) *Expr {
	return &Expr{Kind: KindAssign, Left: left, Right: right}
}

func Loop(body *Expr) *Expr { return &Expr{Kind: KindLoop, Body: body} }

func ConstBlock(body *Expr) *Expr { return &Expr{Kind: KindConstBlock, Body: body} }

func Break(value *Expr) *Expr  { return &Expr{Kind: KindBreak, Value: value} }
func Continue() *Expr          { return &Expr{Kind: KindContinue} }
func Return(value *Expr) *Expr { return &Expr{Kind: KindReturn, Value: value} }
func Become(value *Expr) *Expr { return &Expr{Kind: KindBecome, Value: value} }
func Yield(value *Expr) *Expr  { return &Expr{Kind: KindYield, Value: value} }
