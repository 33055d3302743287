package ast

import (
	"github.com/pyscribe/pyscribe/internal/token"
)

// TokenProvider is an interface for any AST node that can provide its
// primary token. This is useful for error reporting.
type TokenProvider interface {
	GetToken() token.Token
}

// Node is the base interface for all AST nodes.
type Node interface {
	TokenLiteral() string
}

// Statement is a Node that represents a statement.
type Statement interface {
	Node
	statementNode()
	GetToken() token.Token
}

// Expression is a Node that represents an expression.
type Expression interface {
	Node
	expressionNode()
	GetToken() token.Token
}

// Pattern is a Node in the match-statement pattern language.
type Pattern interface {
	Node
	patternNode()
	GetToken() token.Token
}

// Module is the root node of every AST our parser produces.
type Module struct {
	Body []Statement
}

func (m *Module) TokenLiteral() string {
	if len(m.Body) > 0 {
		return m.Body[0].TokenLiteral()
	}
	return ""
}

// Arg is a single formal parameter: name plus optional annotation.
type Arg struct {
	Token      token.Token
	Name       string
	Annotation Expression
}

func (a *Arg) GetToken() token.Token { return a.Token }

// Arguments describes a full parameter list. Defaults align to the tail
// of PosOnlyArgs+Args; KwDefaults aligns one-to-one with KwOnlyArgs and
// uses nil for parameters without a default.
type Arguments struct {
	PosOnlyArgs []*Arg
	Args        []*Arg
	VarArg      *Arg
	KwOnlyArgs  []*Arg
	KwDefaults  []Expression
	Kwarg       *Arg
	Defaults    []Expression
}

// Keyword is a keyword argument in a call; an empty Name marks a
// **unpack.
type Keyword struct {
	Token token.Token
	Name  string
	Value Expression
}

func (k *Keyword) GetToken() token.Token { return k.Token }

// Alias is one name binding in an import statement.
type Alias struct {
	Token  token.Token
	Name   string
	AsName string
}

func (a *Alias) GetToken() token.Token { return a.Token }

// Comprehension is one for-clause of a comprehension, with its guards.
type Comprehension struct {
	Target  Expression
	Iter    Expression
	Ifs     []Expression
	IsAsync bool
}

// WithItem is a single context manager in a with statement.
type WithItem struct {
	ContextExpr  Expression
	OptionalVars Expression
}

// ExceptHandler is one except clause. Type is nil for a bare except;
// Name is empty when no `as name` capture was written.
type ExceptHandler struct {
	Token token.Token
	Type  Expression
	Name  string
	Body  []Statement
}

func (eh *ExceptHandler) GetToken() token.Token { return eh.Token }

// MatchCase is one case clause of a match statement.
type MatchCase struct {
	Pattern Pattern
	Guard   Expression
	Body    []Statement
}

// TypeParam is a PEP 695 type parameter.
type TypeParam interface {
	Node
	typeParamNode()
	GetToken() token.Token
}

// TypeVar is a plain type parameter, optionally bounded: T, T: int.
type TypeVar struct {
	Token token.Token
	Name  string
	Bound Expression
}

func (tv *TypeVar) typeParamNode()        {}
func (tv *TypeVar) TokenLiteral() string  { return tv.Token.Lexeme }
func (tv *TypeVar) GetToken() token.Token { return tv.Token }

// TypeVarTuple is a starred type parameter: *Ts.
type TypeVarTuple struct {
	Token token.Token
	Name  string
}

func (tvt *TypeVarTuple) typeParamNode()        {}
func (tvt *TypeVarTuple) TokenLiteral() string  { return tvt.Token.Lexeme }
func (tvt *TypeVarTuple) GetToken() token.Token { return tvt.Token }

// ParamSpec is a double-starred type parameter: **P.
type ParamSpec struct {
	Token token.Token
	Name  string
}

func (ps *ParamSpec) typeParamNode()        {}
func (ps *ParamSpec) TokenLiteral() string  { return ps.Token.Lexeme }
func (ps *ParamSpec) GetToken() token.Token { return ps.Token }
