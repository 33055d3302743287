package ast

import (
	"github.com/pyscribe/pyscribe/internal/token"
)

// Identifier represents a name, e.g. a variable reference.
type Identifier struct {
	Token token.Token
	Value string
}

func (i *Identifier) expressionNode()       {}
func (i *Identifier) TokenLiteral() string  { return i.Token.Lexeme }
func (i *Identifier) GetToken() token.Token { return i.Token }

// NumberLiteral represents an integer, float, or complex literal.
// Value is int64 or *big.Int for integers, float64 for floats, and
// complex128 for imaginary literals. The token lexeme keeps the exact
// source spelling so unparsing round-trips the representation.
type NumberLiteral struct {
	Token token.Token
	Kind  token.NumberKind
	Value interface{}
}

func (nl *NumberLiteral) expressionNode()       {}
func (nl *NumberLiteral) TokenLiteral() string  { return nl.Token.Lexeme }
func (nl *NumberLiteral) GetToken() token.Token { return nl.Token }

// StringLiteral represents a string literal with its decoded value.
type StringLiteral struct {
	Token  token.Token
	Value  string
	Raw    bool
	Triple bool
}

func (sl *StringLiteral) expressionNode()       {}
func (sl *StringLiteral) TokenLiteral() string  { return sl.Token.Lexeme }
func (sl *StringLiteral) GetToken() token.Token { return sl.Token }

// BytesLiteral represents a bytes literal, e.g. b"abc".
type BytesLiteral struct {
	Token  token.Token
	Value  []byte
	Raw    bool
	Triple bool
}

func (bl *BytesLiteral) expressionNode()       {}
func (bl *BytesLiteral) TokenLiteral() string  { return bl.Token.Lexeme }
func (bl *BytesLiteral) GetToken() token.Token { return bl.Token }

// BooleanLiteral represents True or False.
type BooleanLiteral struct {
	Token token.Token
	Value bool
}

func (b *BooleanLiteral) expressionNode()       {}
func (b *BooleanLiteral) TokenLiteral() string  { return b.Token.Lexeme }
func (b *BooleanLiteral) GetToken() token.Token { return b.Token }

// NoneLiteral represents the None singleton.
type NoneLiteral struct {
	Token token.Token
}

func (n *NoneLiteral) expressionNode()       {}
func (n *NoneLiteral) TokenLiteral() string  { return n.Token.Lexeme }
func (n *NoneLiteral) GetToken() token.Token { return n.Token }

// EllipsisLiteral represents the ... singleton.
type EllipsisLiteral struct {
	Token token.Token
}

func (e *EllipsisLiteral) expressionNode()       {}
func (e *EllipsisLiteral) TokenLiteral() string  { return e.Token.Lexeme }
func (e *EllipsisLiteral) GetToken() token.Token { return e.Token }

// TupleLiteral represents a tuple display, e.g. (1, 2) or a, b.
type TupleLiteral struct {
	Token    token.Token
	Elements []Expression
}

func (tl *TupleLiteral) expressionNode()       {}
func (tl *TupleLiteral) TokenLiteral() string  { return tl.Token.Lexeme }
func (tl *TupleLiteral) GetToken() token.Token { return tl.Token }

// ListLiteral represents a list display, e.g. [1, 2, 3].
type ListLiteral struct {
	Token    token.Token
	Elements []Expression
}

func (ll *ListLiteral) expressionNode()       {}
func (ll *ListLiteral) TokenLiteral() string  { return ll.Token.Lexeme }
func (ll *ListLiteral) GetToken() token.Token { return ll.Token }

// SetLiteral represents a set display, e.g. {1, 2}.
type SetLiteral struct {
	Token    token.Token
	Elements []Expression
}

func (sl *SetLiteral) expressionNode()       {}
func (sl *SetLiteral) TokenLiteral() string  { return sl.Token.Lexeme }
func (sl *SetLiteral) GetToken() token.Token { return sl.Token }

// DictLiteral represents a dict display. Keys and Values align; a nil
// key marks a **unpack of the corresponding value.
type DictLiteral struct {
	Token  token.Token
	Keys   []Expression
	Values []Expression
}

func (dl *DictLiteral) expressionNode()       {}
func (dl *DictLiteral) TokenLiteral() string  { return dl.Token.Lexeme }
func (dl *DictLiteral) GetToken() token.Token { return dl.Token }

// ListComp represents a list comprehension.
type ListComp struct {
	Token      token.Token
	Element    Expression
	Generators []*Comprehension
}

func (lc *ListComp) expressionNode()       {}
func (lc *ListComp) TokenLiteral() string  { return lc.Token.Lexeme }
func (lc *ListComp) GetToken() token.Token { return lc.Token }

// SetComp represents a set comprehension.
type SetComp struct {
	Token      token.Token
	Element    Expression
	Generators []*Comprehension
}

func (sc *SetComp) expressionNode()       {}
func (sc *SetComp) TokenLiteral() string  { return sc.Token.Lexeme }
func (sc *SetComp) GetToken() token.Token { return sc.Token }

// DictComp represents a dict comprehension.
type DictComp struct {
	Token      token.Token
	Key        Expression
	Value      Expression
	Generators []*Comprehension
}

func (dc *DictComp) expressionNode()       {}
func (dc *DictComp) TokenLiteral() string  { return dc.Token.Lexeme }
func (dc *DictComp) GetToken() token.Token { return dc.Token }

// GeneratorExp represents a generator expression.
type GeneratorExp struct {
	Token      token.Token
	Element    Expression
	Generators []*Comprehension
}

func (ge *GeneratorExp) expressionNode()       {}
func (ge *GeneratorExp) TokenLiteral() string  { return ge.Token.Lexeme }
func (ge *GeneratorExp) GetToken() token.Token { return ge.Token }

// Lambda represents a lambda expression.
type Lambda struct {
	Token token.Token
	Args  *Arguments
	Body  Expression
}

func (l *Lambda) expressionNode()       {}
func (l *Lambda) TokenLiteral() string  { return l.Token.Lexeme }
func (l *Lambda) GetToken() token.Token { return l.Token }

// Yield represents a yield expression with an optional value.
type Yield struct {
	Token token.Token
	Value Expression
}

func (y *Yield) expressionNode()       {}
func (y *Yield) TokenLiteral() string  { return y.Token.Lexeme }
func (y *Yield) GetToken() token.Token { return y.Token }

// YieldFrom represents a yield-from expression.
type YieldFrom struct {
	Token token.Token
	Value Expression
}

func (yf *YieldFrom) expressionNode()       {}
func (yf *YieldFrom) TokenLiteral() string  { return yf.Token.Lexeme }
func (yf *YieldFrom) GetToken() token.Token { return yf.Token }

// Await represents an await expression.
type Await struct {
	Token token.Token
	Value Expression
}

func (a *Await) expressionNode()       {}
func (a *Await) TokenLiteral() string  { return a.Token.Lexeme }
func (a *Await) GetToken() token.Token { return a.Token }

// Attribute represents dot access, e.g. obj.field.
type Attribute struct {
	Token token.Token // The '.' token
	Value Expression
	Attr  string
}

func (at *Attribute) expressionNode()       {}
func (at *Attribute) TokenLiteral() string  { return at.Token.Lexeme }
func (at *Attribute) GetToken() token.Token { return at.Token }

// Subscript represents indexing, e.g. a[i] or a[i:j].
type Subscript struct {
	Token token.Token // The '[' token
	Value Expression
	Index Expression
}

func (s *Subscript) expressionNode()       {}
func (s *Subscript) TokenLiteral() string  { return s.Token.Lexeme }
func (s *Subscript) GetToken() token.Token { return s.Token }

// Call represents a call with positional and keyword arguments.
type Call struct {
	Token    token.Token // The '(' token
	Func     Expression
	Args     []Expression
	Keywords []*Keyword
}

func (c *Call) expressionNode()       {}
func (c *Call) TokenLiteral() string  { return c.Token.Lexeme }
func (c *Call) GetToken() token.Token { return c.Token }

// Slice represents a slice expression inside a subscript. All three
// parts may be nil.
type Slice struct {
	Token token.Token
	Lower Expression
	Upper Expression
	Step  Expression
}

func (s *Slice) expressionNode()       {}
func (s *Slice) TokenLiteral() string  { return s.Token.Lexeme }
func (s *Slice) GetToken() token.Token { return s.Token }

// Starred represents a *value unpack in calls, displays, and targets.
type Starred struct {
	Token token.Token
	Value Expression
}

func (st *Starred) expressionNode()       {}
func (st *Starred) TokenLiteral() string  { return st.Token.Lexeme }
func (st *Starred) GetToken() token.Token { return st.Token }

// NamedExpr represents a walrus assignment expression: name := value.
type NamedExpr struct {
	Token  token.Token // The ':=' token
	Target Expression
	Value  Expression
}

func (ne *NamedExpr) expressionNode()       {}
func (ne *NamedExpr) TokenLiteral() string  { return ne.Token.Lexeme }
func (ne *NamedExpr) GetToken() token.Token { return ne.Token }

// InfixExpression represents a binary arithmetic/bitwise operation.
type InfixExpression struct {
	Token    token.Token
	Left     Expression
	Operator string
	Right    Expression
}

func (ie *InfixExpression) expressionNode()       {}
func (ie *InfixExpression) TokenLiteral() string  { return ie.Token.Lexeme }
func (ie *InfixExpression) GetToken() token.Token { return ie.Token }

// PrefixExpression represents a unary operation: -, +, ~, not.
type PrefixExpression struct {
	Token    token.Token
	Operator string
	Right    Expression
}

func (pe *PrefixExpression) expressionNode()       {}
func (pe *PrefixExpression) TokenLiteral() string  { return pe.Token.Lexeme }
func (pe *PrefixExpression) GetToken() token.Token { return pe.Token }

// BoolOp represents an and/or chain with two or more operands.
type BoolOp struct {
	Token  token.Token
	Op     string // "and" or "or"
	Values []Expression
}

func (bo *BoolOp) expressionNode()       {}
func (bo *BoolOp) TokenLiteral() string  { return bo.Token.Lexeme }
func (bo *BoolOp) GetToken() token.Token { return bo.Token }

// Compare represents a comparison chain: a < b < c yields ops
// ["<", "<"] and comparators [b, c].
type Compare struct {
	Token       token.Token
	Left        Expression
	Ops         []string
	Comparators []Expression
}

func (c *Compare) expressionNode()       {}
func (c *Compare) TokenLiteral() string  { return c.Token.Lexeme }
func (c *Compare) GetToken() token.Token { return c.Token }

// IfExpression represents a conditional (ternary) expression:
// body if test else orelse.
type IfExpression struct {
	Token  token.Token // The 'if' token
	Test   Expression
	Body   Expression
	OrElse Expression
}

func (ie *IfExpression) expressionNode()       {}
func (ie *IfExpression) TokenLiteral() string  { return ie.Token.Lexeme }
func (ie *IfExpression) GetToken() token.Token { return ie.Token }

// FormattedValue is one {expr} replacement field of an f-string.
// Conversion is 0 or one of 's', 'r', 'a'.
type FormattedValue struct {
	Token      token.Token
	Value      Expression
	Conversion byte
	FormatSpec *JoinedStr
}

func (fv *FormattedValue) expressionNode()       {}
func (fv *FormattedValue) TokenLiteral() string  { return fv.Token.Lexeme }
func (fv *FormattedValue) GetToken() token.Token { return fv.Token }

// JoinedStr is an f-string: alternating string constants and
// formatted values.
type JoinedStr struct {
	Token token.Token
	Parts []Expression
}

func (js *JoinedStr) expressionNode()       {}
func (js *JoinedStr) TokenLiteral() string  { return js.Token.Lexeme }
func (js *JoinedStr) GetToken() token.Token { return js.Token }
