package ast

import (
	"github.com/pyscribe/pyscribe/internal/token"
)

// MatchValue matches by equality against a literal or dotted name.
type MatchValue struct {
	Token token.Token
	Value Expression
}

func (mv *MatchValue) patternNode()          {}
func (mv *MatchValue) TokenLiteral() string  { return mv.Token.Lexeme }
func (mv *MatchValue) GetToken() token.Token { return mv.Token }

// MatchSingleton matches None, True, or False by identity.
type MatchSingleton struct {
	Token token.Token
	Value Expression // NoneLiteral or BooleanLiteral
}

func (ms *MatchSingleton) patternNode()          {}
func (ms *MatchSingleton) TokenLiteral() string  { return ms.Token.Lexeme }
func (ms *MatchSingleton) GetToken() token.Token { return ms.Token }

// MatchSequence matches a fixed or star-extended sequence. At most one
// element is a MatchStar.
type MatchSequence struct {
	Token    token.Token
	Patterns []Pattern
}

func (ms *MatchSequence) patternNode()          {}
func (ms *MatchSequence) TokenLiteral() string  { return ms.Token.Lexeme }
func (ms *MatchSequence) GetToken() token.Token { return ms.Token }

// MatchMapping matches mapping keys; Rest captures the remainder when
// a **rest was written (empty otherwise). Keys and Patterns align.
type MatchMapping struct {
	Token    token.Token
	Keys     []Expression
	Patterns []Pattern
	Rest     string
}

func (mm *MatchMapping) patternNode()          {}
func (mm *MatchMapping) TokenLiteral() string  { return mm.Token.Lexeme }
func (mm *MatchMapping) GetToken() token.Token { return mm.Token }

// MatchClass matches an instance by class with positional and keyword
// sub-patterns. KwdNames aligns with KwdPatterns.
type MatchClass struct {
	Token       token.Token
	Cls         Expression
	Patterns    []Pattern
	KwdNames    []string
	KwdPatterns []Pattern
}

func (mc *MatchClass) patternNode()          {}
func (mc *MatchClass) TokenLiteral() string  { return mc.Token.Lexeme }
func (mc *MatchClass) GetToken() token.Token { return mc.Token }

// MatchStar captures the remainder of a sequence pattern; an empty
// Name means *_.
type MatchStar struct {
	Token token.Token
	Name  string
}

func (ms *MatchStar) patternNode()          {}
func (ms *MatchStar) TokenLiteral() string  { return ms.Token.Lexeme }
func (ms *MatchStar) GetToken() token.Token { return ms.Token }

// MatchAs is both the capture pattern (Pattern nil, Name set), the
// wildcard (both empty), and the as-pattern (both set).
type MatchAs struct {
	Token   token.Token
	Pattern Pattern
	Name    string
}

func (ma *MatchAs) patternNode()          {}
func (ma *MatchAs) TokenLiteral() string  { return ma.Token.Lexeme }
func (ma *MatchAs) GetToken() token.Token { return ma.Token }

// MatchOr tries alternatives left to right: p1 | p2 | p3.
type MatchOr struct {
	Token    token.Token
	Patterns []Pattern
}

func (mo *MatchOr) patternNode()          {}
func (mo *MatchOr) TokenLiteral() string  { return mo.Token.Lexeme }
func (mo *MatchOr) GetToken() token.Token { return mo.Token }
