package lexer

import (
	"github.com/pyscribe/pyscribe/internal/pipeline"
	"github.com/pyscribe/pyscribe/internal/token"
)

// sliceStream adapts a fully-scanned token slice to the pipeline's
// TokenStream contract.
type sliceStream struct {
	tokens []token.Token
	pos    int
}

func NewTokenStream(tokens []token.Token) pipeline.TokenStream {
	return &sliceStream{tokens: tokens}
}

func (ss *sliceStream) Next() token.Token {
	if ss.pos >= len(ss.tokens) {
		return token.Token{Type: token.ENDMARKER}
	}
	tok := ss.tokens[ss.pos]
	ss.pos++
	return tok
}

func (ss *sliceStream) Peek(n int) []token.Token {
	end := ss.pos + n
	if end > len(ss.tokens) {
		end = len(ss.tokens)
	}
	return ss.tokens[ss.pos:end]
}

var _ pipeline.TokenStream = (*sliceStream)(nil)

type LexerProcessor struct{}

func (lp *LexerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	tokens, err := Tokenize([]byte(ctx.SourceCode))
	if err != nil {
		err.File = ctx.FilePath
		ctx.Errors = append(ctx.Errors, err)
		return ctx
	}
	ctx.Tokens = tokens
	return ctx
}
