package pipeline_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pyscribe/pyscribe/internal/lexer"
	"github.com/pyscribe/pyscribe/internal/parser"
	"github.com/pyscribe/pyscribe/internal/pipeline"
)

func run(source string) *pipeline.PipelineContext {
	ctx := pipeline.NewPipelineContext(source)
	return pipeline.New(&lexer.LexerProcessor{}, &parser.ParserProcessor{}).Run(ctx)
}

func TestPipelineSuccess(t *testing.T) {
	ctx := run("x = 1\n")
	require.Empty(t, ctx.Errors)
	require.NotNil(t, ctx.AstRoot)
	assert.Len(t, ctx.AstRoot.Body, 1)
	assert.NotEmpty(t, ctx.Tokens)
}

func TestPipelineStopsAfterLexerError(t *testing.T) {
	ctx := run("x = \"unterminated\n")
	require.NotEmpty(t, ctx.Errors)
	assert.Nil(t, ctx.AstRoot)
	assert.Nil(t, ctx.Tokens)
}

func TestPipelineParserError(t *testing.T) {
	ctx := run("def f(:\n    pass\n")
	require.NotEmpty(t, ctx.Errors)
	assert.Nil(t, ctx.AstRoot)
	err := ctx.FirstError()
	assert.Greater(t, err.Line(), 0)
}
