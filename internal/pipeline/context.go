package pipeline

import (
	"github.com/pyscribe/pyscribe/internal/ast"
	"github.com/pyscribe/pyscribe/internal/diagnostics"
	"github.com/pyscribe/pyscribe/internal/token"
)

// PipelineContext holds all the data passed between pipeline stages.
type PipelineContext struct {
	SourceCode string
	FilePath   string // Path to the source file (if any)
	Tokens     []token.Token
	AstRoot    *ast.Module
	Errors     []*diagnostics.DiagnosticError
}

// NewPipelineContext creates and initializes a new PipelineContext.
func NewPipelineContext(source string) *PipelineContext {
	return &PipelineContext{
		SourceCode: source,
		Errors:     []*diagnostics.DiagnosticError{},
	}
}

// FirstError returns the first accumulated error, or nil.
func (ctx *PipelineContext) FirstError() *diagnostics.DiagnosticError {
	if len(ctx.Errors) == 0 {
		return nil
	}
	return ctx.Errors[0]
}
