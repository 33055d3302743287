package parser

import (
	"github.com/pyscribe/pyscribe/internal/pipeline"
)

type ParserProcessor struct{}

func (pp *ParserProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	p := New(ctx.Tokens)
	module := p.ParseModule()
	if errs := p.Errors(); len(errs) > 0 {
		for _, err := range errs {
			err.File = ctx.FilePath
		}
		ctx.Errors = append(ctx.Errors, errs...)
		return ctx
	}
	ctx.AstRoot = module
	return ctx
}
