package compiler

import (
	"context"
	"fmt"
	goruntime "runtime"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/xirelogy/go-exprvm/internal/bytecode"
	"github.com/xirelogy/go-exprvm/internal/exprdata"
)

// Source is one independently compiled expression list.
type Source struct {
	Name  string
	Text  string
	Count int
}

// Result is the compiled form of a Source.
type Result struct {
	Name    string
	Chunk   *bytecode.Chunk
	Outputs []bytecode.Register
}

// Options configures CompileAll. Zero values select the defaults.
type Options struct {
	Limits      Limits
	Logger      *zerolog.Logger
	Parallelism int
}

// CompileAll compiles every source into its own chunk concurrently, one
// Compiler per source. data is only read. Results keep the input order; the
// first failure cancels the remaining work and is returned.
func CompileAll(ctx context.Context, data *exprdata.Data, sources []Source, opts Options) ([]Result, error) {
	parallelism := opts.Parallelism
	if parallelism <= 0 {
		parallelism = goruntime.GOMAXPROCS(0)
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	results := make([]Result, len(sources))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)
	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			c := New(data)
			c.SetLimits(opts.Limits)
			c.SetLogger(logger.With().Str("source", src.Name).Logger())
			outputs, err := c.ParseExpressions(src.Text, src.Count)
			if err != nil {
				return fmt.Errorf("%s: %w", src.Name, err)
			}
			results[i] = Result{Name: src.Name, Chunk: c.chunk, Outputs: outputs}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
