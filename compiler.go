package pegcomp

import (
	"context"
	"io"
	"runtime"

	"golang.org/x/sync/semaphore"

	"github.com/pegcomp/pegcomp/ast"
	"github.com/pegcomp/pegcomp/codegen"
	"github.com/pegcomp/pegcomp/parser"
	"github.com/pegcomp/pegcomp/reporter"
)

// Compiler handles compilation tasks, to turn grammar source files, or
// already-parsed grammar ASTs, into generated parser source.
//
// Each grammar is compiled independently, so multiple grammars given
// to a single Compile call are processed concurrently, up to the
// configured parallelism.
type Compiler struct {
	// Resolves grammar names into source code or ASTs. This is how
	// the compiler loads the grammars to be compiled. This field is
	// the only required field.
	Resolver Resolver
	// The maximum parallelism to use when compiling. If unspecified or
	// set to a non-positive value, then min(runtime.NumCPU(),
	// runtime.GOMAXPROCS(-1)) will be used.
	MaxParallelism int
	// A custom error and warning reporter. If unspecified a default
	// reporter is used. A default reporter fails the compilation after
	// encountering any errors and ignores all warnings.
	Reporter reporter.Reporter
}

// Result is the outcome of compiling a single grammar: its name as
// given to Compile, the parsed and validated AST, and the generated
// parser source.
type Result struct {
	Name    string
	Grammar *ast.Grammar
	Source  string
}

// Compile compiles the given grammar names into generated parsers. The
// compiler's resolver is used to locate source code (or parsed ASTs)
// and then do what is necessary to transform that into parser source
// (parsing, validating, emitting).
//
// The results are in the same order as the given names. If any grammar
// fails, compilation of the others is abandoned and only the first
// error is returned.
func (c *Compiler) Compile(ctx context.Context, names ...string) ([]Result, error) {
	if len(names) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	par := c.MaxParallelism
	if par <= 0 {
		par = runtime.GOMAXPROCS(-1)
		cpus := runtime.NumCPU()
		if par > cpus {
			par = cpus
		}
	}

	e := executor{
		c: c,
		s: semaphore.NewWeighted(int64(par)),
	}

	results := make([]*result, len(names))
	for i, name := range names {
		results[i] = e.compile(ctx, name)
	}

	compiled := make([]Result, len(names))
	for i, r := range results {
		select {
		case <-r.ready:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		if r.err != nil {
			return nil, r.err
		}
		compiled[i] = r.res
	}

	return compiled, nil
}

type result struct {
	ready chan struct{}
	res   Result
	err   error
}

func (r *result) fail(err error) {
	r.err = err
	close(r.ready)
}

func (r *result) complete(res Result) {
	r.res = res
	close(r.ready)
}

type executor struct {
	c *Compiler
	s *semaphore.Weighted
}

func (e *executor) compile(ctx context.Context, name string) *result {
	r := &result{
		ready: make(chan struct{}),
	}
	go func() {
		e.doCompile(ctx, name, r)
	}()
	return r
}

func (e *executor) doCompile(ctx context.Context, name string, r *result) {
	if err := e.s.Acquire(ctx, 1); err != nil {
		r.fail(err)
		return
	}
	defer e.s.Release(1)

	sr, err := e.c.Resolver.FindGrammarByPath(name)
	if err != nil {
		r.fail(err)
		return
	}

	defer func() {
		// if the result included a source, don't leave it open if it
		// can be closed
		if sr.Source == nil {
			return
		}
		if c, ok := sr.Source.(io.Closer); ok {
			_ = c.Close()
		}
	}()

	handler := reporter.NewHandler(e.c.Reporter)

	grammar := sr.AST
	if grammar == nil {
		if sr.Source == nil {
			r.fail(ErrGrammarNotFound)
			return
		}
		grammar, err = parser.Parse(name, sr.Source, handler)
		if err != nil {
			r.fail(err)
			return
		}
	}

	if err := parser.Validate(grammar, handler); err != nil {
		r.fail(err)
		return
	}

	r.complete(Result{
		Name:    name,
		Grammar: grammar,
		Source:  codegen.Generate(grammar),
	})
}
