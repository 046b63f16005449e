package pegcomp

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pegcomp/pegcomp/ast"
)

// ErrGrammarNotFound is returned by resolvers when they cannot locate
// the named grammar.
var ErrGrammarNotFound = errors.New("grammar not found")

// Resolver is used by the compiler to resolve a grammar name into the
// grammar's contents.
type Resolver interface {
	FindGrammarByPath(string) (SearchResult, error)
}

// SearchResult is the result of resolving a grammar name. Only one of
// the fields should be set; if both are, the compiler prefers the AST
// and skips parsing.
type SearchResult struct {
	Source io.Reader
	AST    *ast.Grammar
}

// ResolverFunc is a simple function type that implements the Resolver
// interface.
type ResolverFunc func(string) (SearchResult, error)

var _ Resolver = ResolverFunc(nil)

func (f ResolverFunc) FindGrammarByPath(path string) (SearchResult, error) {
	return f(path)
}

// CompositeResolver is a slice of resolvers, which are consulted in
// order until one can supply a result. If none can, the error returned
// by the first resolver is returned.
type CompositeResolver []Resolver

var _ Resolver = CompositeResolver(nil)

func (f CompositeResolver) FindGrammarByPath(path string) (SearchResult, error) {
	if len(f) == 0 {
		return SearchResult{}, ErrGrammarNotFound
	}
	var firstErr error
	for _, res := range f {
		r, err := res.FindGrammarByPath(path)
		if err == nil {
			return r, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return SearchResult{}, firstErr
}

// SourceResolver can resolve grammar names by searching the file
// system.
type SourceResolver struct {
	// Optional list of directories to search for the named grammar.
	// If empty, the name is treated as a path relative to the current
	// working directory.
	ImportPaths []string
	// Optional function for returning a grammar's contents. If nil,
	// the file system is queried.
	Accessor func(path string) (io.ReadCloser, error)
}

var _ Resolver = (*SourceResolver)(nil)

func (r *SourceResolver) FindGrammarByPath(path string) (SearchResult, error) {
	accessor := r.Accessor
	if accessor == nil {
		accessor = func(path string) (io.ReadCloser, error) {
			return os.Open(path)
		}
	}

	if len(r.ImportPaths) == 0 {
		reader, err := accessor(path)
		if err != nil {
			return SearchResult{}, err
		}
		return SearchResult{Source: reader}, nil
	}

	var e error
	for _, importPath := range r.ImportPaths {
		reader, err := accessor(filepath.Join(importPath, path))
		if err != nil {
			if os.IsNotExist(err) {
				e = err
				continue
			}
			return SearchResult{}, err
		}
		return SearchResult{Source: reader}, nil
	}
	return SearchResult{}, e
}

// ResolverFromSources returns a resolver that serves grammar sources
// from the given map, keyed by grammar name. Useful for tests and for
// embedding grammars in a program.
func ResolverFromSources(sources map[string]string) Resolver {
	return ResolverFunc(func(path string) (SearchResult, error) {
		src, ok := sources[path]
		if !ok {
			return SearchResult{}, ErrGrammarNotFound
		}
		return SearchResult{Source: strings.NewReader(src)}, nil
	})
}
