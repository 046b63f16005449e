package ast

import "fmt"

// UnknownNodeKindError is the value of the panic raised when code that
// dispatches on expression node kinds encounters a concrete type it
// does not know. Such a panic always indicates a bug: either a new
// node kind was added without updating all dispatch sites, or a
// foreign implementation of Expr was passed in.
type UnknownNodeKindError struct {
	Node Node
}

func (e *UnknownNodeKindError) Error() string {
	return fmt.Sprintf("unknown AST node kind: %T", e.Node)
}
