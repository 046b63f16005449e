package codegen

import (
	"fmt"
	"regexp"
	"strings"
)

// vars maps template variable names to their substituted values. It is
// passed as the final argument to format.
type vars map[string]string

// UndefinedVariableError is the value of the panic raised when a
// template references a variable that the accompanying vars mapping
// does not define. It always indicates a bug in an emitter function.
type UndefinedVariableError struct {
	Name string
}

func (e *UndefinedVariableError) Error() string {
	return fmt.Sprintf("undefined variable: %q", e.Name)
}

// UnrecognizedFilterError is the value of the panic raised when a
// template applies a filter other than "string" to a variable. It
// always indicates a bug in an emitter function.
type UnrecognizedFilterError struct {
	Name string
}

func (e *UnrecognizedFilterError) Error() string {
	return fmt.Sprintf("unrecognized filter: %q", e.Name)
}

var placeholderRegexp = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?:\|([A-Za-z_][A-Za-z0-9_]*))?\}`)

var leadingWhitespaceRegexp = regexp.MustCompile(`^\s+`)

// format renders a code template. Each argument is a template part,
// except that the final argument may be a vars mapping supplying
// values for ${name} and ${name|filter} placeholders in the parts. The
// only recognized filter is "string", which renders the value as a
// quoted JavaScript string literal.
//
// After interpolation, any part that spans multiple lines has the
// whitespace prefix of its first line prepended to each of its
// subsequent lines, so a multi-line substitution inherits the
// indentation of the template line it occupies. The parts are then
// joined with newlines.
//
// Template problems (an undefined variable, an unknown filter, or a
// non-string part) are bugs in the caller, so format panics on them
// rather than returning an error.
func format(args ...interface{}) string {
	v := vars{}
	if len(args) > 0 {
		if last, ok := args[len(args)-1].(vars); ok {
			v = last
			args = args[:len(args)-1]
		}
	}

	parts := make([]string, len(args))
	for i, arg := range args {
		part, ok := arg.(string)
		if !ok {
			panic(fmt.Sprintf("format: part %d is %T, not string", i, arg))
		}
		parts[i] = indentMultiline(interpolate(part, v))
	}
	return strings.Join(parts, "\n")
}

func interpolate(part string, v vars) string {
	return placeholderRegexp.ReplaceAllStringFunc(part, func(match string) string {
		groups := placeholderRegexp.FindStringSubmatch(match)
		name, filter := groups[1], groups[2]
		value, ok := v[name]
		if !ok {
			panic(&UndefinedVariableError{Name: name})
		}
		switch filter {
		case "":
			return value
		case "string":
			return quoteJS(value)
		default:
			panic(&UnrecognizedFilterError{Name: filter})
		}
	})
}

func indentMultiline(part string) string {
	if !strings.Contains(part, "\n") {
		return part
	}
	lines := strings.Split(part, "\n")
	prefix := leadingWhitespaceRegexp.FindString(lines[0])
	for i := 1; i < len(lines); i++ {
		lines[i] = prefix + lines[i]
	}
	return strings.Join(lines, "\n")
}
