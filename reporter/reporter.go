// Package reporter contains the types for reporting errors and
// warnings found while parsing and validating grammar sources, along
// with positions in the source that caused them.
package reporter

import (
	"sync"

	"github.com/pegcomp/pegcomp/ast"
)

// ErrorReporter is responsible for reporting the given error. If the
// reporter returns a non-nil error, compilation aborts with that error.
// If the reporter returns nil, compilation continues, allowing the
// parser to try to report as many errors as it can find.
type ErrorReporter func(err ErrorWithPos) error

// WarningReporter is responsible for reporting the given warning. This
// is used for indicating non-error messages to the calling program for
// things that do not cause compilation to fail but are considered bad
// practice, such as rules that can never be reached from the start
// rule. Though they are just warnings, the details are supplied to the
// reporter via an error type.
type WarningReporter func(ErrorWithPos)

// Reporter is a type that handles reporting both errors and warnings.
type Reporter interface {
	// Error is called when the given error is encountered and needs to
	// be reported to the calling program. If it returns a non-nil
	// error, the operation aborts immediately with that error.
	Error(ErrorWithPos) error
	// Warning is called when the given warning is encountered and
	// needs to be reported to the calling program.
	Warning(ErrorWithPos)
}

// NewReporter creates a new reporter that invokes the given functions
// on error or warning.
func NewReporter(errs ErrorReporter, warnings WarningReporter) Reporter {
	return reporterFuncs{errs: errs, warnings: warnings}
}

type reporterFuncs struct {
	errs     ErrorReporter
	warnings WarningReporter
}

func (r reporterFuncs) Error(err ErrorWithPos) error {
	if r.errs == nil {
		return err
	}
	return r.errs(err)
}

func (r reporterFuncs) Warning(err ErrorWithPos) {
	if r.warnings != nil {
		r.warnings(err)
	}
}

// Handler is used by the parser and validator to handle errors and
// warnings. A single Handler should not be used by multiple
// compilations running in parallel; each should get its own.
type Handler struct {
	reporter Reporter

	mu           sync.Mutex
	errsReported bool
	err          error
}

// NewHandler creates a new Handler that reports errors and warnings
// using the given reporter. If rep is nil, a default reporter is used
// that fails on the first error and ignores all warnings.
func NewHandler(rep Reporter) *Handler {
	if rep == nil {
		rep = NewReporter(nil, nil)
	}
	return &Handler{reporter: rep}
}

// HandleErrorf handles an error with the given source position,
// creating the error using the given message format and arguments.
//
// If the handler has already aborted (by returning a non-nil error
// from a previous call), that same error is returned and the given
// error is not reported.
func (h *Handler) HandleErrorf(pos ast.SourcePos, format string, args ...interface{}) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.err != nil {
		return h.err
	}
	h.errsReported = true
	err := h.reporter.Error(Errorf(pos, format, args...))
	h.err = err
	return err
}

// HandleError handles the given error. If the error is an
// ErrorWithPos, it is reported; otherwise it aborts immediately.
func (h *Handler) HandleError(err error) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.err != nil {
		return h.err
	}
	if ewp, ok := err.(ErrorWithPos); ok {
		h.errsReported = true
		err = h.reporter.Error(ewp)
	}
	h.err = err
	return err
}

// HandleWarning handles a warning with the given source position.
func (h *Handler) HandleWarning(pos ast.SourcePos, err error) {
	// no need for lock; warnings don't interact with mutable fields
	h.reporter.Warning(Error(pos, err))
}

// Error returns the handler result. If any errors have been reported
// then this returns a non-nil error. If the reporter never returned a
// non-nil error then ErrInvalidGrammar is returned. Otherwise, this
// returns the error returned by the handler's reporter (the same value
// returned by ReporterError).
func (h *Handler) Error() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.errsReported && h.err == nil {
		return ErrInvalidGrammar
	}
	return h.err
}

// ReporterError returns the error returned by the handler's reporter.
// If the reporter has either not been invoked or has not returned any
// non-nil value, then this returns nil.
func (h *Handler) ReporterError() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.err
}
