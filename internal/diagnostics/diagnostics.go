// Package diagnostics is the pipeline's error-reporting surface, grounded
// on the teacher's diagnostics.DiagnosticError usage (internal/analyzer):
// passes record a *DiagnosticError and keep going rather than aborting
// (spec §7), and duplicate reports at the same site are folded.
package diagnostics

import (
	"fmt"

	"github.com/TheClonerx/gecko/internal/token"
)

// Severity is the level of a diagnostic.
type Severity int

const (
	Error Severity = iota
	Warning
	Info
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	default:
		return "info"
	}
}

// Code is a stable diagnostic identifier, stable across releases so tooling
// (editors, CI) can key off it instead of the message text.
type Code string

// Resolution diagnostics (spec §7 category 2).
const (
	Redefinition       Code = "R001"
	UndefinedReference Code = "R002"
	ThisOutsideImpl    Code = "R003"
	InvalidAbsolutePath Code = "R004"
)

// Type diagnostics (spec §7 category 3).
const (
	TypeMismatch            Code = "T001"
	NotCallable              Code = "T002"
	ArgCountMismatch         Code = "T003"
	InvalidAssignee          Code = "T004"
	ImmutableAssignee        Code = "T005"
	DerefOutsideUnsafe       Code = "T006"
	ExternCallOutsideUnsafe  Code = "T007"
	VariadicOnNonExtern      Code = "T008"
	MainSignature            Code = "T009"
	TraitMethodMissing       Code = "T010"
	TraitPrototypeMismatch   Code = "T011"
	CycleInTypeAlias         Code = "T012"
	TypeInferenceFailure     Code = "T013"
	LoopControlOutsideLoop   Code = "T014"
)

// DiagnosticError is a single reported problem, tagged with its source
// span and severity (spec §6: "a list of diagnostics tagged with source
// spans and severities").
type DiagnosticError struct {
	Code     Code
	Span     token.Span
	Message  string
	Severity Severity
}

func NewError(code Code, span token.Span, message string) *DiagnosticError {
	return &DiagnosticError{Code: code, Span: span, Message: message, Severity: Error}
}

func NewWarning(code Code, span token.Span, message string) *DiagnosticError {
	return &DiagnosticError{Code: code, Span: span, Message: message, Severity: Warning}
}

func (e *DiagnosticError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s: [%s] %s",
		"<unit>", e.Span.Start.Line, e.Span.Start.Column, e.Severity, e.Code, e.Message)
}

// dedupKey is how the Bag folds repeated reports of the same problem at the
// same site, mirroring the teacher's "line:col:code" dedup key.
func (e *DiagnosticError) dedupKey() string {
	return fmt.Sprintf("%d:%d:%s", e.Span.Start.Line, e.Span.Start.Column, e.Code)
}

// Bag is an append-only diagnostic sink. Passes never abort on a
// recoverable error (spec §7); they call Add and continue, letting a
// single run surface as many problems as possible.
type Bag struct {
	seen  map[string]bool
	items []*DiagnosticError
}

func NewBag() *Bag {
	return &Bag{seen: make(map[string]bool)}
}

// Add records a diagnostic, silently folding an exact duplicate (same
// site, same code).
func (b *Bag) Add(e *DiagnosticError) {
	key := e.dedupKey()
	if b.seen[key] {
		return
	}
	b.seen[key] = true
	b.items = append(b.items, e)
}

// Errorf is a convenience that builds and adds an Error-severity diagnostic.
func (b *Bag) Errorf(code Code, span token.Span, format string, args ...interface{}) {
	b.Add(NewError(code, span, fmt.Sprintf(format, args...)))
}

// Warnf is the Warning-severity equivalent of Errorf.
func (b *Bag) Warnf(code Code, span token.Span, format string, args ...interface{}) {
	b.Add(NewWarning(code, span, fmt.Sprintf(format, args...)))
}

func (b *Bag) Items() []*DiagnosticError {
	return b.items
}

// HasErrors reports whether any Error-severity diagnostic was recorded.
// Any Error before lowering suppresses lowering (spec §7).
func (b *Bag) HasErrors() bool {
	for _, it := range b.items {
		if it.Severity == Error {
			return true
		}
	}
	return false
}

// ExitCode implements the stable diagnostics surface from spec §6: 0 iff no
// Error-severity diagnostic was emitted.
func (b *Bag) ExitCode() int {
	if b.HasErrors() {
		return 1
	}
	return 0
}

// ICE represents an internal-compiler-error (spec §7 category 4): a
// violated invariant (missing cache entry, missing target id, an
// unreachable AST/type shape reaching the lowerer). These are fatal and
// carry a distinguished exit code distinct from an ordinary compile
// failure, so a driver can tell "your program has a bug" apart from "the
// compiler has a bug".
type ICE struct {
	Reason string
}

func (e *ICE) Error() string {
	return "internal compiler error: " + e.Reason
}

// ICEExitCode is the distinguished process exit code for an ICE, separate
// from the ordinary non-zero exit code used for Error diagnostics.
const ICEExitCode = 70

// NewICE builds an ICE error; callers typically panic(NewICE(...)) from
// deep inside the lowerer. internal/pipeline does not recover it, so the
// panic propagates out of Pipeline.Run and aborts the current unit
// outright rather than being recorded and continued past.
func NewICE(format string, args ...interface{}) *ICE {
	return &ICE{Reason: fmt.Sprintf(format, args...)}
}
