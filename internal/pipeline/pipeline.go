// Package pipeline orchestrates the front-end's passes in the strict order
// spec §5 mandates: Declare -> Resolve -> Check -> GenerateConstraints ->
// Unify -> Substitute -> Lower. Grounded on original_source/pass_manager.rs's
// PassManager, which runs an ordered list of passes over one root node and
// accumulates every pass's diagnostics into a single sink rather than
// aborting on the first failure — generalized here from a trait-object
// Vec<Box<dyn Pass>> to a fixed Go call sequence (spec §9 REDESIGN FLAGS:
// this repo prefers static dispatch over a runtime pass registry wherever
// the pass order is fixed at compile time anyway).
package pipeline

import (
	"github.com/google/uuid"

	"github.com/TheClonerx/gecko/internal/ast"
	"github.com/TheClonerx/gecko/internal/cache"
	"github.com/TheClonerx/gecko/internal/checker"
	"github.com/TheClonerx/gecko/internal/config"
	"github.com/TheClonerx/gecko/internal/diagnostics"
	"github.com/TheClonerx/gecko/internal/ir"
	"github.com/TheClonerx/gecko/internal/lowerer"
	"github.com/TheClonerx/gecko/internal/resolver"
)

// Result is everything a single Run produced: the run's correlation ID
// (pass_manager.rs has no equivalent, since the original only ever
// compiled one unit per process invocation; a driver batching several
// units in one process needs something to tell their diagnostics apart),
// the accumulated diagnostics, and the lowered module when lowering ran.
type Result struct {
	RunID       uuid.UUID
	Diagnostics *diagnostics.Bag
	Module      *ir.Module // nil if Diagnostics.HasErrors() after Check.
}

// Pipeline runs the ordered pass sequence over one parsed program. It owns
// no mutable state of its own beyond its configuration — every pass
// allocates its own Cache/Bag/TypeContext per Run, so a single Pipeline
// value is safe to reuse across unrelated compiles (spec §5: "Non-goals:
// ... parallel pass execution" rules out sharing one run's state across
// concurrent Runs, but sequential reuse is fine).
type Pipeline struct {
	Config config.PipelineConfig
}

// New builds a Pipeline with cfg, or config.Default() if cfg is the zero
// value's EntryPoint ("").
func New(cfg config.PipelineConfig) *Pipeline {
	if cfg.EntryPoint == "" {
		cfg = config.Default()
	}
	return &Pipeline{Config: cfg}
}

// Run drives prog through every pass in order, stopping before Lower if
// the diagnostic bag already holds an Error (pass_manager.rs has no such
// short-circuit — it always runs every registered pass — but spec §5
// explicitly requires it: "lowering only runs if Diagnostics.has_errors()
// is false after checking"). CheckEntryPoint runs right after names
// resolve, the same way entry_point_check_pass.rs is its own standalone
// pass rather than a rule folded into the general Check pass.
func (p *Pipeline) Run(prog *ast.Program) Result {
	runID := uuid.New()
	diags := diagnostics.NewBag()
	c := cache.New()

	// Declare + Resolve (spec §4.2's two-pass algorithm; this
	// implementation folds declare/resolve into one exported entry point
	// rather than exposing the intermediate declare-only state, since
	// nothing outside internal/resolver needs to observe it).
	resolver.ResolveProgram(c, diags, prog)
	if diags.HasErrors() {
		// Check assumes every Pattern/Stub already carries a resolved
		// BindingId; running it over a program the resolver rejected
		// would mean looking up bindings that were never filled in. The
		// checker's own tests gate identically (see checker_test.go's
		// run helper), so this isn't a pipeline-only rule invented here.
		return Result{RunID: runID, Diagnostics: diags}
	}

	// CheckEntryPoint runs as its own pass once names are resolved, the
	// same way entry_point_check_pass.rs is a standalone pass rather than
	// a rule folded into the general Check pass — so a caller that only
	// wants entry-point validation can run it without the rest of Check.
	CheckEntryPoint(c, diags, prog, p.Config)

	// Check + GenerateConstraints + Unify + Substitute: checker.Run walks
	// every top-level statement with InferType (which both validates and
	// records equality constraints for omitted annotations) and then
	// solves and substitutes in one call.
	tc := checker.Run(c, diags, prog)

	if diags.HasErrors() {
		return Result{RunID: runID, Diagnostics: diags}
	}

	mod := lowerer.Lower(tc, prog)
	return Result{RunID: runID, Diagnostics: diags, Module: mod}
}
