// Package config holds process-wide constants and the pipeline's loadable
// settings, mirroring the teacher's internal/config/constants.go: a small
// set of package-level values and pure helpers rather than a heavyweight
// configuration object threaded everywhere.
package config

// Version is the current gecko front-end version.
var Version = "0.1.0"

// SourceFileExt is the canonical source extension.
const SourceFileExt = ".gk"

// SourceFileExtensions are all recognized source file extensions.
var SourceFileExtensions = []string{".gk", ".gecko"}

// DefaultEntryPoint is the function name the entry-point check (spec §4.3,
// "Function: if name = main...") looks for when PipelineConfig.EntryPoint
// is unset.
const DefaultEntryPoint = "main"

// IsTestMode indicates the process is running under the test harness. Set
// once at startup, following the teacher's config.IsTestMode convention.
var IsTestMode = false
