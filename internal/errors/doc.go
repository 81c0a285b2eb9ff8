// Package apperrors defines the structured error types of the gctrace
// command (configuration, input and output failures) and maps them to
// process exit codes.
//
// Trace lines that fail to match the grammar are not errors anywhere in the
// application; they are skipped by the parser. The types here only cover
// failures of the surrounding tool.
//
// All wrapping types implement Unwrap so errors.Is and errors.As see through
// them.
package apperrors
