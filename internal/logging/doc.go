// Package logging provides the structured logger used by gctrace. It hides
// zerolog behind a small Logger interface so components can log fields
// without depending on a specific backend, and offers a stdlib adapter for
// callers that already own a *log.Logger.
package logging
