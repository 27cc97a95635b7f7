// Package indexa provides a persistent, incrementally searchable index of a
// filesystem tree: a parallel crawler that builds an immutable Database, a
// compiled Matcher for literal or regular-expression queries, a QueryEngine
// that evaluates a Matcher over a Database in parallel with cancellation,
// and a binary Persistence format to save and reload a Database.
//
// The terminal UI, CLI argument parsing, and user-config-file loading that
// typically drive this package are intentionally out of scope; this module
// only exposes the core building blocks.
package indexa
