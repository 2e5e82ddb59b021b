// Package logging configures structured logging for doconsole.
//
// It builds log/slog loggers with either a human-oriented console handler or
// a JSON handler, fans output across multiple writers, and stamps every
// record with the session identifier so interleaved logs from concurrent
// commands remain attributable.
package logging
