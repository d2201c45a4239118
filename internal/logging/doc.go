// Package logging provides opt-in file-based logging with rotation for staticdex.
// When the --debug flag is set, structured logs are written to ~/.staticdex/logs/
// for debugging index builds and queries.
//
// By default (without --debug), logging goes to stderr only.
package logging
