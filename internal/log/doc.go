// Package log provides structured logging with automatic redaction of
// participant identifiers, built on top of the standard slog package.
//
// Experiment exports carry personal data: recruitment platform IDs attached
// to every timeline step and free-text answers typed by participants. The
// RedactHandler masks these values before they reach any output, so log
// files can be shared without leaking who took part or what they wrote.
//
// Values are masked when:
//   - the attribute key names an identifier (subject, prolific_pid, worker_id, ...)
//   - the attribute key names free text (description, answer, response_text)
//   - a string value looks like a Prolific ID (24 lowercase hex characters)
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, verbose)
//	logger.Warn("no passed comprehension quiz",
//	    "uid", 3,
//	    "subject", ev.Subject, // logged as "***REDACTED***"
//	)
package log
