// Package ui provides terminal output components for the zpnet CLI.
//
// Styles are built per output stream with lipgloss, so reports piped to a
// file or another program carry no escape codes. While devices are queried
// a Bubble Tea spinner is shown on interactive terminals.
//
// # Components
//
//   - Printer: styled line output, warning lists and error boxes
//   - RunWithSpinner: runs a function behind a spinner, ^C aborts
//   - Countdown: a cancellable delay with a per-second callback
//
// # Logging Integration
//
// zap logging is controlled by --log-level or the ZPNET_LOG_LEVEL
// environment variable and writes to stderr. When unset the logger is
// silent, so the curated output on stdout stays clean.
package ui
