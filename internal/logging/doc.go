// Package logger provides leveled, colored logging for the keywrap CLI.
//
// # Verbosity Levels
//
//   - --verbose: shows info messages
//   - --debug: shows info and debug messages
//
// Warnings and errors are always shown. All output goes to stderr so that
// stdout carries only command results such as envelopes.
//
// # Usage
//
//	log := logger.Logger{Verbose: verbose, Debug: debug}
//	log.Infof("unlocking %s", name)
//
// Logger satisfies keywrap.Logger and can be passed to keywrap.WithLogger.
// Never log passphrases, keys, or plaintext.
package logger
