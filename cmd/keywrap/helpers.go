package main

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/ai8future/keywrap"
	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const defaultRecord = "default"

var stdinReader *bufio.Reader

// recordName returns the record name from args, or the default.
func recordName(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return defaultRecord
}

// readPassphrase reads one passphrase, from stdin lines with --passphrase-stdin
// or from the terminal without echo otherwise.
func readPassphrase(cmd *cobra.Command, prompt string) ([]byte, error) {
	if passphraseStdin {
		if stdinReader == nil {
			stdinReader = bufio.NewReader(cmd.InOrStdin())
		}
		line, err := stdinReader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return nil, fmt.Errorf("failed to read passphrase from stdin: %w", err)
		}
		return []byte(strings.TrimRight(line, "\r\n")), nil
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, fmt.Errorf("cannot read passphrase: stdin is not a terminal (use --passphrase-stdin)")
	}

	fmt.Fprint(os.Stderr, prompt)
	passphrase, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("failed to read passphrase: %w", err)
	}
	return passphrase, nil
}

// readNewPassphrase reads a passphrase twice and requires both to match.
func readNewPassphrase(cmd *cobra.Command, prompt string) ([]byte, error) {
	first, err := readPassphrase(cmd, prompt)
	if err != nil {
		return nil, err
	}
	second, err := readPassphrase(cmd, "Confirm passphrase: ")
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(first, second) {
		return nil, errors.New("passphrases do not match")
	}
	return first, nil
}

// startSpinner shows a spinner on stderr while Argon2id runs, unless output
// is verbose or stderr is not a terminal. The returned func stops it.
func startSpinner(message string) func() {
	if Logger.Verbose || Logger.Debug || !term.IsTerminal(int(os.Stderr.Fd())) {
		Logger.Infof("%s", message)
		return func() {}
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + message
	if err := s.Color("cyan"); err != nil {
		Logger.Debugf("failed to set spinner color: %v", err)
	}
	s.Start()
	return s.Stop
}

// generateSalt returns a fresh random salt as base58 text.
func generateSalt() (string, error) {
	salt, err := keywrap.GenerateSalt()
	if err != nil {
		return "", err
	}
	return keywrap.EncodeKey(salt), nil
}

// userError maps library errors to the messages shown to the user.
func userError(err error) error {
	switch {
	case errors.Is(err, keywrap.ErrAuthenticationFailed):
		return errors.New("incorrect passphrase")
	case errors.Is(err, keywrap.ErrMalformedEnvelope), errors.Is(err, keywrap.ErrEncoding):
		return fmt.Errorf("stored envelope is unreadable: %w", err)
	default:
		return err
	}
}

func success(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintln(cmd.ErrOrStderr(), color.GreenString("✓")+" "+fmt.Sprintf(format, args...))
}
