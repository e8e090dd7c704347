package logic

import (
	"errors"
	"fmt"
	"os"
	"os/signal"

	"golang.org/x/term"
)

var (
	// ErrNoTerminal is returned when a password prompt is requested without a terminal.
	ErrNoTerminal = errors.New("password prompt requires a terminal")
	// ErrCancelled is returned when the user interrupts a prompt.
	ErrCancelled = errors.New("operation cancelled by user")
)

// PasswordReader prompts for a password without echoing it.
type PasswordReader func(prompt string) ([]byte, error)

// TerminalPassword reads a password from the controlling terminal on stdin.
// An interrupt restores the terminal and returns ErrCancelled.
func TerminalPassword(prompt string) ([]byte, error) {
	fd := int(os.Stdin.Fd()) //nolint:gosec // file descriptors fit in int
	if !term.IsTerminal(fd) {
		return nil, ErrNoTerminal
	}

	state, err := term.GetState(fd)
	if err != nil {
		return nil, fmt.Errorf("reading terminal state: %w", err)
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	defer signal.Stop(interrupt)

	type reply struct {
		password []byte
		err      error
	}

	done := make(chan reply, 1)

	fmt.Fprint(os.Stderr, prompt)

	go func() {
		password, err := term.ReadPassword(fd)
		done <- reply{password, err}
	}()

	select {
	case r := <-done:
		fmt.Fprintln(os.Stderr)

		if r.err != nil {
			return nil, fmt.Errorf("reading from terminal: %w", r.err)
		}

		return r.password, nil
	case <-interrupt:
		term.Restore(fd, state) //nolint:errcheck,gosec // best effort before exiting
		fmt.Fprintln(os.Stderr)

		return nil, ErrCancelled
	}
}
