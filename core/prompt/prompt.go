// Package prompt reads line-based answers from a terminal.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/x/term"
)

// Prompter asks the user a question and returns the answer without the line terminator.
type Prompter interface {
	Ask(question string) (string, error)
	// AskSecret behaves like Ask but does not echo the answer when reading from a terminal.
	AskSecret(question string) (string, error)
}

// Terminal is a Prompter over an input stream and an output writer.
// It owns the input for its lifetime; Close releases it.
type Terminal struct {
	in     io.Reader
	reader *bufio.Reader
	out    io.Writer
}

// NewTerminal returns a prompter reading from in and writing questions to out.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: in, reader: bufio.NewReader(in), out: out}
}

func (t *Terminal) Ask(question string) (string, error) {
	if _, err := fmt.Fprint(t.out, question); err != nil {
		return "", fmt.Errorf("failed to write prompt: %w", err)
	}
	line, err := t.reader.ReadString('\n')
	if err != nil {
		// a final line without a newline still counts as an answer
		if errors.Is(err, io.EOF) && line != "" {
			return trimEOL(line), nil
		}
		return "", fmt.Errorf("failed to read answer: %w", err)
	}
	return trimEOL(line), nil
}

func (t *Terminal) AskSecret(question string) (string, error) {
	fd, ok := t.terminalFd()
	// buffered input would be skipped by a raw read, so only go raw with an empty buffer
	if !ok || t.reader.Buffered() > 0 {
		return t.Ask(question)
	}
	if _, err := fmt.Fprint(t.out, question); err != nil {
		return "", fmt.Errorf("failed to write prompt: %w", err)
	}
	b, err := term.ReadPassword(fd)
	_, _ = fmt.Fprintln(t.out)
	if err != nil {
		return "", fmt.Errorf("failed to read secret: %w", err)
	}
	return trimEOL(string(b)), nil
}

// Close releases the input if it is closable and not one of the standard streams.
func (t *Terminal) Close() error {
	c, ok := t.in.(io.Closer)
	if !ok || t.in == os.Stdin {
		return nil
	}
	return c.Close()
}

func (t *Terminal) terminalFd() (uintptr, bool) {
	f, ok := t.in.(interface{ Fd() uintptr })
	if !ok {
		return 0, false
	}
	fd := f.Fd()
	return fd, term.IsTerminal(fd)
}

func trimEOL(s string) string {
	return strings.TrimRight(s, "\r\n")
}
