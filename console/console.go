// Package console is the line-oriented channel between a session and its user.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// Console asks line-based questions and prints informational text.
type Console interface {
	// Ask prints question and returns the next input line without its line
	// terminator. It returns io.EOF once input is exhausted.
	Ask(ctx context.Context, question string) (string, error)
	Println(a ...any)
	Printf(format string, a ...any)
}

// Terminal reads answers from an io.Reader and writes everything else to an io.Writer.
type Terminal struct {
	in  *bufio.Reader
	out io.Writer
}

var _ Console = (*Terminal)(nil)

func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: bufio.NewReader(in), out: out}
}

func (t *Terminal) Ask(ctx context.Context, question string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fmt.Fprint(t.out, question)

	line, err := t.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (t *Terminal) Println(a ...any) { fmt.Fprintln(t.out, a...) }

func (t *Terminal) Printf(format string, a ...any) { fmt.Fprintf(t.out, format, a...) }
