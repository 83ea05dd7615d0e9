package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
)

// IO carries the streams a command reads from and writes to.
type IO struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer
}

// NewIO creates a new IO instance. in may be nil, in which case prompts answer "no".
func NewIO(in io.Reader, out, errOut io.Writer) *IO {
	return &IO{in: in, out: out, errOut: errOut}
}

// Println writes to stdout.
func (o *IO) Println(a ...any) {
	_, _ = fmt.Fprintln(o.out, a...)
}

// Printf writes formatted output to stdout.
func (o *IO) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(o.out, format, a...)
}

// ErrPrintln writes to stderr.
func (o *IO) ErrPrintln(a ...any) {
	_, _ = fmt.Fprintln(o.errOut, a...)
}

// Confirm asks a y/N question. Anything but "y" or "yes" is a no.
// On a terminal the prompt goes through liner, otherwise one line is read from in.
func (o *IO) Confirm(question string) (bool, error) {
	prompt := question + " [y/N] "

	var answer string
	switch {
	case o.in == nil:
		return false, nil
	case o.in == io.Reader(os.Stdin) && liner.TerminalSupported():
		line := liner.NewLiner()
		defer line.Close()
		line.SetCtrlCAborts(true)

		a, err := line.Prompt(prompt)
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("reading input: %w", err)
		}
		answer = a
	default:
		o.Printf("%s", prompt)
		a, err := bufio.NewReader(o.in).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return false, fmt.Errorf("reading input: %w", err)
		}
		o.Println()
		answer = a
	}

	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes", nil
}
