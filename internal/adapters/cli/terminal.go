package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/fatih/color"

	"github.com/example/revlint/internal/ports/secondary"
)

// Terminal implements the interaction ports on a plain terminal: prompts are
// read from in, alerts are written to out, and URLs are handed to an opener
// command or printed when no opener is configured.
type Terminal struct {
	in     *bufio.Reader
	out    io.Writer
	opener string
}

// NewTerminal creates a Terminal. opener may be empty.
func NewTerminal(in io.Reader, out io.Writer, opener string) *Terminal {
	return &Terminal{
		in:     bufio.NewReader(in),
		out:    out,
		opener: opener,
	}
}

// Confirm asks a yes/no question. Anything but y or yes declines, and so
// does end of input.
func (t *Terminal) Confirm(ctx context.Context, message string) (bool, error) {
	fmt.Fprintf(t.out, "%s [y/N]: ", message)
	line, err := t.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// Alert prints a titled message.
func (t *Terminal) Alert(ctx context.Context, title, message string) error {
	fmt.Fprintln(t.out, color.New(color.Bold).Sprint(title))
	fmt.Fprintln(t.out, message)
	return nil
}

// Open hands url to the opener command, or prints it.
func (t *Terminal) Open(ctx context.Context, url string) error {
	fields := strings.Fields(t.opener)
	if len(fields) == 0 {
		fmt.Fprintf(t.out, "Open: %s\n", color.New(color.FgCyan).Sprint(url))
		return nil
	}
	args := append(fields[1:], url)
	if out, err := exec.CommandContext(ctx, fields[0], args...).CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", fields[0], err, strings.TrimSpace(string(out)))
	}
	return nil
}

// Ensure Terminal implements the interfaces
var (
	_ secondary.Prompter  = (*Terminal)(nil)
	_ secondary.Notifier  = (*Terminal)(nil)
	_ secondary.Navigator = (*Terminal)(nil)
)
