package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// IsTerminal reports whether r is an interactive terminal. The terminal UI
// is only used when both ends of the session are terminals.
func IsTerminal(r interface{}) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Start runs a line-oriented session: it prints the prompt, reads a line,
// prints the result and repeats until "exit" or end of input.
func Start(ctx context.Context, in io.Reader, out io.Writer, sess *Session) error {
	scanner := bufio.NewScanner(in)

	for {
		fmt.Fprint(out, Prompt)

		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		line := scanner.Text()
		if IsExit(line) {
			return nil
		}

		result, err := sess.Eval(ctx, line)
		if err != nil {
			return fmt.Errorf("evaluate line %d: %w", sess.Lines(), err)
		}
		io.WriteString(out, result)
	}
}
