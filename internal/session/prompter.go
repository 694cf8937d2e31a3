package session

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Prompter asks the user for a line of input.
type Prompter interface {
	// Prompt returns the answer with surrounding whitespace removed, io.EOF
	// means the input was closed.
	Prompt(ctx context.Context, message string) (string, error)
}

// LinePrompter writes prompts to an io.Writer and reads answers one line at a
// time from an io.Reader.
type LinePrompter struct {
	out   io.Writer
	in    *bufio.Scanner
	once  *sync.Once
	lines chan string
	// closed once the reader is exhausted, err is set before
	done chan struct{}
	err  *error
}

func NewLinePrompter(in io.Reader, out io.Writer) LinePrompter {
	return LinePrompter{
		out:   out,
		in:    bufio.NewScanner(in),
		once:  &sync.Once{},
		lines: make(chan string),
		done:  make(chan struct{}),
		err:   new(error),
	}
}

// read runs until the reader is exhausted, a blocked read on a terminal
// can't be interrupted so Prompt selects on it instead.
func (p LinePrompter) read() {
	for p.in.Scan() {
		p.lines <- p.in.Text()
	}
	err := p.in.Err()
	if err == nil {
		err = io.EOF
	}
	*p.err = err
	close(p.done)
}

func (p LinePrompter) Prompt(ctx context.Context, message string) (string, error) {
	p.once.Do(func() {
		go p.read()
	})

	_, err := fmt.Fprint(p.out, message)
	if err != nil {
		return "", err
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case text := <-p.lines:
		return strings.TrimSpace(text), nil
	case <-p.done:
		return "", *p.err
	}
}
