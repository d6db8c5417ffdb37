package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrCancelled is returned by a validator to abandon the prompt.
var ErrCancelled = errors.New("cancelled")

// Reject is returned by a validator when the input should be refused. Ask
// prints the message and prompts again.
type Reject string

func (r Reject) Error() string {
	return string(r)
}

// Prompter reads answers line by line from an input stream.
type Prompter struct {
	r *bufio.Reader
	w io.Writer

	// pending is the read in flight; it outlives a cancelled Line.
	pending chan readResult
}

type readResult struct {
	line string
	err  error
}

// NewPrompter creates a prompter reading from r and printing prompts to w.
func NewPrompter(r io.Reader, w io.Writer) *Prompter {
	return &Prompter{r: bufio.NewReader(r), w: w}
}

// Line prints label and returns the next input line without its line
// terminator. A final line without a newline is returned normally; io.EOF
// is returned only when no input remains.
//
// Line returns ctx.Err() as soon as ctx is done, even while the read is
// blocked. The blocked read is picked up by the next call to Line.
func (p *Prompter) Line(ctx context.Context, label string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if label != "" {
		fmt.Fprint(p.w, label)
	}

	if p.pending == nil {
		ch := make(chan readResult, 1)
		p.pending = ch
		go func() {
			line, err := p.r.ReadString('\n')
			ch <- readResult{line: line, err: err}
		}()
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-p.pending:
		p.pending = nil
		if res.err != nil {
			if errors.Is(res.err, io.EOF) && res.line != "" {
				return trimEOL(res.line), nil
			}
			return "", res.err
		}
		return trimEOL(res.line), nil
	}
}

func trimEOL(s string) string {
	s = strings.TrimSuffix(s, "\n")
	return strings.TrimSuffix(s, "\r")
}

// Ask prompts with label until parse accepts the input.
//
// A Reject from parse prints the rejection and asks again. ErrCancelled and
// any other error, including io.EOF from the input and ctx.Err(), end the
// prompt and are returned to the caller.
func Ask[T any](ctx context.Context, p *Prompter, label string, parse func(string) (T, error)) (T, error) {
	for {
		line, err := p.Line(ctx, label)
		if err != nil {
			var zero T
			return zero, err
		}

		v, err := parse(line)
		if err == nil {
			return v, nil
		}
		var reject Reject
		if errors.As(err, &reject) {
			fmt.Fprintln(p.w, reject.Error())
			continue
		}
		var zero T
		return zero, err
	}
}
