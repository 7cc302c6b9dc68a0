package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/signal"
)

// Answer is the tagged result of a single input request. A cancelled
// answer carries no text.
type Answer struct {
	Text      string
	Cancelled bool
}

// InputSource obtains one line of user input per call. Implementations
// block until a line, an interrupt, or end of input arrives.
type InputSource interface {
	ReadLine(prompt string) Answer
}

type readResult struct {
	text string
	err  error
}

// ConsoleInput reads lines from a reader and converts interrupts and end
// of input into cancelled answers.
type ConsoleInput struct {
	out       io.Writer
	lines     chan readResult
	interrupt chan os.Signal
}

// NewConsoleInput starts a reader goroutine over in and subscribes to
// interrupt signals. Call Close to release the signal subscription.
func NewConsoleInput(in io.Reader, out io.Writer) *ConsoleInput {
	c := &ConsoleInput{
		out:       out,
		lines:     make(chan readResult),
		interrupt: make(chan os.Signal, 1),
	}
	signal.Notify(c.interrupt, os.Interrupt)
	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			c.lines <- readResult{text: scanner.Text()}
		}
		err := scanner.Err()
		if err == nil {
			err = io.EOF
		}
		c.lines <- readResult{err: err}
		close(c.lines)
	}()
	return c
}

// ReadLine displays the prompt and blocks until a line, an interrupt, or
// end of input. Interrupt and end of input both resolve to Cancelled.
func (c *ConsoleInput) ReadLine(prompt string) Answer {
	fmt.Fprint(c.out, prompt)
	select {
	case res, ok := <-c.lines:
		if !ok || res.err != nil {
			fmt.Fprintln(c.out)
			return Answer{Cancelled: true}
		}
		return Answer{Text: res.text}
	case <-c.interrupt:
		fmt.Fprintln(c.out)
		return Answer{Cancelled: true}
	}
}

// Close stops interrupt delivery to this input source.
func (c *ConsoleInput) Close() {
	signal.Stop(c.interrupt)
}
