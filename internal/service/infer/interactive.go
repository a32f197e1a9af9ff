package infer

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// SessionState is the interactive loop's position in its input protocol.
type SessionState int

const (
	// AwaitingFirstLine: nothing collected for the current board yet.
	AwaitingFirstLine SessionState = iota
	// Accumulating: at least one board line collected.
	Accumulating
	// ReadyToGenerate: a blank line closed the board; generation in flight.
	ReadyToGenerate
	// Terminated: the user typed quit or input ended.
	Terminated
)

// quitWord ends the session from any collecting state.
const quitWord = "quit"

// InteractiveSession collects a board state line by line from a terminal,
// runs the harness on it, prints the classified result, and loops until
// explicit termination.
type InteractiveSession struct {
	harness *Harness
	in      *bufio.Scanner
	out     io.Writer
	state   SessionState
	lines   []string
}

// NewInteractiveSession wires the loop to an input and output stream.
func NewInteractiveSession(h *Harness, in io.Reader, out io.Writer) *InteractiveSession {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	return &InteractiveSession{
		harness: h,
		in:      scanner,
		out:     out,
		state:   AwaitingFirstLine,
	}
}

// State reports the current machine state.
func (s *InteractiveSession) State() SessionState { return s.state }

// Run drives the loop until termination. End of input counts as quitting.
func (s *InteractiveSession) Run(ctx context.Context) error {
	fmt.Fprintln(s.out, "Interactive mode — paste a board state, then press Enter twice to generate.")
	fmt.Fprintf(s.out, "Type '%s' to exit.\n\n", quitWord)

	for s.state != Terminated {
		if s.state == AwaitingFirstLine {
			fmt.Fprintln(s.out, "Board state (empty line to submit):")
		}
		if !s.in.Scan() {
			s.state = Terminated
			break
		}
		if err := s.Feed(ctx, s.in.Text()); err != nil {
			return err
		}
	}
	return s.in.Err()
}

// Feed advances the machine by one input line. Exposed as a step function so
// the transition table is testable without a terminal.
func (s *InteractiveSession) Feed(ctx context.Context, line string) error {
	if s.state == Terminated {
		return nil
	}
	if line == quitWord {
		s.state = Terminated
		return nil
	}
	if line != "" {
		s.lines = append(s.lines, line)
		s.state = Accumulating
		return nil
	}

	// Blank line with nothing collected: stay put, never generate on an
	// empty board.
	if len(s.lines) == 0 {
		s.state = AwaitingFirstLine
		return nil
	}

	s.state = ReadyToGenerate
	board := strings.Join(s.lines, "\n")
	s.lines = nil

	resp, err := s.harness.RunBoard(ctx, board)
	if err != nil {
		return err
	}

	fmt.Fprintln(s.out, "\n--- Model Output ---")
	fmt.Fprintln(s.out, resp.Raw)
	fmt.Fprintln(s.out, resp.Report())
	fmt.Fprintln(s.out)

	s.state = AwaitingFirstLine
	return nil
}
