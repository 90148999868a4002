package console

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// Scripted replays canned answers and records everything it is asked to print.
// It is used by the serverless entrypoint and by tests.
type Scripted struct {
	answers   []string
	questions []string
	out       strings.Builder
}

var _ Console = (*Scripted)(nil)

func NewScripted(answers ...string) *Scripted {
	return &Scripted{answers: answers}
}

func (s *Scripted) Ask(ctx context.Context, question string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.questions = append(s.questions, question)
	s.out.WriteString(question)
	if len(s.answers) == 0 {
		return "", io.EOF
	}
	answer := s.answers[0]
	s.answers = s.answers[1:]
	s.out.WriteString(answer + "\n")
	return answer, nil
}

func (s *Scripted) Println(a ...any) { fmt.Fprintln(&s.out, a...) }

func (s *Scripted) Printf(format string, a ...any) { fmt.Fprintf(&s.out, format, a...) }

// Output is the full transcript so far, answers included.
func (s *Scripted) Output() string { return s.out.String() }

// Questions returns the questions asked so far, in order.
func (s *Scripted) Questions() []string { return s.questions }
