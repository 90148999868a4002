package console

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTerminal_Ask(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []string
		wantErr error
	}{
		{name: "unix lines", input: "rita\nyes\n", want: []string{"rita", "yes"}, wantErr: io.EOF},
		{name: "windows lines", input: "rita\r\nno\r\n", want: []string{"rita", "no"}, wantErr: io.EOF},
		{name: "last line without newline", input: "rita", want: []string{"rita"}, wantErr: io.EOF},
		{name: "empty input", input: "", want: nil, wantErr: io.EOF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			term := NewTerminal(strings.NewReader(tt.input), &out)

			var got []string
			for {
				line, err := term.Ask(context.Background(), "? ")
				if err != nil {
					assert.ErrorIs(t, err, tt.wantErr)
					break
				}
				got = append(got, line)
			}
			assert.Equal(t, tt.want, got)
			assert.True(t, strings.HasPrefix(out.String(), "? "))
		})
	}
}

func TestTerminal_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	_, err := NewTerminal(strings.NewReader("rita\n"), &out).Ask(ctx, "? ")
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, out.String())
}

func TestTerminal_Print(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(strings.NewReader(""), &out)
	term.Println("hello", "there")
	term.Printf("%d items\n", 3)
	assert.Equal(t, "hello there\n3 items\n", out.String())
}

func TestScripted(t *testing.T) {
	s := NewScripted("rita", "no")
	ctx := context.Background()

	a, err := s.Ask(ctx, "User ID: ")
	require.NoError(t, err)
	assert.Equal(t, "rita", a)

	s.Println("Welcome")

	a, err = s.Ask(ctx, "Grocery list? ")
	require.NoError(t, err)
	assert.Equal(t, "no", a)

	_, err = s.Ask(ctx, "Again? ")
	assert.ErrorIs(t, err, io.EOF)

	assert.Equal(t, []string{"User ID: ", "Grocery list? ", "Again? "}, s.Questions())
	assert.Equal(t, "User ID: rita\nWelcome\nGrocery list? no\nAgain? ", s.Output())
}
