package tools

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringList(t *testing.T) {
	tests := []struct {
		name   string
		in     any
		want   []string
		wantOK bool
	}{
		{name: "any list", in: []any{"a", "b"}, want: []string{"a", "b"}, wantOK: true},
		{name: "string list", in: []string{"a"}, want: []string{"a"}, wantOK: true},
		{name: "numbers are formatted", in: []any{"eggs", 2, 1.5}, want: []string{"eggs", "2", "1.5"}, wantOK: true},
		{name: "nil entries skipped", in: []any{nil, "x"}, want: []string{"x"}, wantOK: true},
		{name: "not a list", in: "eggs", want: nil, wantOK: false},
		{name: "missing", in: nil, want: nil, wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := StringList(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInt(t *testing.T) {
	tests := []struct {
		name   string
		in     any
		want   int
		wantOK bool
	}{
		{name: "int", in: 3, want: 3, wantOK: true},
		{name: "int64", in: int64(4), want: 4, wantOK: true},
		{name: "whole float", in: 2.0, want: 2, wantOK: true},
		{name: "fractional float", in: 2.5, want: 2, wantOK: false},
		{name: "json number", in: json.Number("5"), want: 5, wantOK: true},
		{name: "numeric string", in: " 6 ", want: 6, wantOK: true},
		{name: "garbage string", in: "six", want: 0, wantOK: false},
		{name: "missing", in: nil, want: 0, wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Int(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
