package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLineDiff(t *testing.T) {
	tests := []struct {
		name   string
		before string
		after  string
		want   string
	}{
		{
			name:   "equal",
			before: "a\nb\n",
			after:  "a\nb\n",
			want:   "",
		},
		{
			name:   "changed_line",
			before: "a\nb\nc\n",
			after:  "a\nB\nc\n",
			want:   "-b\n+B\n",
		},
		{
			name:   "no_trailing_newline",
			before: "x",
			after:  "y",
			want:   "-x\n+y\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LineDiff(tt.before, tt.after))
		})
	}
}

func TestExpandShortcodes(t *testing.T) {
	assert.Equal(t, "'\U0001F527': ['wrench',", ExpandShortcodes("':wrench:': ['wrench',"))
	assert.Equal(t, "keep :not_a_real_code_xyz: as is", ExpandShortcodes("keep :not_a_real_code_xyz: as is"))
	assert.Equal(t, "plain", ExpandShortcodes("plain"))
}

func TestLookupShortcode(t *testing.T) {
	for _, code := range []string{"wrench", ":wrench:"} {
		got, ok := LookupShortcode(code)
		assert.True(t, ok, code)
		assert.Equal(t, "\U0001F527", got, code)
	}

	_, ok := LookupShortcode("not_a_real_code_xyz")
	assert.False(t, ok)
}
