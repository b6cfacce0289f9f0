// AngelaMos | 2026
// sanitize_test.go

package core

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

func TestSanitizeText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		max   int
		want  string
	}{
		{
			name:  "plain text untouched",
			input: "I want to join because the clan is active",
			max:   100,
			want:  "I want to join because the clan is active",
		},
		{
			name:  "strips html tags",
			input: "<script>alert(1)</script>hello",
			max:   100,
			want:  "alert(1)hello",
		},
		{
			name:  "strips sql comment tokens",
			input: "abc;def--ghi",
			max:   100,
			want:  "abc def ghi",
		},
		{
			name:  "strips block comments",
			input: "a/*hidden*/b",
			max:   100,
			want:  "a hidden b",
		},
		{
			name:  "strips quotes and control characters",
			input: "it's\nfine",
			max:   100,
			want:  "it s fine",
		},
		{
			name:  "caps length",
			input: "abcdefghij",
			max:   4,
			want:  "abcd",
		},
		{
			name:  "caps length on a rune boundary",
			input: strings.Repeat("é", 7),
			max:   11,
			want:  strings.Repeat("é", 5),
		},
		{
			name:  "trims surrounding whitespace",
			input: "  hello  ",
			max:   100,
			want:  "hello",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeText(tt.input, tt.max)
			require.Equal(t, tt.want, got)
			require.True(t, utf8.ValidString(got))
		})
	}
}

func TestSanitizeTextPtr(t *testing.T) {
	require.Nil(t, SanitizeTextPtr(nil, 100))

	empty := "   "
	require.Nil(t, SanitizeTextPtr(&empty, 100))

	ok := "fine"
	got := SanitizeTextPtr(&ok, 100)
	require.NotNil(t, got)
	require.Equal(t, "fine", *got)
}
