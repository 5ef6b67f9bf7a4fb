package urlx

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapePathSegment(t *testing.T) {
	cases := []struct {
		input    string
		expected string
	}{
		// Alphanumerics remain the same.
		{"easyInput", "easyInput"},
		{"123", "123"},
		{"abC123zxY", "abC123zxY"},

		// The unreserved characters '.', '-', '~' and '_' remain the same.
		{"easy-input", "easy-input"},
		{"easy.input", "easy.input"},
		{"easy~input", "easy~input"},
		{"easy_input", "easy_input"},

		// The general delimiters '@' and ':' remain the same.
		{"easy@input", "easy@input"},
		{"easy:input", "easy:input"},

		// The sub-delimiters "!$&'()*+,;=" remain the same.
		{"easy!input", "easy!input"},
		{"easy$input", "easy$input"},
		{"easy&input", "easy&input"},
		{"easy'input", "easy'input"},
		{"easy(input)", "easy(input)"},
		{"easy*input", "easy*input"},
		{"easy+input", "easy+input"},
		{"easy,input", "easy,input"},
		{"easy;input", "easy;input"},
		{"easy=input", "easy=input"},

		// Spaces become %20.
		{"123 456", "123%20456"},
		{"123  456", "123%20%20456"},
		{" 123  456", "%20123%20%20456"},
		{"  123  456 ", "%20%20123%20%20456%20"},

		// Slashes and backslashes are escaped so identifiers cannot
		// introduce extra path segments.
		{"12\\3", "12%5C3"},
		{"12/3/4", "12%2F3%2F4"},
		{"?easy=input&other=value", "%3Feasy=input&other=value"},

		// Everything else is escaped per UTF-8 byte, uppercase hex.
		{"しんちゃん", "%E3%81%97%E3%82%93%E3%81%A1%E3%82%83%E3%82%93"},
		{"無料", "%E7%84%A1%E6%96%99"},
		{"abcdÈfghí", "abcd%C3%88fgh%C3%AD"},

		{"", ""},
	}

	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.expected, EscapePathSegment(tc.input))
		})
	}
}

func TestEscapePathSegmentIdentity(t *testing.T) {
	passthrough := "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789.-_~@:!$&'()*+,;="
	assert.Equal(t, passthrough, EscapePathSegment(passthrough))
}

func TestEscapePathSegmentStable(t *testing.T) {
	input := "my connector/v2 しんちゃん"
	first := EscapePathSegment(input)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, EscapePathSegment(input))
	}
	assert.False(t, strings.ContainsAny(first, " /\\"))
}
