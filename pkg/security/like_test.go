package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeLike(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "plain text", input: "john", want: "john"},
		{name: "percent", input: "100%", want: `100\%`},
		{name: "underscore", input: "a_b", want: `a\_b`},
		{name: "backslash", input: `C:\dir`, want: `C:\\dir`},
		{name: "sql looking text stays literal", input: "john' OR 1=1 --", want: "john' OR 1=1 --"},
		{name: "plus sign in phone", input: "+1234", want: "+1234"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EscapeLike(tt.input))
		})
	}
}

func TestContainsPattern(t *testing.T) {
	assert.Equal(t, "%%", ContainsPattern(""))
	assert.Equal(t, "%doe%", ContainsPattern("doe"))
	assert.Equal(t, `%50\%%`, ContainsPattern("50%"))
}
