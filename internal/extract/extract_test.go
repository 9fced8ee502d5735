package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "output_text with escaped newline",
			body: `{"output_text":"hi\nthere"}`,
			want: "hi\nthere",
		},
		{
			name: "text fallback",
			body: `{"text":"ok"}`,
			want: "ok",
		},
		{
			name: "not json",
			body: "not json at all",
			want: "not json at all",
		},
		{
			name: "output_text preferred over earlier text",
			body: `{"text":"first","output_text":"second"}`,
			want: "second",
		},
		{
			name: "whitespace after colon",
			body: "{\"output_text\" : \t \"spaced\"}",
			want: "spaced",
		},
		{
			name: "escaped quotes do not end the value",
			body: `{"output_text":"say \"hi\" now","x":1}`,
			want: `say "hi" now`,
		},
		{
			name: "escaped backslash before closing quote",
			body: `{"output_text":"C:\\dir\\"}`,
			want: `C:\dir\`,
		},
		{
			name: "tabs and carriage returns",
			body: `{"output_text":"a\tb\r\nc"}`,
			want: "a\tb\r\nc",
		},
		{
			name: "unknown escape keeps the character",
			body: `{"output_text":"a\/b \u00e9"}`,
			want: "a/b u00e9",
		},
		{
			name: "responses api message shape",
			body: `{"output":[{"type":"message","content":[{"type": "output_text", "text": "Hello!", "annotations": []}]}]}`,
			want: "Hello!",
		},
		{
			name: "non string value",
			body: `{"output_text":null,"other":"x"}`,
			want: `{"output_text":null,"other":"x"}`,
		},
		{
			name: "unterminated string",
			body: `{"output_text":"never closed`,
			want: `{"output_text":"never closed`,
		},
		{
			name: "trailing backslash",
			body: `{"text":"oops\`,
			want: `{"text":"oops\`,
		},
		{
			name: "marker without colon",
			body: `"output_text"`,
			want: `"output_text"`,
		},
		{
			name: "empty value",
			body: `{"output_text":""}`,
			want: "",
		},
		{
			name: "empty body",
			body: "",
			want: "",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Text(tt.body))
		})
	}
}
