// Package extract pulls the answer text out of a responses endpoint reply.
//
// It is a narrow scanner, not a JSON parser: it finds the first string value
// of an "output_text" field (or, failing that, a "text" field) and unescapes
// it. When the reply does not have that shape the body is returned unchanged.
package extract

import (
	"strings"

	"github.com/metalagman/milli-ai/internal/payload"
)

var markers = []string{`"output_text"`, `"text"`}

type state int

const (
	seekingMarker state = iota
	seekingColon
	seekingQuote
	inString
	done
)

// Text returns the unescaped answer found in body, or body itself.
func Text(body string) string {
	value, ok := scan(body)
	if !ok {
		return body
	}
	return payload.Unescape(value)
}

// scan returns the raw (still escaped) string value that follows the first
// matching marker.
func scan(body string) (string, bool) {
	var (
		st      = seekingMarker
		pos     int
		start   int
		escaped bool
	)
	for st != done {
		switch st {
		case seekingMarker:
			idx := findMarker(body)
			if idx < 0 {
				return "", false
			}
			pos = idx
			st = seekingColon

		case seekingColon:
			idx := strings.IndexByte(body[pos:], ':')
			if idx < 0 {
				return "", false
			}
			pos += idx + 1
			st = seekingQuote

		case seekingQuote:
			for pos < len(body) && (body[pos] == ' ' || body[pos] == '\t') {
				pos++
			}
			if pos >= len(body) || body[pos] != '"' {
				return "", false
			}
			pos++
			start = pos
			st = inString

		case inString:
			if pos >= len(body) {
				return "", false
			}
			c := body[pos]
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				st = done
				continue
			}
			pos++
		}
	}
	return body[start:pos], true
}

func findMarker(body string) int {
	for _, m := range markers {
		if idx := strings.Index(body, m); idx >= 0 {
			return idx
		}
	}
	return -1
}
