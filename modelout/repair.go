package modelout

import (
	"encoding/json"
	"strings"
)

// RepairBacktickFields rewrites field values delimited by backticks into
// properly escaped JSON strings. Models reach for backticks when a value
// spans lines or embeds quotes; the content between the backticks is taken
// verbatim and re-encoded with backslash, quote, and control-character
// escaping.
//
// The pass is idempotent: input without backtick-delimited values is
// returned unchanged, and backticks inside valid JSON strings are left
// alone.
func RepairBacktickFields(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	inString := false
	escaped := false

	for i := 0; i < len(text); i++ {
		c := text[i]

		if inString {
			b.WriteByte(c)
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
			b.WriteByte(c)
		case ':':
			b.WriteByte(c)
			j := i + 1
			for j < len(text) && (text[j] == ' ' || text[j] == '\t' || text[j] == '\n' || text[j] == '\r') {
				j++
			}
			if j >= len(text) || text[j] != '`' {
				continue
			}
			end := strings.IndexByte(text[j+1:], '`')
			if end < 0 {
				continue
			}
			value := text[j+1 : j+1+end]
			quoted, err := json.Marshal(value)
			if err != nil {
				continue
			}
			b.WriteString(text[i+1 : j])
			b.Write(quoted)
			i = j + 1 + end
		default:
			b.WriteByte(c)
		}
	}

	return b.String()
}
