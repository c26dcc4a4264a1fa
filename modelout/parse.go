package modelout

import (
	"encoding/json"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/kbukum/pageforge/design"
)

// Payload is the structured form recovered from raw model output: the
// section list plus any top-level metadata the model volunteered.
type Payload struct {
	Sections []design.Section           `json:"sections"`
	Meta     map[string]json.RawMessage `json:"-"`
}

// Parse recovers a Payload from raw model text. Strategies are tried in
// order, first success wins:
//
//  1. strip a surrounding markdown code fence
//  2. decode the first balanced array outside any object as the section list
//  3. decode the first balanced top-level object directly
//  4. repair backtick-delimited string fields, then retry 2 and 3
//
// The repair pass is idempotent: already-valid input passes through with its
// meaning unchanged.
func Parse(raw string) (*Payload, bool) {
	text := stripFence(raw)
	if text == "" {
		return nil, false
	}

	if p, ok := parseCandidate(text); ok {
		return p, true
	}

	repaired := RepairBacktickFields(text)
	if repaired != text {
		if p, ok := parseCandidate(repaired); ok {
			return p, true
		}
	}

	return nil, false
}

// parseCandidate tries the array form before the object form. An array
// nested inside an object does not count as the array form; that text is
// decoded through the object path so its metadata keys survive.
func parseCandidate(text string) (*Payload, bool) {
	if p, ok := parseArray(text); ok {
		return p, true
	}
	return parseObject(text)
}

func parseArray(text string) (*Payload, bool) {
	arr, ok := firstTopLevelArray(text)
	if !ok {
		return nil, false
	}
	var sections []design.Section
	if err := json.Unmarshal([]byte(arr), &sections); err != nil {
		return nil, false
	}
	return &Payload{Sections: sections}, true
}

func parseObject(text string) (*Payload, bool) {
	obj, ok := firstBalanced(text, '{', '}')
	if !ok || !gjson.Valid(obj) {
		return nil, false
	}

	var envelope struct {
		Sections []design.Section `json:"sections"`
	}
	if err := json.Unmarshal([]byte(obj), &envelope); err != nil {
		return nil, false
	}

	payload := &Payload{Sections: envelope.Sections}
	gjson.Parse(obj).ForEach(func(key, value gjson.Result) bool {
		if key.Str == "sections" {
			return true
		}
		if payload.Meta == nil {
			payload.Meta = make(map[string]json.RawMessage)
		}
		payload.Meta[key.Str] = json.RawMessage(value.Raw)
		return true
	})
	return payload, true
}

// stripFence removes a leading/trailing markdown code fence if present.
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if idx := strings.Index(s, "\n"); idx >= 0 {
		s = s[idx+1:]
	} else {
		s = strings.TrimPrefix(s, "```")
	}
	if idx := strings.LastIndex(s, "```"); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}

// firstTopLevelArray returns the first balanced array that is not nested
// inside a balanced object. Balanced objects preceding the array are
// skipped whole; unbalanced ones are scanned through byte by byte.
func firstTopLevelArray(s string) (string, bool) {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '[':
			if arr, ok := firstBalanced(s[i:], '[', ']'); ok {
				return arr, true
			}
		case '{':
			if obj, ok := firstBalanced(s[i:], '{', '}'); ok {
				i += len(obj) - 1
			}
		}
	}
	return "", false
}

// firstBalanced returns the first balanced region delimited by open/close,
// respecting JSON string literals and escapes.
func firstBalanced(s string, open, close byte) (string, bool) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
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
			if start >= 0 {
				inString = true
			}
		case open:
			if start < 0 {
				start = i
			}
			depth++
		case close:
			if start < 0 {
				continue
			}
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
