// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

// FirstJSON returns the first balanced JSON object or array substring in s,
// or "" when none exists. It walks the text tracking brace/bracket nesting
// depth and string-literal state, so conversational wrapper text and nested
// braces inside quoted values do not confuse it.
func FirstJSON(s string) string {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]

		if start >= 0 && inString {
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
		case '{', '[':
			if start < 0 {
				start = i
			}
			depth++
		case '}', ']':
			if start < 0 {
				continue
			}
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		case '"':
			if start >= 0 {
				inString = true
			}
		}
	}
	return ""
}
