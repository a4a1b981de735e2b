package respparse

import (
	"fmt"
	"regexp"
	"strings"
)

// ExtractJSON pulls the JSON object out of a model reply: trims, drops
// markdown fences, takes the outermost brace span, then removes
// comments and trailing commas. The result is not guaranteed to parse;
// the caller decides whether to attempt recovery.
func ExtractJSON(text string) (string, error) {
	cleaned := strings.TrimSpace(text)
	cleaned = stripFences(cleaned)

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end == -1 || end < start {
		return "", fmt.Errorf("no JSON object found in response")
	}
	cleaned = cleaned[start : end+1]

	cleaned = stripComments(cleaned)
	cleaned = stripTrailingCommas(cleaned)
	return cleaned, nil
}

var fencePattern = regexp.MustCompile("(?m)^```[a-zA-Z]*\\s*$")

func stripFences(text string) string {
	return fencePattern.ReplaceAllString(text, "")
}

// stripComments removes // and /* */ comments while leaving string
// literals intact.
func stripComments(text string) string {
	var sb strings.Builder
	sb.Grow(len(text))

	inString := false
	escaped := false
	i := 0
	for i < len(text) {
		c := text[i]

		if inString {
			sb.WriteByte(c)
			if escaped {
				escaped = false
			} else if c == '\\' {
				escaped = true
			} else if c == '"' {
				inString = false
			}
			i++
			continue
		}

		switch {
		case c == '"':
			inString = true
			sb.WriteByte(c)
			i++
		case c == '/' && i+1 < len(text) && text[i+1] == '/':
			for i < len(text) && text[i] != '\n' {
				i++
			}
		case c == '/' && i+1 < len(text) && text[i+1] == '*':
			i += 2
			for i+1 < len(text) && !(text[i] == '*' && text[i+1] == '/') {
				i++
			}
			i += 2
		default:
			sb.WriteByte(c)
			i++
		}
	}
	return sb.String()
}

// stripTrailingCommas removes commas that directly precede a closing
// brace or bracket, outside string literals.
func stripTrailingCommas(text string) string {
	var sb strings.Builder
	sb.Grow(len(text))

	inString := false
	escaped := false
	for i := 0; i < len(text); i++ {
		c := text[i]

		if inString {
			sb.WriteByte(c)
			if escaped {
				escaped = false
			} else if c == '\\' {
				escaped = true
			} else if c == '"' {
				inString = false
			}
			continue
		}

		if c == '"' {
			inString = true
			sb.WriteByte(c)
			continue
		}

		if c == ',' {
			j := i + 1
			for j < len(text) && (text[j] == ' ' || text[j] == '\t' || text[j] == '\n' || text[j] == '\r') {
				j++
			}
			if j < len(text) && (text[j] == '}' || text[j] == ']') {
				continue // drop the comma
			}
		}
		sb.WriteByte(c)
	}
	return sb.String()
}

var unquotedKeyPattern = regexp.MustCompile(`([{,]\s*)([A-Za-z_][A-Za-z0-9_]*)\s*:`)
var whitespaceRun = regexp.MustCompile(`\s+`)

// RepairJSON is the single bounded recovery transform: quote bare keys,
// swap single quotes for double quotes, collapse whitespace runs. It is
// deliberately blunt; responses needing it are flagged as recovered.
func RepairJSON(text string) string {
	repaired := unquotedKeyPattern.ReplaceAllString(text, `$1"$2":`)
	repaired = strings.ReplaceAll(repaired, "'", `"`)
	repaired = whitespaceRun.ReplaceAllString(repaired, " ")
	return strings.TrimSpace(repaired)
}
