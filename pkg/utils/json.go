package utils

import (
	"errors"
	"strings"
)

var ErrNoJSONObject = errors.New("no JSON object found in text")

// StripCodeFence removes a leading ``` marker (with an optional language tag, any case)
// and a trailing ``` marker, then trims surrounding whitespace.
func StripCodeFence(text string) string {
	s := strings.TrimSpace(text)
	if strings.HasPrefix(s, "```") {
		s = s[3:]
		// language tag runs until the first newline or whitespace
		end := strings.IndexFunc(s, func(r rune) bool {
			return r == '\n' || r == '\r' || r == ' ' || r == '\t' || r == '{'
		})
		if end == -1 {
			s = ""
		} else {
			s = s[end:]
		}
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// ExtractJSONObject returns the JSON object embedded in text. Fences are stripped first;
// if the remainder does not start with '{' the span from the first '{' to the last '}'
// inclusive is returned.
func ExtractJSONObject(text string) (string, error) {
	s := StripCodeFence(text)
	if strings.HasPrefix(s, "{") {
		return s, nil
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end < start {
		return "", ErrNoJSONObject
	}
	return s[start : end+1], nil
}
