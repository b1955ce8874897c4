package generator

import "regexp"

var (
	arrayBlockPattern    = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(\\[.*\\])\\s*```")
	arrayPattern         = regexp.MustCompile(`(?s)\[[\s\S]*\]`)
	trailingCommaPattern = regexp.MustCompile(`,\s*([}\]])`)
)

// ExtractJSONArray pulls a JSON array out of model output, preferring a
// fenced block. Trailing commas are dropped.
func ExtractJSONArray(content string) string {
	if m := arrayBlockPattern.FindStringSubmatch(content); len(m) > 1 {
		return trailingCommaPattern.ReplaceAllString(m[1], "$1")
	}
	if m := arrayPattern.FindString(content); m != "" {
		return trailingCommaPattern.ReplaceAllString(m, "$1")
	}
	return ""
}
