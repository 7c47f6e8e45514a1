package normalize

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Strategy extracts a JSON candidate from raw text, reporting false when it finds none.
type Strategy func(raw string) (string, bool)

var (
	fencedBlockPattern = regexp.MustCompile("```(?:json)?\\s*(\\{[\\s\\S]*\\})\\s*```")
	bracesPattern      = regexp.MustCompile(`\{[\s\S]*\}`)
)

// FencedBlock returns the object inside a ``` or ```json fence.
func FencedBlock(raw string) (string, bool) {
	m := fencedBlockPattern.FindStringSubmatch(raw)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// GreedyBraces returns the span from the first '{' to the last '}'.
func GreedyBraces(raw string) (string, bool) {
	m := bracesPattern.FindString(raw)
	if m == "" {
		return "", false
	}
	return m, true
}

// WholeText returns the trimmed input.
func WholeText(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	return trimmed, trimmed != ""
}

// DefaultStrategies is the extraction cascade, most specific first.
var DefaultStrategies = []Strategy{FencedBlock, GreedyBraces, WholeText}

// ExtractObject applies strategies in order and returns the first candidate that
// parses as a JSON object.
func ExtractObject(raw string, strategies []Strategy) (string, bool) {
	for _, strategy := range strategies {
		candidate, ok := strategy(raw)
		if !ok {
			continue
		}
		if isJSONObject(candidate) {
			return candidate, true
		}
	}
	return "", false
}

func isJSONObject(s string) bool {
	var obj map[string]json.RawMessage
	return json.Unmarshal([]byte(s), &obj) == nil && obj != nil
}
