package extract

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Result holds the best-effort JSON payload located in a model response
// and the surrounding prose left over once that payload is removed.
// JSON is nil when no parseable payload was found, in which case
// Remainder is the input unchanged.
type Result struct {
	JSON      interface{}
	Remainder string
}

// fencedRe matches a fenced code block, optionally tagged as json.
var fencedRe = regexp.MustCompile("(?s)```(?:json)?\n?(.*?)\n?```")

// strategy attempts one extraction approach. It returns the result and
// whether the approach succeeded; a failed strategy must not modify
// the input's meaning.
type strategy func(text string) (Result, bool)

// strategies are tried in order; the first success wins. Fenced blocks
// go first so stray braces in surrounding prose never shadow a
// well-formed fenced payload.
var strategies = []strategy{
	fromFencedBlock,
	fromBraceSpan,
	fromWholeText,
}

// Extract locates a JSON payload inside raw model output. It never
// fails: when no strategy succeeds the full text comes back as the
// remainder so the prose is preserved for conversational display.
func Extract(text string) Result {
	for _, s := range strategies {
		if res, ok := s(text); ok {
			return res
		}
	}
	return Result{JSON: nil, Remainder: text}
}

// fromFencedBlock parses the first fenced code block that holds valid
// JSON. Conversational models routinely wrap structured output in
// markdown fences with commentary around them.
func fromFencedBlock(text string) (Result, bool) {
	matches := fencedRe.FindAllStringSubmatchIndex(text, -1)
	for _, loc := range matches {
		// loc[2]:loc[3] is the first capture group (block body).
		body := strings.TrimSpace(text[loc[2]:loc[3]])
		if body == "" {
			continue
		}

		var parsed interface{}
		if err := json.Unmarshal([]byte(body), &parsed); err != nil {
			continue
		}

		remainder := strings.TrimSpace(text[:loc[0]] + text[loc[1]:])
		return Result{JSON: parsed, Remainder: remainder}, true
	}
	return Result{}, false
}

// fromBraceSpan parses the span between the first '{' and the last '}'.
// A stray brace inside the span makes the parse fail and the chain
// falls through, which is why fenced blocks are tried first.
func fromBraceSpan(text string) (Result, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end <= start {
		return Result{}, false
	}

	var parsed interface{}
	if err := json.Unmarshal([]byte(text[start:end+1]), &parsed); err != nil {
		return Result{}, false
	}

	remainder := strings.TrimSpace(text[:start] + text[end+1:])
	return Result{JSON: parsed, Remainder: remainder}, true
}

// fromWholeText parses the entire input as JSON.
func fromWholeText(text string) (Result, bool) {
	var parsed interface{}
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return Result{}, false
	}
	return Result{JSON: parsed, Remainder: ""}, true
}
