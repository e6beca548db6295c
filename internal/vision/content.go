package vision

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/aurascan/aurascan/internal/fault"
)

var fenceOpenRe = regexp.MustCompile("(?i)```json")

// stripCodeFences removes markdown fence markers a model sometimes wraps
// its JSON in despite instructions.
func stripCodeFences(s string) string {
	s = fenceOpenRe.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// contentPiece is one element of a multi-part message content list.
type contentPiece struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// decodeContent turns the provider's message content into a parsed JSON
// value. The provider returns content in one of three shapes: a plain
// string, a list of parts (strings or text-typed objects), or an already
// structured object. All three funnel into the same parsed form here.
func decodeContent(raw json.RawMessage) (any, error) {
	if len(raw) == 0 {
		return nil, fault.New(fault.KindMalformedResponse, "empty response content from vision model")
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return parseJSONText(s)
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err == nil {
		var b strings.Builder
		for _, e := range elems {
			var part string
			if json.Unmarshal(e, &part) == nil {
				b.WriteString(part)
				continue
			}
			var piece contentPiece
			if json.Unmarshal(e, &piece) == nil && piece.Type == "text" {
				b.WriteString(piece.Text)
			}
		}
		return parseJSONText(b.String())
	}

	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj, nil
	}

	return nil, fault.New(fault.KindMalformedResponse, "unsupported response content shape from vision model")
}

// parseJSONText strips fences and parses the remaining text as JSON.
func parseJSONText(text string) (any, error) {
	cleaned := stripCodeFences(text)
	if cleaned == "" {
		return nil, fault.New(fault.KindMalformedResponse, "empty response content from vision model")
	}
	var parsed any
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return nil, fault.Wrap(fault.KindMalformedResponse, err, "invalid JSON from vision model")
	}
	return parsed, nil
}
