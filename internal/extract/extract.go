// Package extract recovers JSON documents from LLM completion text. Models
// routinely wrap their output in prose or markdown code fences, so both entry
// points strip fences and scan for the outermost bracket pair before
// decoding. Anything that still fails to decode is reported as
// ErrMalformedOutput so callers can fail closed.
package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedOutput indicates the model's text contained no decodable JSON
// document of the expected shape.
var ErrMalformedOutput = errors.New("malformed model output")

// Array locates the first '[' and last ']' in raw and decodes the span into
// v. Returns ErrMalformedOutput when no bracket pair exists or the span is
// not valid JSON.
func Array(raw string, v any) error {
	return decodeSpan(raw, '[', ']', v)
}

// Object locates the first '{' and last '}' in raw and decodes the span into
// v.
func Object(raw string, v any) error {
	return decodeSpan(raw, '{', '}', v)
}

func decodeSpan(raw string, opening, closing byte, v any) error {
	s := StripFences(raw)
	start := strings.IndexByte(s, opening)
	end := strings.LastIndexByte(s, closing)
	if start == -1 || end == -1 || end < start {
		return fmt.Errorf("%w: no %c...%c span found", ErrMalformedOutput, opening, closing)
	}
	if err := json.Unmarshal([]byte(s[start:end+1]), v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	return nil
}

// StripFences removes markdown code-fence markers (``` and ```json) from s.
func StripFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	return strings.ReplaceAll(s, "```", "")
}
