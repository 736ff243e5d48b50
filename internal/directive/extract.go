package directive

import (
	"encoding/json"
	"strings"

	"github.com/secagent/secagent/internal/schema"
)

// toolMarker must appear on a line before extraction is attempted.
const toolMarker = `"tool"`

// ExtractObject returns the first balanced-brace JSON object at the start of
// line. Braces inside JSON string literals do not count toward depth, so a
// parameter such as "a}b" does not end the object early. ok is false when
// line does not start with '{' or the object never closes.
func ExtractObject(line string) (raw string, ok bool) {
	if !strings.HasPrefix(line, "{") {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(line); i++ {
		c := line[i]
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
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return line[:i+1], true
			}
		}
	}
	return "", false
}

// Parse decodes raw into a directive. ok is false when raw is not valid JSON
// or lacks a string "tool" and an object "parameters"; such text is prose,
// not a call. Parameter values outside string, integer and boolean do not
// disqualify the directive: they are reported through DecodeErr.
func Parse(raw string) (d schema.Directive, ok bool) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &envelope); err != nil {
		return schema.Directive{}, false
	}

	toolRaw, hasTool := envelope["tool"]
	paramsRaw, hasParams := envelope["parameters"]
	if !hasTool || !hasParams {
		return schema.Directive{}, false
	}

	var tool any
	if err := json.Unmarshal(toolRaw, &tool); err != nil {
		return schema.Directive{}, false
	}
	name, isString := tool.(string)
	if !isString {
		return schema.Directive{}, false
	}
	var shape map[string]json.RawMessage
	if err := json.Unmarshal(paramsRaw, &shape); err != nil || shape == nil {
		return schema.Directive{}, false
	}

	d = schema.Directive{Tool: name, Raw: raw}
	d.Params, d.DecodeErr = schema.DecodeParams(paramsRaw)
	return d, true
}

// Scan returns every directive in text, in line order. Scanning is
// line-granular: an object split across lines is not detected.
func Scan(text string) []schema.Directive {
	var out []schema.Directive
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "{") || !strings.Contains(trimmed, toolMarker) {
			continue
		}
		raw, ok := ExtractObject(trimmed)
		if !ok {
			continue
		}
		if d, ok := Parse(raw); ok {
			out = append(out, d)
		}
	}
	return out
}
