package forms

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"github.com/dalemusser/ssoadmin/internal/app/system/schemas"
)

// Decode converts posted values to typed data using the schema's property
// types. Fields not in the schema are ignored.
//
//   - boolean: checked when any value is on/true/1/yes; absent means false
//   - integer, number: parsed; blank is nil, unparseable text is kept so
//     validation reports it
//   - array: every value, with textarea input split into one item per line
//   - object: JSON text
//   - string: the first value, as posted
func Decode(s *schemas.Schema, values url.Values) map[string]any {
	out := make(map[string]any, len(s.Properties))
	for _, p := range s.Properties {
		vals, present := values[p.Name]

		if p.Type == "boolean" {
			out[p.Name] = present && anyTruthy(vals)
			continue
		}
		if !present {
			continue
		}

		switch p.Type {
		case "integer":
			out[p.Name] = parseInt(first(vals))
		case "number":
			out[p.Name] = parseFloat(first(vals))
		case "array":
			out[p.Name] = decodeItems(p.ItemsType, vals)
		case "object":
			out[p.Name] = parseObject(first(vals))
		default:
			out[p.Name] = first(vals)
		}
	}
	return out
}

func first(vals []string) string {
	if len(vals) == 0 {
		return ""
	}
	return vals[0]
}

func anyTruthy(vals []string) bool {
	for _, v := range vals {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "on", "true", "1", "yes":
			return true
		}
	}
	return false
}

func parseInt(s string) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	return s
}

func parseFloat(s string) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return n
	}
	return s
}

func parseObject(s string) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	var v map[string]any
	if err := json.Unmarshal([]byte(s), &v); err == nil {
		return v
	}
	return s
}

func decodeItems(itemsType string, vals []string) []any {
	items := []any{}
	for _, v := range vals {
		for _, line := range strings.Split(v, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			switch itemsType {
			case "integer":
				items = append(items, parseInt(line))
			case "number":
				items = append(items, parseFloat(line))
			case "boolean":
				items = append(items, anyTruthy([]string{line}))
			default:
				items = append(items, line)
			}
		}
	}
	return items
}
