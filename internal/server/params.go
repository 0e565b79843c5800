package server

import (
	"fmt"
	"strings"
)

// stringParam reads a string argument, returning def when absent.
func stringParam(params map[string]interface{}, key, def string) string {
	v, ok := params[key]
	if !ok || v == nil {
		return def
	}
	switch t := v.(type) {
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

// listParam reads a comma-separated string or a JSON array of strings.
func listParam(params map[string]interface{}, key string) []string {
	switch t := params[key].(type) {
	case string:
		if strings.TrimSpace(t) == "" {
			return nil
		}
		return strings.Split(t, ",")
	case []interface{}:
		out := make([]string, 0, len(t))
		for _, v := range t {
			out = append(out, fmt.Sprint(v))
		}
		return out
	}
	return nil
}
