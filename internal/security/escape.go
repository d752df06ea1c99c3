package security

import (
	"fmt"
	"html"
)

// EscapeHTML stringifies v and escapes it for HTML text and attribute
// contexts, quotes included. nil yields "".
func EscapeHTML(v any) string {
	if v == nil {
		return ""
	}
	var s string
	switch t := v.(type) {
	case string:
		s = t
	case fmt.Stringer:
		s = t.String()
	default:
		s = fmt.Sprint(v)
	}
	return html.EscapeString(s)
}
