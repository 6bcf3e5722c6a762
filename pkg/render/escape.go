package render

import "strings"

// escapeHTML escapes text for safe inclusion in HTML content.
func escapeHTML(s string) string {
	return escape(s, false)
}

// escapeAttr escapes text for safe inclusion in HTML attribute values.
// Whitespace control characters are also encoded so values survive
// attribute normalisation.
func escapeAttr(s string) string {
	return escape(s, true)
}

func escape(s string, attr bool) string {
	if !strings.ContainsAny(s, "&<>\"'\n\r\t") {
		return s
	}

	var buf strings.Builder
	buf.Grow(len(s) + 16)

	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			buf.WriteString("&quot;")
		case '\'':
			buf.WriteString("&#39;")
		case '\n':
			writeSpace(&buf, r, "&#10;", attr)
		case '\r':
			writeSpace(&buf, r, "&#13;", attr)
		case '\t':
			writeSpace(&buf, r, "&#9;", attr)
		default:
			buf.WriteRune(r)
		}
	}

	return buf.String()
}

func writeSpace(buf *strings.Builder, r rune, entity string, attr bool) {
	if attr {
		buf.WriteString(entity)
		return
	}
	buf.WriteRune(r)
}
