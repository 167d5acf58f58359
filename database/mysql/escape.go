package mysql

import "strings"

// escapeString escapes the byte set mysql_real_escape_string covers: NUL,
// newline, carriage return, backslash, both quote characters and Ctrl-Z.
// The driver keeps its own escaping internal, so the translation lives here.
// Servers running with NO_BACKSLASH_ESCAPES are not supported.
func escapeString(s string) string {
	var b strings.Builder
	b.Grow(len(s) + len(s)/2)

	for i := 0; i < len(s); i++ {
		switch ch := s[i]; ch {
		case 0x00:
			b.WriteString(`\0`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\\':
			b.WriteString(`\\`)
		case '\'':
			b.WriteString(`\'`)
		case '"':
			b.WriteString(`\"`)
		case 0x1a:
			b.WriteString(`\Z`)
		default:
			b.WriteByte(ch)
		}
	}
	return b.String()
}
