package cmd

import (
	"strings"
	"unicode"
)

// SplitCommand separates the command name from its argument string at the
// first whitespace run.
func SplitCommand(text string) (name, args string) {
	text = strings.TrimSpace(text)
	i := strings.IndexFunc(text, unicode.IsSpace)
	if i < 0 {
		return text, ""
	}
	return text[:i], strings.TrimSpace(text[i:])
}

// SplitArgs tokenizes an argument string on whitespace. A double-quoted run is
// one token, quotes stripped; a backslash escapes a quote inside it.
func SplitArgs(s string) ([]string, error) {
	var (
		args    []string
		cur     strings.Builder
		inQuote bool
		pending bool
	)
	rs := []rune(s)
	for i := 0; i < len(rs); i++ {
		r := rs[i]
		switch {
		case inQuote && r == '\\' && i+1 < len(rs) && rs[i+1] == '"':
			cur.WriteRune('"')
			i++
		case r == '"':
			inQuote = !inQuote
			pending = true
		case !inQuote && unicode.IsSpace(r):
			if pending {
				args = append(args, cur.String())
				cur.Reset()
				pending = false
			}
		default:
			cur.WriteRune(r)
			pending = true
		}
	}
	if inQuote {
		return nil, Userf("A quoted parameter is incomplete.")
	}
	if pending {
		args = append(args, cur.String())
	}
	return args, nil
}
