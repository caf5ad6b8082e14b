package irc

import (
	"sort"
	"strings"
)

// Line is one protocol line split into its parts.
// Wire form: [@tag=val;tag2=val2 ][:prefix ]COMMAND [params] [:trailing]
type Line struct {
	Tags        map[string]string
	Prefix      string
	Command     string
	Params      []string
	Trailing    string
	HasTrailing bool
}

// Parse splits a raw line. It reports false for empty or malformed input.
func Parse(raw string) (*Line, bool) {
	raw = strings.TrimRight(raw, "\r\n")
	if raw == "" {
		return nil, false
	}

	l := &Line{Tags: make(map[string]string)}

	if raw[0] == '@' {
		spaceIdx := strings.IndexByte(raw, ' ')
		if spaceIdx == -1 {
			return nil, false
		}
		parseTags(raw[1:spaceIdx], l.Tags)
		raw = strings.TrimLeft(raw[spaceIdx+1:], " ")
	}

	if len(raw) > 0 && raw[0] == ':' {
		spaceIdx := strings.IndexByte(raw, ' ')
		if spaceIdx == -1 {
			return nil, false
		}
		l.Prefix = raw[1:spaceIdx]
		raw = strings.TrimLeft(raw[spaceIdx+1:], " ")
	}

	cmdEnd := strings.IndexByte(raw, ' ')
	if cmdEnd == -1 {
		cmdEnd = len(raw)
	}
	l.Command = strings.ToUpper(raw[:cmdEnd])
	if l.Command == "" {
		return nil, false
	}
	raw = raw[cmdEnd:]

	for {
		raw = strings.TrimLeft(raw, " ")
		if raw == "" {
			break
		}
		if raw[0] == ':' {
			l.Trailing = raw[1:]
			l.HasTrailing = true
			break
		}

		end := strings.IndexByte(raw, ' ')
		if end == -1 {
			end = len(raw)
		}
		l.Params = append(l.Params, raw[:end])
		raw = raw[end:]
	}

	return l, true
}

func parseTags(rawTags string, out map[string]string) {
	start := 0
	for i := 0; i <= len(rawTags); i++ {
		if i == len(rawTags) || rawTags[i] == ';' {
			tag := rawTags[start:i]
			start = i + 1
			if tag == "" {
				continue
			}

			if eq := strings.IndexByte(tag, '='); eq != -1 {
				out[tag[:eq]] = unescapeTag(tag[eq+1:])
			} else {
				out[tag] = ""
			}
		}
	}
}

func unescapeTag(v string) string {
	if strings.IndexByte(v, '\\') == -1 {
		return v
	}

	var b strings.Builder
	b.Grow(len(v))
	for i := 0; i < len(v); i++ {
		if v[i] != '\\' {
			b.WriteByte(v[i])
			continue
		}
		i++
		if i == len(v) {
			break
		}
		switch v[i] {
		case ':':
			b.WriteByte(';')
		case 's':
			b.WriteByte(' ')
		case 'r':
			b.WriteByte('\r')
		case 'n':
			b.WriteByte('\n')
		default:
			b.WriteByte(v[i])
		}
	}
	return b.String()
}

var tagEscaper = strings.NewReplacer(
	`\`, `\\`,
	";", `\:`,
	" ", `\s`,
	"\r", `\r`,
	"\n", `\n`,
)

// TagString renders the tags back to wire form, keys sorted, without the leading '@'.
func (l *Line) TagString() string {
	keys := make([]string, 0, len(l.Tags))
	for k := range l.Tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(k)
		if v := l.Tags[k]; v != "" {
			b.WriteByte('=')
			b.WriteString(tagEscaper.Replace(v))
		}
	}
	return b.String()
}

// String renders the line back to wire form without the line terminator.
func (l *Line) String() string {
	var b strings.Builder
	if len(l.Tags) > 0 {
		b.WriteByte('@')
		b.WriteString(l.TagString())
		b.WriteByte(' ')
	}
	if l.Prefix != "" {
		b.WriteByte(':')
		b.WriteString(l.Prefix)
		b.WriteByte(' ')
	}
	b.WriteString(l.Command)
	for _, p := range l.Params {
		b.WriteByte(' ')
		b.WriteString(p)
	}
	if l.HasTrailing {
		b.WriteString(" :")
		b.WriteString(l.Trailing)
	}
	return b.String()
}

// Nick extracts the nickname from a nick!user@host prefix.
func (l *Line) Nick() string {
	if i := strings.IndexByte(l.Prefix, '!'); i != -1 {
		return l.Prefix[:i]
	}
	return l.Prefix
}
