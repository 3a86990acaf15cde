package slackexport

import (
	"fmt"
	"strings"
)

// markdownSpecial are characters escaped when they occur outside a
// recognized markup token.
const markdownSpecial = "\\*_`[]~<"

// codeEntities decodes the entities Slack applies to message text. Only code
// spans and blocks are decoded; elsewhere the entities render correctly as-is.
var codeEntities = strings.NewReplacer("&lt;", "<", "&gt;", ">", "&amp;", "&")

// Renderer converts Slack message markup into markdown. It only reads the
// directory, so one Renderer may be shared by concurrent channel workers.
type Renderer struct {
	dir *Directory
}

func NewRenderer(dir *Directory) *Renderer {
	return &Renderer{dir: dir}
}

// Render converts a message body to markdown, followed by links to shared
// files and a parenthesised reaction summary. Synthesized roots render empty.
func (r *Renderer) Render(m Message) string {
	if m.Stub {
		return ""
	}

	var parts []string
	if body := r.RenderText(m.Text); body != "" {
		parts = append(parts, body)
	}
	for _, f := range m.Files {
		parts = append(parts, fmt.Sprintf("[%s](%s)", escapeMarkdown(f.Name), f.URL))
	}
	out := strings.Join(parts, "\n")

	if reactions := renderReactions(m.Reactions); reactions != "" {
		if out == "" {
			return reactions
		}
		out += " " + reactions
	}
	return out
}

func renderReactions(reactions []Reaction) string {
	if len(reactions) == 0 {
		return ""
	}
	items := make([]string, len(reactions))
	for i, re := range reactions {
		items[i] = fmt.Sprintf(":%s: ×%d", re.Name, re.Count)
	}
	return "(" + strings.Join(items, ", ") + ")"
}

// RenderText translates Slack markup in text to markdown
func (r *Renderer) RenderText(text string) string {
	var b strings.Builder
	r.renderInline(&b, text, true)
	return b.String()
}

func (r *Renderer) renderInline(b *strings.Builder, s string, lineStart bool) {
	i := 0
	for i < len(s) {
		c := s[i]

		if lineStart && strings.HasPrefix(s[i:], "&gt;") {
			b.WriteByte('>')
			i += len("&gt;")
			lineStart = false
			continue
		}
		if lineStart {
			if n := blockMarkerLen(s[i:]); n > 0 {
				b.WriteString(s[i : i+n-1])
				b.WriteByte('\\')
				b.WriteByte(s[i+n-1])
				i += n
				lineStart = false
				continue
			}
		}

		switch c {
		case '\n':
			b.WriteByte(c)
			i++
			lineStart = true
			continue
		case '`':
			if n := codeBlockLen(s[i:]); n > 0 {
				writeCodeBlock(b, s[i+3:i+n-3])
				i += n
				if i < len(s) && s[i] != '\n' {
					b.WriteByte('\n')
					lineStart = true
				} else {
					lineStart = false
				}
				continue
			}
			if n := codeSpanLen(s[i:]); n > 0 {
				b.WriteString(codeEntities.Replace(s[i : i+n]))
				i += n
				lineStart = false
				continue
			}
		case '<':
			if end := strings.IndexByte(s[i+1:], '>'); end >= 0 {
				if tok, ok := r.angleToken(s[i+1 : i+1+end]); ok {
					b.WriteString(tok)
					i += end + 2
					lineStart = false
					continue
				}
			}
		case ':':
			if n := emojiLen(s[i:]); n > 0 {
				b.WriteString(s[i : i+n])
				i += n
				lineStart = false
				continue
			}
		case '*', '~', '_':
			if end := closingDelim(s, i); end > 0 {
				marker := spanMarker(c)
				b.WriteString(marker)
				r.renderInline(b, s[i+1:end], false)
				b.WriteString(marker)
				i = end + 1
				lineStart = false
				continue
			}
		}

		if strings.IndexByte(markdownSpecial, c) >= 0 {
			b.WriteByte('\\')
		}
		b.WriteByte(c)
		i++
		lineStart = lineStart && (c == ' ' || c == '\t')
	}
}

// blockMarkerLen returns the length of a markdown block marker at the start
// of a line: a heading, quote, list or rule character, or the "." or ")"
// closing an ordered list number. The last byte of the marker is the one to
// escape.
func blockMarkerLen(s string) int {
	switch s[0] {
	case '#', '>', '-', '+', '=':
		return 1
	}
	n := 0
	for n < len(s) && isDigit(s[n]) {
		n++
	}
	if n > 0 && n < len(s) && (s[n] == '.' || s[n] == ')') {
		return n + 1
	}
	return 0
}

// angleToken translates the contents of a <...> token. ok is false when the
// contents are not a recognized reference or link.
func (r *Renderer) angleToken(inner string) (string, bool) {
	if inner == "" {
		return "", false
	}
	target, label, _ := strings.Cut(inner, "|")

	switch inner[0] {
	case '@':
		id := target[1:]
		if id == "" {
			return "", false
		}
		return "@" + escapeMarkdown(r.dir.Resolve(KindUser, id)), true
	case '#':
		id := target[1:]
		if id == "" {
			return "", false
		}
		return "#" + escapeMarkdown(r.dir.Resolve(KindChannel, id)), true
	case '!':
		if !isSpecialCommand(target[1:]) {
			return "", false
		}
		return specialMention(target[1:], label), true
	}

	if !hasScheme(target) {
		return "", false
	}
	if label == "" {
		return "<" + target + ">", true
	}
	return "[" + escapeMarkdown(label) + "](" + target + ")", true
}

// specialMention renders <!here>, <!channel>, <!subteam^ID|@team> and
// <!date^...|fallback> tokens.
func specialMention(command, label string) string {
	name, _, _ := strings.Cut(command, "^")
	switch name {
	case "here", "channel", "everyone":
		return "@" + name
	case "date":
		if label != "" {
			return escapeMarkdown(label)
		}
	}
	if label != "" {
		if !strings.HasPrefix(label, "@") {
			label = "@" + label
		}
		return escapeMarkdown(label)
	}
	return "@" + escapeMarkdown(name)
}

// isSpecialCommand reports whether command looks like "here" or
// "subteam^S1": a name of letters followed by non-empty "^" parameters.
func isSpecialCommand(command string) bool {
	name, params, hasParams := strings.Cut(command, "^")
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		if !isAlpha(name[i]) {
			return false
		}
	}
	if !hasParams {
		return true
	}
	for _, p := range strings.Split(params, "^") {
		if p == "" || strings.ContainsAny(p, " \t\n") {
			return false
		}
	}
	return true
}

func hasScheme(target string) bool {
	scheme, rest, ok := strings.Cut(target, ":")
	if !ok || scheme == "" || rest == "" {
		return false
	}
	for i := 0; i < len(scheme); i++ {
		c := scheme[i]
		if !isAlpha(c) && !(i > 0 && (isDigit(c) || c == '+' || c == '-' || c == '.')) {
			return false
		}
	}
	return true
}

// closingDelim finds the end of a *bold*, ~strike~ or _italic_ span opening
// at s[open]. The opener must start a word and be followed by a non-space;
// the closer must follow a non-space and end a word, on the same line.
// It returns -1 when there is no span.
func closingDelim(s string, open int) int {
	c := s[open]
	if open > 0 && (isAlnum(s[open-1]) || s[open-1] == c) {
		return -1
	}
	if open+1 >= len(s) || isSpace(s[open+1]) || s[open+1] == c {
		return -1
	}
	for j := open + 2; j < len(s); j++ {
		if s[j] == '\n' {
			return -1
		}
		if s[j] != c || isSpace(s[j-1]) {
			continue
		}
		if j+1 < len(s) && isAlnum(s[j+1]) {
			continue
		}
		return j
	}
	return -1
}

func spanMarker(c byte) string {
	switch c {
	case '*':
		return "**"
	case '~':
		return "~~"
	}
	return "_"
}

// codeBlockLen returns the length of a ```...``` block at the start of s
func codeBlockLen(s string) int {
	if !strings.HasPrefix(s, "```") {
		return 0
	}
	end := strings.Index(s[3:], "```")
	if end < 0 {
		return 0
	}
	return end + 6
}

// codeSpanLen returns the length of a `...` span at the start of s
func codeSpanLen(s string) int {
	end := strings.IndexByte(s[1:], '`')
	if end <= 0 || strings.ContainsRune(s[1:1+end], '\n') {
		return 0
	}
	return end + 2
}

func writeCodeBlock(b *strings.Builder, code string) {
	if b.Len() > 0 && !strings.HasSuffix(b.String(), "\n") {
		b.WriteByte('\n')
	}
	b.WriteString("```\n")
	b.WriteString(codeEntities.Replace(strings.Trim(code, "\n")))
	b.WriteString("\n```")
}

// emojiLen returns the length of an emoji shortcode such as :smile: or
// :wave::skin-tone-2: at the start of s. A shortcode needs at least one
// letter so clock times like 10:30:00 are left alone.
func emojiLen(s string) int {
	n := 0
	for {
		m := shortcodeLen(s[n:])
		if m == 0 {
			return n
		}
		n += m
	}
}

func shortcodeLen(s string) int {
	if len(s) < 3 || s[0] != ':' {
		return 0
	}
	letter := false
	for j := 1; j < len(s); j++ {
		c := s[j]
		switch {
		case c == ':':
			if j == 1 || !letter {
				return 0
			}
			return j + 1
		case isAlpha(c):
			letter = true
		case isDigit(c) || c == '_' || c == '-' || c == '+' || c == '\'':
		default:
			return 0
		}
	}
	return 0
}

// escapeMarkdown backslash-escapes markdown-special characters in a name or
// label taken verbatim from the export.
func escapeMarkdown(s string) string {
	if !strings.ContainsAny(s, markdownSpecial) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if strings.IndexByte(markdownSpecial, s[i]) >= 0 {
			b.WriteByte('\\')
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func isAlpha(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
func isDigit(c byte) bool { return c >= '0' && c <= '9' }
func isAlnum(c byte) bool { return isAlpha(c) || isDigit(c) }
func isSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\n' || c == '\r' }
