package slackexport

import (
	"fmt"
	"strings"
)

const transcriptTimeLayout = "2006-01-02 15:04:05 UTC"

// transcript formats assembled threads as markdown. Roots are paragraphs,
// replies are blockquotes beneath them, and a rule closes every thread that
// has replies.
type transcript struct {
	dir      *Directory
	renderer *Renderer
}

func (t *transcript) write(w LineWriter, channel string, threads []Thread) error {
	if err := writeLines(w, "# "+escapeMarkdown(channel), ""); err != nil {
		return err
	}
	for i := range threads {
		if err := t.writeThread(w, &threads[i], true); err != nil {
			return err
		}
	}
	return nil
}

func (t *transcript) writeThread(w LineWriter, th *Thread, separate bool) error {
	if err := writeLines(w, t.messageLines(th.Root)...); err != nil {
		return err
	}
	for _, reply := range th.Replies {
		lines := t.messageLines(reply)
		for i, l := range lines {
			lines[i] = strings.TrimRight("> "+l, " ")
		}
		if err := writeLines(w, ""); err != nil {
			return err
		}
		if err := writeLines(w, lines...); err != nil {
			return err
		}
	}
	if !separate {
		return nil
	}
	if len(th.Replies) > 0 {
		return writeLines(w, "", "---", "")
	}
	return writeLines(w, "")
}

// FormatThread renders a single thread as markdown text
func (t *transcript) FormatThread(th Thread) string {
	var b strings.Builder
	_ = t.writeThread(&builderLineWriter{b: &b}, &th, false)
	return b.String()
}

// messageLines renders the author header and body of one message. The body
// starts on its own line when it opens with a code fence or a quote.
func (t *transcript) messageLines(m Message) []string {
	header := fmt.Sprintf("**%s** *[%s]*:", t.authorName(m), m.ID.Format(transcriptTimeLayout))
	body := t.renderer.Render(m)
	if body == "" {
		return []string{header}
	}
	lines := strings.Split(body, "\n")
	if strings.HasPrefix(lines[0], "```") || strings.HasPrefix(lines[0], ">") {
		return append([]string{header}, lines...)
	}
	lines[0] = header + " " + lines[0]
	return lines
}

func (t *transcript) authorName(m Message) string {
	if m.Stub || m.AuthorID == UnavailableAuthor {
		return "_original message unavailable_"
	}
	return escapeMarkdown(t.dir.Resolve(KindUser, m.AuthorID))
}

func writeLines(w LineWriter, lines ...string) error {
	for _, l := range lines {
		if err := w.WriteLine(l); err != nil {
			return err
		}
	}
	return nil
}

type builderLineWriter struct {
	b *strings.Builder
}

func (w *builderLineWriter) WriteLine(line string) error {
	w.b.WriteString(line)
	w.b.WriteByte('\n')
	return nil
}
