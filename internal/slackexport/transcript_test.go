package slackexport

import (
	"strings"
	"testing"
)

func newTestTranscript() *transcript {
	dir := testDirectory()
	return &transcript{dir: dir, renderer: NewRenderer(dir)}
}

func TestTranscript_Write(t *testing.T) {
	threads := []Thread{
		{
			Root:    Message{ID: "1.0", AuthorID: "U1", Text: "hello"},
			Replies: []Message{{ID: "2.0", ThreadRootID: "1.0", AuthorID: "U2", Text: "hi <@U1>"}},
		},
		{Root: Message{ID: "3.0", AuthorID: "U2", Text: "standalone"}},
	}

	var b strings.Builder
	if err := newTestTranscript().write(&builderLineWriter{b: &b}, "general", threads); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	want := strings.Join([]string{
		"# general",
		"",
		"**alice** *[1970-01-01 00:00:01 UTC]*: hello",
		"",
		"> **bob** *[1970-01-01 00:00:02 UTC]*: hi @alice",
		"",
		"---",
		"",
		"**bob** *[1970-01-01 00:00:03 UTC]*: standalone",
		"",
	}, "\n") + "\n"

	if got := b.String(); got != want {
		t.Errorf("transcript mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestTranscript_StubRoot(t *testing.T) {
	th := Thread{
		Root:    Message{ID: "9.9", AuthorID: UnavailableAuthor, Stub: true},
		Replies: []Message{{ID: "10.0", ThreadRootID: "9.9", AuthorID: "U2", Text: "late reply"}},
	}

	got := newTestTranscript().FormatThread(th)
	want := "**_original message unavailable_** *[1970-01-01 00:00:09 UTC]*:\n" +
		"\n" +
		"> **bob** *[1970-01-01 00:00:10 UTC]*: late reply\n"

	if got != want {
		t.Errorf("FormatThread:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestTranscript_MultilineReplyIsQuoted(t *testing.T) {
	th := Thread{
		Root: Message{ID: "1.0", AuthorID: "U1", Text: "question"},
		Replies: []Message{
			{ID: "2.0", ThreadRootID: "1.0", AuthorID: "U2", Text: "first line\n\nthird line"},
			{ID: "3.0", ThreadRootID: "1.0", AuthorID: "U1", Text: "```go test```"},
		},
	}

	got := newTestTranscript().FormatThread(th)
	want := strings.Join([]string{
		"**alice** *[1970-01-01 00:00:01 UTC]*: question",
		"",
		"> **bob** *[1970-01-01 00:00:02 UTC]*: first line",
		">",
		"> third line",
		"",
		"> **alice** *[1970-01-01 00:00:03 UTC]*:",
		"> ```",
		"> go test",
		"> ```",
	}, "\n") + "\n"

	if got != want {
		t.Errorf("FormatThread:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestTranscript_UnknownAuthor(t *testing.T) {
	got := newTestTranscript().FormatThread(Thread{Root: Message{ID: "1.0", AuthorID: "U404", Text: "who?"}})
	want := "**unknown-user-U404** *[1970-01-01 00:00:01 UTC]*: who?\n"
	if got != want {
		t.Errorf("FormatThread: got %q, want %q", got, want)
	}
}
