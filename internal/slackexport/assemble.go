package slackexport

import "slices"

// Assemble groups one channel's messages into threads.
//
// Roots and replies are partitioned in input order and replies are bucketed
// by the root they name, so a reply may appear before its root. A reply whose
// root is not in the input gets a synthesized stub root carrying the missing
// ID, empty text and UnavailableAuthor; the substitution is recorded as a note
// on report. Replies are sorted by ID within a thread and threads by root ID.
// Both sorts are stable. Assemble never fails.
func Assemble(messages []Message, report *Report) []Thread {
	var roots, replies []Message
	for _, m := range messages {
		if m.IsReply() {
			replies = append(replies, m)
		} else {
			roots = append(roots, m)
		}
	}

	// rootIndex maps a root ID to its thread's position in threads. On
	// duplicate root IDs the first root keeps the replies.
	threads := make([]Thread, 0, len(roots))
	rootIndex := make(map[Timestamp]int, len(roots))
	for _, root := range roots {
		if _, dup := rootIndex[root.ID]; dup {
			report.Note("", -1, "duplicate root id %s; replies attach to the first occurrence", root.ID.Raw())
		} else {
			rootIndex[root.ID] = len(threads)
		}
		threads = append(threads, Thread{Root: root})
	}

	for _, reply := range replies {
		idx, ok := rootIndex[reply.ThreadRootID]
		if !ok {
			if reply.ThreadRootID == reply.ID {
				report.Note("", -1, "message %s names itself as its thread root; treated as orphan", reply.ID.Raw())
			} else {
				report.Note("", -1, "thread root %s not in export; synthesized placeholder", reply.ThreadRootID.Raw())
			}
			idx = len(threads)
			rootIndex[reply.ThreadRootID] = idx
			threads = append(threads, Thread{Root: stubRoot(reply)})
		}
		threads[idx].Replies = append(threads[idx].Replies, reply)
	}

	for i := range threads {
		slices.SortStableFunc(threads[i].Replies, func(a, b Message) int {
			return a.ID.Compare(b.ID)
		})
	}
	slices.SortStableFunc(threads, func(a, b Thread) int {
		return a.Root.ID.Compare(b.Root.ID)
	})
	return threads
}

func stubRoot(reply Message) Message {
	return Message{
		ID:        reply.ThreadRootID,
		AuthorID:  UnavailableAuthor,
		ChannelID: reply.ChannelID,
		Stub:      true,
	}
}

// FindThread returns the thread rooted at id
func FindThread(threads []Thread, id Timestamp) (Thread, bool) {
	for _, t := range threads {
		if t.Root.ID == id {
			return t, true
		}
	}
	return Thread{}, false
}
