package usecase

import "testing"

func TestTranscriptLogAppendAssignsIdentity(t *testing.T) {
	t.Parallel()

	log := newTranscriptLog()
	first := log.Append("hello world")
	second := log.Append("hello again")

	if first.ID == "" || second.ID == "" {
		t.Fatalf("expected ids on appended entries")
	}
	if first.ID == second.ID {
		t.Fatalf("ids must be unique, both %q", first.ID)
	}
	if first.CreatedAt.IsZero() {
		t.Fatalf("expected timestamp on appended entry")
	}
	if !first.Final {
		t.Fatalf("appended entries are always final")
	}

	entries := log.Entries()
	if len(entries) != 2 || entries[0].Text != "hello world" || entries[1].Text != "hello again" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}

func TestTranscriptLogEntriesReturnsCopy(t *testing.T) {
	t.Parallel()

	log := newTranscriptLog()
	log.Append("one")

	entries := log.Entries()
	entries[0].Text = "mutated"

	if got := log.Entries()[0].Text; got != "one" {
		t.Fatalf("log must not observe caller mutation, got %q", got)
	}
}

func TestTranscriptLogJoinedText(t *testing.T) {
	t.Parallel()

	log := newTranscriptLog()
	if got := log.JoinedText(); got != "" {
		t.Fatalf("empty log joins to empty string, got %q", got)
	}

	log.Append("first line")
	log.Append("second line")
	if got := log.JoinedText(); got != "first line\nsecond line" {
		t.Fatalf("unexpected joined text: %q", got)
	}
}

func TestTranscriptLogClearDropsEverything(t *testing.T) {
	t.Parallel()

	log := newTranscriptLog()
	log.Append("keep me not")
	log.SetInterim("half a thou")

	log.Clear()

	if got := len(log.Entries()); got != 0 {
		t.Fatalf("expected no entries, got %d", got)
	}
	if got := log.Interim(); got != "" {
		t.Fatalf("expected empty interim, got %q", got)
	}
}
