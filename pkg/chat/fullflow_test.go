package chat

import (
	"testing"

	"chatd/pkg/models"
)

// TestFullConversationFlow walks a two-user conversation end to end:
// first contact creates the direct conversation, unread counts rise and
// reset, a reaction lands, and a soft delete hides the text while the
// reaction stays attached.
func TestFullConversationFlow(t *testing.T) {
	setupStore(t)
	now := setClock(t, 1000)

	mkUser(t, "ext|alice", "Alice")
	bob := mkUser(t, "ext|bob", "Bob")

	conv, err := CreateOrGetDirect("ext|alice", bob.ID)
	if err != nil {
		t.Fatalf("CreateOrGetDirect: %v", err)
	}

	*now = 2000
	mid, err := Send("ext|alice", conv, "hi")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}

	sums, err := ListForViewer("ext|bob")
	if err != nil {
		t.Fatalf("ListForViewer: %v", err)
	}
	if len(sums) != 1 || sums[0].UnreadCount != 1 {
		t.Fatalf("bob's unread after hi: %+v", sums)
	}
	if sums[0].DisplayInfo.Name != "Alice" {
		t.Fatalf("bob's header should show Alice: %+v", sums[0].DisplayInfo)
	}

	*now = 3000
	if err := MarkRead("ext|bob", conv); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	sums, _ = ListForViewer("ext|bob")
	if sums[0].UnreadCount != 0 {
		t.Fatalf("bob's unread after read: %d", sums[0].UnreadCount)
	}

	if err := ToggleReaction("ext|bob", mid, "❤️"); err != nil {
		t.Fatalf("ToggleReaction: %v", err)
	}
	msgs, err := ListMessages("ext|alice", conv)
	if err != nil {
		t.Fatalf("ListMessages: %v", err)
	}
	if len(msgs) != 1 || len(msgs[0].Reactions) != 1 {
		t.Fatalf("reaction missing: %+v", msgs)
	}
	r := msgs[0].Reactions[0]
	if r.Emoji != "❤️" || len(r.UserIDs) != 1 || r.UserIDs[0] != bob.ID {
		t.Fatalf("reaction wrong: %+v", r)
	}
	// bob's read marker has passed the message
	if msgs[0].Status != models.StatusSeen {
		t.Fatalf("alice's message should read seen: %q", msgs[0].Status)
	}

	if err := Remove("ext|alice", mid); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	msgs, _ = ListMessages("ext|bob", conv)
	if msgs[0].Text != models.DeletedPlaceholder {
		t.Fatalf("deleted text visible to bob: %q", msgs[0].Text)
	}
	if len(msgs[0].Reactions) != 1 {
		t.Fatalf("reaction detached by delete: %+v", msgs[0])
	}
}
