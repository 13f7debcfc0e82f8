package chat

import (
	"reflect"
	"testing"

	"chatd/pkg/models"
)

func TestMergeReactionToggle(t *testing.T) {
	var rs []models.Reaction

	rs = mergeReaction(rs, "u1", "👍")
	want := []models.Reaction{{Emoji: "👍", UserIDs: []string{"u1"}}}
	if !reflect.DeepEqual(rs, want) {
		t.Fatalf("add: got %+v", rs)
	}

	// same emoji again clears it
	rs = mergeReaction(rs, "u1", "👍")
	if len(rs) != 0 {
		t.Fatalf("toggle off: got %+v", rs)
	}
}

func TestMergeReactionSwitchesEmoji(t *testing.T) {
	rs := []models.Reaction{{Emoji: "👍", UserIDs: []string{"u1", "u2"}}}

	rs = mergeReaction(rs, "u1", "❤️")
	want := []models.Reaction{
		{Emoji: "👍", UserIDs: []string{"u2"}},
		{Emoji: "❤️", UserIDs: []string{"u1"}},
	}
	if !reflect.DeepEqual(rs, want) {
		t.Fatalf("switch: got %+v", rs)
	}

	// a user appears in at most one group
	for _, r := range rs {
		n := 0
		for _, id := range r.UserIDs {
			if id == "u1" {
				n++
			}
		}
		if r.Emoji != "❤️" && n > 0 {
			t.Fatalf("u1 left in old group: %+v", rs)
		}
	}
}

func TestMergeReactionDropsEmptyGroups(t *testing.T) {
	rs := []models.Reaction{{Emoji: "👍", UserIDs: []string{"u1"}}}
	rs = mergeReaction(rs, "u1", "❤️")
	for _, r := range rs {
		if len(r.UserIDs) == 0 {
			t.Fatalf("empty group kept: %+v", rs)
		}
	}
	if len(rs) != 1 || rs[0].Emoji != "❤️" {
		t.Fatalf("got %+v", rs)
	}
}

func TestMergeReactionJoinsExistingGroup(t *testing.T) {
	rs := []models.Reaction{{Emoji: "👍", UserIDs: []string{"u1"}}}
	rs = mergeReaction(rs, "u2", "👍")
	want := []models.Reaction{{Emoji: "👍", UserIDs: []string{"u1", "u2"}}}
	if !reflect.DeepEqual(rs, want) {
		t.Fatalf("join: got %+v", rs)
	}
}
