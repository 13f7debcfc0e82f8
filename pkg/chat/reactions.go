package chat

import "chatd/pkg/models"

// mergeReaction applies one toggle of emoji by userID to a reaction
// list, enforcing the one-emoji-per-user invariant:
//
//  1. note whether the user is currently in this emoji's group,
//  2. strip the user from every group, dropping groups that empty out,
//  3. if the user was not already on this emoji, add them to it.
//
// Toggling the same emoji twice clears it; toggling a different emoji
// switches the user's reaction. The caller applies the result in a
// single read-modify-write so concurrent toggles serialize per message.
func mergeReaction(reactions []models.Reaction, userID, emoji string) []models.Reaction {
	wasReacting := false
	for _, r := range reactions {
		if r.Emoji != emoji {
			continue
		}
		for _, id := range r.UserIDs {
			if id == userID {
				wasReacting = true
				break
			}
		}
		break
	}

	clean := make([]models.Reaction, 0, len(reactions)+1)
	for _, r := range reactions {
		kept := make([]string, 0, len(r.UserIDs))
		for _, id := range r.UserIDs {
			if id != userID {
				kept = append(kept, id)
			}
		}
		if len(kept) > 0 {
			clean = append(clean, models.Reaction{Emoji: r.Emoji, UserIDs: kept})
		}
	}

	if wasReacting {
		return clean
	}
	for i := range clean {
		if clean[i].Emoji == emoji {
			clean[i].UserIDs = append(clean[i].UserIDs, userID)
			return clean
		}
	}
	return append(clean, models.Reaction{Emoji: emoji, UserIDs: []string{userID}})
}
