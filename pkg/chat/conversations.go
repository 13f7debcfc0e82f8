package chat

import (
	"fmt"
	"sort"

	"chatd/pkg/logger"
	"chatd/pkg/models"
	"chatd/pkg/store"
	"chatd/pkg/utils"
	"chatd/pkg/validation"
)

// CreateOrGetDirect returns the id of the direct conversation between
// the caller and otherID, creating it when the pair has none yet. The
// unordered pair is unique: both argument orders land on the same
// conversation.
func CreateOrGetDirect(identity, otherID string) (string, error) {
	caller, err := resolveCaller(identity)
	if err != nil {
		return "", err
	}
	if caller.ID == otherID {
		return "", fmt.Errorf("cannot message yourself: %w", ErrInvalidArgument)
	}
	if _, err := store.GetUser(otherID); err != nil {
		if store.IsNotFound(err) {
			return "", fmt.Errorf("participant %s: %w", otherID, ErrNotFound)
		}
		return "", err
	}

	// Creation races on the same pair serialize on the pair index key,
	// so the second creator finds the first one's conversation.
	unlock := store.LockRecord(string(store.DirectKey(caller.ID, otherID)))
	defer unlock()

	if id, err := store.LookupDirect(caller.ID, otherID); err != nil {
		return "", err
	} else if id != "" {
		return id, nil
	}

	c := models.Conversation{
		ID:             utils.GenConversationID(),
		ParticipantIDs: []string{caller.ID, otherID},
		CreatedTS:      utils.NowMs(),
	}
	if err := store.CreateConversation(c); err != nil {
		return "", err
	}
	return c.ID, nil
}

// CreateGroup creates a group conversation named name whose participant
// set is memberIDs plus the caller, deduplicated. Fewer than two
// resulting members is rejected.
func CreateGroup(identity, name string, memberIDs []string) (string, error) {
	caller, err := resolveCaller(identity)
	if err != nil {
		return "", err
	}
	if err := validation.ValidateGroupName(name); err != nil {
		return "", fmt.Errorf("%v: %w", err, ErrInvalidArgument)
	}
	seen := map[string]struct{}{caller.ID: {}}
	participants := []string{caller.ID}
	for _, id := range memberIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		participants = append(participants, id)
	}
	if len(participants) < 2 {
		return "", fmt.Errorf("group must have at least 2 members: %w", ErrInvalidArgument)
	}
	c := models.Conversation{
		ID:             utils.GenConversationID(),
		ParticipantIDs: participants,
		IsGroup:        true,
		GroupName:      name,
		CreatedTS:      utils.NowMs(),
	}
	if err := store.CreateConversation(c); err != nil {
		return "", err
	}
	return c.ID, nil
}

// ListForViewer returns every conversation containing the caller as an
// enriched summary, newest activity first. Conversations without any
// message sink to the bottom. Unauthenticated callers get an empty list.
func ListForViewer(identity string) ([]models.ConversationSummary, error) {
	caller, err := resolveCaller(identity)
	if err != nil {
		if isUnauthenticated(err) {
			return []models.ConversationSummary{}, nil
		}
		return nil, err
	}
	convs, err := store.ListConversations()
	if err != nil {
		return nil, err
	}
	out := make([]models.ConversationSummary, 0, len(convs))
	for _, c := range convs {
		if !c.HasParticipant(caller.ID) {
			continue
		}
		out = append(out, Summarize(caller, c))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return lastActivity(out[i]) > lastActivity(out[j])
	})
	return out, nil
}

func lastActivity(s models.ConversationSummary) int64 {
	if s.LastMessage != nil {
		return s.LastMessage.CreatedAt
	}
	return 0
}

// SetTyping inserts or refreshes the caller's typing entry on the
// conversation. Typing is best-effort: unresolvable caller or
// conversation is a silent no-op. Stale entries (including the caller's
// own) are purged on the way through, so each user holds at most one
// live entry.
func SetTyping(identity, conversationID string) error {
	caller, err := resolveCaller(identity)
	if err != nil {
		if isUnauthenticated(err) {
			return nil
		}
		return err
	}
	now := utils.NowMs()
	err = store.UpdateConversation(conversationID, func(c *models.Conversation) error {
		kept := c.TypingUsers[:0]
		for _, t := range c.TypingUsers {
			if t.UserID != caller.ID && t.ExpiresAt > now {
				kept = append(kept, t)
			}
		}
		c.TypingUsers = append(kept, models.TypingEntry{
			UserID:    caller.ID,
			ExpiresAt: now + models.TypingTTLMs,
		})
		return nil
	})
	if err != nil {
		if store.IsNotFound(err) {
			return nil
		}
		return err
	}
	store.TypingUpdates.Inc()
	return nil
}

// MarkRead advances the caller's last-read marker on the conversation to
// now. Silent no-op on an unresolvable caller or conversation.
func MarkRead(identity, conversationID string) error {
	caller, err := resolveCaller(identity)
	if err != nil {
		if isUnauthenticated(err) {
			return nil
		}
		return err
	}
	now := utils.NowMs()
	err = store.UpdateConversation(conversationID, func(c *models.Conversation) error {
		if c.LastRead == nil {
			c.LastRead = map[string]int64{}
		}
		c.LastRead[caller.ID] = now
		return nil
	})
	if err != nil {
		if store.IsNotFound(err) {
			return nil
		}
		return err
	}
	store.ReadsMarked.Inc()
	return nil
}

// GetEnriched returns the conversation plus the display names of users
// whose typing entry is still live, excluding the viewer. A nil result
// with nil error means the viewer is unauthenticated or the conversation
// is absent; callers render that as an empty state.
func GetEnriched(identity, conversationID string) (*models.ConversationDetail, error) {
	caller, err := resolveCaller(identity)
	if err != nil {
		if isUnauthenticated(err) {
			return nil, nil
		}
		return nil, err
	}
	c, err := store.GetConversation(conversationID)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	now := utils.NowMs()
	names := []string{}
	for _, t := range c.TypingUsers {
		if t.ExpiresAt <= now || t.UserID == caller.ID {
			continue
		}
		if u, err := store.GetUser(t.UserID); err == nil {
			names = append(names, u.Name)
		} else {
			names = append(names, "Someone")
		}
	}
	return &models.ConversationDetail{Conversation: c, TypingNames: names}, nil
}

// LeaveGroup removes the caller from a group conversation's participant
// set. Leaving a direct conversation is rejected.
func LeaveGroup(identity, conversationID string) error {
	caller, err := resolveCaller(identity)
	if err != nil {
		return err
	}
	err = store.UpdateConversation(conversationID, func(c *models.Conversation) error {
		if !c.IsGroup {
			return fmt.Errorf("cannot leave a direct conversation: %w", ErrInvalidArgument)
		}
		if !c.HasParticipant(caller.ID) {
			return fmt.Errorf("not a participant: %w", ErrNotFound)
		}
		kept := c.ParticipantIDs[:0]
		for _, id := range c.ParticipantIDs {
			if id != caller.ID {
				kept = append(kept, id)
			}
		}
		c.ParticipantIDs = kept
		return nil
	})
	if err != nil {
		if store.IsNotFound(err) {
			return fmt.Errorf("conversation %s: %w", conversationID, ErrNotFound)
		}
		return err
	}
	logger.Info("group_left", "conversation", conversationID, "user", caller.ID)
	return nil
}
