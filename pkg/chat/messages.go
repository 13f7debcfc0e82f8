package chat

import (
	"fmt"

	"chatd/pkg/logger"
	"chatd/pkg/models"
	"chatd/pkg/store"
	"chatd/pkg/utils"
	"chatd/pkg/validation"
)

// ListMessages returns every message of the conversation in
// chronological order, enriched for the caller: sender display fields,
// ownership flag, receipt status on the caller's own messages in a
// direct conversation, and the deletion placeholder instead of the text
// of soft-deleted rows. Missing sender records render as "Unknown"
// rather than failing the read.
func ListMessages(identity, conversationID string) ([]models.MessageView, error) {
	caller, err := resolveCaller(identity)
	if err != nil {
		return nil, err
	}
	c, err := store.GetConversation(conversationID)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, fmt.Errorf("conversation %s: %w", conversationID, ErrNotFound)
		}
		return nil, err
	}
	msgs, err := store.ListMessages(conversationID)
	if err != nil {
		return nil, err
	}

	// sender records repeat heavily inside one conversation
	senders := map[string]*models.User{}
	sender := func(id string) *models.User {
		if u, ok := senders[id]; ok {
			return u
		}
		u, err := store.GetUser(id)
		if err != nil {
			senders[id] = nil
			return nil
		}
		senders[id] = &u
		return &u
	}

	out := make([]models.MessageView, 0, len(msgs))
	for _, m := range msgs {
		v := models.MessageView{
			ID:             m.ID,
			ConversationID: m.ConversationID,
			SenderID:       m.SenderID,
			SenderName:     "Unknown",
			Text:           m.Text,
			Deleted:        m.Deleted,
			Reactions:      m.Reactions,
			CreatedTS:      m.CreatedTS,
			IsCurrentUser:  m.SenderID == caller.ID,
		}
		if m.Deleted {
			v.Text = models.DeletedPlaceholder
		}
		if u := sender(m.SenderID); u != nil {
			v.SenderName = u.Name
			v.SenderAvatar = u.AvatarURL
		}
		if v.IsCurrentUser && !c.IsGroup {
			v.Status = receiptStatus(caller.ID, c, m)
		}
		out = append(out, v)
	}
	return out, nil
}

// Send appends a text message to the conversation and repoints its
// last-message reference; both writes land as one batch, so no reader
// can observe the pointer without the message.
func Send(identity, conversationID, text string) (string, error) {
	caller, err := resolveCaller(identity)
	if err != nil {
		return "", err
	}
	if err := validation.ValidateText(text); err != nil {
		return "", fmt.Errorf("%v: %w", err, ErrInvalidArgument)
	}
	m := models.Message{
		ID:             utils.GenMessageID(),
		ConversationID: conversationID,
		SenderID:       caller.ID,
		Text:           text,
		CreatedTS:      utils.NowMs(),
	}
	if err := store.AppendMessage(m); err != nil {
		if store.IsNotFound(err) {
			return "", fmt.Errorf("conversation %s: %w", conversationID, ErrNotFound)
		}
		return "", err
	}
	return m.ID, nil
}

// Remove soft-deletes a message. Only the sender may delete; the text is
// retained in storage but hidden behind the placeholder in every read
// path. Reactions stay attached to the deleted row.
func Remove(identity, messageID string) error {
	caller, err := resolveCaller(identity)
	if err != nil {
		return err
	}
	err = store.UpdateMessage(messageID, func(m *models.Message) error {
		if m.SenderID != caller.ID {
			return fmt.Errorf("cannot delete someone else's message: %w", ErrPermissionDenied)
		}
		m.Deleted = true
		return nil
	})
	if err != nil {
		if store.IsNotFound(err) {
			return fmt.Errorf("message %s: %w", messageID, ErrNotFound)
		}
		return err
	}
	logger.Info("message_deleted", "msg", messageID, "user", caller.ID)
	return nil
}

// ToggleReaction toggles the caller's emoji reaction on a message under
// the message's record lock; see mergeReaction for the exact semantics.
func ToggleReaction(identity, messageID, emoji string) error {
	caller, err := resolveCaller(identity)
	if err != nil {
		return err
	}
	if err := validation.ValidateEmoji(emoji); err != nil {
		return fmt.Errorf("%v: %w", err, ErrInvalidArgument)
	}
	err = store.UpdateMessage(messageID, func(m *models.Message) error {
		m.Reactions = mergeReaction(m.Reactions, caller.ID, emoji)
		return nil
	})
	if err != nil {
		if store.IsNotFound(err) {
			return fmt.Errorf("message %s: %w", messageID, ErrNotFound)
		}
		return err
	}
	store.ReactionsToggled.Inc()
	return nil
}
