package chat

import (
	"chatd/pkg/logger"
	"chatd/pkg/models"
	"chatd/pkg/store"
	"chatd/pkg/utils"
)

// Summarize builds the viewer-relative inbox row for one conversation:
// display header, member count, unread count, and last-message preview.
// Enrichment failures (missing other participant, dangling last-message
// pointer) degrade to placeholders so one bad reference never fails the
// whole listing.
func Summarize(viewer models.User, c models.Conversation) models.ConversationSummary {
	s := models.ConversationSummary{
		ID:          c.ID,
		IsGroup:     c.IsGroup,
		MemberCount: len(c.ParticipantIDs),
		DisplayInfo: models.DisplayInfo{Name: "Unknown"},
	}

	if c.IsGroup {
		s.DisplayInfo.Name = c.GroupName
		if s.DisplayInfo.Name == "" {
			s.DisplayInfo.Name = "Unnamed Group"
		}
	} else {
		now := utils.NowMs()
		for _, id := range c.ParticipantIDs {
			if id == viewer.ID {
				continue
			}
			other, err := store.GetUser(id)
			if err != nil {
				logger.Warn("summary_other_participant_missing", "conversation", c.ID, "user", id)
				break
			}
			s.DisplayInfo = models.DisplayInfo{
				Name:      other.Name,
				AvatarURL: other.AvatarURL,
				IsOnline:  other.Fresh(now),
				LastSeen:  other.LastSeen,
			}
			break
		}
	}

	if c.LastMessageID != "" {
		if m, err := store.GetMessage(c.LastMessageID); err == nil {
			text := m.Text
			if m.Deleted {
				text = models.DeletedPlaceholder
			}
			s.LastMessage = &models.LastMessagePreview{
				Text:          text,
				CreatedAt:     m.CreatedTS,
				IsCurrentUser: m.SenderID == viewer.ID,
			}
		} else {
			logger.Warn("summary_last_message_missing", "conversation", c.ID, "msg", c.LastMessageID)
		}
	}

	s.UnreadCount = unreadCount(viewer.ID, c)
	return s
}

// unreadCount recomputes the unread total from scratch: messages from
// other senders created after the viewer's last read marker. An
// O(messages) scan is the accepted tradeoff at this scale; there is no
// incremental counter to drift.
func unreadCount(viewerID string, c models.Conversation) int {
	myLastRead := c.LastRead[viewerID]
	msgs, err := store.ListMessages(c.ID)
	if err != nil {
		logger.Warn("unread_scan_failed", "conversation", c.ID, "err", err)
		return 0
	}
	n := 0
	for _, m := range msgs {
		if m.SenderID != viewerID && m.CreatedTS > myLastRead {
			n++
		}
	}
	return n
}

// receiptStatus derives the sent/seen status of the viewer's own message
// in a direct conversation: seen once any other participant's read
// marker passes the message's creation time.
func receiptStatus(viewerID string, c models.Conversation, m models.Message) string {
	var maxOtherRead int64
	for id, ts := range c.LastRead {
		if id != viewerID && ts > maxOtherRead {
			maxOtherRead = ts
		}
	}
	if m.CreatedTS <= maxOtherRead {
		return models.StatusSeen
	}
	return models.StatusSent
}
