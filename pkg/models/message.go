package models

// DeletedPlaceholder replaces the text of a soft-deleted message in
// every read path. The original text stays in storage.
const DeletedPlaceholder = "This message was deleted"

// Reaction groups the users who reacted to a message with one emoji.
// Across the whole reaction list a user id appears in at most one group.
type Reaction struct {
	Emoji   string   `json:"emoji"`
	UserIDs []string `json:"user_ids"`
}

// Message is a text message scoped to a conversation. Deleted marks a
// soft delete; the row is never removed.
type Message struct {
	ID             string     `json:"id"`
	ConversationID string     `json:"conversation_id"`
	SenderID       string     `json:"sender_id"`
	Text           string     `json:"text"`
	Deleted        bool       `json:"deleted,omitempty"`
	Reactions      []Reaction `json:"reactions,omitempty"`
	// CreatedTS is a unix-millisecond creation timestamp.
	CreatedTS int64 `json:"created_ts"`
}

// Message view statuses for read receipts on the sender's own messages.
const (
	StatusSent = "sent"
	StatusSeen = "seen"
)

// MessageView is a message enriched for a particular viewer: sender
// display fields, ownership flag, and (for the viewer's own messages in
// a direct conversation) a sent/seen receipt status.
type MessageView struct {
	ID             string     `json:"id"`
	ConversationID string     `json:"conversation_id"`
	SenderID       string     `json:"sender_id"`
	SenderName     string     `json:"sender_name"`
	SenderAvatar   string     `json:"sender_avatar,omitempty"`
	Text           string     `json:"text"`
	Deleted        bool       `json:"deleted,omitempty"`
	Reactions      []Reaction `json:"reactions,omitempty"`
	CreatedTS      int64      `json:"created_ts"`
	IsCurrentUser  bool       `json:"is_current_user"`
	Status         string     `json:"status,omitempty"`
}
