package models

// TypingTTLMs bounds a typing entry: entries older than this are treated
// as absent by every read path without any explicit removal.
const TypingTTLMs int64 = 3000

// TypingEntry is an ephemeral marker that a user is composing a message.
type TypingEntry struct {
	UserID    string `json:"user_id"`
	ExpiresAt int64  `json:"expires_at"`
}

// Conversation is a direct or group conversation record. A direct
// conversation has exactly two distinct participants and is unique per
// unordered pair; a group carries a name and two or more participants.
type Conversation struct {
	ID             string   `json:"id"`
	ParticipantIDs []string `json:"participant_ids"`
	IsGroup        bool     `json:"is_group,omitempty"`
	GroupName      string   `json:"group_name,omitempty"`
	// LastMessageID is a weak back-reference; it may point at a
	// soft-deleted message.
	LastMessageID string `json:"last_message_id,omitempty"`
	// LastRead maps user id to the unix-ms timestamp of that user's
	// last read action.
	LastRead    map[string]int64 `json:"last_read,omitempty"`
	TypingUsers []TypingEntry    `json:"typing_users,omitempty"`
	CreatedTS   int64            `json:"created_ts,omitempty"`
}

// HasParticipant reports whether the given user belongs to the conversation.
func (c *Conversation) HasParticipant(userID string) bool {
	for _, id := range c.ParticipantIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// DisplayInfo is what a viewer sees as the conversation header: for a
// direct conversation the other participant, for a group the group name.
type DisplayInfo struct {
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url,omitempty"`
	IsOnline  bool   `json:"is_online"`
	LastSeen  int64  `json:"last_seen,omitempty"`
}

// LastMessagePreview is the inbox-row preview of the newest message.
type LastMessagePreview struct {
	Text          string `json:"text"`
	CreatedAt     int64  `json:"created_at"`
	IsCurrentUser bool   `json:"is_current_user"`
}

// ConversationSummary is one row of a viewer's conversation list.
type ConversationSummary struct {
	ID          string              `json:"id"`
	IsGroup     bool                `json:"is_group"`
	MemberCount int                 `json:"member_count"`
	DisplayInfo DisplayInfo         `json:"display_info"`
	UnreadCount int                 `json:"unread_count"`
	LastMessage *LastMessagePreview `json:"last_message,omitempty"`
}

// ConversationDetail is the single-conversation view: the record itself
// plus the display names of users with a live typing entry, excluding
// the viewer.
type ConversationDetail struct {
	Conversation
	TypingNames []string `json:"typing_names"`
}
