package utils

import (
	"strings"

	"github.com/google/uuid"
)

func newID(prefix string) string {
	return prefix + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// GenUserID returns a new user id.
func GenUserID() string { return newID("usr") }

// GenConversationID returns a new conversation id.
func GenConversationID() string { return newID("cnv") }

// GenMessageID returns a new message id.
func GenMessageID() string { return newID("msg") }

// NowMs is the clock used for all record timestamps (unix milliseconds).
// Tests may override it to get deterministic time.
var NowMs = defaultNowMs
