package validation

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Rules bounds user-supplied fields. Limits come from config at startup;
// zero values fall back to the defaults below.
type Rules struct {
	MaxTextLen  int
	MaxNameLen  int
	MaxEmojiLen int
}

const (
	defaultMaxTextLen  = 4096
	defaultMaxNameLen  = 128
	defaultMaxEmojiLen = 64
)

var rules = Rules{
	MaxTextLen:  defaultMaxTextLen,
	MaxNameLen:  defaultMaxNameLen,
	MaxEmojiLen: defaultMaxEmojiLen,
}

// SetRules installs limits from config. Zero fields keep their defaults.
func SetRules(r Rules) {
	if r.MaxTextLen > 0 {
		rules.MaxTextLen = r.MaxTextLen
	}
	if r.MaxNameLen > 0 {
		rules.MaxNameLen = r.MaxNameLen
	}
	if r.MaxEmojiLen > 0 {
		rules.MaxEmojiLen = r.MaxEmojiLen
	}
}

// ValidateText checks a message body.
func ValidateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return errors.New("text is required")
	}
	if len(text) > rules.MaxTextLen {
		return fmt.Errorf("text too long: %d > %d", len(text), rules.MaxTextLen)
	}
	return nil
}

// ValidateGroupName checks a group conversation name.
func ValidateGroupName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("group name is required")
	}
	if len(name) > rules.MaxNameLen {
		return fmt.Errorf("group name too long: %d > %d", len(name), rules.MaxNameLen)
	}
	return nil
}

// ValidateEmoji checks a reaction key. Any short valid-UTF8 string is
// accepted; clients decide what renders as an emoji.
func ValidateEmoji(emoji string) error {
	if emoji == "" {
		return errors.New("emoji is required")
	}
	if !utf8.ValidString(emoji) {
		return errors.New("emoji is not valid utf-8")
	}
	if len(emoji) > rules.MaxEmojiLen {
		return fmt.Errorf("emoji too long: %d > %d", len(emoji), rules.MaxEmojiLen)
	}
	return nil
}
