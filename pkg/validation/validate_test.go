package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func resetRules(t *testing.T) {
	t.Helper()
	prev := rules
	t.Cleanup(func() { rules = prev })
}

func TestValidateText(t *testing.T) {
	resetRules(t)

	assert.NoError(t, ValidateText("hello"))
	assert.Error(t, ValidateText(""))
	assert.Error(t, ValidateText("   \n\t"))
	assert.Error(t, ValidateText(strings.Repeat("x", rules.MaxTextLen+1)))
}

func TestValidateGroupName(t *testing.T) {
	resetRules(t)

	assert.NoError(t, ValidateGroupName("Weekend Plans"))
	assert.Error(t, ValidateGroupName(" "))
	assert.Error(t, ValidateGroupName(strings.Repeat("n", rules.MaxNameLen+1)))
}

func TestValidateEmoji(t *testing.T) {
	resetRules(t)

	assert.NoError(t, ValidateEmoji("👍"))
	assert.NoError(t, ValidateEmoji("❤️"))
	assert.Error(t, ValidateEmoji(""))
	assert.Error(t, ValidateEmoji(string([]byte{0xff, 0xfe})))
}

func TestSetRulesKeepsDefaultsForZeroFields(t *testing.T) {
	resetRules(t)

	SetRules(Rules{MaxTextLen: 10})
	assert.Error(t, ValidateText(strings.Repeat("x", 11)))
	assert.NoError(t, ValidateText(strings.Repeat("x", 10)))
	// name limit untouched
	assert.NoError(t, ValidateGroupName(strings.Repeat("n", 100)))
}
