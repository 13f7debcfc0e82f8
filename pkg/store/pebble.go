package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/cockroachdb/pebble"

	"chatd/pkg/logger"
	"chatd/pkg/models"
)

var db *pebble.DB

var errNotOpen = errors.New("pebble not opened; call store.Open first")

// Open opens (or creates) a Pebble database at the given path and keeps
// a global handle for simple usage in this package.
func Open(path string) error {
	var err error
	logger.Info("opening_pebble_db", "path", path)
	db, err = pebble.Open(path, &pebble.Options{})
	if err != nil {
		logger.Error("pebble_open_failed", "path", path, "err", err)
		return err
	}
	logger.Info("pebble_opened", "path", path)
	return nil
}

// Close closes the opened pebble DB if present.
func Close() error {
	if db == nil {
		return nil
	}
	if err := db.Close(); err != nil {
		return err
	}
	db = nil
	logger.Info("pebble_closed")
	return nil
}

// Ready reports whether the store is opened and ready.
func Ready() bool { return db != nil }

// IsNotFound reports whether err means the requested record is absent.
func IsNotFound(err error) bool {
	return errors.Is(err, pebble.ErrNotFound)
}

func getJSON(key []byte, v interface{}) error {
	if db == nil {
		return errNotOpen
	}
	raw, closer, err := db.Get(key)
	if err != nil {
		return err
	}
	defer closer.Close()
	return json.Unmarshal(raw, v)
}

func setJSON(key []byte, v interface{}) error {
	if db == nil {
		return errNotOpen
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	return db.Set(key, b, pebble.Sync)
}

// --- Users ---

// SaveUser writes the user row and its identity index entry in one
// batch so lookups by external identity never see a half-written user.
func SaveUser(u models.User) error {
	if db == nil {
		return errNotOpen
	}
	b, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}
	wb := db.NewBatch()
	_ = wb.Set(userKey(u.ID), b, nil)
	_ = wb.Set(IdentityKey(u.Identity), []byte(u.ID), nil)
	if err := db.Apply(wb, pebble.Sync); err != nil {
		logger.Error("save_user_failed", "user", u.ID, "err", err)
		return err
	}
	logger.Debug("user_saved", "user", u.ID)
	return nil
}

// GetUser returns the user record for an internal id.
func GetUser(id string) (models.User, error) {
	var u models.User
	err := getJSON(userKey(id), &u)
	return u, err
}

// GetUserByIdentity resolves an external identity subject to the user
// record through the identity index.
func GetUserByIdentity(identity string) (models.User, error) {
	if db == nil {
		return models.User{}, errNotOpen
	}
	raw, closer, err := db.Get(IdentityKey(identity))
	if err != nil {
		return models.User{}, err
	}
	id := string(raw)
	closer.Close()
	return GetUser(id)
}

// ListUsers returns every user record.
func ListUsers() ([]models.User, error) {
	if db == nil {
		return nil, errNotOpen
	}
	prefix := []byte("user:")
	iter, err := db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return nil, err
	}
	defer iter.Close()
	var out []models.User
	for iter.SeekGE(prefix); iter.Valid(); iter.Next() {
		if !bytes.HasPrefix(iter.Key(), prefix) {
			break
		}
		var u models.User
		if err := json.Unmarshal(iter.Value(), &u); err != nil {
			continue
		}
		out = append(out, u)
	}
	return out, iter.Error()
}

// UpdateUser applies fn to the user record under the per-record lock and
// writes the result back. fn returning an error aborts the write.
func UpdateUser(id string, fn func(*models.User) error) error {
	unlock := recordLocks.acquire(string(userKey(id)))
	defer unlock()
	u, err := GetUser(id)
	if err != nil {
		return err
	}
	if err := fn(&u); err != nil {
		return err
	}
	return SaveUser(u)
}

// --- Conversations ---

// CreateConversation writes the conversation row and, for a direct
// conversation, the unordered-pair index entry in one batch. The pair
// index is what makes create-or-get idempotent without a full scan.
func CreateConversation(c models.Conversation) error {
	if db == nil {
		return errNotOpen
	}
	b, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal conversation: %w", err)
	}
	wb := db.NewBatch()
	_ = wb.Set(convKey(c.ID), b, nil)
	if !c.IsGroup && len(c.ParticipantIDs) == 2 {
		_ = wb.Set(DirectKey(c.ParticipantIDs[0], c.ParticipantIDs[1]), []byte(c.ID), nil)
	}
	if err := db.Apply(wb, pebble.Sync); err != nil {
		logger.Error("create_conversation_failed", "conversation", c.ID, "err", err)
		return err
	}
	logger.Info("conversation_created", "conversation", c.ID, "group", c.IsGroup)
	conversationsCreated.Inc()
	return nil
}

// GetConversation returns the conversation record for an id.
func GetConversation(id string) (models.Conversation, error) {
	var c models.Conversation
	err := getJSON(convKey(id), &c)
	return c, err
}

// ListConversations returns every conversation record.
func ListConversations() ([]models.Conversation, error) {
	if db == nil {
		return nil, errNotOpen
	}
	prefix := []byte("conv:")
	iter, err := db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return nil, err
	}
	defer iter.Close()
	var out []models.Conversation
	for iter.SeekGE(prefix); iter.Valid(); iter.Next() {
		if !bytes.HasPrefix(iter.Key(), prefix) {
			break
		}
		if !strings.HasSuffix(string(iter.Key()), ":meta") {
			continue
		}
		var c models.Conversation
		if err := json.Unmarshal(iter.Value(), &c); err != nil {
			continue
		}
		out = append(out, c)
	}
	return out, iter.Error()
}

// LookupDirect returns the id of the direct conversation for the
// unordered pair, or empty string when none exists.
func LookupDirect(a, b string) (string, error) {
	if db == nil {
		return "", errNotOpen
	}
	raw, closer, err := db.Get(DirectKey(a, b))
	if err != nil {
		if IsNotFound(err) {
			return "", nil
		}
		return "", err
	}
	id := string(raw)
	closer.Close()
	return id, nil
}

// UpdateConversation applies fn to the conversation record under the
// per-record lock and writes the result back. Concurrent typing
// refreshes and read marks on the same conversation serialize here.
func UpdateConversation(id string, fn func(*models.Conversation) error) error {
	unlock := recordLocks.acquire(string(convKey(id)))
	defer unlock()
	c, err := GetConversation(id)
	if err != nil {
		return err
	}
	if err := fn(&c); err != nil {
		return err
	}
	return setJSON(convKey(id), c)
}

// --- Messages ---

// AppendMessage inserts a message and repoints the parent conversation's
// LastMessageID in a single batch. Readers can never observe the new
// pointer without the message row behind it.
func AppendMessage(m models.Message) error {
	if db == nil {
		return errNotOpen
	}
	unlock := recordLocks.acquire(string(convKey(m.ConversationID)))
	defer unlock()

	c, err := GetConversation(m.ConversationID)
	if err != nil {
		return err
	}
	c.LastMessageID = m.ID

	mb, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	cb, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal conversation: %w", err)
	}
	wb := db.NewBatch()
	_ = wb.Set(MsgKey(m.ConversationID, m.CreatedTS, m.ID), mb, nil)
	_ = wb.Set(msgLatestKey(m.ID), mb, nil)
	_ = wb.Set(convKey(c.ID), cb, nil)
	if err := db.Apply(wb, pebble.Sync); err != nil {
		logger.Error("append_message_failed", "conversation", m.ConversationID, "msg", m.ID, "err", err)
		return err
	}
	logger.Info("message_saved", "conversation", m.ConversationID, "msg", m.ID)
	messagesSent.Inc()
	return nil
}

// GetMessage returns the latest state of a message by id.
func GetMessage(id string) (models.Message, error) {
	var m models.Message
	err := getJSON(msgLatestKey(id), &m)
	return m, err
}

// ListMessages returns all messages for a conversation in chronological
// order.
func ListMessages(convID string) ([]models.Message, error) {
	if db == nil {
		return nil, errNotOpen
	}
	prefix := msgPrefix(convID)
	iter, err := db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return nil, err
	}
	defer iter.Close()
	var out []models.Message
	for iter.SeekGE(prefix); iter.Valid(); iter.Next() {
		if !bytes.HasPrefix(iter.Key(), prefix) {
			break
		}
		var m models.Message
		if err := json.Unmarshal(iter.Value(), &m); err != nil {
			logger.Warn("list_messages_bad_row", "key", string(iter.Key()), "err", err)
			continue
		}
		out = append(out, m)
	}
	return out, iter.Error()
}

// UpdateMessage applies fn to the message under the per-record lock and
// rewrites both the chronological row and the by-id row in one batch.
// This is the single mutation entry point for reaction toggles and soft
// deletes; concurrent toggles on the same message serialize here.
func UpdateMessage(id string, fn func(*models.Message) error) error {
	unlock := recordLocks.acquire(string(msgLatestKey(id)))
	defer unlock()

	m, err := GetMessage(id)
	if err != nil {
		return err
	}
	if err := fn(&m); err != nil {
		return err
	}
	b, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	wb := db.NewBatch()
	_ = wb.Set(MsgKey(m.ConversationID, m.CreatedTS, m.ID), b, nil)
	_ = wb.Set(msgLatestKey(m.ID), b, nil)
	if err := db.Apply(wb, pebble.Sync); err != nil {
		logger.Error("update_message_failed", "msg", id, "err", err)
		return err
	}
	return nil
}
