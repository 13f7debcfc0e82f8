package chat

import (
	"chatd/pkg/models"
	"chatd/pkg/store"
	"chatd/pkg/utils"
)

// Heartbeat refreshes the caller's last-seen timestamp and sticky online
// flag. Best-effort: an unauthenticated or unknown caller is a silent
// no-op. There is no expiry job; readers derive online state from
// LastSeen at read time.
func Heartbeat(identity string) error {
	if identity == "" {
		return nil
	}
	u, err := store.GetUserByIdentity(identity)
	if err != nil {
		if store.IsNotFound(err) {
			return nil
		}
		return err
	}
	return store.UpdateUser(u.ID, func(u *models.User) error {
		u.LastSeen = utils.NowMs()
		u.IsOnline = true
		return nil
	})
}
