package chat

import (
	"fmt"
	"strings"

	"chatd/pkg/logger"
	"chatd/pkg/models"
	"chatd/pkg/store"
	"chatd/pkg/utils"
)

// Resolve maps an external identity subject to the internal user record,
// creating it with default presence fields on first contact. Repeated
// calls are idempotent lookups.
func Resolve(identity string) (models.User, error) {
	if identity == "" {
		return models.User{}, ErrUnauthenticated
	}

	// First-contact upserts race on the identity index; serialize the
	// lookup-then-create so the pair cannot mint two user rows.
	unlock := store.LockRecord(string(store.IdentityKey(identity)))
	defer unlock()

	u, err := store.GetUserByIdentity(identity)
	if err == nil {
		return u, nil
	}
	if !store.IsNotFound(err) {
		return models.User{}, err
	}
	now := utils.NowMs()
	u = models.User{
		ID:        utils.GenUserID(),
		Identity:  identity,
		LastSeen:  now,
		CreatedTS: now,
	}
	if err := store.SaveUser(u); err != nil {
		return models.User{}, fmt.Errorf("create user: %w", err)
	}
	logger.Info("user_created", "user", u.ID)
	return u, nil
}

// SyncProfile upserts the caller's display fields and marks the user
// online with a fresh last-seen timestamp. Called by the presentation
// layer whenever the identity provider reports a session.
func SyncProfile(identity, name, email, avatarURL string) (models.User, error) {
	if identity == "" {
		return models.User{}, ErrUnauthenticated
	}

	// Same serialization as Resolve: sync and heartbeat commonly land
	// together on first login.
	unlock := store.LockRecord(string(store.IdentityKey(identity)))
	defer unlock()

	now := utils.NowMs()
	existing, err := store.GetUserByIdentity(identity)
	if err != nil {
		if !store.IsNotFound(err) {
			return models.User{}, err
		}
		u := models.User{
			ID:        utils.GenUserID(),
			Identity:  identity,
			Name:      name,
			Email:     email,
			AvatarURL: avatarURL,
			IsOnline:  true,
			LastSeen:  now,
			CreatedTS: now,
		}
		if err := store.SaveUser(u); err != nil {
			return models.User{}, fmt.Errorf("create user: %w", err)
		}
		logger.Info("user_created", "user", u.ID)
		return u, nil
	}
	err = store.UpdateUser(existing.ID, func(u *models.User) error {
		u.Name = name
		u.Email = email
		u.AvatarURL = avatarURL
		u.IsOnline = true
		u.LastSeen = now
		return nil
	})
	if err != nil {
		return models.User{}, err
	}
	return store.GetUser(existing.ID)
}

// Me returns the caller's own user record, or nil for an unauthenticated
// or unknown caller. Rendering a signed-out state is the caller's job,
// so this is a normal outcome, not an error.
func Me(identity string) (*models.User, error) {
	if identity == "" {
		return nil, nil
	}
	u, err := store.GetUserByIdentity(identity)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// OtherUsers is the directory query: every user except the caller,
// optionally filtered by a case-insensitive name substring. IsOnline in
// the result is recomputed from LastSeen freshness; the stored sticky
// flag is ignored here.
func OtherUsers(identity, search string) ([]models.UserSummary, error) {
	if identity == "" {
		return []models.UserSummary{}, nil
	}
	users, err := store.ListUsers()
	if err != nil {
		return nil, err
	}
	now := utils.NowMs()
	needle := strings.ToLower(search)
	out := make([]models.UserSummary, 0, len(users))
	for _, u := range users {
		if u.Identity == identity {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(u.Name), needle) {
			continue
		}
		out = append(out, models.UserSummary{
			ID:        u.ID,
			Name:      u.Name,
			AvatarURL: u.AvatarURL,
			IsOnline:  u.Fresh(now),
			LastSeen:  u.LastSeen,
		})
	}
	return out, nil
}

// resolveCaller looks up the caller for an operation that requires an
// existing user record.
func resolveCaller(identity string) (models.User, error) {
	if identity == "" {
		return models.User{}, ErrUnauthenticated
	}
	u, err := store.GetUserByIdentity(identity)
	if err != nil {
		if store.IsNotFound(err) {
			return models.User{}, fmt.Errorf("current user: %w", ErrUnauthenticated)
		}
		return models.User{}, err
	}
	return u, nil
}
