package models

// OnlineWindowMs is the presence freshness threshold: a user whose last
// activity is within this window counts as online for directory reads.
const OnlineWindowMs int64 = 120000

// User is an internal account record. Identity holds the opaque subject
// string issued by the external identity provider; it is unique and
// indexed so callers can be resolved by identity on every request.
type User struct {
	ID        string `json:"id"`
	Identity  string `json:"identity"`
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
	// IsOnline is the sticky flag set on sync/heartbeat. Readers that
	// care about freshness recompute from LastSeen instead; the derived
	// value is authoritative for display.
	IsOnline bool `json:"is_online"`
	// LastSeen is a unix-millisecond timestamp of the last sync or
	// heartbeat call.
	LastSeen  int64 `json:"last_seen"`
	CreatedTS int64 `json:"created_ts,omitempty"`
}

// Fresh reports whether the user counts as online at now (unix ms).
func (u *User) Fresh(now int64) bool {
	return now-u.LastSeen < OnlineWindowMs
}

// UserSummary is the directory-listing view of a user. IsOnline here is
// the freshness-derived value, not the stored sticky flag.
type UserSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
	IsOnline  bool   `json:"is_online"`
	LastSeen  int64  `json:"last_seen"`
}
