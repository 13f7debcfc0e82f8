package store

import "fmt"

// Key layout. Everything is JSON under prefix-scannable keys:
//
//	user:<id>                      -> User
//	identity:<externalKey>         -> user id (secondary index)
//	conv:<id>:meta                 -> Conversation
//	direct:<loID>:<hiID>           -> conversation id (unordered-pair index)
//	conv:<convID>:msg:<ts>-<msgID> -> Message (chronological scan order)
//	msg:<msgID>                    -> Message (latest, by-id lookup)

func userKey(id string) []byte { return []byte("user:" + id) }

// IdentityKey builds the secondary index key mapping an external
// identity subject to its user id. Callers doing a lookup-then-create
// upsert serialize on this key via LockRecord.
func IdentityKey(identity string) []byte { return []byte("identity:" + identity) }

func convKey(id string) []byte { return []byte("conv:" + id + ":meta") }

func msgLatestKey(id string) []byte { return []byte("msg:" + id) }

// MsgKey builds the chronological message row key. The zero-padded
// unix-ms timestamp keeps byte order equal to time order; the message id
// suffix keeps same-millisecond rows distinct.
func MsgKey(convID string, ts int64, msgID string) []byte {
	return []byte(fmt.Sprintf("conv:%s:msg:%020d-%s", convID, ts, msgID))
}

// DirectKey canonicalizes an unordered participant pair into the unique
// direct-conversation index key.
func DirectKey(a, b string) []byte {
	if b < a {
		a, b = b, a
	}
	return []byte("direct:" + a + ":" + b)
}

func msgPrefix(convID string) []byte { return []byte("conv:" + convID + ":msg:") }
