package chat

import "errors"

// Error taxonomy surfaced by the core. Handlers map these onto HTTP
// statuses; read paths mostly degrade to empty results instead of
// returning ErrUnauthenticated (see the individual operations).
var (
	ErrUnauthenticated  = errors.New("unauthenticated")
	ErrNotFound         = errors.New("not found")
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrPermissionDenied = errors.New("permission denied")
)

func isUnauthenticated(err error) bool {
	return errors.Is(err, ErrUnauthenticated)
}
