package reminder

import "errors"

var (
	ErrNotificationExpired = errors.New("notification fire time is not in the future")
	ErrBackendClosed       = errors.New("notification backend is closed")
)
