package chat

import "errors"

var (
	// Ошибки проверки учетных данных (IdentityVerifier)
	ErrInvalidCredential = errors.New("invalid credential")
	ErrIdentityNotFound  = errors.New("identity not found")

	// Ошибки входящих событий — отправляются только нарушившему соединению
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrAccessDenied     = errors.New("access denied")
	ErrMissingField     = errors.New("missing field")
	ErrNotInRoom        = errors.New("not in room")
	ErrUnsupportedEvent = errors.New("unsupported event type")

	ErrClientQueueFull = errors.New("client message queue is full")
	ErrInvalidRoomID   = errors.New("invalid room id")
)
