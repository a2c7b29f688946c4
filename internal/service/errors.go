package service

import "errors"

var (
	ErrSpaceNotFound       = errors.New("space not found")
	ErrSpaceExists         = errors.New("space already exists")
	ErrParticipantNotFound = errors.New("participant not found")
	ErrRoomNotFound        = errors.New("room not found")
	ErrRoomExists          = errors.New("room name already taken")
	ErrGuestsNotAllowed    = errors.New("space does not admit guests")

	// Retryable pairing codes. Callers poll and retry; these must never be
	// rendered as hard failures.
	ErrRoomFull     = errors.New("room is full, no free room yet")
	ErrRoomNotReady = errors.New("room not created yet")
)

// Retryable reports whether err is one of the transient "please wait" codes.
func Retryable(err error) bool {
	return errors.Is(err, ErrRoomFull) || errors.Is(err, ErrRoomNotReady)
}
