package sessions

import "errors"

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
	ErrTurnInFlight    = errors.New("a turn is already in flight for this session")
)
