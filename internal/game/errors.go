package game

import "errors"

// Validation errors returned synchronously to callers. Handlers translate
// these into HTTP statuses; anything else is an internal fault.
var (
	ErrRoomNotFound       = errors.New("room not found")
	ErrPlayerNotFound     = errors.New("player not found")
	ErrStageNotFound      = errors.New("stage not found")
	ErrInvalidConfig      = errors.New("invalid room configuration")
	ErrInvalidTransition  = errors.New("invalid stage transition")
	ErrRoomFull           = errors.New("room is full")
	ErrRoomAlreadyStarted = errors.New("room already started")
	ErrRoomNotReady       = errors.New("room is not ready to start")
	ErrGameEnded          = errors.New("game has ended")
)
