package game

import "errors"

// ErrRoomFull is returned when a join would exceed the room's player cap.
var ErrRoomFull = errors.New("room at capacity")
