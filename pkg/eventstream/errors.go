package eventstream

import "errors"

// ErrNilMessageEvent is returned when a publisher is handed a nil event.
var ErrNilMessageEvent = errors.New("nil message event")
