package gmail

import (
	"errors"

	"google.golang.org/api/googleapi"
)

// ErrMessageGone marks a message that no longer exists upstream. Callers skip
// it and continue the run.
var ErrMessageGone = errors.New("gmail: message no longer exists")

// ErrCursorExpired marks a stored history cursor the upstream rejected as too
// old. Callers clear the cursor and fall back to listing recent messages.
var ErrCursorExpired = errors.New("gmail: history cursor expired")

func isStatus(err error, code int) bool {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code == code
	}
	return false
}
