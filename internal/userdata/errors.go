package userdata

import (
	"fmt"
	"time"

	"hify/internal/hifyerr"
)

// errOverlap builds the UserDataError reported when a new listening entry
// overlaps the previous one (§7), carrying enough detail in the message to
// diagnose which two entries clashed.
func errOverlap(overlap time.Duration, last, entry OneListening) error {
	return hifyerr.New(hifyerr.UserData, fmt.Sprintf(
		"listening entries overlap by about %s: previous track %s ended %s, new track %s claims to have started %s earlier",
		overlap, last.TrackID, last.At, entry.TrackID, time.Duration(entry.DurationS)*time.Second,
	))
}

// errNotFound builds the UserDataError reported when a playlist, mix, or
// playlist entry id referenced by a caller does not exist.
func errNotFound(kind, id string) error {
	return hifyerr.New(hifyerr.UserData, fmt.Sprintf("%s %q was not found", kind, id))
}

// errOutOfBounds builds the UserDataError reported for an out-of-bounds
// playlist position or an invalid Move request.
func errOutOfBounds(msg string) error {
	return hifyerr.New(hifyerr.UserData, msg)
}
