package waitlist

import "errors"

// ErrNotWaitlisted is returned when the user has no waitlisted registration
// for the event.
var ErrNotWaitlisted = errors.New("user is not on the waitlist for this event")
