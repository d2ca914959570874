package registrations

// Status is the state of a registration. There is no persisted pending
// state: a registration is born Confirmed or Waitlisted inside the same
// transaction that decided it.
type Status string

const (
	StatusConfirmed  Status = "CONFIRMED"
	StatusWaitlisted Status = "WAITLISTED"
	StatusCancelled  Status = "CANCELLED"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusConfirmed, StatusWaitlisted, StatusCancelled:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// IsActive reports whether the registration counts against the
// one-per-(user,event) rule.
func (s Status) IsActive() bool {
	return s == StatusConfirmed || s == StatusWaitlisted
}

// CanTransitionTo checks if the status can transition to the target status.
func (s Status) CanTransitionTo(target Status) bool {
	validTransitions := map[Status][]Status{
		StatusWaitlisted: {StatusConfirmed, StatusCancelled},
		StatusConfirmed:  {StatusCancelled},
		StatusCancelled:  {},
	}

	for _, allowed := range validTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}
