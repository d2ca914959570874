package events

// Status is the lifecycle state of an event. Registrations are accepted
// only while the event is upcoming.
type Status string

const (
	StatusUpcoming  Status = "UPCOMING"
	StatusOngoing   Status = "ONGOING"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusUpcoming, StatusOngoing, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// AcceptsRegistrations reports whether the capacity engine may take new
// registrations for an event in this state.
func (s Status) AcceptsRegistrations() bool {
	return s == StatusUpcoming
}

// AllowsCheckIn reports whether tickets may be scanned for an event in
// this state.
func (s Status) AllowsCheckIn() bool {
	return s == StatusUpcoming || s == StatusOngoing
}

// CanTransitionTo checks if the status can transition to the target status.
func (s Status) CanTransitionTo(target Status) bool {
	validTransitions := map[Status][]Status{
		StatusUpcoming:  {StatusOngoing, StatusCancelled},
		StatusOngoing:   {StatusCompleted, StatusCancelled},
		StatusCompleted: {},
		StatusCancelled: {},
	}

	for _, allowed := range validTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}
