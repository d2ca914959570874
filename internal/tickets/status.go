package tickets

// Status is the lifecycle state of a ticket.
type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusUsed      Status = "USED"
	StatusCancelled Status = "CANCELLED"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusUsed, StatusCancelled:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}
