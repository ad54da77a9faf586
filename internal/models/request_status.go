package models

type RequestStatus string

const (
	StatusPending   RequestStatus = "PENDING"
	StatusApproved  RequestStatus = "APPROVED"
	StatusScheduled RequestStatus = "SCHEDULED"
	StatusCompleted RequestStatus = "COMPLETED"
	StatusRejected  RequestStatus = "REJECTED"
)

var allowedTransitions = map[RequestStatus][]RequestStatus{
	StatusPending:   {StatusApproved, StatusScheduled, StatusRejected, StatusCompleted},
	StatusApproved:  {StatusScheduled, StatusCompleted, StatusRejected},
	StatusScheduled: {StatusCompleted, StatusRejected},
}

func (s RequestStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusScheduled, StatusCompleted, StatusRejected:
		return true
	}
	return false
}

// IsTerminal is true for COMPLETED and REJECTED.
func (s RequestStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusRejected
}

// CanTransition reports whether a request in status s may move to next.
// Non-terminal statuses may be re-applied to themselves so notes and
// schedules can be edited.
func (s RequestStatus) CanTransition(next RequestStatus) bool {
	if s.IsTerminal() || !next.Valid() {
		return false
	}
	if s == next {
		return true
	}
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
