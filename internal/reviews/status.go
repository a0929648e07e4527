package reviews

import "fmt"

// Status is a review lifecycle state.
type Status string

// Review lifecycle states.
const (
	StatusCreated    Status = "CREATED"
	StatusUploaded   Status = "UPLOADED"
	StatusProcessing Status = "PROCESSING"
	StatusCompleted  Status = "COMPLETED"
	StatusFailed     Status = "FAILED"
)

// allowedTransitions is the complete lifecycle graph. COMPLETED and FAILED
// are terminal.
var allowedTransitions = map[Status][]Status{
	StatusCreated:    {StatusUploaded},
	StatusUploaded:   {StatusProcessing},
	StatusProcessing: {StatusCompleted, StatusFailed},
	StatusCompleted:  {},
	StatusFailed:     {},
}

// TransitionError reports an illegal lifecycle transition, naming both states.
type TransitionError struct {
	From Status
	To   Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid status transition: %s -> %s", e.From, e.To)
}

func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

// Terminal reports whether the status has no outgoing transitions.
func (s Status) Terminal() bool {
	return len(allowedTransitions[s]) == 0 && s.Valid()
}

// Valid reports whether s is a recognized lifecycle state.
func (s Status) Valid() bool {
	_, ok := allowedTransitions[s]
	return ok
}

// Transition validates a lifecycle move from current to target. It is the
// only authority on legal status changes; every mutation path consults it.
func Transition(current, target Status) error {
	for _, allowed := range allowedTransitions[current] {
		if target == allowed {
			return nil
		}
	}
	return &TransitionError{From: current, To: target}
}
