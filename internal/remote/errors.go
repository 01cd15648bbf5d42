package remote

import "fmt"

// RejectedError is an explicit business rejection (e.g. insufficient
// stock). The sale was definitively not accepted; it must not be retried
// blindly and is surfaced to the operator.
type RejectedError struct {
	Message string
}

func (e *RejectedError) Error() string {
	return "remote service rejected sale: " + e.Message
}

// TransportError is an indeterminate outcome: the call neither confirmed
// nor rejected before failing. The sale may or may not have been applied;
// the caller must fall back to the offline queue rather than assume either.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("remote service unreachable: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
