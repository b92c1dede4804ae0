package output

import "fmt"

// PublishError reports a delivery failure with the sink that produced
// it, so a fan-out caller can tell a stalled broker from a closed
// pipe.
type PublishError struct {
	Sink string
	Err  error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("%s sink: %v", e.Sink, e.Err)
}

func (e *PublishError) Unwrap() error {
	return e.Err
}
