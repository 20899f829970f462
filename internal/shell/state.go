package shell

import (
	"errors"
	"fmt"

	"resume-feedback/internal/feedback"
)

// State is where a single feedback interaction currently stands.
type State int

const (
	Idle State = iota
	AwaitingResult
	ShowingResult
	ShowingWarning
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case AwaitingResult:
		return "awaiting_result"
	case ShowingResult:
		return "showing_result"
	case ShowingWarning:
		return "showing_warning"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// MarshalText renders the state name in JSON payloads.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ErrInvalidTransition is returned when an event does not apply to the current state.
var ErrInvalidTransition = errors.New("invalid shell transition")

// EmptyInputWarning is shown when the trigger fires without any resume text.
const EmptyInputWarning = "Please upload a PDF or paste resume text to get feedback."

// Session tracks one interaction: Idle -> AwaitingResult -> ShowingResult, or straight to ShowingWarning.
type Session struct {
	state   State
	warning string
	result  feedback.Result
}

// NewSession returns a session in Idle.
func NewSession() *Session {
	return &Session{state: Idle}
}

func (s *Session) State() State            { return s.state }
func (s *Session) Warning() string         { return s.warning }
func (s *Session) Result() feedback.Result { return s.result }

// Submit moves to AwaitingResult when resumeText has content and to ShowingWarning otherwise.
// It reports whether a feedback request should now be issued.
func (s *Session) Submit(resumeText string) (bool, error) {
	if s.state == AwaitingResult {
		return false, fmt.Errorf("%w: submit while %s", ErrInvalidTransition, s.state)
	}
	if isBlank(resumeText) {
		s.toWarning(EmptyInputWarning)
		return false, nil
	}
	s.state = AwaitingResult
	s.warning = ""
	s.result = feedback.Result{}
	return true, nil
}

// Reject shows a warning without issuing a request, e.g. for an unreadable upload.
func (s *Session) Reject(message string) error {
	if s.state == AwaitingResult {
		return fmt.Errorf("%w: reject while %s", ErrInvalidTransition, s.state)
	}
	s.toWarning(message)
	return nil
}

// Complete records the outcome of the in-flight request.
func (s *Session) Complete(res feedback.Result) error {
	if s.state != AwaitingResult {
		return fmt.Errorf("%w: complete while %s", ErrInvalidTransition, s.state)
	}
	s.state = ShowingResult
	s.result = res
	return nil
}

// Reset returns to Idle from any state.
func (s *Session) Reset() {
	s.state = Idle
	s.warning = ""
	s.result = feedback.Result{}
}

func (s *Session) toWarning(message string) {
	s.state = ShowingWarning
	s.warning = message
	s.result = feedback.Result{}
}
