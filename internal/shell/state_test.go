package shell

import (
	"errors"
	"testing"

	"resume-feedback/internal/feedback"
)

func TestSessionHappyPath(t *testing.T) {
	s := NewSession()
	if s.State() != Idle {
		t.Fatalf("expected idle, got %s", s.State())
	}

	send, err := s.Submit("resume")
	if err != nil || !send {
		t.Fatalf("Submit = %v, %v", send, err)
	}
	if s.State() != AwaitingResult {
		t.Fatalf("expected awaiting_result, got %s", s.State())
	}

	if err := s.Complete(feedback.Result{Feedback: "good"}); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if s.State() != ShowingResult || s.Result().Feedback != "good" {
		t.Fatalf("unexpected session: %s %+v", s.State(), s.Result())
	}
}

func TestSessionBlankSubmitWarns(t *testing.T) {
	s := NewSession()
	send, err := s.Submit(" \n\t")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if send {
		t.Fatal("blank input must not trigger a request")
	}
	if s.State() != ShowingWarning || s.Warning() != EmptyInputWarning {
		t.Fatalf("unexpected session: %s %q", s.State(), s.Warning())
	}

	send, err = s.Submit("now with text")
	if err != nil || !send {
		t.Fatalf("retry after warning: %v, %v", send, err)
	}
	if s.Warning() != "" {
		t.Fatalf("expected warning cleared, got %q", s.Warning())
	}
}

func TestSessionInvalidTransitions(t *testing.T) {
	s := NewSession()
	if err := s.Complete(feedback.Result{}); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("complete from idle: expected ErrInvalidTransition, got %v", err)
	}

	if _, err := s.Submit("x"); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if _, err := s.Submit("y"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("submit while awaiting: expected ErrInvalidTransition, got %v", err)
	}
	if err := s.Reject("nope"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("reject while awaiting: expected ErrInvalidTransition, got %v", err)
	}

	s.Reset()
	if s.State() != Idle {
		t.Fatalf("expected idle after reset, got %s", s.State())
	}
	if err := s.Reject("bad upload"); err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if s.State() != ShowingWarning || s.Warning() != "bad upload" {
		t.Fatalf("unexpected session after reject: %s %q", s.State(), s.Warning())
	}
}

func TestStateString(t *testing.T) {
	tests := map[State]string{
		Idle:           "idle",
		AwaitingResult: "awaiting_result",
		ShowingResult:  "showing_result",
		ShowingWarning: "showing_warning",
		State(42):      "state(42)",
	}
	for s, want := range tests {
		if got := s.String(); got != want {
			t.Fatalf("String() = %q, want %q", got, want)
		}
	}
}
