package feedback

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"resume-feedback/internal/shared/telemetry"
)

func init() {
	telemetry.SetOutput(io.Discard)
}

type stubCompleter struct {
	prompts []string
	reply   string
	err     error
}

func (s *stubCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	return s.reply, s.err
}

func TestRequestReturnsFeedbackUnmodified(t *testing.T) {
	stub := &stubCompleter{reply: "## Strengths\n- concise\nScore: 78/100\n"}
	svc := &Service{LLM: stub, MaxResumeChars: 1000}

	res := svc.Request(context.Background(), "John Doe, 5 years backend engineering experience")
	if !res.OK() {
		t.Fatalf("unexpected failure: %v", res.Err)
	}
	if res.Feedback != stub.reply || res.Display() != stub.reply {
		t.Fatalf("expected reply unmodified, got %q", res.Display())
	}
	if len(stub.prompts) != 1 {
		t.Fatalf("expected exactly one completion call, got %d", len(stub.prompts))
	}
	if !strings.Contains(stub.prompts[0], "\"\"\"\nJohn Doe, 5 years backend engineering experience\n\"\"\"") {
		t.Fatalf("prompt missing resume block: %q", stub.prompts[0])
	}
}

func TestRequestFailureIsDescribedAndNeverEmpty(t *testing.T) {
	causes := []error{
		errors.New("openai http status 401: Incorrect API key provided (invalid_request_error)"),
		errors.New("openai request timeout: context deadline exceeded"),
		errors.New(""),
	}
	for _, cause := range causes {
		stub := &stubCompleter{err: cause}
		svc := &Service{LLM: stub}

		res := svc.Request(context.Background(), "resume")
		if res.OK() {
			t.Fatalf("expected failure for %q", cause)
		}
		if !errors.Is(res.Err, cause) {
			t.Fatalf("expected cause preserved, got %v", res.Err)
		}
		display := res.Display()
		if display == "" || !strings.HasPrefix(display, warningPrefix) {
			t.Fatalf("unexpected display %q", display)
		}
		if !strings.Contains(display, cause.Error()) {
			t.Fatalf("display %q missing cause %q", display, cause)
		}
	}
}

func TestRequestBlankNeverCallsRemote(t *testing.T) {
	stub := &stubCompleter{reply: "x"}
	svc := &Service{LLM: stub}

	for _, in := range []string{"", "   ", "\n\t \r\n"} {
		res := svc.Request(context.Background(), in)
		if !errors.Is(res.Err, ErrEmptyResume) {
			t.Fatalf("expected ErrEmptyResume for %q, got %v", in, res.Err)
		}
	}
	if len(stub.prompts) != 0 {
		t.Fatalf("expected zero completion calls, got %d", len(stub.prompts))
	}
}

func TestRequestRejectsOversizedResume(t *testing.T) {
	stub := &stubCompleter{reply: "x"}
	svc := &Service{LLM: stub, MaxResumeChars: 10}

	res := svc.Request(context.Background(), "ééééééééééé")
	if !errors.Is(res.Err, ErrResumeTooLarge) {
		t.Fatalf("expected ErrResumeTooLarge, got %v", res.Err)
	}
	if len(stub.prompts) != 0 {
		t.Fatalf("expected zero completion calls, got %d", len(stub.prompts))
	}

	res = svc.Request(context.Background(), "éééééééééé")
	if !res.OK() {
		t.Fatalf("expected resume at the limit to pass, got %v", res.Err)
	}
}

func TestRequestWithoutClient(t *testing.T) {
	svc := &Service{}
	res := svc.Request(context.Background(), "resume")
	if res.OK() || res.Display() == "" {
		t.Fatalf("expected failure result, got %+v", res)
	}
}
