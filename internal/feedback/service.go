package feedback

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"resume-feedback/internal/llm"
	"resume-feedback/internal/shared/metrics"
	"resume-feedback/internal/shared/telemetry"
)

var (
	// ErrEmptyResume is returned for blank resume text; no remote call is made.
	ErrEmptyResume = errors.New("resume text is empty")
	// ErrResumeTooLarge is returned when the resume exceeds the configured character limit.
	ErrResumeTooLarge = errors.New("resume text is too long")
)

// Service turns resume text into model feedback.
type Service struct {
	LLM            llm.Completer
	MaxResumeChars int
}

// Request sends one completion call for resumeText. Failures are returned in the Result, never retried.
func (s *Service) Request(ctx context.Context, resumeText string) Result {
	if strings.TrimSpace(resumeText) == "" {
		metrics.IncFeedbackRejected()
		return Result{Err: ErrEmptyResume}
	}
	if n := utf8.RuneCountInString(resumeText); s.MaxResumeChars > 0 && n > s.MaxResumeChars {
		metrics.IncFeedbackRejected()
		return Result{Err: fmt.Errorf("%w: %d characters, limit is %d", ErrResumeTooLarge, n, s.MaxResumeChars)}
	}
	if s.LLM == nil {
		return Result{Err: errors.New("feedback: completion client not configured")}
	}

	prompt := llm.BuildFeedbackPrompt(resumeText)
	fields := map[string]any{
		"prompt_hash":  llm.PromptHash(prompt),
		"resume_chars": len(resumeText),
	}

	metrics.IncFeedbackRequested()
	start := time.Now()
	text, err := s.LLM.Complete(ctx, prompt)
	elapsed := time.Since(start)
	metrics.ObserveFeedbackDurationMs(float64(elapsed.Microseconds()) / 1000.0)
	fields["duration_ms"] = float64(elapsed.Microseconds()) / 1000.0

	if err != nil {
		metrics.IncFeedbackFailed()
		fields["error"] = err.Error()
		telemetry.Error("feedback.failed", fields)
		return Result{Err: err}
	}

	metrics.IncFeedbackCompleted()
	telemetry.Info("feedback.completed", fields)
	return Result{Feedback: text}
}
