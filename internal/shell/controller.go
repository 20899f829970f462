package shell

import (
	"context"
	"errors"
	"io"
	"strings"

	"resume-feedback/internal/extract"
	"resume-feedback/internal/feedback"
	"resume-feedback/internal/shared/metrics"
	"resume-feedback/internal/shared/telemetry"
)

// Mode selects how the resume is supplied.
type Mode string

const (
	ModeUpload Mode = "upload"
	ModePaste  Mode = "paste"
)

// ParseMode maps a form value to a Mode, defaulting to upload.
func ParseMode(raw string) Mode {
	if Mode(strings.ToLower(strings.TrimSpace(raw))) == ModePaste {
		return ModePaste
	}
	return ModeUpload
}

// Label is the text shown next to the mode's radio button.
func (m Mode) Label() string {
	if m == ModePaste {
		return "📝 Paste Resume Text"
	}
	return "📄 Upload PDF"
}

// Requester produces feedback for resume text.
type Requester interface {
	Request(ctx context.Context, resumeText string) feedback.Result
}

// Document is an uploaded file held in memory for the duration of a request.
type Document struct {
	Name        string
	ContentType string
	Body        io.ReaderAt
	Size        int64
}

// Input is what the user supplied when pressing the trigger.
type Input struct {
	Mode     Mode
	Text     string
	Document *Document
}

// View is everything needed to render the outcome of one interaction.
type View struct {
	Mode    Mode
	State   State
	Text    string
	Warning string
	Result  feedback.Result
}

// Controller drives a Session for each trigger.
type Controller struct {
	Requester Requester
}

// Run resolves the resume text and asks for feedback only when there is text to send.
func (c *Controller) Run(ctx context.Context, in Input) View {
	session := NewSession()
	view := View{Mode: in.Mode, Text: in.Text}

	resumeText, err := resolveText(ctx, in)
	if err != nil {
		telemetry.Warn("shell.extract_failed", map[string]any{"mode": string(in.Mode), "error": err.Error()})
		metrics.IncFeedbackRejected()
		_ = session.Reject(describeExtractError(err))
		return fill(view, session)
	}
	if in.Mode == ModeUpload && in.Document != nil && isBlank(resumeText) {
		metrics.IncFeedbackRejected()
		_ = session.Reject("No text could be extracted from the uploaded PDF. Try pasting the resume text instead.")
		return fill(view, session)
	}

	send, err := session.Submit(resumeText)
	if err != nil {
		return fill(view, session)
	}
	if !send {
		metrics.IncFeedbackRejected()
		return fill(view, session)
	}
	_ = session.Complete(c.Requester.Request(ctx, resumeText))
	return fill(view, session)
}

func resolveText(ctx context.Context, in Input) (string, error) {
	if in.Mode == ModePaste {
		return extract.FromPasted(in.Text), nil
	}
	if in.Document == nil {
		return "", nil
	}
	if err := extract.ValidatePDF(in.Document.Name, in.Document.ContentType); err != nil {
		return "", err
	}
	return extract.FromPDF(ctx, in.Document.Body, in.Document.Size)
}

func describeExtractError(err error) string {
	switch {
	case errors.Is(err, extract.ErrUnsupportedType):
		return "Only PDF files are supported. Please upload a .pdf resume."
	case errors.Is(err, extract.ErrUnreadableDocument):
		return "The uploaded PDF could not be read. Please upload a different file or paste the text."
	default:
		return "The uploaded file could not be processed: " + err.Error()
	}
}

func fill(view View, session *Session) View {
	view.State = session.State()
	view.Warning = session.Warning()
	view.Result = session.Result()
	return view
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
