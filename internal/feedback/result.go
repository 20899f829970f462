package feedback

// warningPrefix marks a failure string shown in place of feedback.
const warningPrefix = "⚠️ Error: "

// Result is the outcome of one feedback request: either model feedback or the failure that prevented it.
type Result struct {
	Feedback string
	Err      error
}

// OK reports whether the request produced feedback.
func (r Result) OK() bool {
	return r.Err == nil
}

// Display returns the text to render: the feedback verbatim, or a warning-prefixed failure description.
func (r Result) Display() string {
	if r.Err != nil {
		return warningPrefix + r.Err.Error()
	}
	return r.Feedback
}
