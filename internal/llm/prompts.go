package llm

import (
	_ "embed"
	"strings"
)

const resumePlaceholder = "{{resume}}"

//go:embed prompts/feedback.txt
var feedbackTemplate string

var feedbackPrefix, feedbackSuffix = splitTemplate(feedbackTemplate)

func splitTemplate(tmpl string) (string, string) {
	before, after, found := strings.Cut(tmpl, resumePlaceholder)
	if !found {
		panic("llm: feedback prompt is missing " + resumePlaceholder)
	}
	return before, after
}

// BuildFeedbackPrompt embeds the resume text verbatim inside the delimited block of the career-coach prompt.
func BuildFeedbackPrompt(resumeText string) string {
	var b strings.Builder
	b.Grow(len(feedbackPrefix) + len(resumeText) + len(feedbackSuffix))
	b.WriteString(feedbackPrefix)
	b.WriteString(resumeText)
	b.WriteString(feedbackSuffix)
	return b.String()
}
