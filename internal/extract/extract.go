package extract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

const mimePDF = "application/pdf"

var (
	// ErrUnreadableDocument wraps any failure to pull text out of an uploaded document.
	ErrUnreadableDocument = errors.New("unreadable document")
	// ErrUnsupportedType is returned for uploads that are not PDFs.
	ErrUnsupportedType = errors.New("unsupported document type")
)

// pageSource is the slice of a parsed document the extractor needs.
// Pages are numbered from 1.
type pageSource interface {
	NumPage() int
	PageText(n int) (string, error)
}

type pdfPages struct {
	r *pdf.Reader
}

func (p pdfPages) NumPage() int {
	return p.r.NumPage()
}

func (p pdfPages) PageText(n int) (string, error) {
	page := p.r.Page(n)
	if page.V.IsNull() {
		return "", nil
	}
	return page.GetPlainText(nil)
}

// FromPDF returns the text layer of every page in page order, concatenated without separators.
// Library used: github.com/ledongthuc/pdf.
func FromPDF(ctx context.Context, r io.ReaderAt, size int64) (text string, err error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	// The parser panics on some malformed inputs.
	defer func() {
		if rec := recover(); rec != nil {
			text = ""
			err = fmt.Errorf("%w: parser panic: %v", ErrUnreadableDocument, rec)
		}
	}()

	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadableDocument, err)
	}
	return concatPages(ctx, pdfPages{r: reader})
}

func concatPages(ctx context.Context, src pageSource) (string, error) {
	var b strings.Builder
	for n := 1; n <= src.NumPage(); n++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		text, err := src.PageText(n)
		if err != nil {
			return "", fmt.Errorf("%w: page %d: %v", ErrUnreadableDocument, n, err)
		}
		b.WriteString(text)
	}
	return b.String(), nil
}

// FromPasted returns pasted resume text unchanged.
func FromPasted(text string) string {
	return text
}

// ValidatePDF accepts uploads that look like PDFs by extension or declared content type.
func ValidatePDF(fileName, contentType string) error {
	if strings.EqualFold(filepath.Ext(strings.TrimSpace(fileName)), ".pdf") {
		return nil
	}
	clean := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	if clean == mimePDF {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedType, fileName)
}
