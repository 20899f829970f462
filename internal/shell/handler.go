package shell

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"math"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"resume-feedback/internal/feedback"
	"resume-feedback/internal/shared/server/respond"
)

const (
	fieldMode = "mode"
	fieldText = "resume_text"
	fieldFile = "resume_file"

	multipartMemory = 8 << 20
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates returns the page templates for gin's HTML renderer.
func Templates() *template.Template {
	return template.Must(template.New("").ParseFS(templateFS, "templates/*.html"))
}

// Handler wires HTTP handlers to the controller.
type Handler struct {
	Ctrl           *Controller
	MaxUploadBytes int64
}

// NewHandler constructs a Handler.
func NewHandler(ctrl *Controller, maxUploadBytes int64) *Handler {
	return &Handler{Ctrl: ctrl, MaxUploadBytes: maxUploadBytes}
}

// RegisterRoutes attaches the page routes.
func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/", h.index)
	r.POST("/feedback", h.submit)
}

// RegisterAPIRoutes attaches the JSON routes to the API group.
func (h *Handler) RegisterAPIRoutes(rg *gin.RouterGroup) {
	rg.POST("/feedback", h.submitJSON)
}

func (h *Handler) index(c *gin.Context) {
	view := View{Mode: ParseMode(c.Query(fieldMode)), State: Idle}
	h.render(c, http.StatusOK, view)
}

func (h *Handler) submit(c *gin.Context) {
	in, cleanup, err := h.readForm(c)
	defer cleanup()
	if err != nil {
		view := View{Mode: in.Mode, Text: in.Text, State: ShowingWarning, Warning: uploadErrorMessage(err)}
		h.render(c, uploadErrorStatus(err), view)
		return
	}
	view := h.Ctrl.Run(c.Request.Context(), in)
	h.render(c, http.StatusOK, view)
}

type feedbackRequest struct {
	Mode string `json:"mode"`
	Text string `json:"text"`
}

type feedbackResponse struct {
	State    State  `json:"state"`
	Mode     Mode   `json:"mode"`
	Feedback string `json:"feedback"`
}

func (h *Handler) submitJSON(c *gin.Context) {
	var in Input
	cleanup := func() {}
	if strings.HasPrefix(c.ContentType(), "application/json") {
		var req feedbackRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
			return
		}
		in = Input{Mode: ParseMode(req.Mode), Text: req.Text}
		if strings.TrimSpace(req.Mode) == "" {
			in.Mode = ModePaste
		}
	} else {
		var err error
		in, cleanup, err = h.readForm(c)
		if err != nil {
			cleanup()
			respond.Error(c, uploadErrorStatus(err), "validation_error", uploadErrorMessage(err), nil)
			return
		}
	}
	defer cleanup()

	view := h.Ctrl.Run(c.Request.Context(), in)
	c.Set("feedbackState", view.State.String())
	switch {
	case view.State == ShowingWarning:
		respond.Error(c, http.StatusBadRequest, "validation_error", view.Warning, gin.H{"state": view.State})
	case errors.Is(view.Result.Err, feedback.ErrResumeTooLarge):
		respond.Error(c, http.StatusRequestEntityTooLarge, "validation_error", view.Result.Err.Error(), gin.H{"state": view.State})
	case errors.Is(view.Result.Err, feedback.ErrEmptyResume):
		respond.Error(c, http.StatusBadRequest, "validation_error", view.Result.Err.Error(), gin.H{"state": view.State})
	case !view.Result.OK():
		respond.Error(c, http.StatusBadGateway, "upstream_error", view.Result.Err.Error(), gin.H{"state": view.State})
	default:
		respond.OK(c, feedbackResponse{State: view.State, Mode: view.Mode, Feedback: view.Result.Feedback})
	}
}

// readForm parses the trigger form. The returned cleanup is always safe to call.
func (h *Handler) readForm(c *gin.Context) (Input, func(), error) {
	cleanup := func() {}
	if h.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes)
	}
	if err := c.Request.ParseMultipartForm(multipartMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return Input{Mode: ModeUpload}, cleanup, err
	}

	in := Input{
		Mode: ParseMode(c.PostForm(fieldMode)),
		Text: c.PostForm(fieldText),
	}
	if in.Mode != ModeUpload {
		return in, cleanup, nil
	}

	fileHeader, err := c.FormFile(fieldFile)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return in, cleanup, nil
		}
		return in, cleanup, err
	}
	file, err := fileHeader.Open()
	if err != nil {
		return in, cleanup, err
	}
	in.Document = &Document{
		Name:        fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Body:        file,
		Size:        fileHeader.Size,
	}
	return in, func() { _ = file.Close() }, nil
}

func uploadErrorStatus(err error) int {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}

func uploadErrorMessage(err error) string {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return "The uploaded file is too large."
	}
	if errors.Is(err, multipart.ErrMessageTooLarge) {
		return "The uploaded file is too large."
	}
	return "The upload could not be read. Please try again."
}

// RateLimited renders the page with a warning for a throttled form submit.
func (h *Handler) RateLimited(c *gin.Context, retryAfter time.Duration) {
	seconds := int(math.Ceil(retryAfter.Seconds()))
	if seconds < 1 {
		seconds = 1
	}
	view := View{
		Mode:    ParseMode(c.Query(fieldMode)),
		State:   ShowingWarning,
		Warning: fmt.Sprintf("Too many requests. Please wait %d seconds and try again.", seconds),
	}
	h.render(c, http.StatusTooManyRequests, view)
}

func (h *Handler) render(c *gin.Context, status int, view View) {
	c.Set("feedbackState", view.State.String())
	c.HTML(status, "index.html", gin.H{
		"View":        view,
		"Modes":       []Mode{ModeUpload, ModePaste},
		"ShowResult":  view.State == ShowingResult,
		"ShowWarning": view.State == ShowingWarning,
		"Failed":      view.State == ShowingResult && !view.Result.OK(),
	})
}
