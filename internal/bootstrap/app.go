package bootstrap

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-feedback/internal/feedback"
	"resume-feedback/internal/llm"
	openai "resume-feedback/internal/llm/openai"
	"resume-feedback/internal/shared/config"
	"resume-feedback/internal/shared/server"
	"resume-feedback/internal/shared/server/middleware"
	"resume-feedback/internal/shell"
)

// App holds shared dependencies.
type App struct {
	Config          config.Config
	Router          *gin.Engine
	LLM             llm.Completer
	FeedbackService *feedback.Service
	Controller      *shell.Controller
	ShellHandler    *shell.Handler
}

// Option overrides a dependency, mainly for tests.
type Option func(*App)

// WithCompleter replaces the hosted completion client.
func WithCompleter(c llm.Completer) Option {
	return func(app *App) {
		app.LLM = c
	}
}

// Build wires the feedback service, shell and router from cfg.
func Build(cfg config.Config, opts ...Option) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	app := &App{Config: cfg}
	for _, opt := range opts {
		opt(app)
	}

	if app.LLM == nil {
		client, err := NewCompleter(cfg)
		if err != nil {
			return nil, err
		}
		app.LLM = client
	}

	app.FeedbackService = &feedback.Service{
		LLM:            app.LLM,
		MaxResumeChars: cfg.MaxResumeChars,
	}
	app.Controller = &shell.Controller{Requester: app.FeedbackService}
	app.ShellHandler = shell.NewHandler(app.Controller, cfg.MaxUploadBytes)
	if app.ShellHandler == nil {
		return nil, errors.New("failed to initialize handlers")
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:       cfg,
		ShellHandler: app.ShellHandler,
		Limiter:      middleware.NewRateLimiter(nil),
	})
	return app, nil
}

// NewCompleter builds the hosted completion client from cfg.
func NewCompleter(cfg config.Config) (*openai.PromptClient, error) {
	return openai.NewPromptClient(
		cfg.OpenAIAPIKey,
		cfg.LLMModel,
		openai.WithBaseURL(cfg.OpenAIBaseURL),
		openai.WithTimeout(cfg.RequestTimeout),
	)
}
