package ui

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"fdrtidy/adapters/render"
	"fdrtidy/app"
	"fdrtidy/domain/core"
	"fdrtidy/internal"
	apperrors "fdrtidy/internal/errors"
	"fdrtidy/ports"
)

// App serves HTML reports of stored results and mounts the JSON API
type App struct {
	router  *chi.Mux
	service *app.TabulationService
	logger  *internal.Logger
}

// NewApp creates the report application. api may be nil.
func NewApp(service *app.TabulationService, api http.Handler, logger *internal.Logger) *App {
	if logger == nil {
		logger = internal.NewNopLogger()
	}

	a := &App{
		router:  chi.NewRouter(),
		service: service,
		logger:  logger,
	}

	a.setupMiddleware()
	a.setupRoutes(api)

	return a
}

// ServeHTTP makes App an http.Handler
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.RequestID)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

// setupRoutes configures the application routes
func (a *App) setupRoutes(api http.Handler) {
	a.router.Get("/healthz", a.handleHealth)
	a.router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/reports", http.StatusFound)
	})
	a.router.Get("/reports", a.handleReportIndex)
	a.router.Get("/reports/{id}", a.handleReport)

	if api != nil {
		a.router.Mount("/api", api)
	}
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "ok")
}

func (a *App) handleReportIndex(w http.ResponseWriter, r *http.Request) {
	summaries, err := a.service.Repository().List(r.Context(), ports.ResultFilters{Label: r.URL.Query().Get("label")})
	if err != nil {
		a.fail(w, r, err)
		return
	}

	var b strings.Builder
	b.WriteString("# Stored results\n\n")
	if len(summaries) == 0 {
		b.WriteString("_No results stored yet._\n")
	} else {
		b.WriteString("| result | label | records | smoothed | stored |\n| --- | --- | ---: | --- | --- |\n")
		for _, s := range summaries {
			fmt.Fprintf(&b, "| [%s](/reports/%s) | %s | %d | %t | %s |\n",
				s.ID.String(), s.ID.String(), s.Label, s.Records, s.Smoothed, s.CreatedAt)
		}
	}

	a.writePage(w, "Stored results", b.String())
}

func (a *App) handleReport(w http.ResponseWriter, r *http.Request) {
	id, err := core.ParseResultID(chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, apperrors.InvalidInput(err.Error()))
		return
	}

	report, err := a.service.Report(r.Context(), id)
	if err != nil {
		a.fail(w, r, err)
		return
	}

	a.writePage(w, "Result "+id.String(), report)
}

func (a *App) writePage(w http.ResponseWriter, title, md string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(render.HTMLPage(title, []byte(md)))
}

func (a *App) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch apperrors.Classify(err) {
	case apperrors.CodeNotFound:
		status = http.StatusNotFound
	case apperrors.CodeInvalidInput:
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		a.logger.Error("[UI] %s %s: %v", r.Method, r.URL.Path, err)
	}
	http.Error(w, err.Error(), status)
}
