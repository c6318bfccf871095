package ui

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"fdrtidy/adapters/memory"
	"fdrtidy/adapters/tidy"
	"fdrtidy/app"
	"fdrtidy/domain/core"
	"fdrtidy/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T, api http.Handler) (*App, core.ResultID) {
	t.Helper()
	svc := app.NewTabulationService(memory.NewResultRepository(), tidy.NewQValueTabulator(), nil, app.ServiceConfig{})
	id, err := svc.Save(context.Background(), testkit.ThreeRecordExample())
	require.NoError(t, err)
	return NewApp(svc, api, nil), id
}

func get(h http.Handler, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestHealth(t *testing.T) {
	a, _ := newTestApp(t, nil)
	w := get(a, "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok\n", w.Body.String())
}

func TestReportPage(t *testing.T) {
	a, id := newTestApp(t, nil)

	w := get(a, "/reports/"+id.String())
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "<html")
	assert.Contains(t, body, "<h1")
	assert.Contains(t, body, "three-records")
	assert.Contains(t, body, "<table>")
	assert.Contains(t, body, "p.value")
}

func TestReportIndexLinksResults(t *testing.T) {
	a, id := newTestApp(t, nil)

	w := get(a, "/reports")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `href="/reports/`+id.String()+`"`)
}

func TestReportErrors(t *testing.T) {
	a, _ := newTestApp(t, nil)

	assert.Equal(t, http.StatusBadRequest, get(a, "/reports/nope").Code)
	assert.Equal(t, http.StatusNotFound, get(a, "/reports/"+core.NewResultID().String()).Code)
}

func TestMountsAPI(t *testing.T) {
	api := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Path", r.URL.Path)
		w.WriteHeader(http.StatusTeapot)
	})
	a, _ := newTestApp(t, api)

	w := get(a, "/api/results")
	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Equal(t, "/api/results", w.Header().Get("X-Path"))
}
