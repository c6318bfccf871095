package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"fdrtidy/adapters/memory"
	"fdrtidy/adapters/tidy"
	"fdrtidy/app"
	"fdrtidy/domain/core"

	"github.com/gin-gonic/gin"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const threeRecords = `{
	"label": "three-records",
	"pvalues": [0.01, 0.5, 0.9],
	"qvalues": [0.03, 0.6, 0.9],
	"lfdr": [0.05, 0.7, 0.95],
	"lambda": [0.1, 0.2, 0.3],
	"pi0_lambda": [0.9, 0.8, 0.95],
	"pi0": 0.8
}`

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter() *gin.Engine {
	svc := app.NewTabulationService(memory.NewResultRepository(), tidy.NewQValueTabulator(), nil, app.ServiceConfig{})
	return NewRouter(NewResultsHandler(svc, nil), nil)
}

func do(router http.Handler, method, target, body string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func createResult(t *testing.T, router http.Handler) string {
	t.Helper()
	w := do(router, http.MethodPost, "/api/results", threeRecords)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		ID       string   `json:"id"`
		Warnings []string `json:"warnings"`
	}
	require.NoError(t, jsoniter.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)
	assert.Empty(t, created.Warnings)
	return created.ID
}

func TestCreateAndListResults(t *testing.T) {
	router := newTestRouter()
	id := createResult(t, router)

	w := do(router, http.MethodGet, "/api/results?label=three-records", "")
	require.Equal(t, http.StatusOK, w.Code)

	var list struct {
		Results []struct {
			ID      string `json:"id"`
			Label   string `json:"label"`
			Records int    `json:"records"`
		} `json:"results"`
		Count int `json:"count"`
	}
	require.NoError(t, jsoniter.Unmarshal(w.Body.Bytes(), &list))
	require.Equal(t, 1, list.Count)
	assert.Equal(t, id, list.Results[0].ID)
	assert.Equal(t, 3, list.Results[0].Records)

	w = do(router, http.MethodGet, "/api/results?limit=-1", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetResultKeepsAbsence(t *testing.T) {
	router := newTestRouter()
	id := createResult(t, router)

	w := do(router, http.MethodGet, "/api/results/"+id, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"pvalues":[0.01,0.5,0.9]`)
	assert.NotContains(t, w.Body.String(), "pi0_smooth")
}

func TestGetTables(t *testing.T) {
	router := newTestRouter()
	id := createResult(t, router)

	w := do(router, http.MethodGet, "/api/results/"+id+"/glance", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"pi0":0.8,"lambda":0.2}]`, w.Body.String())

	w = do(router, http.MethodGet, "/api/results/"+id+"/tidy?format=csv&flavor=columnar", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "lambda,pi0,smoothed\n0.1,0.9,false\n0.2,0.8,false\n0.3,0.95,false\n", w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")

	w = do(router, http.MethodGet, "/api/results/"+id+"/augment?format=csv&extra=batch=7", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), "p.value,q.value,lfdr,batch\n0.01,0.03,0.05,7\n"))
}

func TestETagRevalidation(t *testing.T) {
	router := newTestRouter()
	id := createResult(t, router)

	w := do(router, http.MethodGet, "/api/results/"+id+"/tidy", "")
	require.Equal(t, http.StatusOK, w.Code)
	etag := w.Header().Get("ETag")
	require.NotEmpty(t, etag)

	w = do(router, http.MethodGet, "/api/results/"+id+"/tidy", "", "If-None-Match", etag)
	assert.Equal(t, http.StatusNotModified, w.Code)

	w = do(router, http.MethodGet, "/api/results/"+id+"/tidy?format=csv", "", "If-None-Match", etag)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestErrorStatuses(t *testing.T) {
	router := newTestRouter()
	id := createResult(t, router)
	unknown := core.NewResultID().String()

	tests := []struct {
		name   string
		method string
		target string
		body   string
		status int
	}{
		{"malformed document", http.MethodPost, "/api/results", "{", http.StatusBadRequest},
		{"bad id", http.MethodGet, "/api/results/not-a-uuid/tidy", "", http.StatusBadRequest},
		{"unknown result", http.MethodGet, "/api/results/" + unknown + "/tidy", "", http.StatusNotFound},
		{"unknown table", http.MethodGet, "/api/results/" + id + "/pivot", "", http.StatusBadRequest},
		{"unknown flavor", http.MethodGet, "/api/results/" + id + "/tidy?flavor=sheet", "", http.StatusBadRequest},
		{"unknown format", http.MethodGet, "/api/results/" + id + "/tidy?format=pdf", "", http.StatusBadRequest},
		{"bad extra", http.MethodGet, "/api/results/" + id + "/augment?extra=oops", "", http.StatusBadRequest},
		{"delete unknown", http.MethodDelete, "/api/results/" + unknown, "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(router, tt.method, tt.target, tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			assert.Contains(t, w.Body.String(), `"error"`)
		})
	}
}

func TestMissingFieldIsBadRequest(t *testing.T) {
	router := newTestRouter()
	w := do(router, http.MethodPost, "/api/results", `{"pvalues":[0.2]}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, jsoniter.Unmarshal(w.Body.Bytes(), &created))

	w = do(router, http.MethodGet, "/api/results/"+created.ID+"/augment", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "qvalues")
}

func TestDeleteResult(t *testing.T) {
	router := newTestRouter()
	id := createResult(t, router)

	w := do(router, http.MethodDelete, "/api/results/"+id, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(router, http.MethodGet, "/api/results/"+id, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
