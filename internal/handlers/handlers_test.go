package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"mindloom/internal/history"
	"mindloom/internal/ledger"
	"mindloom/pkg/api/studio"
	"mindloom/pkg/ctxkeys"
	"mindloom/pkg/llm"
	"mindloom/pkg/logging"
)

const testUserID = "11111111-1111-1111-1111-111111111111"

// fakeGateway returns canned completion responses without network access.
type fakeGateway struct {
	resp     *llm.ChatResponse
	err      error
	lastReq  llm.ChatRequest
	numCalls int
}

func (f *fakeGateway) Complete(_ context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	f.lastReq = req
	f.numCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func imageResponse(url string) *llm.ChatResponse {
	return &llm.ChatResponse{
		Choices: []llm.Choice{{
			Message: llm.ResponseMessage{
				Images: []llm.GeneratedImage{{ImageURL: llm.ImageRef{URL: url}}},
			},
		}},
	}
}

func textResponse(text string) *llm.ChatResponse {
	return &llm.ChatResponse{
		Choices: []llm.Choice{{
			Message: llm.ResponseMessage{Role: "assistant", Content: text},
		}},
	}
}

// newTestMetrics builds unregistered collectors so tests do not collide in
// the default Prometheus registry.
func newTestMetrics() *StudioMetrics {
	return &StudioMetrics{
		Generations:        prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_generations_total"}, []string{"type", "status"}),
		GenerationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{Name: "test_generation_duration_seconds"}, []string{"type"}),
		CreditsSpent:       prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_credits_spent_total"}, []string{"type"}),
		AuthOperations:     prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_auth_operations_total"}, []string{"operation", "status"}),
		AuthDuration:       prometheus.NewHistogramVec(prometheus.HistogramOpts{Name: "test_auth_duration_seconds"}, []string{"operation"}),
		DBQueries:          prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_db_queries_total"}, []string{"query_type", "status"}),
		DBDuration:         prometheus.NewHistogramVec(prometheus.HistogramOpts{Name: "test_db_duration_seconds"}, []string{"query_type"}),
		DBConnections:      prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: "test_db_connections"}, []string{"database"}),
	}
}

// setupTest wires the handler package against sqlmock and a fake gateway.
func setupTest(t *testing.T, gw llm.Client) sqlmock.Sqlmock {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { mockDB.Close() })

	log := logging.NewLogger()
	db = mockDB
	logger = log
	metrics = newTestMetrics()
	creditLedger = ledger.New(mockDB, log)
	gateway = gw
	gatewayCfg = llm.Config{ImageModel: "test-image-model", TextModel: "test-text-model"}
	historyCache = history.New(nil, log)
	jwtSecret = []byte("test-secret")

	return mock
}

// authedRouter registers a handler behind a stub that injects the test user,
// mirroring what the JWT middleware does in production.
func authedRouter(method, path string, handler gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Handle(method, path, func(c *gin.Context) {
		c.Set(string(ctxkeys.KeyUserID), testUserID)
		c.Set(string(ctxkeys.KeyEmail), "test@mindloom.app")
	}, handler)
	return router
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) studio.ErrorResponse {
	t.Helper()
	var resp studio.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	return resp
}

func expectBalance(mock sqlmock.Sqlmock, credits int) {
	mock.ExpectQuery(`SELECT credits FROM profiles`).
		WithArgs(testUserID).
		WillReturnRows(sqlmock.NewRows([]string{"credits"}).AddRow(credits))
}

func requireExpectationsMet(t *testing.T, mock sqlmock.Sqlmock) {
	t.Helper()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet sql expectations: %v", err)
	}
}
