package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"medicine-service/internal/connectivity"
	"medicine-service/internal/models"
	"medicine-service/internal/service"
	"medicine-service/internal/store"
	"medicine-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	router *gin.Engine
	gate   *connectivity.Gate
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	require.NoError(t, util.InitLogger("test"))
	gin.SetMode(gin.TestMode)

	gate := connectivity.NewGate(true)
	deps := service.Dependencies{
		Store: store.NewMemoryStore(),
		Gate:  gate,
	}

	handler := NewHandler(Services{
		Search:        service.NewSearchService(deps, service.Latency{}),
		Advisor:       service.NewAdvisorService(deps, service.Latency{}),
		Reservations:  service.NewReservationService(deps, service.DefaultReservationPolicy(), service.Latency{}),
		Reports:       service.NewReportService(deps, service.Latency{}),
		Notifications: service.NewNotificationService(deps),
		Preferences:   service.NewPreferenceService(deps),
	}, gate)

	router := gin.New()
	handler.SetupRoutes(router)
	return &testServer{router: router, gate: gate}
}

func (s *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dest))
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/health", "").Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/ready", "").Code)

	s.do(t, http.MethodGet, "/api/v1/medicines?q=aspirin", "")
	metrics := s.do(t, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, metrics.Code)
	assert.Contains(t, metrics.Body.String(), "medicine_searches_total")
}

func TestSearchEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/v1/medicines?q=paracetamol", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Medicines []models.Medicine `json:"medicines"`
		Count     int               `json:"count"`
	}
	decode(t, w, &body)
	assert.Equal(t, 1, body.Count)
	assert.Equal(t, "Paracetamol", body.Medicines[0].Name)

	w = s.do(t, http.MethodGet, "/api/v1/medicines?q=unobtainium", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"medicines":[]`)
}

func TestOfflineMapsToServiceUnavailable(t *testing.T) {
	s := newTestServer(t)
	s.gate.Set(false)

	for _, tc := range []struct{ method, path, body string }{
		{http.MethodGet, "/api/v1/medicines?q=x", ""},
		{http.MethodPost, "/api/v1/advisor", `{"query":"headache"}`},
		{http.MethodPost, "/api/v1/reservations", `{"medicineId":"1","pharmacyId":"1"}`},
		{http.MethodPost, "/api/v1/reports", `{}`},
		{http.MethodGet, "/api/v1/reports", ""},
	} {
		w := s.do(t, tc.method, tc.path, tc.body)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code, tc.path)
		assert.Contains(t, w.Body.String(), "currently offline")
	}

	// preferences are local and stay available
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/v1/preferences", "").Code)
}

func TestGetMedicineNotFound(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/v1/medicines/2", "").Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/v1/medicines/999", "").Code)
}

func TestAdvisorEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/advisor", `{"query":"I have a headache"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var advice models.Advice
	decode(t, w, &advice)
	assert.Len(t, advice.RecommendedMedicines, 2)

	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, "/api/v1/advisor", `not json`).Code)
}

func TestReservationEndpoints(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/reservations", `{"medicineId":"1","pharmacyId":"1","quantity":2}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var res models.Reservation
	decode(t, w, &res)
	assert.True(t, strings.HasPrefix(res.ID, "RES-"))
	assert.Equal(t, 24*time.Hour, res.ExpiresAt.Sub(res.CreatedAt))

	assert.Equal(t, http.StatusBadRequest,
		s.do(t, http.MethodPost, "/api/v1/reservations", `{"pharmacyId":"1"}`).Code)
	assert.Equal(t, http.StatusNotFound,
		s.do(t, http.MethodPost, "/api/v1/reservations", `{"medicineId":"77","pharmacyId":"1"}`).Code)
	assert.Equal(t, http.StatusBadRequest,
		s.do(t, http.MethodPost, "/api/v1/reservations", `{"medicineId":"1","pharmacyId":"1","quantity":1000}`).Code)

	w = s.do(t, http.MethodGet, "/api/v1/reservations", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Reservations []models.Reservation `json:"reservations"`
	}
	decode(t, w, &list)
	require.Len(t, list.Reservations, 1)
	assert.Equal(t, res.ID, list.Reservations[0].ID)
}

func TestReportEndpoints(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/reports", `{"medicineName":"","issueType":"","description":""}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	var failure struct {
		Fields []string `json:"fields"`
	}
	decode(t, w, &failure)
	assert.Equal(t, []string{"medicineName", "issueType", "description"}, failure.Fields)

	w = s.do(t, http.MethodPost, "/api/v1/reports",
		`{"medicineName":"X","issueType":"counterfeit","description":"looks fake"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var report models.QualityReport
	decode(t, w, &report)
	assert.Equal(t, models.ReportStatusSubmitted, report.Status)

	w = s.do(t, http.MethodGet, "/api/v1/reports/stats", "")
	require.Equal(t, http.StatusOK, w.Code)
	var stats service.ReportStats
	decode(t, w, &stats)
	assert.Equal(t, 1, stats.Total)
	assert.Equal(t, 1, stats.ByIssueType[models.IssueTypeCounterfeit])

	w = s.do(t, http.MethodGet, "/api/v1/reports", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), report.ID)
}

func TestNotificationEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/notifications", `{"medicineName":"Ibuprofen","phoneNumber":"+243 812 345 678"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"phoneNumber":"243812345678"`)

	w = s.do(t, http.MethodPost, "/api/v1/notifications", `{"medicineName":"Ibuprofen","phoneNumber":"123"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPreferencesEndpoints(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/v1/preferences", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"language":"en","locationDetected":false}`, w.Body.String())

	w = s.do(t, http.MethodPut, "/api/v1/preferences", `{"language":"fr","locationDetected":true}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"language":"fr","locationDetected":true}`, w.Body.String())

	w = s.do(t, http.MethodPut, "/api/v1/preferences", `{"language":"xx"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestConnectivityStatus(t *testing.T) {
	s := newTestServer(t)

	assert.JSONEq(t, `{"online":true}`, s.do(t, http.MethodGet, "/api/v1/connectivity", "").Body.String())
	s.gate.Set(false)
	assert.JSONEq(t, `{"online":false}`, s.do(t, http.MethodGet, "/api/v1/connectivity", "").Body.String())
}

// streamRecorder is safe to read while the handler is still writing
type streamRecorder struct {
	mu     sync.Mutex
	header http.Header
	body   bytes.Buffer
	code   int
}

func (r *streamRecorder) Header() http.Header { return r.header }

func (r *streamRecorder) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.body.Write(p)
}

func (r *streamRecorder) WriteHeader(code int) { r.code = code }

func (r *streamRecorder) Flush() {}

func (r *streamRecorder) CloseNotify() <-chan bool { return make(chan bool) }

func (r *streamRecorder) String() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.body.String()
}

func TestConnectivityStream(t *testing.T) {
	s := newTestServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/connectivity/stream", nil).WithContext(ctx)
	rec := &streamRecorder{header: http.Header{}}

	done := make(chan struct{})
	go func() {
		s.router.ServeHTTP(rec, req)
		close(done)
	}()

	require.Eventually(t, func() bool { return s.gate.Subscribers() == 1 }, time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool { return strings.Contains(rec.String(), `{"online":true}`) }, time.Second, 5*time.Millisecond)

	s.gate.Set(false)
	require.Eventually(t, func() bool { return strings.Contains(rec.String(), `{"online":false}`) }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("stream did not end after the client went away")
	}

	assert.Equal(t, 0, s.gate.Subscribers())
	assert.Contains(t, rec.String(), "event:connectivity")
}

func TestConnectivityStreamDeliversEveryTransition(t *testing.T) {
	s := newTestServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/connectivity/stream", nil).WithContext(ctx)
	rec := &streamRecorder{header: http.Header{}}

	done := make(chan struct{})
	go func() {
		s.router.ServeHTTP(rec, req)
		close(done)
	}()

	require.Eventually(t, func() bool { return s.gate.Subscribers() == 1 }, time.Second, 5*time.Millisecond)

	const transitions = 100
	for i := 0; i < transitions; i++ {
		s.gate.Set(i%2 == 1)
	}

	require.Eventually(t, func() bool {
		return strings.Count(rec.String(), "event:connectivity") == transitions+1
	}, 2*time.Second, 5*time.Millisecond)

	cancel()
	<-done

	body := rec.String()
	assert.Equal(t, transitions/2+1, strings.Count(body, `{"online":true}`))
	assert.Equal(t, transitions/2, strings.Count(body, `{"online":false}`))
}
