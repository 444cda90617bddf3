package api

import (
	"bytes"
	"context"
	"courier-route-service/internal/adapters/zones"
	"courier-route-service/internal/api/dto"
	"courier-route-service/internal/domain"
	"courier-route-service/internal/graph"
	"courier-route-service/internal/ports"
	"courier-route-service/internal/services"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type fixedRepo []string

func (r fixedRepo) ListDestinations(ctx context.Context) ([]string, error) { return r, nil }

type memStore struct {
	mu    sync.Mutex
	plans map[string]*domain.RoutePlan
}

func (s *memStore) SaveRoutePlan(ctx context.Context, plan *domain.RoutePlan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.plans == nil {
		s.plans = map[string]*domain.RoutePlan{}
	}
	s.plans[plan.ID] = plan
	return nil
}

func (s *memStore) GetRoutePlan(ctx context.Context, id string) (*domain.RoutePlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.plans[id]
	if !ok {
		return nil, ports.ErrPlanNotFound
	}
	return p, nil
}

// Depot D at the centre; A north, B north, W west; Island is disconnected.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	b := graph.NewBuilder()
	for _, n := range []graph.Node{
		{Name: "D", Lat: -36.95, Lng: 174.80},
		{Name: "A", Lat: -36.80, Lng: 174.80},
		{Name: "B", Lat: -36.79, Lng: 174.81},
		{Name: "W", Lat: -36.90, Lng: 174.60},
		{Name: "Island", Lat: -36.70, Lng: 175.00},
	} {
		require.NoError(t, b.AddNode(n))
	}
	require.NoError(t, b.AddEdge("D", "A", 2))
	require.NoError(t, b.AddEdge("D", "B", 5))
	require.NoError(t, b.AddEdge("A", "B", 1))
	require.NoError(t, b.AddEdge("D", "W", 0.5))

	partitioner, err := zones.NewThresholdPartitioner(zones.AucklandConfig())
	require.NoError(t, err)

	engine := services.NewShortestPathEngine(b.Build())
	srv := httptest.NewServer(NewRouter(Deps{
		Builder:      services.NewRouteBuilder(engine),
		Engine:       engine,
		Repo:         fixedRepo{"A", "W", "B"},
		Partitioner:  partitioner,
		Store:        &memStore{},
		DefaultDepot: "D",
		Concurrency:  2,
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	res, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.NotEmpty(t, res.Header.Get(requestIDHeader))

	res2, err := http.Post(srv.URL+"/health", "application/json", nil)
	require.NoError(t, err)
	res2.Body.Close()
	require.Equal(t, http.StatusMethodNotAllowed, res2.StatusCode)
}

func TestRequestIDIsPropagated(t *testing.T) {
	srv := newTestServer(t)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/health", nil)
	require.NoError(t, err)
	req.Header.Set(requestIDHeader, "trace-1")

	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	res.Body.Close()
	require.Equal(t, "trace-1", res.Header.Get(requestIDHeader))
}

func TestPaths(t *testing.T) {
	srv := newTestServer(t)

	res, err := http.Get(srv.URL + "/paths?from=D&to=B")
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var body dto.PathResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	require.Equal(t, 3.0, body.Hours)
	require.Equal(t, []string{"D", "A", "B"}, body.Path)

	for query, status := range map[string]int{
		"?from=D&to=Island": http.StatusUnprocessableEntity,
		"?from=D&to=Ghost":  http.StatusNotFound,
		"?from=D":           http.StatusBadRequest,
	} {
		res, err := http.Get(srv.URL + "/paths" + query)
		require.NoError(t, err)
		res.Body.Close()
		require.Equal(t, status, res.StatusCode, query)
	}
}

func TestDestinations(t *testing.T) {
	srv := newTestServer(t)

	res, err := http.Get(srv.URL + "/destinations")
	require.NoError(t, err)
	defer res.Body.Close()

	var body dto.ListDestinationsResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	require.Len(t, body.Destinations, 3)
	require.Equal(t, "W", body.Destinations[1].Name)
	require.Equal(t, 174.60, body.Destinations[1].Lng)
	require.Equal(t, []float64{174.60, -36.90}, body.Destinations[1].Coordinates)
}

func postPlan(t *testing.T, srv *httptest.Server, body string) (*http.Response, dto.PlanResponse) {
	t.Helper()

	res, err := http.Post(srv.URL+"/plans", "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	defer res.Body.Close()

	var plan dto.PlanResponse
	if res.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(res.Body).Decode(&plan))
	}
	return res, plan
}

func TestPlanFromStoredDestinations(t *testing.T) {
	srv := newTestServer(t)

	res, plan := postPlan(t, srv, `{}`)
	require.Equal(t, http.StatusOK, res.StatusCode)

	require.Equal(t, "D", plan.Depot)
	require.Len(t, plan.Routes, 4)
	require.Empty(t, plan.Failures)

	north := plan.Routes[0]
	require.Equal(t, "north", north.Zone)
	require.Equal(t, []string{"D", "A", "B", "D"}, north.Stops)
	require.Equal(t, 6.0, north.TotalHours)

	west := plan.Routes[1]
	require.Equal(t, []string{"D", "W", "D"}, west.Stops)
	require.Equal(t, 1.0, west.TotalHours)

	require.Equal(t, []string{"D", "D"}, plan.Routes[2].Stops)

	got, err := http.Get(srv.URL + "/plans/" + plan.ID)
	require.NoError(t, err)
	defer got.Body.Close()
	require.Equal(t, http.StatusOK, got.StatusCode)

	var stored dto.PlanResponse
	require.NoError(t, json.NewDecoder(got.Body).Decode(&stored))
	require.Equal(t, plan.ID, stored.ID)
	require.Equal(t, plan.Routes, stored.Routes)
}

func TestPlanAcceptsEmptyBody(t *testing.T) {
	srv := newTestServer(t)

	res, plan := postPlan(t, srv, ``)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, "D", plan.Depot)
	require.Len(t, plan.Routes, 4)
}

func TestPlanCancelledRequestIsUnavailable(t *testing.T) {
	srv := newTestServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req := httptest.NewRequest(http.MethodPost, "/plans", bytes.NewBufferString(`{}`)).WithContext(ctx)
	rec := httptest.NewRecorder()
	srv.Config.Handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestPlanExplicitZonesReportsFailures(t *testing.T) {
	srv := newTestServer(t)

	res, plan := postPlan(t, srv, `{"depot":"D","zones":[{"name":"ok","destinations":["W"]},{"name":"far","destinations":["Island"]}]}`)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Len(t, plan.Routes, 1)
	require.Len(t, plan.Failures, 1)
	require.Equal(t, "far", plan.Failures[0].Zone)
	require.Contains(t, plan.Failures[0].Error, "no path")
}

func TestPlanRejectsBadRequests(t *testing.T) {
	srv := newTestServer(t)

	for body, status := range map[string]int{
		`{"depot":`:                          http.StatusBadRequest,
		`{"unknown":1}`:                      http.StatusBadRequest,
		`{} {}`:                              http.StatusBadRequest,
		`{"zones":[{"destinations":["A"]}]}`: http.StatusBadRequest,
		`{"depot":"Ghost"}`:                  http.StatusNotFound,
	} {
		res, _ := postPlan(t, srv, body)
		require.Equal(t, status, res.StatusCode, body)
	}

	res, err := http.Get(srv.URL + "/plans/does-not-exist")
	require.NoError(t, err)
	res.Body.Close()
	require.Equal(t, http.StatusNotFound, res.StatusCode)
}
