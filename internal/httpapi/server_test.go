package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/fleetlot/internal/engine"
	"github.com/roach88/fleetlot/internal/runner"
	"github.com/roach88/fleetlot/internal/testutil"
)

func newTestServer(t *testing.T) (*httptest.Server, *engine.Engine) {
	t.Helper()

	logger := testutil.DiscardLogger()
	e := engine.New(engine.WithLogger(logger))
	r := runner.New(e, io.Discard, runner.WithLogger(logger))

	ts := httptest.NewServer(NewServer(e, r, "", logger).Handler())
	t.Cleanup(ts.Close)
	return ts, e
}

func postCommands(t *testing.T, ts *httptest.Server, lines ...string) (int, CommandsResponse) {
	t.Helper()

	body, err := json.Marshal(CommandsRequest{Lines: lines})
	require.NoError(t, err)

	resp, err := http.Post(ts.URL+"/api/commands", contentTypeJSON, bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out CommandsResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func getJSON(t *testing.T, url string, into any) int {
	t.Helper()

	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, contentTypeJSON, resp.Header.Get("Content-Type"))
	require.NoError(t, json.NewDecoder(resp.Body).Decode(into))
	return resp.StatusCode
}

func TestServer_Health(t *testing.T) {
	ts, _ := newTestServer(t)

	var out Response
	status := getJSON(t, ts.URL+"/health", &out)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, StatusOK, out.Status)
}

func TestServer_Commands(t *testing.T) {
	ts, _ := newTestServer(t)

	status, out := postCommands(t, ts,
		"create_parking_lot 10 2",
		"create_parking_lot 5 2",
		"add_truck 1 10",
		"add_truck 2 7",
		"",
		"fly 3",
		"ready 10",
		"load 10 5",
		"count 0",
	)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, StatusSuccess, out.Status)
	assert.Equal(t, []string{"10", "5", "1 10", "1 5", "2"}, out.Outputs)
}

func TestServer_MalformedLineKeepsEngineUsable(t *testing.T) {
	ts, _ := newTestServer(t)

	status, out := postCommands(t, ts, "create_parking_lot 4 1", "add_truck 1 4", "load 4 many", "count 0")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, StatusError, out.Status)
	assert.Equal(t, []string{"4"}, out.Outputs)
	assert.Contains(t, out.Error, "line 3")

	status, out = postCommands(t, ts, "count 0")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, []string{"1"}, out.Outputs)
}

func TestServer_InvalidBody(t *testing.T) {
	ts, _ := newTestServer(t)

	for _, body := range []string{"not json", `{"lines": "count 0"}`, `{"commands": []}`} {
		resp, err := http.Post(ts.URL+"/api/commands", contentTypeJSON, strings.NewReader(body))
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, body)
	}
}

func TestServer_Lots(t *testing.T) {
	ts, _ := newTestServer(t)
	postCommands(t, ts, "create_parking_lot 9 3", "create_parking_lot 2 1", "add_truck 7 9", "add_truck 8 9", "ready 9")

	var lots LotsResponse
	status := getJSON(t, ts.URL+"/api/lots", &lots)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, []engine.LotSnapshot{
		{Capacity: 2, Limit: 1, Waiting: []int{}, Ready: []int{}},
		{Capacity: 9, Limit: 3, Waiting: []int{8}, Ready: []int{7}},
	}, lots.Lots)

	var lot LotResponse
	status = getJSON(t, ts.URL+"/api/lots/9", &lot)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 9, lot.Lot.Capacity)
	assert.Equal(t, []int{7}, lot.Lot.Ready)

	var missing Response
	assert.Equal(t, http.StatusNotFound, getJSON(t, ts.URL+"/api/lots/4", &missing))
	assert.Equal(t, StatusError, missing.Status)

	var bad Response
	assert.Equal(t, http.StatusBadRequest, getJSON(t, ts.URL+"/api/lots/nine", &bad))
}

func TestServer_Count(t *testing.T) {
	ts, _ := newTestServer(t)
	postCommands(t, ts, "create_parking_lot 3 2", "create_parking_lot 8 2", "add_truck 1 3", "add_truck 2 8")

	var out CountResponse
	status := getJSON(t, ts.URL+"/api/count?threshold=3", &out)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 3, out.Threshold)
	assert.Equal(t, 1, out.Count)

	var bad Response
	assert.Equal(t, http.StatusBadRequest, getJSON(t, ts.URL+"/api/count", &bad))
	assert.Equal(t, http.StatusBadRequest, getJSON(t, ts.URL+"/api/count?threshold=x", &bad))
}

func TestServer_ConcurrentRequestsSerialize(t *testing.T) {
	ts, e := newTestServer(t)
	postCommands(t, ts, "create_parking_lot 50 40", "create_parking_lot 20 40")

	const clients = 8
	const perClient = 20

	var wg sync.WaitGroup
	for c := range clients {
		wg.Add(1)
		go func() {
			defer wg.Done()
			lines := make([]string, 0, perClient)
			for i := range perClient {
				lines = append(lines, fmt.Sprintf("add_truck %d 50", c*perClient+i))
			}
			body, _ := json.Marshal(CommandsRequest{Lines: lines})
			resp, err := http.Post(ts.URL+"/api/commands", contentTypeJSON, bytes.NewReader(body))
			if err == nil {
				resp.Body.Close()
			}
		}()
	}
	wg.Wait()

	// 160 trucks: 40 fit in lot 50, 40 fall back to lot 20, the rest are rejected.
	assert.Equal(t, 80, e.Count(0))
	assert.NoError(t, e.CheckInvariants())
}

func TestServer_ListenAndServeStopsOnCancel(t *testing.T) {
	logger := testutil.DiscardLogger()
	e := engine.New(engine.WithLogger(logger))
	s := NewServer(e, runner.New(e, io.Discard), "127.0.0.1:0", logger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx) }()

	cancel()
	assert.NoError(t, <-done)
}
