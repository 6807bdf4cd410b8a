package api_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/UnknownOlympus/waypoint/internal/api"
	"github.com/UnknownOlympus/waypoint/internal/mapview"
	"github.com/UnknownOlympus/waypoint/internal/metrics"
	"github.com/UnknownOlympus/waypoint/internal/models"
	"github.com/UnknownOlympus/waypoint/internal/prefs"
	"github.com/UnknownOlympus/waypoint/internal/remote"
	"github.com/UnknownOlympus/waypoint/internal/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFirebase serves one in-memory document per code.
type fakeFirebase struct {
	mu   sync.Mutex
	docs map[string]string
	puts int
}

func (f *fakeFirebase) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	code := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/"), "/markers.json")
	switch r.Method {
	case http.MethodGet:
		doc, ok := f.docs[code]
		if !ok {
			doc = "null"
		}
		_, _ = io.WriteString(w, doc)
	case http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.docs[code] = string(body)
		f.puts++
		_, _ = w.Write(body)
	}
}

type commandReply struct {
	View  session.View   `json:"view"`
	Alert *session.Alert `json:"alert"`
}

func post(t *testing.T, srv *httptest.Server, body string) (int, commandReply) {
	t.Helper()

	resp, err := http.Post(srv.URL+"/api/commands", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var reply commandReply
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&reply))

	return resp.StatusCode, reply
}

func TestMarkerFlow(t *testing.T) {
	firebase := &fakeFirebase{docs: map[string]string{
		"demo": `[{"name":"1","latlng":{"lat":0,"lng":0}},{"name":"2","latlng":{"lat":1,"lng":1}}]`,
	}}
	remoteSrv := httptest.NewServer(firebase)
	defer remoteSrv.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := remote.NewFirebaseStore(remoteSrv.URL+"/{code}/markers.json", time.Second, 0, logger)
	mapView := mapview.New(logger, mapview.Options{Zoom: 6, MinZoom: 2, MaxZoom: 7})
	ctrl, err := session.NewController(logger, store, prefs.NewMemoryStore(),
		metrics.NewMetrics(prometheus.NewRegistry()), mapView, session.Options{})
	require.NoError(t, err)

	go ctrl.Run(t.Context())

	srv := httptest.NewServer(api.NewRouter(ctrl, logger))
	defer srv.Close()

	status, reply := post(t, srv, `{"type":"addMarker","name":"3","latlng":{"lat":2,"lng":2}}`)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, session.AlertValidation, reply.Alert.Kind)

	status, reply = post(t, srv, `{"type":"authenticate","code":"demo"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, session.StateAuthenticated, reply.View.State)
	require.Len(t, reply.View.Rows, 2)
	assert.Len(t, reply.View.Annotations, 2)

	status, reply = post(t, srv, `{"type":"addMarker","name":"abc","latlng":{"lat":2,"lng":2}}`)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Len(t, reply.View.Rows, 2)
	assert.Zero(t, firebase.puts)

	status, reply = post(t, srv, `{"type":"addMarker","name":"10","latlng":{"lat":2,"lng":2}}`)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, reply.View.Rows, 3)

	status, reply = post(t, srv, `{"type":"sort","order":"desc"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, models.Name("10"), reply.View.Rows[0].Label)

	// The row carries the command the browser posts back when its delete control is used.
	deleteAction, err := json.Marshal(reply.View.Rows[0].Delete)
	require.NoError(t, err)
	status, reply = post(t, srv, string(deleteAction))
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, reply.View.Rows, 2)

	firebase.mu.Lock()
	assert.JSONEq(t,
		`[{"name":"2","latlng":{"lat":1,"lng":1}},{"name":"1","latlng":{"lat":0,"lng":0}}]`,
		firebase.docs["demo"])
	assert.Equal(t, 2, firebase.puts)
	firebase.mu.Unlock()

	resp, err := http.Get(srv.URL + "/api/view")
	require.NoError(t, err)
	defer resp.Body.Close()
	var view session.View
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&view))
	assert.Equal(t, 2, view.Markers)
}
