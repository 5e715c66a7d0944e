package relayserver_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cardlink/internal/crypto"
	"cardlink/internal/domain"
	"cardlink/internal/relayserver"
)

func newServer(t *testing.T, logOut io.Writer) *httptest.Server {
	t.Helper()
	sealer, err := crypto.NewSealer([]byte("relay-test-secret-0123"))
	require.NoError(t, err)
	log := zerolog.Nop()
	if logOut != nil {
		log = zerolog.New(logOut)
	}
	srv := httptest.NewServer(relayserver.New(openMemory(t), sealer, log))
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, url string, body any) (*http.Response, []byte) {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(b))
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, out
}

func createSession(t *testing.T, base string) domain.SessionID {
	t.Helper()
	resp, body := post(t, base+"/session", struct{}{})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created domain.CreateSessionResponse
	require.NoError(t, json.Unmarshal(body, &created))
	require.NotEmpty(t, created.SessionID)
	return created.SessionID
}

func getView(t *testing.T, base string, id domain.SessionID) domain.SessionView {
	t.Helper()
	resp, err := http.Get(base + "/session/" + id.String())
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var view domain.SessionView
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&view))
	return view
}

func errorText(t *testing.T, body []byte) string {
	t.Helper()
	var e domain.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &e))
	return e.Error
}

func TestServer_FullFlow(t *testing.T) {
	var logs bytes.Buffer
	srv := newServer(t, &logs)
	id := createSession(t, srv.URL)
	assert.Equal(t, domain.RemotePending, getView(t, srv.URL, id).Status)

	resp, _ := post(t, srv.URL+domain.PathLink, domain.LinkRequest{SessionID: id, AppIdentifier: "MVP_PWA_App_01"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	view := getView(t, srv.URL, id)
	assert.Equal(t, domain.RemoteLinked, view.Status)
	assert.Equal(t, "MVP_PWA_App_01", view.AppIdentifier)

	card := domain.PlaceholderCard()
	resp, _ = post(t, srv.URL+domain.PathRelay, domain.RelayRequest{
		SessionID: id,
		Type:      domain.PayloadKindCardData,
		Payload:   card.Payload(),
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	view = getView(t, srv.URL, id)
	assert.Equal(t, domain.RemoteRelayed, view.Status)
	assert.Equal(t, domain.PayloadKindCardData, view.Type)
	assert.Equal(t, card.Payload(), view.Payload)

	assert.NotContains(t, logs.String(), card.Number)
	assert.Contains(t, logs.String(), "payload_fp")
}

func TestServer_LinkErrors(t *testing.T) {
	srv := newServer(t, nil)
	id := createSession(t, srv.URL)

	resp, body := post(t, srv.URL+domain.PathLink, domain.LinkRequest{SessionID: "missing", AppIdentifier: "a"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "session not found", errorText(t, body))

	resp, _ = post(t, srv.URL+domain.PathLink, domain.LinkRequest{AppIdentifier: "a"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = post(t, srv.URL+domain.PathLink, domain.LinkRequest{SessionID: id, AppIdentifier: "a"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, body = post(t, srv.URL+domain.PathLink, domain.LinkRequest{SessionID: id, AppIdentifier: "b"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "session already linked", errorText(t, body))
}

func TestServer_RelayErrors(t *testing.T) {
	srv := newServer(t, nil)
	id := createSession(t, srv.URL)
	payload := domain.PlaceholderCard().Payload()

	tests := []struct {
		name   string
		req    domain.RelayRequest
		status int
		msg    string
	}{
		{
			name:   "not linked",
			req:    domain.RelayRequest{SessionID: id, Type: domain.PayloadKindCardData, Payload: payload},
			status: http.StatusConflict,
			msg:    "session not linked",
		},
		{
			name:   "unsupported type",
			req:    domain.RelayRequest{SessionID: id, Type: "bank_login", Payload: payload},
			status: http.StatusBadRequest,
			msg:    "unsupported payload type",
		},
		{
			name:   "empty payload",
			req:    domain.RelayRequest{SessionID: id, Type: domain.PayloadKindCardData},
			status: http.StatusBadRequest,
			msg:    "payload is empty",
		},
		{
			name:   "unknown session",
			req:    domain.RelayRequest{SessionID: "missing", Type: domain.PayloadKindCardData, Payload: payload},
			status: http.StatusNotFound,
			msg:    "session not found",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := post(t, srv.URL+domain.PathRelay, tt.req)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, tt.msg, errorText(t, body))
		})
	}
}

func TestServer_BadBody(t *testing.T) {
	srv := newServer(t, nil)
	resp, err := http.Post(srv.URL+domain.PathLink, "application/json", bytes.NewReader([]byte("{")))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_HealthAndMetrics(t *testing.T) {
	srv := newServer(t, nil)
	createSession(t, srv.URL)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `cardlink_relay_session_events_total{event="created"} 1`)
	assert.Contains(t, string(body), "cardlink_relay_http_requests_total")
}
