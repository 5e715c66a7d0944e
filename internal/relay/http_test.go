package relay_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cardlink/internal/domain"
	"cardlink/internal/relay"
)

func TestExchange_Success(t *testing.T) {
	var got domain.LinkRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, domain.PathLink, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := relay.NewHTTP(srv.URL+"/", nil, zerolog.Nop())
	raw, err := c.Exchange(context.Background(), domain.PathLink, domain.LinkRequest{
		SessionID:     "ABC123",
		AppIdentifier: "MVP_PWA_App_01",
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(raw))
	assert.Equal(t, domain.SessionID("ABC123"), got.SessionID)
	assert.Equal(t, "MVP_PWA_App_01", got.AppIdentifier)
}

func TestExchange_EmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	raw, err := relay.NewHTTP(srv.URL, nil, zerolog.Nop()).Exchange(context.Background(), domain.PathRelay, struct{}{})
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestExchange_ServerRejected(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{name: "error field", status: http.StatusBadRequest, body: `{"error":"bad code"}`, wantMsg: "bad code"},
		{name: "no error field", status: http.StatusConflict, body: `{}`, wantMsg: "Conflict"},
		{name: "not json", status: http.StatusInternalServerError, body: `boom`, wantMsg: "Internal Server Error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := relay.NewHTTP(srv.URL, nil, zerolog.Nop()).Exchange(context.Background(), domain.PathLink, struct{}{})
			require.Error(t, err)

			var te *domain.TransportError
			require.ErrorAs(t, err, &te)
			assert.Equal(t, domain.ServerRejected, te.Kind)
			assert.Equal(t, tt.status, te.StatusCode)
			assert.Equal(t, tt.wantMsg, te.Message)
			assert.False(t, domain.IsNetworkFailure(err))
		})
	}
}

func TestExchange_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := relay.NewHTTP(url, nil, zerolog.Nop()).Exchange(context.Background(), domain.PathLink, struct{}{})
	require.Error(t, err)
	assert.True(t, domain.IsNetworkFailure(err))
	_, ok := domain.ServerMessage(err)
	assert.False(t, ok)
}

func TestExchange_TimeoutIsNetworkFailure(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	hc := &http.Client{Timeout: 50 * time.Millisecond}
	_, err := relay.NewHTTP(srv.URL, hc, zerolog.Nop()).Exchange(context.Background(), domain.PathRelay, struct{}{})
	require.Error(t, err)
	assert.True(t, domain.IsNetworkFailure(err))
}
