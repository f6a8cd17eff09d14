package walletgo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTransportGet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/invitation", r.URL.Path)
		require.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"@id":"inv-1","label":"Example Issuer"}`))
	}))
	defer server.Close()

	transport := NewHTTPTransport(server.URL)
	transport.SetBearerToken("secret")

	var dest struct {
		ID    string `json:"@id"`
		Label string `json:"label"`
	}
	require.NoError(t, transport.Get(context.Background(), "invitation", &dest))
	require.Equal(t, "inv-1", dest.ID)
	require.Equal(t, "Example Issuer", dest.Label)
}

func TestTransportGetBytesErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := NewHTTPTransport(server.URL).GetBytes(context.Background(), "missing")
	var serr *Error
	require.ErrorAs(t, err, &serr)
	require.Equal(t, ErrorTransport, serr.ErrorCode)
}

func TestTransportPost(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	var dest struct {
		Status string `json:"status"`
	}
	err := NewHTTPTransport(server.URL).Post(context.Background(), "credentials", &dest,
		map[string]string{"id": "cred-1"})
	require.NoError(t, err)
	require.Equal(t, "ok", dest.Status)
}

func TestTransportGetInvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	var dest map[string]interface{}
	err := NewHTTPTransport(server.URL).Get(context.Background(), "", &dest)
	var serr *Error
	require.ErrorAs(t, err, &serr)
	require.Equal(t, ErrorSerialization, serr.ErrorCode)
}
