package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoyleJ11/iem-roster/internal/roster"
)

func TestClient_Fetch_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != DefaultPath {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"name":"Ana","photo":"/a.jpg","iemClassification":"Drums"},{"name":"Ben","photo":"/b.jpg","iemClassification":"Vox 1"}]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", "", time.Second)
	got, err := c.Fetch(context.Background())
	require.NoError(t, err)

	// backend order is preserved; sorting is the poller's job
	require.Len(t, got, 2)
	assert.Equal(t, "Ana", got[0].Name)
	assert.Equal(t, "Vox 1", got[1].Classification)
}

func TestClient_Fetch_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "", time.Second).Fetch(context.Background())
	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, http.StatusServiceUnavailable, fe.Status)
	assert.Equal(t, "Failed to fetch classifications", fe.Error())
}

func TestClient_Fetch_ParseError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>not json</html>`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "", time.Second).Fetch(context.Background())
	var pe *roster.ParseError
	require.ErrorAs(t, err, &pe)
}

func TestClient_Fetch_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, "", time.Second).Fetch(context.Background())
	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Zero(t, fe.Status)
	assert.NotNil(t, fe.Err)
	assert.Equal(t, FetchMessage, fe.Error())
}

func TestClient_Fetch_NoBaseURL(t *testing.T) {
	_, err := NewClient("", "", time.Second).Fetch(context.Background())
	if !errors.Is(err, ErrNoBaseURL) {
		t.Fatalf("want ErrNoBaseURL, got %v", err)
	}
}

func TestClient_CustomPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/roster" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	got, err := NewClient(srv.URL, "v2/roster", time.Second).Fetch(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}
