package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/DoyleJ11/iem-roster/internal/config"
)

func TestRun_ConfiguresStagesInSortedOrder(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer upstream.Close()

	cfg := config.Config{
		Addr:         "127.0.0.1:0",
		UpstreamURL:  upstream.URL,
		UpstreamPath: "/api/redistributed",
		DefaultStage: "main",
		Stages: map[string]string{
			"side":  upstream.URL,
			"foh":   upstream.URL,
			"annex": upstream.URL,
			"tent":  upstream.URL,
		},
		PollInterval:    time.Hour,
		FetchTimeout:    time.Second,
		CursorHideDelay: time.Second,
	}
	require.NoError(t, cfg.Validate())

	core, logs := observer.New(zap.InfoLevel)

	// already cancelled: run wires every stage, then shuts straight down
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, run(ctx, cfg, zap.New(core)))

	var got []string
	for _, e := range logs.FilterMessage("stage configured").All() {
		got = append(got, e.ContextMap()["stage"].(string))
	}
	assert.Equal(t, []string{"annex", "foh", "main", "side", "tent"}, got)
}
