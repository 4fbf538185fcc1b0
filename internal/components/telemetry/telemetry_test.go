package telemetry

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
)

func TestScopedAPI(t *testing.T) {
	rec := &Recorder{}
	scoped := NewScopedAPI("inventory", rec)

	scoped.ReportBroken("groups.list", errors.New("boom"))
	scoped.ReportWarning("items.detail")
	scoped.ReportCount("batch.size", 5)

	broken := rec.Reports("broken", "groups.list")
	require.Len(t, broken, 1)
	require.Equal(t, "inventory: groups.list", broken[0].ID)
	require.Len(t, rec.Reports("warning", "inventory: items.detail"), 1)
	require.Equal(t, []any{int64(5)}, rec.Reports("count", "batch.size")[0].Params)
	require.Empty(t, rec.Reports("debug", ""))
}

func TestSlogAPI(t *testing.T) {
	var out bytes.Buffer
	api := SlogAPI{Logger: slog.New(slog.NewTextHandler(&out, &slog.HandlerOptions{Level: slog.LevelDebug}))}

	api.ReportBroken("transport.send", errors.New("connection refused"), "/groups/list")
	require.Contains(t, out.String(), "broken component")
	require.Contains(t, out.String(), "id=transport.send")
	require.Contains(t, out.String(), `params.0="connection refused"`)
	require.Contains(t, out.String(), "params.1=/groups/list")
}

func TestInstrumentResty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	rec := &Recorder{}
	client := resty.New()
	InstrumentResty(client, rec)

	_, err := client.R().SetContext(context.Background()).Get(server.URL)
	require.NoError(t, err)
	require.Len(t, rec.Reports("debug", report_resty_request), 1)
	require.Len(t, rec.Reports("debug", report_resty_response), 1)

	_, err = client.R().Get("http://127.0.0.1:0/unreachable")
	require.Error(t, err)
	require.Len(t, rec.Reports("broken", report_resty_response), 1)
}

func TestSetupWithoutEndpoints(t *testing.T) {
	providers, err := Setup(context.Background(), "test:telemetry", OtlpConfig{})
	require.NoError(t, err)
	require.Nil(t, providers.TracerProvider)
	require.Nil(t, providers.MeterProvider)
	require.NoError(t, providers.Shutdown(context.Background()))
}
