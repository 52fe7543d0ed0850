package client

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http/httptest"
	"path/filepath"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/Brownie44l1/freshness-api/internal/handlers"
	"github.com/Brownie44l1/freshness-api/internal/lifecycle"
	"github.com/Brownie44l1/freshness-api/internal/metrics"
	"github.com/Brownie44l1/freshness-api/internal/prediction"
	"github.com/Brownie44l1/freshness-api/internal/status"
)

func newTestServer(t *testing.T, apiKey string) *httptest.Server {
	t.Helper()
	logger := log.New()
	logger.SetOutput(io.Discard)

	manager := lifecycle.NewManager(filepath.Join(t.TempDir(), "model.onnx"), false, nil, logger)
	manager.Load()

	m := metrics.New()
	svc := prediction.NewService(manager, 1, m, logger)
	h := handlers.NewHandler(svc, status.NewReporter(manager), 1<<20, logger)

	srv := httptest.NewServer(h.Routes(m, apiKey))
	t.Cleanup(srv.Close)
	return srv
}

func greenPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 20, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			img.SetRGBA(x, y, color.RGBA{G: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestClient_Health(t *testing.T) {
	srv := newTestServer(t, "")

	health, err := New(srv.URL, "").Health(context.Background())

	require.NoError(t, err)
	require.Equal(t, "healthy", health.Status)
	require.True(t, health.DemoMode)
	require.False(t, health.ModelLoaded)
	require.Nil(t, health.ModelPath)
}

func TestClient_Predict(t *testing.T) {
	srv := newTestServer(t, "")
	data := greenPNG(t)
	c := New(srv.URL, "")

	first, err := c.Predict(context.Background(), "banana.png", data)
	require.NoError(t, err)
	require.True(t, first.DemoMode)
	require.Equal(t, "success", first.Status)
	require.GreaterOrEqual(t, first.DaysRemaining, 2.5)
	require.LessOrEqual(t, first.DaysRemaining, 4.5)

	second, err := c.Predict(context.Background(), "banana.png", data)
	require.NoError(t, err)
	require.Equal(t, first.DaysRemaining, second.DaysRemaining)
}

func TestClient_PredictRejectsText(t *testing.T) {
	srv := newTestServer(t, "")

	_, err := New(srv.URL, "").Predict(context.Background(), "notes.txt", []byte("just some words"))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, 400, apiErr.StatusCode)
	require.Contains(t, apiErr.Detail, "image")
}

func TestClient_APIKey(t *testing.T) {
	srv := newTestServer(t, "s3cret")

	_, err := New(srv.URL, "wrong").Predict(context.Background(), "banana.png", greenPNG(t))
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, 401, apiErr.StatusCode)

	_, err = New(srv.URL, "s3cret").Predict(context.Background(), "banana.png", greenPNG(t))
	require.NoError(t, err)
}

func TestClient_Unreachable(t *testing.T) {
	srv := newTestServer(t, "")
	url := srv.URL
	srv.Close()

	_, err := New(url, "").Health(context.Background())
	require.Error(t, err)
}
