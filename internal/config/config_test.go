package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// unsetenv removes key for the duration of the test.
func unsetenv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"HOST", "PORT", "MODEL_PATH", "MODEL_METADATA_PATH", "ONNXRUNTIME_LIB",
		"DEMO_MODE", "API_KEY", "MAX_UPLOAD_BYTES", "MAX_IMAGE_PIXELS", "MAX_CONCURRENT_INFERENCES", "SHUTDOWN_TIMEOUT",
		"LOG_LEVEL", "LOG_FORMAT"} {
		unsetenv(t, key)
	}

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, 8000, cfg.Port)
	require.Equal(t, "model.onnx", cfg.ModelPath)
	require.False(t, cfg.DemoMode)
	require.Equal(t, int64(10<<20), cfg.MaxUploadBytes)
	require.Equal(t, int64(178956970), cfg.MaxImagePixels)
	require.Equal(t, 190*time.Second, cfg.ReadTimeout())
	require.Equal(t, 4, cfg.MaxConcurrentInferences)
	require.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, "text", cfg.LogFormat)
	require.Equal(t, ":8000", cfg.Addr())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("HOST", "127.0.0.1")
	t.Setenv("PORT", "9090")
	t.Setenv("MODEL_PATH", "/models/banana.onnx")
	t.Setenv("DEMO_MODE", "true")
	t.Setenv("API_KEY", "s3cret")
	t.Setenv("MAX_CONCURRENT_INFERENCES", "8")
	t.Setenv("MAX_UPLOAD_BYTES", "1048576")
	t.Setenv("MAX_IMAGE_PIXELS", "40000000")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "127.0.0.1:9090", cfg.Addr())
	require.Equal(t, "/models/banana.onnx", cfg.ModelPath)
	require.True(t, cfg.DemoMode)
	require.Equal(t, "s3cret", cfg.APIKey)
	require.Equal(t, 8, cfg.MaxConcurrentInferences)
	require.Equal(t, int64(40000000), cfg.MaxImagePixels)
	require.Equal(t, 46*time.Second, cfg.ReadTimeout())
	require.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
	require.Equal(t, "json", cfg.LogFormat)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"PORT", "70000"},
		{"PORT", "eighty"},
		{"MAX_CONCURRENT_INFERENCES", "0"},
		{"MAX_IMAGE_PIXELS", "0"},
		{"LOG_FORMAT", "xml"},
		{"LOG_LEVEL", "loud"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
		})
	}
}
