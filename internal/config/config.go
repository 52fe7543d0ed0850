package config

import (
	"fmt"
	"net"
	"strconv"
	"time"

	env "github.com/Netflix/go-env"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Request bodies get baseReadTimeout plus one second per minUploadRate bytes
// of MAX_UPLOAD_BYTES.
const (
	baseReadTimeout = 30 * time.Second
	minUploadRate   = 64 << 10
)

type Config struct {
	Host string `env:"HOST"`
	Port int    `env:"PORT,default=8000" validate:"min=1,max=65535"`

	ModelPath         string `env:"MODEL_PATH,default=model.onnx" validate:"required"`
	ModelMetadataPath string `env:"MODEL_METADATA_PATH"`
	OnnxRuntimeLib    string `env:"ONNXRUNTIME_LIB"`
	DemoMode          bool   `env:"DEMO_MODE,default=false"`

	APIKey                  string        `env:"API_KEY"`
	MaxUploadBytes          int64         `env:"MAX_UPLOAD_BYTES,default=10485760" validate:"min=1"`
	MaxImagePixels          int64         `env:"MAX_IMAGE_PIXELS,default=178956970" validate:"min=1"`
	MaxConcurrentInferences int           `env:"MAX_CONCURRENT_INFERENCES,default=4" validate:"min=1"`
	ShutdownTimeout         time.Duration `env:"SHUTDOWN_TIMEOUT,default=10s"`

	LogLevel  string `env:"LOG_LEVEL,default=info" validate:"oneof=trace debug info warn warning error fatal panic"`
	LogFormat string `env:"LOG_FORMAT,default=text" validate:"oneof=text json"`
}

// Load reads a .env file when present, then the process environment.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	var cfg Config
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// ReadTimeout bounds reading a whole request, sized so a MAX_UPLOAD_BYTES
// body still fits on a slow link.
func (c *Config) ReadTimeout() time.Duration {
	return baseReadTimeout + time.Duration(c.MaxUploadBytes/minUploadRate)*time.Second
}
