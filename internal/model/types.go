package model

import (
	"github.com/Brownie44l1/freshness-api/internal/preprocess"
)

// Metadata describes the graph's tensor names and shapes. It is read from an
// optional JSON sidecar exported next to the model.
type Metadata struct {
	InputName   string  `json:"input_name"`
	OutputName  string  `json:"output_name"`
	InputShape  []int64 `json:"input_shape"`
	OutputShape []int64 `json:"output_shape"`
}

// DefaultMetadata matches a Keras regression head exported with tf2onnx:
// NHWC image input and a single scalar output per batch row.
func DefaultMetadata() Metadata {
	return Metadata{
		InputName:   "input",
		OutputName:  "output",
		InputShape:  []int64{1, preprocess.TargetHeight, preprocess.TargetWidth, preprocess.Channels},
		OutputShape: []int64{1, 1},
	}
}

// Options configure Load.
type Options struct {
	// SharedLibraryPath points at libonnxruntime; empty uses the platform default.
	SharedLibraryPath string
	// MetadataPath is the optional sidecar; empty keeps DefaultMetadata.
	MetadataPath string
}
