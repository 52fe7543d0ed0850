package model

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/Brownie44l1/freshness-api/internal/preprocess"
)

var envMu sync.Mutex

// Session is a loaded ONNX model. Input and output tensors are allocated per
// call, so Predict may be called from several goroutines at once.
type Session struct {
	session  *ort.DynamicAdvancedSession
	Metadata Metadata
}

func Load(modelPath string, opts Options) (*Session, error) {
	metadata, err := loadMetadata(opts.MetadataPath)
	if err != nil {
		return nil, err
	}
	if err := validateMetadata(metadata); err != nil {
		return nil, err
	}

	if err := initEnvironment(opts.SharedLibraryPath); err != nil {
		return nil, err
	}

	session, err := ort.NewDynamicAdvancedSession(modelPath,
		[]string{metadata.InputName}, []string{metadata.OutputName}, nil)
	if err != nil {
		destroyEnvironment()
		return nil, fmt.Errorf("failed to create ONNX session: %w", err)
	}

	return &Session{
		session:  session,
		Metadata: metadata,
	}, nil
}

func (s *Session) Predict(ctx context.Context, tensor *preprocess.Tensor) (float32, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	inputTensor, err := ort.NewTensor(ort.NewShape(tensor.Dims()...), tensor.Data)
	if err != nil {
		return 0, fmt.Errorf("failed to create input tensor: %w", err)
	}
	defer inputTensor.Destroy()

	outputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(s.Metadata.OutputShape...))
	if err != nil {
		return 0, fmt.Errorf("failed to create output tensor: %w", err)
	}
	defer outputTensor.Destroy()

	err = s.session.Run([]ort.ArbitraryTensor{inputTensor}, []ort.ArbitraryTensor{outputTensor})
	if err != nil {
		return 0, fmt.Errorf("inference failed: %w", err)
	}

	outputData := outputTensor.GetData()
	if len(outputData) == 0 {
		return 0, fmt.Errorf("inference returned an empty output")
	}
	return outputData[0], nil
}

func (s *Session) Close() error {
	var err error
	if s.session != nil {
		err = s.session.Destroy()
		s.session = nil
	}
	destroyEnvironment()
	return err
}

func loadMetadata(path string) (Metadata, error) {
	metadata := DefaultMetadata()
	if path == "" {
		return metadata, nil
	}

	metaFile, err := os.ReadFile(path)
	if err != nil {
		return Metadata{}, fmt.Errorf("failed to read metadata: %w", err)
	}
	if err := json.Unmarshal(metaFile, &metadata); err != nil {
		return Metadata{}, fmt.Errorf("failed to parse metadata: %w", err)
	}
	return metadata, nil
}

func validateMetadata(m Metadata) error {
	if m.InputName == "" || m.OutputName == "" {
		return fmt.Errorf("metadata: input and output names are required")
	}

	want := DefaultMetadata().InputShape
	if len(m.InputShape) != len(want) {
		return fmt.Errorf("metadata: input shape %v, expected %v", m.InputShape, want)
	}
	for i := range want {
		if m.InputShape[i] != want[i] {
			return fmt.Errorf("metadata: input shape %v, expected %v", m.InputShape, want)
		}
	}

	size := int64(1)
	for _, dim := range m.OutputShape {
		size *= dim
	}
	if len(m.OutputShape) == 0 || size < 1 {
		return fmt.Errorf("metadata: invalid output shape %v", m.OutputShape)
	}
	return nil
}

func initEnvironment(libPath string) error {
	envMu.Lock()
	defer envMu.Unlock()

	if ort.IsInitialized() {
		return nil
	}
	if libPath != "" {
		ort.SetSharedLibraryPath(libPath)
	}
	if err := ort.InitializeEnvironment(); err != nil {
		return fmt.Errorf("failed to initialize ONNX environment: %w", err)
	}
	return nil
}

func destroyEnvironment() {
	envMu.Lock()
	defer envMu.Unlock()

	if ort.IsInitialized() {
		ort.DestroyEnvironment()
	}
}
