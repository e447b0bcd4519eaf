package sentiment

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

const resourceModel = "model"

// The ORT environment is process-wide; sessions share it by reference count.
// An environment initialized outside this package is used but never destroyed.
var (
	ortEnvMu    sync.Mutex
	ortEnvRefs  int
	ortEnvOwned bool

	// Swapped in tests that run without the shared library.
	ortIsInitialized = ort.IsInitialized
	ortInitialize    = func(libPath string) error {
		if libPath != "" {
			ort.SetSharedLibraryPath(libPath)
		}
		return ort.InitializeEnvironment()
	}
	ortDestroy = ort.DestroyEnvironment
)

func acquireOrtEnv(libPath string) error {
	ortEnvMu.Lock()
	defer ortEnvMu.Unlock()
	if ortEnvRefs == 0 {
		if ortIsInitialized() {
			ortEnvOwned = false
		} else {
			if err := ortInitialize(libPath); err != nil {
				return &ResourceError{Resource: "onnxruntime", Path: libPath, Err: err}
			}
			ortEnvOwned = true
		}
	}
	ortEnvRefs++
	return nil
}

func releaseOrtEnv() {
	ortEnvMu.Lock()
	defer ortEnvMu.Unlock()
	if ortEnvRefs == 0 {
		return
	}
	ortEnvRefs--
	if ortEnvRefs == 0 && ortEnvOwned {
		ortEnvOwned = false
		if ortIsInitialized() {
			_ = ortDestroy()
		}
	}
}

// OrtModel scores feature vectors with an ONNX graph. The session is shared
// read-only; every Score call allocates its own tensors.
type OrtModel struct {
	mu        sync.RWMutex
	session   *ort.DynamicAdvancedSession
	sig       Signature
	cfg       ModelConfig
	inputDims ort.Shape
	outDims   ort.Shape
	int64In   bool
}

// LoadOrtModel opens the artifact at cfg.ModelPath and validates its declared
// tensors against featureLength and classCount.
func LoadOrtModel(cfg ModelConfig, featureLength, classCount int) (*OrtModel, error) {
	if cfg.ModelID == "" && cfg.ModelPath != "" {
		cfg.ModelID = filepath.Base(cfg.ModelPath)
	}
	if cfg.ModelPath == "" {
		return nil, &ResourceError{Resource: resourceModel, Err: errors.New("model path is required")}
	}
	if _, err := os.Stat(cfg.ModelPath); err != nil {
		return nil, &ResourceError{Resource: resourceModel, Path: cfg.ModelPath, Err: err}
	}
	if err := acquireOrtEnv(cfg.OrtLib); err != nil {
		return nil, err
	}
	m, err := openOrtModel(cfg, featureLength, classCount)
	if err != nil {
		releaseOrtEnv()
		return nil, err
	}
	return m, nil
}

func openOrtModel(cfg ModelConfig, featureLength, classCount int) (*OrtModel, error) {
	inputs, outputs, err := ort.GetInputOutputInfo(cfg.ModelPath)
	if err != nil {
		return nil, &ResourceError{Resource: resourceModel, Path: cfg.ModelPath, Err: err}
	}
	bound, err := checkSignature(inputs, outputs, cfg, featureLength, classCount)
	if err != nil {
		return nil, err
	}
	session, err := ort.NewDynamicAdvancedSession(cfg.ModelPath,
		[]string{bound.sig.InputName}, []string{bound.sig.OutputName}, nil)
	if err != nil {
		return nil, &ResourceError{Resource: resourceModel, Path: cfg.ModelPath, Err: fmt.Errorf("create session: %w", err)}
	}
	return &OrtModel{
		session:   session,
		sig:       bound.sig,
		cfg:       cfg,
		inputDims: bound.inputDims,
		outDims:   bound.outDims,
		int64In:   bound.int64In,
	}, nil
}

// Close releases the ORT session.
func (m *OrtModel) Close() error {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return nil
	}
	err := m.session.Destroy()
	m.session = nil
	releaseOrtEnv()
	return err
}

// ModelID identifies the loaded artifact.
func (m *OrtModel) ModelID() string { return m.cfg.ModelID }

// Signature returns the validated tensor contract.
func (m *OrtModel) Signature() Signature { return m.sig }

// Score runs the graph on a single feature vector.
func (m *OrtModel) Score(_ context.Context, features []int32) ([]float32, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.session == nil {
		return nil, errors.New("model is closed")
	}
	var input ort.Value
	if m.int64In {
		data := make([]int64, len(features))
		for i, id := range features {
			data[i] = int64(id)
		}
		t, err := ort.NewTensor(m.inputDims, data)
		if err != nil {
			return nil, fmt.Errorf("create input tensor: %w", err)
		}
		defer t.Destroy()
		input = t
	} else {
		data := make([]int32, len(features))
		copy(data, features)
		t, err := ort.NewTensor(m.inputDims, data)
		if err != nil {
			return nil, fmt.Errorf("create input tensor: %w", err)
		}
		defer t.Destroy()
		input = t
	}
	output, err := ort.NewEmptyTensor[float32](m.outDims)
	if err != nil {
		return nil, fmt.Errorf("create output tensor: %w", err)
	}
	defer output.Destroy()
	if err := m.session.Run([]ort.Value{input}, []ort.Value{output}); err != nil {
		return nil, fmt.Errorf("run session: %w", err)
	}
	probs := output.GetData()
	out := make([]float32, len(probs))
	copy(out, probs)
	return out, nil
}

type boundSignature struct {
	sig       Signature
	inputDims ort.Shape
	outDims   ort.Shape
	int64In   bool
}

// checkSignature resolves the features and prediction tensors and verifies
// their element types and shapes. A leading batch dimension of 1 or -1 is
// accepted; the tensors bound for Score always use a batch of one.
func checkSignature(inputs, outputs []ort.InputOutputInfo, cfg ModelConfig, featureLength, classCount int) (boundSignature, error) {
	var bound boundSignature
	in, err := pickTensor(inputs, cfg.InputName, DefaultInputName, "input")
	if err != nil {
		return bound, err
	}
	out, err := pickTensor(outputs, cfg.OutputName, DefaultOutputName, "output")
	if err != nil {
		return bound, err
	}
	switch in.DataType {
	case ort.TensorElementDataTypeInt32:
	case ort.TensorElementDataTypeInt64:
		bound.int64In = true
	default:
		return bound, &ModelError{Field: "input type", Want: "int32 or int64", Got: in.DataType.String()}
	}
	if out.DataType != ort.TensorElementDataTypeFloat {
		return bound, &ModelError{Field: "output type", Want: "float", Got: out.DataType.String()}
	}
	bound.inputDims, err = fixedDims(in.Dimensions, featureLength, "input shape")
	if err != nil {
		return bound, err
	}
	bound.outDims, err = fixedDims(out.Dimensions, classCount, "output shape")
	if err != nil {
		return bound, err
	}
	bound.sig = Signature{
		InputName:   in.Name,
		InputType:   in.DataType.String(),
		InputLength: featureLength,
		OutputName:  out.Name,
		OutputType:  out.DataType.String(),
		ClassCount:  classCount,
	}
	return bound, nil
}

func pickTensor(infos []ort.InputOutputInfo, want, fallback, kind string) (ort.InputOutputInfo, error) {
	if want == "" {
		want = fallback
	}
	for _, info := range infos {
		if info.Name == want {
			return info, nil
		}
	}
	for _, info := range infos {
		if strings.EqualFold(info.Name, want) {
			return info, nil
		}
	}
	// A graph with a single tensor is bound to it when only the default was asked for.
	if want == fallback && len(infos) == 1 {
		return infos[0], nil
	}
	names := make([]string, len(infos))
	for i, info := range infos {
		names[i] = info.Name
	}
	return ort.InputOutputInfo{}, &ModelError{Field: kind + " name", Want: want, Got: "[" + strings.Join(names, ", ") + "]"}
}

func fixedDims(dims ort.Shape, size int, field string) (ort.Shape, error) {
	switch {
	case len(dims) == 1 && dims[0] == int64(size):
		return ort.NewShape(int64(size)), nil
	case len(dims) == 2 && (dims[0] == 1 || dims[0] < 0) && dims[1] == int64(size):
		return ort.NewShape(1, int64(size)), nil
	}
	return nil, &ModelError{Field: field, Want: "[1 " + strconv.Itoa(size) + "]", Got: formatDims(dims)}
}

func formatDims(dims ort.Shape) string {
	parts := make([]string, len(dims))
	for i, d := range dims {
		parts[i] = strconv.FormatInt(d, 10)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
