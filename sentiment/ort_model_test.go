package sentiment

import (
	"errors"
	"os"
	"testing"

	ort "github.com/yalue/onnxruntime_go"
)

func tensorInfo(name string, dtype ort.TensorElementDataType, dims ...int64) ort.InputOutputInfo {
	return ort.InputOutputInfo{Name: name, DataType: dtype, Dimensions: ort.NewShape(dims...)}
}

func TestCheckSignatureAcceptsReferenceModel(t *testing.T) {
	t.Parallel()

	inputs := []ort.InputOutputInfo{tensorInfo("Features", ort.TensorElementDataTypeInt32, -1, FeatureLength)}
	outputs := []ort.InputOutputInfo{tensorInfo("Prediction/Softmax", ort.TensorElementDataTypeFloat, -1, ClassCount)}
	bound, err := checkSignature(inputs, outputs, ModelConfig{}, FeatureLength, ClassCount)
	if err != nil {
		t.Fatalf("check signature: %v", err)
	}
	if bound.sig.InputName != "Features" || bound.sig.OutputName != "Prediction/Softmax" {
		t.Fatalf("names: %+v", bound.sig)
	}
	if bound.sig.InputLength != FeatureLength || bound.sig.ClassCount != ClassCount {
		t.Fatalf("sizes: %+v", bound.sig)
	}
	if bound.int64In {
		t.Fatalf("int32 input must not be widened")
	}
	if len(bound.inputDims) != 2 || bound.inputDims[0] != 1 || bound.inputDims[1] != FeatureLength {
		t.Fatalf("input dims bound to batch of one: %v", bound.inputDims)
	}
}

func TestCheckSignatureResolvesNames(t *testing.T) {
	t.Parallel()

	inputs := []ort.InputOutputInfo{
		tensorInfo("attention_mask", ort.TensorElementDataTypeInt64, 1, FeatureLength),
		tensorInfo("features", ort.TensorElementDataTypeInt64, 1, FeatureLength),
	}
	outputs := []ort.InputOutputInfo{tensorInfo("probs", ort.TensorElementDataTypeFloat, ClassCount)}
	bound, err := checkSignature(inputs, outputs, ModelConfig{}, FeatureLength, ClassCount)
	if err != nil {
		t.Fatalf("check signature: %v", err)
	}
	if bound.sig.InputName != "features" || !bound.int64In {
		t.Fatalf("expected case-insensitive int64 features input, got %+v", bound.sig)
	}
	if bound.sig.OutputName != "probs" {
		t.Fatalf("single output should be bound: %+v", bound.sig)
	}

	_, err = checkSignature(inputs, outputs, ModelConfig{InputName: "input_ids"}, FeatureLength, ClassCount)
	if !errors.Is(err, ErrModel) {
		t.Fatalf("expected model error for unknown input, got %v", err)
	}
}

func TestCheckSignatureRejectsMismatch(t *testing.T) {
	t.Parallel()

	goodIn := tensorInfo("Features", ort.TensorElementDataTypeInt32, 1, FeatureLength)
	goodOut := tensorInfo("Prediction/Softmax", ort.TensorElementDataTypeFloat, 1, ClassCount)
	cases := []struct {
		name  string
		in    ort.InputOutputInfo
		out   ort.InputOutputInfo
		field string
	}{
		{name: "short input", in: tensorInfo("Features", ort.TensorElementDataTypeInt32, 1, 512), out: goodOut, field: "input shape"},
		{name: "batch of two", in: tensorInfo("Features", ort.TensorElementDataTypeInt32, 2, FeatureLength), out: goodOut, field: "input shape"},
		{name: "float input", in: tensorInfo("Features", ort.TensorElementDataTypeFloat, 1, FeatureLength), out: goodOut, field: "input type"},
		{name: "three classes", in: goodIn, out: tensorInfo("Prediction/Softmax", ort.TensorElementDataTypeFloat, 1, 3), field: "output shape"},
		{name: "int output", in: goodIn, out: tensorInfo("Prediction/Softmax", ort.TensorElementDataTypeInt32, 1, ClassCount), field: "output type"},
	}
	for _, tc := range cases {
		_, err := checkSignature([]ort.InputOutputInfo{tc.in}, []ort.InputOutputInfo{tc.out}, ModelConfig{}, FeatureLength, ClassCount)
		var merr *ModelError
		if !errors.As(err, &merr) {
			t.Fatalf("%s: expected *ModelError, got %v", tc.name, err)
		}
		if merr.Field != tc.field {
			t.Fatalf("%s: field %q want %q", tc.name, merr.Field, tc.field)
		}
	}
}

func TestLoadOrtModelMissingArtifact(t *testing.T) {
	t.Parallel()

	_, err := LoadOrtModel(ModelConfig{ModelPath: "no/such/model.onnx"}, FeatureLength, ClassCount)
	if !errors.Is(err, ErrResource) || !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected resource error wrapping os.ErrNotExist, got %v", err)
	}
	if _, err := LoadOrtModel(ModelConfig{}, FeatureLength, ClassCount); !errors.Is(err, ErrResource) {
		t.Fatalf("expected resource error for empty path, got %v", err)
	}
}

func stubOrtEnv(t *testing.T, initialized bool) (inits, destroys *int) {
	t.Helper()
	origIs, origInit, origDestroy := ortIsInitialized, ortInitialize, ortDestroy
	t.Cleanup(func() {
		ortIsInitialized, ortInitialize, ortDestroy = origIs, origInit, origDestroy
		ortEnvRefs, ortEnvOwned = 0, false
	})
	inits, destroys = new(int), new(int)
	ortIsInitialized = func() bool { return initialized }
	ortInitialize = func(string) error {
		*inits++
		initialized = true
		return nil
	}
	ortDestroy = func() error {
		*destroys++
		initialized = false
		return nil
	}
	return inits, destroys
}

func TestOrtEnvDestroysOnlyOwnEnvironment(t *testing.T) {
	inits, destroys := stubOrtEnv(t, false)
	for range 2 {
		if err := acquireOrtEnv(""); err != nil {
			t.Fatalf("acquire: %v", err)
		}
	}
	releaseOrtEnv()
	if *destroys != 0 {
		t.Fatalf("environment destroyed while still referenced")
	}
	releaseOrtEnv()
	if *inits != 1 || *destroys != 1 {
		t.Fatalf("owned environment: inits=%d destroys=%d", *inits, *destroys)
	}
	releaseOrtEnv()
	if *destroys != 1 {
		t.Fatalf("extra release must be a no-op")
	}
}

func TestOrtEnvLeavesForeignEnvironment(t *testing.T) {
	inits, destroys := stubOrtEnv(t, true)
	if err := acquireOrtEnv("/ignored/libonnxruntime.so"); err != nil {
		t.Fatalf("acquire: %v", err)
	}
	releaseOrtEnv()
	if *inits != 0 || *destroys != 0 {
		t.Fatalf("foreign environment touched: inits=%d destroys=%d", *inits, *destroys)
	}
}

func TestOrtEnvInitFailureIsNotCounted(t *testing.T) {
	stubOrtEnv(t, false)
	ortInitialize = func(string) error { return errors.New("no library") }
	if err := acquireOrtEnv("missing.so"); !errors.Is(err, ErrResource) {
		t.Fatalf("expected resource error, got %v", err)
	}
	if ortEnvRefs != 0 || ortEnvOwned {
		t.Fatalf("failed init must not be counted: refs=%d owned=%t", ortEnvRefs, ortEnvOwned)
	}
}
