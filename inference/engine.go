package inference

import (
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
	"gonum.org/v1/gonum/floats"
)

// Result is one inference outcome.
type Result struct {
	Class      int
	ClassName  string
	Confidence float64
}

// Predictor is what the HTTP layer needs from the inference stack.
type Predictor interface {
	Predict(contents []byte, contentType string) (Result, error)
}

// Engine wraps a loaded ONNX classifier together with its class mapping.
// Constructed once at startup and immutable afterwards, except for the
// pre-allocated session tensors which the mutex guards.
type Engine struct {
	mu           sync.Mutex
	session      *ort.AdvancedSession
	inputTensor  *ort.Tensor[float32]
	outputTensor *ort.Tensor[float32]
	classes      ClassMapping
	inputSize    int
}

// NewEngine creates an inference engine from a model file and its class
// mapping. inputSize is the square input edge the model was trained on.
func NewEngine(modelPath string, classes ClassMapping, inputSize int) (*Engine, error) {
	if classes.Len() == 0 {
		return nil, fmt.Errorf("class mapping is empty")
	}
	if err := ort.InitializeEnvironment(); err != nil {
		return nil, fmt.Errorf("initialize onnx environment: %w", err)
	}

	inputShape := ort.NewShape(1, 3, int64(inputSize), int64(inputSize))
	outputShape := ort.NewShape(1, int64(classes.Len()))

	inputTensor, err := ort.NewEmptyTensor[float32](inputShape)
	if err != nil {
		return nil, fmt.Errorf("create input tensor: %w", err)
	}

	outputTensor, err := ort.NewEmptyTensor[float32](outputShape)
	if err != nil {
		inputTensor.Destroy()
		return nil, fmt.Errorf("create output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(modelPath,
		[]string{"input"}, []string{"output"},
		[]ort.ArbitraryTensor{inputTensor},
		[]ort.ArbitraryTensor{outputTensor},
		nil)
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return nil, fmt.Errorf("create onnx session: %w", err)
	}

	return &Engine{
		session:      session,
		inputTensor:  inputTensor,
		outputTensor: outputTensor,
		classes:      classes,
		inputSize:    inputSize,
	}, nil
}

// Classes returns the class mapping the engine was loaded with.
func (e *Engine) Classes() ClassMapping {
	return e.classes
}

// Predict preprocesses the upload bytes and runs the model. The forward pass
// is blocking and is not cancelled on client disconnect.
func (e *Engine) Predict(contents []byte, contentType string) (Result, error) {
	data, err := Preprocess(contents, contentType, e.inputSize)
	if err != nil {
		return Result{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	copy(e.inputTensor.GetData(), data)
	if err := e.session.Run(); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrInference, err)
	}

	return decide(e.outputTensor.GetData(), e.classes)
}

// decide picks the predicted class from the model's output probability
// distribution: confidence is the maximum value, class the first index
// attaining it.
func decide(probs []float32, classes ClassMapping) (Result, error) {
	if len(probs) != classes.Len() {
		return Result{}, fmt.Errorf("%w: model output has %d values for %d classes", ErrInference, len(probs), classes.Len())
	}

	v := make([]float64, len(probs))
	for i, p := range probs {
		v[i] = float64(p)
	}

	idx := floats.MaxIdx(v)
	confidence := v[idx]
	if confidence < 0 || confidence > 1 {
		return Result{}, fmt.Errorf("%w: confidence %v outside [0,1]", ErrInference, confidence)
	}

	name, _ := classes.Name(idx)
	return Result{Class: idx, ClassName: name, Confidence: confidence}, nil
}

// Close releases the ONNX session and tensors.
func (e *Engine) Close() {
	if e.inputTensor != nil {
		e.inputTensor.Destroy()
	}
	if e.outputTensor != nil {
		e.outputTensor.Destroy()
	}
	if e.session != nil {
		e.session.Destroy()
	}
	_ = ort.DestroyEnvironment()
}
