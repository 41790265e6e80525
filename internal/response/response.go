package response

import (
	"fmt"
	"sort"

	"github.com/mlOS-foundation/golden-validate/internal/tensor"
)

// #region shape-kind

// Shape classifies which of the three response forms the serving stack
// returned: a metadata envelope, a metadata envelope carrying tensor
// outputs, or a bare output-name → tensor map.
type Shape string

const (
	ShapeMetadataOnly Shape = "metadata_only"
	ShapeWithTensors  Shape = "metadata_with_tensors"
	ShapeRawTensor    Shape = "raw_tensor"
)

// metadataKeys are the envelope fields the serving core always reports.
var metadataKeys = []string{"status", "model_id", "inference_time_us", "output_size"}

// #endregion shape-kind

// #region classify

// HasMetadata reports whether any core envelope key is present.
func HasMetadata(resp map[string]any) bool {
	for _, key := range metadataKeys {
		if _, ok := resp[key]; ok {
			return true
		}
	}
	return false
}

// HasTensorOutputs reports whether the response carries an "outputs"
// mapping with raw tensor data.
func HasTensorOutputs(resp map[string]any) bool {
	_, ok := resp["outputs"].(map[string]any)
	return ok
}

// Classify decides the response form. Tensor outputs win over the
// metadata envelope; a response with neither is treated as a raw
// tensor map.
func Classify(resp map[string]any) Shape {
	if HasTensorOutputs(resp) {
		return ShapeWithTensors
	}
	if HasMetadata(resp) {
		return ShapeMetadataOnly
	}
	return ShapeRawTensor
}

// TensorData unwraps the "outputs" mapping when present, otherwise the
// response itself is the tensor map.
func TensorData(resp map[string]any) map[string]any {
	if outputs, ok := resp["outputs"].(map[string]any); ok {
		return outputs
	}
	return resp
}

// #endregion classify

// #region output-lookup

// Output locates a named output in a tensor map.
func Output(tensors map[string]any, name string) (any, bool) {
	v, ok := tensors[name]
	return v, ok
}

// Keys returns the tensor map's output names, sorted for diagnostics.
func Keys(tensors map[string]any) []string {
	keys := make([]string, 0, len(tensors))
	for k := range tensors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// textFields is the preference order for locating generated text.
var textFields = []string{"generated_text", "text", "output", "response", "content"}

// Text finds the first generated-text field in a response. List values
// collapse to their first element.
func Text(resp map[string]any) (string, bool) {
	for _, key := range textFields {
		v, ok := resp[key]
		if !ok {
			continue
		}
		if seq, isList := v.([]any); isList {
			if len(seq) == 0 {
				return "", true
			}
			v = seq[0]
		}
		return fmt.Sprintf("%v", v), true
	}
	return "", false
}

// #endregion output-lookup

// #region metadata-accessors

// Status returns the envelope status field, empty when absent.
func Status(resp map[string]any) string {
	s, _ := resp["status"].(string)
	return s
}

// ModelID returns the envelope model id, "unknown" when absent.
func ModelID(resp map[string]any) string {
	if s, ok := resp["model_id"].(string); ok {
		return s
	}
	return "unknown"
}

// InferenceTimeUS returns the reported inference time in microseconds.
func InferenceTimeUS(resp map[string]any) int64 {
	n, _ := tensor.Number(resp["inference_time_us"])
	return int64(n)
}

// OutputSize returns the reported serialized output size in bytes.
func OutputSize(resp map[string]any) int64 {
	n, _ := tensor.Number(resp["output_size"])
	return int64(n)
}

// Message returns the envelope error message, empty when absent.
func Message(resp map[string]any) string {
	s, _ := resp["message"].(string)
	return s
}

// #endregion metadata-accessors

// #region navigation

// Rank resolves the nesting depth to navigate by: a declared rank from
// the golden spec wins; otherwise the observed depth of the value is
// used as a compatibility fallback.
func Rank(v any, declared int) int {
	if declared > 0 {
		return declared
	}
	return len(tensor.Shape(v))
}

// VocabAt navigates a logit-style output to the score vector at a
// sequence position. pos < 0 selects the final position (causal LM);
// an out-of-range pos clamps to the final position. Rank 3 is
// [batch, seq, vocab], rank 2 is [seq|batch, vocab], rank 1 is already
// the vocabulary vector.
func VocabAt(v any, pos, declared int) ([]float64, error) {
	rank := Rank(v, declared)
	switch {
	case rank >= 3:
		batch, ok := v.([]any)
		if !ok || len(batch) == 0 {
			return nil, fmt.Errorf("expected batched output, got %T", v)
		}
		seq, ok := batch[0].([]any)
		if !ok || len(seq) == 0 {
			return nil, fmt.Errorf("expected sequence dimension, got %T", batch[0])
		}
		row := seq[len(seq)-1]
		if pos >= 0 && pos < len(seq) {
			row = seq[pos]
		}
		scores, ok := tensor.Flat(row)
		if !ok {
			return nil, fmt.Errorf("position %d is not a numeric vector", pos)
		}
		return scores, nil
	case rank == 2:
		rows, ok := v.([]any)
		if !ok || len(rows) == 0 {
			return nil, fmt.Errorf("expected nested output, got %T", v)
		}
		row := rows[len(rows)-1]
		if pos >= 0 && pos < len(rows) {
			row = rows[pos]
		}
		scores, ok := tensor.Flat(row)
		if !ok {
			return nil, fmt.Errorf("position %d is not a numeric vector", pos)
		}
		return scores, nil
	default:
		scores, ok := tensor.Flat(v)
		if !ok {
			return nil, fmt.Errorf("output is not a numeric vector")
		}
		return scores, nil
	}
}

// ClassScores navigates a classification output to its score vector:
// nested outputs contribute their first batch row.
func ClassScores(v any, declared int) ([]float64, error) {
	rank := Rank(v, declared)
	if rank >= 2 {
		v = tensor.FirstRow(v)
		for r := rank - 1; r >= 2; r-- {
			v = tensor.FirstRow(v)
		}
	}
	scores, ok := tensor.Flat(v)
	if !ok {
		return nil, fmt.Errorf("output is not a list of scores")
	}
	return scores, nil
}

// EmbeddingVector navigates an embedding output to a flat vector:
// [batch, hidden] takes the first row, [batch, seq, hidden] takes the
// first sequence position (CLS token).
func EmbeddingVector(v any, declared int) ([]float64, error) {
	rank := Rank(v, declared)
	for r := rank; r > 1; r-- {
		seq, ok := v.([]any)
		if !ok || len(seq) == 0 {
			break
		}
		if _, nested := seq[0].([]any); !nested {
			break
		}
		v = seq[0]
	}
	vec, ok := tensor.Flat(v)
	if !ok {
		return nil, fmt.Errorf("output is not a numeric embedding")
	}
	return vec, nil
}

// #endregion navigation
