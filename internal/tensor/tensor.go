package tensor

import (
	"fmt"
	"math"
	"sort"
)

// #region shape
// Shape returns the per-dimension lengths of a nested sequence by taking
// len(current) and descending into element 0 until a non-sequence or an
// empty sequence is reached. A scalar yields an empty shape. Only the
// index-0 path is inspected; tensors are assumed rectangular.
func Shape(v any) []int {
	shape := []int{}
	current := v
	for {
		seq, ok := current.([]any)
		if !ok {
			break
		}
		shape = append(shape, len(seq))
		if len(seq) == 0 {
			break
		}
		current = seq[0]
	}
	return shape
}

// Regular reports whether a nested sequence is rectangular: every sibling
// at each depth has the same length. Scalars and empty sequences are
// regular. Shape is only trustworthy when Regular holds.
func Regular(v any) bool {
	seq, ok := v.([]any)
	if !ok {
		return true
	}
	if len(seq) == 0 {
		return true
	}
	want := Shape(seq[0])
	for _, elem := range seq {
		got := Shape(elem)
		if len(got) != len(want) {
			return false
		}
		for i := range got {
			if got[i] != want[i] {
				return false
			}
		}
		if !Regular(elem) {
			return false
		}
	}
	return true
}

// ShapeEqual compares two shapes element-for-element, including length.
func ShapeEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// #endregion shape

// #region numeric-coercion
// Number coerces a decoded scalar into float64. JSON decoding produces
// float64, YAML decoding produces int or float64.
func Number(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	default:
		return 0, false
	}
}

// Flat coerces a decoded 1-D sequence into a float64 slice.
func Flat(v any) ([]float64, bool) {
	seq, ok := v.([]any)
	if !ok {
		return nil, false
	}
	out := make([]float64, len(seq))
	for i, elem := range seq {
		n, ok := Number(elem)
		if !ok {
			return nil, false
		}
		out[i] = n
	}
	return out, true
}

// FirstRow strips one batch dimension: if v is a sequence whose first
// element is itself a sequence, the first element is returned.
func FirstRow(v any) any {
	seq, ok := v.([]any)
	if !ok || len(seq) == 0 {
		return v
	}
	if _, nested := seq[0].([]any); nested {
		return seq[0]
	}
	return v
}

// #endregion numeric-coercion

// #region scorers
// L2Norm computes sqrt(sum of squares) over a flat vector.
func L2Norm(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// CosineSimilarity computes dot(a,b)/(|a||b|). Returns 0 when either norm
// is zero. A length mismatch is an error, not a panic.
func CosineSimilarity(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("dimension mismatch: %d vs %d", len(a), len(b))
	}
	var dot float64
	for i := range a {
		dot += a[i] * b[i]
	}
	normA := L2Norm(a)
	normB := L2Norm(b)
	if normA == 0 || normB == 0 {
		return 0, nil
	}
	return dot / (normA * normB), nil
}

// #endregion scorers

// #region top-k
// Ranked pairs a score with its original index.
type Ranked struct {
	Index int
	Score float64
}

// TopK returns the k highest-scoring entries sorted descending by score.
// Ties keep ascending original-index order (stable sort). k larger than
// the input returns every entry.
func TopK(scores []float64, k int) []Ranked {
	ranked := make([]Ranked, len(scores))
	for i, s := range scores {
		ranked[i] = Ranked{Index: i, Score: s}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	if k < len(ranked) {
		ranked = ranked[:k]
	}
	return ranked
}

// Indices projects the index column of a ranking.
func Indices(ranked []Ranked) []int {
	out := make([]int, len(ranked))
	for i, r := range ranked {
		out[i] = r.Index
	}
	return out
}

// #endregion top-k
