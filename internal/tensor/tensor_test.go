package tensor

import (
	"math"
	"testing"
)

func TestShapeScalar(t *testing.T) {
	if got := Shape(3.14); len(got) != 0 {
		t.Fatalf("expected empty shape for scalar, got %v", got)
	}
}

func TestShapeNested(t *testing.T) {
	// [2, 3]
	v := []any{
		[]any{1.0, 2.0, 3.0},
		[]any{4.0, 5.0, 6.0},
	}
	got := Shape(v)
	if !ShapeEqual(got, []int{2, 3}) {
		t.Fatalf("expected [2 3], got %v", got)
	}
}

func TestShapeEmptySequence(t *testing.T) {
	got := Shape([]any{})
	if !ShapeEqual(got, []int{0}) {
		t.Fatalf("expected [0], got %v", got)
	}
}

func TestShapeJaggedFollowsIndexZero(t *testing.T) {
	// Jagged: second row longer than first. Shape follows index 0 only.
	v := []any{
		[]any{1.0, 2.0},
		[]any{3.0, 4.0, 5.0},
	}
	got := Shape(v)
	if !ShapeEqual(got, []int{2, 2}) {
		t.Fatalf("expected [2 2] (index-0 path), got %v", got)
	}
	if Regular(v) {
		t.Fatal("jagged tensor should not be regular")
	}
}

func TestRegularOnRectangular(t *testing.T) {
	v := []any{
		[]any{1.0, 2.0, 3.0},
		[]any{4.0, 5.0, 6.0},
	}
	if !Regular(v) {
		t.Fatal("rectangular tensor should be regular")
	}
	if !Regular(7.0) {
		t.Fatal("scalar should be regular")
	}
	if !Regular([]any{}) {
		t.Fatal("empty sequence should be regular")
	}
}

func TestShapeEqualOrderSensitive(t *testing.T) {
	if ShapeEqual([]int{1, 3, 224, 224}, []int{1, 224, 224, 3}) {
		t.Fatal("permuted shapes must not match")
	}
	if ShapeEqual([]int{1, 3}, []int{1, 3, 1}) {
		t.Fatal("shapes of different length must not match")
	}
	if !ShapeEqual([]int{1, 3, 224, 224}, []int{1, 3, 224, 224}) {
		t.Fatal("identical shapes must match")
	}
}

func TestL2Norm(t *testing.T) {
	got := L2Norm([]float64{0.6, 0.8})
	if math.Abs(got-1.0) > 1e-12 {
		t.Fatalf("expected norm 1.0, got %f", got)
	}
	if L2Norm(nil) != 0 {
		t.Fatal("empty vector should have zero norm")
	}
}

func TestCosineSimilaritySymmetricAndBounded(t *testing.T) {
	a := []float64{1.0, 2.0, -3.0}
	b := []float64{-0.5, 4.0, 1.5}

	ab, err := CosineSimilarity(a, b)
	if err != nil {
		t.Fatalf("CosineSimilarity: %v", err)
	}
	ba, err := CosineSimilarity(b, a)
	if err != nil {
		t.Fatalf("CosineSimilarity: %v", err)
	}
	if ab != ba {
		t.Fatalf("expected symmetry, got %f vs %f", ab, ba)
	}
	if ab < -1.0 || ab > 1.0 {
		t.Fatalf("similarity out of bounds: %f", ab)
	}
}

func TestCosineSimilarityIdentical(t *testing.T) {
	a := []float64{0.3, 0.4, 0.5}
	got, err := CosineSimilarity(a, a)
	if err != nil {
		t.Fatalf("CosineSimilarity: %v", err)
	}
	if math.Abs(got-1.0) > 1e-12 {
		t.Fatalf("expected 1.0 for identical vectors, got %f", got)
	}
}

func TestCosineSimilarityZeroNorm(t *testing.T) {
	got, err := CosineSimilarity([]float64{0, 0}, []float64{1, 2})
	if err != nil {
		t.Fatalf("CosineSimilarity: %v", err)
	}
	if got != 0 {
		t.Fatalf("expected 0 for zero-norm vector, got %f", got)
	}
}

func TestCosineSimilarityDimensionMismatch(t *testing.T) {
	if _, err := CosineSimilarity([]float64{1, 2}, []float64{1, 2, 3}); err == nil {
		t.Fatal("expected error on dimension mismatch")
	}
}

func TestTopKDescending(t *testing.T) {
	scores := []float64{0.1, 0.9, 0.05, 0.3, 0.2}
	got := Indices(TopK(scores, 3))
	want := []int{1, 3, 4}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestTopKStableTieBreak(t *testing.T) {
	// Equal scores keep ascending original-index order.
	scores := []float64{0.5, 0.5, 0.5, 0.9}
	got := Indices(TopK(scores, 4))
	want := []int{3, 0, 1, 2}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestTopKTieSetMembershipStable(t *testing.T) {
	// Reordering tied entries must not change top-K set membership when
	// K is clear of the tie boundary.
	a := []float64{0.9, 0.8, 0.1, 0.1}
	b := []float64{0.9, 0.8, 0.1, 0.1}
	gotA := Indices(TopK(a, 2))
	gotB := Indices(TopK(b, 2))
	for i := range gotA {
		if gotA[i] != gotB[i] {
			t.Fatalf("top-K set changed: %v vs %v", gotA, gotB)
		}
	}
}

func TestTopKLargerThanInput(t *testing.T) {
	got := TopK([]float64{0.2, 0.1}, 5)
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
}

func TestFlatCoercion(t *testing.T) {
	got, ok := Flat([]any{1.0, 2, int64(3)})
	if !ok {
		t.Fatal("expected coercion to succeed")
	}
	if len(got) != 3 || got[2] != 3.0 {
		t.Fatalf("unexpected result: %v", got)
	}

	if _, ok := Flat([]any{1.0, "nope"}); ok {
		t.Fatal("expected coercion to fail on non-numeric element")
	}
	if _, ok := Flat("not a list"); ok {
		t.Fatal("expected coercion to fail on non-sequence")
	}
}

func TestFirstRow(t *testing.T) {
	nested := []any{[]any{1.0, 2.0}, []any{3.0, 4.0}}
	row, ok := Flat(FirstRow(nested))
	if !ok || len(row) != 2 || row[0] != 1.0 {
		t.Fatalf("expected first row [1 2], got %v", row)
	}

	flat := []any{1.0, 2.0}
	if got := FirstRow(flat); len(got.([]any)) != 2 {
		t.Fatal("flat vector should pass through unchanged")
	}
}
