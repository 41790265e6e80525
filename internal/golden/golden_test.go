package golden

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleYAML = `
models:
  resnet:
    description: "ResNet-50 image classifier"
    test_cases:
      - name: shape_check
        input:
          image: golden/cat.jpg
        expected:
          validation_type: output_shape
          output_name: logits
          expected_shape: [1, 1000]
      - name: class_check
        expected:
          validation_type: top_k_class_match
          output_name: output
          top_k: 5
          expected_class_index: 281
          alternative_classes: [282, 285]
  minilm:
    description: "Sentence embedding model"
    test_cases:
      - name: norm_check
        expected:
          validation_type: embedding_normalized
          output_name: sentence_embedding
          tolerance: 0.02
`

func TestParseSample(t *testing.T) {
	spec, err := Parse([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	names := spec.ModelNames()
	if len(names) != 2 || names[0] != "minilm" || names[1] != "resnet" {
		t.Fatalf("expected sorted [minilm resnet], got %v", names)
	}

	tests := spec.TestCases("resnet")
	if len(tests) != 2 {
		t.Fatalf("expected 2 test cases, got %d", len(tests))
	}
	if tests[0].Name != "shape_check" {
		t.Fatalf("declared order not preserved: %v", tests[0].Name)
	}

	exp := tests[0].Expected
	if exp.ValidationType != KindOutputShape {
		t.Fatalf("expected output_shape, got %s", exp.ValidationType)
	}
	if len(exp.ExpectedShape) != 2 || exp.ExpectedShape[1] != 1000 {
		t.Fatalf("unexpected shape: %v", exp.ExpectedShape)
	}

	cls := tests[1].Expected
	if cls.ExpectedClassIndex == nil || *cls.ExpectedClassIndex != 281 {
		t.Fatalf("expected class index 281, got %v", cls.ExpectedClassIndex)
	}
	if len(cls.AlternativeClasses) != 2 {
		t.Fatalf("expected 2 alternatives, got %v", cls.AlternativeClasses)
	}
}

func TestParseRejectsUnknownKind(t *testing.T) {
	bad := `
models:
  gpt2:
    test_cases:
      - name: weird
        expected:
          validation_type: perplexity_check
`
	if _, err := Parse([]byte(bad)); err == nil {
		t.Fatal("expected error for unknown validation type")
	}
}

func TestParseRejectsDuplicateNames(t *testing.T) {
	bad := `
models:
  gpt2:
    test_cases:
      - name: same
        expected:
          validation_type: status_success
      - name: same
        expected:
          validation_type: output_exists
`
	if _, err := Parse([]byte(bad)); err == nil {
		t.Fatal("expected error for duplicate test name")
	}
}

func TestParseRejectsUnnamedTest(t *testing.T) {
	bad := `
models:
  gpt2:
    test_cases:
      - expected:
          validation_type: status_success
`
	if _, err := Parse([]byte(bad)); err == nil {
		t.Fatal("expected error for unnamed test case")
	}
}

func TestExpectationDefaults(t *testing.T) {
	var e Expectation

	if e.Output("logits") != "logits" {
		t.Fatal("expected output name default")
	}
	if e.K(5) != 5 {
		t.Fatal("expected top-k default")
	}
	if e.Norm() != 1.0 {
		t.Fatal("expected L2 norm default 1.0")
	}
	if e.NormTolerance() != 0.01 {
		t.Fatal("expected tolerance default 0.01")
	}
	if e.MinSimilarity() != 0.7 {
		t.Fatal("expected similarity threshold default 0.7")
	}
	if !e.Insensitive() {
		t.Fatal("keyword matching should default to case-insensitive")
	}

	e.OutputName = "last_hidden_state"
	e.TopK = 3
	no := false
	e.CaseInsensitive = &no
	if e.Output("logits") != "last_hidden_state" || e.K(5) != 3 || e.Insensitive() {
		t.Fatal("configured values should override defaults")
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "golden-test-data.yaml")
	if err := os.WriteFile(path, []byte(sampleYAML), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	spec, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, ok := spec.Model("resnet"); !ok {
		t.Fatal("expected resnet model")
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestKindValid(t *testing.T) {
	for _, k := range Kinds {
		if !k.Valid() {
			t.Fatalf("kind %s should be valid", k)
		}
	}
	if Kind("made_up").Valid() {
		t.Fatal("unknown kind should be invalid")
	}
}
