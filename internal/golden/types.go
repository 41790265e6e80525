package golden

// #region kind
// Kind identifies one validation check. The set is closed: loading a spec
// with a kind outside this list fails at load time, not at validation time.
type Kind string

const (
	KindOutputShape          Kind = "output_shape"
	KindMultiOutputShape     Kind = "multi_output_shape"
	KindTopKContains         Kind = "top_k_contains"
	KindTopKLogitsCheck      Kind = "top_k_logits_check"
	KindTopKClassMatch       Kind = "top_k_class_match"
	KindMLMPrediction        Kind = "mlm_prediction"
	KindGenerationContains   Kind = "generation_contains"
	KindEmbeddingNormalized  Kind = "embedding_normalized"
	KindEmbeddingSimilarity  Kind = "embedding_similarity"
	KindEmbeddingsCompatible Kind = "embeddings_compatible"
	KindOutputExists         Kind = "output_exists"
	KindStatusSuccess        Kind = "status_success"
)

// Kinds lists every validation kind in a fixed order.
var Kinds = []Kind{
	KindOutputShape,
	KindMultiOutputShape,
	KindTopKContains,
	KindTopKLogitsCheck,
	KindTopKClassMatch,
	KindMLMPrediction,
	KindGenerationContains,
	KindEmbeddingNormalized,
	KindEmbeddingSimilarity,
	KindEmbeddingsCompatible,
	KindOutputExists,
	KindStatusSuccess,
}

// Valid reports whether k is a known validation kind.
func (k Kind) Valid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// #endregion kind

// #region spec
// Spec is the full golden test data document, loaded once and read-only
// for the process lifetime.
type Spec struct {
	Models map[string]ModelSpec `yaml:"models"`
}

// ModelSpec holds the ordered test cases for one model.
type ModelSpec struct {
	Description string     `yaml:"description"`
	TestCases   []TestCase `yaml:"test_cases"`
}

// TestCase pairs a documented input with its expected validation outcome.
// Input is opaque documentation; validation never reads it.
type TestCase struct {
	Name     string      `yaml:"name"`
	Input    any         `yaml:"input"`
	Expected Expectation `yaml:"expected"`
}

// #endregion spec

// #region expectation
// Expectation is the tagged variant keyed by validation_type. Only the
// fields relevant to the declared kind are consulted.
type Expectation struct {
	ValidationType Kind `yaml:"validation_type"`

	// Common tensor addressing
	OutputName string `yaml:"output_name"`
	// TensorRank declares the expected nesting depth of the addressed
	// output so position navigation is structural. Zero means undeclared;
	// the depth heuristic is used as a compatibility fallback.
	TensorRank int `yaml:"tensor_rank"`

	// output_shape / multi_output_shape
	ExpectedShape []int                  `yaml:"expected_shape"`
	Outputs       map[string]ShapeExpect `yaml:"outputs"`

	// top-k family
	TopK                 int   `yaml:"top_k"`
	ExpectedClassIndices []int `yaml:"expected_class_indices"`
	ExpectedClassIndex   *int  `yaml:"expected_class_index"`
	AlternativeClasses   []int `yaml:"alternative_classes"`
	Position             *int  `yaml:"position"`
	ExpectedTokens       []int `yaml:"expected_tokens"`
	MaskPosition         *int  `yaml:"mask_position"`
	ExpectedTokenIDs     []int `yaml:"expected_token_ids"`

	// generation_contains
	ExpectedKeywords []string `yaml:"expected_keywords"`
	CaseInsensitive  *bool    `yaml:"case_insensitive"`

	// embedding family
	ExpectedL2Norm      *float64  `yaml:"expected_l2_norm"`
	Tolerance           *float64  `yaml:"tolerance"`
	ReferenceEmbedding  []float64 `yaml:"reference_embedding"`
	MinCosineSimilarity *float64  `yaml:"min_cosine_similarity"`
	TextOutput          string    `yaml:"text_output"`
	ImageOutput         string    `yaml:"image_output"`

	// output_exists / status_success
	MinElements   int   `yaml:"min_elements"`
	MinOutputSize int64 `yaml:"min_output_size"`
}

// ShapeExpect is the per-output entry of a multi_output_shape check.
type ShapeExpect struct {
	ExpectedShape []int `yaml:"expected_shape"`
}

// #endregion expectation

// #region expectation-defaults

// Output returns the configured output name, or def when unset.
func (e Expectation) Output(def string) string {
	if e.OutputName != "" {
		return e.OutputName
	}
	return def
}

// K returns the configured top-k, or def when unset.
func (e Expectation) K(def int) int {
	if e.TopK > 0 {
		return e.TopK
	}
	return def
}

// Norm returns the expected L2 norm, defaulting to 1.0.
func (e Expectation) Norm() float64 {
	if e.ExpectedL2Norm != nil {
		return *e.ExpectedL2Norm
	}
	return 1.0
}

// NormTolerance returns the L2 norm tolerance, defaulting to 0.01.
func (e Expectation) NormTolerance() float64 {
	if e.Tolerance != nil {
		return *e.Tolerance
	}
	return 0.01
}

// MinSimilarity returns the cosine similarity threshold, defaulting to 0.7.
func (e Expectation) MinSimilarity() float64 {
	if e.MinCosineSimilarity != nil {
		return *e.MinCosineSimilarity
	}
	return 0.7
}

// Insensitive reports whether keyword matching ignores case. Default true.
func (e Expectation) Insensitive() bool {
	if e.CaseInsensitive != nil {
		return *e.CaseInsensitive
	}
	return true
}

// #endregion expectation-defaults
