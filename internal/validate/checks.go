package validate

import (
	"fmt"
	"strings"

	"github.com/mlOS-foundation/golden-validate/internal/golden"
	"github.com/mlOS-foundation/golden-validate/internal/response"
	"github.com/mlOS-foundation/golden-validate/internal/tensor"
)

// #region dispatch-table

// checkFunc runs one validation kind against a tensor map. full is the
// complete response for kinds that read the metadata envelope.
type checkFunc func(name string, exp golden.Expectation, tensors, full map[string]any) Result

// checks is the closed dispatch table over validation kinds. Unknown
// kinds are rejected at spec-load time, so lookups here cannot miss.
var checks = map[golden.Kind]checkFunc{
	golden.KindOutputShape:          checkOutputShape,
	golden.KindMultiOutputShape:     checkMultiOutputShape,
	golden.KindTopKContains:         checkTopKContains,
	golden.KindTopKLogitsCheck:      checkTopKLogits,
	golden.KindTopKClassMatch:       checkTopKClassMatch,
	golden.KindMLMPrediction:        checkMLMPrediction,
	golden.KindGenerationContains:   checkGenerationContains,
	golden.KindEmbeddingNormalized:  checkEmbeddingNormalized,
	golden.KindEmbeddingSimilarity:  checkEmbeddingSimilarity,
	golden.KindEmbeddingsCompatible: checkEmbeddingsCompatible,
	golden.KindOutputExists:         checkOutputExists,
	golden.KindStatusSuccess:        checkStatusSuccess,
}

// #endregion dispatch-table

// #region shape-checks

func checkOutputShape(name string, exp golden.Expectation, tensors, _ map[string]any) Result {
	outName := exp.Output("logits")
	data, ok := response.Output(tensors, outName)
	if !ok {
		return fail(name, fmt.Sprintf("Output %q not found in response", outName),
			map[string]any{"available_outputs": response.Keys(tensors)})
	}

	actual := tensor.Shape(data)
	details := map[string]any{"actual_shape": actual, "expected_shape": exp.ExpectedShape}
	if tensor.ShapeEqual(actual, exp.ExpectedShape) {
		return pass(name, fmt.Sprintf("Shape matches: %v", actual), details)
	}
	return fail(name, fmt.Sprintf("Shape mismatch: expected %v, got %v", exp.ExpectedShape, actual), details)
}

func checkMultiOutputShape(name string, exp golden.Expectation, tensors, _ map[string]any) Result {
	allPassed := true
	details := map[string]any{}

	for outName, want := range exp.Outputs {
		data, ok := response.Output(tensors, outName)
		if !ok {
			allPassed = false
			details[outName] = map[string]any{"error": "not found"}
			continue
		}
		actual := tensor.Shape(data)
		matched := tensor.ShapeEqual(actual, want.ExpectedShape)
		allPassed = allPassed && matched
		details[outName] = map[string]any{
			"expected": want.ExpectedShape,
			"actual":   actual,
			"passed":   matched,
		}
	}

	if allPassed {
		return pass(name, "All output shapes match", details)
	}
	return fail(name, "Some output shapes mismatch", details)
}

// #endregion shape-checks

// #region top-k-checks

func checkTopKContains(name string, exp golden.Expectation, tensors, _ map[string]any) Result {
	outName := exp.Output("logits")
	k := exp.K(5)

	data, ok := response.Output(tensors, outName)
	if !ok {
		return fail(name, fmt.Sprintf("Output %q not found", outName),
			map[string]any{"available_outputs": response.Keys(tensors)})
	}

	var scores []float64
	var err error
	switch {
	case exp.MaskPosition != nil:
		scores, err = response.VocabAt(data, *exp.MaskPosition, exp.TensorRank)
	case response.Rank(data, exp.TensorRank) >= 3:
		// Causal LM: score the final sequence position.
		scores, err = response.VocabAt(data, -1, exp.TensorRank)
	default:
		scores, err = response.ClassScores(data, exp.TensorRank)
	}
	if err != nil {
		return fail(name, fmt.Sprintf("Output %q: %v", outName, err), nil)
	}

	topK := tensor.Indices(tensor.TopK(scores, k))

	if len(exp.ExpectedClassIndices) == 0 {
		// Label validation needs a tokenizer; report what we found.
		return pass(name, fmt.Sprintf("Got top-%d predictions (label validation requires tokenizer)", k),
			map[string]any{"top_k_indices": topK})
	}

	found := intersect(exp.ExpectedClassIndices, topK)
	details := map[string]any{
		"top_k_indices":    topK,
		"expected_indices": exp.ExpectedClassIndices,
		"found_indices":    found,
	}
	message := fmt.Sprintf("Found %d/%d expected classes in top-%d", len(found), len(exp.ExpectedClassIndices), k)
	if len(found) > 0 {
		return pass(name, message, details)
	}
	return fail(name, message, details)
}

func checkTopKLogits(name string, exp golden.Expectation, tensors, _ map[string]any) Result {
	outName := exp.Output("logits")
	k := exp.K(10)
	pos := -1
	if exp.Position != nil {
		pos = *exp.Position
	}

	data, ok := response.Output(tensors, outName)
	if !ok {
		return fail(name, fmt.Sprintf("Output %q not found", outName),
			map[string]any{"available_outputs": response.Keys(tensors)})
	}

	scores, err := response.VocabAt(data, pos, exp.TensorRank)
	if err != nil {
		return fail(name, fmt.Sprintf("Output %q: %v", outName, err), nil)
	}

	topK := tensor.Indices(tensor.TopK(scores, k))
	found := intersect(exp.ExpectedTokens, topK)
	details := map[string]any{
		"top_k_indices":   topK,
		"expected_tokens": exp.ExpectedTokens,
		"found_tokens":    found,
	}
	if len(found) > 0 {
		return pass(name, fmt.Sprintf("Found expected token(s) in top-%d", k), details)
	}
	return fail(name, fmt.Sprintf("Did not find expected token(s) in top-%d", k), details)
}

func checkTopKClassMatch(name string, exp golden.Expectation, tensors, _ map[string]any) Result {
	outName := exp.Output("output")
	k := exp.K(5)

	if exp.ExpectedClassIndex == nil {
		return fail(name, "No expected_class_index specified in test config", nil)
	}
	expected := *exp.ExpectedClassIndex

	data, ok := response.Output(tensors, outName)
	if !ok {
		return fail(name, fmt.Sprintf("Output %q not found in response", outName),
			map[string]any{"available_outputs": response.Keys(tensors)})
	}

	scores, err := response.ClassScores(data, exp.TensorRank)
	if err != nil {
		return fail(name, "Output is not a list of logits",
			map[string]any{"output_type": fmt.Sprintf("%T", data)})
	}

	ranked := tensor.TopK(scores, k)
	topK := tensor.Indices(ranked)
	topScores := make([]float64, 0, len(ranked))
	for _, r := range ranked {
		topScores = append(topScores, r.Score)
	}
	if len(topScores) > 5 {
		topScores = topScores[:5]
	}

	acceptable := append([]int{expected}, exp.AlternativeClasses...)
	foundClass, rank := firstMatch(acceptable, topK)

	message := fmt.Sprintf("Class %d", expected)
	passed := rank > 0
	switch {
	case passed && foundClass == expected:
		message += fmt.Sprintf(" found at rank %d", rank)
	case passed:
		message += fmt.Sprintf(" not found, but alternative %d at rank %d", foundClass, rank)
	default:
		message += fmt.Sprintf(" not in top-%d", k)
	}

	details := map[string]any{
		"expected_class":      expected,
		"alternative_classes": exp.AlternativeClasses,
		"top_k_indices":       topK,
		"top_k_scores":        topScores,
	}
	if passed {
		details["found_class"] = foundClass
		details["rank"] = rank
		return pass(name, message, details)
	}
	return fail(name, message, details)
}

func checkMLMPrediction(name string, exp golden.Expectation, tensors, _ map[string]any) Result {
	outName := exp.Output("output")
	k := exp.K(10)

	if exp.MaskPosition == nil {
		return fail(name, "No mask_position specified in test config", nil)
	}
	mask := *exp.MaskPosition

	data, ok := response.Output(tensors, outName)
	if !ok {
		return fail(name, fmt.Sprintf("Output %q not found in response", outName),
			map[string]any{"available_outputs": response.Keys(tensors)})
	}

	scores, err := response.VocabAt(data, mask, exp.TensorRank)
	if err != nil {
		return fail(name, "Output is not properly structured for MLM validation", nil)
	}

	topK := tensor.Indices(tensor.TopK(scores, k))
	found := intersect(exp.ExpectedTokenIDs, topK)
	details := map[string]any{
		"mask_position":   mask,
		"expected_tokens": exp.ExpectedTokenIDs,
		"found_tokens":    found,
		"top_k_tokens":    topK,
	}
	message := fmt.Sprintf("Found %d/%d expected tokens in top-%d", len(found), len(exp.ExpectedTokenIDs), k)
	if len(found) > 0 {
		return pass(name, message, details)
	}
	return fail(name, message, details)
}

// #endregion top-k-checks

// #region text-checks

func checkGenerationContains(name string, exp golden.Expectation, tensors, _ map[string]any) Result {
	text, ok := response.Text(tensors)
	if !ok {
		return fail(name, "No generated text found in output",
			map[string]any{"available_keys": response.Keys(tensors)})
	}

	haystack := text
	if exp.Insensitive() {
		haystack = strings.ToLower(text)
	}

	var found []string
	for _, keyword := range exp.ExpectedKeywords {
		needle := keyword
		if exp.Insensitive() {
			needle = strings.ToLower(keyword)
		}
		if strings.Contains(haystack, needle) {
			found = append(found, keyword)
		}
	}

	details := map[string]any{
		"generated_text":    truncate(text, 500),
		"expected_keywords": exp.ExpectedKeywords,
		"found_keywords":    found,
	}
	message := fmt.Sprintf("Found %d/%d keywords in generated text", len(found), len(exp.ExpectedKeywords))
	if len(found) > 0 {
		return pass(name, message, details)
	}
	return fail(name, message, details)
}

// #endregion text-checks

// #region embedding-checks

func checkEmbeddingNormalized(name string, exp golden.Expectation, tensors, _ map[string]any) Result {
	outName := exp.Output("sentence_embedding")

	data, ok := response.Output(tensors, outName)
	if !ok {
		return fail(name, fmt.Sprintf("Output %q not found", outName),
			map[string]any{"available_outputs": response.Keys(tensors)})
	}

	vec, err := response.EmbeddingVector(data, exp.TensorRank)
	if err != nil {
		return fail(name, fmt.Sprintf("Output %q: %v", outName, err), nil)
	}

	norm := tensor.L2Norm(vec)
	want := exp.Norm()
	tol := exp.NormTolerance()
	details := map[string]any{
		"l2_norm":       norm,
		"expected_norm": want,
		"tolerance":     tol,
	}
	message := fmt.Sprintf("L2 norm: %.4f (expected: %g ± %g)", norm, want, tol)
	if diff := norm - want; diff <= tol && diff >= -tol {
		return pass(name, message, details)
	}
	return fail(name, message, details)
}

func checkEmbeddingSimilarity(name string, exp golden.Expectation, tensors, _ map[string]any) Result {
	outName := exp.Output("output")

	if exp.ReferenceEmbedding == nil {
		return fail(name, "No reference_embedding specified in test config", nil)
	}

	data, ok := response.Output(tensors, outName)
	if !ok {
		return fail(name, fmt.Sprintf("Output %q not found in response", outName),
			map[string]any{"available_outputs": response.Keys(tensors)})
	}

	vec, err := response.EmbeddingVector(data, exp.TensorRank)
	if err != nil {
		return fail(name, "Embeddings must be lists of floats", nil)
	}

	sim, err := tensor.CosineSimilarity(vec, exp.ReferenceEmbedding)
	if err != nil {
		return fail(name, fmt.Sprintf("Embedding %v", err),
			map[string]any{"embedding_dim": len(vec), "reference_dim": len(exp.ReferenceEmbedding)})
	}

	min := exp.MinSimilarity()
	details := map[string]any{
		"cosine_similarity": sim,
		"min_threshold":     min,
		"embedding_dim":     len(vec),
	}
	message := fmt.Sprintf("Cosine similarity: %.4f (threshold: %g)", sim, min)
	if sim >= min {
		return pass(name, message, details)
	}
	return fail(name, message, details)
}

func checkEmbeddingsCompatible(name string, exp golden.Expectation, tensors, _ map[string]any) Result {
	textOut := exp.TextOutput
	if textOut == "" {
		textOut = "text_embeds"
	}
	imageOut := exp.ImageOutput
	if imageOut == "" {
		imageOut = "image_embeds"
	}

	var missing []string
	textData, ok := response.Output(tensors, textOut)
	if !ok {
		missing = append(missing, textOut)
	}
	imageData, ok := response.Output(tensors, imageOut)
	if !ok {
		missing = append(missing, imageOut)
	}
	if len(missing) > 0 {
		return fail(name, fmt.Sprintf("Missing outputs: %v", missing),
			map[string]any{"available_outputs": response.Keys(tensors)})
	}

	textShape := tensor.Shape(textData)
	imageShape := tensor.Shape(imageData)
	details := map[string]any{"text_shape": textShape, "image_shape": imageShape}
	if tensor.ShapeEqual(textShape, imageShape) {
		return pass(name, "Embeddings are compatible", details)
	}
	return fail(name, "Embeddings are not compatible", details)
}

// #endregion embedding-checks

// #region presence-checks

func checkOutputExists(name string, exp golden.Expectation, tensors, _ map[string]any) Result {
	outName := exp.Output("output")

	data, ok := response.Output(tensors, outName)
	if !ok {
		return fail(name, fmt.Sprintf("Output %q not found in response", outName),
			map[string]any{"available_keys": response.Keys(tensors)})
	}

	length := 1
	if seq, isList := data.([]any); isList {
		length = len(seq)
	}

	details := map[string]any{
		"output_name":  outName,
		"length":       length,
		"min_expected": exp.MinElements,
	}
	if exp.MinElements > 0 && length < exp.MinElements {
		return fail(name, fmt.Sprintf("Output %q has %d elements, expected >= %d", outName, length, exp.MinElements), details)
	}
	return pass(name, fmt.Sprintf("Output %q found with %d elements", outName, length), details)
}

func checkStatusSuccess(name string, exp golden.Expectation, _, full map[string]any) Result {
	status := response.Status(full)
	size := response.OutputSize(full)

	if status != "success" {
		return fail(name, fmt.Sprintf("Expected status %q, got %q", "success", status),
			map[string]any{"status": status, "message": response.Message(full)})
	}

	if exp.MinOutputSize > 0 && size < exp.MinOutputSize {
		return fail(name, fmt.Sprintf("output_size %d < min_output_size %d", size, exp.MinOutputSize),
			map[string]any{
				"status":          status,
				"output_size":     size,
				"min_output_size": exp.MinOutputSize,
				"model_id":        response.ModelID(full),
			})
	}

	return pass(name, fmt.Sprintf("Status is success, output_size=%d", size),
		map[string]any{
			"status":            status,
			"output_size":       size,
			"min_output_size":   exp.MinOutputSize,
			"model_id":          response.ModelID(full),
			"inference_time_us": response.InferenceTimeUS(full),
		})
}

// #endregion presence-checks

// #region helpers

// intersect keeps the wanted values present in got, preserving wanted order.
func intersect(wanted, got []int) []int {
	gotSet := make(map[int]bool, len(got))
	for _, g := range got {
		gotSet[g] = true
	}
	found := []int{}
	for _, w := range wanted {
		if gotSet[w] {
			found = append(found, w)
		}
	}
	return found
}

// firstMatch returns the first acceptable class present in topK and its
// 1-based rank, or (0, 0) when none match.
func firstMatch(acceptable, topK []int) (class, rank int) {
	for _, cls := range acceptable {
		for i, idx := range topK {
			if idx == cls {
				return cls, i + 1
			}
		}
	}
	return 0, 0
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

// #endregion helpers
