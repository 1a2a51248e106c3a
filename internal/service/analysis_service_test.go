package service

import (
	"codex_backend/internal/model"
	"codex_backend/internal/util"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeModelClient struct {
	out   ModelOutput
	err   error
	calls int
	lang  string
}

func (f *fakeModelClient) Analyze(ctx context.Context, code, language string) (ModelOutput, error) {
	f.calls++
	f.lang = language
	return f.out, f.err
}

type fakeSyntaxChecker struct {
	errs []model.CodeError
}

func (f fakeSyntaxChecker) Check(language, code string) []model.CodeError {
	return f.errs
}

func intPtr(v int) *int { return &v }

func TestAnalysisService_ValidationRejectsBeforeUpstream(t *testing.T) {
	cases := []struct {
		name     string
		code     string
		language string
	}{
		{"empty code", "", "javascript"},
		{"whitespace code", " \n\t ", "javascript"},
		{"missing language", "let a = 1", ""},
		{"unsupported language", "puts 1", "ruby"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := &fakeModelClient{out: &FallbackOutput{Raw: "x"}}
			svc := NewAnalysisService(client, nil)

			_, err := svc.Analyze(context.Background(), tc.code, tc.language)
			assert.ErrorIs(t, err, util.ErrValidation)
			assert.Equal(t, 0, client.calls)
		})
	}
}

func TestAnalysisService_UnsupportedLanguageWrapsBoth(t *testing.T) {
	svc := NewAnalysisService(&fakeModelClient{}, nil)
	_, err := svc.Analyze(context.Background(), "x", "cobol")
	assert.ErrorIs(t, err, util.ErrValidation)
	assert.ErrorIs(t, err, util.ErrUnsupportedLanguage)
}

func TestAnalysisService_LanguageIsNormalized(t *testing.T) {
	client := &fakeModelClient{out: &FallbackOutput{Raw: "x"}}
	svc := NewAnalysisService(client, nil)

	result, err := svc.Analyze(context.Background(), "x := 1", "  Go ")
	require.NoError(t, err)
	assert.Equal(t, "go", client.lang)
	assert.Equal(t, "go", result.Language)
}

func TestAnalysisService_FallbackValues(t *testing.T) {
	client := &fakeModelClient{out: &FallbackOutput{Raw: "the model rambled"}}
	svc := NewAnalysisService(client, nil)

	result, err := svc.Analyze(context.Background(), "for(i=0;i<n;i++){for(j=0;j<n;j++){}}", "javascript")
	require.NoError(t, err)

	assert.Equal(t, "the model rambled", result.Explanation)
	assert.Equal(t, "O(n)", result.Complexity.Time)
	assert.Equal(t, "O(1)", result.Complexity.Space)
	assert.Equal(t, model.Cyclomatic{Value: 5, Rating: model.RatingLow}, result.Complexity.Cyclomatic)
	assert.Equal(t, 75, result.Complexity.QualityScore)
	assert.Equal(t, 3, result.Complexity.Readability)
	assert.Equal(t, 3, result.Complexity.Efficiency)
	assert.Equal(t, 3, result.Complexity.Maintainability)
	assert.NotNil(t, result.Algorithms.Detected)
	assert.Empty(t, result.Algorithms.Detected)
	assert.Empty(t, result.Optimizations)
	assert.Empty(t, result.BestPractices)
	assert.NotNil(t, result.Errors)
	assert.Empty(t, result.Errors)
	assert.Equal(t, "javascript", result.Language)
}

func TestAnalysisService_NormalizesParsedOutput(t *testing.T) {
	client := &fakeModelClient{out: &ParsedOutput{
		Explanation:     "nested loops",
		TimeComplexity:  "O(n^2)",
		Cyclomatic:      &RawCyclomatic{Value: intPtr(14)},
		QualityScore:    intPtr(140),
		Readability:     intPtr(-2),
		Efficiency:      intPtr(2),
		Algorithms:      []RawAlgorithm{{Name: "Brute Force", Confidence: "HIGH"}, {Name: "Scan", Confidence: "sure"}},
		AlgorithmDetail: "double loop",
		Optimizations:   "use a hash map",
		ScoreBreakdown:  map[string]int{"timeComplexity": 15},
	}}
	svc := NewAnalysisService(client, nil)

	result, err := svc.Analyze(context.Background(), "code", "python")
	require.NoError(t, err)

	assert.Equal(t, "nested loops", result.Explanation)
	assert.Equal(t, "O(n^2)", result.Complexity.Time)
	assert.Equal(t, "O(1)", result.Complexity.Space)
	assert.Equal(t, model.Cyclomatic{Value: 14, Rating: model.RatingMedium}, result.Complexity.Cyclomatic)
	assert.Equal(t, 100, result.Complexity.QualityScore)
	assert.Equal(t, 0, result.Complexity.Readability)
	assert.Equal(t, 2, result.Complexity.Efficiency)
	assert.Equal(t, 3, result.Complexity.Maintainability)
	assert.Equal(t, []model.DetectedAlgorithm{
		{Name: "Brute Force", Confidence: model.RatingHigh},
		{Name: "Scan", Confidence: model.RatingMedium},
	}, result.Algorithms.Detected)
	assert.Equal(t, "double loop", result.Algorithms.Details)
	assert.Equal(t, "use a hash map", result.Optimizations)
	assert.Equal(t, "None", result.Security)
}

func TestAnalysisService_EmptyParsedOutputStillHasShape(t *testing.T) {
	svc := NewAnalysisService(&fakeModelClient{out: &ParsedOutput{}}, nil)

	result, err := svc.Analyze(context.Background(), "for(i=0;i<n;i++){for(j=0;j<n;j++){}}", "javascript")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Complexity.Time)
	assert.NotEmpty(t, result.Complexity.Space)
	assert.Equal(t, model.RatingLow, result.Complexity.Cyclomatic.Rating)
	assert.NotNil(t, result.Algorithms.Detected)
	assert.NotNil(t, result.Errors)
}

func TestAnalysisService_UpstreamErrors(t *testing.T) {
	authErr := &AuthOrQuotaError{Err: errors.New("401")}
	svc := NewAnalysisService(&fakeModelClient{err: authErr}, nil)
	_, err := svc.Analyze(context.Background(), "x", "go")
	assert.ErrorIs(t, err, authErr)

	svc = NewAnalysisService(&fakeModelClient{err: errors.New("boom")}, nil)
	_, err = svc.Analyze(context.Background(), "x", "go")
	var adapterErr *AdapterError
	assert.ErrorAs(t, err, &adapterErr)
	assert.True(t, IsUpstreamError(err))
}

func TestAnalysisService_SyntaxErrorsAttached(t *testing.T) {
	col := 3
	syntax := fakeSyntaxChecker{errs: []model.CodeError{{Line: 2, Column: &col, Message: "missing }"}}}
	svc := NewAnalysisService(&fakeModelClient{out: &ParsedOutput{}}, syntax)

	result, err := svc.Analyze(context.Background(), "func main() {", "go")
	require.NoError(t, err)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 2, result.Errors[0].Line)
	assert.Equal(t, "missing }", result.Errors[0].Message)
}

func TestCoerceCode(t *testing.T) {
	assert.Equal(t, "abc", CoerceCode("abc"))
	assert.Equal(t, "", CoerceCode(42.0))
	assert.Equal(t, "", CoerceCode(nil))
	assert.Equal(t, "", CoerceCode([]interface{}{"a"}))
}

func TestAnalysisService_HugeScoresClampToMaximum(t *testing.T) {
	out, err := ParseModelOutput(`{"complexity":{"qualityScore":1e300,"readability":1e30,"cyclomatic":{"value":1e30}}}`)
	require.NoError(t, err)

	svc := NewAnalysisService(&fakeModelClient{out: out}, fakeSyntaxChecker{})
	result, err := svc.Analyze(context.Background(), "x = 1", "python")
	require.NoError(t, err)

	assert.Equal(t, 100, result.Complexity.QualityScore)
	assert.Equal(t, 5, result.Complexity.Readability)
	assert.Equal(t, model.RatingHigh, result.Complexity.Cyclomatic.Rating)
	assert.Greater(t, result.Complexity.Cyclomatic.Value, 20)
}
