package service

import (
	"encoding/json"
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ModelOutput 模型返回结果，只有 *ParsedOutput 和 *FallbackOutput 两种实现
type ModelOutput interface {
	modelOutput()
}

// ParsedOutput 模型返回了合法 JSON 对象。缺失的字符串为空，缺失的数值为 nil
type ParsedOutput struct {
	Explanation     string
	TimeComplexity  string
	SpaceComplexity string
	Cyclomatic      *RawCyclomatic
	QualityScore    *int
	Readability     *int
	Efficiency      *int
	Maintainability *int
	Algorithms      []RawAlgorithm
	AlgorithmDetail string
	Optimizations   string
	BestPractices   string
	Security        string
	ScoreBreakdown  map[string]int
}

type RawCyclomatic struct {
	Value  *int
	Rating string
}

type RawAlgorithm struct {
	Name       string
	Confidence string
}

// FallbackOutput 模型回复无法解析为 JSON，Raw 为原始文本
type FallbackOutput struct {
	Raw string
}

func (*ParsedOutput) modelOutput()   {}
func (*FallbackOutput) modelOutput() {}

var errNotAnObject = errors.New("model reply is not a JSON object")

var (
	jsonFencePattern  = regexp.MustCompile("```json\\n?")
	plainFencePattern = regexp.MustCompile("```\\n?")
)

func stripCodeFences(text string) string {
	text = jsonFencePattern.ReplaceAllString(text, "")
	text = plainFencePattern.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// ParseModelOutput 去掉代码块标记后按 JSON 对象解析，失败时返回 *FallbackOutput
func ParseModelOutput(text string) (ModelOutput, error) {
	var doc map[string]any
	if err := json.Unmarshal([]byte(stripCodeFences(text)), &doc); err != nil {
		return &FallbackOutput{Raw: text}, err
	}
	if doc == nil {
		return &FallbackOutput{Raw: text}, errNotAnObject
	}

	out := &ParsedOutput{
		Explanation:   stringField(doc["explanation"]),
		Optimizations: stringField(doc["optimizations"]),
		BestPractices: stringField(doc["bestPractices"]),
		Security:      stringField(doc["security"]),
	}

	if complexity, ok := doc["complexity"].(map[string]any); ok {
		out.TimeComplexity = stringField(complexity["time"])
		out.SpaceComplexity = stringField(complexity["space"])
		out.Cyclomatic = cyclomaticField(complexity["cyclomatic"])
		out.QualityScore = intField(complexity["qualityScore"])
		out.Readability = intField(complexity["readability"])
		out.Efficiency = intField(complexity["efficiency"])
		out.Maintainability = intField(complexity["maintainability"])
	}

	switch algorithms := doc["algorithms"].(type) {
	case map[string]any:
		out.Algorithms = algorithmList(algorithms["detected"])
		out.AlgorithmDetail = stringField(algorithms["details"])
	case []any:
		out.Algorithms = algorithmList(algorithms)
	}

	if breakdown, ok := doc["scoreBreakdown"].(map[string]any); ok {
		out.ScoreBreakdown = make(map[string]int, len(breakdown))
		for k, v := range breakdown {
			if n := intField(v); n != nil {
				out.ScoreBreakdown[k] = *n
			}
		}
	}

	return out, nil
}

func stringField(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			if s := stringField(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, "\n")
	case map[string]any:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	default:
		return ""
	}
}

var leadingNumber = regexp.MustCompile(`^-?\d+(\.\d+)?`)

func intField(v any) *int {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case string:
		m := leadingNumber.FindString(strings.TrimSpace(t))
		if m == "" {
			return nil
		}
		// 超出范围时 ParseFloat 返回 ±Inf 和 ErrRange，下面会截断
		parsed, err := strconv.ParseFloat(m, 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	// 超出 int 范围的浮点转换结果由平台决定，先截断
	f = math.Max(math.Min(math.Round(f), math.MaxInt32), math.MinInt32)
	n := int(f)
	return &n
}

func cyclomaticField(v any) *RawCyclomatic {
	switch t := v.(type) {
	case map[string]any:
		return &RawCyclomatic{
			Value:  intField(t["value"]),
			Rating: stringField(t["rating"]),
		}
	case float64, string:
		return &RawCyclomatic{Value: intField(t)}
	default:
		return nil
	}
}

func algorithmList(v any) []RawAlgorithm {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	algorithms := make([]RawAlgorithm, 0, len(items))
	for _, item := range items {
		switch t := item.(type) {
		case map[string]any:
			name := stringField(t["name"])
			if name == "" {
				continue
			}
			algorithms = append(algorithms, RawAlgorithm{
				Name:       name,
				Confidence: stringField(t["confidence"]),
			})
		case string:
			if name := strings.TrimSpace(t); name != "" {
				algorithms = append(algorithms, RawAlgorithm{Name: name})
			}
		}
	}
	return algorithms
}
