package model

// Rating 取值 Low / Medium / High
type Rating string

const (
	RatingLow    Rating = "Low"
	RatingMedium Rating = "Medium"
	RatingHigh   Rating = "High"
)

type Cyclomatic struct {
	Value  int    `json:"value" yaml:"value"`
	Rating Rating `json:"rating" yaml:"rating"`
}

type Complexity struct {
	Time            string     `json:"time" yaml:"time"`
	Space           string     `json:"space" yaml:"space"`
	Cyclomatic      Cyclomatic `json:"cyclomatic" yaml:"cyclomatic"`
	QualityScore    int        `json:"qualityScore" yaml:"qualityScore"`
	Readability     int        `json:"readability" yaml:"readability"`
	Efficiency      int        `json:"efficiency" yaml:"efficiency"`
	Maintainability int        `json:"maintainability" yaml:"maintainability"`
}

type DetectedAlgorithm struct {
	Name       string `json:"name" yaml:"name"`
	Confidence Rating `json:"confidence" yaml:"confidence"`
}

type Algorithms struct {
	Detected []DetectedAlgorithm `json:"detected" yaml:"detected"`
	Details  string              `json:"details" yaml:"details"`
}

// CodeError 语法错误位置，行列均从 1 开始
type CodeError struct {
	Line    int    `json:"line" yaml:"line"`
	Column  *int   `json:"column,omitempty" yaml:"column,omitempty"`
	Message string `json:"message" yaml:"message"`
}

// AnalysisResult 只作为响应返回，不落库
// swagger:model
type AnalysisResult struct {
	Explanation   string      `json:"explanation" yaml:"explanation"`
	Complexity    Complexity  `json:"complexity" yaml:"complexity"`
	Algorithms    Algorithms  `json:"algorithms" yaml:"algorithms"`
	Optimizations string      `json:"optimizations" yaml:"optimizations"`
	BestPractices string      `json:"bestPractices" yaml:"bestPractices"`
	Security      string      `json:"security" yaml:"security"`
	Errors        []CodeError `json:"errors" yaml:"errors"`
	Language      string      `json:"language" yaml:"language"`
}
