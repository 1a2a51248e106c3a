package util

import "strings"

const (
	TimeFormat = "2006-01-02 15:04:05"
)

// 支持分析的语言，与前端语言选择器保持一致
const (
	LangJavaScript = "javascript"
	LangTypeScript = "typescript"
	LangPython     = "python"
	LangJava       = "java"
	LangCPP        = "cpp"
	LangC          = "c"
	LangGo         = "go"
	LangRust       = "rust"
)

var SupportedLanguages = []string{
	LangJavaScript,
	LangTypeScript,
	LangPython,
	LangJava,
	LangCPP,
	LangC,
	LangGo,
	LangRust,
}

func IsSupportedLanguage(lang string) bool {
	for _, l := range SupportedLanguages {
		if l == lang {
			return true
		}
	}
	return false
}

// NormalizeLanguage 去除空白并转小写
func NormalizeLanguage(lang string) string {
	return strings.ToLower(strings.TrimSpace(lang))
}
