package cmd

import (
	"codex_backend/internal/model"
	"codex_backend/internal/service"
	"codex_backend/internal/util"
	"codex_backend/pkg/logger"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var extensionLanguages = map[string]string{
	".js":   util.LangJavaScript,
	".mjs":  util.LangJavaScript,
	".jsx":  util.LangJavaScript,
	".ts":   util.LangTypeScript,
	".tsx":  util.LangTypeScript,
	".py":   util.LangPython,
	".java": util.LangJava,
	".c":    util.LangC,
	".h":    util.LangC,
	".cpp":  util.LangCPP,
	".cc":   util.LangCPP,
	".hpp":  util.LangCPP,
	".go":   util.LangGo,
	".rs":   util.LangRust,
}

func languageForFile(path string) string {
	return extensionLanguages[strings.ToLower(filepath.Ext(path))]
}

func newAnalyzeCommand(opts *rootOptions) *cobra.Command {
	var (
		file     string
		language string
		output   string
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a source file and print the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != "json" && output != "yaml" {
				return fmt.Errorf("unknown output format %q", output)
			}

			logger.InitLogger(opts.cfg)
			defer logger.Log.Sync()

			code, err := readSource(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}
			if language == "" {
				language = languageForFile(file)
			}
			if language == "" {
				return fmt.Errorf("cannot infer language from %q, use --language", file)
			}

			syntax := service.NewSyntaxService()
			defer syntax.Close()

			analysis := service.NewAnalysisService(service.NewAIService(opts.cfg.AI), syntax)
			result, err := analysis.Analyze(cmd.Context(), code, language)
			if err != nil {
				return err
			}

			return writeResult(cmd.OutOrStdout(), output, result)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "-", "Source file to analyze, - reads stdin")
	cmd.Flags().StringVarP(&language, "language", "l", "", "Source language (default inferred from file extension)")
	cmd.Flags().StringVarP(&output, "output", "o", "json", "Output format: json or yaml")

	return cmd
}

func readSource(stdin io.Reader, file string) (string, error) {
	if file == "" || file == "-" {
		b, err := io.ReadAll(stdin)
		return string(b), err
	}
	b, err := os.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", file, err)
	}
	return string(b), nil
}

func writeResult(w io.Writer, format string, result *model.AnalysisResult) error {
	switch format {
	case "json", "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(result); err != nil {
			enc.Close()
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
