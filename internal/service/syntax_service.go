package service

import (
	"codex_backend/internal/model"
	"codex_backend/internal/util"
	"fmt"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

const (
	maxSyntaxErrors = 20
	maxSnippetLen   = 40
	// 每种语言最多缓存的空闲 parser 数
	parsersPerLanguage = 8
)

// parserPool 每种语言一个有界池，parser 不能并发使用。
// parser 持有 C 内存且没有 finalizer，放不回池的必须 Close
type parserPool struct {
	lang    *sitter.Language
	parsers chan *sitter.Parser
}

func newParserPool(lang *sitter.Language, size int) *parserPool {
	return &parserPool{lang: lang, parsers: make(chan *sitter.Parser, size)}
}

func (p *parserPool) get() *sitter.Parser {
	select {
	case sp := <-p.parsers:
		return sp
	default:
		sp := sitter.NewParser()
		sp.SetLanguage(p.lang)
		return sp
	}
}

func (p *parserPool) put(sp *sitter.Parser) {
	sp.Reset()
	select {
	case p.parsers <- sp:
	default:
		sp.Close()
	}
}

func (p *parserPool) close() {
	for {
		select {
		case sp := <-p.parsers:
			sp.Close()
		default:
			return
		}
	}
}

// SyntaxService 用 tree-sitter 做本地语法检查，c/cpp 没有语法包时返回空列表
type SyntaxService struct {
	pools map[string]*parserPool
}

func NewSyntaxService() *SyntaxService {
	langs := map[string]*sitter.Language{
		util.LangGo:         sitter.NewLanguage(tree_sitter_go.Language()),
		util.LangJava:       sitter.NewLanguage(tree_sitter_java.Language()),
		util.LangJavaScript: sitter.NewLanguage(tree_sitter_javascript.Language()),
		util.LangPython:     sitter.NewLanguage(tree_sitter_python.Language()),
		util.LangRust:       sitter.NewLanguage(tree_sitter_rust.Language()),
		util.LangTypeScript: sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript()),
	}

	pools := make(map[string]*parserPool, len(langs))
	for name, lang := range langs {
		pools[name] = newParserPool(lang, parsersPerLanguage)
	}
	return &SyntaxService{pools: pools}
}

// Close 释放池中空闲的 parser
func (s *SyntaxService) Close() {
	for _, p := range s.pools {
		p.close()
	}
}

func (s *SyntaxService) Supports(language string) bool {
	_, ok := s.pools[language]
	return ok
}

func (s *SyntaxService) Check(language, code string) []model.CodeError {
	errs := []model.CodeError{}

	p, ok := s.pools[language]
	if !ok {
		return errs
	}

	parser := p.get()
	defer p.put(parser)

	source := []byte(code)
	tree := parser.Parse(source, nil)
	if tree == nil {
		return errs
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil || !root.HasError() {
		return errs
	}

	collectSyntaxErrors(root, source, &errs)
	return errs
}

func collectSyntaxErrors(node *sitter.Node, source []byte, errs *[]model.CodeError) {
	if node == nil || len(*errs) >= maxSyntaxErrors {
		return
	}

	switch {
	case node.IsMissing():
		*errs = append(*errs, newCodeError(node, fmt.Sprintf("missing %s", node.Kind())))
		return
	case node.IsError():
		*errs = append(*errs, newCodeError(node, unexpectedMessage(node, source)))
		return
	case !node.HasError():
		return
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		collectSyntaxErrors(node.Child(i), source, errs)
	}
}

func newCodeError(node *sitter.Node, message string) model.CodeError {
	pos := node.StartPosition()
	column := int(pos.Column) + 1
	return model.CodeError{
		Line:    int(pos.Row) + 1,
		Column:  &column,
		Message: message,
	}
}

func unexpectedMessage(node *sitter.Node, source []byte) string {
	start, end := node.StartByte(), node.EndByte()
	if end > uint(len(source)) || start >= end {
		return "syntax error"
	}

	snippet := string(source[start:end])
	if i := strings.IndexByte(snippet, '\n'); i >= 0 {
		snippet = snippet[:i]
	}
	snippet = strings.TrimSpace(snippet)
	if len(snippet) > maxSnippetLen {
		snippet = snippet[:maxSnippetLen] + "..."
	}
	if snippet == "" {
		return "syntax error"
	}
	return fmt.Sprintf("syntax error near %q", snippet)
}
