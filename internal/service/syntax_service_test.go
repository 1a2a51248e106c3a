package service

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyntaxService_CleanSources(t *testing.T) {
	svc := NewSyntaxService()

	sources := map[string]string{
		"go":         "package main\n\nfunc main() {\n\tprintln(1)\n}\n",
		"python":     "def add(a, b):\n    return a + b\n",
		"javascript": "for(i=0;i<n;i++){for(j=0;j<n;j++){}}",
		"typescript": "const x: number = 1;\n",
		"java":       "class A { int f() { return 1; } }\n",
		"rust":       "fn main() { let x = 1; }\n",
	}

	for lang, src := range sources {
		errs := svc.Check(lang, src)
		assert.NotNil(t, errs, lang)
		assert.Empty(t, errs, lang)
	}
}

func TestSyntaxService_ReportsErrors(t *testing.T) {
	svc := NewSyntaxService()

	errs := svc.Check("python", "def add(a, b:\n    return a + b\n")
	require.NotEmpty(t, errs)
	assert.GreaterOrEqual(t, errs[0].Line, 1)
	require.NotNil(t, errs[0].Column)
	assert.GreaterOrEqual(t, *errs[0].Column, 1)
	assert.NotEmpty(t, errs[0].Message)

	errs = svc.Check("go", "package main\n\nfunc main() {\n")
	assert.NotEmpty(t, errs)
}

func TestSyntaxService_UnsupportedLanguages(t *testing.T) {
	svc := NewSyntaxService()

	assert.False(t, svc.Supports("c"))
	assert.False(t, svc.Supports("cpp"))
	assert.True(t, svc.Supports("rust"))

	errs := svc.Check("c", "int main( {")
	assert.NotNil(t, errs)
	assert.Empty(t, errs)
}

func TestSyntaxService_CapsErrorCount(t *testing.T) {
	svc := NewSyntaxService()

	src := ""
	for i := 0; i < 100; i++ {
		src += "def (:\n"
	}
	errs := svc.Check("python", src)
	assert.LessOrEqual(t, len(errs), maxSyntaxErrors)
}

func TestParserPool_BoundedAndReused(t *testing.T) {
	svc := NewSyntaxService()
	defer svc.Close()

	p := newParserPool(svc.pools["go"].lang, 2)
	a, b, c := p.get(), p.get(), p.get()
	require.NotSame(t, a, b)
	require.NotSame(t, b, c)

	p.put(a)
	p.put(b)
	// 池已满，第三个被关闭而不是缓存
	p.put(c)
	assert.Len(t, p.parsers, 2)

	reused := p.get()
	assert.True(t, reused == a || reused == b)
	p.put(reused)

	p.close()
	assert.Empty(t, p.parsers)
}

func TestSyntaxService_ConcurrentChecksKeepPoolBounded(t *testing.T) {
	svc := NewSyntaxService()
	defer svc.Close()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				assert.Empty(t, svc.Check("javascript", "for(i=0;i<n;i++){}"))
			}
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, len(svc.pools["javascript"].parsers), parsersPerLanguage)
}
