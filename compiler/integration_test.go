package compiler_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/GhMicheliM-2004/tascal-compiler-mepa/compiler"
)

func readFixture(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join("..", "testdata", name)
	src, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		t.Skipf("testdata/%s not found", name)
	}
	if err != nil {
		t.Fatalf("failed to read %s: %v", name, err)
	}
	return string(src)
}

func TestCompile_SumIfEvenProducesWellFormedMEPA(t *testing.T) {
	res := compiler.Compile(readFixture(t, "sum_if_even.tas"), nil, nil)

	assert.True(t, res.OK(), "unexpected diagnostics: %+v", res.Diagnostics.All())
	assert.Regexp(t, `^     INPP\n     AMEM \d+\n`, res.MEPA)
	assert.Contains(t, res.MEPA, "     PARA\n     FIM\n")
	assert.True(t, len(res.MEPA) > 0)
}

func TestCompile_CountdownRepeatUsesDSVFBackToLoopHead(t *testing.T) {
	res := compiler.Compile(readFixture(t, "countdown_repeat.tas"), nil, nil)

	assert.True(t, res.OK(), "unexpected diagnostics: %+v", res.Diagnostics.All())
	assert.Contains(t, res.MEPA, "DSVF R01")
}

func TestCompile_UndeclaredVariableFixtureProducesNoOutput(t *testing.T) {
	res := compiler.Compile(readFixture(t, "undeclared_variable.tas"), nil, nil)

	assert.False(t, res.OK())
	assert.Empty(t, res.MEPA)
	assert.NotEmpty(t, res.Diagnostics.Semantic)
}
