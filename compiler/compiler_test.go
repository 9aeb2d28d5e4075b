package compiler_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/GhMicheliM-2004/tascal-compiler-mepa/compiler"
	"github.com/GhMicheliM-2004/tascal-compiler-mepa/config"
	"github.com/GhMicheliM-2004/tascal-compiler-mepa/diag"
)

func TestCompile_ScenarioA_TrivialProgram(t *testing.T) {
	res := compiler.Compile("program p; begin end.", nil, nil)

	assert.True(t, res.OK())
	assert.Equal(t, "     INPP\n     PARA\n     FIM\n", res.MEPA)
}

func TestCompile_ScenarioB_AssignmentAndWrite(t *testing.T) {
	src := "program p; var x: integer; begin x := 3 + 4; write(x) end."
	res := compiler.Compile(src, nil, nil)

	assert.True(t, res.OK())
	wantLines := []string{
		"     INPP",
		"     AMEM 1",
		"     CRCT 3",
		"     CRCT 4",
		"     SOMA",
		"     ARMZ 0,0",
		"     CRVL 0,0",
		"     IMPR",
		"     PARA",
		"     FIM",
	}
	assert.Equal(t, strings.Join(wantLines, "\n")+"\n", res.MEPA)
}

func TestCompile_ScenarioC_IfElseAndWhile(t *testing.T) {
	src := `program p; var x,y: integer;
begin
  read(x);
  y := 0;
  while x > 0 do begin y := y + x; x := x - 1 end;
  if y = 0 then write(y) else write(x)
end.`
	res := compiler.Compile(src, nil, nil)

	assert.True(t, res.OK(), "unexpected diagnostics: %+v", res.Diagnostics.All())

	labelDefCount := strings.Count(res.MEPA, ": NADA")
	assert.Equal(t, 4, labelDefCount, "expected exactly 4 fresh labels R01..R04, each defined once")

	whileHead := strings.Index(res.MEPA, "R01: NADA")
	whileBodyMarker := strings.Index(res.MEPA, "CRVL 0,1") // y loaded inside the while body
	assert.True(t, whileHead != -1 && whileHead < whileBodyMarker,
		"while loop head label must precede its body")

	dsvsIdx := strings.Index(res.MEPA, "DSVS")
	elseLabelIdx := strings.Index(res.MEPA, "R03: NADA")
	assert.True(t, dsvsIdx != -1 && elseLabelIdx != -1 && dsvsIdx < elseLabelIdx,
		"the else label must appear after a DSVS jumping over it")
}

func TestCompile_ScenarioD_UndeclaredVariable(t *testing.T) {
	res := compiler.Compile("program p; begin x := 1 end.", nil, nil)

	assert.False(t, res.OK())
	assert.Empty(t, res.MEPA)
	assert.Len(t, res.Diagnostics.Semantic, 1)
	assert.Equal(t, "variável 'x' não declarada", res.Diagnostics.Semantic[0].Message)
}

func TestCompile_ScenarioE_TypeMismatch(t *testing.T) {
	res := compiler.Compile("program p; var b: boolean; begin b := 1 + 2 end.", nil, nil)

	assert.False(t, res.OK())
	assert.Empty(t, res.MEPA)
	assert.Len(t, res.Diagnostics.Semantic, 1)
	assert.Contains(t, res.Diagnostics.Semantic[0].Message, "atribuição incompatível")
}

func TestCompile_ScenarioF_NonBooleanCondition(t *testing.T) {
	res := compiler.Compile("program p; var x: integer; begin if x then write(x) end.", nil, nil)

	assert.False(t, res.OK())
	assert.Empty(t, res.MEPA)
	assert.Len(t, res.Diagnostics.Semantic, 1)
	assert.Equal(t, "condição deve ser booleana", res.Diagnostics.Semantic[0].Message)
}

func TestCompile_OnDiagnosticCallbackFiresAtDetectionTime(t *testing.T) {
	var seen []string
	res := compiler.Compile("program p; begin x := 1 end.", nil, func(d diag.Diagnostic) {
		seen = append(seen, d.Message)
	})
	assert.False(t, res.OK())
	assert.Equal(t, []string{"variável 'x' não declarada"}, seen)
}

func TestCompile_DeterministicAcrossRepeatedCalls(t *testing.T) {
	src := "program p; var x: integer; begin x := 3 + 4; write(x) end."
	first := compiler.Compile(src, nil, nil)
	second := compiler.Compile(src, nil, nil)
	assert.Equal(t, first.MEPA, second.MEPA)
}

func TestCompile_ConfigLabelPrefixReachesGeneratedLabels(t *testing.T) {
	src := "program p; var x: integer; begin x := 1; while x > 0 do x := x - 1 end."

	cfg := config.DefaultConfig()
	cfg.Codegen.LabelPrefix = "L"
	res := compiler.Compile(src, cfg, nil)

	assert.True(t, res.OK(), "unexpected diagnostics: %+v", res.Diagnostics.All())
	assert.Contains(t, res.MEPA, "L01: NADA")
	assert.NotContains(t, res.MEPA, "R01: NADA")
}

func TestCompile_DeclarationOffsetsAreDenseAndSequential(t *testing.T) {
	src := "program p; var a, b, c: integer; begin a := 1 end."
	res := compiler.Compile(src, nil, nil)
	assert.True(t, res.OK())
	assert.Equal(t, 3, res.Program.TotalVars)
	for i, name := range []string{"a", "b", "c"} {
		sym, ok := res.Symbols.Lookup(name)
		assert.True(t, ok)
		assert.Equal(t, i, sym.Offset)
	}
}
