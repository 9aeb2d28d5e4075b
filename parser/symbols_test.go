package parser_test

import (
	"testing"

	"github.com/GhMicheliM-2004/tascal-compiler-mepa/ast"
	"github.com/GhMicheliM-2004/tascal-compiler-mepa/parser"
)

func TestSymbolTable_DeclareAssignsDenseOffsets(t *testing.T) {
	st := parser.NewSymbolTable()

	names := []string{"x", "y", "z"}
	for i, name := range names {
		sym, dup := st.Declare(name, ast.IntegerKind)
		if dup {
			t.Fatalf("unexpected duplicate for %q", name)
		}
		if sym.Offset != i {
			t.Errorf("offset for %q = %d, want %d", name, sym.Offset, i)
		}
	}
	if st.Len() != len(names) {
		t.Errorf("Len() = %d, want %d", st.Len(), len(names))
	}
}

func TestSymbolTable_DuplicateDeclareDoesNotConsumeOffset(t *testing.T) {
	st := parser.NewSymbolTable()

	first, _ := st.Declare("x", ast.IntegerKind)
	second, dup := st.Declare("x", ast.BooleanKind)

	if !dup {
		t.Fatalf("expected duplicate declaration to be reported")
	}
	if second.Offset != first.Offset || second.Kind != first.Kind {
		t.Errorf("duplicate declaration must return the original symbol unchanged")
	}
	if st.Len() != 1 {
		t.Errorf("Len() = %d, want 1", st.Len())
	}

	third, _ := st.Declare("y", ast.IntegerKind)
	if third.Offset != 1 {
		t.Errorf("offset for 'y' = %d, want 1 (duplicate must not consume an offset)", third.Offset)
	}
}

func TestSymbolTable_LookupMissing(t *testing.T) {
	st := parser.NewSymbolTable()
	if _, ok := st.Lookup("missing"); ok {
		t.Errorf("expected lookup of undeclared name to fail")
	}
}

func TestSymbolTable_OrderedMatchesDeclarationOrder(t *testing.T) {
	st := parser.NewSymbolTable()
	st.Declare("x", ast.IntegerKind)
	st.Declare("y", ast.BooleanKind)
	st.Declare("z", ast.IntegerKind)

	ordered := st.Ordered()
	if len(ordered) != 3 {
		t.Fatalf("Ordered() returned %d symbols, want 3", len(ordered))
	}
	wantNames := []string{"x", "y", "z"}
	for i, want := range wantNames {
		if ordered[i].Name != want {
			t.Errorf("Ordered()[%d].Name = %q, want %q", i, ordered[i].Name, want)
		}
		if ordered[i].Offset != i {
			t.Errorf("Ordered()[%d].Offset = %d, want %d", i, ordered[i].Offset, i)
		}
	}
}
