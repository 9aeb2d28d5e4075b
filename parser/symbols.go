package parser

import "github.com/GhMicheliM-2004/tascal-compiler-mepa/ast"

// Symbol is an entry in the flat, single-scope symbol table: a name, its
// inferred declaration kind, and its dense storage offset.
type Symbol struct {
	Name   string
	Kind   ast.Kind
	Offset int
}

func (s *Symbol) SymbolName() string    { return s.Name }
func (s *Symbol) SymbolKind() ast.Kind  { return s.Kind }
func (s *Symbol) SymbolOffset() int     { return s.Offset }

// SymbolTable maps declared names to Symbols and assigns each a dense
// offset starting at 0, in declaration order. One SymbolTable belongs to
// exactly one compilation: it is created empty, populated while parsing,
// consulted by the code generator, and then discarded.
type SymbolTable struct {
	symbols    map[string]*Symbol
	nextOffset int
}

// NewSymbolTable creates an empty symbol table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{symbols: make(map[string]*Symbol)}
}

// Declare installs name with the given kind at the next free offset. It
// reports whether name was already present (the caller is responsible
// for emitting the "already declared" diagnostic); on a duplicate, the
// existing symbol is left untouched and no offset is consumed.
func (st *SymbolTable) Declare(name string, kind ast.Kind) (sym *Symbol, duplicate bool) {
	if existing, ok := st.symbols[name]; ok {
		return existing, true
	}
	sym = &Symbol{Name: name, Kind: kind, Offset: st.nextOffset}
	st.symbols[name] = sym
	st.nextOffset++
	return sym, false
}

// Lookup returns the symbol for name, if declared.
func (st *SymbolTable) Lookup(name string) (*Symbol, bool) {
	sym, ok := st.symbols[name]
	return sym, ok
}

// Len returns the number of distinct declared names — Program.TotalVars
// at the end of parsing.
func (st *SymbolTable) Len() int {
	return len(st.symbols)
}

// Ordered returns every declared Symbol sorted by its offset (i.e.
// declaration order), for callers that need to display the table rather
// than just resolve a single name.
func (st *SymbolTable) Ordered() []*Symbol {
	out := make([]*Symbol, len(st.symbols))
	for _, sym := range st.symbols {
		out[sym.Offset] = sym
	}
	return out
}
