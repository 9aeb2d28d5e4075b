// Package inspector provides a read-only terminal browser over a
// compiled program: its token stream, symbol table, and generated MEPA
// listing, laid out side by side. It is grounded on the teacher's
// debugger.TUI (rivo/tview + gdamore/tcell/v2 panel-per-concern
// tview.TextViews), trimmed to a pure viewer — it never mutates the
// compilation it displays and has no effect on the compiler's three
// diagnostic/instruction streams.
package inspector

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/GhMicheliM-2004/tascal-compiler-mepa/compiler"
)

// TUI is the inspector's terminal interface.
type TUI struct {
	App   *tview.Application
	Pages *tview.Pages

	MainLayout *tview.Flex

	TokenView  *tview.TextView
	SymbolView *tview.TextView
	MEPAView   *tview.TextView
	StatusView *tview.TextView
}

// New builds a TUI rendering res. The views are populated once, at
// construction time: there is nothing to refresh, since the underlying
// compilation never changes after Compile returns.
func New(res *compiler.Result) *TUI {
	t := &TUI{App: tview.NewApplication()}
	t.initializeViews()
	t.populate(res)
	t.buildLayout()
	t.setupKeyBindings()
	return t
}

// NewWithScreen builds a TUI the same way New does, but drives app with a
// caller-supplied tcell.Screen instead of the real terminal — the same
// injection point the teacher's debugger TUI tests use, via
// tcell.NewSimulationScreen, to drive a headless tview.Application in tests.
func NewWithScreen(res *compiler.Result, screen tcell.Screen) *TUI {
	t := New(res)
	t.App.SetScreen(screen)
	return t
}

func (t *TUI) initializeViews() {
	t.TokenView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(false)
	t.TokenView.SetBorder(true).SetTitle(" Tokens ")

	t.SymbolView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(false)
	t.SymbolView.SetBorder(true).SetTitle(" Symbols ")

	t.MEPAView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(false)
	t.MEPAView.SetBorder(true).SetTitle(" MEPA ")

	t.StatusView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(false)
	t.StatusView.SetBorder(true).SetTitle(" Status ")
}

func (t *TUI) populate(res *compiler.Result) {
	var toks strings.Builder
	for _, tok := range res.Tokens {
		fmt.Fprintf(&toks, "%-18s %-12q line %d\n", tok.Kind, tok.Literal, tok.Line)
	}
	t.TokenView.SetText(toks.String())

	var syms strings.Builder
	fmt.Fprintf(&syms, "%-16s %-10s %s\n", "name", "kind", "offset")
	for _, sym := range res.Symbols.Ordered() {
		fmt.Fprintf(&syms, "%-16s %-10s %d\n", sym.Name, sym.Kind, sym.Offset)
	}
	t.SymbolView.SetText(syms.String())

	if res.OK() {
		t.MEPAView.SetText(res.MEPA)
		t.StatusView.SetText("[green]compilation succeeded[white]")
	} else {
		var status strings.Builder
		status.WriteString("[red]compilation failed[white]\n")
		for _, d := range res.Diagnostics.All() {
			fmt.Fprintln(&status, d.String())
		}
		t.StatusView.SetText(status.String())
	}
}

func (t *TUI) buildLayout() {
	top := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(t.TokenView, 0, 1, false).
		AddItem(t.SymbolView, 0, 1, false).
		AddItem(t.MEPAView, 0, 2, false)

	t.MainLayout = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(top, 0, 4, false).
		AddItem(t.StatusView, 5, 0, false)

	t.Pages = tview.NewPages().AddPage("main", t.MainLayout, true, true)
}

func (t *TUI) setupKeyBindings() {
	t.App.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyCtrlC, tcell.KeyEscape:
			t.App.Stop()
			return nil
		}
		switch event.Rune() {
		case 'q', 'Q':
			t.App.Stop()
			return nil
		}
		return event
	})
}

// Run blocks until the user quits the inspector (q, Esc, or Ctrl-C).
func (t *TUI) Run() error {
	return t.App.SetRoot(t.Pages, true).SetFocus(t.TokenView).Run()
}

// Stop requests the inspector's event loop to exit.
func (t *TUI) Stop() {
	t.App.Stop()
}
