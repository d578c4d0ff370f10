package cli

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/supplychain/pkg/chain"
	"github.com/matzehuels/supplychain/pkg/pipeline"
)

func browseFixture(t *testing.T) browseModel {
	t.Helper()
	ctx := context.Background()
	data := chain.Data{
		Items: []*chain.Item{
			{ID: "1", Name: "Cu", ParentID: "10"},
			{ID: "2", Name: "Zn", ParentID: "10"},
			{ID: "10", Name: "Metals"},
			{ID: "3", Name: "Brass"},
		},
		Connections: []*chain.Connection{{SourceID: "1", TargetID: "3"}},
	}
	m, err := pipeline.NewRunner(nil, nil, nil).Build(ctx, data, pipeline.Options{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return newBrowseModel(ctx, m)
}

func rowNames(b browseModel) []string {
	var out []string
	for _, r := range b.rows {
		out = append(out, strings.Repeat(".", r.depth)+label(r.item))
	}
	return out
}

// press sends a key and runs the resulting command to completion.
func press(t *testing.T, b browseModel, msg tea.KeyMsg) browseModel {
	t.Helper()
	next, cmd := b.Update(msg)
	b = next.(browseModel)
	if cmd != nil {
		next, _ = b.Update(cmd())
		b = next.(browseModel)
	}
	return b
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func TestBrowseFlatten(t *testing.T) {
	b := browseFixture(t)
	want := "Metals .Cu .Zn Brass"
	if got := strings.Join(rowNames(b), " "); got != want {
		t.Errorf("rows = %q, want %q", got, want)
	}
}

func TestBrowseToggle(t *testing.T) {
	b := browseFixture(t)
	b = press(t, b, tea.KeyMsg{Type: tea.KeyEnter})

	if !b.model.IsCollapsed("10") {
		t.Fatal("IsCollapsed(10) = false after enter on Metals")
	}
	if got := strings.Join(rowNames(b), " "); got != "Metals Brass" {
		t.Errorf("rows = %q, want %q", got, "Metals Brass")
	}
	if b.selected().ID != "10" {
		t.Errorf("cursor on %s, want 10", b.selected().ID)
	}

	b = press(t, b, runes("a"))
	if len(b.rows) != 4 {
		t.Errorf("len(rows) after show all = %d, want 4", len(b.rows))
	}
}

func TestBrowseSearchAndHighlight(t *testing.T) {
	b := browseFixture(t)
	b = press(t, b, runes("/"))
	for _, r := range "brass" {
		b = press(t, b, runes(string(r)))
	}
	b = press(t, b, tea.KeyMsg{Type: tea.KeyEnter})
	if got := b.model.SearchHits(); len(got) != 1 || got[0] != "3" {
		t.Errorf("SearchHits() = %v, want [3]", got)
	}

	b = press(t, b, runes("j"))
	b = press(t, b, runes("h"))
	if !b.model.CanClearHighlight() {
		t.Error("CanClearHighlight() = false after h on Cu")
	}
	b = press(t, b, runes("c"))
	if b.model.CanClearHighlight() {
		t.Error("CanClearHighlight() = true after c")
	}
	if !strings.Contains(b.View(), "Brass") {
		t.Error("View() does not list Brass")
	}
}

func TestBrowseLevelKey(t *testing.T) {
	b := browseFixture(t)
	b = press(t, b, runes("0"))
	if !b.model.IsCollapsed("10") {
		t.Error("IsCollapsed(10) = false after level 0")
	}
}
