package cli

import (
	"context"
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/supplychain/pkg/chain"
	"github.com/matzehuels/supplychain/pkg/errors"
	"github.com/matzehuels/supplychain/pkg/supplychain"
)

var (
	rowSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	rowNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	rowHitStyle      = lipgloss.NewStyle().Foreground(colorGreen)
	statusBarStyle   = lipgloss.NewStyle().Foreground(colorGray).
				BorderStyle(lipgloss.NormalBorder()).BorderTop(true).BorderForeground(colorDim)
	errorLineStyle = lipgloss.NewStyle().Foreground(colorRed)
)

const browseHelp = "↑/↓ move  ⏎ fold  h highlight  g genealogy  c clear  a all  0-9 level  / search  q quit"

// browseCommand creates the browse command.
func (c *CLI) browseCommand() *cobra.Command {
	f := &runFlags{}

	cmd := &cobra.Command{
		Use:   "browse [source]",
		Short: "Explore the grouping tree in the terminal",
		Long: `Browse loads a dataset into a model and shows its grouping tree. Folding,
highlight, genealogy and search act on the model exactly as in the HTTP API,
so the status line reports what an export would show.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := f.options(c, args)
			if err != nil {
				return err
			}
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}
			ctx := cmd.Context()
			runner, store, err := c.newRunner(f.noCache)
			if err != nil {
				return err
			}
			defer store.Close()

			spin := newSpinner(ctx, "Loading "+opts.Source)
			spin.Start()
			data, err := runner.Load(ctx, opts)
			if err == nil {
				spin.SetMessage("Laying out")
				var m *supplychain.Model
				if m, err = runner.Build(ctx, data, opts); err == nil {
					spin.Stop()
					_, err = tea.NewProgram(newBrowseModel(ctx, m), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
					return err
				}
			}
			spin.Stop()
			return err
		},
	}

	f.register(cmd.Flags())
	return cmd
}

// =============================================================================
// browseModel - bubbletea model over a supplychain.Model
// =============================================================================

// treeRow is one line of the flattened grouping tree.
type treeRow struct {
	item  *chain.Item
	depth int
	group bool
}

// opDoneMsg reports the end of a model operation.
type opDoneMsg struct {
	what string
	err  error
}

type browseModel struct {
	ctx   context.Context
	model *supplychain.Model

	rows   []treeRow
	cursor int
	offset int
	height int

	searching bool
	input     string
	busy      bool
	status    string
	err       error
}

func newBrowseModel(ctx context.Context, m *supplychain.Model) browseModel {
	b := browseModel{ctx: ctx, model: m, height: 20}
	b.rows = b.flatten()
	return b
}

// flatten lists the items that are not hidden inside a collapsed group,
// parents before children.
func (b browseModel) flatten() []treeRow {
	data := b.model.Data()
	nested := make(map[chain.ItemID]bool)
	seen := make(map[chain.ItemID]bool)
	var items []*chain.Item
	for _, it := range data.Items {
		if it == nil || seen[it.ID] {
			continue
		}
		seen[it.ID] = true
		items = append(items, it)
		for _, child := range b.model.Children(it.ID) {
			nested[child.ID] = true
		}
	}

	var rows []treeRow
	var walk func(it *chain.Item, depth int)
	walk = func(it *chain.Item, depth int) {
		group := b.model.IsGroupItem(it.ID)
		rows = append(rows, treeRow{item: it, depth: depth, group: group})
		if group && b.model.IsCollapsed(it.ID) {
			return
		}
		for _, child := range b.model.Children(it.ID) {
			walk(child, depth+1)
		}
	}
	for _, it := range items {
		if !nested[it.ID] {
			walk(it, 0)
		}
	}
	return rows
}

func (b browseModel) selected() *chain.Item {
	if b.cursor < 0 || b.cursor >= len(b.rows) {
		return nil
	}
	return b.rows[b.cursor].item
}

func (b browseModel) Init() tea.Cmd { return nil }

// run executes op off the UI goroutine.
func (b browseModel) run(what string, op func(context.Context) error) (browseModel, tea.Cmd) {
	b.busy = true
	b.status = what + "…"
	ctx := b.ctx
	return b, func() tea.Msg { return opDoneMsg{what: what, err: op(ctx)} }
}

func (b browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.height = max(msg.Height-6, 5)
		return b, nil

	case opDoneMsg:
		b.busy = false
		b.err = msg.err
		b.status = msg.what
		id := chain.ItemID("")
		if it := b.selected(); it != nil {
			id = it.ID
		}
		b.rows = b.flatten()
		if i := slices.IndexFunc(b.rows, func(r treeRow) bool { return r.item.ID == id }); i >= 0 {
			b.cursor = i
		}
		b.cursor = min(b.cursor, max(len(b.rows)-1, 0))
		return b.scrolled(), nil

	case tea.KeyMsg:
		if b.searching {
			return b.updateSearch(msg)
		}
		return b.updateKeys(msg)
	}
	return b, nil
}

func (b browseModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter, tea.KeyEsc:
		b.searching = false
		b.model.SetSearchNeedle(b.input)
		b.status = fmt.Sprintf("%d hits for %q", len(b.model.SearchHits()), b.input)
	case tea.KeyBackspace:
		if b.input != "" {
			r := []rune(b.input)
			b.input = string(r[:len(r)-1])
		}
	case tea.KeyRunes, tea.KeySpace:
		b.input += string(msg.Runes)
	}
	return b, nil
}

func (b browseModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "q", "ctrl+c", "esc":
		return b, tea.Quit
	case "up", "k":
		if b.cursor > 0 {
			b.cursor--
		}
		return b.scrolled(), nil
	case "down", "j":
		if b.cursor < len(b.rows)-1 {
			b.cursor++
		}
		return b.scrolled(), nil
	case "/":
		b.searching = true
		b.input = b.model.SearchNeedle()
		return b, nil
	}
	if b.busy {
		return b, nil
	}

	it := b.selected()
	switch key {
	case "enter", " ":
		if it == nil || !b.model.IsGroupItem(it.ID) {
			return b, nil
		}
		return b.run("toggled "+label(it), func(ctx context.Context) error { return b.model.Toggle(ctx, it.ID) })
	case "h":
		if it != nil {
			return b.run("highlighted "+label(it), func(context.Context) error { return b.model.Highlight(it.ID) })
		}
	case "g":
		if it != nil {
			return b.run("genealogy of "+label(it), func(ctx context.Context) error {
				return b.model.ShowGenealogy(ctx, it.ID, false)
			})
		}
	case "c":
		return b.run("cleared highlight", func(context.Context) error {
			b.model.ClearHighlight()
			return nil
		})
	case "a":
		return b.run("expanded all", b.model.ShowAll)
	case "0", "1", "2", "3", "4", "5", "6", "7", "8", "9":
		n := int(key[0] - '0')
		return b.run(fmt.Sprintf("level %d", n), func(ctx context.Context) error { return b.model.ShowLevel(ctx, n) })
	}
	return b, nil
}

func (b browseModel) scrolled() browseModel {
	if b.cursor < b.offset {
		b.offset = b.cursor
	}
	if b.cursor >= b.offset+b.height {
		b.offset = b.cursor - b.height + 1
	}
	return b
}

func label(it *chain.Item) string {
	if it.Name != "" {
		return it.Name
	}
	return it.ID.String()
}

func (b browseModel) View() string {
	var sb strings.Builder
	sb.WriteString(StyleTitle.Render("Supply chain"))
	sb.WriteString("\n")
	sb.WriteString(StyleDim.Render(browseHelp))
	sb.WriteString("\n\n")

	hits := make(map[chain.ItemID]bool)
	for _, id := range b.model.SearchHits() {
		hits[id] = true
	}
	lit := make(map[chain.ItemID]bool)
	for _, id := range b.model.Highlighted() {
		lit[id] = true
	}

	end := min(b.offset+b.height, len(b.rows))
	for i := b.offset; i < end; i++ {
		sb.WriteString(b.renderRow(i, hits, lit))
		sb.WriteString("\n")
	}

	scene := b.model.Scene()
	status := fmt.Sprintf("%d items · %d visible · %d connections drawn",
		len(b.rows), len(scene.Nodes), len(scene.Edges))
	if b.status != "" {
		status += " · " + b.status
	}
	sb.WriteString(statusBarStyle.Render(status))
	if b.searching {
		sb.WriteString("\n/" + b.input + "█")
	}
	if b.err != nil {
		sb.WriteString("\n" + errorLineStyle.Render(errors.UserMessage(b.err)))
	}
	return sb.String()
}

func (b browseModel) renderRow(i int, hits, lit map[chain.ItemID]bool) string {
	r := b.rows[i]
	marker := "  "
	if r.group {
		marker = "▾ "
		if b.model.IsCollapsed(r.item.ID) {
			marker = "▸ "
		}
	}
	text := strings.Repeat("  ", r.depth) + marker + label(r.item)
	if r.item.ClassName != "" {
		text += " " + StyleDim.Render(r.item.ClassName)
	}

	cursor := "  "
	style := rowNormalStyle
	switch {
	case i == b.cursor:
		cursor = "› "
		style = rowSelectedStyle
	case lit[r.item.ID]:
		style = StyleHighlight
	case hits[r.item.ID]:
		style = rowHitStyle
	case r.group:
		style = StyleGroup
	}
	return cursor + style.Render(text)
}
