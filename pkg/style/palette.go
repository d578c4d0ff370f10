package style

import (
	"strconv"
	"sync"
)

// PaletteSize is the number of distinct group background classes.
const PaletteSize = 16

// Palette assigns background classes to group ids in first-seen order,
// cycling after [PaletteSize] groups.
//
// A Palette belongs to one diagram. Reset it when the diagram's data is
// replaced so class assignment does not grow without bound.
type Palette struct {
	mu       sync.Mutex
	assigned map[string]string
}

// NewPalette returns an empty palette.
func NewPalette() *Palette {
	return &Palette{assigned: make(map[string]string)}
}

// Class returns the background class for items whose parent is parentID.
// Root items (empty parentID) get no class.
func (p *Palette) Class(parentID string) string {
	if parentID == "" {
		return ""
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if c, ok := p.assigned[parentID]; ok {
		return c
	}
	c := "background" + strconv.Itoa(len(p.assigned)%PaletteSize+1)
	p.assigned[parentID] = c
	return c
}

// Len returns the number of group ids assigned so far.
func (p *Palette) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.assigned)
}

// Reset forgets every assignment.
func (p *Palette) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	clear(p.assigned)
}
