package style

import "testing"

func TestEdgeResolve(t *testing.T) {
	got := Edge{Stroke: "red"}.Resolve()
	if got.Thickness != DefaultEdgeThickness {
		t.Errorf("Resolve().Thickness = %v, want %v", got.Thickness, DefaultEdgeThickness)
	}
	if got.TargetArrow.Type != ArrowTriangle {
		t.Errorf("Resolve().TargetArrow.Type = %q, want %q", got.TargetArrow.Type, ArrowTriangle)
	}
	if got.TargetArrow.Color != "red" {
		t.Errorf("Resolve().TargetArrow.Color = %q, want red", got.TargetArrow.Color)
	}
}

func TestEdgeHidden(t *testing.T) {
	e := DefaultEdge()
	h := e.Hidden()
	if !h.IsHidden() {
		t.Error("Hidden().IsHidden() = false, want true")
	}
	if e.IsHidden() {
		t.Error("Hidden() modified the receiver")
	}
	if h.Thickness != e.Thickness {
		t.Errorf("Hidden().Thickness = %v, want %v", h.Thickness, e.Thickness)
	}
}

func TestLabelFor(t *testing.T) {
	tests := []struct {
		shape     LabelShape
		class     string
		wantShape LabelShape
		wantClass string
	}{
		{"", "", ShapeRoundRectangle, labelClass},
		{ShapePill, "big", ShapePill, labelClass + " big"},
	}
	for _, tt := range tests {
		got := LabelFor(tt.shape, tt.class)
		if got.Shape != tt.wantShape || got.ClassName != tt.wantClass {
			t.Errorf("LabelFor(%q, %q) = %+v, want shape %q class %q", tt.shape, tt.class, got, tt.wantShape, tt.wantClass)
		}
	}
}

func TestPalette(t *testing.T) {
	p := NewPalette()
	if got := p.Class(""); got != "" {
		t.Errorf("Class(\"\") = %q, want empty", got)
	}
	if got := p.Class("10"); got != "background1" {
		t.Errorf("Class(10) = %q, want background1", got)
	}
	if got := p.Class("20"); got != "background2" {
		t.Errorf("Class(20) = %q, want background2", got)
	}
	if got := p.Class("10"); got != "background1" {
		t.Errorf("Class(10) again = %q, want background1", got)
	}
	for i := range PaletteSize {
		p.Class("g" + string(rune('a'+i)))
	}
	if got := p.Len(); got != PaletteSize+2 {
		t.Errorf("Len() = %d, want %d", got, PaletteSize+2)
	}
	p.Reset()
	if got := p.Class("20"); got != "background1" {
		t.Errorf("Class(20) after Reset = %q, want background1", got)
	}
}
