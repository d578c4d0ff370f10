package chain

import (
	"encoding/json"
	"testing"
)

func TestParseID(t *testing.T) {
	tests := []struct {
		in     any
		want   ItemID
		wantOK bool
	}{
		{"abc", "abc", true},
		{float64(1), "1", true},
		{float64(1.5), "1.5", true},
		{int64(42), "42", true},
		{json.Number("7"), "7", true},
		{"", "", false},
		{nil, "", false},
		{true, "", false},
	}
	for _, tt := range tests {
		got, ok := ParseID(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseID(%#v) = %q, %v, want %q, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestItemJSON(t *testing.T) {
	var it Item
	if err := json.Unmarshal([]byte(`{"id":1,"parentId":10,"name":"Cu","width":120,"amount":3}`), &it); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if it.ID != "1" || it.ParentID != "10" || it.Name != "Cu" || it.Width != 120 {
		t.Errorf("Unmarshal() = %+v", it)
	}
	if v, ok := it.Number("amount"); !ok || v != 3 {
		t.Errorf("Number(amount) = %v, %v, want 3, true", v, ok)
	}
	if it.HasSize() {
		t.Error("HasSize() = true without height")
	}

	out, err := json.Marshal(&it)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	want := `{"amount":3,"id":"1","name":"Cu","parentId":"10","width":120}`
	if string(out) != want {
		t.Errorf("Marshal() = %s, want %s", out, want)
	}
}

func TestItemMissingID(t *testing.T) {
	var it Item
	if err := json.Unmarshal([]byte(`{"name":"x"}`), &it); err == nil {
		t.Error("Unmarshal() without id succeeded, want error")
	}
}

func TestItemHasParent(t *testing.T) {
	tests := []struct {
		it   Item
		want bool
	}{
		{Item{ID: "1"}, false},
		{Item{ID: "1", ParentID: "2"}, true},
		{Item{ID: "1", ParentID: "1"}, false},
	}
	for _, tt := range tests {
		if got := tt.it.HasParent(); got != tt.want {
			t.Errorf("HasParent(%+v) = %v, want %v", tt.it, got, tt.want)
		}
	}
}

func TestConnectionJSON(t *testing.T) {
	var c Connection
	if err := json.Unmarshal([]byte(`{"sourceId":99,"targetId":"1","amount":5}`), &c); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if c.Key() != [2]ItemID{"99", "1"} {
		t.Errorf("Key() = %v, want [99 1]", c.Key())
	}
	if err := json.Unmarshal([]byte(`{"sourceId":1}`), &c); err == nil {
		t.Error("Unmarshal() without targetId succeeded, want error")
	}
}

func TestFoldingConnectionSum(t *testing.T) {
	f := &FoldingConnection{Connections: []*Connection{
		{SourceID: "1", TargetID: "3", Fields: map[string]any{"amount": 5.0}},
		{SourceID: "2", TargetID: "3", Fields: map[string]any{"amount": 7}},
		{SourceID: "4", TargetID: "3"},
	}}
	if got := f.Sum("amount"); got != 12 {
		t.Errorf("Sum(amount) = %v, want 12", got)
	}
}

func TestRef(t *testing.T) {
	c := &Connection{SourceID: "1", TargetID: "2"}
	tests := []struct {
		name        string
		ref         Ref
		connection  bool
		folding     bool
		connections int
	}{
		{"item", ItemRef(&Item{ID: "1"}), false, false, 0},
		{"connection", ConnectionRef(c), true, false, 1},
		{"folding", FoldingRef(&FoldingConnection{Connections: []*Connection{c, c}}), true, true, 2},
		{"nil item", ItemRef(nil), false, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ref.IsConnection(); got != tt.connection {
				t.Errorf("IsConnection() = %v, want %v", got, tt.connection)
			}
			if got := tt.ref.IsFoldingConnection(); got != tt.folding {
				t.Errorf("IsFoldingConnection() = %v, want %v", got, tt.folding)
			}
			if got := len(tt.ref.Connections()); got != tt.connections {
				t.Errorf("len(Connections()) = %d, want %d", got, tt.connections)
			}
		})
	}
	if ItemRef(nil).IsValid() {
		t.Error("ItemRef(nil).IsValid() = true")
	}
}

func TestDataFromMaps(t *testing.T) {
	d, skipped := DataFromMaps(
		[]map[string]any{{"id": 1}, {"name": "no id"}},
		[]map[string]any{{"sourceId": 1, "targetId": 2}},
	)
	if len(d.Items) != 1 || len(d.Connections) != 1 || skipped != 1 {
		t.Errorf("DataFromMaps() = %d items, %d connections, %d skipped, want 1, 1, 1",
			len(d.Items), len(d.Connections), skipped)
	}
}
