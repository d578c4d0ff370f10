package chain

import (
	"encoding/json"
	"fmt"
	"maps"
	"math"
	"strconv"
)

// ItemID identifies an item.
type ItemID string

// String implements fmt.Stringer.
func (id ItemID) String() string { return string(id) }

// ParseID normalizes a decoded id value. Strings are kept, integral numbers
// are formatted without a fraction. ok is false for nil and unsupported types.
func ParseID(v any) (id ItemID, ok bool) {
	switch x := v.(type) {
	case nil:
		return "", false
	case ItemID:
		return x, x != ""
	case string:
		return ItemID(x), x != ""
	case json.Number:
		return ItemID(x.String()), true
	case float64:
		return ItemID(strconv.FormatFloat(x, 'f', -1, 64)), !math.IsNaN(x)
	case float32:
		return ItemID(strconv.FormatFloat(float64(x), 'f', -1, 32)), true
	case int:
		return ItemID(strconv.Itoa(x)), true
	case int32:
		return ItemID(strconv.FormatInt(int64(x), 10)), true
	case int64:
		return ItemID(strconv.FormatInt(x, 10)), true
	case uint64:
		return ItemID(strconv.FormatUint(x, 10)), true
	case fmt.Stringer:
		s := x.String()
		return ItemID(s), s != ""
	}
	return "", false
}

// Reserved item record keys. Every other key is kept in [Item.Fields].
const (
	keyID        = "id"
	keyParentID  = "parentId"
	keyName      = "name"
	keyClassName = "className"
	keyWidth     = "width"
	keyHeight    = "height"
)

// Item is one entity of the supply chain.
type Item struct {
	ID        ItemID
	ParentID  ItemID
	Name      string
	ClassName string

	// Width and Height override the default item size when positive.
	Width  float64
	Height float64

	// Fields holds every other record field.
	Fields map[string]any
}

// HasParent reports whether the item names a parent other than itself.
func (it *Item) HasParent() bool { return it.ParentID != "" && it.ParentID != it.ID }

// HasSize reports whether the item carries an explicit size.
func (it *Item) HasSize() bool { return it.Width > 0 && it.Height > 0 }

// Field returns a user field.
func (it *Item) Field(key string) (any, bool) {
	v, ok := it.Fields[key]
	return v, ok
}

// Number returns a numeric user field.
func (it *Item) Number(key string) (float64, bool) { return number(it.Fields[key]) }

// Clone returns a copy whose Fields map is not shared with it.
func (it *Item) Clone() *Item {
	c := *it
	c.Fields = maps.Clone(it.Fields)
	return &c
}

// ItemFromMap builds an item from a decoded record (JSON, YAML, BSON, or
// graph database properties).
func ItemFromMap(m map[string]any) (*Item, error) {
	id, ok := ParseID(m[keyID])
	if !ok {
		return nil, fmt.Errorf("item: missing or invalid %q", keyID)
	}
	it := &Item{ID: id}
	if v, ok := m[keyParentID]; ok {
		it.ParentID, _ = ParseID(v)
	}
	it.Name, _ = m[keyName].(string)
	it.ClassName, _ = m[keyClassName].(string)
	it.Width, _ = number(m[keyWidth])
	it.Height, _ = number(m[keyHeight])
	for k, v := range m {
		switch k {
		case keyID, keyParentID, keyName, keyClassName, keyWidth, keyHeight:
			continue
		}
		if it.Fields == nil {
			it.Fields = make(map[string]any)
		}
		it.Fields[k] = v
	}
	return it, nil
}

// Map returns the record form of the item. Ids are emitted as strings.
func (it *Item) Map() map[string]any {
	m := make(map[string]any, len(it.Fields)+6)
	maps.Copy(m, it.Fields)
	m[keyID] = string(it.ID)
	if it.ParentID != "" {
		m[keyParentID] = string(it.ParentID)
	}
	if it.Name != "" {
		m[keyName] = it.Name
	}
	if it.ClassName != "" {
		m[keyClassName] = it.ClassName
	}
	if it.Width > 0 {
		m[keyWidth] = it.Width
	}
	if it.Height > 0 {
		m[keyHeight] = it.Height
	}
	return m
}

// MarshalJSON encodes the item as a flat record. Map keys are sorted by
// encoding/json, so equal items always encode to equal bytes.
func (it *Item) MarshalJSON() ([]byte, error) { return json.Marshal(it.Map()) }

// UnmarshalJSON decodes a flat record.
func (it *Item) UnmarshalJSON(data []byte) error {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	parsed, err := ItemFromMap(m)
	if err != nil {
		return err
	}
	*it = *parsed
	return nil
}

func number(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint64:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(x, 64)
		return f, err == nil
	}
	return 0, false
}
