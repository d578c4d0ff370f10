package chain

import (
	"encoding/json"
	"fmt"
	"maps"
)

const (
	keySourceID = "sourceId"
	keyTargetID = "targetId"
)

// Connection is a directed relationship from SourceID to TargetID.
type Connection struct {
	SourceID  ItemID
	TargetID  ItemID
	Name      string
	ClassName string
	Fields    map[string]any
}

// Key returns the (source, target) pair that identifies the connection's
// master edge.
func (c *Connection) Key() [2]ItemID { return [2]ItemID{c.SourceID, c.TargetID} }

// Field returns a user field.
func (c *Connection) Field(key string) (any, bool) {
	v, ok := c.Fields[key]
	return v, ok
}

// Number returns a numeric user field.
func (c *Connection) Number(key string) (float64, bool) { return number(c.Fields[key]) }

// ConnectionFromMap builds a connection from a decoded record.
func ConnectionFromMap(m map[string]any) (*Connection, error) {
	src, ok := ParseID(m[keySourceID])
	if !ok {
		return nil, fmt.Errorf("connection: missing or invalid %q", keySourceID)
	}
	tgt, ok := ParseID(m[keyTargetID])
	if !ok {
		return nil, fmt.Errorf("connection: missing or invalid %q", keyTargetID)
	}
	c := &Connection{SourceID: src, TargetID: tgt}
	c.Name, _ = m[keyName].(string)
	c.ClassName, _ = m[keyClassName].(string)
	for k, v := range m {
		switch k {
		case keySourceID, keyTargetID, keyName, keyClassName:
			continue
		}
		if c.Fields == nil {
			c.Fields = make(map[string]any)
		}
		c.Fields[k] = v
	}
	return c, nil
}

// Map returns the record form of the connection.
func (c *Connection) Map() map[string]any {
	m := make(map[string]any, len(c.Fields)+4)
	maps.Copy(m, c.Fields)
	m[keySourceID] = string(c.SourceID)
	m[keyTargetID] = string(c.TargetID)
	if c.Name != "" {
		m[keyName] = c.Name
	}
	if c.ClassName != "" {
		m[keyClassName] = c.ClassName
	}
	return m
}

func (c *Connection) MarshalJSON() ([]byte, error) { return json.Marshal(c.Map()) }

func (c *Connection) UnmarshalJSON(data []byte) error {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	parsed, err := ConnectionFromMap(m)
	if err != nil {
		return err
	}
	*c = *parsed
	return nil
}

// FoldingConnection stands in for every connection crossing a collapsed
// group boundary between the same two visible endpoints. It has no identity
// of its own and is recomputed whenever fold state or the underlying
// connections change.
type FoldingConnection struct {
	Connections []*Connection `json:"connections"`
}

// Sum adds up a numeric field over all contributing connections.
func (f *FoldingConnection) Sum(key string) float64 {
	var total float64
	for _, c := range f.Connections {
		if v, ok := c.Number(key); ok {
			total += v
		}
	}
	return total
}
