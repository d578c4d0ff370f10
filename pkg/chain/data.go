package chain

// Data is the application-supplied diagram content.
type Data struct {
	Items       []*Item       `json:"items" yaml:"items"`
	Connections []*Connection `json:"connections" yaml:"connections"`
}

// DataFromMaps builds Data from decoded record lists. Records that cannot be
// parsed are skipped; their count is returned.
func DataFromMaps(items, connections []map[string]any) (Data, int) {
	var d Data
	skipped := 0
	for _, m := range items {
		it, err := ItemFromMap(m)
		if err != nil {
			skipped++
			continue
		}
		d.Items = append(d.Items, it)
	}
	for _, m := range connections {
		c, err := ConnectionFromMap(m)
		if err != nil {
			skipped++
			continue
		}
		d.Connections = append(d.Connections, c)
	}
	return d, skipped
}
