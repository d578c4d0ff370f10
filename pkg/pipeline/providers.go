package pipeline

import (
	"strconv"

	"github.com/matzehuels/supplychain/pkg/chain"
)

// HeatFromField returns a heat function reading a numeric item field,
// normalized by its largest value in data. Connections have no heat.
// Returns nil when field is empty.
func HeatFromField(field string, data chain.Data) chain.HeatFunction {
	if field == "" {
		return nil
	}
	var peak float64
	for _, it := range data.Items {
		if it == nil {
			continue
		}
		if v, ok := it.Number(field); ok && v > peak {
			peak = v
		}
	}
	return chain.HeatFunc(func(ref chain.Ref, _ chain.Inspector) float64 {
		if ref.Kind != chain.KindItem || peak <= 0 {
			return 0
		}
		v, _ := ref.Item.Number(field)
		return v / peak
	})
}

// LabelFromField returns a label provider showing a connection field. For
// folding connections numeric values are summed over the contributors.
// Returns nil when field is empty.
func LabelFromField(field string) chain.ConnectionLabelProvider {
	if field == "" {
		return nil
	}
	return chain.ConnectionLabelFunc(func(ref chain.Ref, _ chain.Inspector) *chain.Label {
		if ref.Kind == chain.KindConnection {
			v, ok := ref.Connection.Field(field)
			if !ok || v == nil {
				return nil
			}
			if n, ok := ref.Connection.Number(field); ok {
				return &chain.Label{Text: formatNumber(n)}
			}
			if s, ok := v.(string); ok && s != "" {
				return &chain.Label{Text: s}
			}
			return nil
		}
		if ref.Kind == chain.KindFoldingConnection {
			return &chain.Label{Text: formatNumber(ref.Folding.Sum(field))}
		}
		return nil
	})
}

func formatNumber(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
