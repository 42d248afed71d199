// internal/models/options.go
package models

// OptionSet holds the legal values for each form field, in display order.
type OptionSet struct {
	BusinessFields []string `json:"business_fields"`
	Scales         []string `json:"scales"`
	UsageTypes     []string `json:"usage_types"`
}

// Values returns the options for f.
func (o *OptionSet) Values(f Field) []string {
	if o == nil {
		return nil
	}
	switch f {
	case FieldBusinessField:
		return o.BusinessFields
	case FieldScale:
		return o.Scales
	case FieldUsageType:
		return o.UsageTypes
	}
	return nil
}

// Allows reports whether value is a legal choice for f.
func (o *OptionSet) Allows(f Field, value string) bool {
	for _, v := range o.Values(f) {
		if v == value {
			return true
		}
	}
	return false
}

// AggregateDataset is an index-aligned list of labels and values.
type AggregateDataset struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

func (d AggregateDataset) Len() int {
	return len(d.Labels)
}

// Aligned reports whether labels and values have the same length.
func (d AggregateDataset) Aligned() bool {
	return len(d.Labels) == len(d.Values)
}

type ChartData struct {
	BusinessFields AggregateDataset `json:"business_fields"`
	Scales         AggregateDataset `json:"scales"`
	UsageTypes     AggregateDataset `json:"usage_types"`
}
