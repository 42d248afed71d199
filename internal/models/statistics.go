// internal/models/statistics.go
package models

import (
	"fmt"

	"github.com/tidwall/gjson"
)

type LabeledValue struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type RankedField struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

type RiskDistribution struct {
	Low    int `json:"low_risk"`
	Medium int `json:"medium_risk"`
	High   int `json:"high_risk"`
}

// Statistics is the GET /api/statistics payload. Only the first two fields
// are required; the rest are optional summaries.
type Statistics struct {
	TotalCredit         string           `json:"total_credit"`
	TotalBusinessFields int              `json:"total_business_fields"`
	ScalesDistribution  []LabeledValue   `json:"scales_distribution,omitempty"`
	UsageDistribution   []LabeledValue   `json:"usage_distribution,omitempty"`
	TopBusinessFields   []RankedField    `json:"top_business_fields,omitempty"`
	RiskDistribution    RiskDistribution `json:"risk_distribution"`
}

func ParseStatistics(body []byte) (*Statistics, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("invalid JSON in statistics")
	}
	doc := gjson.ParseBytes(body)

	stats := &Statistics{
		TotalCredit:         doc.Get("total_credit").String(),
		TotalBusinessFields: int(doc.Get("total_business_fields").Int()),
		ScalesDistribution:  parseLabeled(doc.Get("scales_distribution")),
		UsageDistribution:   parseLabeled(doc.Get("usage_distribution")),
		RiskDistribution: RiskDistribution{
			Low:    int(doc.Get("risk_distribution.low_risk").Int()),
			Medium: int(doc.Get("risk_distribution.medium_risk").Int()),
			High:   int(doc.Get("risk_distribution.high_risk").Int()),
		},
	}

	doc.Get("top_business_fields").ForEach(func(_, pair gjson.Result) bool {
		items := pair.Array()
		if len(items) >= 2 {
			stats.TopBusinessFields = append(stats.TopBusinessFields, RankedField{
				Name:  items[0].String(),
				Value: items[1].Float(),
			})
		}
		return true
	})

	return stats, nil
}

func parseLabeled(r gjson.Result) []LabeledValue {
	var out []LabeledValue
	r.ForEach(func(key, value gjson.Result) bool {
		out = append(out, LabeledValue{Label: key.String(), Value: value.String()})
		return true
	})
	return out
}
