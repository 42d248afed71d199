// internal/models/evaluation.go
package models

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// Field names a required evaluation input.
type Field string

const (
	FieldBusinessField Field = "business_field"
	FieldScale         Field = "scale"
	FieldUsageType     Field = "usage_type"
)

// AllFields is the display and validation order of the form fields.
var AllFields = []Field{FieldBusinessField, FieldScale, FieldUsageType}

// EvaluationRequest is the body of POST /api/calculate.
type EvaluationRequest struct {
	BusinessField string `json:"business_field"`
	Scale         string `json:"scale"`
	UsageType     string `json:"usage_type"`
}

// Value returns the request value for f.
func (r EvaluationRequest) Value(f Field) string {
	switch f {
	case FieldBusinessField:
		return r.BusinessField
	case FieldScale:
		return r.Scale
	case FieldUsageType:
		return r.UsageType
	}
	return ""
}

type EvaluationResult struct {
	Score           float64           `json:"approval_score"`
	Category        string            `json:"approval_category"`
	CategoryColor   string            `json:"approval_color"`
	Input           EvaluationRequest `json:"input_values"`
	Analysis        Analysis          `json:"analysis"`
	Recommendations []string          `json:"recommendations"`
	Visualization   string            `json:"visualization,omitempty"` // base64 PNG
	Timestamp       string            `json:"timestamp,omitempty"`
}

// HasVisualization reports whether an image payload was sent.
func (r *EvaluationResult) HasVisualization() bool {
	return r.Visualization != ""
}

// Analysis values are display strings; numbers are kept as the service wrote them.
type Analysis struct {
	ScaleValue         string           `json:"scale_value"`
	RiskValue          string           `json:"risk_value"`
	PriorityValue      string           `json:"priority_value"`
	CreditRangeMillion string           `json:"credit_range_million"`
	FieldCreditBillion string           `json:"field_credit_billion"`
	UsageCreditBillion string           `json:"usage_credit_billion"`
	Detailed           DetailedAnalysis `json:"detailed_analysis"`
}

type DetailedAnalysis struct {
	Scale    MembershipBreakdown `json:"scale"`
	Risk     MembershipBreakdown `json:"risk"`
	Priority MembershipBreakdown `json:"priority"`
	Output   MembershipBreakdown `json:"output_analysis"`
}

// ParseEvaluationResult decodes a calculate response body.
func ParseEvaluationResult(body []byte) (*EvaluationResult, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("invalid JSON in evaluation result")
	}
	doc := gjson.ParseBytes(body)

	score := doc.Get("approval_score")
	if score.Type != gjson.Number {
		return nil, fmt.Errorf("approval_score is not a number")
	}

	res := &EvaluationResult{
		Score:         score.Float(),
		Category:      doc.Get("approval_category").String(),
		CategoryColor: doc.Get("approval_color").String(),
		Input: EvaluationRequest{
			BusinessField: doc.Get("input_values.business_field").String(),
			Scale:         doc.Get("input_values.scale").String(),
			UsageType:     doc.Get("input_values.usage_type").String(),
		},
		Timestamp: doc.Get("timestamp").String(),
	}

	a := doc.Get("analysis")
	res.Analysis = Analysis{
		ScaleValue:         a.Get("scale_value").String(),
		RiskValue:          a.Get("risk_value").String(),
		PriorityValue:      a.Get("priority_value").String(),
		CreditRangeMillion: a.Get("credit_range_million").String(),
		FieldCreditBillion: a.Get("field_credit_billion").String(),
		UsageCreditBillion: a.Get("usage_credit_billion").String(),
		Detailed: DetailedAnalysis{
			Scale:    ParseMembership(a.Get("detailed_analysis.input_analysis.scale")),
			Risk:     ParseMembership(a.Get("detailed_analysis.input_analysis.risk")),
			Priority: ParseMembership(a.Get("detailed_analysis.input_analysis.priority")),
			Output:   ParseMembership(a.Get("detailed_analysis.output_analysis")),
		},
	}

	doc.Get("recommendations").ForEach(func(_, item gjson.Result) bool {
		res.Recommendations = append(res.Recommendations, item.String())
		return true
	})

	if v := doc.Get("visualization"); v.Type == gjson.String {
		res.Visualization = v.String()
	}

	return res, nil
}
