package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

const calculateBody = `{
  "approval_score": 78.25,
  "approval_category": "Disetujui",
  "approval_color": "#28a745",
  "recommendations": ["Pertahankan arus kas", "Ajukan plafon bertahap"],
  "input_values": {"business_field": "Pertanian", "scale": "Mikro", "usage_type": "Modal Kerja"},
  "analysis": {
    "scale_value": 2.5,
    "risk_value": "Rendah",
    "priority_value": 8,
    "credit_range_million": "10 - 50 Juta",
    "field_credit_billion": "1,234 Miliar",
    "usage_credit_billion": "567 Miliar",
    "detailed_analysis": {
      "input_analysis": {
        "scale": {"mikro": 1.0, "kecil": 0.0, "menengah": 0.0},
        "risk": {"tinggi": 0.1, "rendah": 0.7, "sedang": 0.2},
        "priority": {"low": 0, "high": 1}
      },
      "output_analysis": {"ditolak": 0.0, "dipertimbangkan": 0.3, "disetujui": 0.7},
      "rule_activation": []
    }
  },
  "visualization": "iVBORw0KGgo=",
  "timestamp": "2026-01-02T03:04:05"
}`

func TestParseEvaluationResult(t *testing.T) {
	res, err := ParseEvaluationResult([]byte(calculateBody))
	require.NoError(t, err)

	assert.Equal(t, 78.25, res.Score)
	assert.Equal(t, "Disetujui", res.Category)
	assert.Equal(t, "#28a745", res.CategoryColor)
	assert.Equal(t, EvaluationRequest{BusinessField: "Pertanian", Scale: "Mikro", UsageType: "Modal Kerja"}, res.Input)
	assert.Equal(t, "2.5", res.Analysis.ScaleValue)
	assert.Equal(t, "Rendah", res.Analysis.RiskValue)
	assert.Equal(t, "8", res.Analysis.PriorityValue)
	assert.Equal(t, "1,234 Miliar", res.Analysis.FieldCreditBillion)
	assert.Equal(t, []string{"Pertahankan arus kas", "Ajukan plafon bertahap"}, res.Recommendations)
	assert.True(t, res.HasVisualization())
	assert.Equal(t, "2026-01-02T03:04:05", res.Timestamp)
}

func TestParseEvaluationResult_PreservesServiceOrder(t *testing.T) {
	res, err := ParseEvaluationResult([]byte(calculateBody))
	require.NoError(t, err)

	assert.Equal(t, []string{"tinggi", "rendah", "sedang"}, res.Analysis.Detailed.Risk.Names())
	assert.Equal(t, []string{"ditolak", "dipertimbangkan", "disetujui"}, res.Analysis.Detailed.Output.Names())
	assert.Equal(t, []string{"low", "high"}, res.Analysis.Detailed.Priority.Names())

	d, ok := res.Analysis.Detailed.Risk.Degree("rendah")
	assert.True(t, ok)
	assert.Equal(t, 0.7, d)
}

func TestParseEvaluationResult_Rejects(t *testing.T) {
	_, err := ParseEvaluationResult([]byte(`{not json`))
	assert.Error(t, err)

	_, err = ParseEvaluationResult([]byte(`{"approval_score":"78"}`))
	assert.Error(t, err)
}

func TestParseEvaluationResult_NullVisualization(t *testing.T) {
	res, err := ParseEvaluationResult([]byte(`{"approval_score": 10, "visualization": null}`))
	require.NoError(t, err)
	assert.False(t, res.HasVisualization())
	assert.Empty(t, res.Analysis.Detailed.Scale)
}

func TestMembershipBreakdown_MarshalKeepsOrder(t *testing.T) {
	m := ParseMembership(gjson.Parse(`{"z": 0.5, "a": 0.25, "skip": "x"}`))
	raw, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, `{"z":0.5,"a":0.25}`, string(raw))
}

func TestParseStatistics(t *testing.T) {
	body := `{
	  "total_credit": "1,234 Miliar",
	  "total_business_fields": 17,
	  "scales_distribution": {"Mikro": "500 Miliar", "Kecil": "400 Miliar", "Menengah": "334 Miliar"},
	  "usage_distribution": {"Modal Kerja": "900 Miliar", "Investasi": "334 Miliar"},
	  "top_business_fields": [["Perdagangan", 400], ["Pertanian", 300.5]],
	  "risk_distribution": {"low_risk": 5, "medium_risk": 8, "high_risk": 4}
	}`

	stats, err := ParseStatistics([]byte(body))
	require.NoError(t, err)

	assert.Equal(t, "1,234 Miliar", stats.TotalCredit)
	assert.Equal(t, 17, stats.TotalBusinessFields)
	require.Len(t, stats.ScalesDistribution, 3)
	assert.Equal(t, LabeledValue{Label: "Mikro", Value: "500 Miliar"}, stats.ScalesDistribution[0])
	assert.Equal(t, "Menengah", stats.ScalesDistribution[2].Label)
	assert.Equal(t, []RankedField{{"Perdagangan", 400}, {"Pertanian", 300.5}}, stats.TopBusinessFields)
	assert.Equal(t, RiskDistribution{Low: 5, Medium: 8, High: 4}, stats.RiskDistribution)
}

func TestOptionSet(t *testing.T) {
	opts := &OptionSet{
		BusinessFields: []string{"Pertanian"},
		Scales:         []string{"Mikro", "Kecil"},
		UsageTypes:     []string{"Modal Kerja"},
	}
	assert.True(t, opts.Allows(FieldScale, "Kecil"))
	assert.False(t, opts.Allows(FieldScale, "Besar"))
	assert.False(t, opts.Allows(Field("unknown"), "Mikro"))

	var nilOpts *OptionSet
	assert.Nil(t, nilOpts.Values(FieldScale))
}

func TestAggregateDataset_Aligned(t *testing.T) {
	assert.True(t, AggregateDataset{Labels: []string{"A"}, Values: []float64{1}}.Aligned())
	assert.False(t, AggregateDataset{Labels: []string{"A", "B"}, Values: []float64{1}}.Aligned())
}
