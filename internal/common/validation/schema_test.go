package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseValidator_Options(t *testing.T) {
	v := MustResponseValidator()

	tests := []struct {
		name  string
		body  string
		valid bool
	}{
		{"complete", `{"business_fields":["Pertanian"],"scales":["Mikro"],"usage_types":["Modal Kerja"]}`, true},
		{"empty lists", `{"business_fields":[],"scales":[],"usage_types":[]}`, true},
		{"missing scales", `{"business_fields":[],"usage_types":[]}`, false},
		{"wrong type", `{"business_fields":[],"scales":"Mikro","usage_types":[]}`, false},
		{"non string item", `{"business_fields":[1],"scales":[],"usage_types":[]}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := v.Validate(EndpointOptions, []byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.valid, res.Valid, res.GetErrorMessages())
		})
	}
}

func TestResponseValidator_WrongTypeReportsField(t *testing.T) {
	v := MustResponseValidator()

	res, err := v.Validate(EndpointOptions, []byte(`{"business_fields":[],"scales":"Mikro","usage_types":[]}`))
	require.NoError(t, err)
	require.False(t, res.Valid)
	assert.True(t, res.HasErrors("scales"))
	assert.Equal(t, "INVALID_TYPE", res.GetErrorsForField("scales")[0].Code)
}

func TestResponseValidator_Calculate(t *testing.T) {
	v := MustResponseValidator()

	body := `{
	  "approval_score": 78,
	  "approval_category": "Disetujui",
	  "approval_color": "#28a745",
	  "input_values": {"business_field": "Pertanian", "scale": "Mikro", "usage_type": "Modal Kerja"},
	  "analysis": {
	    "scale_value": "Mikro", "risk_value": "Rendah", "priority_value": "Tinggi",
	    "credit_range_million": "10 - 50", "field_credit_billion": "1.234", "usage_credit_billion": "567",
	    "detailed_analysis": {
	      "input_analysis": {"scale": {"mikro": 1}, "risk": {"low": 0.5, "high": 0.5}, "priority": {"high": 1}},
	      "output_analysis": {"low": 0, "medium": 0.2, "high": 0.8}
	    }
	  },
	  "recommendations": ["a", "b"],
	  "visualization": null
	}`

	res, err := v.Validate(EndpointCalculate, []byte(body))
	require.NoError(t, err)
	assert.True(t, res.Valid, res.GetErrorMessages())

	res, err = v.Validate(EndpointCalculate, []byte(`{"approval_score":"high"}`))
	require.NoError(t, err)
	assert.False(t, res.Valid)
}

func TestResponseValidator_ChartData(t *testing.T) {
	v := MustResponseValidator()

	good := `{"business_fields":{"labels":["A"],"values":[1]},"scales":{"labels":[],"values":[]},"usage_types":{"labels":["B"],"values":[2.5]}}`
	res, err := v.Validate(EndpointChartData, []byte(good))
	require.NoError(t, err)
	assert.True(t, res.Valid)

	bad := `{"business_fields":{"labels":["A"]},"scales":{"labels":[],"values":[]},"usage_types":{"labels":[],"values":[]}}`
	res, err = v.Validate(EndpointChartData, []byte(bad))
	require.NoError(t, err)
	assert.False(t, res.Valid)
}

func TestResponseValidator_MalformedJSON(t *testing.T) {
	v := MustResponseValidator()
	_, err := v.Validate(EndpointStatistics, []byte(`{not json`))
	assert.Error(t, err)
}

func TestResponseValidator_UnknownEndpoint(t *testing.T) {
	v := MustResponseValidator()
	res, err := v.Validate("health", []byte(`[]`))
	require.NoError(t, err)
	assert.True(t, res.Valid)
}
