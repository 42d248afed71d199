package validation

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Endpoint names used to look up response schemas.
const (
	EndpointStatistics = "statistics"
	EndpointOptions    = "get_options"
	EndpointChartData  = "chart_data"
	EndpointCalculate  = "calculate"
)

const statisticsSchema = `{
  "type": "object",
  "required": ["total_credit", "total_business_fields"],
  "properties": {
    "total_credit": {"type": ["string", "number"]},
    "total_business_fields": {"type": "integer", "minimum": 0},
    "scales_distribution": {"type": "object"},
    "usage_distribution": {"type": "object"},
    "top_business_fields": {
      "type": "array",
      "items": {"type": "array", "minItems": 2}
    },
    "risk_distribution": {"type": "object"}
  }
}`

const optionsSchema = `{
  "type": "object",
  "required": ["business_fields", "scales", "usage_types"],
  "properties": {
    "business_fields": {"type": "array", "items": {"type": "string"}},
    "scales": {"type": "array", "items": {"type": "string"}},
    "usage_types": {"type": "array", "items": {"type": "string"}}
  }
}`

const chartDataSchema = `{
  "type": "object",
  "required": ["business_fields", "scales", "usage_types"],
  "definitions": {
    "dataset": {
      "type": "object",
      "required": ["labels", "values"],
      "properties": {
        "labels": {"type": "array", "items": {"type": "string"}},
        "values": {"type": "array", "items": {"type": "number"}}
      }
    }
  },
  "properties": {
    "business_fields": {"$ref": "#/definitions/dataset"},
    "scales": {"$ref": "#/definitions/dataset"},
    "usage_types": {"$ref": "#/definitions/dataset"}
  }
}`

const calculateSchema = `{
  "type": "object",
  "required": ["approval_score", "approval_category", "approval_color", "input_values", "analysis", "recommendations"],
  "definitions": {
    "membership": {
      "type": "object",
      "additionalProperties": {"type": "number"}
    }
  },
  "properties": {
    "approval_score": {"type": "number"},
    "approval_category": {"type": "string"},
    "approval_color": {"type": "string"},
    "input_values": {
      "type": "object",
      "required": ["business_field", "scale", "usage_type"],
      "properties": {
        "business_field": {"type": "string"},
        "scale": {"type": "string"},
        "usage_type": {"type": "string"}
      }
    },
    "analysis": {
      "type": "object",
      "required": ["scale_value", "risk_value", "priority_value", "credit_range_million",
                   "field_credit_billion", "usage_credit_billion", "detailed_analysis"],
      "properties": {
        "scale_value": {"type": ["string", "number"]},
        "risk_value": {"type": ["string", "number"]},
        "priority_value": {"type": ["string", "number"]},
        "credit_range_million": {"type": ["string", "number"]},
        "field_credit_billion": {"type": ["string", "number"]},
        "usage_credit_billion": {"type": ["string", "number"]},
        "detailed_analysis": {
          "type": "object",
          "required": ["input_analysis", "output_analysis"],
          "properties": {
            "input_analysis": {
              "type": "object",
              "required": ["scale", "risk", "priority"],
              "properties": {
                "scale": {"$ref": "#/definitions/membership"},
                "risk": {"$ref": "#/definitions/membership"},
                "priority": {"$ref": "#/definitions/membership"}
              }
            },
            "output_analysis": {"$ref": "#/definitions/membership"}
          }
        }
      }
    },
    "recommendations": {"type": "array", "items": {"type": "string"}},
    "visualization": {"type": ["string", "null"]},
    "timestamp": {"type": ["string", "null"]}
  }
}`

// ValidationResult is the outcome of a shape check.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ResponseValidator holds the compiled schema for every service endpoint.
type ResponseValidator struct {
	schemas map[string]*gojsonschema.Schema
}

// NewResponseValidator compiles the built-in response schemas.
func NewResponseValidator() (*ResponseValidator, error) {
	sources := map[string]string{
		EndpointStatistics: statisticsSchema,
		EndpointOptions:    optionsSchema,
		EndpointChartData:  chartDataSchema,
		EndpointCalculate:  calculateSchema,
	}

	v := &ResponseValidator{schemas: make(map[string]*gojsonschema.Schema, len(sources))}
	for endpoint, src := range sources {
		schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
		if err != nil {
			return nil, fmt.Errorf("compile %s schema: %w", endpoint, err)
		}
		v.schemas[endpoint] = schema
	}
	return v, nil
}

// MustResponseValidator panics if a built-in schema does not compile.
func MustResponseValidator() *ResponseValidator {
	v, err := NewResponseValidator()
	if err != nil {
		panic(err)
	}
	return v
}

// Validate checks a raw JSON body against the schema of endpoint.
// Unknown endpoints are accepted as-is.
func (v *ResponseValidator) Validate(endpoint string, body []byte) (*ValidationResult, error) {
	schema, ok := v.schemas[endpoint]
	if !ok {
		return &ValidationResult{Valid: true}, nil
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	out := &ValidationResult{Valid: result.Valid()}
	for _, desc := range result.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   desc.Field(),
			Message: desc.Description(),
			Code:    strings.ToUpper(desc.Type()),
		})
	}
	return out, nil
}

// GetErrorMessages returns a simple list of error messages
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

// HasErrors checks if validation has errors for specific field
func (vr *ValidationResult) HasErrors(field string) bool {
	return len(vr.GetErrorsForField(field)) > 0
}

// GetErrorsForField returns errors for a field and anything nested under it.
func (vr *ValidationResult) GetErrorsForField(field string) []ValidationError {
	var fieldErrors []ValidationError
	for _, err := range vr.Errors {
		if err.Field == field || strings.HasPrefix(err.Field, field+".") {
			fieldErrors = append(fieldErrors, err)
		}
	}
	return fieldErrors
}
