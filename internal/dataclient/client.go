// Package dataclient talks to the remote scoring service.
package dataclient

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"credit-console/internal/common/config"
	apperrors "credit-console/internal/common/errors"
	httpclient "credit-console/internal/common/http"
	"credit-console/internal/common/logger"
	"credit-console/internal/common/metrics"
	"credit-console/internal/common/validation"
	"credit-console/internal/models"

	"github.com/tidwall/gjson"
)

const (
	PathStatistics = "/api/statistics"
	PathOptions    = "/api/get_options"
	PathChartData  = "/api/chart_data"
	PathCalculate  = "/api/calculate"
)

// DataClient is the capability the UI needs from the service.
// Failures are *errors.StandardError with code NETWORK_ERROR or SERVICE_ERROR.
type DataClient interface {
	FetchStatistics(ctx context.Context) (*models.Statistics, error)
	FetchOptions(ctx context.Context) (*models.OptionSet, error)
	FetchChartData(ctx context.Context) (*models.ChartData, error)
	Evaluate(ctx context.Context, req models.EvaluationRequest) (*models.EvaluationResult, error)
}

// HTTPClient implements DataClient over HTTP/JSON. It never retries.
type HTTPClient struct {
	http      *httpclient.Client
	validator *validation.ResponseValidator
	logger    logger.Logger
}

func New(cfg config.ServiceConfig, log logger.Logger) (*HTTPClient, error) {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	validator, err := validation.NewResponseValidator()
	if err != nil {
		return nil, err
	}
	log = logger.ForComponent(log, "dataclient")
	return &HTTPClient{
		http:      httpclient.NewClient(cfg.BaseURL, config.GetDuration(cfg.Timeout), log),
		validator: validator,
		logger:    log,
	}, nil
}

func (c *HTTPClient) FetchStatistics(ctx context.Context) (*models.Statistics, error) {
	body, err := c.call(validation.EndpointStatistics, func() (*httpclient.Response, error) {
		return c.http.Get(ctx, PathStatistics)
	})
	if err != nil {
		return nil, err
	}
	stats, err := models.ParseStatistics(body)
	if err != nil {
		return nil, apperrors.NewNetworkError(validation.EndpointStatistics, err)
	}
	return stats, nil
}

func (c *HTTPClient) FetchOptions(ctx context.Context) (*models.OptionSet, error) {
	body, err := c.call(validation.EndpointOptions, func() (*httpclient.Response, error) {
		return c.http.Get(ctx, PathOptions)
	})
	if err != nil {
		return nil, err
	}
	var opts models.OptionSet
	if err := json.Unmarshal(body, &opts); err != nil {
		return nil, apperrors.NewNetworkError(validation.EndpointOptions, err)
	}
	return &opts, nil
}

func (c *HTTPClient) FetchChartData(ctx context.Context) (*models.ChartData, error) {
	body, err := c.call(validation.EndpointChartData, func() (*httpclient.Response, error) {
		return c.http.Get(ctx, PathChartData)
	})
	if err != nil {
		return nil, err
	}
	var data models.ChartData
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, apperrors.NewNetworkError(validation.EndpointChartData, err)
	}

	var problems []string
	for _, named := range []struct {
		name string
		ds   models.AggregateDataset
	}{
		{"business_fields", data.BusinessFields},
		{"scales", data.Scales},
		{"usage_types", data.UsageTypes},
	} {
		if !named.ds.Aligned() {
			problems = append(problems, fmt.Sprintf("%s: %d labels, %d values", named.name, len(named.ds.Labels), len(named.ds.Values)))
		}
	}
	if len(problems) > 0 {
		return nil, apperrors.NewResponseShapeError(validation.EndpointChartData, problems)
	}
	return &data, nil
}

func (c *HTTPClient) Evaluate(ctx context.Context, req models.EvaluationRequest) (*models.EvaluationResult, error) {
	body, err := c.call(validation.EndpointCalculate, func() (*httpclient.Response, error) {
		return c.http.PostJSON(ctx, PathCalculate, req)
	})
	if err != nil {
		return nil, err
	}
	result, err := models.ParseEvaluationResult(body)
	if err != nil {
		return nil, apperrors.NewNetworkError(validation.EndpointCalculate, err)
	}
	return result, nil
}

// call performs one request and turns every failure into the error taxonomy.
// The returned body has passed the endpoint's shape check.
func (c *HTTPClient) call(endpoint string, do func() (*httpclient.Response, error)) ([]byte, error) {
	start := time.Now()
	resp, err := do()
	metrics.ServiceRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.ServiceRequests.WithLabelValues(endpoint, metrics.OutcomeNetworkError).Inc()
		c.logger.Warn("service unreachable", map[string]interface{}{
			"endpoint": endpoint,
			"error":    err.Error(),
		})
		return nil, apperrors.NewNetworkError(endpoint, err)
	}

	if !resp.OK() {
		metrics.ServiceRequests.WithLabelValues(endpoint, metrics.OutcomeServiceError).Inc()
		message := ""
		if gjson.ValidBytes(resp.Body) {
			message = gjson.GetBytes(resp.Body, "error").String()
		}
		c.logger.Warn("service returned an error", map[string]interface{}{
			"endpoint":   endpoint,
			"statusCode": resp.StatusCode,
			"requestId":  resp.RequestID,
			"message":    message,
		})
		return nil, apperrors.NewServiceError(endpoint, resp.StatusCode, message)
	}

	shape, err := c.validator.Validate(endpoint, resp.Body)
	if err != nil {
		metrics.ServiceRequests.WithLabelValues(endpoint, metrics.OutcomeNetworkError).Inc()
		return nil, apperrors.NewNetworkError(endpoint, err)
	}
	if !shape.Valid {
		metrics.ServiceRequests.WithLabelValues(endpoint, metrics.OutcomeNetworkError).Inc()
		c.logger.Warn("unexpected response shape", map[string]interface{}{
			"endpoint":  endpoint,
			"requestId": resp.RequestID,
			"problems":  shape.GetErrorMessages(),
		})
		return nil, apperrors.NewResponseShapeError(endpoint, shape.GetErrorMessages())
	}

	metrics.ServiceRequests.WithLabelValues(endpoint, metrics.OutcomeSuccess).Inc()
	c.logger.Debug("service call succeeded", map[string]interface{}{
		"endpoint":   endpoint,
		"requestId":  resp.RequestID,
		"durationMs": resp.Duration.Milliseconds(),
	})
	return resp.Body, nil
}
