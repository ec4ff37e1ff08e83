package observability

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"go.uber.org/zap"
)

// PutMetricDataAPI is the part of *cloudwatch.Client used for metrics
type PutMetricDataAPI interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// CloudWatchMetrics sends operation metrics to CloudWatch
type CloudWatchMetrics struct {
	namespace string
	client    PutMetricDataAPI
	logger    *zap.Logger
}

// NewCloudWatchMetrics creates a new CloudWatch metrics recorder
func NewCloudWatchMetrics(namespace string, client PutMetricDataAPI, logger *zap.Logger) *CloudWatchMetrics {
	return &CloudWatchMetrics{
		namespace: namespace,
		client:    client,
		logger:    logger,
	}
}

// RecordOperation implements ports.OperationMetrics.
// Failures to send are logged and never affect the operation.
func (m *CloudWatchMetrics) RecordOperation(ctx context.Context, operation string, outcome string, duration time.Duration) {
	if m.client == nil {
		return
	}

	now := time.Now()
	dimensions := []types.Dimension{
		{Name: aws.String("Operation"), Value: aws.String(operation)},
		{Name: aws.String("Outcome"), Value: aws.String(outcome)},
	}

	input := &cloudwatch.PutMetricDataInput{
		Namespace: aws.String(m.namespace),
		MetricData: []types.MetricDatum{
			{
				MetricName: aws.String("OperationLatency"),
				Dimensions: dimensions,
				Value:      aws.Float64(float64(duration.Milliseconds())),
				Unit:       types.StandardUnitMilliseconds,
				Timestamp:  aws.Time(now),
			},
			{
				MetricName: aws.String("OperationCount"),
				Dimensions: dimensions,
				Value:      aws.Float64(1),
				Unit:       types.StandardUnitCount,
				Timestamp:  aws.Time(now),
			},
		},
	}

	if _, err := m.client.PutMetricData(ctx, input); err != nil {
		m.logger.Warn("Failed to send metrics",
			zap.String("operation", operation),
			zap.Error(err),
		)
	}
}

// OperationRecorder is anything that records dispatched operations
type OperationRecorder interface {
	RecordOperation(ctx context.Context, operation string, outcome string, duration time.Duration)
}

// MultiMetrics fans an operation record out to several recorders
type MultiMetrics []OperationRecorder

// RecordOperation implements ports.OperationMetrics
func (mm MultiMetrics) RecordOperation(ctx context.Context, operation string, outcome string, duration time.Duration) {
	for _, m := range mm {
		m.RecordOperation(ctx, operation, outcome, duration)
	}
}
