// internal/workers/notification/send-match-summary/handler.go
package sendmatchsummary

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	commonaws "matching-workers/internal/common/aws"
	"matching-workers/internal/common/errors"
	"matching-workers/internal/common/logger"
	"matching-workers/internal/common/metrics"
	"matching-workers/internal/common/validation"
	"matching-workers/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const TaskType = "send-match-summary"

type Handler struct {
	config       *Config
	logger       logger.Logger
	sesClient    commonaws.SESService
	snsClient    commonaws.SNSService
	validator    *validation.Validator
	errorHandler *errors.ErrorHandler
	now          func() time.Time
}

func NewHandler(config *Config, sesClient commonaws.SESService, snsClient commonaws.SNSService, log logger.Logger) *Handler {
	if config == nil {
		config = DefaultConfig()
	}
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		logger:       scoped,
		sesClient:    sesClient,
		snsClient:    snsClient,
		validator:    validation.New(),
		errorHandler: errors.NewErrorHandler(scoped),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.fail(ctx, client, job, errors.NewValidationError("variables", fmt.Sprintf("parse input: %v", err)))
		return
	}

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.fail(ctx, client, job, err)
		return
	}

	cmd, err := client.NewCompleteJobCommand().JobKey(job.Key).VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{"error": err})
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{"error": err})
		return
	}
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
}

func (h *Handler) fail(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(errors.AsStandardError(err).Code)).Inc()
	h.errorHandler.HandleJobError(ctx, client, job, err)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if result := h.validator.Struct(input); !result.Valid {
		first := result.First()
		return nil, errors.NewValidationError(first.Field, first.Message)
	}
	if input.ContractorMatch == nil && input.SubsidyMatch == nil {
		return nil, errors.NewValidationError("contractorMatch", "contractorMatch or subsidyMatch is required")
	}

	deliveries := []models.Delivery{
		h.deliverEmail(ctx, input),
		h.deliverSMS(ctx, input),
	}
	for _, d := range deliveries {
		metrics.NotificationsSent.WithLabelValues(d.Channel, d.Status).Inc()
	}

	status := overallStatus(deliveries)
	if status == models.StatusFailed {
		return nil, errors.NewNotificationSendFailedError("match-summary", fmt.Errorf("all channels failed"))
	}

	return &Output{
		NotificationID: uuid.New().String(),
		Status:         status,
		SentAt:         h.now().Format(time.RFC3339),
		Deliveries:     deliveries,
	}, nil
}

func (h *Handler) deliverEmail(ctx context.Context, input *Input) models.Delivery {
	d := models.Delivery{Channel: models.ChannelEmail}
	switch {
	case !h.config.EmailEnabled:
		d.Status = models.StatusDisabled
		return d
	case input.RecipientEmail == "":
		d.Status = models.StatusSkipped
		return d
	}

	out, err := h.sesClient.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{ToAddresses: []string{input.RecipientEmail}},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(buildSubject(input))},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(buildBody(input))},
			},
		},
		Source: aws.String(h.config.FromEmail),
	})
	if err != nil {
		h.logger.Error("email send failed", map[string]interface{}{"error": err})
		d.Status = models.StatusFailed
		d.Error = err.Error()
		return d
	}
	d.Status = models.StatusSent
	d.MessageID = aws.ToString(out.MessageId)
	return d
}

func (h *Handler) deliverSMS(ctx context.Context, input *Input) models.Delivery {
	d := models.Delivery{Channel: models.ChannelSMS}
	switch {
	case !h.config.SMSEnabled:
		d.Status = models.StatusDisabled
		return d
	case input.RecipientPhone == "" || topUrgency(input) < h.config.SMSUrgencyThreshold:
		d.Status = models.StatusSkipped
		return d
	}

	out, err := h.snsClient.Publish(ctx, &sns.PublishInput{
		PhoneNumber: aws.String(input.RecipientPhone),
		Message:     aws.String(buildSMS(input)),
	})
	if err != nil {
		h.logger.Error("SMS send failed", map[string]interface{}{"error": err})
		d.Status = models.StatusFailed
		d.Error = err.Error()
		return d
	}
	d.Status = models.StatusSent
	d.MessageID = aws.ToString(out.MessageId)
	return d
}

// overallStatus is sent if any channel delivered and failed if nothing was
// delivered but some channel was attempted.
func overallStatus(deliveries []models.Delivery) string {
	status := models.StatusDisabled
	for _, d := range deliveries {
		switch d.Status {
		case models.StatusSent:
			return models.StatusSent
		case models.StatusFailed:
			status = models.StatusFailed
		case models.StatusSkipped:
			if status == models.StatusDisabled {
				status = models.StatusSkipped
			}
		}
	}
	return status
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
