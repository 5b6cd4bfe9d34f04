// Package matching runs a match request end to end: validate, fetch
// candidates, run the engine, shape and check the response.
package matching

import (
	"context"
	stdErrors "errors"
	"time"

	"matching-workers/internal/common/errors"
	"matching-workers/internal/common/logger"
	"matching-workers/internal/common/metrics"
	"matching-workers/internal/common/observability"
	"matching-workers/internal/common/validation"
	"matching-workers/internal/engine"
	"matching-workers/internal/models"
	"matching-workers/internal/provider"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "matching-workers/internal/matching"

const (
	PathContractors = "contractors"
	PathSubsidies   = "subsidies"
)

type Options struct {
	Contractors   provider.ContractorSource
	Schemes       provider.SchemeSource
	Engine        *engine.Engine
	Validator     *validation.Validator
	Observability *observability.Observability
	Logger        logger.Logger
	NewRequestID  func() string
}

type Service struct {
	contractors provider.ContractorSource
	schemes     provider.SchemeSource
	engine      *engine.Engine
	validator   *validation.Validator
	obs         *observability.Observability
	log         logger.Logger
	newID       func() string

	contractorSchema *validation.Schema
}

func NewService(opts Options) *Service {
	s := &Service{
		contractors: opts.Contractors,
		schemes:     opts.Schemes,
		engine:      opts.Engine,
		validator:   opts.Validator,
		obs:         opts.Observability,
		log:         opts.Logger,
		newID:       opts.NewRequestID,
	}
	if s.validator == nil {
		s.validator = validation.New()
	}
	if s.log == nil {
		s.log = logger.NewNoOpLogger()
	}
	if s.newID == nil {
		s.newID = func() string { return uuid.New().String() }
	}
	window := engine.DefaultParams().ContractorWindow
	if s.engine != nil {
		window = s.engine.Params().ContractorWindow
	}
	s.contractorSchema = newContractorResponseSchema(window)
	s.log = s.log.WithFields(map[string]interface{}{"component": "matching"})
	return s
}

func (s *Service) MatchContractors(ctx context.Context, req models.ContractorMatchRequest) (resp *models.ContractorMatchResponse, err error) {
	start := time.Now()
	requestID := s.newID()
	log := s.log.WithFields(map[string]interface{}{"requestId": requestID, "path": PathContractors})

	ctx, span := otel.Tracer(tracerName).Start(ctx, "matching.Service.MatchContractors",
		trace.WithAttributes(attribute.String("request_id", requestID)),
	)
	defer func() {
		s.record(ctx, PathContractors, start, err, resultLen(resp))
		endSpan(span, err, resultLen(resp))
	}()

	req.ApplyDefaults()
	if err := s.validate(req); err != nil {
		log.Warn("contractor request rejected", map[string]interface{}{"error": err.Error()})
		return nil, err
	}
	spec := req.ToRequirementSpec()

	pool, err := s.contractors.Contractors(ctx, spec)
	if err != nil {
		return nil, s.fetchError(log, "contractor-directory", "location", err)
	}

	res, err := s.engine.MatchContractors(ctx, spec, pool)
	if err != nil {
		return nil, s.engineError(log, err)
	}
	metrics.MatchEligibleCandidates.WithLabelValues(PathContractors).Observe(float64(res.EligibleCount))

	out := models.NewContractorMatchResponse(requestID, res)
	if result := s.contractorSchema.Validate(out); !result.Valid {
		first := result.First()
		log.Error("contractor response failed contract", map[string]interface{}{"field": first.Field, "error": first.Message})
		return nil, errors.NewResponseValidationFailedError(first.Field + ": " + first.Message)
	}

	log.Info("contractor match served", map[string]interface{}{
		"matches":  len(out.Matches),
		"eligible": res.EligibleCount,
		"duration": time.Since(start).String(),
	})
	return &out, nil
}

func (s *Service) MatchSubsidies(ctx context.Context, req models.SubsidyMatchRequest) (resp *models.SubsidyMatchResponse, err error) {
	start := time.Now()
	requestID := s.newID()
	log := s.log.WithFields(map[string]interface{}{"requestId": requestID, "path": PathSubsidies})

	ctx, span := otel.Tracer(tracerName).Start(ctx, "matching.Service.MatchSubsidies",
		trace.WithAttributes(attribute.String("request_id", requestID)),
	)
	defer func() {
		s.record(ctx, PathSubsidies, start, err, subsidyLen(resp))
		endSpan(span, err, subsidyLen(resp))
	}()

	req.ApplyDefaults()
	if err := s.validate(req); err != nil {
		log.Warn("subsidy request rejected", map[string]interface{}{"error": err.Error()})
		return nil, err
	}
	spec := req.ToRequirementSpec()

	pool, err := s.schemes.Schemes(ctx, spec)
	if err != nil {
		return nil, s.fetchError(log, "scheme-registry", "postalCode", err)
	}

	res, err := s.engine.MatchSubsidies(ctx, spec, pool)
	if err != nil {
		return nil, s.engineError(log, err)
	}
	metrics.MatchEligibleCandidates.WithLabelValues(PathSubsidies).Observe(float64(len(res.EligibleSchemes)))

	out := models.NewSubsidyMatchResponse(requestID, res)
	if result := subsidyResponseSchema.Validate(out); !result.Valid {
		first := result.First()
		log.Error("subsidy response failed contract", map[string]interface{}{"field": first.Field, "error": first.Message})
		return nil, errors.NewResponseValidationFailedError(first.Field + ": " + first.Message)
	}

	log.Info("subsidy match served", map[string]interface{}{
		"combinations": len(out.Combinations),
		"eligible":     len(res.EligibleSchemes),
		"duration":     time.Since(start).String(),
	})
	return &out, nil
}

func (s *Service) validate(req interface{}) error {
	result := s.validator.Struct(req)
	if result.Valid {
		return nil
	}
	first := result.First()
	return errors.NewValidationError(first.Field, first.Message)
}

func (s *Service) fetchError(log logger.Logger, source, locationField string, err error) error {
	if isContextErr(err) {
		return err
	}
	if stdErrors.Is(err, provider.ErrLocationNotFound) {
		return errors.NewValidationError(locationField, locationField+" could not be resolved")
	}
	log.Error("candidate fetch failed", map[string]interface{}{"source": source, "error": err.Error()})
	return errors.NewCandidateFetchFailedError(source, err)
}

func (s *Service) engineError(log logger.Logger, err error) error {
	if isContextErr(err) {
		return err
	}
	var stdErr *errors.StandardError
	if stdErrors.As(err, &stdErr) {
		log.Error("matching rejected candidate pool", map[string]interface{}{"code": stdErr.Code, "error": stdErr.Message})
		return stdErr
	}
	log.Error("matching failed", map[string]interface{}{"error": err.Error()})
	return errors.NewMatchingFailedError(err)
}

func (s *Service) record(ctx context.Context, path string, start time.Time, err error, results int) {
	outcome := "success"
	switch {
	case err == nil:
	case isContextErr(err):
		outcome = "cancelled"
	default:
		outcome = string(errors.AsStandardError(err).Code)
	}
	metrics.MatchRequests.WithLabelValues(path, outcome).Inc()

	status := "success"
	if err != nil {
		status = "failed"
	}
	s.obs.RecordMatch(ctx, path, status, time.Since(start), results)
}

func endSpan(span trace.Span, err error, results int) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetAttributes(attribute.Int("results", results))
	}
	span.End()
}

func isContextErr(err error) bool {
	return stdErrors.Is(err, context.Canceled) || stdErrors.Is(err, context.DeadlineExceeded)
}

func resultLen(r *models.ContractorMatchResponse) int {
	if r == nil {
		return 0
	}
	return len(r.Matches)
}

func subsidyLen(r *models.SubsidyMatchResponse) int {
	if r == nil {
		return 0
	}
	return len(r.Combinations)
}
