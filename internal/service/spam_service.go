package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/okaditya84/Spam-Contact-Search-API/internal/domain"
	"github.com/okaditya84/Spam-Contact-Search-API/internal/repository"
)

// SpamService records spam reports against phone numbers.
type SpamService struct {
	spam   repository.SpamRepository
	logger *zap.Logger
	tracer trace.Tracer
}

func NewSpamService(spam repository.SpamRepository, logger *zap.Logger) *SpamService {
	return &SpamService{
		spam:   spam,
		logger: logger,
		tracer: otel.Tracer("internal/service/spam"),
	}
}

// Report flags a phone number as spam on behalf of the reporter. It
// returns true when a new report was stored and false when the reporter
// had already flagged that number. The insert is attempted directly and
// the unique constraint on (phone_number, reported_by) resolves
// concurrent duplicates, so no row is ever written twice.
func (s *SpamService) Report(ctx context.Context, reporter domain.User, phoneNumber string) (bool, error) {
	ctx, span := s.startSpan(ctx, "SpamService.Report")
	defer span.End()

	if strings.TrimSpace(phoneNumber) == "" {
		return false, newAPIError("invalid_request", "phone_number is required.", http.StatusBadRequest)
	}

	_, err := s.spam.Create(ctx, domain.SpamReport{PhoneNumber: phoneNumber, ReportedBy: reporter.ID})
	if err != nil {
		if repository.IsUniqueViolation(err) {
			s.audit("spam.report.duplicate", "user_id", reporter.ID, "phone_number", phoneNumber)
			return false, nil
		}
		span.RecordError(err)
		return false, fmt.Errorf("create spam report: %w", err)
	}

	s.audit("spam.report.created", "user_id", reporter.ID, "phone_number", phoneNumber)
	return true, nil
}

func (s *SpamService) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, name)
}

func (s *SpamService) audit(event string, kv ...any) {
	if s.logger == nil {
		return
	}
	s.logger.Sugar().Infow(event, kv...)
}
