package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/okaditya84/Spam-Contact-Search-API/internal/domain"
	"github.com/okaditya84/Spam-Contact-Search-API/internal/service"
)

func TestReportIsIdempotentPerReporter(t *testing.T) {
	ctx := context.Background()
	spam := &memorySpamRepo{}
	svc := service.NewSpamService(spam, zap.NewNop())
	reporter := domain.User{ID: 1, PhoneNumber: "1110000"}

	created, err := svc.Report(ctx, reporter, "5559999")
	require.NoError(t, err)
	require.True(t, created)

	created, err = svc.Report(ctx, reporter, "5559999")
	require.NoError(t, err)
	require.False(t, created)

	counts, err := spam.CountsByPhone(ctx, []string{"5559999"})
	require.NoError(t, err)
	require.Equal(t, int64(1), counts["5559999"])
}

func TestReportDistinctReportersAccumulate(t *testing.T) {
	ctx := context.Background()
	spam := &memorySpamRepo{}
	svc := service.NewSpamService(spam, zap.NewNop())

	created, err := svc.Report(ctx, domain.User{ID: 1}, "5559999")
	require.NoError(t, err)
	require.True(t, created)
	created, err = svc.Report(ctx, domain.User{ID: 2}, "5559999")
	require.NoError(t, err)
	require.True(t, created)

	counts, err := spam.CountsByPhone(ctx, []string{"5559999"})
	require.NoError(t, err)
	require.Equal(t, int64(2), counts["5559999"])
}

func TestReportRequiresPhoneNumber(t *testing.T) {
	svc := service.NewSpamService(&memorySpamRepo{}, zap.NewNop())

	_, err := svc.Report(context.Background(), domain.User{ID: 1}, "  ")
	var apiErr *service.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, 400, apiErr.Status)
}

// The number being reported does not have to belong to any user or
// contact; arbitrary strings are accepted.
func TestReportAcceptsUnknownNumbers(t *testing.T) {
	svc := service.NewSpamService(&memorySpamRepo{}, zap.NewNop())

	created, err := svc.Report(context.Background(), domain.User{ID: 1}, "not-even-a-number")
	require.NoError(t, err)
	require.True(t, created)
}
