package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/stockledger/internal/config"
	"github.com/mamadbah2/stockledger/internal/domain/models"
)

type mockSnapshotter struct{ mock.Mock }

func (m *mockSnapshotter) Snapshot(ctx context.Context, at time.Time) (models.StockSnapshot, string, error) {
	args := m.Called(ctx, at)
	return args.Get(0).(models.StockSnapshot), args.String(1), args.Error(2)
}

type mockMessenger struct{ mock.Mock }

func (m *mockMessenger) SendText(ctx context.Context, to, body string) (string, error) {
	args := m.Called(ctx, to, body)
	return args.String(0), args.Error(1)
}

var reportingCfg = config.ReportingConfig{CronSchedule: "0 20 * * *", Timezone: "UTC"}

func TestRunSendsSummary(t *testing.T) {
	at := time.Date(2026, 4, 10, 20, 0, 0, 0, time.UTC)
	reporting := new(mockSnapshotter)
	reporting.On("Snapshot", mock.Anything, at).Return(models.StockSnapshot{}, "summary", nil)
	messenger := new(mockMessenger)
	messenger.On("SendText", mock.Anything, "224600000000", "summary").Return("wamid", nil)

	s, err := NewScheduler(reportingCfg, reporting, messenger, "224600000000", nil)
	require.NoError(t, err)

	s.run(context.Background(), at)

	reporting.AssertExpectations(t)
	messenger.AssertExpectations(t)
}

func TestRunSkipsDeliveryOnFailure(t *testing.T) {
	reporting := new(mockSnapshotter)
	reporting.On("Snapshot", mock.Anything, mock.Anything).Return(models.StockSnapshot{}, "", errors.New("mongo down"))
	messenger := new(mockMessenger)

	s, err := NewScheduler(reportingCfg, reporting, messenger, "224600000000", nil)
	require.NoError(t, err)

	s.run(context.Background(), time.Now())
	messenger.AssertNotCalled(t, "SendText", mock.Anything, mock.Anything, mock.Anything)
}

func TestRunWithoutMessenger(t *testing.T) {
	reporting := new(mockSnapshotter)
	reporting.On("Snapshot", mock.Anything, mock.Anything).Return(models.StockSnapshot{}, "summary", nil)

	s, err := NewScheduler(reportingCfg, reporting, nil, "", nil)
	require.NoError(t, err)

	s.run(context.Background(), time.Now())
	reporting.AssertNumberOfCalls(t, "Snapshot", 1)
}

func TestStartRejectsBadSchedule(t *testing.T) {
	s, err := NewScheduler(config.ReportingConfig{CronSchedule: "every day", Timezone: "UTC"}, new(mockSnapshotter), nil, "", nil)
	require.NoError(t, err)
	assert.Error(t, s.Start())
}

func TestNewSchedulerRejectsBadTimezone(t *testing.T) {
	_, err := NewScheduler(config.ReportingConfig{CronSchedule: "0 20 * * *", Timezone: "Mars/Olympus"}, nil, nil, "", nil)
	assert.Error(t, err)
}
