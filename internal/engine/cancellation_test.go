package engine

import (
	"testing"
	"time"

	"github.com/meiyue-dev/salon-marketplace/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateCancellationOwnership(t *testing.T) {
	appt := &domain.Appointment{UserID: 1, Status: domain.StatusScheduled}

	_, err := EvaluateCancellation(appt, 2, time.Now(), DefaultCancelNotice)
	requireRejection(t, err, "无权取消他人的预约")
}

func TestEvaluateCancellationTerminalStatus(t *testing.T) {
	now := time.Now()

	for _, status := range []domain.AppointmentStatus{
		domain.StatusCancelled,
		domain.StatusCompleted,
		domain.StatusAbsent,
	} {
		appt := &domain.Appointment{UserID: 1, Status: status, StartTime: now.Add(24 * time.Hour)}
		_, err := EvaluateCancellation(appt, 1, now, DefaultCancelNotice)
		requireRejection(t, err, "无法取消")
	}
}

func TestEvaluateCancellationStrikeBoundary(t *testing.T) {
	now := time.Date(2026, 4, 15, 10, 0, 0, 0, time.Local)

	tests := []struct {
		name       string
		startIn    time.Duration
		wantStrike bool
	}{
		{"提前一天", 24 * time.Hour, false},
		{"刚好三小时", 3 * time.Hour, false},
		{"差一分钟", 3*time.Hour - time.Minute, true},
		{"开场前十分钟", 10 * time.Minute, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appt := &domain.Appointment{
				UserID:    1,
				Status:    domain.StatusScheduled,
				StartTime: now.Add(tt.startIn),
			}
			strikeIssued, err := EvaluateCancellation(appt, 1, now, 3*time.Hour)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStrike, strikeIssued)
		})
	}
}

func TestEvaluateCancellationFallsBackToDefaultNotice(t *testing.T) {
	now := time.Date(2026, 4, 15, 10, 0, 0, 0, time.Local)
	appt := &domain.Appointment{
		UserID:    1,
		Status:    domain.StatusScheduled,
		StartTime: now.Add(2 * time.Hour),
	}

	strikeIssued, err := EvaluateCancellation(appt, 1, now, 0)
	require.NoError(t, err)
	assert.True(t, strikeIssued) // 两小时 < 默认三小时提前量
}

func TestValidateStatusTransition(t *testing.T) {
	tests := []struct {
		name       string
		current    domain.AppointmentStatus
		target     domain.AppointmentStatus
		wantReject string
	}{
		{"标记完成", domain.StatusScheduled, domain.StatusCompleted, ""},
		{"标记爽约", domain.StatusScheduled, domain.StatusAbsent, ""},
		{"取消不走这条路径", domain.StatusScheduled, domain.StatusCancelled, "不支持的状态变更目标"},
		{"已取消的不能再完成", domain.StatusCancelled, domain.StatusCompleted, "无法变更"},
		{"已完成的不能再爽约", domain.StatusCompleted, domain.StatusAbsent, "无法变更"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStatusTransition(tt.current, tt.target)
			if tt.wantReject == "" {
				assert.NoError(t, err)
			} else {
				requireRejection(t, err, tt.wantReject)
			}
		})
	}
}
