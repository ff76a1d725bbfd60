package engine

import (
	"testing"
	"time"

	"github.com/meiyue-dev/salon-marketplace/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 走一遍完整的预约生命周期：预约成功、冲突被拒、迟到取消记违约
func TestBookingLifecycle(t *testing.T) {
	snap := newSnapshot("09:00:00", "18:00:00")
	staffA := &domain.Staff{ID: 1, SalonID: 1, Name: "张伟"}
	snap.Staff = []*domain.Staff{staffA}

	// 顾客预约员工 A 的 10:00 - 10:30，服务总时长 30 分钟
	start, end, dur := slot(10, 0, 10, 30)
	require.NoError(t, CheckSlot(snap, staffA.ID, start, end, dur))

	appt := &domain.Appointment{
		ID:        100,
		SalonID:   1,
		UserID:    42,
		StaffID:   &staffA.ID,
		StartTime: start,
		EndTime:   end,
		Status:    domain.StatusScheduled,
	}
	snap.Appointments = append(snap.Appointments, appt)

	// 紧随其后的 10:15 - 10:45 与已有预约冲突
	start2, end2, dur2 := slot(10, 15, 10, 45)
	requireRejection(t, CheckSlot(snap, staffA.ID, start2, end2, dur2), "已有其他预约")

	// 开场前一小时取消，不足三小时提前量，记一次违约
	now := appt.StartTime.Add(-time.Hour)
	strikeIssued, err := EvaluateCancellation(appt, 42, now, 3*time.Hour)
	require.NoError(t, err)
	assert.True(t, strikeIssued)

	// 取消后该时段重新可约
	appt.Status = domain.StatusCancelled
	assert.NoError(t, CheckSlot(snap, staffA.ID, start2, end2, dur2))

	// 已取消的预约不能再次取消或标记完成
	_, err = EvaluateCancellation(appt, 42, now, 3*time.Hour)
	requireRejection(t, err, "无法取消")
	requireRejection(t, ValidateStatusTransition(appt.Status, domain.StatusCompleted), "无法变更")
}
