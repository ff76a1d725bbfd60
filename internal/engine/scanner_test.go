package engine

import (
	"testing"
	"time"

	"github.com/meiyue-dev/salon-marketplace/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 固定一个测试日，Now 放在前一天，避免提前量检查干扰其他用例
var testDay = time.Date(2026, 4, 15, 0, 0, 0, 0, time.Local)

func newSnapshot(opening, closing string) *Snapshot {
	return &Snapshot{
		SalonID:         1,
		Date:            testDay,
		Now:             testDay.AddDate(0, 0, -1),
		LeadTimeMinutes: 30,
		Schedule: &domain.OperatingSchedule{
			SalonID:     1,
			OpeningTime: opening,
			ClosingTime: closing,
		},
	}
}

func at(hour, min int) time.Time {
	return time.Date(testDay.Year(), testDay.Month(), testDay.Day(), hour, min, 0, 0, testDay.Location())
}

// slot 构造候选时段，end 的时钟早于 start 时落到次日
func slot(startHour, startMin, endHour, endMin int) (time.Time, time.Time, time.Duration) {
	start := at(startHour, startMin)
	end := at(endHour, endMin)
	if !start.Before(end) {
		end = end.AddDate(0, 0, 1)
	}
	return start, end, end.Sub(start)
}

func requireRejection(t *testing.T, err error, reason string) {
	t.Helper()
	rejection, ok := AsRejection(err)
	require.True(t, ok, "expected rejection, got %v", err)
	assert.Contains(t, rejection.Reason, reason)
}

func TestCheckSlotInvalidRange(t *testing.T) {
	snap := newSnapshot("09:00:00", "20:00:00")

	err := CheckSlot(snap, AnyStaff, at(10, 0), at(10, 0), 0)
	requireRejection(t, err, "无效的预约时间段")
}

func TestCheckSlotDurationMismatch(t *testing.T) {
	snap := newSnapshot("09:00:00", "20:00:00")

	// 区间一小时，但声明的服务总时长是 90 分钟
	err := CheckSlot(snap, AnyStaff, at(10, 0), at(11, 0), 90*time.Minute)
	requireRejection(t, err, "预约时长与所选服务的总时长不符")
}

func TestCheckSlotNoSchedule(t *testing.T) {
	snap := newSnapshot("09:00:00", "20:00:00")
	snap.Schedule = nil

	start, end, dur := slot(10, 0, 11, 0)
	err := CheckSlot(snap, AnyStaff, start, end, dur)
	requireRejection(t, err, "该门店尚未配置营业时间")
}

func TestCheckSlotOperatingHours(t *testing.T) {
	snap := newSnapshot("09:00:00", "20:00:00")

	tests := []struct {
		name       string
		start, end time.Time
		wantReject bool
	}{
		{"营业中", at(10, 0), at(11, 0), false},
		{"贴着开店时间", at(9, 0), at(10, 0), false},
		{"贴着关店时间", at(19, 0), at(20, 0), false},
		{"早于开店", at(8, 30), at(9, 30), true},
		{"跨过关店", at(19, 30), at(20, 30), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckSlot(snap, AnyStaff, tt.start, tt.end, tt.end.Sub(tt.start))
			if tt.wantReject {
				requireRejection(t, err, "不在营业时间内")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCheckSlotOvernightWindow(t *testing.T) {
	// 22:00 - 02:00 跨夜营业
	snap := newSnapshot("22:00:00", "02:00:00")

	tests := []struct {
		name                           string
		startHour, startMin            int
		endHour, endMin                int
		wantReject                     bool
	}{
		{"跨过零点", 23, 30, 0, 30, false},
		{"整窗", 22, 0, 2, 0, false},
		{"零点后的尾段", 1, 0, 2, 0, false},
		{"凌晨三点已打烊", 3, 0, 4, 0, true},
		{"白天不营业", 10, 0, 11, 0, true},
		{"跨过关店时间", 1, 30, 2, 30, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, dur := slot(tt.startHour, tt.startMin, tt.endHour, tt.endMin)
			err := CheckSlot(snap, AnyStaff, start, end, dur)
			if tt.wantReject {
				requireRejection(t, err, "不在营业时间内")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCheckSlotClosedWeekday(t *testing.T) {
	snap := newSnapshot("09:00:00", "20:00:00")
	snap.Schedule.ClosedWeekdays = []int32{int32(testDay.Weekday())}

	start, end, dur := slot(10, 0, 11, 0)
	err := CheckSlot(snap, AnyStaff, start, end, dur)
	requireRejection(t, err, "不营业")
}

func TestCheckSlotLeadTime(t *testing.T) {
	snap := newSnapshot("09:00:00", "20:00:00")
	// 当天 10:05 下单，提前量 30 分钟，最早可约的对齐点是 11:00
	snap.Now = at(10, 5)

	start, end, dur := slot(10, 30, 11, 30)
	err := CheckSlot(snap, AnyStaff, start, end, dur)
	requireRejection(t, err, "预约时间过近")

	start, end, dur = slot(11, 0, 12, 0)
	assert.NoError(t, CheckSlot(snap, AnyStaff, start, end, dur))
}

func TestCheckSlotLeadTimeOnlySameDay(t *testing.T) {
	snap := newSnapshot("09:00:00", "20:00:00")
	snap.Now = at(19, 0).AddDate(0, 0, -1) // 预约的是明天，不受提前量限制

	start, end, dur := slot(9, 0, 10, 0)
	assert.NoError(t, CheckSlot(snap, AnyStaff, start, end, dur))
}

func TestCheckSlotFullDayClosure(t *testing.T) {
	snap := newSnapshot("09:00:00", "20:00:00")
	// 全天停业即使写了员工范围也对整个门店生效
	snap.Closures = []*domain.ClosureModification{
		{
			SalonID:     1,
			Kind:        domain.ClosureOnce,
			Date:        testDay.Format("2006-01-02"),
			ClosureType: domain.ClosureFullDay,
			StaffScope:  domain.ScopeStaff(5),
		},
	}

	start, end, dur := slot(10, 0, 11, 0)
	requireRejection(t, CheckSlot(snap, AnyStaff, start, end, dur), "当天暂停营业")
	requireRejection(t, CheckSlot(snap, 7, start, end, dur), "当天暂停营业")
}

func TestCheckSlotIntervalClosure(t *testing.T) {
	snap := newSnapshot("09:00:00", "20:00:00")
	snap.Staff = []*domain.Staff{{ID: 5, SalonID: 1}, {ID: 7, SalonID: 1}}
	// 员工 5 下午外出
	snap.Closures = []*domain.ClosureModification{
		{
			SalonID:       1,
			Kind:          domain.ClosureOnce,
			Date:          testDay.Format("2006-01-02"),
			ClosureType:   domain.ClosureInterval,
			IntervalStart: "14:00:00",
			IntervalEnd:   "16:00:00",
			StaffScope:    domain.ScopeStaff(5),
		},
	}

	start, end, dur := slot(14, 30, 15, 30)
	requireRejection(t, CheckSlot(snap, 5, start, end, dur), "暂停服务")
	assert.NoError(t, CheckSlot(snap, 7, start, end, dur))
	// 不指定员工时，单个员工的停业不影响整体可约性
	assert.NoError(t, CheckSlot(snap, AnyStaff, start, end, dur))

	// 全店范围的停业对所有人生效
	snap.Closures[0].StaffScope = domain.ScopeAll()
	requireRejection(t, CheckSlot(snap, 7, start, end, dur), "暂停服务")
	requireRejection(t, CheckSlot(snap, AnyStaff, start, end, dur), "暂停服务")
}

func TestCheckSlotBreaks(t *testing.T) {
	snap := newSnapshot("09:00:00", "20:00:00")
	snap.Breaks = []*domain.Break{
		{SalonID: 1, StartTime: "12:00:00", EndTime: "13:00:00", StaffScope: domain.ScopeAll()},
	}

	start, end, dur := slot(12, 30, 13, 30)
	requireRejection(t, CheckSlot(snap, AnyStaff, start, end, dur), "休息时间")

	// 首尾相接不算冲突
	start, end, dur = slot(13, 0, 14, 0)
	assert.NoError(t, CheckSlot(snap, AnyStaff, start, end, dur))
}

func TestCheckSlotStaffConflict(t *testing.T) {
	snap := newSnapshot("09:00:00", "20:00:00")
	staffID := int64(5)
	snap.Staff = []*domain.Staff{{ID: 5, SalonID: 1}, {ID: 7, SalonID: 1}}
	snap.Appointments = []*domain.Appointment{
		{
			SalonID:   1,
			StaffID:   &staffID,
			StartTime: at(12, 0),
			EndTime:   at(13, 0),
			Status:    domain.StatusScheduled,
		},
	}

	start, end, dur := slot(12, 30, 13, 30)
	requireRejection(t, CheckSlot(snap, 5, start, end, dur), "已有其他预约")
	assert.NoError(t, CheckSlot(snap, 7, start, end, dur))

	// 紧接在已有预约之后可以约
	start, end, dur = slot(13, 0, 14, 0)
	assert.NoError(t, CheckSlot(snap, 5, start, end, dur))
}

func TestCheckSlotIgnoresCancelledAppointments(t *testing.T) {
	snap := newSnapshot("09:00:00", "20:00:00")
	staffID := int64(5)
	snap.Staff = []*domain.Staff{{ID: 5, SalonID: 1}}
	snap.Appointments = []*domain.Appointment{
		{
			SalonID:   1,
			StaffID:   &staffID,
			StartTime: at(12, 0),
			EndTime:   at(13, 0),
			Status:    domain.StatusCancelled,
		},
	}

	start, end, dur := slot(12, 0, 13, 0)
	assert.NoError(t, CheckSlot(snap, 5, start, end, dur))
}
