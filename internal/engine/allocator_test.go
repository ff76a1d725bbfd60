package engine

import (
	"testing"
	"time"

	"github.com/meiyue-dev/salon-marketplace/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scheduledAppointment(staffID *int64, start, end time.Time) *domain.Appointment {
	return &domain.Appointment{
		SalonID:   1,
		StaffID:   staffID,
		StartTime: start,
		EndTime:   end,
		Status:    domain.StatusScheduled,
	}
}

func TestAllocatePicksLowestFreeStaff(t *testing.T) {
	snap := newSnapshot("09:00:00", "20:00:00")
	// 花名册故意乱序，分配必须按 id 稳定排序
	snap.Staff = []*domain.Staff{{ID: 7, SalonID: 1}, {ID: 5, SalonID: 1}, {ID: 9, SalonID: 1}}

	staff, err := Allocate(snap, at(10, 0), at(11, 0))
	require.NoError(t, err)
	assert.Equal(t, int64(5), staff.ID)
}

func TestAllocateSkipsBusyStaff(t *testing.T) {
	snap := newSnapshot("09:00:00", "20:00:00")
	snap.Staff = []*domain.Staff{{ID: 5, SalonID: 1}, {ID: 7, SalonID: 1}}
	busyID := int64(5)
	snap.Appointments = []*domain.Appointment{
		scheduledAppointment(&busyID, at(10, 0), at(11, 0)),
	}

	staff, err := Allocate(snap, at(10, 30), at(11, 30))
	require.NoError(t, err)
	assert.Equal(t, int64(7), staff.ID)
}

func TestAllocateAllBusy(t *testing.T) {
	snap := newSnapshot("09:00:00", "20:00:00")
	snap.Staff = []*domain.Staff{{ID: 5, SalonID: 1}, {ID: 7, SalonID: 1}}
	id5, id7 := int64(5), int64(7)
	snap.Appointments = []*domain.Appointment{
		scheduledAppointment(&id5, at(10, 0), at(11, 0)),
		scheduledAppointment(&id7, at(10, 0), at(11, 0)),
	}

	_, err := Allocate(snap, at(10, 0), at(11, 0))
	requireRejection(t, err, "暂无可安排的员工")
}

func TestCapacityCountsGenericAppointments(t *testing.T) {
	snap := newSnapshot("09:00:00", "20:00:00")
	snap.Staff = []*domain.Staff{{ID: 5, SalonID: 1}, {ID: 7, SalonID: 1}}
	// 一条还没点名的预约占掉一个名额，两名员工还能再接一单
	snap.Appointments = []*domain.Appointment{
		scheduledAppointment(nil, at(10, 0), at(11, 0)),
	}

	start, end, dur := slot(10, 0, 11, 0)
	assert.NoError(t, CheckSlot(snap, AnyStaff, start, end, dur))

	// 第二条未指派预约把容量占满
	snap.Appointments = append(snap.Appointments,
		scheduledAppointment(nil, at(10, 30), at(11, 30)))
	requireRejection(t, CheckSlot(snap, AnyStaff, start, end, dur), "该时段已约满")
}

func TestCapacityMixedAssignments(t *testing.T) {
	snap := newSnapshot("09:00:00", "20:00:00")
	snap.Staff = []*domain.Staff{{ID: 5, SalonID: 1}, {ID: 7, SalonID: 1}}
	busyID := int64(5)
	// 员工 5 已被直接指派，剩余一个空闲名额被未指派预约占用
	snap.Appointments = []*domain.Appointment{
		scheduledAppointment(&busyID, at(10, 0), at(11, 0)),
		scheduledAppointment(nil, at(10, 0), at(11, 0)),
	}

	start, end, dur := slot(10, 0, 11, 0)
	requireRejection(t, CheckSlot(snap, AnyStaff, start, end, dur), "该时段已约满")

	// 错开时段后恢复可约
	start, end, dur = slot(11, 0, 12, 0)
	assert.NoError(t, CheckSlot(snap, AnyStaff, start, end, dur))
}

func TestCapacityWithoutRoster(t *testing.T) {
	// 没有员工花名册的门店按单资源处理
	snap := newSnapshot("09:00:00", "20:00:00")

	start, end, dur := slot(10, 0, 11, 0)
	assert.NoError(t, CheckSlot(snap, AnyStaff, start, end, dur))

	snap.Appointments = []*domain.Appointment{
		scheduledAppointment(nil, at(10, 30), at(11, 30)),
	}
	requireRejection(t, CheckSlot(snap, AnyStaff, start, end, dur), "该时段已被预约")
}
