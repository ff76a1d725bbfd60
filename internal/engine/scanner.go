package engine

import (
	"slices"
	"time"

	"github.com/meiyue-dev/salon-marketplace/backend/internal/domain"
)

var weekdayNames = [...]string{"日", "一", "二", "三", "四", "五", "六"}

// CheckSlot 判断候选时段对指定员工（或任意员工）是否合法。
// 按固定顺序执行各项检查，第一个失败的检查即为拒绝原因，
// 整个过程没有任何副作用。staffID 传 AnyStaff 表示不指定员工。
// totalServiceDuration 是调用方声明的所选服务总时长
func CheckSlot(snap *Snapshot, staffID int64, start, end time.Time, totalServiceDuration time.Duration) error {
	if !start.Before(end) {
		return Reject("无效的预约时间段")
	}

	// 时长必须和所选服务的总时长完全一致。
	// 时间区间是客户端自己算出来的，这里防御过期或被篡改的请求
	if end.Sub(start) != totalServiceDuration {
		return Reject("预约时长与所选服务的总时长不符")
	}

	if snap.Schedule == nil {
		return Reject("该门店尚未配置营业时间")
	}

	if err := checkClosedWeekday(snap, start); err != nil {
		return err
	}

	startMin := ExtendOvernight(ToSlotMinutes(start))
	endMin := ExtendOvernight(ToSlotMinutes(end))

	if err := checkOperatingHours(snap, startMin, endMin); err != nil {
		return err
	}
	if err := checkLeadTime(snap, start, startMin); err != nil {
		return err
	}
	if err := checkFullDayClosures(snap); err != nil {
		return err
	}
	if err := checkIntervalClosures(snap, staffID, startMin, endMin); err != nil {
		return err
	}
	if err := checkBreaks(snap, staffID, startMin, endMin); err != nil {
		return err
	}

	if staffID != AnyStaff {
		return checkStaffConflict(snap, staffID, startMin, endMin)
	}
	return checkCapacity(snap, startMin, endMin)
}

func checkClosedWeekday(snap *Snapshot, start time.Time) error {
	weekday := int32(start.Weekday())
	if slices.Contains(snap.Schedule.ClosedWeekdays, weekday) {
		return Reject("该门店周%s不营业", weekdayNames[weekday])
	}
	return nil
}

func checkOperatingHours(snap *Snapshot, startMin, endMin int) error {
	openMin := ExtendOvernight(ToMinutes(snap.Schedule.OpeningTime))
	closeMin := ExtendOvernight(ToMinutes(snap.Schedule.ClosingTime))

	if startMin < openMin || endMin > closeMin {
		return Reject("不在营业时间内（%s - %s）", snap.Schedule.OpeningTime, snap.Schedule.ClosingTime)
	}
	return nil
}

// 当天的预约最早只能从「现在 + 提前量」之后的下一个对齐点开始，
// 给门店留出准备时间
func checkLeadTime(snap *Snapshot, start time.Time, startMin int) error {
	if !sameCalendarDay(start, snap.Now) {
		return nil
	}

	earliest := snap.Now.Add(snap.leadTime())
	earliestMin := ExtendOvernight(ToSlotMinutes(earliest))
	earliestMin = (earliestMin + SlotStepMinutes - 1) / SlotStepMinutes * SlotStepMinutes

	if startMin < earliestMin {
		return Reject("预约时间过近，请至少提前 %d 分钟", snap.LeadTimeMinutes)
	}
	return nil
}

// 全天停业对整个门店生效，不区分员工
func checkFullDayClosures(snap *Snapshot) error {
	for _, c := range snap.Closures {
		if c.ClosureType == domain.ClosureFullDay {
			return Reject("该门店当天暂停营业")
		}
	}
	return nil
}

func checkIntervalClosures(snap *Snapshot, staffID int64, startMin, endMin int) error {
	for _, c := range snap.Closures {
		if c.ClosureType != domain.ClosureInterval {
			continue
		}
		if !c.StaffScope.AppliesTo(staffID) {
			continue
		}
		closureStart := ExtendOvernight(ToMinutes(c.IntervalStart))
		closureEnd := ExtendOvernight(ToMinutes(c.IntervalEnd))
		if Overlaps(startMin, endMin, closureStart, closureEnd) {
			return Reject("该时段门店暂停服务（%s - %s）", c.IntervalStart, c.IntervalEnd)
		}
	}
	return nil
}

func checkBreaks(snap *Snapshot, staffID int64, startMin, endMin int) error {
	for _, b := range snap.Breaks {
		if !b.StaffScope.AppliesTo(staffID) {
			continue
		}
		breakStart := ExtendOvernight(ToMinutes(b.StartTime))
		breakEnd := ExtendOvernight(ToMinutes(b.EndTime))
		if Overlaps(startMin, endMin, breakStart, breakEnd) {
			return Reject("该时段为休息时间（%s - %s）", b.StartTime, b.EndTime)
		}
	}
	return nil
}

// 指定了具体员工时，只需检查该员工自己的预约
func checkStaffConflict(snap *Snapshot, staffID int64, startMin, endMin int) error {
	for _, a := range snap.Appointments {
		if a.Status != domain.StatusScheduled {
			continue
		}
		if a.StaffID == nil || *a.StaffID != staffID {
			continue
		}
		apptStart, apptEnd := appointmentMinutes(a)
		if Overlaps(startMin, endMin, apptStart, apptEnd) {
			return Reject("该员工在此时段已有其他预约")
		}
	}
	return nil
}

func appointmentMinutes(a *domain.Appointment) (int, int) {
	return ExtendOvernight(ToSlotMinutes(a.StartTime)), ExtendOvernight(ToSlotMinutes(a.EndTime))
}
