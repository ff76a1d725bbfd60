package engine

import (
	"sort"
	"time"

	"github.com/meiyue-dev/salon-marketplace/backend/internal/domain"
)

// checkCapacity 处理「任意员工」的容量检查。
// 这里只判断是否还有余量，不指定具体员工，
// 具体由谁服务由预约事务中的 Allocate 决定，避免在锁内做两次分配。
//
// 容量规则：空闲员工数必须大于当前重叠的未指派预约数，
// 每条未指派的预约都被视为占用了一个还没点名的员工名额。
// 门店没有任何员工时退化为单资源模型，只要有重叠的未指派预约就拒绝
func checkCapacity(snap *Snapshot, startMin, endMin int) error {
	if len(snap.Staff) == 0 {
		if genericOverlapCount(snap, startMin, endMin) > 0 {
			return Reject("该时段已被预约")
		}
		return nil
	}

	availableCount := 0
	for _, staff := range snap.Staff {
		if !staffBusy(snap, staff.ID, startMin, endMin) {
			availableCount++
		}
	}

	if availableCount <= genericOverlapCount(snap, startMin, endMin) {
		return Reject("该时段已约满")
	}
	return nil
}

// Allocate 在容量检查通过后为「任意员工」的预约点名：
// 按员工 id 稳定排序遍历花名册，返回第一个在该时段没有
// 直接指派预约的员工。
//
// 注意容量检查是按数量估算的，不保证某个具体员工一定空闲，
// 所以这里仍可能找不到人，此时预约会被整体拒绝、不写入任何数据
func Allocate(snap *Snapshot, start, end time.Time) (*domain.Staff, error) {
	startMin := ExtendOvernight(ToSlotMinutes(start))
	endMin := ExtendOvernight(ToSlotMinutes(end))

	roster := make([]*domain.Staff, len(snap.Staff))
	copy(roster, snap.Staff)
	sort.Slice(roster, func(i, j int) bool {
		return roster[i].ID < roster[j].ID
	})

	for _, staff := range roster {
		if !staffBusy(snap, staff.ID, startMin, endMin) {
			return staff, nil
		}
	}

	return nil, Reject("暂无可安排的员工")
}

func staffBusy(snap *Snapshot, staffID int64, startMin, endMin int) bool {
	for _, a := range snap.Appointments {
		if a.Status != domain.StatusScheduled {
			continue
		}
		if a.StaffID == nil || *a.StaffID != staffID {
			continue
		}
		apptStart, apptEnd := appointmentMinutes(a)
		if Overlaps(startMin, endMin, apptStart, apptEnd) {
			return true
		}
	}
	return false
}

func genericOverlapCount(snap *Snapshot, startMin, endMin int) int {
	count := 0
	for _, a := range snap.Appointments {
		if a.Status != domain.StatusScheduled || a.StaffID != nil {
			continue
		}
		apptStart, apptEnd := appointmentMinutes(a)
		if Overlaps(startMin, endMin, apptStart, apptEnd) {
			count++
		}
	}
	return count
}
