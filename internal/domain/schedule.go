package domain

import (
	"database/sql"
	"time"
)

// OperatingSchedule 是门店的基础营业时间，每个门店只有一条。
// 当 ClosingTime 小于等于 OpeningTime 时表示跨夜营业（例如 22:00 - 02:00）。
type OperatingSchedule struct {
	ID             int64     `json:"id"`
	SalonID        int64     `json:"salonID"`
	OpeningTime    string    `json:"openingTime"`
	ClosingTime    string    `json:"closingTime"`
	ClosedWeekdays []int32   `json:"closedWeekdays"` // 0 表示周日
	CreatedAt      time.Time `json:"createdAt"`
	Version        int32     `json:"-"`
}

type ClosureKind string

const (
	ClosureOnce      ClosureKind = "once"
	ClosureRecurring ClosureKind = "recurring"
)

type ClosureType string

const (
	ClosureFullDay  ClosureType = "full_day"
	ClosureInterval ClosureType = "interval"
)

// ClosureModification 表示对基础营业时间的一次临时调整。
// Kind 为 once 时按 Date 生效，为 recurring 时按 WeekdayIndex 每周生效。
type ClosureModification struct {
	ID            int64       `json:"id"`
	SalonID       int64       `json:"salonID"`
	Kind          ClosureKind `json:"kind"`
	Date          string      `json:"date,omitempty"` // 格式 2006-01-02，仅 once 使用
	WeekdayIndex  int32       `json:"weekdayIndex"`   // 仅 recurring 使用
	ClosureType   ClosureType `json:"closureType"`
	IntervalStart string      `json:"intervalStart,omitempty"` // 仅 interval 使用
	IntervalEnd   string      `json:"intervalEnd,omitempty"`
	StaffScope    StaffScope  `json:"staffScope"`
	CreatedAt     time.Time   `json:"createdAt"`
	Version       int32       `json:"-"`
}

// Break 是每天固定重复的休息时间，不绑定具体日期
type Break struct {
	ID         int64      `json:"id"`
	SalonID    int64      `json:"salonID"`
	StartTime  string     `json:"startTime"`
	EndTime    string     `json:"endTime"`
	StaffScope StaffScope `json:"staffScope"`
	CreatedAt  time.Time  `json:"createdAt"`
	Version    int32      `json:"-"`
}

// StaffScope 表示规则的作用范围：整个门店或某个员工。
// 内部用 0 作为「全店」的哨兵值，真实员工 id 从 1 开始。
type StaffScope struct {
	StaffID int64 `json:"staffID"`
}

func ScopeAll() StaffScope {
	return StaffScope{StaffID: 0}
}

func ScopeStaff(id int64) StaffScope {
	return StaffScope{StaffID: id}
}

func ScopeFromNullInt64(v sql.NullInt64) StaffScope {
	if !v.Valid {
		return ScopeAll()
	}
	return StaffScope{StaffID: v.Int64}
}

func (s StaffScope) IsAll() bool {
	return s.StaffID == 0
}

// AppliesTo 判断规则是否作用于指定员工。
// 传入 0（即「任意员工」）时只有全店范围的规则才生效。
func (s StaffScope) AppliesTo(staffID int64) bool {
	return s.IsAll() || s.StaffID == staffID
}

// NullInt64 用于写库，全店范围存为 NULL
func (s StaffScope) NullInt64() sql.NullInt64 {
	if s.IsAll() {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: s.StaffID, Valid: true}
}
