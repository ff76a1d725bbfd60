package engine

import (
	"time"

	"github.com/meiyue-dev/salon-marketplace/backend/internal/domain"
)

// AnyStaff 表示顾客没有指定员工，由系统自动分配。
// 0 是保留的哨兵值，真实员工 id 不会与其冲突
const AnyStaff int64 = 0

// SlotStepMinutes 是预约起始时间的对齐粒度
const SlotStepMinutes = 30

// DefaultLeadTimeMinutes 是当天预约要求的最短提前量
const DefaultLeadTimeMinutes = 30

// Snapshot 是某个门店在某一天的全部可用性规则的只读快照。
// Closures 必须已经按日期（once 按 Date、recurring 按星期）过滤过，
// Appointments 只包含当天 scheduled 状态的预约。
// 预约事务中由仓储层在同一事务内加载，保证与写入原子一致。
type Snapshot struct {
	SalonID         int64
	Date            time.Time // 候选时段起点所在的自然日
	Now             time.Time
	LeadTimeMinutes int
	Schedule        *domain.OperatingSchedule // 为 nil 时表示门店尚未配置营业时间
	Closures        []*domain.ClosureModification
	Breaks          []*domain.Break
	Staff           []*domain.Staff
	Appointments    []*domain.Appointment
}

func (s *Snapshot) leadTime() time.Duration {
	minutes := s.LeadTimeMinutes
	if minutes <= 0 {
		minutes = DefaultLeadTimeMinutes
	}
	return time.Duration(minutes) * time.Minute
}
