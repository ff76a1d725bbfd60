package domain

import "time"

type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "scheduled"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusAbsent    AppointmentStatus = "absent"
)

var statusLabels = map[AppointmentStatus]string{
	StatusScheduled: "已预约",
	StatusCompleted: "已完成",
	StatusCancelled: "已取消",
	StatusAbsent:    "已爽约",
}

func (s AppointmentStatus) Label() string {
	if label, exists := statusLabels[s]; exists {
		return label
	}
	return string(s)
}

// IsTerminal 返回该状态是否为最终状态（非 scheduled 的状态都不允许再变更）
func (s AppointmentStatus) IsTerminal() bool {
	return s != StatusScheduled
}

// Appointment 是已提交的预约。预约一旦创建就不允许改期，
// 只能取消后重新预约。StaffID 为 nil 表示尚未指派员工。
type Appointment struct {
	ID        int64             `json:"id"`
	SalonID   int64             `json:"salonID"`
	UserID    int64             `json:"userID"`
	StaffID   *int64            `json:"staffID"`
	ServiceID int64             `json:"serviceID"` // 主服务，即第一条服务明细
	StartTime time.Time         `json:"startTime"`
	EndTime   time.Time         `json:"endTime"`
	Status    AppointmentStatus `json:"status"`
	Price     int64             `json:"price"` // 所有服务明细价格之和
	CreatedAt time.Time         `json:"createdAt"`
	Version   int32             `json:"-"`
}

// AppointmentServiceLine 是预约中实际购买的单个服务，
// 同一预约中每个服务至多出现一次
type AppointmentServiceLine struct {
	ID            int64 `json:"id"`
	AppointmentID int64 `json:"appointmentID"`
	ServiceID     int64 `json:"serviceID"`
	Price         int64 `json:"price"`
}
