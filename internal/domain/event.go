package domain

import "time"

const (
	EventBookingCreated   = "booking_created"
	EventBookingCancelled = "booking_cancelled"
	EventStatusUpdated    = "status_updated"
)

// EventMessage 是引擎对外发出的领域事件，写库提交后再发送，
// 发送失败只记录日志，绝不影响预约本身
type EventMessage struct {
	Type    string `json:"type"`
	SalonID int64  `json:"salonID"`
	Data    any    `json:"data"`
}

type BookingCreatedData struct {
	AppointmentID int64     `json:"appointmentID"`
	SalonID       int64     `json:"salonID"`
	UserID        int64     `json:"userID"`
	StaffID       *int64    `json:"staffID"`
	StaffName     string    `json:"staffName"` // 用于前端直接展示
	StartTime     time.Time `json:"startTime"`
	EndTime       time.Time `json:"endTime"`
	ServiceCount  int       `json:"serviceCount"`
}

type BookingCancelledData struct {
	AppointmentID int64     `json:"appointmentID"`
	SalonID       int64     `json:"salonID"`
	UserID        int64     `json:"userID"`
	StartTime     time.Time `json:"startTime"`
	EndTime       time.Time `json:"endTime"`
	StrikeIssued  bool      `json:"strikeIssued"`
}

type StatusUpdatedData struct {
	AppointmentID int64             `json:"appointmentID"`
	SalonID       int64             `json:"salonID"`
	UserID        int64             `json:"userID"`
	Status        AppointmentStatus `json:"status"`
}
