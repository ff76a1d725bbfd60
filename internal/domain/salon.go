package domain

import "time"

type Salon struct {
	ID        int64     `json:"id"`
	OwnerID   int64     `json:"ownerID"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"createdAt"`
	Version   int32     `json:"-"`
}

type Staff struct {
	ID        int64     `json:"id"`
	SalonID   int64     `json:"salonID"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	Version   int32     `json:"-"`
}

// Service 是门店提供的单个服务项目，时长以分钟计，价格以分计
type Service struct {
	ID        int64     `json:"id"`
	SalonID   int64     `json:"salonID"`
	Name      string    `json:"name"`
	Duration  int32     `json:"duration"`
	Price     int64     `json:"price"`
	CreatedAt time.Time `json:"createdAt"`
	Version   int32     `json:"-"`
}
