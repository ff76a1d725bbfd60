package domain

import (
	"time"
)

type Role string

const (
	RoleCustomer   Role = "顾客"
	RoleSalonOwner Role = "店主"
	RoleAdmin      Role = "管理员"
)

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Role         Role      `json:"role"`
	Strikes      int32     `json:"strikes"` // 迟到取消或爽约累计的违约次数
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	Version      int32     `json:"-"`
}
