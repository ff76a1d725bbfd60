package domain

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type ResetPasswordMailData struct {
	FullName   string `json:"fullName"`
	OTP        string `json:"otp"`
	Expiration int    `json:"expiration"`
}

type SameDayBookingMailData struct {
	SalonName string `json:"salonName"`
	StaffName string `json:"staffName"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Cancelled bool   `json:"cancelled"`
}
