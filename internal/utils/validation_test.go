package utils

import (
	"testing"

	"github.com/meiyue-dev/salon-marketplace/backend/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestValidateOperatingSchedule(t *testing.T) {
	tests := []struct {
		name     string
		schedule domain.OperatingSchedule
		wantErr  bool
	}{
		{"正常营业时间", domain.OperatingSchedule{OpeningTime: "09:00:00", ClosingTime: "20:00:00"}, false},
		{"跨夜营业", domain.OperatingSchedule{OpeningTime: "22:00:00", ClosingTime: "02:00:00"}, false},
		{"不带秒的格式", domain.OperatingSchedule{OpeningTime: "09:00", ClosingTime: "20:00"}, false},
		{"开关店时间相同", domain.OperatingSchedule{OpeningTime: "09:00:00", ClosingTime: "09:00:00"}, true},
		{"格式错误", domain.OperatingSchedule{OpeningTime: "9 点", ClosingTime: "20:00:00"}, true},
		{"休息日重复", domain.OperatingSchedule{OpeningTime: "09:00:00", ClosingTime: "20:00:00", ClosedWeekdays: []int32{1, 1}}, true},
		{"全周休息", domain.OperatingSchedule{OpeningTime: "09:00:00", ClosingTime: "20:00:00", ClosedWeekdays: []int32{0, 1, 2, 3, 4, 5, 6}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOperatingSchedule(&tt.schedule)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateClosure(t *testing.T) {
	tests := []struct {
		name    string
		closure domain.ClosureModification
		wantErr bool
	}{
		{
			"一次性全天停业",
			domain.ClosureModification{Kind: domain.ClosureOnce, Date: "2026-05-01", ClosureType: domain.ClosureFullDay},
			false,
		},
		{
			"每周重复的时间段停业",
			domain.ClosureModification{Kind: domain.ClosureRecurring, WeekdayIndex: 1, ClosureType: domain.ClosureInterval, IntervalStart: "14:00:00", IntervalEnd: "16:00:00"},
			false,
		},
		{
			"跨夜时间段",
			domain.ClosureModification{Kind: domain.ClosureOnce, Date: "2026-05-01", ClosureType: domain.ClosureInterval, IntervalStart: "23:00:00", IntervalEnd: "01:00:00"},
			false,
		},
		{
			"一次性停业缺日期",
			domain.ClosureModification{Kind: domain.ClosureOnce, ClosureType: domain.ClosureFullDay},
			true,
		},
		{
			"日期格式错误",
			domain.ClosureModification{Kind: domain.ClosureOnce, Date: "05/01", ClosureType: domain.ClosureFullDay},
			true,
		},
		{
			"每周重复不能带日期",
			domain.ClosureModification{Kind: domain.ClosureRecurring, Date: "2026-05-01", WeekdayIndex: 1, ClosureType: domain.ClosureFullDay},
			true,
		},
		{
			"全天停业不能带时间段",
			domain.ClosureModification{Kind: domain.ClosureOnce, Date: "2026-05-01", ClosureType: domain.ClosureFullDay, IntervalStart: "14:00:00", IntervalEnd: "16:00:00"},
			true,
		},
		{
			"时间段起止相同",
			domain.ClosureModification{Kind: domain.ClosureOnce, Date: "2026-05-01", ClosureType: domain.ClosureInterval, IntervalStart: "14:00:00", IntervalEnd: "14:00:00"},
			true,
		},
		{
			"时间段起止颠倒",
			domain.ClosureModification{Kind: domain.ClosureOnce, Date: "2026-05-01", ClosureType: domain.ClosureInterval, IntervalStart: "16:00:00", IntervalEnd: "14:00:00"},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateClosure(&tt.closure)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateBreak(t *testing.T) {
	assert.NoError(t, ValidateBreak(&domain.Break{StartTime: "12:00:00", EndTime: "13:00:00"}))
	assert.NoError(t, ValidateBreak(&domain.Break{StartTime: "23:30:00", EndTime: "00:30:00"})) // 跨夜
	assert.Error(t, ValidateBreak(&domain.Break{StartTime: "12:00:00", EndTime: "12:00:00"}))
	assert.Error(t, ValidateBreak(&domain.Break{StartTime: "16:00:00", EndTime: "14:00:00"}))
	assert.Error(t, ValidateBreak(&domain.Break{StartTime: "中午", EndTime: "13:00:00"}))
}

func TestGenerateUsernameFromChineseName(t *testing.T) {
	username := GenerateUsernameFromChineseName("张伟")
	assert.NotEmpty(t, username)
	// 用户名只由拼音和数字组成
	for _, r := range username {
		assert.True(t, (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'), "unexpected rune %q", r)
	}
}

func TestGenerateRandomOTP(t *testing.T) {
	otp := GenerateRandomOTP()
	assert.Len(t, otp, 6)
}
