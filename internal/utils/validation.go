package utils

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/meiyue-dev/salon-marketplace/backend/internal/domain"
	"github.com/meiyue-dev/salon-marketplace/backend/internal/engine"
)

func parseClockTime(value string) (time.Time, error) {
	if t, err := time.Parse("15:04:05", value); err == nil {
		return t, nil
	}
	return time.Parse("15:04", value)
}

// ValidateOperatingSchedule 校验营业时间配置。
// 开店和关店时间相等没有意义，跨夜（关店时间小于开店时间）是允许的
func ValidateOperatingSchedule(schedule *domain.OperatingSchedule) error {
	opening, err := parseClockTime(schedule.OpeningTime)
	if err != nil {
		return errors.New("开店时间格式错误")
	}
	closing, err := parseClockTime(schedule.ClosingTime)
	if err != nil {
		return errors.New("关店时间格式错误")
	}
	if opening.Equal(closing) {
		return errors.New("开店时间和关店时间不能相同")
	}

	seen := make(map[int32]bool)
	for _, weekday := range schedule.ClosedWeekdays {
		if seen[weekday] {
			return fmt.Errorf("休息日 %d 重复", weekday)
		}
		seen[weekday] = true
	}
	if len(seen) >= 7 {
		return errors.New("不能把一周七天都设为休息日")
	}

	return nil
}

func ValidateClosure(closure *domain.ClosureModification) error {
	switch closure.Kind {
	case domain.ClosureOnce:
		if closure.Date == "" {
			return errors.New("一次性停业必须指定日期")
		}
		if _, err := time.Parse("2006-01-02", closure.Date); err != nil {
			return errors.New("停业日期格式错误，应为 2006-01-02")
		}
	case domain.ClosureRecurring:
		if closure.Date != "" {
			return errors.New("每周重复的停业不能指定日期")
		}
		if !slices.Contains([]int32{0, 1, 2, 3, 4, 5, 6}, closure.WeekdayIndex) {
			return errors.New("停业的星期索引无效")
		}
	}

	switch closure.ClosureType {
	case domain.ClosureFullDay:
		if closure.IntervalStart != "" || closure.IntervalEnd != "" {
			return errors.New("全天停业不能指定时间段")
		}
	case domain.ClosureInterval:
		if _, err := parseClockTime(closure.IntervalStart); err != nil {
			return errors.New("停业开始时间格式错误")
		}
		if _, err := parseClockTime(closure.IntervalEnd); err != nil {
			return errors.New("停业结束时间格式错误")
		}
		// 按跨夜约定比较，23:00 - 01:00 是合法的跨夜时段
		start := engine.ExtendOvernight(engine.ToMinutes(closure.IntervalStart))
		end := engine.ExtendOvernight(engine.ToMinutes(closure.IntervalEnd))
		if start >= end {
			return errors.New("停业开始时间必须早于结束时间")
		}
	}

	return nil
}

func ValidateBreak(b *domain.Break) error {
	if _, err := parseClockTime(b.StartTime); err != nil {
		return errors.New("休息开始时间格式错误")
	}
	if _, err := parseClockTime(b.EndTime); err != nil {
		return errors.New("休息结束时间格式错误")
	}

	start := engine.ExtendOvernight(engine.ToMinutes(b.StartTime))
	end := engine.ExtendOvernight(engine.ToMinutes(b.EndTime))
	if start >= end {
		return errors.New("休息开始时间必须早于结束时间")
	}

	return nil
}
