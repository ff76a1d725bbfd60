package engine

import "time"

// 凌晨 0 点到 7 点之间的时间视为「前一个营业日的延续」，
// 统一加上 1440 分钟，使 22:00 - 02:00 这样的跨夜区间比较为 1320 - 1560，
// 而不是绕过零点。同一次扫描中的所有时间值（营业时间、临时调整、
// 休息时间、已有预约、候选时段）都必须经过同样的处理，否则会漏判冲突
const overnightBoundaryMinutes = 7 * 60

// ToMinutes 把 "15:04" 或 "15:04:05" 格式的时间转换为当天的分钟数。
// 格式错误时退化为 0，调用方会把对应规则来源当作「不可用」，而不是让整次扫描崩溃
func ToMinutes(value string) int {
	t, err := time.Parse("15:04:05", value)
	if err != nil {
		t, err = time.Parse("15:04", value)
		if err != nil {
			return 0
		}
	}
	return t.Hour()*60 + t.Minute()
}

// ToSlotMinutes 提取时间点在当天的分钟数
func ToSlotMinutes(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// ExtendOvernight 对分钟数应用跨夜约定
func ExtendOvernight(minutes int) int {
	if minutes < overnightBoundaryMinutes {
		return minutes + 24*60
	}
	return minutes
}

// Overlaps 判断两个半开区间 [aStart, aEnd) 和 [bStart, bEnd) 是否重叠，
// 首尾相接不算冲突
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && aEnd > bStart
}

func sameCalendarDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
