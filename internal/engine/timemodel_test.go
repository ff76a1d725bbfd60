package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToMinutes(t *testing.T) {
	tests := []struct {
		value string
		want  int
	}{
		{"09:00:00", 540},
		{"09:00", 540},
		{"22:30:00", 1350},
		{"00:00:00", 0},
		{"23:59", 1439},
		{"not-a-time", 0},
		{"", 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ToMinutes(tt.value), "value=%q", tt.value)
	}
}

func TestExtendOvernight(t *testing.T) {
	// 凌晨 7 点前的时间归入前一个营业日
	assert.Equal(t, 1440, ExtendOvernight(0))        // 00:00
	assert.Equal(t, 1500, ExtendOvernight(60))       // 01:00
	assert.Equal(t, 1859, ExtendOvernight(419))      // 06:59
	assert.Equal(t, 420, ExtendOvernight(420))       // 07:00 不再延伸
	assert.Equal(t, 1320, ExtendOvernight(1320))     // 22:00
	assert.Equal(t, 1439, ExtendOvernight(24*60-1))  // 23:59
}

func TestExtendOvernightOrdersOvernightWindow(t *testing.T) {
	// 22:00 - 02:00 的营业窗口延伸后必须是单调区间
	openMin := ExtendOvernight(ToMinutes("22:00:00"))
	closeMin := ExtendOvernight(ToMinutes("02:00:00"))
	require.Less(t, openMin, closeMin)
	assert.Equal(t, 1320, openMin)
	assert.Equal(t, 1560, closeMin)
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		aStart, aEnd, bStart, bEnd int
		want                       bool
	}{
		{600, 660, 630, 690, true},  // 部分重叠
		{600, 660, 540, 720, true},  // 包含
		{600, 660, 660, 720, false}, // 首尾相接不算冲突
		{660, 720, 600, 660, false},
		{600, 660, 600, 660, true}, // 完全相同
		{600, 660, 700, 760, false},
	}

	for _, tt := range tests {
		got := Overlaps(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd)
		assert.Equal(t, tt.want, got, "[%d,%d) vs [%d,%d)", tt.aStart, tt.aEnd, tt.bStart, tt.bEnd)
	}
}

func TestAsRejection(t *testing.T) {
	rejection := Reject("时段不可用（%s）", "10:00")
	assert.Equal(t, "时段不可用（10:00）", rejection.Error())

	// 包装后仍能识别
	wrapped := fmt.Errorf("预约失败: %w", rejection)
	got, ok := AsRejection(wrapped)
	require.True(t, ok)
	assert.Equal(t, rejection.Reason, got.Reason)

	_, ok = AsRejection(fmt.Errorf("连接数据库失败"))
	assert.False(t, ok)
}
