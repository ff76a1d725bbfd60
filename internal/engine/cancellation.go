package engine

import (
	"time"

	"github.com/meiyue-dev/salon-marketplace/backend/internal/domain"
)

// DefaultCancelNotice 是免责取消要求的最短提前量
const DefaultCancelNotice = 3 * time.Hour

// EvaluateCancellation 执行取消预约的规则检查，返回是否需要记违约。
// 只有 scheduled 状态的预约可以取消，且只能由预约人本人取消。
// 距开始时间不足提前量的取消仍然会被执行，但会给用户记一次违约
func EvaluateCancellation(appt *domain.Appointment, requestingUserID int64, now time.Time, notice time.Duration) (bool, error) {
	if appt.UserID != requestingUserID {
		return false, Reject("无权取消他人的预约")
	}
	if appt.Status.IsTerminal() {
		return false, Reject("该预约已是最终状态（%s），无法取消", appt.Status.Label())
	}

	if notice <= 0 {
		notice = DefaultCancelNotice
	}

	strikeIssued := appt.StartTime.Sub(now) < notice
	return strikeIssued, nil
}

// ValidateStatusTransition 校验门店发起的状态变更。
// 只允许 scheduled -> completed / absent，错误信息中带上当前状态，
// 便于前端解释为什么操作被拦下
func ValidateStatusTransition(current, target domain.AppointmentStatus) error {
	if target != domain.StatusCompleted && target != domain.StatusAbsent {
		return Reject("不支持的状态变更目标（%s）", target.Label())
	}
	if current != domain.StatusScheduled {
		return Reject("当前状态为「%s」，无法变更", current.Label())
	}
	return nil
}
