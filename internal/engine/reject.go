package engine

import (
	"errors"
	"fmt"
)

// RejectionError 表示一次预约或取消被业务规则拒绝。
// 这是预期内的高频结果，原因会原样返回给调用方，便于客户端提示换一个时段
type RejectionError struct {
	Reason string
}

func (e *RejectionError) Error() string {
	return e.Reason
}

func Reject(format string, args ...any) *RejectionError {
	return &RejectionError{Reason: fmt.Sprintf(format, args...)}
}

// AsRejection 区分业务拒绝和基础设施错误，
// 后者不应该把内部细节暴露给客户端
func AsRejection(err error) (*RejectionError, bool) {
	var re *RejectionError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}
