package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/meiyue-dev/salon-marketplace/backend/internal/domain"
	"github.com/meiyue-dev/salon-marketplace/backend/internal/engine"
)

// Book 是预约提交入口。冲突扫描和员工分配都在仓储层的
// 预约事务内、持有门店锁的前提下重新执行，
// 这里的职责只是组装请求、核对服务明细和发出领域事件
func (h *Handler) Book(w http.ResponseWriter, r *http.Request) {
	salon := r.Context().Value(SalonInfoCtx).(*domain.Salon)
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	var req struct {
		StaffID    int64   `json:"staffID"` // 0 表示不指定员工，由系统分配
		ServiceIDs []int64 `json:"serviceIDs" validate:"required,min=1,unique"`
		StartTime  string  `json:"startTime" validate:"required"`
		EndTime    string  `json:"endTime" validate:"required"`
		Price      int64   `json:"price" validate:"min=0"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	startTime, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		h.badRequest(w, r, errors.New("开始时间格式无效"))
		return
	}
	endTime, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		h.badRequest(w, r, errors.New("结束时间格式无效"))
		return
	}

	// 核对服务明细，请求中混入其他门店的服务时数量会对不上
	services, err := h.repository.GetServicesByIDs(salon.ID, req.ServiceIDs)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if len(services) != len(req.ServiceIDs) {
		h.errorResponse(w, r, "包含无效的服务")
		return
	}

	totalDuration := time.Duration(0)
	totalPrice := int64(0)
	lines := make([]*domain.AppointmentServiceLine, 0, len(services))
	for _, service := range services {
		totalDuration += time.Duration(service.Duration) * time.Minute
		totalPrice += service.Price
		lines = append(lines, &domain.AppointmentServiceLine{
			ServiceID: service.ID,
			Price:     service.Price,
		})
	}

	// 客户端展示的总价必须和服务明细之和一致，防御过期的价格缓存
	if req.Price != totalPrice {
		h.errorResponse(w, r, "价格与所选服务不符，请刷新后重试")
		return
	}

	appt := &domain.Appointment{
		SalonID:   salon.ID,
		UserID:    myInfo.ID,
		ServiceID: services[0].ID,
		StartTime: startTime,
		EndTime:   endTime,
		Status:    domain.StatusScheduled,
		Price:     totalPrice,
	}

	assignedStaffName := ""

	bookErr := h.repository.BookAppointment(appt, lines, func(snap *engine.Snapshot) error {
		if req.StaffID != engine.AnyStaff {
			staff := findStaff(snap.Staff, req.StaffID)
			if staff == nil {
				return engine.Reject("该员工不存在")
			}
			assignedStaffName = staff.Name
		}

		if err := engine.CheckSlot(snap, req.StaffID, startTime, endTime, totalDuration); err != nil {
			return err
		}

		if req.StaffID != engine.AnyStaff {
			staffID := req.StaffID
			appt.StaffID = &staffID
			return nil
		}

		// 没有员工花名册的门店走全店单资源模型，预约保持未指派
		if len(snap.Staff) == 0 {
			return nil
		}

		staff, err := engine.Allocate(snap, startTime, endTime)
		if err != nil {
			return err
		}
		appt.StaffID = &staff.ID
		assignedStaffName = staff.Name
		return nil
	})
	if bookErr != nil {
		h.engineError(w, r, bookErr)
		return
	}

	// 事件在事务提交后发送，发送失败不影响预约结果
	h.publishEvent(domain.EventBookingCreated, salon.ID, sameCalendarDay(startTime, time.Now()), domain.BookingCreatedData{
		AppointmentID: appt.ID,
		SalonID:       salon.ID,
		UserID:        myInfo.ID,
		StaffID:       appt.StaffID,
		StaffName:     assignedStaffName,
		StartTime:     appt.StartTime,
		EndTime:       appt.EndTime,
		ServiceCount:  len(lines),
	})

	h.successResponse(w, r, "预约成功", appt)
}

func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	appt := r.Context().Value(AppointmentInfoCtx).(*domain.Appointment)
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	notice := time.Duration(h.config.Booking.CancelNoticeHours) * time.Hour
	strikeIssued, err := engine.EvaluateCancellation(appt, myInfo.ID, time.Now(), notice)
	if err != nil {
		h.engineError(w, r, err)
		return
	}

	newStrikeCount, err := h.repository.TransitionAppointmentStatus(appt, domain.StatusCancelled, strikeIssued)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			// 状态守卫没有命中，说明预约刚刚被并发请求处理掉了
			h.errorResponse(w, r, "该预约已被处理，请刷新后重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.publishEvent(domain.EventBookingCancelled, appt.SalonID, sameCalendarDay(appt.StartTime, time.Now()), domain.BookingCancelledData{
		AppointmentID: appt.ID,
		SalonID:       appt.SalonID,
		UserID:        appt.UserID,
		StartTime:     appt.StartTime,
		EndTime:       appt.EndTime,
		StrikeIssued:  strikeIssued,
	})

	h.successResponse(w, r, "预约已取消", map[string]any{
		"cancelled":      true,
		"strikeIssued":   strikeIssued,
		"newStrikeCount": newStrikeCount,
	})
}

// UpdateStatus 由门店把预约标记为已完成或已爽约，爽约会给顾客记一次违约
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	appt := r.Context().Value(AppointmentInfoCtx).(*domain.Appointment)
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	var req struct {
		Status string `json:"status" validate:"required,oneof=completed absent"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 状态变更只能由预约所属门店的店主发起
	salon, err := h.repository.GetSalonByID(appt.SalonID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if myInfo.Role != domain.RoleAdmin && salon.OwnerID != myInfo.ID {
		h.errorResponse(w, r, "只有店主才能变更预约状态")
		return
	}

	target := domain.AppointmentStatus(req.Status)
	if err := engine.ValidateStatusTransition(appt.Status, target); err != nil {
		h.engineError(w, r, err)
		return
	}

	issueStrike := target == domain.StatusAbsent
	if _, err := h.repository.TransitionAppointmentStatus(appt, target, issueStrike); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "该预约已被处理，请刷新后重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.publishEvent(domain.EventStatusUpdated, appt.SalonID, sameCalendarDay(appt.StartTime, time.Now()), domain.StatusUpdatedData{
		AppointmentID: appt.ID,
		SalonID:       appt.SalonID,
		UserID:        appt.UserID,
		Status:        target,
	})

	h.successResponse(w, r, "预约状态已更新", appt)
}

type timeSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// GetAvailability 列出某一天可预约的时段，
// 以固定步长扫一遍营业时间，逐个交给冲突扫描器判断
func (h *Handler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	salon := r.Context().Value(SalonInfoCtx).(*domain.Salon)

	day, err := time.ParseInLocation("2006-01-02", r.URL.Query().Get("date"), time.Local)
	if err != nil {
		h.errorResponse(w, r, "日期格式无效，应为 2006-01-02")
		return
	}

	duration, err := strconv.Atoi(r.URL.Query().Get("duration"))
	if err != nil || duration <= 0 {
		h.errorResponse(w, r, "服务时长无效")
		return
	}

	staffID := engine.AnyStaff
	if staffIDParam := r.URL.Query().Get("staffID"); staffIDParam != "" {
		staffID, err = strconv.ParseInt(staffIDParam, 10, 64)
		if err != nil {
			h.errorResponse(w, r, "员工ID无效")
			return
		}
	}

	snap, err := h.repository.GetDaySnapshot(salon.ID, day, time.Now())
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if snap.Schedule == nil {
		h.errorResponse(w, r, "该门店尚未配置营业时间")
		return
	}

	openMin := engine.ExtendOvernight(engine.ToMinutes(snap.Schedule.OpeningTime))
	closeMin := engine.ExtendOvernight(engine.ToMinutes(snap.Schedule.ClosingTime))
	step := h.config.Booking.SlotStepMinutes
	totalDuration := time.Duration(duration) * time.Minute

	slots := make([]timeSlot, 0)
	for startMin := openMin; startMin+duration <= closeMin; startMin += step {
		start := day.Add(time.Duration(startMin) * time.Minute)
		end := start.Add(totalDuration)

		if err := engine.CheckSlot(snap, staffID, start, end, totalDuration); err != nil {
			continue
		}

		slots = append(slots, timeSlot{
			Start: start.Format("15:04"),
			End:   end.Format("15:04"),
		})
	}

	h.successResponse(w, r, "获取可预约时段成功", slots)
}

// GetAppointment 返回预约详情和服务明细，
// 只有预约人、所属门店的店主和平台管理员可以查看
func (h *Handler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	appt := r.Context().Value(AppointmentInfoCtx).(*domain.Appointment)
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	if myInfo.Role != domain.RoleAdmin && appt.UserID != myInfo.ID {
		salon, err := h.repository.GetSalonByID(appt.SalonID)
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}
		if salon.OwnerID != myInfo.ID {
			h.errorResponse(w, r, "无权查看该预约")
			return
		}
	}

	lines, err := h.repository.GetServiceLinesByAppointmentID(appt.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取预约详情成功", map[string]any{
		"appointment":  appt,
		"serviceLines": lines,
	})
}

func (h *Handler) GetMyAppointments(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	appointments, err := h.repository.GetAppointmentsByUserID(myInfo.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取我的预约成功", appointments)
}

// GetSalonAppointments 是门店看板的预约列表，默认展示当天
func (h *Handler) GetSalonAppointments(w http.ResponseWriter, r *http.Request) {
	salon := r.Context().Value(SalonInfoCtx).(*domain.Salon)

	day := time.Now()
	if dateParam := r.URL.Query().Get("date"); dateParam != "" {
		var err error
		day, err = time.ParseInLocation("2006-01-02", dateParam, time.Local)
		if err != nil {
			h.errorResponse(w, r, "日期格式无效，应为 2006-01-02")
			return
		}
	}

	appointments, err := h.repository.GetAppointmentsBySalonAndDate(salon.ID, day)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取门店预约列表成功", appointments)
}

func findStaff(staffList []*domain.Staff, staffID int64) *domain.Staff {
	for _, staff := range staffList {
		if staff.ID == staffID {
			return staff
		}
	}
	return nil
}

func sameCalendarDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
