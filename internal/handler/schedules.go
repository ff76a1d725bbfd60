package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/meiyue-dev/salon-marketplace/backend/internal/domain"
	"github.com/meiyue-dev/salon-marketplace/backend/internal/utils"
)

func (h *Handler) UpsertSchedule(w http.ResponseWriter, r *http.Request) {
	salon := r.Context().Value(SalonInfoCtx).(*domain.Salon)

	var req struct {
		OpeningTime    string  `json:"openingTime" validate:"required"`
		ClosingTime    string  `json:"closingTime" validate:"required"`
		ClosedWeekdays []int32 `json:"closedWeekdays" validate:"dive,min=0,max=6"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	schedule := &domain.OperatingSchedule{
		SalonID:        salon.ID,
		OpeningTime:    req.OpeningTime,
		ClosingTime:    req.ClosingTime,
		ClosedWeekdays: req.ClosedWeekdays,
	}

	if err := utils.ValidateOperatingSchedule(schedule); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.UpsertOperatingSchedule(schedule); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "营业时间设置成功", schedule)
}

func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	salon := r.Context().Value(SalonInfoCtx).(*domain.Salon)

	schedule, err := h.repository.GetOperatingSchedule(salon.ID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "该门店尚未配置营业时间")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "获取营业时间成功", schedule)
}

func (h *Handler) CreateClosure(w http.ResponseWriter, r *http.Request) {
	salon := r.Context().Value(SalonInfoCtx).(*domain.Salon)

	var req struct {
		Kind          string `json:"kind" validate:"required,oneof=once recurring"`
		Date          string `json:"date"`
		WeekdayIndex  int32  `json:"weekdayIndex" validate:"min=0,max=6"`
		ClosureType   string `json:"closureType" validate:"required,oneof=full_day interval"`
		IntervalStart string `json:"intervalStart"`
		IntervalEnd   string `json:"intervalEnd"`
		StaffID       int64  `json:"staffID"` // 0 表示全店
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	closure := &domain.ClosureModification{
		SalonID:       salon.ID,
		Kind:          domain.ClosureKind(req.Kind),
		Date:          req.Date,
		WeekdayIndex:  req.WeekdayIndex,
		ClosureType:   domain.ClosureType(req.ClosureType),
		IntervalStart: req.IntervalStart,
		IntervalEnd:   req.IntervalEnd,
		StaffScope:    domain.ScopeStaff(req.StaffID),
	}

	if err := utils.ValidateClosure(closure); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.CreateClosure(closure); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "停业调整创建成功", closure)
}

func (h *Handler) GetClosures(w http.ResponseWriter, r *http.Request) {
	salon := r.Context().Value(SalonInfoCtx).(*domain.Salon)

	closures, err := h.repository.GetClosuresBySalonID(salon.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取停业调整列表成功", closures)
}

func (h *Handler) DeleteClosure(w http.ResponseWriter, r *http.Request) {
	salon := r.Context().Value(SalonInfoCtx).(*domain.Salon)

	closureID, err := strconv.ParseInt(chi.URLParam(r, "closureID"), 10, 64)
	if err != nil {
		h.errorResponse(w, r, "停业调整ID无效")
		return
	}

	if err := h.repository.DeleteClosure(salon.ID, closureID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "停业调整删除成功", nil)
}

func (h *Handler) CreateBreak(w http.ResponseWriter, r *http.Request) {
	salon := r.Context().Value(SalonInfoCtx).(*domain.Salon)

	var req struct {
		StartTime string `json:"startTime" validate:"required"`
		EndTime   string `json:"endTime" validate:"required"`
		StaffID   int64  `json:"staffID"` // 0 表示全店
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	b := &domain.Break{
		SalonID:    salon.ID,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		StaffScope: domain.ScopeStaff(req.StaffID),
	}

	if err := utils.ValidateBreak(b); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.CreateBreak(b); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "休息时间创建成功", b)
}

func (h *Handler) GetBreaks(w http.ResponseWriter, r *http.Request) {
	salon := r.Context().Value(SalonInfoCtx).(*domain.Salon)

	breaks, err := h.repository.GetBreaksBySalonID(salon.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取休息时间列表成功", breaks)
}

func (h *Handler) DeleteBreak(w http.ResponseWriter, r *http.Request) {
	salon := r.Context().Value(SalonInfoCtx).(*domain.Salon)

	breakID, err := strconv.ParseInt(chi.URLParam(r, "breakID"), 10, 64)
	if err != nil {
		h.errorResponse(w, r, "休息时间ID无效")
		return
	}

	if err := h.repository.DeleteBreak(salon.ID, breakID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "休息时间删除成功", nil)
}
