package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/meiyue-dev/salon-marketplace/backend/internal/domain"
)

func (h *Handler) CreateSalon(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	var req struct {
		Name    string `json:"name" validate:"required"`
		Address string `json:"address" validate:"required"`
		Phone   string `json:"phone" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	salon := &domain.Salon{
		OwnerID: myInfo.ID,
		Name:    req.Name,
		Address: req.Address,
		Phone:   req.Phone,
	}

	if err := h.repository.CreateSalon(salon); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "门店创建成功", salon)
}

func (h *Handler) GetAllSalons(w http.ResponseWriter, r *http.Request) {
	salons, err := h.repository.GetAllSalons()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取门店列表成功", salons)
}

func (h *Handler) GetSalon(w http.ResponseWriter, r *http.Request) {
	salon := r.Context().Value(SalonInfoCtx).(*domain.Salon)
	h.successResponse(w, r, "获取门店信息成功", salon)
}

func (h *Handler) GetSalonStaff(w http.ResponseWriter, r *http.Request) {
	salon := r.Context().Value(SalonInfoCtx).(*domain.Salon)

	staffList, err := h.repository.GetStaffBySalonID(salon.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取员工列表成功", staffList)
}

func (h *Handler) CreateStaff(w http.ResponseWriter, r *http.Request) {
	salon := r.Context().Value(SalonInfoCtx).(*domain.Salon)

	var req struct {
		Name string `json:"name" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	staff := &domain.Staff{
		SalonID: salon.ID,
		Name:    req.Name,
	}

	if err := h.repository.CreateStaff(staff); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "员工添加成功", staff)
}

func (h *Handler) DeleteStaff(w http.ResponseWriter, r *http.Request) {
	salon := r.Context().Value(SalonInfoCtx).(*domain.Salon)

	staffID, err := strconv.ParseInt(chi.URLParam(r, "staffID"), 10, 64)
	if err != nil {
		h.errorResponse(w, r, "员工ID无效")
		return
	}

	if err := h.repository.DeleteStaff(salon.ID, staffID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "员工删除成功", nil)
}

func (h *Handler) GetSalonServices(w http.ResponseWriter, r *http.Request) {
	salon := r.Context().Value(SalonInfoCtx).(*domain.Salon)

	services, err := h.repository.GetServicesBySalonID(salon.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取服务列表成功", services)
}

func (h *Handler) CreateService(w http.ResponseWriter, r *http.Request) {
	salon := r.Context().Value(SalonInfoCtx).(*domain.Salon)

	var req struct {
		Name     string `json:"name" validate:"required"`
		Duration int32  `json:"duration" validate:"required,min=5"`
		Price    int64  `json:"price" validate:"required,min=0"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	service := &domain.Service{
		SalonID:  salon.ID,
		Name:     req.Name,
		Duration: req.Duration,
		Price:    req.Price,
	}

	if err := h.repository.CreateService(service); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "服务创建成功", service)
}

func (h *Handler) DeleteService(w http.ResponseWriter, r *http.Request) {
	salon := r.Context().Value(SalonInfoCtx).(*domain.Salon)

	serviceID, err := strconv.ParseInt(chi.URLParam(r, "serviceID"), 10, 64)
	if err != nil {
		h.errorResponse(w, r, "服务ID无效")
		return
	}

	if err := h.repository.DeleteService(salon.ID, serviceID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "服务删除成功", nil)
}
