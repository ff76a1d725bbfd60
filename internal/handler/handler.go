package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	"github.com/meiyue-dev/salon-marketplace/backend/internal/config"
	"github.com/meiyue-dev/salon-marketplace/backend/internal/domain"
	"github.com/meiyue-dev/salon-marketplace/backend/internal/repository"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
)

type Handler struct {
	validate    *validator.Validate
	config      *config.Config
	repository  *repository.Repository
	translator  ut.Translator
	mqChannel   *amqp.Channel
	redisClient *redis.Client

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, mqCh *amqp.Channel, rdb *redis.Client) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:    validate,
		config:      cfg,
		repository:  repo,
		translator:  trans,
		mqChannel:   mqCh,
		redisClient: rdb,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	// 认证相关
	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Route("/reset-password", func(r chi.Router) {
			r.Post("/require", h.RequireResetPassword)
			r.Post("/confirm", h.ConfirmResetPassword)
		})
	})

	// 以下 API 必须要在登录后才允许调用
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Route("/my-info", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Get("/", h.GetMyInfo)
			r.Get("/appointments", h.GetMyAppointments)
		})

		r.Route("/salons", func(r chi.Router) {
			r.With(h.myInfo, h.RequiredRole([]domain.Role{domain.RoleSalonOwner, domain.RoleAdmin})).Post("/", h.CreateSalon)
			r.Get("/", h.GetAllSalons)

			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.salonInfo)
				r.Get("/", h.GetSalon)
				r.Get("/staff", h.GetSalonStaff)
				r.Get("/services", h.GetSalonServices)
				r.Get("/availability", h.GetAvailability)

				// 预约由顾客发起
				r.With(h.myInfo).Post("/appointments", h.Book)

				// 门店管理操作只有店主（或平台管理员）可以执行
				r.Group(func(r chi.Router) {
					r.Use(h.myInfo)
					r.Use(h.requireSalonOwner)

					r.Get("/appointments", h.GetSalonAppointments)
					r.Put("/schedule", h.UpsertSchedule)
					r.Get("/schedule", h.GetSchedule)

					r.Route("/closures", func(r chi.Router) {
						r.Post("/", h.CreateClosure)
						r.Get("/", h.GetClosures)
						r.Delete("/{closureID}", h.DeleteClosure)
					})
					r.Route("/breaks", func(r chi.Router) {
						r.Post("/", h.CreateBreak)
						r.Get("/", h.GetBreaks)
						r.Delete("/{breakID}", h.DeleteBreak)
					})
					r.Route("/staff", func(r chi.Router) {
						r.Post("/", h.CreateStaff)
						r.Delete("/{staffID}", h.DeleteStaff)
					})
					r.Route("/services", func(r chi.Router) {
						r.Post("/", h.CreateService)
						r.Delete("/{serviceID}", h.DeleteService)
					})
				})
			})
		})

		r.Route("/appointments/{id}", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Use(h.appointmentInfo)
			r.Get("/", h.GetAppointment)
			r.Post("/cancel", h.Cancel)
			r.Post("/status", h.UpdateStatus)
		})

		// 平台管理员的账号管理，店主和管理员账号从这里创建
		r.Route("/users", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Use(h.RequiredRole([]domain.Role{domain.RoleAdmin}))
			r.Get("/", h.GetAllUsers)
			r.Post("/", h.CreateUser)
			r.Delete("/{userID}", h.DeleteUser)
		})
	})
}
