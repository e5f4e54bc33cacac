package routes

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barberia-api/internal/audit"
	"github.com/BruksfildServices01/barberia-api/internal/auth"
	domainAppointment "github.com/BruksfildServices01/barberia-api/internal/domain/appointment"
	"github.com/BruksfildServices01/barberia-api/internal/domain/catalog"
	"github.com/BruksfildServices01/barberia-api/internal/domain/payment"
	domainSale "github.com/BruksfildServices01/barberia-api/internal/domain/sale"
	"github.com/BruksfildServices01/barberia-api/internal/handlers"
	"github.com/BruksfildServices01/barberia-api/internal/middleware"
	ucAppointment "github.com/BruksfildServices01/barberia-api/internal/usecase/appointment"
	ucAvailability "github.com/BruksfildServices01/barberia-api/internal/usecase/availability"
	ucSale "github.com/BruksfildServices01/barberia-api/internal/usecase/sale"
)

// Deps is everything the HTTP layer needs, already built by main.
// Locker and Archive may be nil.
type Deps struct {
	Catalog      catalog.Repository
	Appointments domainAppointment.Repository
	Sales        domainSale.Repository
	Users        auth.UserStore
	AuditStore   audit.Store

	Locker    domainAppointment.Locker
	Audit     *audit.Dispatcher
	Processor payment.Processor
	Archive   ucSale.Archiver

	Tokens   *auth.TokenIssuer
	Verifier *auth.Verifier

	PaymentTimeout time.Duration
	Log            *slog.Logger

	// Health reports storage reachability on GET /health.
	Health func(ctx context.Context) error
}

func RegisterRoutes(r *gin.Engine, d Deps) {

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(
		middleware.RequestID(),
		middleware.AccessLog(d.Log),
		middleware.CORSMiddleware(),
	)

	// ======================================================
	// USE CASES: APPOINTMENTS
	// ======================================================
	reserveUC := ucAppointment.NewReserveAppointment(d.Catalog, d.Appointments, d.Locker, d.Audit, d.Log)
	confirmUC := ucAppointment.NewConfirmAppointment(d.Appointments, d.Audit)
	cancelUC := ucAppointment.NewCancelAppointment(d.Appointments, d.Audit)
	getUC := ucAppointment.NewGetAppointment(d.Appointments)
	agendaUC := ucAppointment.NewListAgenda(d.Catalog, d.Appointments)

	// ======================================================
	// USE CASES: AVAILABILITY
	// ======================================================
	checkUC := ucAvailability.NewCheck(d.Catalog, d.Appointments)
	barberUC := ucAvailability.NewBarberAvailability(d.Catalog, d.Appointments)
	mallDayUC := ucAvailability.NewMallDay(d.Catalog, d.Appointments)

	// ======================================================
	// USE CASES: SALES
	// ======================================================
	registerUC := ucSale.NewRegisterMallSale(
		d.Catalog,
		d.Sales,
		d.Appointments,
		reserveUC,
		confirmUC,
		cancelUC,
		d.Audit,
		d.Log,
	)

	payUC := ucSale.NewPaySale(
		d.Catalog,
		d.Sales,
		d.Processor,
		d.Archive,
		confirmUC,
		cancelUC,
		d.Audit,
		d.Log,
		d.PaymentTimeout,
	)

	cancelSaleUC := ucSale.NewCancelSale(d.Sales, cancelUC, d.Audit, d.Log)
	getSaleUC := ucSale.NewGetSale(d.Sales)

	// ======================================================
	// HANDLERS
	// ======================================================
	availabilityHandler := handlers.NewAvailabilityHandler(checkUC, barberUC)
	mallHandler := handlers.NewMallHandler(mallDayUC, registerUC)
	appointmentHandler := handlers.NewAppointmentHandler(reserveUC, confirmUC, cancelUC, getUC, agendaUC)
	saleHandler := handlers.NewSaleHandler(payUC, cancelSaleUC, getSaleUC)

	authHandler := handlers.NewAuthHandler(d.Verifier, d.Tokens)
	meHandler := handlers.NewMeHandler(d.Users)

	branchHandler := handlers.NewBranchHandler(d.Catalog, d.Audit)
	barberHandler := handlers.NewBarberHandler(d.Catalog, d.Audit)
	serviceHandler := handlers.NewServiceHandler(d.Catalog, d.Audit)
	clientHandler := handlers.NewClientHandler(d.Catalog, d.Audit)
	scheduleHandler := handlers.NewScheduleHandler(d.Catalog, d.Audit)
	auditLogsHandler := handlers.NewAuditLogsHandler(d.AuditStore)

	// ======================================================
	// HEALTH
	// ======================================================
	r.GET("/health", func(c *gin.Context) {
		if d.Health != nil {
			if err := d.Health(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ======================================================
	// AVAILABILITY
	// ======================================================
	disp := r.Group("/disponibilidad")
	{
		disp.POST("/check", availabilityHandler.Check)
		disp.GET("/barbero/:barberoId", availabilityHandler.ByBarber)
		disp.POST("/sol-disp-fecha", mallHandler.DayAvailability)
	}

	// ======================================================
	// APPOINTMENTS
	// ======================================================
	citas := r.Group("/citas")
	{
		citas.POST("/reservar", appointmentHandler.Reserve)
		citas.GET("/:id", appointmentHandler.Get)
		citas.POST("/:id/confirmar", appointmentHandler.Confirm)
		citas.POST("/:id/cancelar", appointmentHandler.Cancel)
		citas.GET("/barbero/:barberoId", appointmentHandler.Agenda)
	}

	// ======================================================
	// SALES
	// ======================================================
	ventas := r.Group("/ventas")
	{
		ventas.POST("/registrar-servicio", mallHandler.RegisterSale)
		ventas.GET("/:id", saleHandler.Get)
		ventas.POST("/:id/pagar", saleHandler.Pay)
		ventas.POST("/:id/cancelar", saleHandler.Cancel)
	}

	// ======================================================
	// AUTH
	// ======================================================
	r.POST("/auth/login", authHandler.Login)
	r.GET("/auth/me", middleware.AuthMiddleware(d.Tokens), meHandler.GetMe)

	// ======================================================
	// ADMIN (JWT)
	// ======================================================
	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(d.Tokens))
	{
		admin.POST("/usuarios", middleware.RequireRole(auth.RoleAdmin), authHandler.Register)

		admin.POST("/sucursales", branchHandler.Create)
		admin.GET("/sucursales", branchHandler.List)
		admin.GET("/sucursales/:id", branchHandler.Get)

		admin.POST("/barberos", barberHandler.Create)
		admin.GET("/barberos", barberHandler.List)
		admin.GET("/barberos/:id", barberHandler.Get)

		admin.POST("/servicios", serviceHandler.Create)
		admin.GET("/servicios", serviceHandler.List)
		admin.GET("/servicios/:id", serviceHandler.Get)

		admin.POST("/clientes", clientHandler.Create)
		admin.GET("/clientes", clientHandler.List)
		admin.GET("/clientes/:id", clientHandler.Get)

		// ------------------------------
		// SCHEDULES
		// ------------------------------
		admin.POST("/horarios/sucursal", scheduleHandler.SaveBranchHours)
		admin.GET("/horarios/sucursal/:sucursalId", scheduleHandler.ListBranchHours)
		admin.DELETE("/horarios/sucursal/:id", scheduleHandler.DeleteBranchHours)

		admin.POST("/horarios/barbero", scheduleHandler.SaveBarberHours)
		admin.GET("/horarios/barbero/:barberoId", scheduleHandler.ListBarberHours)
		admin.GET("/horarios/barbero/:barberoId/dia", scheduleHandler.BarberDay)
		admin.DELETE("/horarios/barbero/:id", scheduleHandler.DeleteBarberHours)

		admin.POST("/horarios/excepcion", scheduleHandler.SaveException)
		admin.GET("/horarios/excepcion", scheduleHandler.ListExceptions)
		admin.DELETE("/horarios/excepcion/:id", scheduleHandler.DeleteException)

		admin.POST("/horarios/pausa", scheduleHandler.CreateBreak)
		admin.GET("/horarios/pausa/barbero/:barberoId", scheduleHandler.ListBreaks)
		admin.DELETE("/horarios/pausa/:id", scheduleHandler.DeleteBreak)

		admin.GET("/audit-logs", auditLogsHandler.List)
	}
}
