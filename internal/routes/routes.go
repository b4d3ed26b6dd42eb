package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/config"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/handlers"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
	ucAppointment "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/appointment"
)

// Deps are the singletons built by main.
type Deps struct {
	Config *config.Config
	Log    *logrus.Logger
	Loc    *time.Location
	Now    func() time.Time

	Repo  domain.Repository
	Auth  handlers.Authenticator
	Audit ucAppointment.Auditor

	// AuditDB is nil when audit events go to the log.
	AuditDB *gorm.DB
}

func RegisterRoutes(r *gin.Engine, d Deps) {

	// ======================================================
	// USE CASES — APPOINTMENTS
	// ======================================================
	createAppointmentUC := ucAppointment.NewCreateAppointment(d.Repo, d.Audit, d.Log, d.Loc, d.Now)
	updateAppointmentUC := ucAppointment.NewUpdateAppointment(d.Repo, d.Audit, d.Log, d.Loc, d.Now)
	deleteAppointmentUC := ucAppointment.NewDeleteAppointment(d.Repo, d.Audit)
	listAppointmentsByDateUC := ucAppointment.NewListAppointmentsByDate(d.Repo)
	validateBookingUC := ucAppointment.NewValidateBooking(d.Repo)
	availabilityUC := ucAppointment.NewGetAvailability(d.Repo, d.Now)

	agendaWeekUC := ucAppointment.NewGetAgendaWeek(d.Repo)
	exportAgendaUC := ucAppointment.NewExportAgenda(d.Repo, d.Loc, d.Now)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(d.Auth, d.Log)

	appointmentHandler := handlers.NewAppointmentHandler(
		createAppointmentUC,
		updateAppointmentUC,
		deleteAppointmentUC,
		listAppointmentsByDateUC,
		validateBookingUC,
		availabilityUC,
		d.Loc,
	)

	agendaHandler := handlers.NewAgendaHandler(agendaWeekUC, exportAgendaUC, d.Loc)
	catalogHandler := handlers.NewCatalogHandler(d.Repo)
	patientHandler := handlers.NewPatientHandler(d.Repo)

	publicHandler := handlers.NewPublicHandler(d.Repo, availabilityUC, createAppointmentUC, d.Loc)

	// ======================================================
	// HEALTH
	// ======================================================
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC API
		// ------------------------------
		publicAPI := api.Group("/public")
		publicAPI.Use(middleware.ServiceSession(d.Config.APIServiceToken))
		{
			publicAPI.GET("/services", publicHandler.ListServices)
			publicAPI.GET("/availability", publicHandler.Availability)
			publicAPI.POST("/appointments", publicHandler.CreateAppointment)
		}

		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/refresh", authHandler.Refresh)

		// ------------------------------
		// ADMIN API
		// ------------------------------
		admin := api.Group("/admin")
		admin.Use(middleware.SessionMiddleware())
		{
			admin.GET("/services", catalogHandler.ListServices)
			admin.GET("/professionals", catalogHandler.ListProfessionals)
			admin.POST("/catalog/refresh", catalogHandler.Refresh)

			admin.GET("/patients", patientHandler.List)

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			admin.GET("/appointments", appointmentHandler.ListByDate)
			admin.POST("/appointments", appointmentHandler.Create)
			admin.POST("/appointments/validate", appointmentHandler.Validate)
			admin.PATCH("/appointments/:id", appointmentHandler.Update)
			admin.PATCH("/appointments/:id/cancel", appointmentHandler.Cancel)
			admin.DELETE("/appointments/:id", appointmentHandler.Delete)

			admin.GET("/availability", appointmentHandler.Availability)

			admin.GET("/agenda/week", agendaHandler.Week)
			admin.GET("/agenda.ics", agendaHandler.ICS)

			if d.AuditDB != nil {
				auditLogsHandler := handlers.NewAuditLogsHandler(d.AuditDB)
				admin.GET("/audit-logs", auditLogsHandler.List)
			}
		}
	}
}
