package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/lawnmate-api/internal/audit"
	"github.com/BruksfildServices01/lawnmate-api/internal/auth"
	"github.com/BruksfildServices01/lawnmate-api/internal/checkout"
	"github.com/BruksfildServices01/lawnmate-api/internal/config"
	"github.com/BruksfildServices01/lawnmate-api/internal/events"
	"github.com/BruksfildServices01/lawnmate-api/internal/handlers"
	infraRepo "github.com/BruksfildServices01/lawnmate-api/internal/infra/repository"
	"github.com/BruksfildServices01/lawnmate-api/internal/middleware"
	"github.com/BruksfildServices01/lawnmate-api/internal/timezone"
)

// Deps are the collaborators built in main. Any of them may be nil.
type Deps struct {
	Revocations auth.RevocationStore
	Audit       *audit.Dispatcher
	Events      *events.Dispatcher
	Checkout    checkout.Provider
}

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, deps Deps) {

	// ======================================================
	// INFRA
	// ======================================================
	loc := timezone.Location(cfg.Timezone)

	tokens := auth.NewTokenService(cfg, deps.Revocations)
	guards := middleware.NewGuards(tokens, cfg)

	billingRepo := infraRepo.NewBillingGormRepository(db)
	appointmentRepo := infraRepo.NewAppointmentGormRepository(db)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, tokens)
	portalHandler := handlers.NewCustomerPortalHandler(db, cfg, tokens, deps.Checkout)
	employeeHandler := handlers.NewEmployeeHandler(db, cfg, tokens, deps.Audit)
	customerHandler := handlers.NewCustomerHandler(db, deps.Audit)
	serviceHandler := handlers.NewServiceHandler(db, deps.Audit)
	appointmentHandler := handlers.NewAppointmentHandler(db, appointmentRepo, loc, deps.Audit)
	invoiceHandler := handlers.NewInvoiceHandler(db, billingRepo, deps.Audit, deps.Events)
	paymentHandler := handlers.NewPaymentHandler(billingRepo, loc, deps.Audit, deps.Events)
	quoteHandler := handlers.NewQuoteHandler(db, deps.Audit)
	equipmentHandler := handlers.NewEquipmentHandler(db, loc, deps.Audit)
	reviewHandler := handlers.NewReviewHandler(db, deps.Audit)
	photoHandler := handlers.NewPhotoHandler(db, deps.Audit)
	timeLogHandler := handlers.NewTimeLogHandler(db, loc)
	integrationHandler := handlers.NewIntegrationHandler(db, deps.Audit, deps.Events)
	auditLogsHandler := handlers.NewAuditLogsHandler(db, loc)

	employee := guards.RequireEmployee()
	lead := guards.RequireLead()
	admin := guards.RequireAdmin()
	customer := guards.RequireCustomer()

	// ======================================================
	// AUTH
	// ======================================================
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
		authGroup.POST("/logout", authHandler.Logout)
		authGroup.GET("/me", employee, authHandler.Me)
	}

	// ======================================================
	// CUSTOMER PORTAL
	// ======================================================
	portal := r.Group("/customer_portal")
	{
		portal.POST("/register", portalHandler.Register)
		portal.POST("/login", portalHandler.Login)

		portal.GET("/profile", customer, portalHandler.GetProfile)
		portal.PUT("/profile", customer, portalHandler.UpdateProfile)
		portal.GET("/appointments", customer, portalHandler.Appointments)
		portal.GET("/invoices", customer, portalHandler.Invoices)
		portal.GET("/photos", customer, portalHandler.Photos)
		portal.POST("/reviews", customer, portalHandler.CreateReview)
		portal.GET("/payment/:invoice_id", customer, portalHandler.Payment)
	}

	// ======================================================
	// STAFF
	// ======================================================
	employees := r.Group("/employees")
	{
		employees.GET("", lead, employeeHandler.List)
		employees.GET("/:id", lead, employeeHandler.Get)
		employees.POST("", admin, employeeHandler.Create)
		employees.PUT("/:id", admin, employeeHandler.Update)
		employees.DELETE("/:id", admin, employeeHandler.Delete)
	}

	customers := r.Group("/customers")
	{
		customers.GET("", employee, customerHandler.List)
		customers.GET("/:id", employee, customerHandler.Get)
		customers.POST("", lead, customerHandler.Create)
		customers.PUT("/:id", lead, customerHandler.Update)
		customers.DELETE("/:id", admin, customerHandler.Delete)
	}

	locations := r.Group("/locations")
	{
		locations.GET("", employee, customerHandler.ListLocations)
		locations.GET("/:id", employee, customerHandler.GetLocation)
		locations.POST("", lead, customerHandler.CreateLocation)
		locations.PUT("/:id", lead, customerHandler.UpdateLocation)
		locations.DELETE("/:id", lead, customerHandler.DeleteLocation)
	}

	services := r.Group("/services")
	{
		services.GET("", employee, serviceHandler.List)
		services.POST("", lead, serviceHandler.Create)
		services.PUT("/:id", lead, serviceHandler.Update)
		services.DELETE("/:id", admin, serviceHandler.Delete)
	}

	// ======================================================
	// SCHEDULING
	// ======================================================
	appointments := r.Group("/appointments")
	{
		appointments.GET("/recurring", employee, appointmentHandler.ListRecurring)
		appointments.POST("/recurring", lead, appointmentHandler.CreateRecurring)
		appointments.PUT("/recurring/:id", lead, appointmentHandler.UpdateRecurring)
		appointments.DELETE("/recurring/:id", lead, appointmentHandler.DeleteRecurring)

		appointments.GET("", employee, appointmentHandler.List)
		appointments.GET("/:id", employee, appointmentHandler.Get)
		appointments.POST("", lead, appointmentHandler.Create)
		appointments.PUT("/:id", lead, appointmentHandler.Update)
		appointments.DELETE("/:id", admin, appointmentHandler.Delete)
	}

	timelogs := r.Group("/timelogs", employee)
	{
		timelogs.GET("", timeLogHandler.List)
		timelogs.GET("/:id", timeLogHandler.Get)
		timelogs.POST("", timeLogHandler.Create)
		timelogs.PUT("/:id", timeLogHandler.Update)
		timelogs.DELETE("/:id", timeLogHandler.Delete)
	}

	// ======================================================
	// BILLING
	// ======================================================
	invoices := r.Group("/invoices")
	{
		invoices.GET("", employee, invoiceHandler.List)
		invoices.GET("/:id", employee, invoiceHandler.Get)
		invoices.POST("", lead, invoiceHandler.Create)
		invoices.POST("/from_appointment/:appointment_id", lead, invoiceHandler.GenerateFromAppointment)
		invoices.PUT("/:id", lead, invoiceHandler.Update)
		invoices.DELETE("/:id", admin, invoiceHandler.Delete)

		invoices.GET("/:id/items", lead, invoiceHandler.ListItems)
		invoices.POST("/:id/items", lead, invoiceHandler.CreateItem)
		invoices.PUT("/:id/items/:item_id", lead, invoiceHandler.UpdateItem)
		invoices.DELETE("/:id/items/:item_id", admin, invoiceHandler.DeleteItem)
	}

	payments := r.Group("/payments")
	{
		payments.POST("", lead, paymentHandler.Create)
		payments.POST("/", lead, paymentHandler.Create)
		payments.GET("/:id", employee, paymentHandler.Get)
		payments.GET("/invoice/:invoice_id", employee, paymentHandler.ListForInvoice)
		payments.PUT("/:id", lead, paymentHandler.Update)
		payments.DELETE("/:id", admin, paymentHandler.Delete)
	}

	quotes := r.Group("/quotes")
	{
		quotes.GET("", employee, quoteHandler.List)
		quotes.GET("/:id", employee, quoteHandler.Get)
		quotes.POST("", lead, quoteHandler.Create)
		quotes.PUT("/:id", lead, quoteHandler.Update)
		quotes.DELETE("/:id", admin, quoteHandler.Delete)

		quotes.GET("/:id/items", employee, quoteHandler.ListItems)
		quotes.POST("/:id/items", lead, quoteHandler.CreateItem)
		quotes.DELETE("/:id/items/:item_id", admin, quoteHandler.DeleteItem)
	}

	// ======================================================
	// EQUIPMENT
	// ======================================================
	equipment := r.Group("/equipment")
	{
		equipment.GET("/categories", employee, equipmentHandler.ListCategories)
		equipment.POST("/categories", admin, equipmentHandler.CreateCategory)
		equipment.PUT("/categories/:id", admin, equipmentHandler.UpdateCategory)
		equipment.DELETE("/categories/:id", admin, equipmentHandler.DeleteCategory)

		equipment.GET("", employee, equipmentHandler.List)
		equipment.GET("/:id", employee, equipmentHandler.Get)
		equipment.POST("", admin, equipmentHandler.Create)
		equipment.PUT("/:id", admin, equipmentHandler.Update)
		equipment.DELETE("/:id", admin, equipmentHandler.Delete)

		equipment.GET("/:id/assignments", employee, equipmentHandler.ListAssignments)
		equipment.POST("/:id/assignments", admin, equipmentHandler.CreateAssignment)
		equipment.DELETE("/:id/assignments/:assignment_id", admin, equipmentHandler.DeleteAssignment)

		equipment.GET("/:id/consumables", employee, equipmentHandler.ListConsumables)
		equipment.POST("/:id/consumables", admin, equipmentHandler.CreateConsumable)
		equipment.DELETE("/:id/consumables/:consumable_id", admin, equipmentHandler.DeleteConsumable)
	}

	// ======================================================
	// FEEDBACK
	// ======================================================
	reviews := r.Group("/reviews")
	{
		reviews.GET("", employee, reviewHandler.List)
		reviews.POST("", admin, reviewHandler.Create)
		reviews.PUT("/:id", admin, reviewHandler.Update)
		reviews.DELETE("/:id", admin, reviewHandler.Delete)
	}

	photos := r.Group("/photos")
	{
		photos.GET("", employee, photoHandler.List)
		photos.GET("/appointment/:id", employee, photoHandler.ListForAppointment)
		photos.POST("", employee, photoHandler.Create)
		photos.PUT("/:id", lead, photoHandler.Update)
		photos.DELETE("/:id", lead, photoHandler.Delete)
	}

	// ======================================================
	// INTEGRATIONS / ADMIN
	// ======================================================
	integrations := r.Group("/integrations")
	{
		integrations.POST("/register_webhook", admin, integrationHandler.RegisterWebhook)
		integrations.POST("/webhook", guards.RequireAPIKey(), integrationHandler.Webhook)
		integrations.GET("/test_event", guards.RequireAPIKey(), integrationHandler.TestEvent)
	}

	r.GET("/audit-logs", admin, auditLogsHandler.List)
}
