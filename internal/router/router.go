package router

import (
	"time"

	"github.com/modulartear/posventa/internal/config"
	"github.com/modulartear/posventa/internal/handler"
	"github.com/modulartear/posventa/internal/infra"
	"github.com/modulartear/posventa/internal/middleware"
	"github.com/modulartear/posventa/internal/repository"
	"github.com/modulartear/posventa/internal/service"
	"github.com/modulartear/posventa/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, mpClient *infra.MercadoPagoClient) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	companyRepo := repository.NewCompanyRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	productRepo := repository.NewProductRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	registerRepo := repository.NewRegisterRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	loyaltyRepo := repository.NewLoyaltyRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(companyRepo, settingsRepo, cfg)
	productSvc := service.NewProductService(productRepo, companyRepo)
	employeeSvc := service.NewEmployeeService(employeeRepo, companyRepo)
	sessionSvc := service.NewSessionService(sessionRepo, saleRepo)
	registerSvc := service.NewRegisterService(registerRepo, sessionSvc, employeeRepo, companyRepo, dispatcher)
	loyaltySvc := service.NewLoyaltyService(loyaltyRepo, customerRepo)
	saleSvc := service.NewSaleService(saleRepo, sessionSvc, registerRepo, productRepo, loyaltySvc)
	archiveSvc := service.NewArchiveService(sessionRepo, saleRepo, registerRepo)
	exportSvc := service.NewExportService(sessionRepo, saleRepo)
	paymentSvc := service.NewPaymentService(settingsRepo, mpClient, rdb, dispatcher, cfg)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	productsH := handler.NewProductHandler(productSvc)
	employeesH := handler.NewEmployeeHandler(employeeSvc)
	registersH := handler.NewRegisterHandler(registerSvc)
	sessionsH := handler.NewSessionHandler(sessionSvc, exportSvc)
	salesH := handler.NewSaleHandler(saleSvc, exportSvc)
	archiveH := handler.NewArchiveHandler(archiveSvc)
	terminalH := handler.NewTerminalHandler(registerSvc, productSvc, saleSvc)
	paymentsH := handler.NewPaymentHandler(paymentSvc)
	loyaltyH := handler.NewLoyaltyHandler(loyaltySvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
		auth.POST("/signup", middleware.LoginRateLimiter(), authH.RegisterCompany)
	}

	// Terminal — addressed by register access token, no JWT
	terminal := r.Group("/terminal")
	{
		terminal.GET("/:token", terminalH.Bootstrap)
		terminal.POST("/:token/sales", terminalH.RecordSale)
	}

	// Gateway notifications — authenticated by HMAC signature, not JWT
	r.POST("/api/webhooks/mercadopago", paymentsH.Webhook)

	// Protected routes — the dashboard surface is admin-only
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW, middleware.RequireRole("admin"))
	{
		products := v1.Group("/products")
		{
			products.POST("", productsH.Create)
			products.GET("", productsH.List)
			products.GET("/:id", productsH.Get)
			products.PATCH("/:id", productsH.Patch)
			products.DELETE("/:id", productsH.Delete)
		}

		employees := v1.Group("/employees")
		{
			employees.POST("", employeesH.Create)
			employees.GET("", employeesH.List)
			employees.GET("/:id", employeesH.Get)
			employees.PATCH("/:id", employeesH.Patch)
			employees.DELETE("/:id", employeesH.Deactivate)
		}

		registers := v1.Group("/registers")
		{
			registers.POST("", registersH.Create)
			registers.GET("", registersH.List)
			registers.GET("/:id", registersH.Get)
			registers.PATCH("/:id", registersH.Patch)
			registers.DELETE("/:id", registersH.Delete)
			registers.POST("/:id/open", registersH.Open)
			registers.POST("/:id/close", registersH.Close)
			registers.POST("/:id/repair", registersH.Repair)
			registers.POST("/:id/rotate-token", registersH.RotateToken)
		}

		sessions := v1.Group("/sessions")
		{
			sessions.GET("", sessionsH.History)
			sessions.GET("/:id", sessionsH.Get)
			sessions.GET("/:id/export", sessionsH.Export)
		}

		sales := v1.Group("/sales")
		{
			sales.GET("", salesH.List)
			sales.GET("/:id", salesH.Get)
			sales.POST("/import", salesH.Import)
		}

		archive := v1.Group("/archive")
		{
			archive.POST("", archiveH.Run)
			archive.GET("", archiveH.Retrieve)
		}

		loyalty := v1.Group("/loyalty")
		{
			loyalty.GET("/program", loyaltyH.GetProgram)
			loyalty.PUT("/program", loyaltyH.SaveProgram)
			loyalty.PATCH("/program", loyaltyH.PatchProgram)
		}

		customers := v1.Group("/customers")
		{
			customers.POST("", loyaltyH.CreateCustomer)
			customers.GET("", loyaltyH.ListCustomers)
			customers.GET("/:id", loyaltyH.GetCustomer)
		}

		payments := v1.Group("/payments")
		{
			payments.POST("/charges", paymentsH.CreateCharge)
			payments.GET("/charges/:reference", paymentsH.GetStatus)
		}

		settings := v1.Group("/settings")
		{
			settings.GET("/api", paymentsH.GetAPISettings)
			settings.PATCH("/api", paymentsH.PatchAPISettings)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
