package router

import (
	"time"

	"keymarket/internal/config"
	"keymarket/internal/handler"
	"keymarket/internal/middleware"
	"keymarket/internal/model"
	"keymarket/internal/repository"
	"keymarket/internal/service"
	"keymarket/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
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
	userRepo := repository.NewUserRepository(db)
	loginHistoryRepo := repository.NewLoginHistoryRepository(db)
	productRepo := repository.NewProductRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, loginHistoryRepo, cfg)
	productSvc := service.NewProductService(productRepo)
	inventorySvc := service.NewInventoryService(inventoryRepo, productRepo, dispatcher)
	saleSvc := service.NewSaleService(saleRepo, productRepo, inventorySvc, settingsRepo)
	settingsSvc := service.NewSettingsService(settingsRepo)
	notificationSvc := service.NewNotificationService(notificationRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usersH := handler.NewUsersHandler(authSvc)
	productsH := handler.NewProductsHandler(productSvc)
	inventoryH := handler.NewInventoryHandler(inventorySvc)
	salesH := handler.NewSalesHandler(saleSvc)
	settingsH := handler.NewSettingsHandler(settingsSvc)
	notificationsH := handler.NewNotificationsHandler(notificationSvc)
	jobsH := handler.NewJobsHandler(rdb)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	anyRole := middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleCashier)
	managerUp := middleware.RequireRole(model.RoleAdmin, model.RoleManager)
	adminOnly := middleware.RequireRole(model.RoleAdmin)

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Products — everyone reads (POS catalog), admin writes
		v1.GET("/products", anyRole, productsH.List)
		v1.GET("/products/:id", anyRole, productsH.Get)
		v1.GET("/products/barcode/:barcode", anyRole, productsH.GetByBarcode)
		prods := v1.Group("/products", adminOnly)
		{
			prods.POST("", productsH.Create)
			prods.PUT("/:id", productsH.Update)
			prods.DELETE("/:id", productsH.Delete)
		}

		// Inventory — managers and admins
		inv := v1.Group("/inventory", managerUp)
		{
			inv.POST("", inventoryH.Create)
			inv.GET("", inventoryH.List)
			inv.GET("/low-stock", inventoryH.LowStock)
			inv.GET("/transactions", inventoryH.Transactions)
			inv.GET("/:id", inventoryH.Get)
			inv.PATCH("/:id/stock", inventoryH.AdjustStock)
			inv.DELETE("/:id", inventoryH.Delete)
		}

		// Sales — anyone sells, managers cancel
		v1.POST("/sales", anyRole, salesH.Create)
		v1.GET("/sales", anyRole, salesH.List)
		v1.GET("/sales/:id", anyRole, salesH.Get)
		v1.DELETE("/sales/:id", managerUp, salesH.Cancel)

		// Settings — everyone reads (currency, tax for receipts), admin writes
		v1.GET("/settings", anyRole, settingsH.Get)
		v1.PUT("/settings", adminOnly, settingsH.Update)

		// Notifications — always scoped to the authenticated user
		v1.GET("/notifications", anyRole, notificationsH.List)
		v1.PATCH("/notifications/:id/read", anyRole, notificationsH.MarkRead)
		v1.PATCH("/notifications/read-all", anyRole, notificationsH.MarkAllRead)

		// Job queue operations
		jobs := v1.Group("/jobs", adminOnly)
		{
			jobs.GET("/dead", jobsH.DeadCount)
			jobs.POST("/dead/requeue", jobsH.RequeueDead)
		}

		// User administration
		users := v1.Group("/users", adminOnly)
		{
			users.POST("", usersH.Create)
			users.GET("", usersH.List)
			users.GET("/login-history", usersH.LoginHistory)
			users.PUT("/:id", usersH.Update)
			users.DELETE("/:id", usersH.Deactivate)
			users.PATCH("/:id/reactivate", usersH.Reactivate)
		}
	}

	return r
}
