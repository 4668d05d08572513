package main

import (
	"log"
	"strings"

	"github.com/sopheaklaing/pharmacy/internal/audit"
	"github.com/sopheaklaing/pharmacy/internal/auth"
	"github.com/sopheaklaing/pharmacy/internal/catalog"
	"github.com/sopheaklaing/pharmacy/internal/config"
	"github.com/sopheaklaing/pharmacy/internal/database"
	"github.com/sopheaklaing/pharmacy/internal/models"
	"github.com/sopheaklaing/pharmacy/internal/orders"
	"github.com/sopheaklaing/pharmacy/internal/payments"
	"github.com/sopheaklaing/pharmacy/internal/stock"
	"github.com/sopheaklaing/pharmacy/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	store := storage.NewLocal(cfg.StoragePath, cfg.PublicBaseURL)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Unexpected server error",
			})
		},
	})

	// Split the comma separated CORS origins and trim whitespace
	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}

	// Demo orders fixture keeps its own permissive CORS, so it is mounted
	// before the dashboard CORS middleware.
	orders.NewMock().Register(app)

	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	// Uploaded medication images
	app.Static("/uploads", cfg.StoragePath)

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-admin", auth.RegisterAdminHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Catalog management (admin only)
	adminOnly := auth.RequireRole(models.RoleAdmin)

	protected.Post("/admin/users", adminOnly, auth.CreateUserHandler())

	protected.Post("/medications", adminOnly, catalog.CreateMedicationHandler())
	protected.Put("/medications/:id", adminOnly, catalog.UpdateMedicationHandler())
	protected.Delete("/medications/:id", adminOnly, catalog.DeleteMedicationHandler())
	protected.Post("/medications/:id/image", adminOnly, catalog.UploadMedicationImageHandler(store))
	protected.Post("/medications/:id/image-from-url", adminOnly, catalog.ImportMedicationImageHandler(store))

	protected.Post("/categories", adminOnly, catalog.CreateCategoryHandler())
	protected.Put("/categories/:id", adminOnly, catalog.UpdateCategoryHandler())
	protected.Delete("/categories/:id", adminOnly, catalog.DeleteCategoryHandler())

	// Catalog reads (all authenticated users)
	protected.Get("/medications", catalog.ListMedicationsHandler())
	protected.Get("/medications/:id", catalog.GetMedicationHandler())
	protected.Get("/categories", catalog.ListCategoriesHandler())

	// Stock ledger
	protected.Post("/stock-logs", stock.CreateStockLogHandler())
	protected.Get("/stock-logs", stock.ListStockLogsHandler())
	protected.Get("/stock/levels", stock.StockLevelsHandler())

	// Payments
	protected.Get("/payments", payments.ListPaymentsHandler())
	protected.Post("/payments", payments.CreatePaymentHandler())

	// Audit logs
	protected.Get("/audit-logs", audit.ListAuditLogsHandler())

	log.Println("Server running on port:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
