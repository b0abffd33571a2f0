package router

import (
	"github.com/gin-gonic/gin"

	"belegwerk/internal/handler"
	"belegwerk/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	allowedOrigins []string,
	importH *handler.ImportHandler,
	bankH *handler.BankHandler,
	customerH *handler.CustomerHandler,
	documentH *handler.DocumentHandler,
	exportH *handler.ExportHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	// Import pipeline and staged sessions
	imports := v1.Group("/imports")
	imports.POST("", importH.Import)
	imports.POST("/batch", importH.ImportBatch)
	imports.GET("/:id", importH.GetSession)
	imports.PUT("/:id", importH.UpdateSession)
	imports.POST("/:id/commit", importH.Commit)
	imports.DELETE("/:id", importH.CancelSession)

	// Bank statements skip staging entirely
	v1.POST("/bank-imports", bankH.ImportStatement)
	txns := v1.Group("/bank-transactions")
	txns.GET("", bankH.List)
	txns.PUT("/:id/validated", bankH.SetValidated)

	// Customer registry
	customers := v1.Group("/customers")
	customers.POST("", customerH.Create)
	customers.GET("", customerH.List)
	customers.GET("/:id", customerH.GetByID)
	customers.PUT("/:id", customerH.Update)

	// Committed records, addressed by their sequence number
	invoices := v1.Group("/invoices")
	invoices.GET("", documentH.ListInvoices)
	invoices.GET("/:number", documentH.GetInvoice)
	quotes := v1.Group("/quotes")
	quotes.GET("", documentH.ListQuotes)
	quotes.GET("/:number", documentH.GetQuote)

	// CSV exports
	exports := v1.Group("/exports")
	exports.GET("/invoices", exportH.ExportInvoices)
	exports.GET("/bank-transactions", exportH.ExportTransactions)

	return r
}
