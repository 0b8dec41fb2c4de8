package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"portal-backend-go/internal/config"
	"portal-backend-go/internal/core"
	"portal-backend-go/internal/identity"
	"portal-backend-go/internal/middleware"
	"portal-backend-go/internal/ratelimit"
)

// uploadSlack is the multipart framing allowed on top of the per-file
// ceiling when capping upload request bodies.
const uploadSlack int64 = 64 * 1024

// Services bundles the dependencies of the HTTP layer.
type Services struct {
	Identity identity.Provider
	Admins   *core.AdminList
	Limiter  ratelimit.Limiter // throttles password resets per client IP; may be nil

	Users     core.UserService
	Projects  core.ProjectService
	Invoices  core.InvoiceService
	Documents core.DocumentService
	Requests  core.RequestService
	Accounts  core.AccountService
	Files     *core.FileGateway
}

// SetupRoutes configures all the application routes with their handlers and
// middleware. Global middleware (logging, recovery, CORS) is applied by the
// caller.
func SetupRoutes(router *gin.Engine, cfg *config.Config, logger *zap.Logger, svc Services) {
	authMW := middleware.NewAuthMiddleware(svc.Identity, svc.Admins, logger)

	authHandler := NewAuthHandler(svc.Users, svc.Accounts, svc.Admins, logger)
	userHandler := NewUserHandler(svc.Users, svc.Accounts, svc.Admins, logger)
	projectHandler := NewProjectHandler(svc.Projects, logger)
	invoiceHandler := NewInvoiceHandler(svc.Invoices, logger)
	documentHandler := NewDocumentHandler(svc.Documents, logger)
	requestHandler := NewRequestHandler(svc.Requests, logger)
	uploadHandler := NewUploadHandler(svc.Files, cfg.UploadMaxBytes, logger)
	emailHandler := NewEmailHandler(svc.Accounts, logger)

	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/auth/reset-password",
			middleware.RateLimit(svc.Limiter, "reset-ip", logger),
			authHandler.ResetPassword)

		users := apiV1.Group("/users", authMW.VerifyToken())
		{
			users.POST("/initialize", authHandler.InitializeUserProfile)
			users.GET("/me", authHandler.GetCurrentUser)
		}

		me := apiV1.Group("/me", authMW.VerifyToken())
		{
			me.GET("/projects", projectHandler.ListMine)
			me.GET("/invoices", invoiceHandler.ListMine)
			me.GET("/documents", documentHandler.ListMine)
			me.GET("/payment-summary", userHandler.GetMyPaymentSummary)
			me.GET("/requests", requestHandler.ListMine)
			me.POST("/requests", requestHandler.CreateMine)
			me.GET("/requests/stream", requestHandler.StreamMine)
		}

		apiV1.POST("/uploads",
			authMW.VerifyToken(),
			middleware.MaxBodySize(cfg.UploadMaxBytes+uploadSlack),
			uploadHandler.Upload)
		apiV1.POST("/email", authMW.VerifyToken(), emailHandler.Send)

		admin := apiV1.Group("/admin", authMW.VerifyToken(), authMW.RequireAdmin())
		{
			admin.POST("/users", userHandler.CreateUser)
			admin.GET("/users", userHandler.ListUsers)
			admin.GET("/users/:id", userHandler.GetUser)
			admin.PUT("/users/:id", userHandler.UpdateUser)
			admin.DELETE("/users/:id", userHandler.DeleteUser)
			admin.GET("/users/:id/payment-summary", userHandler.GetPaymentSummary)

			projects := admin.Group("/projects")
			projects.GET("", projectHandler.List)
			projects.POST("", projectHandler.Create)
			projects.GET("/:id", projectHandler.Get)
			projects.PUT("/:id", projectHandler.Update)
			projects.DELETE("/:id", projectHandler.Delete)
			projects.POST("/:id/assign", projectHandler.Assign)

			invoices := admin.Group("/invoices")
			invoices.GET("", invoiceHandler.List)
			invoices.POST("", invoiceHandler.Create)
			invoices.GET("/:id", invoiceHandler.Get)
			invoices.PUT("/:id", invoiceHandler.Update)
			invoices.DELETE("/:id", invoiceHandler.Delete)
			invoices.POST("/:id/assign", invoiceHandler.Assign)

			documents := admin.Group("/documents")
			documents.GET("", documentHandler.List)
			documents.POST("", documentHandler.Create)
			documents.GET("/:id", documentHandler.Get)
			documents.PUT("/:id", documentHandler.Update)
			documents.DELETE("/:id", documentHandler.Delete)
			documents.POST("/:id/assign", documentHandler.Assign)

			requests := admin.Group("/requests")
			requests.GET("", requestHandler.List)
			requests.GET("/stream", requestHandler.Stream)
			requests.GET("/:id", requestHandler.Get)
			requests.PUT("/:id", requestHandler.Update)
			requests.PATCH("/:id/status", requestHandler.UpdateStatus)
			requests.DELETE("/:id", requestHandler.Delete)
			requests.POST("/:id/assign", requestHandler.Assign)
		}
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "message": "Portal backend is healthy."})
	})

	logger.Info("API routes configured", zap.Int("routes", len(router.Routes())))
}
