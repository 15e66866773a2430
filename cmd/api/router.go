package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"studyhall-backend/internal/shared/middleware"
	"studyhall-backend/internal/shared/response"
	"studyhall-backend/pkg/container"
)

// SetupRouter wires the middleware stack and every route group. Handlers
// stay thin; role gating happens here via the auth and admin middleware.
func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS())

	api := router.Group("/api")

	api.GET("/health", func(ctx *gin.Context) {
		if err := c.DB.HealthCheck(ctx.Request.Context()); err != nil {
			response.ErrorResponse(ctx, http.StatusServiceUnavailable, "SYS_002", "database unavailable")
			return
		}
		response.Success(ctx, http.StatusOK, gin.H{
			"status":  "ok",
			"version": c.Config.App.Version,
		})
	})

	// Public auth endpoints.
	auth := api.Group("/auth")
	{
		auth.POST("/login", c.DirectorHandler.Login)
		auth.POST("/refresh", c.DirectorHandler.Refresh)
	}

	// Everything below requires a valid access token.
	authorized := api.Group("")
	authorized.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		authorized.GET("/auth/profile", c.DirectorHandler.Profile)
		authorized.PUT("/auth/profile", c.DirectorHandler.UpdateProfile)

		students := authorized.Group("/students")
		{
			students.GET("", c.StudentHandler.ListStudents)
			students.GET("/stats", c.StudentHandler.GetStudentStats)
			students.GET("/:id", c.StudentHandler.GetStudent)
			students.POST("", c.StudentHandler.CreateStudent)
			students.PUT("/:id", c.StudentHandler.UpdateStudent)
			students.DELETE("/:id", c.StudentHandler.DeleteStudent)

			students.POST("/:id/restore", middleware.AdminMiddleware(), c.StudentHandler.RestoreStudent)
			students.POST("/repair-fees", middleware.AdminMiddleware(), c.StudentHandler.RepairFeeStatuses)
		}

		payments := authorized.Group("/payments")
		{
			payments.POST("", c.PaymentHandler.AddPayment)
			payments.GET("", c.PaymentHandler.ListPayments)
			payments.GET("/stats", c.PaymentHandler.GetCollectionStats)
			payments.GET("/export", c.PaymentHandler.ExportPayments)
			payments.GET("/student/:studentId", c.PaymentHandler.ListStudentPayments)
			payments.GET("/:id", c.PaymentHandler.GetPayment)

			payments.POST("/:id/reverse", middleware.AdminMiddleware(), c.PaymentHandler.ReversePayment)
		}

		seats := authorized.Group("/seats")
		{
			seats.GET("", c.SeatHandler.ListSeats)
			seats.GET("/available", c.SeatHandler.ListAvailable)
			seats.GET("/stats", c.SeatHandler.GetSeatStats)
			seats.GET("/:seatId", c.SeatHandler.GetSeat)
		}

		pricing := authorized.Group("/pricing")
		{
			pricing.GET("", c.PricingHandler.ListPricing)
			pricing.GET("/fee", c.PricingHandler.LookupFee)

			pricing.POST("", middleware.AdminMiddleware(), c.PricingHandler.CreatePricing)
			pricing.PUT("/:id", middleware.AdminMiddleware(), c.PricingHandler.UpdatePrice)
			pricing.DELETE("/:id", middleware.AdminMiddleware(), c.PricingHandler.DeactivatePricing)
		}

		audit := authorized.Group("/audit-logs")
		{
			audit.GET("", c.AuditHandler.ListAuditLogs)
			audit.GET("/stats", middleware.AdminMiddleware(), c.AuditHandler.GetAuditStats)
			audit.GET("/target/:type/:id", c.AuditHandler.ListAuditLogsByTarget)
			audit.GET("/:id", c.AuditHandler.GetAuditLog)
		}

		notifications := authorized.Group("/notifications")
		{
			notifications.GET("", c.NotificationHandler.ListNotifications)
			notifications.GET("/unread-count", c.NotificationHandler.GetUnreadCount)
			notifications.PATCH("/read-all", c.NotificationHandler.MarkAllRead)
			notifications.PATCH("/:id/read", c.NotificationHandler.MarkRead)

			notifications.DELETE("/:id", middleware.AdminMiddleware(), c.NotificationHandler.DeleteNotification)
		}

		directors := authorized.Group("/directors")
		directors.Use(middleware.AdminMiddleware())
		{
			directors.GET("", c.DirectorHandler.ListDirectors)
			directors.POST("", c.DirectorHandler.CreateDirector)
			directors.GET("/:id", c.DirectorHandler.GetDirector)
			directors.PUT("/:id", c.DirectorHandler.UpdateDirector)
			directors.PATCH("/:id/active", c.DirectorHandler.ToggleDirectorActive)
		}
	}

	return router
}
