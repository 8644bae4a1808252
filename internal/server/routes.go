package server

import (
	"github.com/labstack/echo/v4"

	"example.com/household-bills/backend/internal/handlers"
)

func registerRoutes(
	e *echo.Echo,
	authHandler *handlers.AuthHandler,
	billHandler *handlers.BillHandler,
	transactionHandler *handlers.TransactionHandler,
	summaryHandler *handlers.SummaryHandler,
	adminHandler *handlers.AdminHandler,
	sessionMiddleware echo.MiddlewareFunc,
	adminMiddleware echo.MiddlewareFunc,
	authRateLimiter echo.MiddlewareFunc,
) {
	e.GET("/health", handlers.Health)

	api := e.Group("/api/v1")
	authGroup := api.Group("/auth", authRateLimiter)

	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/logout", authHandler.Logout)
	authGroup.GET("/me", authHandler.Me, sessionMiddleware)

	bills := api.Group("/bills", sessionMiddleware)
	bills.GET("", billHandler.List)
	bills.PATCH("/:id", billHandler.Update)
	bills.PATCH("/:id/paid", billHandler.MarkPaid)

	transactions := api.Group("/transactions", sessionMiddleware)
	transactions.GET("", transactionHandler.List)
	transactions.GET("/export/csv", transactionHandler.ExportCSV)

	summaryGroup := api.Group("/summary", sessionMiddleware)
	summaryGroup.GET("", summaryHandler.Get)

	admin := api.Group("/admin", sessionMiddleware, adminMiddleware)
	admin.GET("/users", adminHandler.ListUsers)
	admin.POST("/users", adminHandler.CreateUser)
	admin.POST("/households", adminHandler.CreateHousehold)
	admin.GET("/usage", adminHandler.Usage)
}
