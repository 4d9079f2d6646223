package router

import (
	"github.com/labstack/echo/v4"

	"bazaarflow/internal/adapter/api/handler"
	"bazaarflow/internal/adapter/api/middleware"
)

func SetupConversationRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware) {
	conversationHandler := handler.GetConversationHandler()

	conversations := e.Group("/v1/conversations")
	conversations.Use(authMiddleware.Authenticate)
	conversations.POST("", conversationHandler.CreateConversation)
	conversations.GET("", conversationHandler.ListConversations)
	conversations.GET("/:id/messages", conversationHandler.GetMessages)
	conversations.POST("/:id/messages", conversationHandler.SendMessage)

	messages := e.Group("/v1/messages")
	messages.Use(authMiddleware.Authenticate)
	messages.GET("/unread", conversationHandler.GetUnreadTotal)

	admin := e.Group("/v1/admin/conversations")
	admin.Use(authMiddleware.Authenticate)
	admin.Use(adminMiddleware.AdminOnly)
	admin.POST("/cleanup", conversationHandler.CleanupDuplicates)
}
