package api

import (
	"aiplugin/internal/auth"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes 注册所有 API 路由
func RegisterRoutes(router *gin.Engine, container *AppContainer, handlers *Handlers) {
	prefix := "/api/v1/ai"
	if container.Config != nil && container.Config.Server.APIPrefix != "" {
		prefix = container.Config.Server.APIPrefix
	}

	apiGroup := router.Group(prefix)
	adminGuard := func(c *gin.Context) { c.Next() }
	if container.JWTService != nil {
		apiGroup.Use(auth.AuthMiddleware(container.JWTService))
		adminGuard = auth.RequireRole("admin")
	}

	registerProviderRoutes(apiGroup, handlers, adminGuard)
	registerModelRoutes(apiGroup, handlers, adminGuard)
	registerChatRoutes(apiGroup, handlers)
}

func registerProviderRoutes(apiGroup *gin.RouterGroup, h *Handlers, adminGuard gin.HandlerFunc) {
	providersGroup := apiGroup.Group("/providers")
	{
		providersGroup.GET("", h.Provider.ListProviders)
		providersGroup.GET("/all", h.Provider.AllProviders)
		providersGroup.GET("/:id", h.Provider.GetProvider)
		providersGroup.GET("/:id/models", h.Provider.GetProviderModels)

		providersGroup.GET("/:id/models/sync", adminGuard, h.Provider.SyncProviderModels)
		providersGroup.POST("/sync", adminGuard, h.Provider.SyncAllProviders)
		providersGroup.POST("", adminGuard, h.Provider.CreateProvider)
		providersGroup.PUT("/:id", adminGuard, h.Provider.UpdateProvider)
		providersGroup.DELETE("", adminGuard, h.Provider.DeleteProviders)
	}
}

func registerModelRoutes(apiGroup *gin.RouterGroup, h *Handlers, adminGuard gin.HandlerFunc) {
	modelsGroup := apiGroup.Group("/models")
	{
		modelsGroup.GET("", h.Model.ListModels)
		modelsGroup.GET("/all", h.Model.AllModels)
		modelsGroup.GET("/:id", h.Model.GetModel)

		modelsGroup.POST("", adminGuard, h.Model.CreateModel)
		modelsGroup.PUT("/:id", adminGuard, h.Model.UpdateModel)
		modelsGroup.DELETE("", adminGuard, h.Model.DeleteModels)
	}
}

func registerChatRoutes(apiGroup *gin.RouterGroup, h *Handlers) {
	chatGroup := apiGroup.Group("/chat")
	{
		chatGroup.POST("/completions", h.Chat.Completions)
		chatGroup.GET("/ws", h.Chat.Connect)
	}
}
