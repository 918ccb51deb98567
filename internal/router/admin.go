package router

import (
	"github.com/labstack/echo/v4"
	"github.com/neslihan-na/playlearnkids-admin/internal/handler"
)

func registerAdminRoutes(api *echo.Group, h *handler.Handlers) {
	api.GET("/me", h.Admins.Me())

	users := api.Group("/users")
	users.GET("", h.Users.List())
	users.GET("/export", h.Users.Export())
	users.POST("/maintenance/:action", h.Users.Maintenance())
	users.PATCH("/:key", h.Users.Update())
	users.DELETE("/:key", h.Users.Delete())
	users.PUT("/:key/premium", h.Users.SetPremium())

	admins := api.Group("/admins")
	admins.GET("", h.Admins.List())
	admins.POST("", h.Admins.Create())
	admins.GET("/:key", h.Admins.Get())
	admins.PUT("/:key/active", h.Admins.SetActive())

	stories := api.Group("/stories")
	stories.GET("", h.Stories.List())
	stories.POST("", h.Stories.Create())
	stories.GET("/stats", h.Stories.Stats())
	stories.GET("/catalog", h.Stories.Catalog())
	stories.GET("/:id", h.Stories.Get())
	stories.PUT("/:id", h.Stories.Update())
	stories.DELETE("/:id", h.Stories.Delete())
	stories.POST("/:id/publish", h.Stories.TogglePublish())

	videos := api.Group("/videos")
	videos.GET("", h.Videos.List())
	videos.POST("", h.Videos.Create())
	videos.GET("/:id", h.Videos.Get())
	videos.PATCH("/:id", h.Videos.Update())
	videos.DELETE("/:id", h.Videos.Delete())
	videos.PUT("/:id/active", h.Videos.SetActive())
	videos.POST("/:id/views", h.Videos.IncrementViews())

	similarity := api.Group("/questions/similarity/:lang")
	similarity.GET("", h.Questions.ListSimilarity())
	similarity.POST("", h.Questions.AddSimilarity())
	similarity.POST("/seed", h.Questions.SeedSimilarity())
	similarity.GET("/:id", h.Questions.GetSimilarity())
	similarity.PATCH("/:id", h.Questions.UpdateSimilarity())
	similarity.DELETE("/:id", h.Questions.DeleteSimilarity())

	wordHunt := api.Group("/questions/wordhunt/:lang")
	wordHunt.GET("", h.Questions.ListWordHunt())
	wordHunt.POST("", h.Questions.AddWordHunt())
	wordHunt.POST("/seed", h.Questions.SeedWordHunt())
	wordHunt.GET("/:id", h.Questions.GetWordHunt())
	wordHunt.PATCH("/:id", h.Questions.UpdateWordHunt())
	wordHunt.DELETE("/:id", h.Questions.DeleteWordHunt())

	notifications := api.Group("/notifications")
	notifications.GET("", h.Notifications.List())
	notifications.POST("", h.Notifications.Send())
	notifications.GET("/templates", h.Notifications.Templates())
	notifications.DELETE("/:id", h.Notifications.Delete())

	api.POST("/high-fives", h.Notifications.HighFive())

	messages := api.Group("/messages")
	messages.GET("", h.Messages.Conversations())
	messages.GET("/unread", h.Messages.Unread())
	messages.GET("/:userId", h.Messages.Conversation())
	messages.POST("/:userId/read", h.Messages.MarkRead())
	messages.POST("/:userId/reply", h.Messages.Reply())

	bots := api.Group("/bots")
	bots.GET("", h.Bots.List())
	bots.POST("/randomize", h.Bots.RandomizeAll())
	bots.POST("/:key/randomize", h.Bots.Randomize())
}
