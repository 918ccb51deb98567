package handler

import (
	"github.com/neslihan-na/playlearnkids-admin/internal/server"
	"github.com/neslihan-na/playlearnkids-admin/internal/service"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Health        *HealthHandler
	OpenAPI       *OpenAPIHandler
	Users         *UserHandler
	Admins        *AdminHandler
	Stories       *StoryHandler
	Videos        *VideoHandler
	Questions     *QuestionHandler
	Notifications *NotificationHandler
	Messages      *MessageHandler
	Bots          *BotHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:        NewHealthHandler(s),
		OpenAPI:       NewOpenAPIHandler(s),
		Users:         NewUserHandler(s, services.Users),
		Admins:        NewAdminHandler(s, services.Admins),
		Stories:       NewStoryHandler(s, services.Stories),
		Videos:        NewVideoHandler(s, services.Videos),
		Questions:     NewQuestionHandler(s, services.Similarity, services.WordHunt),
		Notifications: NewNotificationHandler(s, services.Notifications, services.HighFives),
		Messages:      NewMessageHandler(s, services.Messages),
		Bots:          NewBotHandler(s, services.Bots),
	}
}
