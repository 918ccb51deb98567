package repository

import (
	"github.com/neslihan-na/playlearnkids-admin/internal/server"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	Users         *UserRepository
	Admins        *AdminRepository
	Stories       *StoryRepository
	Videos        *VideoRepository
	Similarity    *QuestionRepository
	WordHunt      *QuestionRepository
	Notifications *NotificationRepository
	Messages      *MessageRepository
	PushTokens    *PushTokenRepository
}

// NewRepositories builds every repository on the server's store. The user
// collection follows the configured environment.
func NewRepositories(s *server.Server) *Repositories {
	st := s.Store
	return &Repositories{
		Users:         NewUserRepository(st, s.Config.UsersRoot()),
		Admins:        NewAdminRepository(st),
		Stories:       NewStoryRepository(st),
		Videos:        NewVideoRepository(st),
		Similarity:    NewQuestionRepository(st, SimilarityRoot),
		WordHunt:      NewQuestionRepository(st, WordHuntRoot),
		Notifications: NewNotificationRepository(st),
		Messages:      NewMessageRepository(st),
		PushTokens:    NewPushTokenRepository(st),
	}
}
