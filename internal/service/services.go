package service

import (
	"github.com/neslihan-na/playlearnkids-admin/internal/lib/job"
	"github.com/neslihan-na/playlearnkids-admin/internal/repository"
	"github.com/neslihan-na/playlearnkids-admin/internal/server"
)

type Services struct {
	Auth          *AuthService
	Users         *UserService
	Admins        *AdminService
	Stories       *StoryService
	Videos        *VideoService
	Similarity    *SimilarityService
	WordHunt      *WordHuntService
	Notifications *NotificationService
	HighFives     *HighFiveService
	Messages      *MessageService
	Bots          *BotService

	// Jobs is the asynq service when Redis is up, else inline delivery.
	Jobs job.Dispatcher
}

// NewService wires every service. A nil identities uses Clerk with the
// configured secret key; a nil jobs uses the server's asynq service, or
// inline delivery without Redis.
func NewService(s *server.Server, repos *repository.Repositories, identities IdentityProvider, jobs job.Dispatcher) (*Services, error) {
	if jobs == nil {
		if s.Job != nil {
			jobs = s.Job
		} else {
			jobs = job.NewInline(s.Config, s.Logger)
		}
	}
	if identities == nil {
		identities = NewClerkIdentities(s.Config.Auth.SecretKey)
	}

	admins := NewAdminService(repos.Admins, repos.Users, jobs, s.Logger)

	return &Services{
		Auth:          NewAuthService(identities, admins, s.Logger),
		Users:         NewUserService(repos.Users, s.Logger),
		Admins:        admins,
		Stories:       NewStoryService(repos.Stories, s.Logger),
		Videos:        NewVideoService(repos.Videos, s.Logger),
		Similarity:    NewSimilarityService(repos.Similarity, s.Logger),
		WordHunt:      NewWordHuntService(repos.WordHunt, s.Logger),
		Notifications: NewNotificationService(repos.Notifications, repos.Users, repos.PushTokens, jobs, s.Logger),
		HighFives:     NewHighFiveService(repos.Users, repos.Notifications, repos.PushTokens, jobs, s.Logger),
		Messages:      NewMessageService(repos.Messages, repos.Users, s.Logger),
		Bots:          NewBotService(repos.Users, nil, s.Logger),
		Jobs:          jobs,
	}, nil
}
