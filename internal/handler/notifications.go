package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/neslihan-na/playlearnkids-admin/internal/model"
	"github.com/neslihan-na/playlearnkids-admin/internal/server"
	"github.com/neslihan-na/playlearnkids-admin/internal/service"
	"github.com/neslihan-na/playlearnkids-admin/internal/validation"
)

type ListNotificationsRequest struct {
	UserID string `query:"userId"`
}

func (r *ListNotificationsRequest) Validate() error { return nil }

type SendNotificationRequest struct {
	model.NotificationDraft
}

func (r *SendNotificationRequest) Validate() error {
	switch r.Type {
	case "", model.NotificationNewStory, model.NotificationAchievement, model.NotificationScoreUpdate,
		model.NotificationSpecialEvent, model.NotificationPremiumFeature, model.NotificationCongrats:
		return nil
	}
	var v validation.CustomValidationErrors
	v.Add("type", "unknown notification type")
	return v.Err()
}

type NotificationIDRequest struct {
	ID string `param:"id" validate:"required"`
}

func (r *NotificationIDRequest) Validate() error { return validate.Struct(r) }

type HighFiveRequest struct {
	SenderID   string `json:"senderId"`
	ReceiverID string `json:"receiverId"`
}

func (r *HighFiveRequest) Validate() error { return nil }

type NotificationHandler struct {
	Handler
	notifications *service.NotificationService
	highFives     *service.HighFiveService
}

func NewNotificationHandler(s *server.Server, notifications *service.NotificationService, highFives *service.HighFiveService) *NotificationHandler {
	return &NotificationHandler{Handler: NewHandler(s), notifications: notifications, highFives: highFives}
}

// List returns notifications newest first, for one user when ?userId= is set.
func (h *NotificationHandler) List() echo.HandlerFunc {
	return Handle(func(c echo.Context, req *ListNotificationsRequest) ([]model.Notification, error) {
		return h.notifications.ListNotifications(c.Request().Context(), req.UserID)
	}, http.StatusOK)
}

func (h *NotificationHandler) Templates() echo.HandlerFunc {
	return Handle(func(c echo.Context, _ *NoRequest) ([]model.NotificationTemplate, error) {
		return h.notifications.Templates(), nil
	}, http.StatusOK)
}

func (h *NotificationHandler) Send() echo.HandlerFunc {
	return Handle(func(c echo.Context, req *SendNotificationRequest) (*model.SendResult, error) {
		return h.notifications.Send(c.Request().Context(), req.NotificationDraft)
	}, http.StatusCreated)
}

func (h *NotificationHandler) Delete() echo.HandlerFunc {
	return HandleNoContent(func(c echo.Context, req *NotificationIDRequest) error {
		return h.notifications.DeleteNotification(c.Request().Context(), req.ID)
	}, http.StatusNoContent)
}

// HighFive sends a high five on behalf of senderId. Missing or equal ids
// are rejected by the service with its own messages.
func (h *NotificationHandler) HighFive() echo.HandlerFunc {
	return Handle(func(c echo.Context, req *HighFiveRequest) (*model.ActionResult, error) {
		return h.highFives.Send(c.Request().Context(), req.SenderID, req.ReceiverID)
	}, http.StatusOK)
}
