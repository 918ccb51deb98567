package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/neslihan-na/playlearnkids-admin/internal/middleware"
	"github.com/neslihan-na/playlearnkids-admin/internal/model"
	"github.com/neslihan-na/playlearnkids-admin/internal/server"
	"github.com/neslihan-na/playlearnkids-admin/internal/service"
)

type ConversationRequest struct {
	UserID string `param:"userId" validate:"required"`
}

func (r *ConversationRequest) Validate() error { return validate.Struct(r) }

type ReplyRequest struct {
	UserID string `param:"userId" validate:"required"`
	Text   string `json:"text"`
}

func (r *ReplyRequest) Validate() error { return validate.Struct(r) }

type UnreadResponse struct {
	Count int `json:"count"`
}

type MarkReadResponse struct {
	Marked int `json:"marked"`
}

type MessageHandler struct {
	Handler
	messages *service.MessageService
}

func NewMessageHandler(s *server.Server, messages *service.MessageService) *MessageHandler {
	return &MessageHandler{Handler: NewHandler(s), messages: messages}
}

func (h *MessageHandler) Conversations() echo.HandlerFunc {
	return Handle(func(c echo.Context, _ *NoRequest) ([]model.Conversation, error) {
		return h.messages.Conversations(c.Request().Context())
	}, http.StatusOK)
}

func (h *MessageHandler) Unread() echo.HandlerFunc {
	return Handle(func(c echo.Context, _ *NoRequest) (UnreadResponse, error) {
		n, err := h.messages.UnreadTotal(c.Request().Context())
		return UnreadResponse{Count: n}, err
	}, http.StatusOK)
}

func (h *MessageHandler) Conversation() echo.HandlerFunc {
	return Handle(func(c echo.Context, req *ConversationRequest) (*model.Conversation, error) {
		return h.messages.Conversation(c.Request().Context(), req.UserID)
	}, http.StatusOK)
}

func (h *MessageHandler) MarkRead() echo.HandlerFunc {
	return Handle(func(c echo.Context, req *ConversationRequest) (MarkReadResponse, error) {
		n, err := h.messages.MarkRead(c.Request().Context(), req.UserID)
		return MarkReadResponse{Marked: n}, err
	}, http.StatusOK)
}

// Reply answers a user as the signed-in admin.
func (h *MessageHandler) Reply() echo.HandlerFunc {
	return Handle(func(c echo.Context, req *ReplyRequest) (*model.Message, error) {
		adminID := ""
		if p := middleware.GetPrincipal(c); p != nil {
			adminID = p.Key
		}
		return h.messages.Reply(c.Request().Context(), req.UserID, req.Text, adminID)
	}, http.StatusCreated)
}
