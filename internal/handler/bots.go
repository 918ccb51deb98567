package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/neslihan-na/playlearnkids-admin/internal/model"
	"github.com/neslihan-na/playlearnkids-admin/internal/server"
	"github.com/neslihan-na/playlearnkids-admin/internal/service"
)

type BotKeyRequest struct {
	Key string `param:"key" validate:"required"`
}

func (r *BotKeyRequest) Validate() error { return validate.Struct(r) }

type BotHandler struct {
	Handler
	bots *service.BotService
}

func NewBotHandler(s *server.Server, bots *service.BotService) *BotHandler {
	return &BotHandler{Handler: NewHandler(s), bots: bots}
}

func (h *BotHandler) List() echo.HandlerFunc {
	return Handle(func(c echo.Context, _ *NoRequest) ([]model.Bot, error) {
		return h.bots.ListBots(c.Request().Context())
	}, http.StatusOK)
}

func (h *BotHandler) Randomize() echo.HandlerFunc {
	return Handle(func(c echo.Context, req *BotKeyRequest) (*model.Bot, error) {
		return h.bots.RandomizeBot(c.Request().Context(), req.Key)
	}, http.StatusOK)
}

func (h *BotHandler) RandomizeAll() echo.HandlerFunc {
	return Handle(func(c echo.Context, _ *NoRequest) (*model.ActionResult, error) {
		return h.bots.RandomizeAll(c.Request().Context())
	}, http.StatusOK)
}
