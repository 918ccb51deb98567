package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/neslihan-na/playlearnkids-admin/internal/model"
	"github.com/neslihan-na/playlearnkids-admin/internal/server"
	"github.com/neslihan-na/playlearnkids-admin/internal/service"
	"github.com/neslihan-na/playlearnkids-admin/internal/store"
)

type UserKeyRequest struct {
	Key string `param:"key" validate:"required"`
}

func (r *UserKeyRequest) Validate() error { return validate.Struct(r) }

type UpdateUserRequest struct {
	Key string `param:"key" validate:"required"`
	Body
}

func (r *UpdateUserRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return err
	}
	return r.requireFields()
}

type SetPremiumRequest struct {
	Key       string `param:"key" validate:"required"`
	IsPremium *bool  `json:"isPremium" validate:"required"`
}

func (r *SetPremiumRequest) Validate() error { return validate.Struct(r) }

type AdminActionRequest struct {
	Action string `param:"action" validate:"required,oneof=check sync cleanup"`
}

func (r *AdminActionRequest) Validate() error { return validate.Struct(r) }

type UserHandler struct {
	Handler
	users *service.UserService
}

func NewUserHandler(s *server.Server, users *service.UserService) *UserHandler {
	return &UserHandler{Handler: NewHandler(s), users: users}
}

func (h *UserHandler) List() echo.HandlerFunc {
	return Handle(func(c echo.Context, _ *NoRequest) ([]store.Document, error) {
		return h.users.ListUsers(c.Request().Context())
	}, http.StatusOK)
}

func (h *UserHandler) Export() echo.HandlerFunc {
	return HandleFile(func(c echo.Context, _ *NoRequest) ([]byte, error) {
		return h.users.ExportUsers(c.Request().Context())
	}, http.StatusOK, h.server.Config.UsersRoot()+".json", echo.MIMEApplicationJSON)
}

func (h *UserHandler) Update() echo.HandlerFunc {
	return Handle(func(c echo.Context, req *UpdateUserRequest) (store.Document, error) {
		return h.users.UpdateUser(c.Request().Context(), req.Key, req.Fields)
	}, http.StatusOK)
}

func (h *UserHandler) Delete() echo.HandlerFunc {
	return HandleNoContent(func(c echo.Context, req *UserKeyRequest) error {
		return h.users.DeleteUser(c.Request().Context(), req.Key)
	}, http.StatusNoContent)
}

func (h *UserHandler) SetPremium() echo.HandlerFunc {
	return Handle(func(c echo.Context, req *SetPremiumRequest) (store.Document, error) {
		return h.users.SetPremium(c.Request().Context(), req.Key, *req.IsPremium)
	}, http.StatusOK)
}

// Maintenance runs the sync check, the auto sync or the duplicate cleanup.
func (h *UserHandler) Maintenance() echo.HandlerFunc {
	return Handle(func(c echo.Context, req *AdminActionRequest) (*model.ActionResult, error) {
		return h.users.RunAdminAction(c.Request().Context(), req.Action)
	}, http.StatusOK)
}
