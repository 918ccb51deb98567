package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/neslihan-na/playlearnkids-admin/internal/errs"
	"github.com/neslihan-na/playlearnkids-admin/internal/middleware"
	"github.com/neslihan-na/playlearnkids-admin/internal/model"
	"github.com/neslihan-na/playlearnkids-admin/internal/server"
	"github.com/neslihan-na/playlearnkids-admin/internal/service"
)

type CreateAdminRequest struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"required,max=100"`
}

func (r *CreateAdminRequest) Validate() error { return validate.Struct(r) }

// GetAdminRequest looks an admin up by key, email or name.
type GetAdminRequest struct {
	Identifier string `param:"key" validate:"required"`
}

func (r *GetAdminRequest) Validate() error { return validate.Struct(r) }

type SetAdminActiveRequest struct {
	Key      string `param:"key" validate:"required"`
	IsActive *bool  `json:"isActive" validate:"required"`
}

func (r *SetAdminActiveRequest) Validate() error { return validate.Struct(r) }

type AdminHandler struct {
	Handler
	admins *service.AdminService
}

func NewAdminHandler(s *server.Server, admins *service.AdminService) *AdminHandler {
	return &AdminHandler{Handler: NewHandler(s), admins: admins}
}

// Me returns the admin behind the request.
func (h *AdminHandler) Me() echo.HandlerFunc {
	return Handle(func(c echo.Context, _ *NoRequest) (*model.Principal, error) {
		p := middleware.GetPrincipal(c)
		if p == nil {
			return nil, errs.NewUnauthorizedError("Unauthorized", false)
		}
		return p, nil
	}, http.StatusOK)
}

func (h *AdminHandler) List() echo.HandlerFunc {
	return Handle(func(c echo.Context, _ *NoRequest) ([]model.Admin, error) {
		return h.admins.ListAdmins(c.Request().Context())
	}, http.StatusOK)
}

func (h *AdminHandler) Get() echo.HandlerFunc {
	return Handle(func(c echo.Context, req *GetAdminRequest) (*model.Admin, error) {
		return h.admins.GetAdmin(c.Request().Context(), req.Identifier)
	}, http.StatusOK)
}

// Create adds an admin and queues the invitation e-mail.
func (h *AdminHandler) Create() echo.HandlerFunc {
	return Handle(func(c echo.Context, req *CreateAdminRequest) (*model.Admin, error) {
		invitedBy := ""
		if p := middleware.GetPrincipal(c); p != nil {
			invitedBy = p.Name
			if invitedBy == "" {
				invitedBy = p.Email
			}
		}
		return h.admins.CreateAdmin(c.Request().Context(), req.Email, req.Name, invitedBy)
	}, http.StatusCreated)
}

func (h *AdminHandler) SetActive() echo.HandlerFunc {
	return Handle(func(c echo.Context, req *SetAdminActiveRequest) (*model.Admin, error) {
		return h.admins.SetAdminActive(c.Request().Context(), req.Key, *req.IsActive)
	}, http.StatusOK)
}
