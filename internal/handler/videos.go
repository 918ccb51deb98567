package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/neslihan-na/playlearnkids-admin/internal/model"
	"github.com/neslihan-na/playlearnkids-admin/internal/server"
	"github.com/neslihan-na/playlearnkids-admin/internal/service"
)

type ListVideosRequest struct {
	Category string `query:"category"`
}

func (r *ListVideosRequest) Validate() error { return nil }

type VideoIDRequest struct {
	ID string `param:"id" validate:"required"`
}

func (r *VideoIDRequest) Validate() error { return validate.Struct(r) }

type CreateVideoRequest struct {
	Body
}

func (r *CreateVideoRequest) Validate() error { return r.requireFields() }

type UpdateVideoRequest struct {
	ID string `param:"id" validate:"required"`
	Body
}

func (r *UpdateVideoRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return err
	}
	return r.requireFields()
}

type SetVideoActiveRequest struct {
	ID       string `param:"id" validate:"required"`
	IsActive *bool  `json:"isActive" validate:"required"`
}

func (r *SetVideoActiveRequest) Validate() error { return validate.Struct(r) }

type VideoHandler struct {
	Handler
	videos *service.VideoService
}

func NewVideoHandler(s *server.Server, videos *service.VideoService) *VideoHandler {
	return &VideoHandler{Handler: NewHandler(s), videos: videos}
}

func (h *VideoHandler) List() echo.HandlerFunc {
	return Handle(func(c echo.Context, req *ListVideosRequest) ([]model.Video, error) {
		if req.Category != "" {
			return h.videos.ListByCategory(c.Request().Context(), req.Category)
		}
		return h.videos.ListVideos(c.Request().Context())
	}, http.StatusOK)
}

func (h *VideoHandler) Get() echo.HandlerFunc {
	return Handle(func(c echo.Context, req *VideoIDRequest) (*model.Video, error) {
		return h.videos.GetVideo(c.Request().Context(), req.ID)
	}, http.StatusOK)
}

func (h *VideoHandler) Create() echo.HandlerFunc {
	return Handle(func(c echo.Context, req *CreateVideoRequest) (*model.Video, error) {
		return h.videos.CreateVideo(c.Request().Context(), req.Fields)
	}, http.StatusCreated)
}

func (h *VideoHandler) Update() echo.HandlerFunc {
	return Handle(func(c echo.Context, req *UpdateVideoRequest) (*model.Video, error) {
		return h.videos.UpdateVideo(c.Request().Context(), req.ID, req.Fields)
	}, http.StatusOK)
}

func (h *VideoHandler) Delete() echo.HandlerFunc {
	return HandleNoContent(func(c echo.Context, req *VideoIDRequest) error {
		return h.videos.DeleteVideo(c.Request().Context(), req.ID)
	}, http.StatusNoContent)
}

func (h *VideoHandler) SetActive() echo.HandlerFunc {
	return Handle(func(c echo.Context, req *SetVideoActiveRequest) (*model.ActionResult, error) {
		return h.videos.SetActive(c.Request().Context(), req.ID, *req.IsActive)
	}, http.StatusOK)
}

func (h *VideoHandler) IncrementViews() echo.HandlerFunc {
	return Handle(func(c echo.Context, req *VideoIDRequest) (*model.Video, error) {
		return h.videos.IncrementViews(c.Request().Context(), req.ID)
	}, http.StatusOK)
}
