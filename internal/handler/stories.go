package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/neslihan-na/playlearnkids-admin/internal/model"
	"github.com/neslihan-na/playlearnkids-admin/internal/server"
	"github.com/neslihan-na/playlearnkids-admin/internal/service"
)

type ListStoriesRequest struct {
	Query string `query:"q"`
}

func (r *ListStoriesRequest) Validate() error { return nil }

type StoryIDRequest struct {
	ID string `param:"id" validate:"required"`
}

func (r *StoryIDRequest) Validate() error { return validate.Struct(r) }

type CreateStoryRequest struct {
	model.StoryForm
}

func (r *CreateStoryRequest) Validate() error { return service.ValidateStoryForm(&r.StoryForm) }

type UpdateStoryRequest struct {
	ID string `param:"id" validate:"required"`
	model.StoryForm
}

func (r *UpdateStoryRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return err
	}
	return service.ValidateStoryForm(&r.StoryForm)
}

type StoryHandler struct {
	Handler
	stories *service.StoryService
}

func NewStoryHandler(s *server.Server, stories *service.StoryService) *StoryHandler {
	return &StoryHandler{Handler: NewHandler(s), stories: stories}
}

// List returns every story, or the matches for ?q= when given.
func (h *StoryHandler) List() echo.HandlerFunc {
	return Handle(func(c echo.Context, req *ListStoriesRequest) ([]model.Story, error) {
		if q := strings.TrimSpace(req.Query); q != "" {
			return h.stories.Search(c.Request().Context(), q)
		}
		return h.stories.ListStories(c.Request().Context())
	}, http.StatusOK)
}

func (h *StoryHandler) Stats() echo.HandlerFunc {
	return Handle(func(c echo.Context, _ *NoRequest) (*model.StoryStats, error) {
		return h.stories.Stats(c.Request().Context())
	}, http.StatusOK)
}

// Catalog returns the category, color, icon and age choices for the form.
func (h *StoryHandler) Catalog() echo.HandlerFunc {
	return Handle(func(c echo.Context, _ *NoRequest) (model.StoryCatalog, error) {
		return h.stories.Catalog(), nil
	}, http.StatusOK)
}

func (h *StoryHandler) Get() echo.HandlerFunc {
	return Handle(func(c echo.Context, req *StoryIDRequest) (*model.Story, error) {
		return h.stories.GetStory(c.Request().Context(), req.ID)
	}, http.StatusOK)
}

func (h *StoryHandler) Create() echo.HandlerFunc {
	return Handle(func(c echo.Context, req *CreateStoryRequest) (*model.Story, error) {
		return h.stories.CreateStory(c.Request().Context(), &req.StoryForm)
	}, http.StatusCreated)
}

func (h *StoryHandler) Update() echo.HandlerFunc {
	return Handle(func(c echo.Context, req *UpdateStoryRequest) (*model.Story, error) {
		return h.stories.UpdateStory(c.Request().Context(), req.ID, &req.StoryForm)
	}, http.StatusOK)
}

func (h *StoryHandler) Delete() echo.HandlerFunc {
	return HandleNoContent(func(c echo.Context, req *StoryIDRequest) error {
		return h.stories.DeleteStory(c.Request().Context(), req.ID)
	}, http.StatusNoContent)
}

func (h *StoryHandler) TogglePublish() echo.HandlerFunc {
	return Handle(func(c echo.Context, req *StoryIDRequest) (*model.Story, error) {
		return h.stories.TogglePublish(c.Request().Context(), req.ID)
	}, http.StatusOK)
}
