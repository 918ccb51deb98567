package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/neslihan-na/playlearnkids-admin/internal/model"
	"github.com/neslihan-na/playlearnkids-admin/internal/server"
	"github.com/neslihan-na/playlearnkids-admin/internal/service"
)

type LanguageRequest struct {
	Lang model.Language `param:"lang" validate:"required,oneof=tr en"`
}

func (r *LanguageRequest) Validate() error { return validate.Struct(r) }

type QuestionIDRequest struct {
	Lang model.Language `param:"lang" validate:"required,oneof=tr en"`
	ID   string         `param:"id" validate:"required"`
}

func (r *QuestionIDRequest) Validate() error { return validate.Struct(r) }

type SimilarityRequest struct {
	Lang model.Language `param:"lang" validate:"required,oneof=tr en"`
	QID  string         `param:"id"`
	model.SimilarityQuestion
}

func (r *SimilarityRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return err
	}
	return service.ValidateSimilarityQuestion(&r.SimilarityQuestion)
}

type WordHuntRequest struct {
	Lang model.Language `param:"lang" validate:"required,oneof=tr en"`
	QID  string         `param:"id"`
	model.WordHuntQuestion
}

func (r *WordHuntRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return err
	}
	return service.ValidateWordHuntQuestion(&r.WordHuntQuestion)
}

// QuestionHandler serves both question banks. The language always comes
// from the path.
type QuestionHandler struct {
	Handler
	similarity *service.SimilarityService
	wordHunt   *service.WordHuntService
}

func NewQuestionHandler(s *server.Server, similarity *service.SimilarityService, wordHunt *service.WordHuntService) *QuestionHandler {
	return &QuestionHandler{Handler: NewHandler(s), similarity: similarity, wordHunt: wordHunt}
}

func (h *QuestionHandler) ListSimilarity() echo.HandlerFunc {
	return Handle(func(c echo.Context, req *LanguageRequest) ([]model.SimilarityQuestion, error) {
		return h.similarity.List(c.Request().Context(), req.Lang)
	}, http.StatusOK)
}

func (h *QuestionHandler) GetSimilarity() echo.HandlerFunc {
	return Handle(func(c echo.Context, req *QuestionIDRequest) (*model.SimilarityQuestion, error) {
		return h.similarity.Get(c.Request().Context(), req.Lang, req.ID)
	}, http.StatusOK)
}

func (h *QuestionHandler) AddSimilarity() echo.HandlerFunc {
	return Handle(func(c echo.Context, req *SimilarityRequest) (*model.SimilarityQuestion, error) {
		req.Language = req.Lang
		return h.similarity.Add(c.Request().Context(), req.SimilarityQuestion)
	}, http.StatusCreated)
}

func (h *QuestionHandler) UpdateSimilarity() echo.HandlerFunc {
	return Handle(func(c echo.Context, req *SimilarityRequest) (*model.SimilarityQuestion, error) {
		return h.similarity.Update(c.Request().Context(), req.Lang, req.QID, req.SimilarityQuestion)
	}, http.StatusOK)
}

func (h *QuestionHandler) DeleteSimilarity() echo.HandlerFunc {
	return HandleNoContent(func(c echo.Context, req *QuestionIDRequest) error {
		return h.similarity.Delete(c.Request().Context(), req.Lang, req.ID)
	}, http.StatusNoContent)
}

func (h *QuestionHandler) SeedSimilarity() echo.HandlerFunc {
	return Handle(func(c echo.Context, req *LanguageRequest) (*model.ActionResult, error) {
		return h.similarity.SeedSamples(c.Request().Context(), req.Lang)
	}, http.StatusOK)
}

func (h *QuestionHandler) ListWordHunt() echo.HandlerFunc {
	return Handle(func(c echo.Context, req *LanguageRequest) ([]model.WordHuntQuestion, error) {
		return h.wordHunt.List(c.Request().Context(), req.Lang)
	}, http.StatusOK)
}

func (h *QuestionHandler) GetWordHunt() echo.HandlerFunc {
	return Handle(func(c echo.Context, req *QuestionIDRequest) (*model.WordHuntQuestion, error) {
		return h.wordHunt.Get(c.Request().Context(), req.Lang, req.ID)
	}, http.StatusOK)
}

func (h *QuestionHandler) AddWordHunt() echo.HandlerFunc {
	return Handle(func(c echo.Context, req *WordHuntRequest) (*model.WordHuntQuestion, error) {
		req.Language = req.Lang
		return h.wordHunt.Add(c.Request().Context(), req.WordHuntQuestion)
	}, http.StatusCreated)
}

func (h *QuestionHandler) UpdateWordHunt() echo.HandlerFunc {
	return Handle(func(c echo.Context, req *WordHuntRequest) (*model.WordHuntQuestion, error) {
		return h.wordHunt.Update(c.Request().Context(), req.Lang, req.QID, req.WordHuntQuestion)
	}, http.StatusOK)
}

func (h *QuestionHandler) DeleteWordHunt() echo.HandlerFunc {
	return HandleNoContent(func(c echo.Context, req *QuestionIDRequest) error {
		return h.wordHunt.Delete(c.Request().Context(), req.Lang, req.ID)
	}, http.StatusNoContent)
}

func (h *QuestionHandler) SeedWordHunt() echo.HandlerFunc {
	return Handle(func(c echo.Context, req *LanguageRequest) (*model.ActionResult, error) {
		return h.wordHunt.SeedSamples(c.Request().Context(), req.Lang)
	}, http.StatusOK)
}
