package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/neslihan-na/playlearnkids-admin/internal/errs"
	"github.com/neslihan-na/playlearnkids-admin/internal/handler"
	"github.com/neslihan-na/playlearnkids-admin/internal/middleware"
	"github.com/neslihan-na/playlearnkids-admin/internal/model"
	"github.com/neslihan-na/playlearnkids-admin/internal/repository"
	"github.com/neslihan-na/playlearnkids-admin/internal/service"
	"github.com/neslihan-na/playlearnkids-admin/internal/store"
	"github.com/neslihan-na/playlearnkids-admin/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	adminToken    = "sess_admin"
	outsiderToken = "sess_outsider"
	spoofToken    = "sess_spoof"
)

type fakeIdentities map[string]service.Identity

func (f fakeIdentities) Identity(_ context.Context, subject string) (*service.Identity, error) {
	id, ok := f[subject]
	if !ok {
		return nil, errors.New("unknown subject")
	}
	return &id, nil
}

// bearerSessions treats the bearer token as the session subject.
func bearerSessions(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := strings.CutPrefix(c.Request().Header.Get(echo.HeaderAuthorization), "Bearer ")
		if !ok || token == "" {
			return errs.NewUnauthorizedError("Unauthorized", false)
		}
		c.Set(middleware.UserIDKey, token)
		return next(c)
	}
}

type testAPI struct {
	e     *echo.Echo
	repos *repository.Repositories
	jobs  *testutil.Dispatcher
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	s := testutil.NewServer(t)
	repos := repository.NewRepositories(s)
	jobs := &testutil.Dispatcher{}
	identities := fakeIdentities{
		adminToken:    {Email: "boss@playlearnkids.com", DisplayName: "boss"},
		outsiderToken: {Email: "kid@example.com", DisplayName: "kid"},
		spoofToken:    {Email: "boss@attacker.example", DisplayName: "kid"},
	}

	services, err := service.NewService(s, repos, identities, jobs)
	require.NoError(t, err)

	require.NoError(t, repos.Admins.Create(context.Background(), model.Admin{
		Key:      service.AdminKey("boss@playlearnkids.com"),
		Name:     "Boss",
		Email:    "boss@playlearnkids.com",
		IsActive: true,
	}))

	mw := middleware.NewMiddlewares(s, services.Auth)
	mw.Auth.Sessions = bearerSessions

	return &testAPI{
		e:     newRouter(handler.NewHandlers(s, services), mw),
		repos: repos,
		jobs:  jobs,
	}
}

func (a *testAPI) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestSystemRoutes(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/status", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	health := decode[handler.HealthResponse](t, rec)
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "test_users", health.UsersRoot)
	assert.Equal(t, "healthy", health.Checks["store"].Status)
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))

	rec = api.do(t, http.MethodGet, "/docs", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/static/openapi.json")

	rec = api.do(t, http.MethodGet, "/static/openapi.json", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthGuards(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/api/v1/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = api.do(t, http.MethodGet, "/api/v1/me", "sess_unknown", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = api.do(t, http.MethodGet, "/api/v1/me", outsiderToken, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	body := decode[errs.HTTPError](t, rec)
	assert.Equal(t, "FORBIDDEN", body.Code)

	rec = api.do(t, http.MethodGet, "/api/v1/me", spoofToken, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = api.do(t, http.MethodGet, "/api/v1/me", adminToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	me := decode[model.Principal](t, rec)
	assert.Equal(t, "boss", me.Key)
	assert.Equal(t, model.PrincipalAdmin, me.Source)

	admin, err := api.repos.Admins.Get(context.Background(), "boss")
	require.NoError(t, err)
	assert.NotZero(t, admin.LastLogin)
}

func TestUserAdminFlaggedInUsersTree(t *testing.T) {
	api := newTestAPI(t)
	require.NoError(t, api.repos.Users.Set(context.Background(), "kid", store.Document{"isAdmin": true, "name": "Kid", "email": "kid@example.com"}))

	rec := api.do(t, http.MethodGet, "/api/v1/me", spoofToken, "")
	assert.Equal(t, http.StatusForbidden, rec.Code, "username alone does not grant access")

	rec = api.do(t, http.MethodGet, "/api/v1/me", outsiderToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	me := decode[model.Principal](t, rec)
	assert.Equal(t, model.PrincipalUser, me.Source)
	assert.Equal(t, "Kid", me.Name)
}

func TestUnknownRouteInsideAPI(t *testing.T) {
	api := newTestAPI(t)
	rec := api.do(t, http.MethodGet, "/api/v1/nope", adminToken, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Route not found", decode[errs.HTTPError](t, rec).Message)
}

func TestUserRoutes(t *testing.T) {
	api := newTestAPI(t)
	ctx := context.Background()
	require.NoError(t, api.repos.Users.Set(ctx, "ali", store.Document{"name": "Ali", "score": 3}))

	rec := api.do(t, http.MethodGet, "/api/v1/users", adminToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	users := decode[[]map[string]any](t, rec)
	require.Len(t, users, 1)
	assert.Equal(t, "ali", users[0]["key"])

	rec = api.do(t, http.MethodPatch, "/api/v1/users/ali", adminToken, `{"level": 4}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 4, decode[map[string]any](t, rec)["level"])

	rec = api.do(t, http.MethodPatch, "/api/v1/users/ali", adminToken, `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(t, http.MethodPut, "/api/v1/users/ali/premium", adminToken, `{"isPremium": true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode[map[string]any](t, rec)["isPremium"])

	rec = api.do(t, http.MethodPut, "/api/v1/users/ali/premium", adminToken, `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(t, http.MethodGet, "/api/v1/users/export", adminToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "attachment; filename=test_users.json", rec.Header().Get(echo.HeaderContentDisposition))

	rec = api.do(t, http.MethodPost, "/api/v1/users/maintenance/check", adminToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[model.ActionResult](t, rec).Success)

	rec = api.do(t, http.MethodPost, "/api/v1/users/maintenance/explode", adminToken, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(t, http.MethodDelete, "/api/v1/users/ali", adminToken, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = api.do(t, http.MethodDelete, "/api/v1/users/ali", adminToken, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminRoutes(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/v1/admins", adminToken, `{"email": "ayse@playlearnkids.com", "name": "Ayşe"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[model.Admin](t, rec)
	assert.Equal(t, "ayse", created.Key)

	require.Len(t, api.jobs.Invites, 1)
	assert.Equal(t, "Boss", api.jobs.Invites[0].InvitedBy)

	rec = api.do(t, http.MethodPost, "/api/v1/admins", adminToken, `{"email": "ayse@playlearnkids.com", "name": "Ayşe"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = api.do(t, http.MethodPost, "/api/v1/admins", adminToken, `{"email": "not-an-email", "name": "X"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode[errs.HTTPError](t, rec)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "email", body.Errors[0].Field)

	rec = api.do(t, http.MethodGet, "/api/v1/admins/ayse@playlearnkids.com", adminToken, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(t, http.MethodPut, "/api/v1/admins/ayse/active", adminToken, `{"isActive": false}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[model.Admin](t, rec).IsActive)

	rec = api.do(t, http.MethodGet, "/api/v1/admins", adminToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]model.Admin](t, rec), 2)
}

const storyBody = `{
	"titleTr": "Cesur Tavşan",
	"titleEn": "Brave Rabbit",
	"categoryTr": "Macera",
	"categoryEn": "Adventure",
	"color": "#FF9800",
	"icon": "rabbit",
	"imageUrl": "https://cdn.playlearnkids.com/rabbit.png",
	"readingTime": "5 dk",
	"minAge": 4,
	"maxAge": 7,
	"pages": [{"text": {"tr": "Bir varmış", "en": "Once upon a time"}, "imageUrl": "https://cdn.playlearnkids.com/p1.png"}]
}`

func TestStoryRoutes(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/v1/stories", adminToken, storyBody)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	story := decode[model.Story](t, rec)
	assert.True(t, strings.HasPrefix(story.ID, "story_cesur_tavsan_"), story.ID)

	rec = api.do(t, http.MethodPost, "/api/v1/stories", adminToken, `{"titleTr": ""}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotEmpty(t, decode[errs.HTTPError](t, rec).Errors)

	rec = api.do(t, http.MethodPost, "/api/v1/stories/"+story.ID+"/publish", adminToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[model.Story](t, rec).IsPublished)

	rec = api.do(t, http.MethodGet, "/api/v1/stories/stats", adminToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode[model.StoryStats](t, rec)
	assert.Equal(t, 1, stats.Published)

	rec = api.do(t, http.MethodGet, "/api/v1/stories?q=TAV", adminToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]model.Story](t, rec), 1)

	rec = api.do(t, http.MethodGet, "/api/v1/stories?q=ejderha", adminToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]model.Story](t, rec))

	rec = api.do(t, http.MethodGet, "/api/v1/stories/catalog", adminToken, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(t, http.MethodDelete, "/api/v1/stories/"+story.ID, adminToken, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = api.do(t, http.MethodGet, "/api/v1/stories/"+story.ID, adminToken, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestQuestionRoutes(t *testing.T) {
	api := newTestAPI(t)

	body := `{"soru": "Miyavlayan hayvan?", "cevap": "KEDI", "hint1": "Patiler", "hint2": "Süt", "harfSayisi": 4, "zorluk": 1}`
	rec := api.do(t, http.MethodPost, "/api/v1/questions/wordhunt/tr", adminToken, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "0", decode[model.WordHuntQuestion](t, rec).ID)

	rec = api.do(t, http.MethodGet, "/api/v1/questions/wordhunt/tr/0", adminToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "KEDI", decode[model.WordHuntQuestion](t, rec).Cevap)

	rec = api.do(t, http.MethodPost, "/api/v1/questions/wordhunt/de", adminToken, body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(t, http.MethodPost, "/api/v1/questions/similarity/en/seed", adminToken, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(t, http.MethodGet, "/api/v1/questions/similarity/en", adminToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	seeded := decode[[]model.SimilarityQuestion](t, rec)
	require.NotEmpty(t, seeded)

	rec = api.do(t, http.MethodDelete, "/api/v1/questions/similarity/en/"+seeded[0].ID, adminToken, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestMessagingRoutes(t *testing.T) {
	api := newTestAPI(t)
	ctx := context.Background()

	require.NoError(t, api.repos.Users.Set(ctx, "ali", store.Document{"username": "ali"}))
	_, err := api.repos.Messages.Add(ctx, model.Message{UserID: "ali", Text: "yardım", Sender: model.SenderUser, CreatedAt: 1})
	require.NoError(t, err)

	rec := api.do(t, http.MethodGet, "/api/v1/messages/unread", adminToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decode[handler.UnreadResponse](t, rec).Count)

	rec = api.do(t, http.MethodPost, "/api/v1/messages/ali/reply", adminToken, `{"text": "Merhaba"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "boss", decode[model.Message](t, rec).AdminID)

	rec = api.do(t, http.MethodPost, "/api/v1/messages/ali/read", adminToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decode[handler.MarkReadResponse](t, rec).Marked)

	rec = api.do(t, http.MethodGet, "/api/v1/messages/ali", adminToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	conv := decode[model.Conversation](t, rec)
	assert.Len(t, conv.Messages, 2)
	assert.Zero(t, conv.UnreadCount)
}

func TestNotificationRoutes(t *testing.T) {
	api := newTestAPI(t)
	ctx := context.Background()

	require.NoError(t, api.repos.Users.Set(ctx, "ali", store.Document{"name": "Ali"}))
	require.NoError(t, api.repos.Users.Set(ctx, "ayse", store.Document{"username": "ayse"}))
	require.NoError(t, api.repos.PushTokens.Set(ctx, "ayse", "ExponentPushToken[x]"))

	rec := api.do(t, http.MethodPost, "/api/v1/notifications", adminToken,
		`{"userId": "ayse", "type": "achievement", "titleTr": "Tebrikler", "messageTr": "Harika!"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, 1, decode[model.SendResult](t, rec).Recipients)
	assert.Equal(t, 1, api.jobs.PushCount())

	rec = api.do(t, http.MethodPost, "/api/v1/notifications", adminToken, `{"userId": "ayse", "type": "spam"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(t, http.MethodPost, "/api/v1/high-fives", adminToken, `{"senderId": "ali", "receiverId": "ayse"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(t, http.MethodPost, "/api/v1/high-fives", adminToken, `{"senderId": "ali", "receiverId": "ali"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(t, http.MethodGet, "/api/v1/notifications?userId=ayse", adminToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]model.Notification](t, rec)
	require.Len(t, list, 2)

	rec = api.do(t, http.MethodDelete, "/api/v1/notifications/"+list[0].ID, adminToken, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = api.do(t, http.MethodGet, "/api/v1/notifications/templates", adminToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]model.NotificationTemplate](t, rec), 5)
}

func TestBotRoutes(t *testing.T) {
	api := newTestAPI(t)
	require.NoError(t, api.repos.Users.Set(context.Background(), "bot1", store.Document{"username": "Zeynep", "isSystemUser": true}))

	rec := api.do(t, http.MethodPost, "/api/v1/bots/bot1/randomize", adminToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "bot1", decode[model.Bot](t, rec).Key)

	rec = api.do(t, http.MethodPost, "/api/v1/bots/randomize", adminToken, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(t, http.MethodGet, "/api/v1/bots", adminToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]model.Bot](t, rec), 1)
}
