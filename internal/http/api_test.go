package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"vidtube/internal/auth"
	"vidtube/internal/repository/sqlite"
	"vidtube/internal/service"
	"vidtube/internal/storage"
)

// memStorage stands in for object storage; uploads only record their key.
type memStorage struct {
	uploads []string
	deleted []string
}

func (m *memStorage) UploadFile(_ context.Context, localPath string, opts storage.UploadOptions) (storage.UploadedObject, error) {
	key := opts.KeyPrefix + "/" + filepath.Base(localPath)
	m.uploads = append(m.uploads, key)
	return storage.UploadedObject{Key: key, URL: "https://media.test/" + key}, nil
}

func (m *memStorage) DeletePrefix(_ context.Context, _ string, prefix string) error {
	m.deleted = append(m.deleted, prefix)
	return nil
}

func (m *memStorage) GetObjectURL(_ context.Context, _ string, key string, _ time.Duration) (string, error) {
	return "https://media.test/" + key, nil
}

type apiEnv struct {
	router *gin.Engine
	store  *memStorage
}

func newAPIEnv(t *testing.T) *apiEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "vidtube-api-test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	users := sqlite.NewUserRepository(db)
	videos := sqlite.NewVideoRepository(db)
	comments := sqlite.NewCommentRepository(db)
	likes := sqlite.NewLikeRepository(db)
	subs := sqlite.NewSubscriptionRepository(db)
	tweets := sqlite.NewTweetRepository(db)
	playlists := sqlite.NewPlaylistRepository(db)

	ctx := context.Background()
	require.NoError(t, users.Init(ctx))
	require.NoError(t, videos.Init(ctx))
	require.NoError(t, comments.Init(ctx))
	require.NoError(t, likes.Init(ctx))
	require.NoError(t, subs.Init(ctx))
	require.NoError(t, tweets.Init(ctx))
	require.NoError(t, playlists.Init(ctx))

	issuer := auth.NewIssuer("api-access-secret", "api-refresh-secret", 15*time.Minute, 240*time.Hour)
	store := &memStorage{}

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	handler := NewHandler(
		service.NewUserService(users, subs, issuer, bcrypt.MinCost),
		service.NewVideoService(videos, comments, likes, playlists),
		service.NewCommentService(comments, videos, likes),
		service.NewLikeService(likes, videos, comments, tweets),
		service.NewSubscriptionService(subs, users),
		service.NewPlaylistService(playlists, videos, users),
		service.NewTweetService(tweets, likes, users),
		service.NewDashboardService(videos, subs, likes),
		issuer,
		store,
		logger,
		Options{
			Bucket:     "test-bucket",
			KeyPrefix:  "media",
			TempDir:    t.TempDir(),
			MaxVideoMB: 16,
			MaxImageMB: 4,
		},
	)

	router := gin.New()
	handler.RegisterRoutes(router)
	return &apiEnv{router: router, store: store}
}

type envelope struct {
	StatusCode int             `json:"statusCode"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	Success    bool            `json:"success"`
}

func (e *apiEnv) do(t *testing.T, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), "body: %s", rec.Body.String())
	return rec, env
}

func (e *apiEnv) registerUser(t *testing.T, username string) envelope {
	t.Helper()

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	require.NoError(t, form.WriteField("fullName", "User "+username))
	require.NoError(t, form.WriteField("username", username))
	require.NoError(t, form.WriteField("email", username+"@example.com"))
	require.NoError(t, form.WriteField("password", "secret123"))
	avatar, err := form.CreateFormFile("avatar", "avatar.png")
	require.NoError(t, err)
	_, err = avatar.Write([]byte("fake image bytes"))
	require.NoError(t, err)
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/register", &buf)
	req.Header.Set("Content-Type", form.FormDataContentType())

	rec, env := e.do(t, req)
	require.Equal(t, http.StatusCreated, rec.Code, "body: %s", rec.Body.String())
	return env
}

type loginResult struct {
	env     envelope
	cookies []*http.Cookie
	access  string
	refresh string
}

func (e *apiEnv) login(t *testing.T, username string) loginResult {
	t.Helper()

	body := `{"username":"` + username + `","password":"secret123"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec, env := e.do(t, req)
	require.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())

	var data struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.AccessToken)
	require.NotEmpty(t, data.RefreshToken)

	return loginResult{
		env:     env,
		cookies: rec.Result().Cookies(),
		access:  data.AccessToken,
		refresh: data.RefreshToken,
	}
}

func TestHealthcheck(t *testing.T) {
	env := newAPIEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/healthcheck", nil)
	rec, resp := env.do(t, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)
	assert.Equal(t, "service is healthy", resp.Message)
}

func TestRegisterUploadsAvatarAndHidesSecrets(t *testing.T) {
	env := newAPIEnv(t)

	resp := env.registerUser(t, "alice")
	assert.True(t, resp.Success)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	body := string(resp.Data)
	assert.NotContains(t, body, "password")
	assert.NotContains(t, body, "refreshToken")
	assert.Contains(t, body, "https://media.test/")
	require.Len(t, env.store.uploads, 1)
	assert.True(t, strings.HasPrefix(env.store.uploads[0], "media/avatars/"))
}

func TestRegisterWithoutAvatarFails(t *testing.T) {
	env := newAPIEnv(t)

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	require.NoError(t, form.WriteField("fullName", "No Avatar"))
	require.NoError(t, form.WriteField("username", "bare"))
	require.NoError(t, form.WriteField("email", "bare@example.com"))
	require.NoError(t, form.WriteField("password", "secret123"))
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/register", &buf)
	req.Header.Set("Content-Type", form.FormDataContentType())

	rec, resp := env.do(t, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, resp.Success)
}

func TestLoginSetsSessionCookies(t *testing.T) {
	env := newAPIEnv(t)
	env.registerUser(t, "bob")

	result := env.login(t, "bob")

	names := map[string]bool{}
	for _, cookie := range result.cookies {
		names[cookie.Name] = true
		assert.True(t, cookie.HttpOnly, "cookie %s must be http-only", cookie.Name)
	}
	assert.True(t, names["accessToken"])
	assert.True(t, names["refreshToken"])
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	env := newAPIEnv(t)
	env.registerUser(t, "carol")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/login",
		strings.NewReader(`{"username":"carol","password":"wrong"}`))
	req.Header.Set("Content-Type", "application/json")
	rec, resp := env.do(t, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, resp.Success)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/users/login",
		strings.NewReader(`{"username":"nobody","password":"secret123"}`))
	req.Header.Set("Content-Type", "application/json")
	rec, _ = env.do(t, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCurrentUserAuthentication(t *testing.T) {
	env := newAPIEnv(t)
	env.registerUser(t, "dave")
	result := env.login(t, "dave")

	// No credentials at all.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/current-user", nil)
	rec, _ := env.do(t, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Bearer header.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/users/current-user", nil)
	req.Header.Set("Authorization", "Bearer "+result.access)
	rec, resp := env.do(t, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(resp.Data), `"username":"dave"`)

	// Cookie.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/users/current-user", nil)
	for _, cookie := range result.cookies {
		req.AddCookie(cookie)
	}
	rec, _ = env.do(t, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Garbage token.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/users/current-user", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec, _ = env.do(t, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefreshTokenRotation(t *testing.T) {
	env := newAPIEnv(t)
	env.registerUser(t, "erin")
	result := env.login(t, "erin")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/refresh-token",
		strings.NewReader(`{"refreshToken":"`+result.refresh+`"}`))
	req.Header.Set("Content-Type", "application/json")
	rec, resp := env.do(t, req)
	require.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())

	var rotated struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &rotated))
	assert.NotEqual(t, result.refresh, rotated.RefreshToken)

	// Replaying the superseded token is rejected.
	req = httptest.NewRequest(http.MethodPost, "/api/v1/users/refresh-token",
		strings.NewReader(`{"refreshToken":"`+result.refresh+`"}`))
	req.Header.Set("Content-Type", "application/json")
	rec, _ = env.do(t, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Missing token entirely.
	req = httptest.NewRequest(http.MethodPost, "/api/v1/users/refresh-token", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec, _ = env.do(t, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogoutClearsSession(t *testing.T) {
	env := newAPIEnv(t)
	env.registerUser(t, "frank")
	result := env.login(t, "frank")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/logout", nil)
	req.Header.Set("Authorization", "Bearer "+result.access)
	rec, resp := env.do(t, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)

	for _, cookie := range rec.Result().Cookies() {
		assert.Less(t, cookie.MaxAge, 0, "cookie %s should be expired", cookie.Name)
	}

	// The stored refresh token is gone, so rotation fails.
	req = httptest.NewRequest(http.MethodPost, "/api/v1/users/refresh-token",
		strings.NewReader(`{"refreshToken":"`+result.refresh+`"}`))
	req.Header.Set("Content-Type", "application/json")
	rec, _ = env.do(t, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPublishVideoAndLifecycleOverHTTP(t *testing.T) {
	env := newAPIEnv(t)
	env.registerUser(t, "grace")
	result := env.login(t, "grace")

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	require.NoError(t, form.WriteField("title", "My first video"))
	require.NoError(t, form.WriteField("description", "hello"))
	require.NoError(t, form.WriteField("duration", "42.5"))
	videoFile, err := form.CreateFormFile("videoFile", "clip.mp4")
	require.NoError(t, err)
	_, err = videoFile.Write([]byte("fake video bytes"))
	require.NoError(t, err)
	thumb, err := form.CreateFormFile("thumbnail", "thumb.jpg")
	require.NoError(t, err)
	_, err = thumb.Write([]byte("fake thumb bytes"))
	require.NoError(t, err)
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/videos", &buf)
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+result.access)
	rec, resp := env.do(t, req)
	require.Equal(t, http.StatusCreated, rec.Code, "body: %s", rec.Body.String())

	var video struct {
		ID    int64  `json:"id"`
		Title string `json:"title"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &video))
	assert.Equal(t, "My first video", video.Title)

	// Anonymous fetch works for a published video.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/videos/"+formatID(video.ID), nil)
	rec, _ = env.do(t, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Deleting removes the remote media under the video's key prefix.
	req = httptest.NewRequest(http.MethodDelete, "/api/v1/videos/"+formatID(video.ID), nil)
	req.Header.Set("Authorization", "Bearer "+result.access)
	rec, _ = env.do(t, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, env.store.deleted)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/videos/"+formatID(video.ID), nil)
	rec, _ = env.do(t, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
