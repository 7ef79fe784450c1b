package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/localmarket/commercehub/internal/handler"
	"github.com/localmarket/commercehub/internal/middleware"
	"github.com/localmarket/commercehub/internal/notifier"
	"github.com/localmarket/commercehub/internal/repository"
	"github.com/localmarket/commercehub/internal/service"
	"github.com/localmarket/commercehub/internal/testutil"
	"github.com/localmarket/commercehub/pkg/logger"
)

const testJWTSecret = "test-secret-key"

// testEnv wires the full API router against an in-memory database, mirroring
// the production wiring minus redis.
type testEnv struct {
	testDB          *testutil.TestDatabase
	userRepo        *repository.UserRepository
	commerceRepo    *repository.CommerceRepository
	webCommerceRepo *repository.WebCommerceRepository
	router          *gin.Engine
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	gin.SetMode(gin.TestMode)
	require.NoError(t, logger.Init(false))

	env := &testEnv{
		testDB: testutil.SetupTestDatabase(t),
	}
	env.userRepo = repository.NewUserRepository(env.testDB.DB)
	env.commerceRepo = repository.NewCommerceRepository(env.testDB.DB)
	env.webCommerceRepo = repository.NewWebCommerceRepository(env.testDB.DB)

	alerts := notifier.Nop{}
	authService := service.NewAuthService(env.userRepo, alerts, testJWTSecret, 2*time.Hour, "test")
	userService := service.NewUserService(env.userRepo, env.commerceRepo, env.webCommerceRepo, alerts)
	commerceService := service.NewCommerceService(env.commerceRepo, alerts, testJWTSecret, 2*time.Hour)
	storefrontService := service.NewStorefrontService(env.webCommerceRepo, alerts)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	commerceHandler := handler.NewCommerceHandler(commerceService)
	storefrontHandler := handler.NewStorefrontHandler(storefrontService, t.TempDir())

	userAuth := middleware.AuthMiddleware(testJWTSecret, env.userRepo)
	commerceAuth := middleware.CommerceMiddleware(testJWTSecret, env.commerceRepo)
	adminOnly := middleware.AdminMiddleware()

	env.router = gin.New()
	api := env.router.Group("/api")
	{
		api.POST("/users/register", authHandler.Register)
		api.POST("/users/login", authHandler.Login)
		api.PUT("/users/update", userAuth, userHandler.Update)
		api.DELETE("/users/delete", userAuth, userHandler.Delete)
		api.GET("/users/interest", commerceAuth, userHandler.InterestedEmails)

		api.GET("/commerces/view-all", userAuth, adminOnly, commerceHandler.List)
		api.GET("/commerces/view/:cif", userAuth, adminOnly, commerceHandler.View)
		api.POST("/commerces/create", userAuth, adminOnly, commerceHandler.Create)
		api.PUT("/commerces/update/:cif", userAuth, adminOnly, commerceHandler.Update)
		api.DELETE("/commerces/delete/:cif", userAuth, adminOnly, commerceHandler.Delete)

		api.GET("/webCommerce/all", storefrontHandler.ListAll)
		api.GET("/webCommerce/view/:commerceCIF", storefrontHandler.View)
		api.GET("/webCommerce/city/:city", storefrontHandler.ListByCity)
		api.GET("/webCommerce/city/:city/activity/:activity", storefrontHandler.ListByCityAndActivity)
		api.GET("/webCommerce/activity/:activity", storefrontHandler.ListByActivity)
		api.POST("/webCommerce/create", commerceAuth, storefrontHandler.Create)
		api.PUT("/webCommerce/update", commerceAuth, storefrontHandler.Update)
		api.DELETE("/webCommerce/:commerceCIF", commerceAuth, storefrontHandler.ArchiveOrDelete)
		api.PATCH("/webCommerce/upload/:commerceCIF", commerceAuth, storefrontHandler.UploadImage)
		api.POST("/webCommerce/review/:commerceCIF", userAuth, storefrontHandler.AddReview)
	}

	return env
}

// request performs a JSON request against the test router. authToken goes
// into the Authorization header verbatim when non-empty.
func (env *testEnv) request(t *testing.T, method, path string, body interface{}, authToken string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if authToken != "" {
		req.Header.Set("Authorization", authToken)
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

// registerAndLogin creates an account through the API and returns its token.
func (env *testEnv) registerAndLogin(t *testing.T, email, password, role string) string {
	t.Helper()

	w := env.request(t, http.MethodPost, "/api/users/register", map[string]interface{}{
		"name":        "Test User",
		"email":       email,
		"password":    password,
		"age":         30,
		"city":        "Madrid",
		"interest":    []string{"Retail"},
		"allowOffers": true,
		"role":        role,
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = env.request(t, http.MethodPost, "/api/users/login", map[string]string{
		"email":    email,
		"password": password,
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	token := w.Header().Get("auth-token")
	require.NotEmpty(t, token)
	return token
}
