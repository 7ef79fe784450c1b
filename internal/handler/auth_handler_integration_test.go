package handler_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/localmarket/commercehub/internal/models"
	"github.com/localmarket/commercehub/internal/testutil"
)

type AuthHandlerIntegrationTestSuite struct {
	suite.Suite
	env *testEnv
}

func (s *AuthHandlerIntegrationTestSuite) SetupSuite() {
	s.env = setupTestEnv(s.T())
}

func (s *AuthHandlerIntegrationTestSuite) TearDownSuite() {
	s.env.testDB.Teardown(s.T())
}

func (s *AuthHandlerIntegrationTestSuite) SetupTest() {
	testutil.CleanDatabase(s.T(), s.env.testDB.DB)
}

func registerBody(email string) map[string]interface{} {
	return map[string]interface{}{
		"name":        "Alice",
		"email":       email,
		"password":    "Password123",
		"age":         30,
		"city":        "Madrid",
		"interest":    []string{"Retail"},
		"allowOffers": true,
	}
}

func (s *AuthHandlerIntegrationTestSuite) TestRegisterSuccess() {
	w := s.env.request(s.T(), http.MethodPost, "/api/users/register", registerBody("alice@example.com"), "")

	assert.Equal(s.T(), http.StatusCreated, w.Code)

	response := decodeBody(s.T(), w)
	assert.Equal(s.T(), "User registered successfully", response["message"])

	user := response["user"].(map[string]interface{})
	assert.Equal(s.T(), "alice@example.com", user["email"])
	assert.Equal(s.T(), "user", user["role"])
	assert.NotContains(s.T(), user, "passwordHash", "Hash never leaves the server")
}

func (s *AuthHandlerIntegrationTestSuite) TestRegisterDuplicateEmail() {
	w := s.env.request(s.T(), http.MethodPost, "/api/users/register", registerBody("alice@example.com"), "")
	assert.Equal(s.T(), http.StatusCreated, w.Code)

	w = s.env.request(s.T(), http.MethodPost, "/api/users/register", registerBody("alice@example.com"), "")
	assert.Equal(s.T(), http.StatusConflict, w.Code)
	assert.Contains(s.T(), decodeBody(s.T(), w)["error"], "email already exists")
}

func (s *AuthHandlerIntegrationTestSuite) TestRegisterInvalidInput() {
	testCases := []struct {
		name     string
		mutate   func(body map[string]interface{})
		expected string
	}{
		{
			name:     "invalid email",
			mutate:   func(body map[string]interface{}) { body["email"] = "not-an-email" },
			expected: "invalid email format",
		},
		{
			name:     "short password",
			mutate:   func(body map[string]interface{}) { body["password"] = "abc" },
			expected: "password must be at least 6 characters",
		},
		{
			name:     "negative age",
			mutate:   func(body map[string]interface{}) { body["age"] = -1 },
			expected: "age must not be negative",
		},
		{
			name:     "missing allowOffers",
			mutate:   func(body map[string]interface{}) { delete(body, "allowOffers") },
			expected: "Invalid request body",
		},
		{
			name:     "missing interest",
			mutate:   func(body map[string]interface{}) { delete(body, "interest") },
			expected: "Invalid request body",
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			body := registerBody("alice@example.com")
			tc.mutate(body)

			w := s.env.request(s.T(), http.MethodPost, "/api/users/register", body, "")

			assert.Equal(s.T(), http.StatusBadRequest, w.Code)
			assert.Contains(s.T(), decodeBody(s.T(), w)["error"], tc.expected)
		})
	}
}

func (s *AuthHandlerIntegrationTestSuite) TestRegisterAdminRole() {
	// The test environment allows admin self-registration; the seeder covers
	// everything else.
	body := registerBody("admin@example.com")
	body["role"] = string(models.RoleAdmin)

	w := s.env.request(s.T(), http.MethodPost, "/api/users/register", body, "")

	assert.Equal(s.T(), http.StatusCreated, w.Code)
	user := decodeBody(s.T(), w)["user"].(map[string]interface{})
	assert.Equal(s.T(), "admin", user["role"])
}

func (s *AuthHandlerIntegrationTestSuite) TestLoginSuccess() {
	w := s.env.request(s.T(), http.MethodPost, "/api/users/register", registerBody("alice@example.com"), "")
	assert.Equal(s.T(), http.StatusCreated, w.Code)

	w = s.env.request(s.T(), http.MethodPost, "/api/users/login", map[string]string{
		"email":    "alice@example.com",
		"password": "Password123",
	}, "")

	assert.Equal(s.T(), http.StatusOK, w.Code)

	response := decodeBody(s.T(), w)
	assert.Equal(s.T(), "Login successful", response["message"])
	assert.NotEmpty(s.T(), response["token"])

	// The token travels in the auth-token header as well as the body
	assert.Equal(s.T(), response["token"], w.Header().Get("auth-token"))

	user := response["user"].(map[string]interface{})
	assert.Equal(s.T(), "alice@example.com", user["email"])
}

func (s *AuthHandlerIntegrationTestSuite) TestLoginWrongPassword() {
	w := s.env.request(s.T(), http.MethodPost, "/api/users/register", registerBody("alice@example.com"), "")
	assert.Equal(s.T(), http.StatusCreated, w.Code)

	w = s.env.request(s.T(), http.MethodPost, "/api/users/login", map[string]string{
		"email":    "alice@example.com",
		"password": "WrongPassword",
	}, "")

	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
	assert.Equal(s.T(), "email or password is wrong", decodeBody(s.T(), w)["error"])
	assert.Empty(s.T(), w.Header().Get("auth-token"))
}

func (s *AuthHandlerIntegrationTestSuite) TestLoginUnknownEmail() {
	w := s.env.request(s.T(), http.MethodPost, "/api/users/login", map[string]string{
		"email":    "nobody@example.com",
		"password": "Password123",
	}, "")

	// Same status and message as a wrong password
	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
	assert.Equal(s.T(), "email or password is wrong", decodeBody(s.T(), w)["error"])
}

func TestAuthHandlerIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(AuthHandlerIntegrationTestSuite))
}
