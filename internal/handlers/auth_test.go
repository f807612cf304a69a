package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/univdesk/helpdesk-api/internal/auth"
	"github.com/univdesk/helpdesk-api/internal/dto"
	"github.com/univdesk/helpdesk-api/internal/models"
	"github.com/univdesk/helpdesk-api/internal/repository"
	"github.com/univdesk/helpdesk-api/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testJWTSecret = "test-secret"

type authTestEnv struct {
	db          *gorm.DB
	handler     *AuthHandler
	authService *services.AuthService
}

func setupAuthTestEnv(t *testing.T) authTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Complaint{}))

	userRepo := repository.NewUserRepository(db)
	authService := services.NewAuthService(userRepo, testJWTSecret, time.Hour)
	handler := NewAuthHandler(authService)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return authTestEnv{
		db:          db,
		handler:     handler,
		authService: authService,
	}
}

func TestAuthHandler_Signup(t *testing.T) {
	env := setupAuthTestEnv(t)

	r := gin.New()
	r.POST("/api/auth/signup", env.handler.Signup)

	payload := map[string]any{
		"name":     "Alice Example",
		"email":    "alice@university.edu",
		"password": "supersecret",
		"role":     "student",
		"major":    "Computer Science",
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var response dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "Alice Example", response.Name)
	require.Equal(t, models.RoleStudent, response.Role)
	require.NotEmpty(t, response.ID)
	require.Equal(t, byte('S'), response.ID[0])
	require.NotContains(t, w.Body.String(), "password")
}

func TestAuthHandler_Signup_DuplicateEmail(t *testing.T) {
	env := setupAuthTestEnv(t)

	_, err := env.authService.Register(services.RegisterInput{
		Name:     "Alice Example",
		Email:    "alice@university.edu",
		Password: "supersecret",
		Role:     models.RoleStudent,
		Major:    "Computer Science",
	})
	require.NoError(t, err)

	r := gin.New()
	r.POST("/api/auth/signup", env.handler.Signup)

	payload := map[string]any{
		"name":     "Another Alice",
		"email":    "alice@university.edu",
		"password": "supersecret",
		"role":     "student",
		"major":    "Physics",
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusConflict, w.Code)
}

func TestAuthHandler_Signup_DepartmentValidation(t *testing.T) {
	env := setupAuthTestEnv(t)

	r := gin.New()
	r.POST("/api/auth/signup", env.handler.Signup)

	payload := map[string]any{
		"name":           "Staffer",
		"email":          "staff@university.edu",
		"password":       "supersecret",
		"role":           "department",
		"departmentName": "Space Program",
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_Login(t *testing.T) {
	env := setupAuthTestEnv(t)

	user, err := env.authService.Register(services.RegisterInput{
		Name:     "Alice Example",
		Email:    "alice@university.edu",
		Password: "supersecret",
		Role:     models.RoleStudent,
		Major:    "Computer Science",
	})
	require.NoError(t, err)

	r := gin.New()
	r.POST("/api/auth/login", env.handler.Login)

	payload := map[string]any{
		"email":    "alice@university.edu",
		"password": "supersecret",
		"role":     "student",
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, user.ID, response.User.ID)
	require.NotEmpty(t, response.Token)

	claims, err := auth.ParseToken(response.Token, testJWTSecret)
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.UserID)
	require.Equal(t, models.RoleStudent, claims.Role)
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	env := setupAuthTestEnv(t)

	_, err := env.authService.Register(services.RegisterInput{
		Name:     "Alice Example",
		Email:    "alice@university.edu",
		Password: "supersecret",
		Role:     models.RoleStudent,
		Major:    "Computer Science",
	})
	require.NoError(t, err)

	r := gin.New()
	r.POST("/api/auth/login", env.handler.Login)

	payload := map[string]any{
		"email":    "alice@university.edu",
		"password": "wrongpassword",
		"role":     "student",
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_Login_WrongRole(t *testing.T) {
	env := setupAuthTestEnv(t)

	_, err := env.authService.Register(services.RegisterInput{
		Name:     "Alice Example",
		Email:    "alice@university.edu",
		Password: "supersecret",
		Role:     models.RoleStudent,
		Major:    "Computer Science",
	})
	require.NoError(t, err)

	r := gin.New()
	r.POST("/api/auth/login", env.handler.Login)

	payload := map[string]any{
		"email":    "alice@university.edu",
		"password": "supersecret",
		"role":     "department",
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}
