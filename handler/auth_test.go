package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/gyan-sharma/gs7crm-backend/config"
	"github.com/gyan-sharma/gs7crm-backend/model"
	"github.com/gyan-sharma/gs7crm-backend/service"
)

func TestAuthHandlerLogin(t *testing.T) {
	db := newTestDB(t)
	users := service.NewUserService(db)
	user := createUser(t, users, model.RoleSales, "testpass-123")

	authCfg := &config.AuthConfig{JWTSecret: "test-secret", TokenExpireHours: 24}
	handler := NewAuthHandler(users, authCfg)

	tests := []struct {
		name           string
		body           map[string]string
		expectedStatus int
	}{
		{
			name:           "valid login",
			body:           map[string]string{"email": user.Email, "password": "testpass-123"},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "unknown email",
			body:           map[string]string{"email": "nobody@gs7crm.local", "password": "testpass-123"},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "wrong password",
			body:           map[string]string{"email": user.Email, "password": "wrongpass"},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "missing fields",
			body:           map[string]string{"email": user.Email},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.POST("/login", handler.Login)

			body, _ := json.Marshal(tt.body)
			req := httptest.NewRequest("POST", "/login", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			if tt.expectedStatus == http.StatusOK {
				var response LoginResponse
				if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
					t.Errorf("Failed to parse response: %v", err)
				}
				if response.Token == "" {
					t.Error("Expected token in response")
				}
				if response.Role != "sales" {
					t.Errorf("Expected role 'sales', got '%s'", response.Role)
				}
			}
		})
	}
}

func TestAuthHandlerLoginInactiveUser(t *testing.T) {
	db := newTestDB(t)
	users := service.NewUserService(db)
	user := createUser(t, users, model.RoleSales, "testpass-123")

	off := false
	if _, err := users.Update(context.Background(), user.ID, service.UpdateUserInput{Active: &off}); err != nil {
		t.Fatalf("Failed to deactivate user: %v", err)
	}

	handler := NewAuthHandler(users, &config.AuthConfig{JWTSecret: "test-secret", TokenExpireHours: 24})

	router := gin.New()
	router.POST("/login", handler.Login)

	body, _ := json.Marshal(map[string]string{"email": user.Email, "password": "testpass-123"})
	req := httptest.NewRequest("POST", "/login", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", w.Code)
	}
}

func TestAuthHandlerMe(t *testing.T) {
	db := newTestDB(t)
	users := service.NewUserService(db)
	user := createUser(t, users, model.RoleViewer, "testpass-123")

	handler := NewAuthHandler(users, &config.AuthConfig{JWTSecret: "test-secret", TokenExpireHours: 24})

	router := gin.New()
	router.GET("/me", asUser(user, handler.Me))

	req := httptest.NewRequest("GET", "/me", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var response model.User
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if response.ID != user.ID {
		t.Errorf("Expected user %s, got %s", user.ID, response.ID)
	}
	if response.PasswordHash != "" {
		t.Error("Password hash must never be serialized")
	}
}
