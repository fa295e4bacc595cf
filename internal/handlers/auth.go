package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/siamcare/doctrackgo/internal/models"
	"github.com/siamcare/doctrackgo/internal/repository"
	"github.com/siamcare/doctrackgo/internal/utils"
)

// LoginRequest represents a login request
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest represents a staff registration request
type RegisterRequest struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	Name       string `json:"name"`
	Department string `json:"department"`
}

// login handles staff login
func (r *Router) login(w http.ResponseWriter, req *http.Request) {
	var loginReq LoginRequest
	if err := json.NewDecoder(req.Body).Decode(&loginReq); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	staff, err := r.staff.FindByUsername(req.Context(), loginReq.Username)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if !staff.IsActive || !utils.CheckPasswordHash(loginReq.Password, staff.Password) {
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	now := time.Now()
	staff.LastLogin = &now
	if err := r.staff.Update(req.Context(), staff); err != nil {
		r.log.Warn(req.Context(), "failed to record last login", "username", staff.Username, "error", err)
	}

	accessToken, refreshToken, err := utils.GenerateTokens(staff, r.cfg.JWTSecret)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to generate tokens")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"tokens": map[string]string{
			"accessToken":  accessToken,
			"refreshToken": refreshToken,
		},
		"staff": staff,
	})
}

// register handles staff registration
func (r *Router) register(w http.ResponseWriter, req *http.Request) {
	var regReq RegisterRequest
	if err := json.NewDecoder(req.Body).Decode(&regReq); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if regReq.Username == "" || len(regReq.Password) < 8 {
		respondError(w, http.StatusBadRequest, "Username and a password of at least 8 characters are required")
		return
	}

	hashedPassword, err := utils.HashPassword(regReq.Password)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	staff := models.StaffAuth{
		Username:   regReq.Username,
		Password:   hashedPassword,
		Name:       regReq.Name,
		Department: regReq.Department,
		Role:       "staff",
		IsActive:   true,
	}

	if err := r.staff.Create(req.Context(), &staff); err != nil {
		if errors.Is(err, repository.ErrUsernameTaken) {
			respondError(w, http.StatusConflict, "Username already taken")
			return
		}
		r.respondAppError(w, req, err)
		return
	}

	respondJSON(w, http.StatusCreated, staff)
}
