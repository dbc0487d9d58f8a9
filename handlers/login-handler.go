package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"ram-planner/backend/services"
	"ram-planner/backend/utils"
)

type LoginHandler struct {
	UserService *services.UserService
	JWTManager  *utils.JWTManager
}

func NewLoginHandler(userService *services.UserService, jwtManager *utils.JWTManager) *LoginHandler {
	return &LoginHandler{UserService: userService, JWTManager: jwtManager}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login issues the session token both in the body and as an httpOnly
// cookie, so browser clients need no token handling of their own.
func (h *LoginHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, token, err := h.UserService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(h.JWTManager.Expiry()),
	})

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Login successful",
		"token":   token,
		"user":    user,
	})
}

func (h *LoginHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})

	writeMessage(w, http.StatusOK, "Logout successful")
}
