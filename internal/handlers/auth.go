package handlers

import (
	"errors"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/cwhuang/quote-app/auth"
	"github.com/cwhuang/quote-app/httpx"
	"github.com/cwhuang/quote-app/internal/models"
	"github.com/cwhuang/quote-app/validation"
)

type AuthHandler struct {
	db *gorm.DB
}

func NewAuthHandler(db *gorm.DB) *AuthHandler {
	return &AuthHandler{db: db}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

const minPasswordLen = 8

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var in credentials
	if !httpx.DecodeJSON(w, r, &in) {
		return
	}
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	v := validation.Violations{}
	validation.Required("email", in.Email, v)
	if in.Email != "" && !strings.Contains(in.Email, "@") {
		v["email"] = "invalid_email"
	}
	if len(in.Password) < minPasswordLen {
		v["password"] = "too_short"
	}
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}

	user := models.User{Email: in.Email, Name: strings.TrimSpace(in.Name), Password: string(hash)}
	if err := h.db.WithContext(r.Context()).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(strings.ToLower(err.Error()), "unique") {
			httpx.JSONError(w, http.StatusConflict, "email_already_exists", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "db_error", nil)
		return
	}

	auth.CreateSession(w, user.ID)
	httpx.JSON(w, http.StatusCreated, user)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in credentials
	if !httpx.DecodeJSON(w, r, &in) {
		return
	}
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	var user models.User
	if err := h.db.WithContext(r.Context()).Where("email = ?", in.Email).First(&user).Error; err != nil {
		httpx.JSONError(w, http.StatusUnauthorized, "invalid_credentials", nil)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)) != nil {
		httpx.JSONError(w, http.StatusUnauthorized, "invalid_credentials", nil)
		return
	}

	auth.CreateSession(w, user.ID)
	httpx.JSON(w, http.StatusOK, user)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSession(w)
	httpx.JSON(w, http.StatusOK, map[string]any{"logged_out": true})
}

// Me returns the authenticated user. A session whose user row was deleted
// is cleared and answered as 401.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	var user models.User
	if err := h.db.WithContext(r.Context()).First(&user, uid).Error; err != nil {
		auth.ClearSession(w)
		httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, user)
}
