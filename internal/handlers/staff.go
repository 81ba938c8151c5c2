package handlers

import (
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/cwhuang/quote-app/httpx"
	"github.com/cwhuang/quote-app/internal/models"
	"github.com/cwhuang/quote-app/internal/policy"
	"github.com/cwhuang/quote-app/internal/services"
	"github.com/cwhuang/quote-app/validation"
)

type StaffHandler struct {
	db     *gorm.DB
	quotes *services.QuoteService
	gate   *policy.Gate
}

func NewStaffHandler(db *gorm.DB, quotes *services.QuoteService, gate *policy.Gate) *StaffHandler {
	return &StaffHandler{db: db, quotes: quotes, gate: gate}
}

type staffInput struct {
	Name  string `json:"name"`
	Title string `json:"title"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

func (in staffInput) apply(s *models.Staff) {
	s.Name = strings.TrimSpace(in.Name)
	s.Title = strings.TrimSpace(in.Title)
	s.Phone = strings.TrimSpace(in.Phone)
	s.Email = strings.TrimSpace(in.Email)
}

func (h *StaffHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	page, limit := pageParams(r)

	dbq := h.db.WithContext(r.Context()).Model(&models.Staff{}).Where("user_id = ?", uid)
	if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
		dbq = dbq.Where("name LIKE ? ESCAPE '\\'", likePattern(q))
	}

	var total int64
	if err := dbq.Count(&total).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "db_error", nil)
		return
	}
	var staff []models.Staff
	if err := dbq.Order("id DESC").Limit(limit).Offset((page - 1) * limit).Find(&staff).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "db_error", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.Page{Data: staff, Page: page, Limit: limit, Total: total})
}

func (h *StaffHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	var in staffInput
	if !httpx.DecodeJSON(w, r, &in) {
		return
	}
	v := validation.Violations{}
	validation.Required("name", in.Name, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}

	staff := models.Staff{UserID: uid}
	in.apply(&staff)
	if err := h.db.WithContext(r.Context()).Create(&staff).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "db_error", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, staff)
}

func (h *StaffHandler) load(w http.ResponseWriter, r *http.Request, action policy.Action) (*models.Staff, bool) {
	id, ok := pathID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return nil, false
	}
	var staff models.Staff
	if err := h.db.WithContext(r.Context()).First(&staff, id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return nil, false
	}
	if err := h.gate.Authorize(r.Context(), action, "staff", &staff); err != nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return nil, false
	}
	return &staff, true
}

func (h *StaffHandler) Get(w http.ResponseWriter, r *http.Request) {
	staff, ok := h.load(w, r, policy.ActionView)
	if !ok {
		return
	}
	httpx.JSON(w, http.StatusOK, staff)
}

func (h *StaffHandler) Update(w http.ResponseWriter, r *http.Request) {
	staff, ok := h.load(w, r, policy.ActionUpdate)
	if !ok {
		return
	}
	var in staffInput
	if !httpx.DecodeJSON(w, r, &in) {
		return
	}
	v := validation.Violations{}
	validation.Required("name", in.Name, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}

	in.apply(staff)
	if err := h.db.WithContext(r.Context()).Save(staff).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "db_error", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, staff)
}

func (h *StaffHandler) Delete(w http.ResponseWriter, r *http.Request) {
	staff, ok := h.load(w, r, policy.ActionDelete)
	if !ok {
		return
	}
	inUse, err := h.quotes.StaffInUse(r.Context(), staff.UserID, staff.ID)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "db_error", nil)
		return
	}
	if inUse {
		httpx.JSONError(w, http.StatusConflict, "staff_in_use", nil)
		return
	}
	if err := h.db.WithContext(r.Context()).Delete(staff).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "db_error", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"deleted": staff.ID})
}
