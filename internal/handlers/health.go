package handlers

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/cwhuang/quote-app/httpx"
)

type HealthHandler struct {
	db *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Healthz answers 200 once the store responds to a trivial query.
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	var one int
	if err := h.db.WithContext(r.Context()).Raw("SELECT 1").Scan(&one).Error; err != nil {
		httpx.JSONError(w, http.StatusServiceUnavailable, "db_unreachable", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
