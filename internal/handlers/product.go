package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/cwhuang/quote-app/httpx"
	"github.com/cwhuang/quote-app/internal/models"
	"github.com/cwhuang/quote-app/internal/policy"
	"github.com/cwhuang/quote-app/internal/services"
	"github.com/cwhuang/quote-app/validation"
)

type ProductHandler struct {
	db   *gorm.DB
	gate *policy.Gate
}

func NewProductHandler(db *gorm.DB, gate *policy.Gate) *ProductHandler {
	return &ProductHandler{db: db, gate: gate}
}

type productInput struct {
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	Unit         string  `json:"unit"`
	DefaultPrice float64 `json:"default_price"`
}

func (in productInput) validate() validation.Violations {
	v := validation.Violations{}
	validation.Required("name", in.Name, v)
	validation.NonNegativeFloat("default_price", in.DefaultPrice, v)
	return v
}

func (in productInput) apply(p *models.Product) {
	p.Name = strings.TrimSpace(in.Name)
	p.Description = strings.TrimSpace(in.Description)
	p.Unit = strings.TrimSpace(in.Unit)
	p.DefaultPrice = in.DefaultPrice
}

// List returns live products only; soft-deleted rows stay out of pickers.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	page, limit := pageParams(r)

	dbq := h.db.WithContext(r.Context()).Model(&models.Product{}).Where("user_id = ?", uid)
	if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
		dbq = dbq.Where("name LIKE ? ESCAPE '\\'", likePattern(q))
	}

	var total int64
	if err := dbq.Count(&total).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "db_error", nil)
		return
	}
	var products []models.Product
	if err := dbq.Order("name ASC, id ASC").Limit(limit).Offset((page - 1) * limit).Find(&products).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "db_error", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.Page{Data: products, Page: page, Limit: limit, Total: total})
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	var in productInput
	if !httpx.DecodeJSON(w, r, &in) {
		return
	}
	if v := in.validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}

	product := models.Product{UserID: uid}
	in.apply(&product)
	if err := h.db.WithContext(r.Context()).Create(&product).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "db_error", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, product)
}

func (h *ProductHandler) load(w http.ResponseWriter, r *http.Request, action policy.Action) (*models.Product, bool) {
	id, ok := pathID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return nil, false
	}
	var product models.Product
	if err := h.db.WithContext(r.Context()).First(&product, id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return nil, false
	}
	if err := h.gate.Authorize(r.Context(), action, "product", &product); err != nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return nil, false
	}
	return &product, true
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, ok := h.load(w, r, policy.ActionView)
	if !ok {
		return
	}
	httpx.JSON(w, http.StatusOK, product)
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	product, ok := h.load(w, r, policy.ActionUpdate)
	if !ok {
		return
	}
	var in productInput
	if !httpx.DecodeJSON(w, r, &in) {
		return
	}
	if v := in.validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}

	in.apply(product)
	if err := h.db.WithContext(r.Context()).Save(product).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "db_error", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, product)
}

// Delete soft-deletes. No conflict check: items copied their product
// fields at selection time, so history never dangles.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	product, ok := h.load(w, r, policy.ActionDelete)
	if !ok {
		return
	}
	if err := h.db.WithContext(r.Context()).Delete(product).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "db_error", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"deleted": product.ID})
}

// ItemDefaults prefills a quote line from the product: name, description,
// unit and price copied, amount computed for the requested quantity.
func (h *ProductHandler) ItemDefaults(w http.ResponseWriter, r *http.Request) {
	product, ok := h.load(w, r, policy.ActionView)
	if !ok {
		return
	}
	quantity := 1.0
	if v := r.URL.Query().Get("quantity"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_quantity", nil)
			return
		}
		quantity = f
	}
	httpx.JSON(w, http.StatusOK, services.ItemFromProduct(*product, quantity))
}
