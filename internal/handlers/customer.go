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

type CustomerHandler struct {
	db     *gorm.DB
	quotes *services.QuoteService
	gate   *policy.Gate
}

func NewCustomerHandler(db *gorm.DB, quotes *services.QuoteService, gate *policy.Gate) *CustomerHandler {
	return &CustomerHandler{db: db, quotes: quotes, gate: gate}
}

type customerInput struct {
	CompanyName   string `json:"company_name"`
	ContactPerson string `json:"contact_person"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Address       string `json:"address"`
}

func (in customerInput) validate() validation.Violations {
	v := validation.Violations{}
	validation.Required("company_name", in.CompanyName, v)
	return v
}

func (in customerInput) apply(c *models.Customer) {
	c.CompanyName = strings.TrimSpace(in.CompanyName)
	c.ContactPerson = strings.TrimSpace(in.ContactPerson)
	c.Phone = strings.TrimSpace(in.Phone)
	c.Email = strings.TrimSpace(in.Email)
	c.Address = strings.TrimSpace(in.Address)
}

func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	page, limit := pageParams(r)

	dbq := h.db.WithContext(r.Context()).Model(&models.Customer{}).Where("user_id = ?", uid)
	if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
		like := likePattern(q)
		dbq = dbq.Where("company_name LIKE ? ESCAPE '\\' OR contact_person LIKE ? ESCAPE '\\'", like, like)
	}

	var total int64
	if err := dbq.Count(&total).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "db_error", nil)
		return
	}
	var customers []models.Customer
	if err := dbq.Order("id DESC").Limit(limit).Offset((page - 1) * limit).Find(&customers).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "db_error", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.Page{Data: customers, Page: page, Limit: limit, Total: total})
}

func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	var in customerInput
	if !httpx.DecodeJSON(w, r, &in) {
		return
	}
	if v := in.validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}

	customer := models.Customer{UserID: uid}
	in.apply(&customer)
	if err := h.db.WithContext(r.Context()).Create(&customer).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "db_error", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, customer)
}

// load fetches a customer and checks ownership. Foreign rows answer the
// same 404 as missing ones, so ids cannot be probed.
func (h *CustomerHandler) load(w http.ResponseWriter, r *http.Request, action policy.Action) (*models.Customer, bool) {
	id, ok := pathID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return nil, false
	}
	var customer models.Customer
	if err := h.db.WithContext(r.Context()).First(&customer, id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return nil, false
	}
	if err := h.gate.Authorize(r.Context(), action, "customer", &customer); err != nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return nil, false
	}
	return &customer, true
}

func (h *CustomerHandler) Get(w http.ResponseWriter, r *http.Request) {
	customer, ok := h.load(w, r, policy.ActionView)
	if !ok {
		return
	}
	httpx.JSON(w, http.StatusOK, customer)
}

func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	customer, ok := h.load(w, r, policy.ActionUpdate)
	if !ok {
		return
	}
	var in customerInput
	if !httpx.DecodeJSON(w, r, &in) {
		return
	}
	if v := in.validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}

	in.apply(customer)
	if err := h.db.WithContext(r.Context()).Save(customer).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "db_error", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, customer)
}

func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	customer, ok := h.load(w, r, policy.ActionDelete)
	if !ok {
		return
	}
	inUse, err := h.quotes.CustomerInUse(r.Context(), customer.UserID, customer.ID)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "db_error", nil)
		return
	}
	if inUse {
		httpx.JSONError(w, http.StatusConflict, "customer_in_use", nil)
		return
	}
	if err := h.db.WithContext(r.Context()).Delete(customer).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "db_error", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"deleted": customer.ID})
}
