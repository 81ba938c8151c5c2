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

type BankHandler struct {
	db     *gorm.DB
	quotes *services.QuoteService
	gate   *policy.Gate
}

func NewBankHandler(db *gorm.DB, quotes *services.QuoteService, gate *policy.Gate) *BankHandler {
	return &BankHandler{db: db, quotes: quotes, gate: gate}
}

type bankInput struct {
	BankName      string `json:"bank_name"`
	AccountName   string `json:"account_name"`
	AccountNumber string `json:"account_number"`
	BranchName    string `json:"branch_name"`
	SwiftCode     string `json:"swift_code"`
	Notes         string `json:"notes"`
}

func (in bankInput) validate() validation.Violations {
	v := validation.Violations{}
	validation.Required("bank_name", in.BankName, v)
	validation.Required("account_name", in.AccountName, v)
	validation.Required("account_number", in.AccountNumber, v)
	return v
}

func (in bankInput) apply(b *models.Bank) {
	b.BankName = strings.TrimSpace(in.BankName)
	b.AccountName = strings.TrimSpace(in.AccountName)
	b.AccountNumber = strings.TrimSpace(in.AccountNumber)
	b.BranchName = strings.TrimSpace(in.BranchName)
	b.SwiftCode = strings.TrimSpace(in.SwiftCode)
	b.Notes = strings.TrimSpace(in.Notes)
}

func (h *BankHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	page, limit := pageParams(r)

	dbq := h.db.WithContext(r.Context()).Model(&models.Bank{}).Where("user_id = ?", uid)
	if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
		like := likePattern(q)
		dbq = dbq.Where("bank_name LIKE ? ESCAPE '\\' OR account_name LIKE ? ESCAPE '\\'", like, like)
	}

	var total int64
	if err := dbq.Count(&total).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "db_error", nil)
		return
	}
	var banks []models.Bank
	if err := dbq.Order("id DESC").Limit(limit).Offset((page - 1) * limit).Find(&banks).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "db_error", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.Page{Data: banks, Page: page, Limit: limit, Total: total})
}

func (h *BankHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	var in bankInput
	if !httpx.DecodeJSON(w, r, &in) {
		return
	}
	if v := in.validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}

	bank := models.Bank{UserID: uid}
	in.apply(&bank)
	if err := h.db.WithContext(r.Context()).Create(&bank).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "db_error", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, bank)
}

func (h *BankHandler) load(w http.ResponseWriter, r *http.Request, action policy.Action) (*models.Bank, bool) {
	id, ok := pathID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return nil, false
	}
	var bank models.Bank
	if err := h.db.WithContext(r.Context()).First(&bank, id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return nil, false
	}
	if err := h.gate.Authorize(r.Context(), action, "bank", &bank); err != nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return nil, false
	}
	return &bank, true
}

func (h *BankHandler) Get(w http.ResponseWriter, r *http.Request) {
	bank, ok := h.load(w, r, policy.ActionView)
	if !ok {
		return
	}
	httpx.JSON(w, http.StatusOK, bank)
}

func (h *BankHandler) Update(w http.ResponseWriter, r *http.Request) {
	bank, ok := h.load(w, r, policy.ActionUpdate)
	if !ok {
		return
	}
	var in bankInput
	if !httpx.DecodeJSON(w, r, &in) {
		return
	}
	if v := in.validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}

	in.apply(bank)
	if err := h.db.WithContext(r.Context()).Save(bank).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "db_error", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, bank)
}

func (h *BankHandler) Delete(w http.ResponseWriter, r *http.Request) {
	bank, ok := h.load(w, r, policy.ActionDelete)
	if !ok {
		return
	}
	inUse, err := h.quotes.BankInUse(r.Context(), bank.UserID, bank.ID)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "db_error", nil)
		return
	}
	if inUse {
		httpx.JSONError(w, http.StatusConflict, "bank_in_use", nil)
		return
	}
	if err := h.db.WithContext(r.Context()).Delete(bank).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "db_error", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"deleted": bank.ID})
}
