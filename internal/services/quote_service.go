package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/cwhuang/quote-app/internal/models"
	"github.com/cwhuang/quote-app/validation"
)

var (
	ErrQuoteNotFound = errors.New("quote not found")
	ErrReferenced    = errors.New("record is referenced by existing quotes")
)

// ValidationError carries field violations out of a service call so the
// handler can surface them inline. Nothing is written when it is returned.
type ValidationError struct {
	Violations validation.Violations
}

func (e *ValidationError) Error() string { return "validation failed" }

// Resolved wraps a relation that may no longer exist. Renderers branch on
// OK instead of nil-checking every field access.
type Resolved[T any] struct {
	OK    bool
	Value T
}

func resolved[T any](v *T) Resolved[T] {
	if v == nil {
		return Resolved[T]{}
	}
	return Resolved[T]{OK: true, Value: *v}
}

// QuoteAggregate is a quote with its relations resolved and its items in
// display order. It is assembled once and treated as immutable by
// renderers and exports.
type QuoteAggregate struct {
	Quote    models.Quote
	Customer Resolved[models.Customer]
	Staff    Resolved[models.Staff]
	Bank     Resolved[models.Bank]
	Items    []models.QuoteItem
}

// BuildAggregate assembles an aggregate from separately fetched rows.
// Items are sorted by sort_order ascending here; callers must not assume
// the store returns them pre-sorted. Missing relations are normalized to
// unresolved values, never errors: reference rows may legitimately be
// deleted after a quote was written.
func BuildAggregate(quote models.Quote, customer *models.Customer, staff *models.Staff, bank *models.Bank, items []models.QuoteItem) QuoteAggregate {
	sorted := make([]models.QuoteItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].SortOrder < sorted[j].SortOrder })
	return QuoteAggregate{
		Quote:    quote,
		Customer: resolved(customer),
		Staff:    resolved(staff),
		Bank:     resolved(bank),
		Items:    sorted,
	}
}

// QuoteItemInput is one line item as submitted by the form. Amount is
// deliberately absent: it is derived, never accepted from the client.
type QuoteItemInput struct {
	ProductID   *uint   `json:"product_id"`
	ProductName string  `json:"product_name"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Unit        string  `json:"unit"`
	UnitPrice   float64 `json:"unit_price"`
}

// QuoteInput is the create/update payload.
type QuoteInput struct {
	CustomerID    uint             `json:"customer_id"`
	StaffID       *uint            `json:"staff_id"`
	BankID        *uint            `json:"bank_id"`
	ContactPerson string           `json:"contact_person"`
	QuoteDate     string           `json:"quote_date"`
	ValidUntil    string           `json:"valid_until"`
	TaxRate       *float64         `json:"tax_rate"`
	Status        string           `json:"status"`
	Notes         string           `json:"notes"`
	Items         []QuoteItemInput `json:"items"`
}

const dateLayout = "2006-01-02"

// Validate checks the payload without touching the store.
func (in QuoteInput) Validate() validation.Violations {
	v := validation.Violations{}
	validation.RequiredID("customer_id", in.CustomerID, v)
	if len(in.Items) == 0 {
		v["items"] = "at_least_one_item_required"
	}
	for i, it := range in.Items {
		prefix := fmt.Sprintf("items.%d.", i)
		validation.Required(prefix+"product_name", it.ProductName, v)
		validation.MinFloat(prefix+"quantity", it.Quantity, 0.01, v)
		validation.NonNegativeFloat(prefix+"unit_price", it.UnitPrice, v)
	}
	if in.TaxRate != nil {
		validation.RangeFloat("tax_rate", *in.TaxRate, 0, 100, v)
	}
	if in.Status != "" && !models.QuoteStatus(in.Status).Valid() {
		v["status"] = "invalid_status"
	}
	if in.QuoteDate != "" {
		if _, err := time.Parse(dateLayout, in.QuoteDate); err != nil {
			v["quote_date"] = "invalid_date"
		}
	}
	if in.ValidUntil != "" {
		if _, err := time.Parse(dateLayout, in.ValidUntil); err != nil {
			v["valid_until"] = "invalid_date"
		}
	}
	return v
}

// QuoteService owns quote persistence and aggregate assembly.
type QuoteService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewQuoteService(db *gorm.DB) *QuoteService {
	return &QuoteService{db: db, now: time.Now}
}

// itemsFromInputs materializes line items. Sort order is the submitted
// list index; amounts are recomputed here and nowhere else trusted.
func itemsFromInputs(inputs []QuoteItemInput) []models.QuoteItem {
	items := make([]models.QuoteItem, 0, len(inputs))
	for i, in := range inputs {
		items = append(items, models.QuoteItem{
			ProductID:   in.ProductID,
			ProductName: in.ProductName,
			Description: in.Description,
			Quantity:    in.Quantity,
			Unit:        in.Unit,
			UnitPrice:   in.UnitPrice,
			Amount:      LineAmount(in.Quantity, in.UnitPrice),
			SortOrder:   i,
		})
	}
	return items
}

// PreviewTotals is the live recalculation result for the quote form.
type PreviewTotals struct {
	Subtotal  float64 `json:"subtotal"`
	TaxAmount float64 `json:"tax_amount"`
	Total     float64 `json:"total"`
}

// Preview computes totals for an unsaved item list. No validation and no
// writes: the form calls this on every edit.
func Preview(inputs []QuoteItemInput, taxRate *float64) PreviewTotals {
	rate := DefaultTaxRate
	if taxRate != nil {
		rate = *taxRate
	}
	subtotal, tax, total := ComputeTotals(itemsFromInputs(inputs), rate)
	return PreviewTotals{Subtotal: subtotal, TaxAmount: tax, Total: total}
}

// Create validates and persists a new quote with its items in one
// transaction. Totals are derived from the items, never accepted from the
// payload.
func (s *QuoteService) Create(ctx context.Context, userID uint, in QuoteInput) (*models.Quote, error) {
	if v := in.Validate(); !v.Empty() {
		return nil, &ValidationError{Violations: v}
	}

	quoteDate := s.now()
	if in.QuoteDate != "" {
		quoteDate, _ = time.Parse(dateLayout, in.QuoteDate)
	}
	var validUntil *time.Time
	if in.ValidUntil != "" {
		t, _ := time.Parse(dateLayout, in.ValidUntil)
		validUntil = &t
	}
	status := models.QuoteStatusDraft
	if in.Status != "" {
		status = models.QuoteStatus(in.Status)
	}
	rate := DefaultTaxRate
	if in.TaxRate != nil {
		rate = *in.TaxRate
	}

	items := itemsFromInputs(in.Items)
	subtotal, tax, total := ComputeTotals(items, rate)

	quote := models.Quote{
		UserID:        userID,
		CustomerID:    in.CustomerID,
		StaffID:       in.StaffID,
		BankID:        in.BankID,
		ContactPerson: in.ContactPerson,
		QuoteDate:     quoteDate,
		ValidUntil:    validUntil,
		Subtotal:      subtotal,
		TaxRate:       rate,
		TaxAmount:     tax,
		Total:         total,
		Status:        status,
		Notes:         in.Notes,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		number, err := models.GenerateQuoteNumber(tx, userID, quoteDate)
		if err != nil {
			return err
		}
		quote.Number = number
		if err := tx.Create(&quote).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].QuoteID = quote.ID
			if err := tx.Create(&items[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("create quote: %w", err)
	}
	quote.Items = items
	return &quote, nil
}

// Update rewrites a quote wholesale: the row is updated and the item list
// replaced with the submitted one. Concurrent editors are last-write-wins;
// there is no version check.
func (s *QuoteService) Update(ctx context.Context, userID uint, id uint, in QuoteInput) (*models.Quote, error) {
	var quote models.Quote
	if err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&quote).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuoteNotFound
		}
		return nil, fmt.Errorf("load quote: %w", err)
	}

	if v := in.Validate(); !v.Empty() {
		return nil, &ValidationError{Violations: v}
	}

	if in.QuoteDate != "" {
		quote.QuoteDate, _ = time.Parse(dateLayout, in.QuoteDate)
	}
	quote.ValidUntil = nil
	if in.ValidUntil != "" {
		t, _ := time.Parse(dateLayout, in.ValidUntil)
		quote.ValidUntil = &t
	}
	if in.Status != "" {
		quote.Status = models.QuoteStatus(in.Status)
	}
	rate := DefaultTaxRate
	if in.TaxRate != nil {
		rate = *in.TaxRate
	}

	items := itemsFromInputs(in.Items)
	subtotal, tax, total := ComputeTotals(items, rate)

	quote.CustomerID = in.CustomerID
	quote.StaffID = in.StaffID
	quote.BankID = in.BankID
	quote.ContactPerson = in.ContactPerson
	quote.TaxRate = rate
	quote.Subtotal = subtotal
	quote.TaxAmount = tax
	quote.Total = total
	quote.Notes = in.Notes

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&quote).Error; err != nil {
			return err
		}
		if err := tx.Where("quote_id = ?", quote.ID).Delete(&models.QuoteItem{}).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].QuoteID = quote.ID
			if err := tx.Create(&items[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update quote: %w", err)
	}
	quote.Items = items
	return &quote, nil
}

// Delete removes a quote, its items and its shares. Items go first: the
// items table holds a foreign key to the quote.
func (s *QuoteService) Delete(ctx context.Context, userID uint, id uint) error {
	var quote models.Quote
	if err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&quote).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrQuoteNotFound
		}
		return fmt.Errorf("load quote: %w", err)
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quote_id = ?", quote.ID).Delete(&models.QuoteItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("quote_id = ?", quote.ID).Delete(&models.QuoteShare{}).Error; err != nil {
			return err
		}
		return tx.Delete(&quote).Error
	})
	if err != nil {
		return fmt.Errorf("delete quote: %w", err)
	}
	return nil
}

// Get returns the bare quote row with items preloaded, user-scoped.
func (s *QuoteService) Get(ctx context.Context, userID uint, id uint) (*models.Quote, error) {
	var quote models.Quote
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		First(&quote).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuoteNotFound
		}
		return nil, fmt.Errorf("load quote: %w", err)
	}
	return &quote, nil
}

// GetAggregate loads a quote and assembles its display aggregate.
func (s *QuoteService) GetAggregate(ctx context.Context, userID uint, id uint) (QuoteAggregate, error) {
	var quote models.Quote
	if err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&quote).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return QuoteAggregate{}, ErrQuoteNotFound
		}
		return QuoteAggregate{}, fmt.Errorf("load quote: %w", err)
	}
	return s.loadAggregate(ctx, quote)
}

// loadAggregate fetches relations and items for an already loaded quote.
// Relation lookups that come back empty leave the slot unresolved.
func (s *QuoteService) loadAggregate(ctx context.Context, quote models.Quote) (QuoteAggregate, error) {
	db := s.db.WithContext(ctx)

	var items []models.QuoteItem
	if err := db.Where("quote_id = ?", quote.ID).Find(&items).Error; err != nil {
		return QuoteAggregate{}, fmt.Errorf("load items: %w", err)
	}

	var customer *models.Customer
	var c models.Customer
	if err := db.First(&c, quote.CustomerID).Error; err == nil {
		customer = &c
	}

	var staff *models.Staff
	if quote.StaffID != nil {
		var st models.Staff
		if err := db.First(&st, *quote.StaffID).Error; err == nil {
			staff = &st
		}
	}

	var bank *models.Bank
	if quote.BankID != nil {
		var b models.Bank
		if err := db.First(&b, *quote.BankID).Error; err == nil {
			bank = &b
		}
	}

	return BuildAggregate(quote, customer, staff, bank, items), nil
}

// ListOptions filters and paginates the quote list.
type ListOptions struct {
	Query  string
	Status string
	Page   int
	Limit  int
}

// escapeLike escapes LIKE wildcards so user input matches literally.
// Stripping is not an option here: company names and numbers are CJK text.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}

// List returns one page of quotes plus the total row count.
func (s *QuoteService) List(ctx context.Context, userID uint, opts ListOptions) ([]models.Quote, int64, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	offset := 0
	if opts.Page > 1 {
		offset = (opts.Page - 1) * limit
	}

	dbq := s.db.WithContext(ctx).Model(&models.Quote{}).Where("user_id = ?", userID)
	if q := strings.TrimSpace(opts.Query); q != "" {
		like := "%" + escapeLike(q) + "%"
		dbq = dbq.Where("number LIKE ? ESCAPE '\\' OR contact_person LIKE ? ESCAPE '\\'", like, like)
	}
	if opts.Status != "" && models.QuoteStatus(opts.Status).Valid() {
		dbq = dbq.Where("status = ?", opts.Status)
	}

	var total int64
	if err := dbq.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count quotes: %w", err)
	}
	var quotes []models.Quote
	if err := dbq.Order("quote_date DESC, id DESC").Limit(limit).Offset(offset).Find(&quotes).Error; err != nil {
		return nil, 0, fmt.Errorf("list quotes: %w", err)
	}
	return quotes, total, nil
}

// ListForExport returns every quote matching the filter, customers
// preloaded, oldest first. No pagination: the list PDF covers the whole
// filtered set.
func (s *QuoteService) ListForExport(ctx context.Context, userID uint, status, from, to string) ([]models.Quote, error) {
	dbq := s.db.WithContext(ctx).Model(&models.Quote{}).Where("user_id = ?", userID)
	if status != "" && models.QuoteStatus(status).Valid() {
		dbq = dbq.Where("status = ?", status)
	}
	if from != "" {
		if d, err := time.Parse(dateLayout, from); err == nil {
			dbq = dbq.Where("quote_date >= ?", d)
		}
	}
	if to != "" {
		if d, err := time.Parse(dateLayout, to); err == nil {
			dbq = dbq.Where("quote_date < ?", d.AddDate(0, 0, 1))
		}
	}
	var quotes []models.Quote
	if err := dbq.Preload("Customer").Order("quote_date ASC, id ASC").Find(&quotes).Error; err != nil {
		return nil, fmt.Errorf("list quotes for export: %w", err)
	}
	return quotes, nil
}

// Stats summarizes the user's quotes for the dashboard.
type Stats struct {
	Total          int64            `json:"total"`
	ByStatus       map[string]int64 `json:"by_status"`
	TotalAmount    float64          `json:"total_amount"`
	AcceptedAmount float64          `json:"accepted_amount"`
}

func (s *QuoteService) Stats(ctx context.Context, userID uint) (Stats, error) {
	st := Stats{ByStatus: map[string]int64{}}
	base := func() *gorm.DB {
		return s.db.WithContext(ctx).Model(&models.Quote{}).Where("user_id = ?", userID)
	}

	if err := base().Count(&st.Total).Error; err != nil {
		return st, fmt.Errorf("count quotes: %w", err)
	}

	type statusCount struct {
		Status string
		N      int64
	}
	var rows []statusCount
	if err := base().Select("status, COUNT(*) AS n").Group("status").Scan(&rows).Error; err != nil {
		return st, fmt.Errorf("group by status: %w", err)
	}
	for _, r := range rows {
		st.ByStatus[r.Status] = r.N
	}

	var sums struct {
		TotalAmount    float64
		AcceptedAmount float64
	}
	err := base().Select(
		"COALESCE(SUM(total), 0) AS total_amount, " +
			"COALESCE(SUM(CASE WHEN status = 'accepted' THEN total ELSE 0 END), 0) AS accepted_amount",
	).Scan(&sums).Error
	if err != nil {
		return st, fmt.Errorf("sum totals: %w", err)
	}
	st.TotalAmount = sums.TotalAmount
	st.AcceptedAmount = sums.AcceptedAmount
	return st, nil
}

// CustomerInUse reports whether any quote references the customer.
func (s *QuoteService) CustomerInUse(ctx context.Context, userID, customerID uint) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Quote{}).
		Where("user_id = ? AND customer_id = ?", userID, customerID).Count(&n).Error
	return n > 0, err
}

// StaffInUse reports whether any quote references the staff member.
func (s *QuoteService) StaffInUse(ctx context.Context, userID, staffID uint) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Quote{}).
		Where("user_id = ? AND staff_id = ?", userID, staffID).Count(&n).Error
	return n > 0, err
}

// BankInUse reports whether any quote references the bank account.
func (s *QuoteService) BankInUse(ctx context.Context, userID, bankID uint) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Quote{}).
		Where("user_id = ? AND bank_id = ?", userID, bankID).Count(&n).Error
	return n > 0, err
}
