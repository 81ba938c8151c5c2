package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cwhuang/quote-app/internal/models"
)

// Setting keys. Each holds one JSON blob, read at render time and written
// by the settings screens. Last writer wins.
const (
	SettingCompanyBranding = "company_branding"
	SettingBankDisplay     = "bank_display"
)

// CompanyBranding is the letterhead configuration passed into the document
// renderer on every render. Images are data URIs so documents stay
// self-contained.
type CompanyBranding struct {
	Name       string `json:"name"`
	Address    string `json:"address"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	TaxID      string `json:"tax_id"`
	LogoImage  string `json:"logo_image"`
	StampImage string `json:"stamp_image"`
}

// BankDisplay controls the remittance block extras.
type BankDisplay struct {
	Image     string `json:"image"`
	ShowSwift bool   `json:"show_swift"`
}

// SettingsService reads and writes the JSON blobs behind the two setting
// keys.
type SettingsService struct {
	db *gorm.DB
}

func NewSettingsService(db *gorm.DB) *SettingsService {
	return &SettingsService{db: db}
}

func (s *SettingsService) get(ctx context.Context, key string, dst any) error {
	var row models.Setting
	if err := s.db.WithContext(ctx).Where("key = ?", key).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil // leave dst at its zero value
		}
		return fmt.Errorf("load setting %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(row.Value), dst); err != nil {
		return fmt.Errorf("decode setting %s: %w", key, err)
	}
	return nil
}

func (s *SettingsService) set(ctx context.Context, key string, v any) error {
	blob, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode setting %s: %w", key, err)
	}
	row := models.Setting{Key: key, Value: string(blob)}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&row).Error
}

// Branding returns the stored company branding, zero-valued when unset.
func (s *SettingsService) Branding(ctx context.Context) (CompanyBranding, error) {
	var b CompanyBranding
	err := s.get(ctx, SettingCompanyBranding, &b)
	return b, err
}

// SetBranding stores the company branding wholesale.
func (s *SettingsService) SetBranding(ctx context.Context, b CompanyBranding) error {
	return s.set(ctx, SettingCompanyBranding, b)
}

// BankDisplay returns the stored bank display settings.
func (s *SettingsService) BankDisplay(ctx context.Context) (BankDisplay, error) {
	var b BankDisplay
	err := s.get(ctx, SettingBankDisplay, &b)
	return b, err
}

// SetBankDisplay stores the bank display settings wholesale.
func (s *SettingsService) SetBankDisplay(ctx context.Context, b BankDisplay) error {
	return s.set(ctx, SettingBankDisplay, b)
}
