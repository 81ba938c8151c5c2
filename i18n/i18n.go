package i18n

import "strings"

// DefaultLang is the fallback language for unknown codes and headers.
const DefaultLang = "zh-TW"

var translations = map[string]map[string]string{
	"zh-TW": {
		"document.title":               "報價單",
		"document.quote_number":        "報價單號",
		"document.quote_date":          "報價日期",
		"document.valid_until":         "有效期限",
		"document.staff":               "負責人",
		"document.customer":            "客戶資訊",
		"document.contact":             "聯絡人",
		"document.phone":               "電話",
		"document.email":               "Email",
		"document.address":             "地址",
		"document.tax_id":              "統一編號",
		"document.item.name":           "品名",
		"document.item.description":    "說明",
		"document.item.quantity":       "數量",
		"document.item.unit":           "單位",
		"document.item.unit_price":     "單價",
		"document.item.amount":         "金額",
		"document.no_items":            "無項目",
		"document.subtotal":            "小計",
		"document.tax":                 "稅金",
		"document.total":               "總計",
		"document.bank":                "匯款資訊",
		"document.bank.bank_name":      "銀行名稱",
		"document.bank.account_name":   "戶名",
		"document.bank.account_number": "帳號",
		"document.bank.branch":         "分行",
		"document.bank.swift":          "SWIFT",
		"document.notes":               "備註",
		"document.generated_at":        "產生時間",
		"document.unknown_customer":    "未知客戶",
		"document.placeholder.logo":    "公司標誌",
		"document.placeholder.stamp":   "公司印章",
		"document.placeholder.bank":    "匯款圖檔",
		"document.upload_hint":         "點擊上傳",
		"document.edit_hint":           "編輯",
		"list.title":                   "報價單清單",
		"list.number":                  "單號",
		"list.customer":                "客戶",
		"list.contact":                 "聯絡人",
		"list.date":                    "日期",
		"list.total":                   "總計",
		"list.status":                  "狀態",
		"list.count":                   "筆數",
		"list.sum":                     "合計",
		"share.not_found":              "連結無效或已過期",
		"quote.status.draft":           "草稿",
		"quote.status.sent":            "已送出",
		"quote.status.accepted":        "已接受",
		"quote.status.rejected":        "已拒絕",
	},
	"en": {
		"document.title":               "Quotation",
		"document.quote_number":        "Quote No.",
		"document.quote_date":          "Quote Date",
		"document.valid_until":         "Valid Until",
		"document.staff":               "Contact Staff",
		"document.customer":            "Customer",
		"document.contact":             "Contact",
		"document.phone":               "Phone",
		"document.email":               "Email",
		"document.address":             "Address",
		"document.tax_id":              "Tax ID",
		"document.item.name":           "Item",
		"document.item.description":    "Description",
		"document.item.quantity":       "Qty",
		"document.item.unit":           "Unit",
		"document.item.unit_price":     "Unit Price",
		"document.item.amount":         "Amount",
		"document.no_items":            "No items",
		"document.subtotal":            "Subtotal",
		"document.tax":                 "Tax",
		"document.total":               "Total",
		"document.bank":                "Remittance",
		"document.bank.bank_name":      "Bank",
		"document.bank.account_name":   "Account Name",
		"document.bank.account_number": "Account No.",
		"document.bank.branch":         "Branch",
		"document.bank.swift":          "SWIFT",
		"document.notes":               "Notes",
		"document.generated_at":        "Generated at",
		"document.unknown_customer":    "Unknown customer",
		"document.placeholder.logo":    "Company logo",
		"document.placeholder.stamp":   "Company stamp",
		"document.placeholder.bank":    "Remittance image",
		"document.upload_hint":         "Click to upload",
		"document.edit_hint":           "Edit",
		"list.title":                   "Quote List",
		"list.number":                  "Number",
		"list.customer":                "Customer",
		"list.contact":                 "Contact",
		"list.date":                    "Date",
		"list.total":                   "Total",
		"list.status":                  "Status",
		"list.count":                   "Count",
		"list.sum":                     "Sum",
		"share.not_found":              "This link is invalid or has expired",
		"quote.status.draft":           "Draft",
		"quote.status.sent":            "Sent",
		"quote.status.accepted":        "Accepted",
		"quote.status.rejected":        "Rejected",
	},
}

// T returns the translation of code for lang. Unknown languages fall back
// to the default language; unknown codes fall back to the code itself.
func T(lang, code string) string {
	if m, ok := translations[lang]; ok {
		if msg, ok := m[code]; ok {
			return msg
		}
	}
	if msg, ok := translations[DefaultLang][code]; ok {
		return msg
	}
	return code
}

// DetectLanguage maps an Accept-Language header to a supported language.
func DetectLanguage(header string) string {
	h := strings.ToLower(strings.TrimSpace(header))
	switch {
	case strings.HasPrefix(h, "en"):
		return "en"
	case strings.HasPrefix(h, "zh"):
		return "zh-TW"
	}
	return DefaultLang
}
