// Package server assembles services, handlers and middleware into the
// application's http.Handler.
package server

import (
	"net/http"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/cwhuang/quote-app/auth"
	"github.com/cwhuang/quote-app/internal/export"
	"github.com/cwhuang/quote-app/internal/handlers"
	"github.com/cwhuang/quote-app/internal/middleware"
	"github.com/cwhuang/quote-app/internal/policy"
	"github.com/cwhuang/quote-app/internal/services"
)

// App is the assembled application. It owns the route table; middleware
// is composed once in New.
type App struct {
	handler http.Handler
}

// New wires every service and handler onto one mux. The session
// middleware runs outermost so the request logger can attribute requests
// to users; per-route RequireAuth guards everything that is not public.
func New(db *gorm.DB, log *zap.Logger, exporter *export.Service) *App {
	quotes := services.NewQuoteService(db)
	shares := services.NewShareService(db, quotes)
	settings := services.NewSettingsService(db)
	gate := policy.NewAppGate()

	authH := handlers.NewAuthHandler(db)
	customerH := handlers.NewCustomerHandler(db, quotes, gate)
	productH := handlers.NewProductHandler(db, gate)
	staffH := handlers.NewStaffHandler(db, quotes, gate)
	bankH := handlers.NewBankHandler(db, quotes, gate)
	quoteH := handlers.NewQuoteHandler(quotes)
	shareH := handlers.NewShareHandler(shares)
	settingsH := handlers.NewSettingsHandler(settings)
	documentH := handlers.NewDocumentHandler(quotes, settings, exporter)
	publicH := handlers.NewPublicShareHandler(shares, settings, exporter)
	healthH := handlers.NewHealthHandler(db)

	mux := http.NewServeMux()

	// public
	mux.HandleFunc("POST /api/register", authH.Register)
	mux.HandleFunc("POST /api/login", authH.Login)
	mux.HandleFunc("POST /api/logout", authH.Logout)
	mux.HandleFunc("GET /share/{token}", publicH.View)
	mux.HandleFunc("GET /share/{token}/pdf", publicH.PDF)
	mux.HandleFunc("GET /healthz", healthH.Healthz)

	authed := func(h http.HandlerFunc) http.Handler { return auth.RequireAuth(h) }

	mux.Handle("GET /api/me", authed(authH.Me))

	mux.Handle("GET /api/customers", authed(customerH.List))
	mux.Handle("POST /api/customers", authed(customerH.Create))
	mux.Handle("GET /api/customers/{id}", authed(customerH.Get))
	mux.Handle("PUT /api/customers/{id}", authed(customerH.Update))
	mux.Handle("DELETE /api/customers/{id}", authed(customerH.Delete))

	mux.Handle("GET /api/products", authed(productH.List))
	mux.Handle("POST /api/products", authed(productH.Create))
	mux.Handle("GET /api/products/{id}", authed(productH.Get))
	mux.Handle("PUT /api/products/{id}", authed(productH.Update))
	mux.Handle("DELETE /api/products/{id}", authed(productH.Delete))
	mux.Handle("GET /api/products/{id}/item-defaults", authed(productH.ItemDefaults))

	mux.Handle("GET /api/staff", authed(staffH.List))
	mux.Handle("POST /api/staff", authed(staffH.Create))
	mux.Handle("GET /api/staff/{id}", authed(staffH.Get))
	mux.Handle("PUT /api/staff/{id}", authed(staffH.Update))
	mux.Handle("DELETE /api/staff/{id}", authed(staffH.Delete))

	mux.Handle("GET /api/banks", authed(bankH.List))
	mux.Handle("POST /api/banks", authed(bankH.Create))
	mux.Handle("GET /api/banks/{id}", authed(bankH.Get))
	mux.Handle("PUT /api/banks/{id}", authed(bankH.Update))
	mux.Handle("DELETE /api/banks/{id}", authed(bankH.Delete))

	mux.Handle("GET /api/quotes", authed(quoteH.List))
	mux.Handle("POST /api/quotes", authed(quoteH.Create))
	mux.Handle("GET /api/quotes/{id}", authed(quoteH.Get))
	mux.Handle("PUT /api/quotes/{id}", authed(quoteH.Update))
	mux.Handle("DELETE /api/quotes/{id}", authed(quoteH.Delete))
	mux.Handle("GET /api/quotes/{id}/aggregate", authed(quoteH.Aggregate))
	mux.Handle("POST /api/quotes/preview", authed(quoteH.Preview))
	mux.Handle("GET /api/stats", authed(quoteH.Stats))

	mux.Handle("POST /api/quotes/{id}/shares", authed(shareH.Create))
	mux.Handle("GET /api/quotes/{id}/shares", authed(shareH.List))
	mux.Handle("DELETE /api/shares/{share_id}", authed(shareH.Deactivate))

	mux.Handle("GET /api/settings/branding", authed(settingsH.GetBranding))
	mux.Handle("PUT /api/settings/branding", authed(settingsH.PutBranding))
	mux.Handle("GET /api/settings/bank-display", authed(settingsH.GetBankDisplay))
	mux.Handle("PUT /api/settings/bank-display", authed(settingsH.PutBankDisplay))

	mux.Handle("GET /quotes/{id}/document", authed(documentH.Document))
	mux.Handle("GET /quotes/{id}/export/html", authed(documentH.ExportHTML))
	mux.Handle("GET /quotes/{id}/export/pdf", authed(documentH.ExportPDF))
	mux.Handle("GET /quotes/export/list", authed(documentH.ExportList))

	handler := auth.Middleware(middleware.Chain(mux,
		middleware.Logger(log),
		middleware.Recover(log),
		middleware.Language(),
	))
	return &App{handler: handler}
}

func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.handler.ServeHTTP(w, r)
}
