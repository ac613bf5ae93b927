package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/Ritikajaiswal2707/temple-crowdfunding/internal/http/handlers"
	"github.com/Ritikajaiswal2707/temple-crowdfunding/internal/middleware"
	"github.com/Ritikajaiswal2707/temple-crowdfunding/internal/payment"
)

// Options configures the cross-cutting middleware.
type Options struct {
	CORSAllowedOrigins []string
	RateLimitPerMinute int
	DefaultLocale      string
	CountryLookup      middleware.CountryLookup
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		middleware.Logger(app.Logger),
		chimw.Recoverer,
		middleware.CORS(middleware.DonorCORS(opts.CORSAllowedOrigins)),
		middleware.I18N(opts.DefaultLocale, opts.CountryLookup),
	)

	limit := opts.RateLimitPerMinute
	if limit <= 0 {
		limit = 30
	}
	throttle := middleware.RateLimit(limit, time.Minute)
	requireAuth := middleware.AuthJWT(app.JWTSecret)
	optionalAuth := middleware.OptionalAuth(app.JWTSecret)

	// Health & docs
	r.Get("/v1/healthz", app.Health)
	r.Get("/v1/openapi.json", app.OpenAPIJSON)
	r.Get("/v1/docs", app.OpenAPIDocs)

	r.Route("/auth", func(r chi.Router) {
		r.With(throttle).Post("/signup", app.SignUp)
		r.With(throttle).Post("/signin", app.SignIn)
		r.With(requireAuth).Get("/me", app.Me)
	})

	r.Route("/campaigns", func(r chi.Router) {
		r.Get("/", app.ListCampaigns)
		r.With(requireAuth).Get("/my", app.MyCampaigns)
		r.Get("/{id}", app.GetCampaign)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/", app.CreateCampaign)
			r.Put("/{id}", app.UpdateCampaign)
			r.Delete("/{id}", app.DeleteCampaign)
			r.Post("/{id}/submit", app.SubmitCampaign)
			r.Post("/{id}/updates", app.PostCampaignUpdate)
		})
	})

	r.Route("/admin/campaigns/{id}", func(r chi.Router) {
		r.Use(requireAuth)
		r.Post("/status", app.SetCampaignStatus)
		r.Post("/featured", app.SetCampaignFeatured)
	})

	r.Route("/payment", func(r chi.Router) {
		r.Use(throttle, optionalAuth)
		r.Post("/order", app.CreateOrder)
		r.Post("/verify", app.VerifyPayment)
		if _, ok := app.Ledger.Gateway().(payment.Simulator); ok {
			r.Post("/mock/capture", app.MockCapture)
		}
	})

	r.Route("/user", func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/stats", app.UserStats)
		r.Get("/donations", app.UserDonations)
	})

	return r
}
