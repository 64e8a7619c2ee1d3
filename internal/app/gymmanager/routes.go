package gymmanager

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/gym-manager/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/gym-manager/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/gym-manager/internal/http/handlers/finance/activities"
	"github.com/magabrotheeeer/gym-manager/internal/http/handlers/finance/dailyrevenue"
	"github.com/magabrotheeeer/gym-manager/internal/http/handlers/finance/dashboard"
	"github.com/magabrotheeeer/gym-manager/internal/http/handlers/finance/summary"
	"github.com/magabrotheeeer/gym-manager/internal/http/handlers/health"
	packagecreate "github.com/magabrotheeeer/gym-manager/internal/http/handlers/packages/create"
	packagelist "github.com/magabrotheeeer/gym-manager/internal/http/handlers/packages/list"
	packageread "github.com/magabrotheeeer/gym-manager/internal/http/handlers/packages/read"
	packageremove "github.com/magabrotheeeer/gym-manager/internal/http/handlers/packages/remove"
	packageupdate "github.com/magabrotheeeer/gym-manager/internal/http/handlers/packages/update"
	productcreate "github.com/magabrotheeeer/gym-manager/internal/http/handlers/product/create"
	productlist "github.com/magabrotheeeer/gym-manager/internal/http/handlers/product/list"
	productread "github.com/magabrotheeeer/gym-manager/internal/http/handlers/product/read"
	productremove "github.com/magabrotheeeer/gym-manager/internal/http/handlers/product/remove"
	"github.com/magabrotheeeer/gym-manager/internal/http/handlers/product/sale"
	productupdate "github.com/magabrotheeeer/gym-manager/internal/http/handlers/product/update"
	"github.com/magabrotheeeer/gym-manager/internal/http/handlers/subscription/cancel"
	subcreate "github.com/magabrotheeeer/gym-manager/internal/http/handlers/subscription/create"
	sublist "github.com/magabrotheeeer/gym-manager/internal/http/handlers/subscription/list"
	subread "github.com/magabrotheeeer/gym-manager/internal/http/handlers/subscription/read"
	subupdate "github.com/magabrotheeeer/gym-manager/internal/http/handlers/subscription/update"
	traineecreate "github.com/magabrotheeeer/gym-manager/internal/http/handlers/trainee/create"
	traineelist "github.com/magabrotheeeer/gym-manager/internal/http/handlers/trainee/list"
	traineeread "github.com/magabrotheeeer/gym-manager/internal/http/handlers/trainee/read"
	traineeremove "github.com/magabrotheeeer/gym-manager/internal/http/handlers/trainee/remove"
	traineesubs "github.com/magabrotheeeer/gym-manager/internal/http/handlers/trainee/subscriptions"
	traineeupdate "github.com/magabrotheeeer/gym-manager/internal/http/handlers/trainee/update"
	"github.com/magabrotheeeer/gym-manager/internal/http/handlers/transaction/expense"
	txlist "github.com/magabrotheeeer/gym-manager/internal/http/handlers/transaction/list"
	txremove "github.com/magabrotheeeer/gym-manager/internal/http/handlers/transaction/remove"
	usercreate "github.com/magabrotheeeer/gym-manager/internal/http/handlers/user/create"
	userlist "github.com/magabrotheeeer/gym-manager/internal/http/handlers/user/list"
	userread "github.com/magabrotheeeer/gym-manager/internal/http/handlers/user/read"
	userremove "github.com/magabrotheeeer/gym-manager/internal/http/handlers/user/remove"
	userupdate "github.com/magabrotheeeer/gym-manager/internal/http/handlers/user/update"
	"github.com/magabrotheeeer/gym-manager/internal/http/middlewarectx"
	"github.com/magabrotheeeer/gym-manager/internal/models"
)

// Лимит попыток входа на один экземпляр сервиса.
const (
	loginRPS   = 1
	loginBurst = 5
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, s *Services) {
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middlewarectx.Metrics,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.With(middlewarectx.RateLimitMiddleware(logger, loginRPS, loginBurst)).
			Post("/login", login.New(logger, s.Auth).ServeHTTP)
		r.Get("/health", health.New(logger, s.DB).ServeHTTP)

		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(s.Auth, logger))
			adminOnly := middlewarectx.RequireRole(logger, models.RoleAdmin)

			r.Post("/logout", logout.New(logger, s.Auth).ServeHTTP)

			r.Route("/trainees", func(r chi.Router) {
				r.Get("/", traineelist.New(logger, s.Trainees).ServeHTTP)
				r.Post("/", traineecreate.New(logger, s.Trainees).ServeHTTP)
				r.Get("/{id}", traineeread.New(logger, s.Trainees).ServeHTTP)
				r.Put("/{id}", traineeupdate.New(logger, s.Trainees).ServeHTTP)
				r.Delete("/{id}", traineeremove.New(logger, s.Trainees).ServeHTTP)
				r.Get("/{id}/subscriptions", traineesubs.New(logger, s.Subscriptions).ServeHTTP)
			})

			r.Route("/packages", func(r chi.Router) {
				r.Get("/", packagelist.New(logger, s.Catalog).ServeHTTP)
				r.Get("/{id}", packageread.New(logger, s.Catalog).ServeHTTP)
				r.With(adminOnly).Post("/", packagecreate.New(logger, s.Catalog).ServeHTTP)
				r.With(adminOnly).Put("/{id}", packageupdate.New(logger, s.Catalog).ServeHTTP)
				r.With(adminOnly).Delete("/{id}", packageremove.New(logger, s.Catalog).ServeHTTP)
			})

			r.Route("/products", func(r chi.Router) {
				r.Get("/", productlist.New(logger, s.Catalog).ServeHTTP)
				r.Post("/", productcreate.New(logger, s.Catalog).ServeHTTP)
				r.Get("/{id}", productread.New(logger, s.Catalog).ServeHTTP)
				r.Put("/{id}", productupdate.New(logger, s.Catalog).ServeHTTP)
				r.Delete("/{id}", productremove.New(logger, s.Catalog).ServeHTTP)
				r.Post("/{id}/sale", sale.New(logger, s.Ledger).ServeHTTP)
			})

			r.Route("/subscriptions", func(r chi.Router) {
				r.Get("/", sublist.New(logger, s.Subscriptions).ServeHTTP)
				r.Post("/", subcreate.New(logger, s.Subscriptions).ServeHTTP)
				r.Get("/{id}", subread.New(logger, s.Subscriptions).ServeHTTP)
				r.Put("/{id}", subupdate.New(logger, s.Subscriptions).ServeHTTP)
				r.Post("/{id}/cancel", cancel.New(logger, s.Subscriptions).ServeHTTP)
			})

			r.Route("/finance", func(r chi.Router) {
				r.Get("/summary", summary.New(logger, s.Finance, s.Location).ServeHTTP)
				r.Get("/dashboard", dashboard.New(logger, s.Finance).ServeHTTP)
				r.Get("/daily-revenue", dailyrevenue.New(logger, s.Finance).ServeHTTP)
				r.Get("/activities", activities.New(logger, s.Finance).ServeHTTP)
			})

			r.Get("/transactions", txlist.New(logger, s.Ledger, s.Location).ServeHTTP)
			r.With(adminOnly).Delete("/transactions/{id}", txremove.New(logger, s.Ledger).ServeHTTP)
			r.Post("/expenses", expense.New(logger, s.Ledger).ServeHTTP)

			r.Route("/users", func(r chi.Router) {
				r.Use(adminOnly)
				r.Get("/", userlist.New(logger, s.Users).ServeHTTP)
				r.Post("/", usercreate.New(logger, s.Users).ServeHTTP)
				r.Get("/{id}", userread.New(logger, s.Users).ServeHTTP)
				r.Put("/{id}", userupdate.New(logger, s.Users).ServeHTTP)
				r.Delete("/{id}", userremove.New(logger, s.Users).ServeHTTP)
			})
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
