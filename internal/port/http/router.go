package http

import (
	"net/http"

	"github.com/Abdurahmanit/GroupProject/plant-service/internal/domain/entity"
	"github.com/Abdurahmanit/GroupProject/plant-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/plant-service/internal/platform/metrics"
	"github.com/Abdurahmanit/GroupProject/plant-service/internal/port/http/handler"
	"github.com/Abdurahmanit/GroupProject/plant-service/internal/port/http/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Handlers struct {
	Auth  *handler.AuthHandler
	Users *handler.UserHandler
	Plant *handler.PlantHandler
	Order *handler.OrderHandler
}

type RouterConfig struct {
	AllowedOrigins []string
}

// NewRouter wires every route behind its authorization chain.
func NewRouter(cfg RouterConfig, h Handlers, gate *middleware.Gate, m *metrics.Manager, log logger.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Observability(log, m))
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("Hello from plantNet Server.."))
	})
	if m != nil {
		r.Method(http.MethodGet, "/metrics", m.Handler())
	}

	// Public routes
	r.Post("/jwt", h.Auth.IssueToken)
	r.Get("/logout", h.Auth.Logout)
	r.Post("/users/{email}", h.Users.Save)
	r.Get("/plants", h.Plant.List)

	r.Group(func(authRouter chi.Router) {
		authRouter.Use(gate.RequireAuthenticated)

		authRouter.Patch("/users/{email}", h.Users.RequestSeller)
		authRouter.Get("/users/role/{email}", h.Users.GetRole)
		authRouter.Get("/plant/{id}", h.Plant.Get)
		authRouter.Post("/order", h.Order.Place)
		authRouter.Delete("/orders/{id}", h.Order.Cancel)
		authRouter.Get("/customer-orders/{email}", h.Order.ListForCustomer)

		authRouter.Group(func(admin chi.Router) {
			admin.Use(gate.RequireRole(entity.RoleAdmin))
			admin.Patch("/update/role/{email}", h.Users.GrantRole)
			admin.Get("/all-users/{email}", h.Users.ListOthers)
		})

		authRouter.Group(func(seller chi.Router) {
			seller.Use(gate.RequireRole(entity.RoleSeller))
			seller.Post("/plants", h.Plant.Create)
			seller.Post("/plants/image", h.Plant.UploadImage)
			seller.Get("/seller-orders/{email}", h.Order.ListForSeller)
		})

		authRouter.Group(func(staff chi.Router) {
			staff.Use(gate.RequireRole(entity.RoleSeller, entity.RoleAdmin))
			staff.Patch("/orders/{id}", h.Order.SetStatus)
			staff.Patch("/plants/quantity/{id}", h.Plant.AdjustQuantity)
		})
	})

	return r
}
