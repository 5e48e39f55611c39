package httpserver

import (
	"context"
	"log/slog"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"pitara/internal/config"
	"pitara/internal/domain"
)

// Deps carries the services the router depends on.
type Deps struct {
	CartSvc    CartService
	ProductSvc ProductService
}

type CartService interface {
	Create(ctx context.Context, currency string) (*domain.Cart, error)
	Get(ctx context.Context, id string) (*domain.Cart, error)
	AddLine(ctx context.Context, cartID, variantID string, quantity int) (*domain.Cart, error)
	UpdateLine(ctx context.Context, cartID, lineID string, quantity int) (*domain.Cart, error)
	RemoveLine(ctx context.Context, cartID, lineID string) (*domain.Cart, error)
}

type ProductService interface {
	List(ctx context.Context) ([]domain.Product, error)
	GetByHandle(ctx context.Context, handle string) (*domain.Product, error)
}

// buildRouter wires routes for the API.
func buildRouter(cfg config.Config, logger *slog.Logger, db *pgxpool.Pool, deps Deps) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger))

	corsCfg := cors.DefaultConfig()
	if len(cfg.CORSOrigins) == 1 && cfg.CORSOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.CORSOrigins
	}
	corsCfg.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsCfg))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	cart := cartHandlers{svc: deps.CartSvc, checkoutBaseURL: cfg.CheckoutBaseURL}
	router.POST("/cart", cart.create)
	router.GET("/cart/:id", cart.get)
	router.POST("/cart/:id/lines", cart.addLine)
	router.PATCH("/cart/:id/lines", cart.updateLine)
	router.DELETE("/cart/:id/lines/:lineId", cart.removeLine)

	products := productHandlers{svc: deps.ProductSvc}
	router.GET("/products", products.list)
	router.GET("/products/:handle", products.get)

	return router, nil
}
