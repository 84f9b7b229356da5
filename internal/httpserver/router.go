package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/mini_shop/internal/db"
	"github.com/Skotchmaster/mini_shop/internal/logging"
	mwauth "github.com/Skotchmaster/mini_shop/internal/middleware/auth"
)

type Deps struct {
	AuthHandler    *AuthHTTP
	CatalogHandler *CatalogHTTP
	// CartHandler is nil when the cart routes are disabled.
	CartHandler *CartHTTP
	Auth        *mwauth.Middleware
	DB          *gorm.DB
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/", func(c echo.Context) error { return c.String(http.StatusOK, "Hello world!") })
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		ctx := c.Request().Context()
		if err := db.Ping(ctx, d.DB); err != nil {
			logging.FromContext(ctx).Error("ready_check_failed", "status", 503, "error", err)
			return c.NoContent(http.StatusServiceUnavailable)
		}
		return c.NoContent(http.StatusOK)
	})

	e.POST("/register", d.AuthHandler.Register)
	e.POST("/login", d.AuthHandler.Login)
	e.POST("/logout", d.AuthHandler.Logout, d.Auth.RequireAuth)

	products := e.Group("/api/products")
	products.GET("", d.CatalogHandler.GetProducts)
	products.GET("/search", d.CatalogHandler.SearchProducts)
	products.GET("/:id", d.CatalogHandler.GetProduct)
	products.POST("/add", d.CatalogHandler.AddProduct, d.Auth.RequireAuth)
	products.PUT("/update/:id", d.CatalogHandler.UpdateProduct, d.Auth.RequireAuth)
	products.DELETE("/delete/:id", d.CatalogHandler.DeleteProduct, d.Auth.RequireAuth)

	if d.CartHandler == nil {
		return
	}
	cart := e.Group("/api/cart", d.Auth.RequireAuth)
	cart.GET("", d.CartHandler.GetCart)
	cart.POST("/add/:product_id", d.CartHandler.AddToCart)
	cart.DELETE("/remove/:product_id", d.CartHandler.RemoveFromCart)
	cart.POST("/checkout", d.CartHandler.Checkout)
}
