package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/mini_shop/internal/logging"
	mwauth "github.com/Skotchmaster/mini_shop/internal/middleware/auth"
	"github.com/Skotchmaster/mini_shop/internal/models"
	"github.com/Skotchmaster/mini_shop/internal/service"
	"github.com/Skotchmaster/mini_shop/internal/transport"
)

type CartHTTP struct {
	Svc         *service.CartService
	EmptyListOK bool
}

func (h *CartHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add")

	user, err := mwauth.CurrentUser(c)
	if err != nil {
		return err
	}
	productID, err := parseID(c, "product_id")
	if err != nil {
		l.Warn("add_to_cart_error", "status", 400, "reason", "product_id is not an integer")
		return err
	}

	if _, err := h.Svc.Add(ctx, user.ID, productID); err != nil {
		return fail(l, "add_to_cart_error", err, "Failed to add item to the cart")
	}

	l.Info("add_to_cart_success", "userID", user.ID, "productID", productID)
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Added to the cart successfully"})
}

func (h *CartHTTP) RemoveFromCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove")

	user, err := mwauth.CurrentUser(c)
	if err != nil {
		return err
	}
	productID, err := parseID(c, "product_id")
	if err != nil {
		l.Warn("remove_from_cart_error", "status", 400, "reason", "product_id is not an integer")
		return err
	}

	if err := h.Svc.Remove(ctx, user.ID, productID); err != nil {
		return fail(l, "remove_from_cart_error", err, "Failed to remove item from the cart")
	}

	l.Info("remove_from_cart_success", "userID", user.ID, "productID", productID)
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Item removed from the cart successfully"})
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get")

	user, err := mwauth.CurrentUser(c)
	if err != nil {
		return err
	}

	lines, err := h.Svc.List(ctx, user.ID)
	if err != nil {
		if errors.Is(err, service.ErrEmpty) && h.EmptyListOK {
			return c.JSON(http.StatusOK, []models.CartLine{})
		}
		return fail(l, "get_cart_error", err, "No products found in the cart")
	}
	return c.JSON(http.StatusOK, lines)
}

func (h *CartHTTP) Checkout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.checkout")

	user, err := mwauth.CurrentUser(c)
	if err != nil {
		return err
	}

	n, err := h.Svc.Checkout(ctx, user.ID)
	if err != nil {
		return fail(l, "checkout_error", err, "No products found in the cart")
	}

	l.Info("checkout_success", "userID", user.ID, "items", n)
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Checkout successful. Cart has been cleared"})
}
