package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/mini_shop/internal/logging"
	"github.com/Skotchmaster/mini_shop/internal/models"
	"github.com/Skotchmaster/mini_shop/internal/service"
	"github.com/Skotchmaster/mini_shop/internal/transport"
	"github.com/Skotchmaster/mini_shop/internal/util"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
	// EmptyListOK reports an empty catalog as 200 [] instead of 404.
	EmptyListOK bool
}

func (h *CatalogHTTP) AddProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.add_product")

	var req transport.CreateProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("add_product_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid product data")
	}

	prod, err := h.Svc.Add(ctx, req)
	if err != nil {
		return fail(l, "add_product_error", err, "Invalid product data")
	}

	l.Info("add_product_success", "productID", prod.ID)
	return c.JSON(http.StatusOK, transport.CreatedResponse{Message: "Product added successfully", ID: prod.ID})
}

func (h *CatalogHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete_product")

	id, err := parseID(c, "id")
	if err != nil {
		l.Warn("delete_product_error", "status", 400, "reason", "id is not an integer")
		return err
	}

	if err := h.Svc.Delete(ctx, id); err != nil {
		return fail(l, "delete_product_error", err, "Product not found")
	}

	l.Info("delete_product_success", "productID", id)
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Product deleted successfully"})
}

func (h *CatalogHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_product")

	id, err := parseID(c, "id")
	if err != nil {
		l.Warn("get_product_failed", "status", 400, "reason", "id is not an integer")
		return err
	}

	prod, err := h.Svc.Get(ctx, id)
	if err != nil {
		return fail(l, "get_product_failed", err, "Product not found")
	}
	return c.JSON(http.StatusOK, prod)
}

func (h *CatalogHTTP) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.update_product")

	id, err := parseID(c, "id")
	if err != nil {
		l.Warn("update_product_error", "status", 400, "reason", "id is not an integer")
		return err
	}

	var req transport.UpdateProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_product_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if _, err := h.Svc.Update(ctx, id, req); err != nil {
		return fail(l, "update_product_error", err, "Product not found")
	}

	l.Info("update_product_success", "productID", id)
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Product updated successfully"})
}

func (h *CatalogHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_products")

	items, err := h.Svc.List(ctx)
	if err != nil {
		if errors.Is(err, service.ErrEmpty) && h.EmptyListOK {
			return c.JSON(http.StatusOK, []transport.ProductSummary{})
		}
		return fail(l, "get_products_error", err, "No products found")
	}
	return c.JSON(http.StatusOK, transport.Summaries(items))
}

func (h *CatalogHTTP) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.search_products")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)

	total, items, err := h.Svc.Search(ctx, c.QueryParam("q"), page, size)
	if err != nil {
		return fail(l, "search_products_error", err, "q is required and page must be within the first 10000 results")
	}
	if items == nil {
		items = []models.Product{}
	}

	_, limit := util.Calculate(page, size)
	if page < 1 {
		page = 1
	}
	return c.JSON(http.StatusOK, transport.SearchResponse{
		Total:    total,
		Page:     page,
		Size:     limit,
		Products: items,
	})
}
