package server

import (
	"net/http"

	"github.com/existflow/ironlist/internal/dispatch"
	"github.com/existflow/ironlist/internal/model"
	"github.com/existflow/ironlist/internal/view"
	"github.com/labstack/echo/v4"
)

type addToCartRequest struct {
	ProductID model.ProductID `json:"product_id" validate:"required"`
}

type quantityRequest struct {
	Delta int `json:"delta" validate:"required,oneof=-1 1"`
}

// catalogItem is a product with its price formatted for display
type catalogItem struct {
	model.Product
	DisplayPrice string `json:"displayPrice"`
}

type catalogResponse struct {
	Category   string        `json:"category"`
	Categories []string      `json:"categories"`
	Products   []catalogItem `json:"products"`
}

func (s *Server) handleCatalog(c echo.Context) error {
	category := c.QueryParam("category")
	if category == "" {
		category = "all"
	}

	products := s.app.Catalog.ByCategory(category)
	items := make([]catalogItem, len(products))
	for i, p := range products {
		items[i] = catalogItem{Product: p, DisplayPrice: view.FormatMoney(s.app.Cart.Currency(), p.Price)}
	}

	categories := s.app.Catalog.Categories()
	if categories == nil {
		categories = []string{}
	}

	return c.JSON(http.StatusOK, catalogResponse{
		Category:   category,
		Categories: categories,
		Products:   items,
	})
}

func (s *Server) handleGetCart(c echo.Context) error {
	v := s.app.Cart.View()
	return c.JSON(http.StatusOK, response{Cart: &v})
}

func (s *Server) handleAddToCart(c echo.Context) error {
	var req addToCartRequest
	if err := bind(c, &req); err != nil {
		return errorJSON(c, http.StatusBadRequest, err.Error())
	}
	return s.apply(c, dispatch.AddToCart{ProductID: req.ProductID})
}

func (s *Server) handleUpdateQuantity(c echo.Context) error {
	id := model.ParseProductID(c.Param("id"))

	var req quantityRequest
	if err := bind(c, &req); err != nil {
		return errorJSON(c, http.StatusBadRequest, err.Error())
	}

	return s.apply(c, dispatch.UpdateQuantity{ID: id, Delta: req.Delta})
}

func (s *Server) handleRemoveFromCart(c echo.Context) error {
	id := model.ParseProductID(c.Param("id"))
	return s.apply(c, dispatch.RemoveFromCart{ID: id})
}

func (s *Server) handleClearCart(c echo.Context) error {
	return s.apply(c, dispatch.ClearCart{})
}

func (s *Server) handleCheckout(c echo.Context) error {
	return s.apply(c, dispatch.Checkout{})
}
