package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pitara/internal/domain"
	"pitara/internal/logging"
)

type apiProduct struct {
	ID          string       `json:"id"`
	Handle      string       `json:"handle"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Variants    []apiVariant `json:"variants"`
}

type apiVariant struct {
	ID    string   `json:"id"`
	SKU   string   `json:"sku"`
	Title string   `json:"title"`
	Price apiMoney `json:"price"`
}

type productHandlers struct {
	svc ProductService
}

func (h productHandlers) list(c *gin.Context) {
	products, err := h.svc.List(c.Request.Context())
	if err != nil {
		logging.From(c).Error("list products", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	out := make([]apiProduct, 0, len(products))
	for _, p := range products {
		out = append(out, toAPIProduct(p))
	}
	c.JSON(http.StatusOK, gin.H{"products": out})
}

func (h productHandlers) get(c *gin.Context) {
	product, err := h.svc.GetByHandle(c.Request.Context(), c.Param("handle"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		logging.From(c).Error("get product", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": toAPIProduct(*product)})
}

func toAPIProduct(p domain.Product) apiProduct {
	variants := make([]apiVariant, 0, len(p.Variants))
	for _, v := range p.Variants {
		variants = append(variants, apiVariant{
			ID:    v.ID,
			SKU:   v.SKU,
			Title: v.Title,
			Price: centsToMoney(v.PriceCents, v.Currency),
		})
	}
	return apiProduct{
		ID:          p.ID,
		Handle:      p.Handle,
		Title:       p.Title,
		Description: p.Description,
		Variants:    variants,
	}
}
