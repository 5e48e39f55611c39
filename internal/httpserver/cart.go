package httpserver

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"pitara/internal/domain"
	"pitara/internal/logging"
)

// Wire types shared with the cart synchronization client: every cart endpoint
// answers with the full cart plus a list of user-facing errors.
type cartEnvelope struct {
	Cart       *apiCart   `json:"cart"`
	UserErrors []apiError `json:"userErrors"`
}

type apiCart struct {
	ID            string    `json:"id"`
	CheckoutURL   string    `json:"checkoutUrl"`
	TotalQuantity int       `json:"totalQuantity"`
	Cost          apiCost   `json:"cost"`
	Lines         []apiLine `json:"lines"`
}

type apiCost struct {
	SubtotalAmount apiMoney `json:"subtotalAmount"`
	TotalAmount    apiMoney `json:"totalAmount"`
}

type apiLine struct {
	ID        string   `json:"id"`
	VariantID string   `json:"variantId"`
	ProductID string   `json:"productId"`
	Title     string   `json:"title"`
	Quantity  int      `json:"quantity"`
	UnitPrice apiMoney `json:"unitPrice"`
	Cost      apiMoney `json:"cost"`
}

type apiMoney struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

type apiError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type cartHandlers struct {
	svc             CartService
	checkoutBaseURL string
}

type createCartRequest struct {
	Currency string `json:"currency"`
}

func (h cartHandlers) create(c *gin.Context) {
	var req createCartRequest
	// An absent body is fine (defaults apply); ContentLength is unreliable
	// for chunked requests, so attempt the bind and accept EOF.
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondUserErrors(c, http.StatusBadRequest, "currency", "invalid request body")
		return
	}
	cart, err := h.svc.Create(c.Request.Context(), req.Currency)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cartEnvelope{Cart: h.toAPICart(*cart), UserErrors: []apiError{}})
}

func (h cartHandlers) get(c *gin.Context) {
	cart, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartEnvelope{Cart: h.toAPICart(*cart), UserErrors: []apiError{}})
}

type addLineRequest struct {
	VariantID string `json:"variantId"`
	Quantity  int    `json:"quantity"`
}

func (h cartHandlers) addLine(c *gin.Context) {
	var req addLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondUserErrors(c, http.StatusBadRequest, "variantId", "invalid request body")
		return
	}
	cart, err := h.svc.AddLine(c.Request.Context(), c.Param("id"), req.VariantID, req.Quantity)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartEnvelope{Cart: h.toAPICart(*cart), UserErrors: []apiError{}})
}

type updateLineRequest struct {
	LineID   string `json:"lineId"`
	Quantity int    `json:"quantity"`
}

func (h cartHandlers) updateLine(c *gin.Context) {
	var req updateLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondUserErrors(c, http.StatusBadRequest, "lineId", "invalid request body")
		return
	}
	cart, err := h.svc.UpdateLine(c.Request.Context(), c.Param("id"), req.LineID, req.Quantity)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartEnvelope{Cart: h.toAPICart(*cart), UserErrors: []apiError{}})
}

func (h cartHandlers) removeLine(c *gin.Context) {
	cart, err := h.svc.RemoveLine(c.Request.Context(), c.Param("id"), c.Param("lineId"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartEnvelope{Cart: h.toAPICart(*cart), UserErrors: []apiError{}})
}

func (h cartHandlers) respondError(c *gin.Context, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		respondUserErrors(c, http.StatusNotFound, "id", "cart or line not found")
		return
	}
	if field, ok := validationField(err); ok {
		respondUserErrors(c, http.StatusBadRequest, field, err.Error())
		return
	}
	logging.From(c).Error("cart handler", "error", err)
	respondUserErrors(c, http.StatusInternalServerError, "", "internal error")
}

func respondUserErrors(c *gin.Context, status int, field, message string) {
	c.JSON(status, cartEnvelope{UserErrors: []apiError{{Field: field, Message: message}}})
}

// validationField maps known service validation messages to the request field
// they concern.
func validationField(err error) (string, bool) {
	msg := err.Error()
	switch {
	case strings.HasPrefix(msg, "variantId"), msg == "variant not found":
		return "variantId", true
	case strings.HasPrefix(msg, "lineId"):
		return "lineId", true
	case strings.HasPrefix(msg, "quantity"):
		return "quantity", true
	case strings.HasPrefix(msg, "currency"):
		return "currency", true
	}
	return "", false
}

func (h cartHandlers) toAPICart(cart domain.Cart) *apiCart {
	lines := make([]apiLine, 0, len(cart.Lines))
	totalQty := 0
	for _, line := range cart.Lines {
		lines = append(lines, apiLine{
			ID:        line.ID,
			VariantID: line.VariantID,
			ProductID: line.ProductID,
			Title:     line.Title,
			Quantity:  line.Quantity,
			UnitPrice: centsToMoney(line.UnitPriceCents, cart.Currency),
			Cost:      centsToMoney(line.TotalCents, cart.Currency),
		})
		totalQty += line.Quantity
	}

	total := centsToMoney(cart.TotalCents, cart.Currency)
	return &apiCart{
		ID:            cart.ID,
		CheckoutURL:   strings.TrimRight(h.checkoutBaseURL, "/") + "/" + cart.ID,
		TotalQuantity: totalQty,
		Cost: apiCost{
			SubtotalAmount: total,
			TotalAmount:    total,
		},
		Lines: lines,
	}
}

func centsToMoney(cents int64, currency string) apiMoney {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return apiMoney{
		Amount:       fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100),
		CurrencyCode: currency,
	}
}
