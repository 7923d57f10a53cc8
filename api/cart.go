package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Domenick1991/agentair/internal/domain"
)

type CartReader interface {
	Items() []domain.CartItem
	Total() int64
	Count() int
}

type CartHandler struct {
	cart  CartReader
	menu  []domain.MenuItem
	tools ToolCaller
}

type cartResponse struct {
	Items      []domain.CartItem `json:"items"`
	Count      int               `json:"count"`
	TotalCents int64             `json:"total_cents"`
}

type addCartItemRequest struct {
	ItemID   string `json:"item_id" binding:"required"`
	Quantity *int   `json:"quantity,omitempty"`
}

func NewCartHandler(cart CartReader, menu []domain.MenuItem, tools ToolCaller) *CartHandler {
	return &CartHandler{cart: cart, menu: menu, tools: tools}
}

// Register mounts the cart routes. The menu lives next to the cart.
func (h *CartHandler) Register(cart, menu *gin.RouterGroup) {
	menu.GET("", h.listMenu)
	cart.GET("", h.get)
	cart.DELETE("", h.clear)
	cart.POST("/items", h.addItem)
	cart.DELETE("/items/:itemId", h.removeItem)
}

func (h *CartHandler) listMenu(c *gin.Context) {
	category := domain.MenuCategory(c.Query("category"))
	items := make([]domain.MenuItem, 0, len(h.menu))
	for _, it := range h.menu {
		if category == "" || it.Category == category {
			items = append(items, it)
		}
	}
	c.JSON(http.StatusOK, items)
}

func (h *CartHandler) get(c *gin.Context) {
	c.JSON(http.StatusOK, cartResponse{
		Items:      h.cart.Items(),
		Count:      h.cart.Count(),
		TotalCents: h.cart.Total(),
	})
}

func (h *CartHandler) addItem(c *gin.Context) {
	var req addCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	dispatch(c, h.tools, "add_to_cart", req)
}

func (h *CartHandler) removeItem(c *gin.Context) {
	dispatch(c, h.tools, "remove_from_cart", gin.H{"item_id": c.Param("itemId")})
}

func (h *CartHandler) clear(c *gin.Context) {
	dispatch(c, h.tools, "clear_cart", nil)
}
