package tools

import (
	"context"
	"fmt"

	"github.com/Domenick1991/agentair/internal/catalog"
	"github.com/Domenick1991/agentair/internal/domain"
)

type menuItemView struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

type menuSectionView struct {
	ID    string         `json:"id"`
	Label string         `json:"label"`
	Items []menuItemView `json:"items"`
}

type listMenuParams struct {
	Category string `json:"category,omitempty" validate:"omitempty,oneof=cheesesteaks sides drinks" jsonschema:"Only list this menu section"`
}

type listMenuOutput struct {
	Categories []menuSectionView `json:"categories"`
	Count      int               `json:"count"`
}

func (t *toolset) listMenu(ctx context.Context, p listMenuParams) (any, error) {
	menu := catalog.Menu()
	out := listMenuOutput{Categories: []menuSectionView{}}
	for _, cat := range catalog.Categories {
		if p.Category != "" && string(cat) != p.Category {
			continue
		}
		section := menuSectionView{ID: string(cat), Label: catalog.CategoryLabels[cat], Items: []menuItemView{}}
		for _, m := range menu {
			if m.Category == cat {
				section.Items = append(section.Items, menuItemView{ID: m.ID, Name: m.Name, Description: m.Description, Price: dollars(m.PriceCents)})
			}
		}
		out.Count += len(section.Items)
		out.Categories = append(out.Categories, section)
	}

	scope := "Full menu"
	if p.Category != "" {
		scope = catalog.CategoryLabels[domain.MenuCategory(p.Category)]
	}
	t.record(ctx, "list_menu", "Agent browsed the menu", fmt.Sprintf("%s · %s", scope, plural(out.Count, "item")))

	payload := map[string]any{"results_count": out.Count}
	if p.Category != "" {
		payload["category"] = p.Category
	}
	t.emitToolUsed(ctx, "list_menu", payload)
	return out, nil
}

type addToCartParams struct {
	ItemID   string `json:"item_id" validate:"required" jsonschema:"Menu item ID (e.g. 'classic-whiz')"`
	Quantity *int   `json:"quantity,omitempty" validate:"omitempty,min=1,max=20" jsonschema:"How many to add (default 1)"`
}

type cartLineView struct {
	ItemID   string  `json:"item_id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Subtotal float64 `json:"subtotal"`
}

type addToCartOutput struct {
	Success   bool         `json:"success"`
	Added     cartLineView `json:"added"`
	CartCount int          `json:"cart_count"`
	CartTotal float64      `json:"cart_total"`
}

func (t *toolset) addToCart(ctx context.Context, p addToCartParams) (any, error) {
	item, ok := catalog.MenuItem(p.ItemID)
	if !ok {
		ids := make([]string, 0)
		for _, m := range catalog.Menu() {
			ids = append(ids, m.ID)
		}
		return nil, notFound(fmt.Sprintf("Menu item %q not found", p.ItemID), map[string]any{"available_items": ids})
	}

	qty := 1
	if p.Quantity != nil {
		qty = *p.Quantity
	}
	if !t.Cart.Add(item.ID, qty) {
		return nil, notFound(fmt.Sprintf("Menu item %q not found", p.ItemID), nil)
	}

	value := item.PriceCents * int64(qty)
	t.record(ctx, "add_to_cart", "Agent added to cart", fmt.Sprintf("%d × %s · %s", qty, item.Name, usd(value)))
	t.emitCommerce(ctx, "add_to_cart", EventAddToCart, value, []map[string]any{menuLine(item, qty)})

	return addToCartOutput{
		Success:   true,
		Added:     cartLineView{ItemID: item.ID, Name: item.Name, Price: dollars(item.PriceCents), Quantity: qty, Subtotal: dollars(value)},
		CartCount: t.Cart.Count(),
		CartTotal: dollars(t.Cart.Total()),
	}, nil
}

func menuLine(m domain.MenuItem, qty int) map[string]any {
	return map[string]any{
		"item_id":       m.ID,
		"item_name":     m.Name,
		"price":         dollars(m.PriceCents),
		"quantity":      qty,
		"item_category": catalog.CategoryLabels[m.Category],
	}
}

type itemParams struct {
	ItemID string `json:"item_id" validate:"required" jsonschema:"Menu item ID to remove"`
}

func (t *toolset) removeFromCart(ctx context.Context, p itemParams) (any, error) {
	var line *domain.CartItem
	for _, it := range t.Cart.Items() {
		if it.MenuItem.ID == p.ItemID {
			line = &it
			break
		}
	}
	if line == nil || !t.Cart.Remove(p.ItemID) {
		return nil, notFound(fmt.Sprintf("Menu item %q is not in the cart", p.ItemID), nil)
	}

	t.record(ctx, "remove_from_cart", "Agent removed from cart", fmt.Sprintf("%d × %s", line.Quantity, line.MenuItem.Name))
	t.emitCommerce(ctx, "remove_from_cart", EventRemoveFromCart, line.SubtotalCents(), []map[string]any{menuLine(line.MenuItem, line.Quantity)})
	return removeOutput{Success: true, Removed: p.ItemID, Total: dollars(t.Cart.Total())}, nil
}

func (t *toolset) clearCart(ctx context.Context, _ noParams) (any, error) {
	n := t.Cart.Count()
	t.Cart.Clear()

	t.record(ctx, "clear_cart", "Agent emptied the cart", plural(n, "item")+" removed")
	t.emitToolUsed(ctx, "clear_cart", map[string]any{"item_count": n})
	return clearOutput{Success: true, Removed: n}, nil
}

type getCartOutput struct {
	Items []cartLineView `json:"items"`
	Count int            `json:"count"`
	Total float64        `json:"total"`
}

func (t *toolset) getCart(ctx context.Context, _ noParams) (any, error) {
	items := t.Cart.Items()
	total := t.Cart.Total()
	out := getCartOutput{Items: make([]cartLineView, len(items)), Count: t.Cart.Count(), Total: dollars(total)}
	for i, it := range items {
		out.Items[i] = cartLineView{
			ItemID:   it.MenuItem.ID,
			Name:     it.MenuItem.Name,
			Price:    dollars(it.MenuItem.PriceCents),
			Quantity: it.Quantity,
			Subtotal: dollars(it.SubtotalCents()),
		}
	}

	detail := "Cart is empty"
	if out.Count > 0 {
		detail = fmt.Sprintf("%s · Total %s", plural(out.Count, "item"), usd(total))
	}
	t.record(ctx, "get_cart", "Agent reviewed cart", detail)
	t.emitToolUsed(ctx, "get_cart", map[string]any{"cart_value": dollars(total), "item_count": out.Count})
	return out, nil
}
