package domain

type MenuCategory string

const (
	CategoryCheesesteaks MenuCategory = "cheesesteaks"
	CategorySides        MenuCategory = "sides"
	CategoryDrinks       MenuCategory = "drinks"
)

type MenuItem struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	PriceCents  int64        `json:"price_cents"`
	Category    MenuCategory `json:"category"`
}

type CartItem struct {
	MenuItem MenuItem `json:"menu_item"`
	Quantity int      `json:"quantity"`
}

func (i CartItem) SubtotalCents() int64 {
	return i.MenuItem.PriceCents * int64(i.Quantity)
}
