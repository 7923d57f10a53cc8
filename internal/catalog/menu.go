package catalog

import "github.com/Domenick1991/agentair/internal/domain"

var menu = []domain.MenuItem{
	{ID: "classic-whiz", Name: "Classic Whiz", Description: "Thinly sliced ribeye with Cheez Whiz on a fresh Amoroso roll", PriceCents: 1299, Category: domain.CategoryCheesesteaks},
	{ID: "provolone-steak", Name: "Provolone Steak", Description: "Ribeye with sharp provolone, grilled onions, and peppers", PriceCents: 1399, Category: domain.CategoryCheesesteaks},
	{ID: "mushroom-swiss", Name: "Mushroom Swiss", Description: "Ribeye with sautéed mushrooms and melted Swiss cheese", PriceCents: 1449, Category: domain.CategoryCheesesteaks},
	{ID: "pizza-steak", Name: "Pizza Steak", Description: "Ribeye with marinara sauce and melted mozzarella", PriceCents: 1349, Category: domain.CategoryCheesesteaks},
	{ID: "chicken-cheese", Name: "Chicken Cheesesteak", Description: "Grilled chicken breast with American cheese and fried onions", PriceCents: 1249, Category: domain.CategoryCheesesteaks},
	{ID: "fries", Name: "Cheese Fries", Description: "Crispy fries smothered in Cheez Whiz", PriceCents: 599, Category: domain.CategorySides},
	{ID: "onion-rings", Name: "Onion Rings", Description: "Beer-battered thick-cut onion rings", PriceCents: 649, Category: domain.CategorySides},
	{ID: "soft-pretzel", Name: "Soft Pretzel", Description: "Warm Philly-style soft pretzel with mustard", PriceCents: 499, Category: domain.CategorySides},
	{ID: "birch-beer", Name: "Birch Beer", Description: "Pennsylvania Dutch birch beer, ice cold", PriceCents: 299, Category: domain.CategoryDrinks},
	{ID: "lemonade", Name: "Fresh Lemonade", Description: "House-squeezed lemonade with real lemons", PriceCents: 349, Category: domain.CategoryDrinks},
}

// Categories is the display order of menu sections.
var Categories = []domain.MenuCategory{domain.CategoryCheesesteaks, domain.CategorySides, domain.CategoryDrinks}

var CategoryLabels = map[domain.MenuCategory]string{
	domain.CategoryCheesesteaks: "Cheesesteaks",
	domain.CategorySides:        "Sides",
	domain.CategoryDrinks:       "Drinks",
}

// Menu returns a copy of the menu.
func Menu() []domain.MenuItem {
	return append([]domain.MenuItem(nil), menu...)
}

// MenuItem looks an item up by id.
func MenuItem(id string) (domain.MenuItem, bool) {
	for _, m := range menu {
		if m.ID == id {
			return m, true
		}
	}
	return domain.MenuItem{}, false
}
