package catalog

import "github.com/oqtepa/fastfood-storefront/internal/model"

// Categories returns the static category reference data. Categories
// are not mutated at runtime.
func Categories() []model.Category {
	return []model.Category{
		{
			ID:   "burgers",
			Name: model.LocalizedText{"uz": "Burgerlar", "ru": "Бургеры", "en": "Burgers"},
			Icon: "🍔",
		},
		{
			ID:   "pizza",
			Name: model.LocalizedText{"uz": "Pitsa", "ru": "Пицца", "en": "Pizza"},
			Icon: "🍕",
		},
		{
			ID:   "drinks",
			Name: model.LocalizedText{"uz": "Ichimliklar", "ru": "Напитки", "en": "Drinks"},
			Icon: "🥤",
		},
		{
			ID:   "desserts",
			Name: model.LocalizedText{"uz": "Shirinliklar", "ru": "Десерты", "en": "Desserts"},
			Icon: "🍰",
		},
	}
}

// KnownCategory reports whether id matches a category.
func KnownCategory(id string) bool {
	for _, c := range Categories() {
		if c.ID == id {
			return true
		}
	}
	return false
}

const placeholderImage = "/placeholder.svg?height=200&width=200"

// DefaultProducts returns the seed catalog used when no persisted
// snapshot exists.
func DefaultProducts() []model.Product {
	return []model.Product{
		{
			ID:          "classic-burger",
			Name:        model.LocalizedText{"uz": "Klassik Burger", "ru": "Классический Бургер", "en": "Classic Burger"},
			Description: model.LocalizedText{"uz": "Mol go'shti, pomidor, salat, piyoz va maxsus sous", "ru": "Говядина, помидор, салат, лук и специальный соус", "en": "Beef patty, tomato, lettuce, onion and special sauce"},
			Price:       25000,
			Image:       placeholderImage,
			Category:    "burgers",
			Popular:     true,
			Stock:       15,
		},
		{
			ID:          "cheese-burger",
			Name:        model.LocalizedText{"uz": "Chizburger", "ru": "Чизбургер", "en": "Cheeseburger"},
			Description: model.LocalizedText{"uz": "Mol go'shti, pishloq, pomidor, salat va sous", "ru": "Говядина, сыр, помидор, салат и соус", "en": "Beef patty, cheese, tomato, lettuce and sauce"},
			Price:       28000,
			Image:       placeholderImage,
			Category:    "burgers",
			Stock:       12,
		},
		{
			ID:          "chicken-burger",
			Name:        model.LocalizedText{"uz": "Tovuq Burger", "ru": "Куриный Бургер", "en": "Chicken Burger"},
			Description: model.LocalizedText{"uz": "Tovuq go'shti, salat, pomidor va mayonez", "ru": "Куриное мясо, салат, помидор и майонез", "en": "Chicken breast, lettuce, tomato and mayo"},
			Price:       23000,
			Image:       placeholderImage,
			Category:    "burgers",
			Stock:       18,
		},
		{
			ID:          "margherita",
			Name:        model.LocalizedText{"uz": "Margarita", "ru": "Маргарита", "en": "Margherita"},
			Description: model.LocalizedText{"uz": "Pomidor sousi, mozzarella va rayhon", "ru": "Томатный соус, моцарелла и базилик", "en": "Tomato sauce, mozzarella and basil"},
			Price:       35000,
			Image:       placeholderImage,
			Category:    "pizza",
			Popular:     true,
			Stock:       10,
		},
		{
			ID:          "pepperoni",
			Name:        model.LocalizedText{"uz": "Pepperoni", "ru": "Пепперони", "en": "Pepperoni"},
			Description: model.LocalizedText{"uz": "Pomidor sousi, mozzarella va pepperoni", "ru": "Томатный соус, моцарелла и пепперони", "en": "Tomato sauce, mozzarella and pepperoni"},
			Price:       42000,
			Image:       placeholderImage,
			Category:    "pizza",
			Stock:       8,
		},
		{
			ID:          "cola",
			Name:        model.LocalizedText{"uz": "Kola", "ru": "Кола", "en": "Cola"},
			Description: model.LocalizedText{"uz": "Sovuq gazli ichimlik", "ru": "Холодный газированный напиток", "en": "Cold carbonated drink"},
			Price:       8000,
			Image:       placeholderImage,
			Category:    "drinks",
			Stock:       25,
		},
		{
			ID:          "orange-juice",
			Name:        model.LocalizedText{"uz": "Apelsin sharbati", "ru": "Апельсиновый сок", "en": "Orange Juice"},
			Description: model.LocalizedText{"uz": "Tabiiy apelsin sharbati", "ru": "Натуральный апельсиновый сок", "en": "Fresh orange juice"},
			Price:       12000,
			Image:       placeholderImage,
			Category:    "drinks",
			Stock:       20,
		},
		{
			ID:          "chocolate-cake",
			Name:        model.LocalizedText{"uz": "Shokoladli tort", "ru": "Шоколадный торт", "en": "Chocolate Cake"},
			Description: model.LocalizedText{"uz": "Yumshoq shokoladli tort", "ru": "Мягкий шоколадный торт", "en": "Soft chocolate cake"},
			Price:       18000,
			Image:       placeholderImage,
			Category:    "desserts",
			Stock:       6,
		},
		{
			ID:          "ice-cream",
			Name:        model.LocalizedText{"uz": "Muzqaymoq", "ru": "Мороженое", "en": "Ice Cream"},
			Description: model.LocalizedText{"uz": "Vanilli muzqaymoq", "ru": "Ванильное мороженое", "en": "Vanilla ice cream"},
			Price:       15000,
			Image:       placeholderImage,
			Category:    "desserts",
			Stock:       14,
		},
	}
}
