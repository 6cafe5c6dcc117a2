package app

import (
	"context"
	"log"

	"pizzaria/internal/models"

	"github.com/shopspring/decimal"
)

// Seed loads a starter menu into an empty catalog. It reports false when
// categories already exist and nothing was written.
func (a *App) Seed(ctx context.Context) (bool, error) {
	s := a.Services
	existing, err := s.Products.GetAllCategories()
	if err != nil {
		return false, err
	}
	if len(existing) > 0 {
		return false, nil
	}

	settings := &models.StoreSettings{
		StoreName:        "Pizzaria",
		IsOpen:           true,
		DeliveryFee:      decimal.NewFromInt(8),
		MinimumOrder:     decimal.NewFromInt(30),
		PremiumSurcharge: decimal.NewFromInt(10),
		OpeningTime:      "18:00",
		ClosingTime:      "23:30",
	}
	if err := s.Settings.Save(ctx, settings); err != nil {
		return false, err
	}

	pizzas := &models.Category{Name: "Pizzas", Kind: models.CategoryPizza, DisplayOrder: 1, Active: true}
	drinks := &models.Category{Name: "Drinks", Kind: models.CategoryDrink, DisplayOrder: 2, Active: true}
	desserts := &models.Category{Name: "Desserts", Kind: models.CategoryOther, DisplayOrder: 3, Active: true}
	for _, c := range []*models.Category{pizzas, drinks, desserts} {
		if err := s.Products.CreateCategory(ctx, c); err != nil {
			return false, err
		}
	}

	products := []*models.Product{
		{Name: "Mozzarella", Description: "Mozzarella, tomato sauce and oregano", CategoryID: pizzas.ID, Active: true},
		{Name: "Calabresa", Description: "Calabresa sausage and onion", CategoryID: pizzas.ID, Active: true},
		{Name: "Margherita", Description: "Mozzarella, tomato and basil", CategoryID: pizzas.ID, Active: true},
		{Name: "Portuguesa", Description: "Ham, egg, onion and olives", CategoryID: pizzas.ID, Active: true},
		{Name: "Shrimp", Description: "Shrimp with catupiry", CategoryID: pizzas.ID, BasePrice: decimal.NewFromInt(1), Active: true},
		{Name: "Filet Mignon", Description: "Filet strips and mushrooms", CategoryID: pizzas.ID, BasePrice: decimal.NewFromInt(1), Active: true},
		{Name: "Cola 2L", CategoryID: drinks.ID, BasePrice: decimal.NewFromInt(14), Active: true},
		{Name: "Guarana 2L", CategoryID: drinks.ID, BasePrice: decimal.NewFromInt(12), Active: true},
		{Name: "Orange Juice 1L", CategoryID: drinks.ID, BasePrice: decimal.NewFromInt(15), Active: true},
		{Name: "Chocolate Pizza", Description: "Sweet pizza, small", CategoryID: desserts.ID, BasePrice: decimal.NewFromInt(30), Active: true},
	}
	for _, p := range products {
		if err := s.Products.CreateProduct(ctx, p); err != nil {
			return false, err
		}
	}

	borders := []*models.BorderOption{
		{Name: "No border", Price: decimal.Zero, DisplayOrder: 0, Active: true},
		{Name: "Catupiry", Price: decimal.NewFromInt(8), DisplayOrder: 1, Active: true},
		{Name: "Cheddar", Price: decimal.NewFromInt(8), DisplayOrder: 2, Active: true},
		{Name: "Chocolate", Price: decimal.NewFromInt(10), DisplayOrder: 3, Active: true},
	}
	for _, b := range borders {
		if err := s.Combos.CreateBorder(ctx, b); err != nil {
			return false, err
		}
	}

	combos := []*models.Combo{
		{
			Name: "Family Night", Description: "Two large pizzas and a 2L soda, free delivery",
			RegularPrice: decimal.NewFromInt(134), ComboPrice: decimal.NewFromInt(110),
			PizzaSize: "G", PizzaCount: 2, IncludesDrink: true, FreeDelivery: true, Active: true,
		},
		{
			Name: "Couple", Description: "One medium pizza and a guarana",
			RegularPrice: decimal.NewFromInt(57), ComboPrice: decimal.NewFromInt(50),
			PizzaSize: "M", PizzaCount: 1, IncludesDrink: true, Active: true,
			AllowedDrinkIDs: []string{products[7].ID},
		},
		{
			Name: "Classic Big", Description: "Family size with a classic flavor",
			RegularPrice: decimal.NewFromInt(65), ComboPrice: decimal.NewFromInt(58),
			PizzaSize: "GG", PizzaCount: 1, Active: true,
			AllowedFlavorIDs: []string{products[0].ID, products[1].ID, products[2].ID, products[3].ID},
		},
	}
	for _, c := range combos {
		if err := s.Combos.CreateCombo(ctx, c); err != nil {
			return false, err
		}
	}

	maxUses := 100
	welcome := &models.Coupon{
		Code: "WELCOME10", DiscountType: models.DiscountPercentage, DiscountValue: decimal.NewFromInt(10),
		MinOrderValue: decimal.NewFromInt(40), MaxUses: &maxUses, Active: true,
	}
	if err := s.Coupons.CreateCoupon(ctx, welcome); err != nil {
		return false, err
	}

	log.Printf("Seeded %d products, %d borders and %d combos", len(products), len(borders), len(combos))
	return true, nil
}
