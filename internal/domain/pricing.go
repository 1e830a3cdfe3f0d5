package domain

// BasePrice is the price of one batch of the recipe, summed from the current
// ingredient prices. The stored TotalPrice is not consulted.
func BasePrice(r *Recipe) float64 {
	var total float64
	for _, ing := range r.Ingredients {
		total += ing.Quantity * ing.Price
	}
	return total
}

// PriceForServings scales BasePrice linearly from r.Servings to n servings.
// No rounding is applied.
func PriceForServings(r *Recipe, n int) (float64, error) {
	if n <= 0 {
		return 0, ErrInvalidServings
	}
	if r.Servings <= 0 {
		return 0, ErrZeroServings
	}
	return BasePrice(r) / float64(r.Servings) * float64(n), nil
}
