package domain

// Product is a sellable item. UnitFactor is the number of delivery units one
// quantity of the product contributes (a 6-pack counts as 6 units when the
// solo-minimum rule is evaluated).
type Product struct {
	ProductID  string
	Name       string
	PriceCents int
	UnitFactor int
	Active     bool
}

type CartItem struct {
	ProductID string
	Qty       int
}

// Cart is a priced snapshot of line items. Subtotal and unit totals are
// computed against the product catalog at read time.
type Cart struct {
	CartID string
	Items  []CartItem
}

// SubtotalCents sums qty * priceCents over items resolvable to an active product.
func (c Cart) SubtotalCents(products map[string]Product) int {
	total := 0
	for _, it := range c.Items {
		p, ok := products[it.ProductID]
		if !ok || !p.Active {
			continue
		}
		total += p.PriceCents * it.Qty
	}
	return total
}

// UnitTotal sums qty * unitFactor; this is the quantity compared against the
// solo-minimum threshold.
func (c Cart) UnitTotal(products map[string]Product) int {
	total := 0
	for _, it := range c.Items {
		p, ok := products[it.ProductID]
		if !ok || !p.Active {
			continue
		}
		total += p.UnitFactor * it.Qty
	}
	return total
}
