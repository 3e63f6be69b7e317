package cart

import (
	"math"

	"github.com/google/uuid"

	"github.com/tavolopos/tavolo-backend/pkg/types"
)

// ProductSnapshot freezes the product data a line item was priced against.
// Catalog edits after the add do not reprice open carts.
type ProductSnapshot struct {
	ID        uuid.UUID   `json:"id"`
	SKU       string      `json:"sku"`
	Name      string      `json:"name"`
	UnitPrice types.Money `json:"unit_price"`
}

// LineItem is one cart row: a product configured with a specific modifier and
// addon selection. LineID is fixed at creation from the add-time configuration
// and is not re-derived when addon quantities are rescaled later.
type LineItem struct {
	LineID    string                   `json:"line_id"`
	ProductID uuid.UUID                `json:"product_id"`
	Product   ProductSnapshot          `json:"product"`
	Quantity  int                      `json:"quantity"`
	Amount    types.Money              `json:"amount"`
	Modifiers types.ModifierSelections `json:"modifiers"`
	Addons    types.AddonSelections    `json:"addons"`
	Available bool                     `json:"available"`
}

// Cart holds the register's open order: line items in insertion order plus
// customer metadata. All mutations are synchronous and total; unknown line IDs
// are ignored.
type Cart struct {
	Lines        []LineItem `json:"lines"`
	CustomerName string     `json:"customer_name,omitempty"`
	Notes        string     `json:"notes,omitempty"`
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

// AddItem appends a configured product or merges into an existing line with
// the same configuration. Returns the line ID.
func (c *Cart) AddItem(product ProductSnapshot, quantity int, modifiers []types.ModifierSelection, addons []types.AddonSelection) string {
	if quantity < 1 {
		quantity = 1
	}
	addons = dropEmptyAddons(addons)
	lineID := LineID(product.ID, modifiers, addons)

	if line := c.find(lineID); line != nil {
		oldQty := line.Quantity
		line.Quantity += quantity
		rescaleAddons(line.Addons, oldQty, line.Quantity)
		line.Amount = LineAmount(line.Product.UnitPrice, line.Quantity, line.Modifiers, line.Addons)
		return lineID
	}

	line := LineItem{
		LineID:    lineID,
		ProductID: product.ID,
		Product:   product,
		Quantity:  quantity,
		Modifiers: append(types.ModifierSelections(nil), modifiers...),
		Addons:    append(types.AddonSelections(nil), addons...),
		Available: true,
	}
	line.Amount = LineAmount(product.UnitPrice, quantity, line.Modifiers, line.Addons)
	c.Lines = append(c.Lines, line)
	return lineID
}

// RemoveItem deletes the line unconditionally.
func (c *Cart) RemoveItem(lineID string) {
	for i := range c.Lines {
		if c.Lines[i].LineID == lineID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return
		}
	}
}

// UpdateQuantity sets the line quantity, removing the line when the quantity
// drops to zero or below. Addon quantities are rescaled proportionally with
// round-to-nearest; repeated edits may not restore original addon counts.
func (c *Cart) UpdateQuantity(lineID string, quantity int) {
	if quantity <= 0 {
		c.RemoveItem(lineID)
		return
	}
	line := c.find(lineID)
	if line == nil {
		return
	}
	oldQty := line.Quantity
	line.Quantity = quantity
	rescaleAddons(line.Addons, oldQty, quantity)
	line.Amount = LineAmount(line.Product.UnitPrice, line.Quantity, line.Modifiers, line.Addons)
}

// AddAddon attaches an addon to the line, summing quantities when the addon is
// already present. Zero or negative addon quantities are ignored.
func (c *Cart) AddAddon(lineID string, addon types.AddonSelection) {
	if addon.Quantity <= 0 {
		return
	}
	line := c.find(lineID)
	if line == nil {
		return
	}
	merged := false
	for i := range line.Addons {
		if line.Addons[i].AddonID == addon.AddonID {
			line.Addons[i].Quantity += addon.Quantity
			merged = true
			break
		}
	}
	if !merged {
		line.Addons = append(line.Addons, addon)
	}
	line.Amount = LineAmount(line.Product.UnitPrice, line.Quantity, line.Modifiers, line.Addons)
}

// RemoveAddon detaches the addon from the line.
func (c *Cart) RemoveAddon(lineID string, addonID uuid.UUID) {
	line := c.find(lineID)
	if line == nil {
		return
	}
	filtered := line.Addons[:0]
	for _, addon := range line.Addons {
		if addon.AddonID != addonID {
			filtered = append(filtered, addon)
		}
	}
	line.Addons = filtered
	line.Amount = LineAmount(line.Product.UnitPrice, line.Quantity, line.Modifiers, line.Addons)
}

// SetModifiers replaces the line's modifier selection wholesale. Partial
// group updates are the caller's concern; the full new set must be supplied.
func (c *Cart) SetModifiers(lineID string, modifiers []types.ModifierSelection) {
	line := c.find(lineID)
	if line == nil {
		return
	}
	line.Modifiers = append(types.ModifierSelections(nil), modifiers...)
	line.Amount = LineAmount(line.Product.UnitPrice, line.Quantity, line.Modifiers, line.Addons)
}

// SetCustomer records the customer name on the order.
func (c *Cart) SetCustomer(name string) {
	c.CustomerName = name
}

// SetNotes records free-form order notes.
func (c *Cart) SetNotes(notes string) {
	c.Notes = notes
}

// Clear resets the cart to its empty state.
func (c *Cart) Clear() {
	c.Lines = nil
	c.CustomerName = ""
	c.Notes = ""
}

// Item returns the line with the given ID, or nil.
func (c *Cart) Item(lineID string) *LineItem {
	return c.find(lineID)
}

// Subtotal sums the line amounts.
func (c *Cart) Subtotal() types.Money {
	subtotal := types.ZeroMoney()
	for _, line := range c.Lines {
		subtotal = subtotal.Add(line.Amount)
	}
	return subtotal
}

// ItemCount sums line quantities.
func (c *Cart) ItemCount() int {
	count := 0
	for _, line := range c.Lines {
		count += line.Quantity
	}
	return count
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Snapshot returns a deep copy for handoff to checkout.
func (c *Cart) Snapshot() Cart {
	out := Cart{
		CustomerName: c.CustomerName,
		Notes:        c.Notes,
		Lines:        make([]LineItem, len(c.Lines)),
	}
	for i, line := range c.Lines {
		copied := line
		copied.Modifiers = append(types.ModifierSelections(nil), line.Modifiers...)
		copied.Addons = append(types.AddonSelections(nil), line.Addons...)
		out.Lines[i] = copied
	}
	return out
}

func (c *Cart) find(lineID string) *LineItem {
	for i := range c.Lines {
		if c.Lines[i].LineID == lineID {
			return &c.Lines[i]
		}
	}
	return nil
}

// rescaleAddons scales addon quantities by newQty/oldQty, rounding to nearest.
// Known lossy under repeated edits (1→3→1 may drift); kept for parity with the
// register UX where doubling the order doubles the addons.
func rescaleAddons(addons types.AddonSelections, oldQty, newQty int) {
	if oldQty <= 0 || oldQty == newQty {
		return
	}
	ratio := float64(newQty) / float64(oldQty)
	for i := range addons {
		scaled := int(math.Round(float64(addons[i].Quantity) * ratio))
		if scaled < 0 {
			scaled = 0
		}
		addons[i].Quantity = scaled
	}
}

func dropEmptyAddons(addons []types.AddonSelection) []types.AddonSelection {
	filtered := make([]types.AddonSelection, 0, len(addons))
	for _, addon := range addons {
		if addon.Quantity > 0 {
			filtered = append(filtered, addon)
		}
	}
	return filtered
}
