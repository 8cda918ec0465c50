package cart

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/matheusmosca/eshop-storefront/api"
)

// Line is one cart entry: a product snapshot plus the selected quantity.
// The stock value is the one captured when the product was added, the service
// is the final arbiter at checkout.
type Line struct {
	ID       string          `json:"_id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Stock    int             `json:"stock"`
	Quantity int             `json:"quantity"`
}

// Subtotal returns price multiplied by quantity.
func (l Line) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart maps product ids to lines. Keys are unique and display order is
// insertion order. The JSON form is a plain object keyed by product id, the
// same shape the original storefront kept in browser storage, and the key
// order survives a marshal/unmarshal round trip.
type Cart struct {
	lines []Line
	index map[string]int
}

// NewCart returns an empty cart.
func NewCart() *Cart {
	return &Cart{index: map[string]int{}}
}

// Len returns the number of lines.
func (c *Cart) Len() int { return len(c.lines) }

// Get returns the line for a product id.
func (c *Cart) Get(productID string) (Line, bool) {
	idx, ok := c.index[productID]
	if !ok {
		return Line{}, false
	}
	return c.lines[idx], true
}

// Lines returns the lines in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Total sums price times quantity over all lines.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.lines {
		total = total.Add(line.Subtotal())
	}
	return total
}

// put inserts or replaces a line, keeping insertion order for existing keys.
func (c *Cart) put(line Line) {
	if idx, ok := c.index[line.ID]; ok {
		c.lines[idx] = line
		return
	}
	c.index[line.ID] = len(c.lines)
	c.lines = append(c.lines, line)
}

// remove deletes a line and reindexes the tail.
func (c *Cart) remove(productID string) {
	idx, ok := c.index[productID]
	if !ok {
		return
	}
	c.lines = append(c.lines[:idx], c.lines[idx+1:]...)
	delete(c.index, productID)
	for i := idx; i < len(c.lines); i++ {
		c.index[c.lines[i].ID] = i
	}
}

// clampToStock re-applies the quantity bounds to every line: quantities above
// the snapshot stock are clamped, lines with zero stock or zero quantity are
// dropped. Returns true when anything was adjusted.
func (c *Cart) clampToStock() bool {
	changed := false
	for _, line := range c.Lines() {
		switch {
		case line.Stock <= 0 || line.Quantity <= 0:
			c.remove(line.ID)
			changed = true
		case line.Quantity > line.Stock:
			line.Quantity = line.Stock
			c.put(line)
			changed = true
		}
	}
	return changed
}

// reset empties the cart.
func (c *Cart) reset() {
	c.lines = nil
	c.index = map[string]int{}
}

// snapshotRefs projects the cart into an order creation request body.
func (c *Cart) snapshotRefs() []api.OrderProductRef {
	refs := make([]api.OrderProductRef, 0, len(c.lines))
	for _, line := range c.lines {
		refs = append(refs, api.OrderProductRef{ID: line.ID, Quantity: line.Quantity})
	}
	return refs
}

// MarshalJSON writes the cart as an object keyed by product id, keys in
// insertion order.
func (c *Cart) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, line := range c.lines {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(line.ID)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(line)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads the object form, preserving the key order of the
// serialized record.
func (c *Cart) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("cart record must be a JSON object")
	}

	c.reset()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("cart record has a non-string key")
		}

		var line Line
		if err := dec.Decode(&line); err != nil {
			return err
		}
		line.ID = key
		c.put(line)
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}
