package invoice

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// MaxQuantity bounds the item count a single "<qty> x <name>" line may expand to.
const MaxQuantity = 500

// minLineLen is the shortest line considered for an item.
const minLineLen = 3

// skipLine matches header, total and metadata lines.
var skipLine = regexp.MustCompile(`(?i)invoice|receipt|total|subtotal|tax|shipping|date|from|vendor`)

// qtyPrefix marks a "<qty> x " line, which never has the single-price shape.
var qtyPrefix = regexp.MustCompile(`^\d+\s*[xX]\s`)

var (
	priceLine = regexp.MustCompile(`^(.+?)\s+\$?\s*(\d+(?:\.\d{2})?)$`)
	qtyLine   = regexp.MustCompile(`^(\d+)\s*[xX]\s+(.+?)\s+[-–]\s*\$?\s*(\d+(?:\.\d{2})?)$`)
	pipeLine  = regexp.MustCompile(`^(.+?)\s*\|\s*(.+?)\s*\|\s*(.+?)\s*\|\s*\$?\s*(\d+(?:\.\d{2})?)$`)
)

// lineShape turns one matching line into items. ok is false when the line
// does not have this shape.
type lineShape struct {
	name  string
	parse func(line string) (items []Item, ok bool, err error)
}

// lineShapes are tried in order; the first shape that matches wins.
var lineShapes = []lineShape{
	{name: "price", parse: parsePriceLine},
	{name: "quantity", parse: parseQuantityLine},
	{name: "columns", parse: parseColumnsLine},
}

func extractItems(lines []string) ([]Item, error) {
	var items []Item
	for _, line := range lines {
		if len(line) < minLineLen || skipLine.MatchString(line) {
			continue
		}
		for _, shape := range lineShapes {
			found, ok, err := shape.parse(line)
			if err != nil {
				return nil, fmt.Errorf("%s line %q: %w", shape.name, line, err)
			}
			if ok {
				items = append(items, found...)
				break
			}
		}
	}
	return items, nil
}

// parsePriceLine handles "<name> $<price>". Lines starting with a quantity
// or laid out in columns belong to the other shapes.
func parsePriceLine(line string) ([]Item, bool, error) {
	if qtyPrefix.MatchString(line) || pipeLine.MatchString(line) {
		return nil, false, nil
	}
	m := priceLine.FindStringSubmatch(line)
	if m == nil {
		return nil, false, nil
	}
	name := trimName(m[1])
	if name == "" {
		return nil, false, nil
	}
	price, err := parsePrice(m[2])
	if err != nil {
		return nil, false, err
	}
	item := newItem(name, price)
	enrichCategory(&item)
	enrichBrand(&item)
	enrichSize(&item)
	return []Item{item}, true, nil
}

// parseQuantityLine handles "<qty> x <name> - $<price>", splitting the price
// evenly over qty identical items.
func parseQuantityLine(line string) ([]Item, bool, error) {
	m := qtyLine.FindStringSubmatch(line)
	if m == nil {
		return nil, false, nil
	}
	qty, err := strconv.Atoi(m[1])
	if err != nil {
		return nil, false, fmt.Errorf("parsing quantity %q: %w", m[1], err)
	}
	name := strings.TrimSpace(m[2])
	if qty < 1 || qty > MaxQuantity || name == "" {
		return nil, true, nil
	}
	price, err := parsePrice(m[3])
	if err != nil {
		return nil, false, err
	}

	each := price.Div(decimal.NewFromInt(int64(qty)))
	proto := newItem(name, each)
	enrichCategory(&proto)
	enrichBrand(&proto)
	enrichSize(&proto)

	items := make([]Item, qty)
	for i := range items {
		items[i] = proto
	}
	return items, true, nil
}

// parseColumnsLine handles "<name> | <category> | <brand> | $<price>". The
// category and brand columns are kept verbatim; only size is inferred.
func parseColumnsLine(line string) ([]Item, bool, error) {
	m := pipeLine.FindStringSubmatch(line)
	if m == nil {
		return nil, false, nil
	}
	name := strings.TrimSpace(m[1])
	if name == "" {
		return nil, false, nil
	}
	price, err := parsePrice(m[4])
	if err != nil {
		return nil, false, err
	}
	item := newItem(name, price)
	item.Category = strings.TrimSpace(m[2])
	item.Brand = strings.TrimSpace(m[3])
	enrichSize(&item)
	return []Item{item}, true, nil
}

func newItem(name string, cost decimal.Decimal) Item {
	return Item{
		Name:          name,
		AllocatedCost: cost,
		Status:        StatusUnlisted,
	}
}

func parsePrice(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing price %q: %w", s, err)
	}
	return d, nil
}

// trimName drops a dangling separator left between a name and its price,
// as in "Wool Scarf - $12.00".
func trimName(s string) string {
	return strings.TrimSpace(strings.TrimRight(s, " \t-–:"))
}
