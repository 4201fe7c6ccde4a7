package invoice

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// vendorWindow is how many leading lines are searched for a vendor.
const vendorWindow = 10

// textRule captures one group from the first match of re.
type textRule struct {
	re    *regexp.Regexp
	group int
}

func (r textRule) find(s string) (string, bool) {
	m := r.re.FindStringSubmatch(s)
	if m == nil || m[r.group] == "" {
		return "", false
	}
	return m[r.group], true
}

var vendorRules = []textRule{
	{re: regexp.MustCompile(`(?i)\b(?:from|vendor|seller|sold by)\s*:\s*(.+)`), group: 1},
	{re: regexp.MustCompile(`^([A-Z][A-Za-z\s&]+(?:Inc|LLC|Ltd|Store|Shop))`), group: 1},
}

var dateRules = []textRule{
	{re: regexp.MustCompile(`(?i)(?:date|invoice date|purchase date)[:\s]+(\d{1,2}[-/]\d{1,2}[-/]\d{2,4})`), group: 1},
	{re: regexp.MustCompile(`(\d{1,2}[-/]\d{1,2}[-/]\d{2,4})`), group: 1},
}

var totalRules = []textRule{
	{re: regexp.MustCompile(`(?i)\b(?:grand total|total|amount due|balance)[:\s]*\$?\s*(\d+(?:,\d{3})*(?:\.\d{2})?)`), group: 1},
}

// Extractor infers purchases and items from invoice text. The zero value is
// ready to use and stamps undated invoices with the current date.
type Extractor struct {
	// Now returns the current time; nil means time.Now.
	Now func() time.Time
}

var defaultExtractor Extractor

// Extract runs the default Extractor on text.
func Extract(text string) (*Result, error) {
	return defaultExtractor.Extract(text)
}

// Extract parses text into a draft purchase and items. Fields that cannot be
// found keep their defaults; the call only fails on unusable input
// (ErrInvalidInput) or an internal failure (*ParseError).
func (e Extractor) Extract(text string) (res *Result, err error) {
	if text == "" || !utf8.ValidString(text) {
		return nil, ErrInvalidInput
	}

	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = &ParseError{Err: fmt.Errorf("%v", r)}
		}
	}()

	lines := splitLines(text)

	purchase, err := e.extractPurchase(lines, text)
	if err != nil {
		return nil, &ParseError{Err: err}
	}

	items, err := extractItems(lines)
	if err != nil {
		return nil, &ParseError{Err: err}
	}

	if len(items) > 0 && purchase.TotalCost.IsPositive() {
		items = Allocate(items, purchase.TotalCost)
	}

	return &Result{Purchase: purchase, Items: items}, nil
}

func (e Extractor) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

// splitLines returns the trimmed, non-empty lines of text.
func splitLines(text string) []string {
	var lines []string
	for _, l := range strings.Split(text, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

func (e Extractor) extractPurchase(lines []string, text string) (Purchase, error) {
	p := Purchase{
		Vendor:    findVendor(lines),
		Date:      findDate(text),
		TotalCost: decimal.Zero,
	}
	if p.Date == "" {
		p.Date = e.now().Format(DateFormat)
	}

	total, err := findTotal(text)
	if err != nil {
		return Purchase{}, err
	}
	p.TotalCost = total

	if p.Vendor != "" {
		p.Name = p.Vendor + " - " + p.Date
	} else {
		p.Name = "Purchase - " + p.Date
	}
	return p, nil
}

// findVendor tries each rule over the leading lines before moving to the next
// rule.
func findVendor(lines []string) string {
	head := lines
	if len(head) > vendorWindow {
		head = head[:vendorWindow]
	}
	for _, rule := range vendorRules {
		for _, line := range head {
			if v, ok := rule.find(line); ok {
				if v = strings.TrimSpace(v); v != "" {
					return v
				}
			}
		}
	}
	return ""
}

// findDate returns the first rule match that normalizes, or "".
func findDate(text string) string {
	for _, rule := range dateRules {
		raw, ok := rule.find(text)
		if !ok {
			continue
		}
		if d, ok := NormalizeDate(raw); ok {
			return d
		}
	}
	return ""
}

func findTotal(text string) (decimal.Decimal, error) {
	for _, rule := range totalRules {
		raw, ok := rule.find(text)
		if !ok {
			continue
		}
		amount, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", ""))
		if err != nil {
			return decimal.Zero, fmt.Errorf("parsing total %q: %w", raw, err)
		}
		return amount, nil
	}
	return decimal.Zero, nil
}
