package invoice

import (
	"regexp"
	"strings"
)

// Size tokens are delimited by anything but a letter, digit, underscore or
// apostrophe, so "Levi's" is not read as size S.
const (
	tokenStart = `(?:^|[^\w'])`
	tokenEnd   = `(?:$|[^\w'])`
)

// sizeRules are tried in order against the item name.
var sizeRules = []textRule{
	{re: regexp.MustCompile(`(?i)` + tokenStart + `(XXS|XS|S|M|L|XL|XXL|XXXL)` + tokenEnd), group: 1},
	{re: regexp.MustCompile(`(?i)` + tokenStart + `(Small|Medium|Large)` + tokenEnd), group: 1},
	{re: regexp.MustCompile(`(?i)` + tokenStart + `(\d+(?:\.\d+)?)\s*(?:oz|lb|kg|g|ml|L)` + tokenEnd), group: 1},
	{re: regexp.MustCompile(`(?i)` + tokenStart + `(?:Size|sz)[:\s]+(\d+[A-Z]?)` + tokenEnd), group: 1},
}

// brands are recognized in item names, in match order.
var brands = []string{"Nike", "Adidas", "Puma", "Gucci", "Prada", "Louis Vuitton", "Chanel", "Zara", "H&M"}

type categoryKeywords struct {
	Category string
	Keywords []string
}

// categories is the ordered keyword table used to infer an item's category.
var categories = []categoryKeywords{
	{Category: "Clothing", Keywords: []string{"shirt", "pants", "dress", "jacket", "coat", "sweater", "jeans", "shorts"}},
	{Category: "Shoes", Keywords: []string{"shoes", "boots", "sneakers", "sandals", "heels"}},
	{Category: "Accessories", Keywords: []string{"bag", "purse", "wallet", "belt", "scarf", "hat"}},
	{Category: "Electronics", Keywords: []string{"phone", "laptop", "tablet", "camera", "headphones"}},
	{Category: "Home", Keywords: []string{"lamp", "chair", "table", "decor", "art"}},
}

// keywordRule yields value when re matches.
type keywordRule struct {
	re    *regexp.Regexp
	value string
}

var (
	brandRules    = newBrandRules(brands)
	categoryRules = newCategoryRules(categories)
)

// CategoryNames returns the inferable categories in match order.
func CategoryNames() []string {
	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = c.Category
	}
	return names
}

func wholeWord(word string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(word) + `\b`)
}

func newBrandRules(brands []string) []keywordRule {
	rules := make([]keywordRule, len(brands))
	for i, b := range brands {
		rules[i] = keywordRule{re: wholeWord(b), value: b}
	}
	return rules
}

// newCategoryRules flattens the table so that category order, then keyword
// order, decides ties.
func newCategoryRules(table []categoryKeywords) []keywordRule {
	var rules []keywordRule
	for _, c := range table {
		for _, kw := range c.Keywords {
			rules = append(rules, keywordRule{re: wholeWord(kw), value: c.Category})
		}
	}
	return rules
}

func firstKeyword(rules []keywordRule, s string) string {
	for _, r := range rules {
		if r.re.MatchString(s) {
			return r.value
		}
	}
	return ""
}

func enrichSize(item *Item) {
	if item.Size != "" {
		return
	}
	for _, rule := range sizeRules {
		if v, ok := rule.find(item.Name); ok {
			item.Size = strings.TrimSpace(v)
			return
		}
	}
}

func enrichBrand(item *Item) {
	if item.Brand == "" {
		item.Brand = firstKeyword(brandRules, item.Name)
	}
}

func enrichCategory(item *Item) {
	if item.Category == "" {
		item.Category = firstKeyword(categoryRules, item.Name)
	}
}
