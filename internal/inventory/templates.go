package inventory

import (
	"strings"

	"github.com/resale-dev/resale/internal/model"
)

// ListingDescription drafts marketplace copy from an item's fields, leaving
// placeholders for the parts only the seller can write.
func ListingDescription(it model.Item) string {
	var parts []string
	if it.Name != "" {
		parts = append(parts, it.Name)
	}
	if it.Brand != "" {
		parts = append(parts, "\n\nBrand: "+it.Brand)
	}
	if it.Category != "" {
		parts = append(parts, "Category: "+it.Category)
	}
	if it.Size != "" {
		parts = append(parts, "Size: "+it.Size)
	}
	parts = append(parts,
		"\n\nDescription:", "[Add detailed description here]",
		"\n\nCondition:", "[See condition report for details]",
		"\n\nShipping:", "[Add shipping information]",
		"\n\nReturns:", "[Add return policy]",
	)
	return strings.Join(parts, "\n")
}

// ConditionReport is the blank condition checklist attached to new listings.
const ConditionReport = `CONDITION REPORT

Overall Condition:
[ ] New with tags
[ ] New without tags
[ ] Excellent - minimal wear
[ ] Good - light wear
[ ] Fair - moderate wear
[ ] Poor - significant wear

Material & Construction:
- Material type:
- Quality:
- Construction notes:

Wear & Damage:
- Visible wear:
- Stains/marks:
- Holes/tears:
- Fading:
- Pilling:

Hardware & Closures:
- Zippers:
- Buttons:
- Snaps:
- Other hardware:

Odors:
[ ] None
[ ] Light musty smell
[ ] Smoke smell
[ ] Other:

Measurements:
(Add relevant measurements)

Additional Notes:
`
