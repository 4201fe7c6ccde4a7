package invoice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnrichSize(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Cotton Tee XXL", "XXL"},
		{"Cotton Tee xs", "xs"},
		{"Levi's Denim Jacket Medium", "Medium"},
		{"Olive Oil 16 oz", "16"},
		{"Protein 2.5kg", "2.5"},
		{"Running Shoes Size 10", "10"},
		{"Boots sz: 8W", "8W"},
		{"Size 9 Heels M", "M"},
		{"Plain Mug", ""},
		{"T-Shirt", ""},
	}
	for _, tt := range tests {
		item := Item{Name: tt.name}
		enrichSize(&item)
		assert.Equal(t, tt.want, item.Size, "size of %q", tt.name)
	}
}

func TestEnrichSize_KeepsExisting(t *testing.T) {
	item := Item{Name: "Tee XL", Size: "Kids 6"}
	enrichSize(&item)
	assert.Equal(t, "Kids 6", item.Size)
}

func TestEnrichBrand(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"nike running shorts", "Nike"},
		{"Vintage LOUIS VUITTON Purse", "Louis Vuitton"},
		{"H&M Knit Sweater", "H&M"},
		{"Puma Adidas Combo", "Adidas"},
		{"Nikes Sneakers", ""},
		{"Zarate Lamp", ""},
	}
	for _, tt := range tests {
		item := Item{Name: tt.name}
		enrichBrand(&item)
		assert.Equal(t, tt.want, item.Brand, "brand of %q", tt.name)
	}
}

func TestEnrichCategory(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Wool Coat", "Clothing"},
		{"Leather Boots", "Shoes"},
		{"Canvas Bag", "Accessories"},
		{"Old Camera", "Electronics"},
		{"Table Lamp", "Home"},
		{"Dress Shoes", "Clothing"},
		{"Phone Wallet", "Accessories"},
		{"Shirts", ""},
		{"Artwork", ""},
	}
	for _, tt := range tests {
		item := Item{Name: tt.name}
		enrichCategory(&item)
		assert.Equal(t, tt.want, item.Category, "category of %q", tt.name)
	}
}

func TestCategoryNames(t *testing.T) {
	assert.Equal(t, []string{"Clothing", "Shoes", "Accessories", "Electronics", "Home"}, CategoryNames())
}
