package shopify

import (
	"fmt"
	"sort"

	"shopopti/internal/models"
)

// maxOptions is Shopify's hard limit on named product options.
// Attribute names beyond the third dimension are dropped, not rejected.
const maxOptions = 3

// BuildProduct maps a normalized product into the Admin API creation
// payload: name→title, description→body_html, category→product_type.
func BuildProduct(p *models.CommonProduct) *Product {
	product := &Product{
		Title:       p.Name,
		BodyHTML:    p.Description,
		ProductType: p.Category,
		Status:      "active",
	}

	for _, src := range p.Images {
		product.Images = append(product.Images, Image{Src: src})
	}

	if len(p.Variants) == 0 {
		product.Variants = []Variant{{
			Price:             fmt.Sprintf("%.2f", p.Price),
			Sku:               p.SKU,
			InventoryQuantity: p.Stock,
		}}
		return product
	}

	optionNames := optionNames(p.Variants)
	for i, name := range optionNames {
		product.Options = append(product.Options, Option{
			Name:     name,
			Position: i + 1,
			Values:   optionValues(p.Variants, name),
		})
	}

	for i, v := range p.Variants {
		variant := Variant{
			Price:             fmt.Sprintf("%.2f", v.Price),
			Sku:               v.SKU,
			Position:          i + 1,
			InventoryQuantity: v.Stock,
		}
		slots := []**string{&variant.Option1, &variant.Option2, &variant.Option3}
		for j, name := range optionNames {
			if value, ok := v.Attributes[name]; ok {
				val := value
				*slots[j] = &val
			}
		}
		product.Variants = append(product.Variants, variant)
	}

	return product
}

// optionNames collects the distinct attribute names across all variants
// in first-seen order and caps them at Shopify's limit of three.
func optionNames(variants []models.CommonVariant) []string {
	seen := make(map[string]bool)
	var names []string
	for _, v := range variants {
		keys := make([]string, 0, len(v.Attributes))
		for k := range v.Attributes {
			keys = append(keys, k)
		}
		// Map iteration order is random; keep the derivation stable
		sort.Strings(keys)
		for _, k := range keys {
			if !seen[k] {
				seen[k] = true
				names = append(names, k)
			}
		}
	}
	if len(names) > maxOptions {
		names = names[:maxOptions]
	}
	return names
}

func optionValues(variants []models.CommonVariant, name string) []string {
	seen := make(map[string]bool)
	var values []string
	for _, v := range variants {
		if value, ok := v.Attributes[name]; ok && !seen[value] {
			seen[value] = true
			values = append(values, value)
		}
	}
	return values
}
