package shopify

// Product is the Shopify Admin API product-creation shape, request and
// response side.
type Product struct {
	ID          int64     `json:"id,omitempty"`
	Title       string    `json:"title"`
	BodyHTML    string    `json:"body_html"`
	Vendor      string    `json:"vendor,omitempty"`
	ProductType string    `json:"product_type,omitempty"`
	Status      string    `json:"status,omitempty"`
	Tags        string    `json:"tags,omitempty"`
	Variants    []Variant `json:"variants,omitempty"`
	Images      []Image   `json:"images,omitempty"`
	Options     []Option  `json:"options,omitempty"`
}

type Variant struct {
	ID                int64   `json:"id,omitempty"`
	Title             string  `json:"title,omitempty"`
	Price             string  `json:"price"`
	Sku               string  `json:"sku,omitempty"`
	Position          int     `json:"position,omitempty"`
	InventoryQuantity int     `json:"inventory_quantity,omitempty"`
	Option1           *string `json:"option1,omitempty"`
	Option2           *string `json:"option2,omitempty"`
	Option3           *string `json:"option3,omitempty"`
}

type Image struct {
	ID  int64  `json:"id,omitempty"`
	Src string `json:"src"`
}

type Option struct {
	Name     string   `json:"name"`
	Position int      `json:"position,omitempty"`
	Values   []string `json:"values,omitempty"`
}

type productEnvelope struct {
	Product Product `json:"product"`
}
