package models

// CatalogItem is a dress offered in the shop
type CatalogItem struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Price       int    `json:"price"` // whole rupees
	Description string `json:"description"`
	ImageRef    string `json:"imageRef"`
}

var catalog = []CatalogItem{
	{ID: "dress1", Title: "Silk Anarkali", Price: 4999, Description: "Floor-length silk anarkali with zari border", ImageRef: "/images/dress1.jpg"},
	{ID: "dress2", Title: "Cotton Kurti", Price: 1299, Description: "Block-printed cotton kurti for everyday wear", ImageRef: "/images/dress2.jpg"},
	{ID: "dress3", Title: "Lehenga Choli", Price: 8999, Description: "Embroidered georgette lehenga with dupatta", ImageRef: "/images/dress3.jpg"},
	{ID: "dress4", Title: "Chiffon Saree", Price: 3499, Description: "Lightweight chiffon saree with sequin work", ImageRef: "/images/dress4.jpg"},
	{ID: "dress5", Title: "Party Gown", Price: 5999, Description: "Net gown with flared skirt", ImageRef: "/images/dress5.jpg"},
}

// Catalog returns a copy of the fixed catalog
func Catalog() []CatalogItem {
	out := make([]CatalogItem, len(catalog))
	copy(out, catalog)
	return out
}

// FindCatalogItem looks up a catalog item by id
func FindCatalogItem(id string) (CatalogItem, bool) {
	for _, item := range catalog {
		if item.ID == id {
			return item, true
		}
	}
	return CatalogItem{}, false
}
