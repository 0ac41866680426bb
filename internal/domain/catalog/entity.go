// internal/domain/catalog/entity.go
package catalog

import "errors"

var (
	ErrStoreNotFound = errors.New("catalog: store not found")
)

// StoreAvailability is the number of carts available at a store.
type StoreAvailability struct {
	StoreName     string `json:"storeName"`
	AvailableCart int    `json:"availableCart"`
}

// Item is a product shown in the cart's catalog.
type Item struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Picture     string `json:"picture"`
	Price       int    `json:"price"`
}
