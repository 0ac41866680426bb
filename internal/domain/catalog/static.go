// internal/domain/catalog/static.go
package catalog

// Catalog is a read-only in-memory data set. Accessors return copies.
type Catalog struct {
	stores []StoreAvailability
	items  []Item
}

func New(stores []StoreAvailability, items []Item) *Catalog {
	return &Catalog{
		stores: append([]StoreAvailability(nil), stores...),
		items:  append([]Item(nil), items...),
	}
}

// Default returns the hard-coded catalog served by the API.
func Default() *Catalog {
	return New(defaultStores, defaultItems)
}

func (c *Catalog) Stores() []StoreAvailability {
	return append([]StoreAvailability{}, c.stores...)
}

func (c *Catalog) Items() []Item {
	return append([]Item{}, c.items...)
}

// FindStore matches storeName exactly (case-sensitive).
func (c *Catalog) FindStore(storeName string) (StoreAvailability, error) {
	for _, s := range c.stores {
		if s.StoreName == storeName {
			return s, nil
		}
	}
	return StoreAvailability{}, ErrStoreNotFound
}

var defaultStores = []StoreAvailability{
	{StoreName: "Indomaret", AvailableCart: 6},
	{StoreName: "Alfamart", AvailableCart: 12},
}

var defaultItems = []Item{
	{
		Name:        "Delfi Milk",
		Category:    "Chocolate Drink",
		Description: "Minuman Coklat Susu yang disukai banyak orang",
		Picture:     "https://firebasestorage.googleapis.com/v0/b/magi-cart.appspot.com/o/IMG_0006.JPG?alt=media",
		Price:       2500,
	},
	{
		Name:        "Delfi Hot Cocoa",
		Category:    "Chocolate Drink",
		Description: "Minuman Coklat Delfi yang banyak digemari kaula muda",
		Picture:     "https://1.bp.blogspot.com/-weoe9mbU4HE/V8qguvOBRHI/AAAAAAAAAQk/jxEyovrdBFIWVJ1oU_stMX1HQdtVw5KpgCLcB/s320/20022628_2.jpg",
		Price:       2000,
	},
	{
		Name:        "Torabika Capucino",
		Category:    "Coffee",
		Description: "Kopi rasa Capucino khas Italia yang sudah terbukti",
		Picture:     "https://www.static-src.com/wcsstore/Indraprastha/images/catalog/full//97/MTA-1288816/torabika_torabika-cappuccino-choco-granule-12-s-x-25gr_full02.jpg",
		Price:       1500,
	},
	{
		Name:        "Bumbu Kentang Goreng",
		Category:    "Spice",
		Description: "Bumbu pelengkap sajian kentang goreng anda",
		Picture:     "https://www.bizzy.co.id/media/catalog/product/cache/image/700x560/e9c3970ab036de70892d86c6d221abfe/C/O/CONF-Ht41DgsqIX8A8ZcOGrBr.jpg",
		Price:       3500,
	},
	{
		Name:        "Kopi Kapal Api",
		Category:    "Coffee",
		Description: "Kopi kapal api yang banyak digemari oleh warga Indonesia",
		Picture:     "https://ecs7.tokopedia.net/img/product-1/2016/3/10/2785815/2785815_171a3108-70d6-49c7-af1e-77e242d09506.jpg",
		Price:       2500,
	},
}
