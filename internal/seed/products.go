package seed

import (
	"context"

	"keymarket/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// defaultProduct pairs a catalog entry with the inventory row the inventory
// seeder creates for it. Barcode is the natural key for both seeders.
type defaultProduct struct {
	Name        string
	Barcode     string
	Category    string
	Price       string
	Cost        string
	Quantity    int
	Location    string
	MinQuantity int
}

// DefaultProducts is the baseline catalog for a fresh store.
var DefaultProducts = []defaultProduct{
	{Name: "Rice", Barcode: "6210000000017", Category: "grains", Price: "4.50", Cost: "3.20", Quantity: 120, Location: "A1", MinQuantity: 30},
	{Name: "Milk", Barcode: "6210000000024", Category: "dairy", Price: "1.80", Cost: "1.20", Quantity: 80, Location: "A2", MinQuantity: 20},
	{Name: "Bread", Barcode: "6210000000031", Category: "bakery", Price: "0.90", Cost: "0.55", Quantity: 60, Location: "B1", MinQuantity: 15},
	{Name: "Eggs", Barcode: "6210000000048", Category: "dairy", Price: "3.20", Cost: "2.40", Quantity: 100, Location: "B2", MinQuantity: 25},
	{Name: "Chicken", Barcode: "6210000000055", Category: "meat", Price: "7.90", Cost: "6.10", Quantity: 40, Location: "C1", MinQuantity: 10},
}

func defaultBarcodes() []string {
	codes := make([]string, len(DefaultProducts))
	for i, p := range DefaultProducts {
		codes[i] = p.Barcode
	}
	return codes
}

// productsSeeder inserts the default products that are not present yet,
// keyed by barcode. Down removes only products with those barcodes.
func productsSeeder() Seeder {
	return Seeder{
		Name: "default_products",
		Up: func(ctx context.Context, db *gorm.DB) error {
			var existing []string
			err := db.WithContext(ctx).Model(&model.Product{}).
				Where("barcode IN ?", defaultBarcodes()).
				Pluck("barcode", &existing).Error
			if err != nil {
				return err
			}
			present := make(map[string]bool, len(existing))
			for _, b := range existing {
				present[b] = true
			}

			for _, d := range DefaultProducts {
				if present[d.Barcode] {
					continue
				}
				price, err := decimal.NewFromString(d.Price)
				if err != nil {
					return err
				}
				cost, err := decimal.NewFromString(d.Cost)
				if err != nil {
					return err
				}
				p := model.Product{
					Name:     d.Name,
					Barcode:  d.Barcode,
					Category: d.Category,
					Price:    price,
					Cost:     &cost,
					IsOnline: true,
				}
				if err := db.WithContext(ctx).Create(&p).Error; err != nil {
					return err
				}
			}
			return nil
		},
		Down: func(ctx context.Context, db *gorm.DB) error {
			return db.WithContext(ctx).
				Where("barcode IN ?", defaultBarcodes()).
				Delete(&model.Product{}).Error
		},
	}
}
