package seed

import (
	"context"

	"keymarket/internal/model"

	"gorm.io/gorm"
)

// MissingProductIDs returns, in input order, the candidate ids that have no
// inventory row yet — the set difference the inventory seeder inserts.
func MissingProductIDs(candidates []uint, seeded []uint) []uint {
	have := make(map[uint]bool, len(seeded))
	for _, id := range seeded {
		have[id] = true
	}
	var missing []uint
	for _, id := range candidates {
		if !have[id] {
			missing = append(missing, id)
		}
	}
	return missing
}

// inventorySeeder creates one inventory row per default product that does
// not have one. Rerunning inserts nothing; Down deletes only the
// (product_id, location) pairs Up would have created for the current
// product set, leaving manually added inventory untouched.
func inventorySeeder() Seeder {
	return Seeder{
		Name: "default_inventory",
		Up: func(ctx context.Context, db *gorm.DB) error {
			byBarcode, err := defaultProductIDs(ctx, db)
			if err != nil {
				return err
			}

			candidates := make([]uint, 0, len(byBarcode))
			for _, d := range DefaultProducts {
				if id, ok := byBarcode[d.Barcode]; ok {
					candidates = append(candidates, id)
				}
			}

			var seeded []uint
			err = db.WithContext(ctx).Model(&model.Inventory{}).
				Where("product_id IN ?", candidates).
				Pluck("product_id", &seeded).Error
			if err != nil {
				return err
			}

			missing := make(map[uint]bool)
			for _, id := range MissingProductIDs(candidates, seeded) {
				missing[id] = true
			}

			for _, d := range DefaultProducts {
				id, ok := byBarcode[d.Barcode]
				if !ok || !missing[id] {
					continue
				}
				inv := model.Inventory{
					ProductID:   id,
					Quantity:    d.Quantity,
					Location:    d.Location,
					MinQuantity: d.MinQuantity,
				}
				if err := db.WithContext(ctx).Create(&inv).Error; err != nil {
					return err
				}
			}
			return nil
		},
		Down: func(ctx context.Context, db *gorm.DB) error {
			byBarcode, err := defaultProductIDs(ctx, db)
			if err != nil {
				return err
			}
			for _, d := range DefaultProducts {
				id, ok := byBarcode[d.Barcode]
				if !ok {
					continue
				}
				err := db.WithContext(ctx).
					Where("product_id = ? AND location = ?", id, d.Location).
					Delete(&model.Inventory{}).Error
				if err != nil {
					return err
				}
			}
			return nil
		},
	}
}

// defaultProductIDs resolves the default barcodes to product ids as they
// exist right now; products deleted since seeding simply drop out.
func defaultProductIDs(ctx context.Context, db *gorm.DB) (map[string]uint, error) {
	var rows []struct {
		ID      uint
		Barcode string
	}
	err := db.WithContext(ctx).Model(&model.Product{}).
		Where("barcode IN ?", defaultBarcodes()).
		Select("id", "barcode").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]uint, len(rows))
	for _, r := range rows {
		out[r.Barcode] = r.ID
	}
	return out, nil
}
