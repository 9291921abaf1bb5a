package model

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

// RefKind enumerates the entities a polymorphic reference may point at.
type RefKind string

const (
	RefProduct   RefKind = "product"
	RefSale      RefKind = "sale"
	RefInventory RefKind = "inventory"
	RefUser      RefKind = "user"
)

// Reference is the typed replacement for the loose (reference_id,
// reference_type) column pairs on InventoryTransaction and Notification.
// Constructing one through the typed helpers guarantees Kind and ID agree;
// the raw columns only appear at the storage boundary.
type Reference struct {
	Kind RefKind
	ID   string
}

func ProductRef(id uint) *Reference {
	return &Reference{Kind: RefProduct, ID: strconv.FormatUint(uint64(id), 10)}
}

func SaleRef(id uuid.UUID) *Reference {
	return &Reference{Kind: RefSale, ID: id.String()}
}

func InventoryRef(id uint) *Reference {
	return &Reference{Kind: RefInventory, ID: strconv.FormatUint(uint64(id), 10)}
}

func UserRef(id uint) *Reference {
	return &Reference{Kind: RefUser, ID: strconv.FormatUint(uint64(id), 10)}
}

// Columns flattens the reference into the nullable storage pair.
// A nil reference maps to (NULL, NULL).
func (r *Reference) Columns() (id *string, kind *string) {
	if r == nil {
		return nil, nil
	}
	k := string(r.Kind)
	i := r.ID
	return &i, &k
}

// RefFromColumns rebuilds a typed reference from the storage pair. Both
// columns NULL yields nil; a half-set pair or unknown kind is an error so
// corrupt rows surface instead of round-tripping silently.
func RefFromColumns(id, kind *string) (*Reference, error) {
	if id == nil && kind == nil {
		return nil, nil
	}
	if id == nil || kind == nil {
		return nil, fmt.Errorf("reference: half-set column pair (id=%v, kind=%v)", id, kind)
	}
	k := RefKind(*kind)
	switch k {
	case RefProduct, RefInventory, RefUser:
		if _, err := strconv.ParseUint(*id, 10, 64); err != nil {
			return nil, fmt.Errorf("reference: %s id %q is not an integer", k, *id)
		}
	case RefSale:
		if _, err := uuid.Parse(*id); err != nil {
			return nil, fmt.Errorf("reference: sale id %q is not a uuid", *id)
		}
	default:
		return nil, fmt.Errorf("reference: unknown kind %q", *kind)
	}
	return &Reference{Kind: k, ID: *id}, nil
}

// UintID returns the integer id of a product/inventory/user reference.
func (r *Reference) UintID() (uint, error) {
	v, err := strconv.ParseUint(r.ID, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("reference: %s id %q is not an integer", r.Kind, r.ID)
	}
	return uint(v), nil
}

// SaleID returns the uuid of a sale reference.
func (r *Reference) SaleID() (uuid.UUID, error) {
	if r.Kind != RefSale {
		return uuid.Nil, fmt.Errorf("reference: kind %q is not a sale", r.Kind)
	}
	return uuid.Parse(r.ID)
}
