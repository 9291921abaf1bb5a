package migration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAll_SortedAndComplete(t *testing.T) {
	all := All()
	require.NotEmpty(t, all)

	seen := make(map[int64]bool)
	var prev int64
	for _, m := range all {
		assert.Greater(t, m.Version, prev, "versions must ascend")
		assert.False(t, seen[m.Version], "version %d registered twice", m.Version)
		seen[m.Version] = true
		prev = m.Version

		assert.NotEmpty(t, m.Name)
		assert.NotNil(t, m.Up, "%s has no up", m.Name)
		assert.NotNil(t, m.Down, "%s has no down", m.Name)
	}
}

func TestAll_LossyMigrationsAreMarked(t *testing.T) {
	lossy := map[string]bool{}
	for _, m := range All() {
		if m.Lossy {
			lossy[m.Name] = true
		}
	}
	// The product_id type fix deletes rows it cannot map and the login
	// NOT NULL drop cannot be restored once null rows exist.
	assert.True(t, lossy["fix_sale_items_product_id_type"])
	assert.True(t, lossy["alter_login_history_user_id_nullable"])
	assert.Len(t, lossy, 2)
}

func TestRegister_PanicsOnDuplicateVersion(t *testing.T) {
	m := All()[0]
	assert.Panics(t, func() { register(m) })
}

func TestRegister_PanicsOnMissingSide(t *testing.T) {
	assert.Panics(t, func() {
		register(Migration{Version: 1, Name: "broken", Up: nil, Down: nil})
	})
}
