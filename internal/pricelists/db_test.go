package pricelist

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupPriceListTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	customerGroups := `
CREATE TABLE IF NOT EXISTS customer_groups (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  metadata TEXT,
  created_at DATETIME,
  updated_at DATETIME,
  deleted_at DATETIME
);`
	priceLists := `
CREATE TABLE IF NOT EXISTS price_lists (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  type TEXT NOT NULL DEFAULT 'sale',
  status TEXT NOT NULL DEFAULT 'draft',
  starts_at DATETIME,
  ends_at DATETIME,
  metadata TEXT,
  created_at DATETIME,
  updated_at DATETIME,
  deleted_at DATETIME
);`
	priceEntries := `
CREATE TABLE IF NOT EXISTS price_entries (
  id TEXT PRIMARY KEY,
  price_list_id TEXT NOT NULL,
  currency_code TEXT NOT NULL,
  amount NUMERIC NOT NULL,
  customer_group_id TEXT,
  min_quantity INTEGER,
  max_quantity INTEGER,
  created_at DATETIME,
  updated_at DATETIME
);`
	associations := `
CREATE TABLE IF NOT EXISTS price_list_customer_groups (
  price_list_id TEXT NOT NULL,
  customer_group_id TEXT NOT NULL,
  PRIMARY KEY (price_list_id, customer_group_id)
);`
	require.NoError(t, db.Exec(customerGroups).Error)
	require.NoError(t, db.Exec(priceLists).Error)
	require.NoError(t, db.Exec(priceEntries).Error)
	require.NoError(t, db.Exec(associations).Error)
	return db
}
