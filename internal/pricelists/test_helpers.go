package pricelist

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pricebookhq/pricebook-backend/pkg/db/models"
	"github.com/pricebookhq/pricebook-backend/pkg/enums"
	"github.com/pricebookhq/pricebook-backend/pkg/id"
)

func mustCreateTestGroup(t *testing.T, db *gorm.DB, name string) *models.CustomerGroup {
	t.Helper()
	group := &models.CustomerGroup{
		Name: fmt.Sprintf("%s-%s", name, id.New("tg")),
	}
	if err := db.Create(group).Error; err != nil {
		t.Fatalf("create customer group: %v", err)
	}
	return group
}

func mustCreateTestList(t *testing.T, db *gorm.DB, name string) *models.PriceList {
	t.Helper()
	list := &models.PriceList{
		Name:   name,
		Type:   enums.PriceListTypeSale,
		Status: enums.PriceListStatusActive,
	}
	if err := db.Omit("Prices", "CustomerGroups").Create(list).Error; err != nil {
		t.Fatalf("create price list: %v", err)
	}
	return list
}

func mustAddTestPrice(t *testing.T, db *gorm.DB, listID, currency string, amount int64) *models.PriceEntry {
	t.Helper()
	entry := &models.PriceEntry{
		PriceListID:  listID,
		CurrencyCode: enums.Currency(currency),
		Amount:       decimal.NewFromInt(amount),
	}
	if err := db.Create(entry).Error; err != nil {
		t.Fatalf("create price entry: %v", err)
	}
	return entry
}

func countPricesFor(t *testing.T, db *gorm.DB, listID string) int64 {
	t.Helper()
	var total int64
	if err := db.Model(&models.PriceEntry{}).Where("price_list_id = ?", listID).Count(&total).Error; err != nil {
		t.Fatalf("count price entries: %v", err)
	}
	return total
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }
