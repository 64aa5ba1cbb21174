package pricelist

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pricebookhq/pricebook-backend/pkg/db/models"
	"github.com/pricebookhq/pricebook-backend/pkg/enums"
	"github.com/pricebookhq/pricebook-backend/pkg/pagination"
)

func TestRepositoryFindByID_loadsAllPriceRecords(t *testing.T) {
	db := setupPriceListTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	list := mustCreateTestList(t, db, "find-by-id-prices")
	for i := 0; i < 5; i++ {
		mustAddTestPrice(t, db, list.ID, "usd", int64(1000+i))
	}

	loaded, err := repo.FindByID(ctx, list.ID, RetrieveConfig{Relations: []string{RelationPrices}})
	require.NoError(t, err)
	assert.Len(t, loaded.Prices, 5)
	for _, entry := range loaded.Prices {
		assert.Equal(t, list.ID, entry.PriceListID)
	}
}

func TestRepositoryFindByID_missingRow(t *testing.T) {
	db := setupPriceListTestDB(t)
	repo := NewRepository(db)

	_, err := repo.FindByID(context.Background(), "pl_does_not_exist", RetrieveConfig{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestRepositoryAddPrices_replaceSwapsRecordSet(t *testing.T) {
	db := setupPriceListTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	list := mustCreateTestList(t, db, "replace-swap")
	mustAddTestPrice(t, db, list.ID, "usd", 500)
	mustAddTestPrice(t, db, list.ID, "eur", 450)

	incoming := []models.PriceEntry{
		{CurrencyCode: enums.CurrencyGBP, Amount: decimal.NewFromInt(700)},
	}
	require.NoError(t, repo.AddPrices(ctx, list.ID, incoming, true))

	loaded, err := repo.FindByID(ctx, list.ID, RetrieveConfig{Relations: []string{RelationPrices}})
	require.NoError(t, err)
	require.Len(t, loaded.Prices, 1)
	assert.Equal(t, enums.CurrencyGBP, loaded.Prices[0].CurrencyCode)

	// repeating the identical replace call leaves the same logical state
	again := []models.PriceEntry{
		{CurrencyCode: enums.CurrencyGBP, Amount: decimal.NewFromInt(700)},
	}
	require.NoError(t, repo.AddPrices(ctx, list.ID, again, true))

	reloaded, err := repo.FindByID(ctx, list.ID, RetrieveConfig{Relations: []string{RelationPrices}})
	require.NoError(t, err)
	require.Len(t, reloaded.Prices, 1)
	assert.Equal(t, enums.CurrencyGBP, reloaded.Prices[0].CurrencyCode)
	assert.True(t, reloaded.Prices[0].Amount.Equal(decimal.NewFromInt(700)))
}

func TestRepositoryAddPrices_appendKeepsExistingRecords(t *testing.T) {
	db := setupPriceListTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	list := mustCreateTestList(t, db, "append-union")
	mustAddTestPrice(t, db, list.ID, "usd", 500)

	incoming := []models.PriceEntry{
		{CurrencyCode: enums.CurrencyEUR, Amount: decimal.NewFromInt(450)},
		{CurrencyCode: enums.CurrencyCAD, Amount: decimal.NewFromInt(650)},
	}
	require.NoError(t, repo.AddPrices(ctx, list.ID, incoming, false))

	assert.EqualValues(t, 3, countPricesFor(t, db, list.ID))
}

func TestRepositoryUpsertPrices_mergesByNaturalKey(t *testing.T) {
	db := setupPriceListTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	list := mustCreateTestList(t, db, "upsert-merge")
	existing := mustAddTestPrice(t, db, list.ID, "usd", 1000)

	incoming := []models.PriceEntry{
		// same natural key: overwrites amount, keeps identity
		{CurrencyCode: enums.CurrencyUSD, Amount: decimal.NewFromInt(1250)},
		// new key: inserted
		{CurrencyCode: enums.CurrencyUSD, Amount: decimal.NewFromInt(900), MinQuantity: intPtr(10)},
	}
	require.NoError(t, repo.UpsertPrices(ctx, list.ID, incoming))

	loaded, err := repo.FindByID(ctx, list.ID, RetrieveConfig{Relations: []string{RelationPrices}})
	require.NoError(t, err)
	require.Len(t, loaded.Prices, 2)

	byID := map[string]models.PriceEntry{}
	for _, entry := range loaded.Prices {
		byID[entry.ID] = entry
	}
	merged, ok := byID[existing.ID]
	require.True(t, ok, "existing record should keep its id")
	assert.True(t, merged.Amount.Equal(decimal.NewFromInt(1250)))
}

func TestRepositoryDeletePrices_scopedToOwningList(t *testing.T) {
	db := setupPriceListTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	listA := mustCreateTestList(t, db, "delete-owner-a")
	listB := mustCreateTestList(t, db, "delete-owner-b")
	mine := mustAddTestPrice(t, db, listA.ID, "usd", 500)
	other := mustAddTestPrice(t, db, listB.ID, "usd", 600)

	// a nonexistent id and a cross-list id are both ignored
	require.NoError(t, repo.DeletePrices(ctx, listA.ID, []string{mine.ID, other.ID, "price_missing"}))

	assert.EqualValues(t, 0, countPricesFor(t, db, listA.ID))
	assert.EqualValues(t, 1, countPricesFor(t, db, listB.ID))
}

func TestRepositoryDeletePrices_emptyInputIsNoop(t *testing.T) {
	db := setupPriceListTestDB(t)
	repo := NewRepository(db)

	list := mustCreateTestList(t, db, "delete-empty")
	mustAddTestPrice(t, db, list.ID, "usd", 500)

	require.NoError(t, repo.DeletePrices(context.Background(), list.ID, nil))
	assert.EqualValues(t, 1, countPricesFor(t, db, list.ID))
}

func TestRepositorySoftDelete_hidesRowFromReads(t *testing.T) {
	db := setupPriceListTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	list := mustCreateTestList(t, db, "soft-delete-hidden")
	require.NoError(t, repo.SoftDelete(ctx, list.ID))

	_, err := repo.FindByID(ctx, list.ID, RetrieveConfig{})
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	// repeated delete of the same row is not an error
	require.NoError(t, repo.SoftDelete(ctx, list.ID))
	require.NoError(t, repo.SoftDelete(ctx, "pl_never_existed"))
}

func TestRepositoryListAndCount_filtersAndPaginates(t *testing.T) {
	db := setupPriceListTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		mustCreateTestList(t, db, "winter-promo-page")
	}
	draft := &models.PriceList{Name: "winter-promo-page draft", Status: enums.PriceListStatusDraft}
	require.NoError(t, db.Omit("Prices", "CustomerGroups").Create(draft).Error)

	filter := ListFilter{Query: "winter-promo-page"}
	rows, total, err := repo.ListAndCount(ctx, filter, pagination.Params{Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)
	assert.Len(t, rows, 2)

	active := enums.PriceListStatusActive
	rows, total, err = repo.ListAndCount(ctx, ListFilter{Query: "winter-promo-page", Status: &active}, pagination.Params{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, rows, 3)
}

func TestRepositoryReplaceCustomerGroups_overwritesAssociationSet(t *testing.T) {
	db := setupPriceListTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	list := mustCreateTestList(t, db, "group-replace")
	first := mustCreateTestGroup(t, db, "wholesale")
	second := mustCreateTestGroup(t, db, "vip")

	require.NoError(t, repo.ReplaceCustomerGroups(ctx, list, []models.CustomerGroup{*first}))
	require.NoError(t, repo.ReplaceCustomerGroups(ctx, list, []models.CustomerGroup{*second}))

	loaded, err := repo.FindByID(ctx, list.ID, RetrieveConfig{Relations: []string{RelationCustomerGroups}})
	require.NoError(t, err)
	require.Len(t, loaded.CustomerGroups, 1)
	assert.Equal(t, second.ID, loaded.CustomerGroups[0].ID)
}
