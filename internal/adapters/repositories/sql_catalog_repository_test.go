package repositories

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"slot-pricing-service/internal/domain"
)

func TestSeedProductsFromJSON(t *testing.T) {
	db := newTestDB(t)

	seed := filepath.Join(t.TempDir(), "products.json")
	require.NoError(t, os.WriteFile(seed, []byte(`[
		{"product_id": "p_1", "name": "Classic Cookie", "price_cents": 300, "unit_factor": 1},
		{"product_id": "p_3", "name": "Party Box", "price_cents": 1600, "unit_factor": 6}
	]`), 0o644))

	require.NoError(t, SeedProductsFromJSON(db, seed, DialectSQLite))

	repo := NewSQLCatalogRepository(db, DialectSQLite)
	products, err := repo.Products(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
	require.Equal(t, 300, products["p_1"].PriceCents)
	require.Equal(t, 6, products["p_3"].UnitFactor)
	require.True(t, products["p_1"].Active)

	// Reseeding with changed values updates in place.
	require.NoError(t, os.WriteFile(seed, []byte(`[
		{"product_id": "p_1", "name": "Classic Cookie", "price_cents": 350, "unit_factor": 1}
	]`), 0o644))
	require.NoError(t, SeedProductsFromJSON(db, seed, DialectSQLite))

	products, err = repo.Products(context.Background())
	require.NoError(t, err)
	require.Equal(t, 350, products["p_1"].PriceCents)
	require.Len(t, products, 2, "reseed never deletes")
}

func TestSeedProductsRejectsBadRows(t *testing.T) {
	db := newTestDB(t)
	seed := filepath.Join(t.TempDir(), "products.json")

	cases := map[string]string{
		"missing id":       `[{"name": "x", "price_cents": 100, "unit_factor": 1}]`,
		"empty name":       `[{"product_id": "p_1", "name": " ", "price_cents": 100, "unit_factor": 1}]`,
		"negative price":   `[{"product_id": "p_1", "name": "x", "price_cents": -1, "unit_factor": 1}]`,
		"zero unit factor": `[{"product_id": "p_1", "name": "x", "price_cents": 100, "unit_factor": 0}]`,
		"not json":         `{`,
	}
	for name, body := range cases {
		require.NoError(t, os.WriteFile(seed, []byte(body), 0o644))
		require.Error(t, SeedProductsFromJSON(db, seed, DialectSQLite), name)
	}
}

func TestCartRoundTrip(t *testing.T) {
	repo := NewSQLCatalogRepository(newTestDB(t), DialectSQLite)
	ctx := context.Background()

	cart := domain.Cart{
		CartID: "c_1",
		Items: []domain.CartItem{
			{ProductID: "p_1", Qty: 2},
			{ProductID: "p_3", Qty: 1},
		},
	}
	require.NoError(t, repo.CreateCart(ctx, cart))

	got, err := repo.GetCart(ctx, "c_1")
	require.NoError(t, err)
	require.Equal(t, cart.Items, got.Items)

	_, err = repo.GetCart(ctx, "c_missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateCartMergesDuplicateLines(t *testing.T) {
	repo := NewSQLCatalogRepository(newTestDB(t), DialectSQLite)
	ctx := context.Background()

	cart := domain.Cart{
		CartID: "c_dupes",
		Items: []domain.CartItem{
			{ProductID: "p_1", Qty: 2},
			{ProductID: "p_1", Qty: 3},
		},
	}
	require.NoError(t, repo.CreateCart(ctx, cart))

	got, err := repo.GetCart(ctx, "c_dupes")
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	require.Equal(t, 5, got.Items[0].Qty)
}

func TestLocationRoundTrip(t *testing.T) {
	repo := NewSQLCatalogRepository(newTestDB(t), DialectSQLite)
	ctx := context.Background()

	loc := domain.Location{
		LocationID: "loc_1",
		Lat:        33.4484,
		Lon:        -112.0740,
		Address:    "100 N Central Ave, Phoenix, AZ",
	}
	require.NoError(t, repo.CreateLocation(ctx, loc))

	got, err := repo.GetLocation(ctx, "loc_1")
	require.NoError(t, err)
	require.Equal(t, loc, got)

	_, err = repo.GetLocation(ctx, "loc_missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
}
