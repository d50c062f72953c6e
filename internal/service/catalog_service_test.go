package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"svgecommerce/internal/access"
	"svgecommerce/internal/model"
)

func newProductInput(name string) NewProduct {
	return NewProduct{
		Name:        name,
		Description: "vector art",
		Price:       decimal.RequireFromString("12.50"),
		ImageData:   model.ImageData{ResizedImage: testImage, OriginalImage: testImage},
	}
}

func TestCatalogService_Create(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	designer := f.user(t, "designer@example.com", false, true)
	regular := f.user(t, "regular@example.com", false, false)

	product, err := f.catalog.Create(ctx, designer, newProductInput("Owl"))
	require.NoError(t, err)
	assert.Equal(t, designer.ID, product.CreatorID)
	assert.Equal(t, "Grace Hopper", product.CreatorName)
	assert.True(t, product.IsActive)

	_, err = f.catalog.Create(ctx, regular, newProductInput("Owl"))
	requireRejection(t, err, "Only admin or designer can create a product")

	ghost := access.Actor{ID: uuid.New(), IsDesigner: true}
	_, err = f.catalog.Create(ctx, ghost, newProductInput("Owl"))
	requireRejection(t, err, "You are not allowed to add product!")

	bad := newProductInput("Owl")
	bad.ImageData.ResizedImage = "https://example.com/owl.png"
	_, err = f.catalog.Create(ctx, designer, bad)
	requireRejection(t, err, invalidImageMessage)
}

func TestCatalogService_Update(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner@example.com", false, true)
	rival := f.user(t, "rival@example.com", false, true)
	admin := f.user(t, "admin@example.com", true, false)
	product := f.product(t, owner, "Owl", "10")

	name := "Snowy Owl"
	price := decimal.RequireFromString("15")
	updated, err := f.catalog.Update(ctx, owner, product.ID, ProductChanges{Name: &name, Price: &price})
	require.NoError(t, err)
	assert.Equal(t, "Snowy Owl", updated.Name)
	assert.True(t, price.Equal(updated.Price))
	assert.Equal(t, "artwork", updated.Description)

	_, err = f.catalog.Update(ctx, rival, product.ID, ProductChanges{Name: &name})
	requireRejection(t, err, "This is not your product!")

	description := "by the admin"
	_, err = f.catalog.Update(ctx, admin, product.ID, ProductChanges{Description: &description})
	require.NoError(t, err)

	_, err = f.catalog.Update(ctx, owner, uuid.New(), ProductChanges{Name: &name})
	requireRejection(t, err, "Product does not exists!")

	stored, err := f.store.Products().FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Snowy Owl", stored.Name)
	assert.Equal(t, "by the admin", stored.Description)
	assert.Equal(t, int64(3), stored.Version)
}

// Archived products stay retrievable by id but leave the
// storefront and search.
func TestCatalogService_ArchiveThenGet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner@example.com", false, true)
	product := f.product(t, owner, "Owl", "10")

	_, err := f.catalog.Get(ctx, product.ID)
	require.NoError(t, err)

	require.NoError(t, f.catalog.Archive(ctx, owner, product.ID))

	got, err := f.catalog.Get(ctx, product.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	active, err := f.catalog.ListActive(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, active)

	found, err := f.catalog.Search(ctx, "owl", "", "null")
	require.NoError(t, err)
	assert.Empty(t, found)

	_, err = f.catalog.GetForDesigner(ctx, owner, product.ID)
	requireRejection(t, err, "Product does not exist!")

	require.NoError(t, f.catalog.Unarchive(ctx, owner, product.ID))
	got, err = f.catalog.Get(ctx, product.ID)
	require.NoError(t, err)
	assert.True(t, got.IsActive)
}

func TestCatalogService_ArchiveRejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner@example.com", false, true)
	rival := f.user(t, "rival@example.com", false, true)
	regular := f.user(t, "regular@example.com", false, false)
	product := f.product(t, owner, "Owl", "10")

	requireRejection(t, f.catalog.Archive(ctx, regular, product.ID), "Only admin or designer can archive a product")
	requireRejection(t, f.catalog.Archive(ctx, rival, product.ID), "This is not your product!")
	requireRejection(t, f.catalog.Archive(ctx, owner, uuid.New()), "Product does not exists!")
	requireRejection(t, f.catalog.Unarchive(ctx, regular, product.ID), "Only admin or designer can unarchive a product")
	requireRejection(t, f.catalog.Unarchive(ctx, owner, uuid.New()), "Product does not exists!")
}

func TestCatalogService_Get(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner@example.com", false, true)
	product := f.product(t, owner, "Owl", "10")

	_, err := f.catalog.Get(ctx, uuid.New())
	requireRejection(t, err, "Product does not exist!")

	_, err = f.catalog.Get(ctx, product.ID)
	require.NoError(t, err)
	assert.True(t, f.redis.Exists(productCacheKey(product.ID)))

	name := "Barn Owl"
	_, err = f.catalog.Update(ctx, owner, product.ID, ProductChanges{Name: &name})
	require.NoError(t, err)
	assert.False(t, f.redis.Exists(productCacheKey(product.ID)))

	got, err := f.catalog.Get(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Barn Owl", got.Name)
}

func TestCatalogService_GetDoesNotCacheStaleRead(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner@example.com", false, true)
	product := f.product(t, owner, "Owl", "10")

	// a read that loaded the row before a concurrent update finishes after it
	stale, err := f.store.Products().FindByIDWithReactors(ctx, product.ID)
	require.NoError(t, err)

	name := "Barn Owl"
	_, err = f.catalog.Update(ctx, owner, product.ID, ProductChanges{Name: &name})
	require.NoError(t, err)

	f.catalog.(*catalogService).cacheProduct(ctx, stale)
	assert.False(t, f.redis.Exists(productCacheKey(product.ID)))

	got, err := f.catalog.Get(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Barn Owl", got.Name)
	assert.True(t, f.redis.Exists(productCacheKey(product.ID)))

	got, err = f.catalog.Get(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Barn Owl", got.Name)
}

func TestCatalogService_ListActive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner@example.com", false, true)

	all := make([]uuid.UUID, 0, ActiveSampleSize+5)
	for i := 0; i < ActiveSampleSize+5; i++ {
		all = append(all, f.product(t, owner, fmt.Sprintf("Art %d", i), "1").ID)
	}

	sample, err := f.catalog.ListActive(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, sample, ActiveSampleSize)

	seen := make(map[uuid.UUID]bool)
	for _, p := range sample {
		assert.False(t, seen[p.ID], "duplicate product in sample")
		seen[p.ID] = true
	}

	rest, err := f.catalog.ListActive(ctx, all[:ActiveSampleSize])
	require.NoError(t, err)
	assert.Len(t, rest, 5)
	for _, p := range rest {
		assert.Contains(t, all[ActiveSampleSize:], p.ID)
	}

	// Excluding every active product is an empty result, not an error.
	none, err := f.catalog.ListActive(ctx, all)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestCatalogService_ListActiveKeepsSampleOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner@example.com", false, true)
	for i := 0; i < 5; i++ {
		f.product(t, owner, fmt.Sprintf("Art %d", i), "1")
	}

	svc := f.catalog.(*catalogService)
	var shuffled []uuid.UUID
	svc.shuffleFn = func(n int, swap func(i, j int)) {
		for i := 0; i < n/2; i++ {
			swap(i, n-1-i)
		}
	}

	ids, err := f.store.Products().ListActiveIDs(ctx, nil)
	require.NoError(t, err)
	for i := len(ids) - 1; i >= 0; i-- {
		shuffled = append(shuffled, ids[i])
	}

	sample, err := svc.ListActive(ctx, nil)
	require.NoError(t, err)
	got := make([]uuid.UUID, 0, len(sample))
	for _, p := range sample {
		got = append(got, p.ID)
	}
	assert.Equal(t, shuffled, got)
}

func TestCatalogService_Search(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner@example.com", false, true)
	f.product(t, owner, "Night Owl", "20")
	f.product(t, owner, "Owlet", "5")
	f.product(t, owner, "Fox", "7")

	found, err := f.catalog.Search(ctx, "OWL", "low", "null")
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "Owlet", found[0].Name)
	assert.Equal(t, "Night Owl", found[1].Name)

	found, err = f.catalog.Search(ctx, "owl", "high", "svg")
	require.NoError(t, err)
	assert.Empty(t, found)

	found, err = f.catalog.Search(ctx, "", "unknown", "png")
	require.NoError(t, err)
	assert.Len(t, found, 3)
}

func TestCatalogService_DesignerViews(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner@example.com", false, true)
	rival := f.user(t, "rival@example.com", false, true)
	mine := f.product(t, owner, "Owl", "10")
	archived := f.product(t, owner, "Old Owl", "10")
	require.NoError(t, f.catalog.Archive(ctx, owner, archived.ID))
	f.product(t, rival, "Fox", "10")

	all, err := f.catalog.ListByCreator(ctx, owner, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	active, err := f.catalog.ListByCreator(ctx, owner, true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, mine.ID, active[0].ID)

	got, err := f.catalog.GetForDesigner(ctx, owner, mine.ID)
	require.NoError(t, err)
	assert.Equal(t, mine.ID, got.ID)

	_, err = f.catalog.GetForDesigner(ctx, rival, mine.ID)
	requireRejection(t, err, "This is not your product!")

	_, err = f.catalog.GetForDesigner(ctx, owner, uuid.New())
	requireRejection(t, err, "Product does not exist!")

	everything, err := f.catalog.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, everything, 3)
}
