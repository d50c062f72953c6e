package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"svgecommerce/internal/auth"
	"svgecommerce/internal/cache"
	"svgecommerce/internal/db/dbtest"
	"svgecommerce/internal/logger"
	"svgecommerce/internal/repository"
	"svgecommerce/internal/service"
)

const seedJSON = `{
  "users": [
    {"first_name": "Ada", "last_name": "Admin", "email": "admin@example.com", "password": "secret1", "is_admin": true},
    {"first_name": "Dee", "last_name": "Signer", "email": "designer@example.com", "password": "secret1", "is_designer": true}
  ],
  "products": [
    {"creator_email": "designer@example.com", "name": "Fox", "description": "vector fox", "price": "12.50",
     "resized_image": "data:image/svg+xml;base64,PHN2Zy8+"},
    {"creator_email": "designer@example.com", "name": "Broken", "description": "bad image", "price": 3,
     "resized_image": "not-a-data-uri"},
    {"creator_email": "ghost@example.com", "name": "Orphan", "description": "no creator", "price": 1,
     "resized_image": "data:image/svg+xml;base64,PHN2Zy8+"}
  ]
}`

func newSeeder(t *testing.T) *seeder {
	t.Helper()

	mr := miniredis.RunT(t)
	c := cache.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })

	log := logger.Discard()
	store := repository.NewStore(dbtest.New(t))
	return &seeder{
		store:   store,
		users:   service.NewUserService(store, c, auth.NewJWTService("test-secret", time.Hour), auth.NewTokenStore(c), bcrypt.MinCost, time.Minute, log),
		catalog: service.NewCatalogService(store, c, 3, time.Minute, log),
		log:     log,
	}
}

func TestLoadSeed_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(seedJSON), 0o600))

	data, err := loadSeed(path)
	require.NoError(t, err)
	assert.Len(t, data.Users, 2)
	assert.Len(t, data.Products, 3)
	assert.True(t, data.Products[0].Price.Equal(decimal.RequireFromString("12.5")))
}

func TestLoadSeed_URL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/seed.json" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(seedJSON))
	}))
	defer srv.Close()

	data, err := loadSeed(srv.URL + "/seed.json")
	require.NoError(t, err)
	assert.Len(t, data.Users, 2)

	_, err = loadSeed(srv.URL + "/missing.json")
	assert.ErrorContains(t, err, "status code 404")
}

func TestLoadSeed_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))

	_, err := loadSeed(path)
	assert.ErrorContains(t, err, "parse seed JSON")
}

func TestSeeder_RunIsIdempotent(t *testing.T) {
	s := newSeeder(t)
	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(seedJSON), 0o600))
	data, err := loadSeed(path)
	require.NoError(t, err)
	ctx := context.Background()

	stats, err := s.run(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, seedStats{usersCreated: 2, productsCreated: 1, productsSkipped: 2}, stats)

	stats, err = s.run(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, seedStats{usersExisting: 2, productsSkipped: 3}, stats)

	admin, err := s.store.Users().FindByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin)

	designer, err := s.store.Users().FindByEmail(ctx, "designer@example.com")
	require.NoError(t, err)
	products, err := s.store.Products().ListByCreator(ctx, designer.ID, false)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Fox", products[0].Name)
	assert.Equal(t, "Dee Signer", products[0].CreatorName)
}
