package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"svgecommerce/internal/db/dbtest"
	"svgecommerce/internal/model"
)

func setupStore(t *testing.T) (Store, *gorm.DB) {
	t.Helper()
	gormDB := dbtest.New(t)
	return NewStore(gormDB), gormDB
}

func seedUser(t *testing.T, s Store, email string) *model.User {
	t.Helper()
	user := &model.User{
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Email:        email,
		PasswordHash: "hash",
	}
	require.NoError(t, s.Users().Create(context.Background(), user))
	return user
}

type productOpt func(*model.Product)

func withFormat(format string) productOpt {
	return func(p *model.Product) { p.ImageData.ResizedImage = "data:image/" + format + ";base64,AAAA" }
}

func withCreatedOn(ts time.Time) productOpt {
	return func(p *model.Product) { p.CreatedOn = ts }
}

func seedProduct(t *testing.T, s Store, creator uuid.UUID, name, price string, opts ...productOpt) *model.Product {
	t.Helper()
	p := &model.Product{
		CreatorID:   creator,
		CreatorName: "Ada Lovelace",
		Name:        name,
		ImageData:   model.ImageData{ResizedImage: "data:image/png;base64,AAAA", OriginalImage: "data:image/png;base64,AAAA"},
		Description: name + " description",
		Price:       decimal.RequireFromString(price),
		IsActive:    true,
	}
	for _, opt := range opts {
		opt(p)
	}
	require.NoError(t, s.Products().Create(context.Background(), p))
	return p
}

func archive(t *testing.T, s Store, p *model.Product) {
	t.Helper()
	p.IsActive = false
	require.NoError(t, s.Products().Update(context.Background(), p))
}

func names(products []model.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.Name)
	}
	return out
}
