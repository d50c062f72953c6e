package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"svgecommerce/internal/access"
	"svgecommerce/internal/auth"
	"svgecommerce/internal/cache"
	"svgecommerce/internal/config"
	"svgecommerce/internal/db"
	"svgecommerce/internal/errors"
	"svgecommerce/internal/logger"
	"svgecommerce/internal/model"
	"svgecommerce/internal/repository"
	"svgecommerce/internal/service"
)

// SeedData is the document the seed command reads.
type SeedData struct {
	Users    []SeedUser    `json:"users"`
	Products []SeedProduct `json:"products"`
}

// SeedUser is an account to create.
type SeedUser struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	IsAdmin    bool   `json:"is_admin"`
	IsDesigner bool   `json:"is_designer"`
}

// SeedProduct is a product owned by one of the seeded designers.
type SeedProduct struct {
	CreatorEmail  string          `json:"creator_email"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	ResizedImage  string          `json:"resized_image"`
	OriginalImage string          `json:"original_image"`
}

func main() {
	source := flag.String("source", "seed.json", "seed document: a file path or an http(s) URL")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", slog.Any("error", err))
		os.Exit(1)
	}
	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		slog.Error("init logger", slog.Any("error", err))
		os.Exit(1)
	}

	gormDB, err := db.NewMySQL(cfg.MySQLDSN, log)
	if err != nil {
		log.Error("connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Error("run migrations", slog.Any("error", err))
		os.Exit(1)
	}

	data, err := loadSeed(*source)
	if err != nil {
		log.Error("load seed document", slog.String("source", *source), slog.Any("error", err))
		os.Exit(1)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()

	store := repository.NewStore(gormDB)
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.JWTTTL)
	s := &seeder{
		store:   store,
		users:   service.NewUserService(store, cacheClient, jwtService, auth.NewTokenStore(cacheClient), cfg.BcryptCost, cfg.CacheTTL, log),
		catalog: service.NewCatalogService(store, cacheClient, cfg.OptimisticRetries, cfg.CacheTTL, log),
		log:     log,
	}

	stats, err := s.run(context.Background(), data)
	if err != nil {
		log.Error("seed failed", slog.Any("error", err))
		os.Exit(1)
	}
	log.Info("seed completed",
		slog.Int("users_created", stats.usersCreated),
		slog.Int("users_existing", stats.usersExisting),
		slog.Int("products_created", stats.productsCreated),
		slog.Int("products_skipped", stats.productsSkipped))
}

// loadSeed reads the seed document from a local file or fetches it over HTTP.
func loadSeed(source string) (*SeedData, error) {
	var body []byte
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		client := &http.Client{Timeout: 30 * time.Second}
		resp, err := client.Get(source)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", source, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("fetch %s: status code %d", source, resp.StatusCode)
		}
		if body, err = io.ReadAll(resp.Body); err != nil {
			return nil, fmt.Errorf("read response body: %w", err)
		}
	} else {
		var err error
		if body, err = os.ReadFile(source); err != nil {
			return nil, fmt.Errorf("read %s: %w", source, err)
		}
	}

	var data SeedData
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("parse seed JSON: %w", err)
	}
	return &data, nil
}

type seedStats struct {
	usersCreated    int
	usersExisting   int
	productsCreated int
	productsSkipped int
}

type seeder struct {
	store   repository.Store
	users   service.UserService
	catalog service.CatalogService
	log     *slog.Logger
}

// run creates missing users and products. Running it twice is a no-op.
func (s *seeder) run(ctx context.Context, data *SeedData) (seedStats, error) {
	var stats seedStats
	byEmail := make(map[string]*model.User, len(data.Users))

	for _, u := range data.Users {
		_, err := s.users.Register(ctx, service.RegisterInput{
			FirstName:  u.FirstName,
			LastName:   u.LastName,
			Email:      u.Email,
			Password:   u.Password,
			IsAdmin:    u.IsAdmin,
			IsDesigner: u.IsDesigner,
		})
		switch _, rejected := errors.AsRejection(err); {
		case err == nil:
			stats.usersCreated++
		case rejected:
			stats.usersExisting++
		default:
			return stats, fmt.Errorf("register %s: %w", u.Email, err)
		}

		user, err := s.store.Users().FindByEmail(ctx, u.Email)
		if err != nil {
			return stats, fmt.Errorf("find %s: %w", u.Email, err)
		}
		byEmail[u.Email] = user
	}

	for _, p := range data.Products {
		creator, found := byEmail[p.CreatorEmail]
		if !found {
			s.log.Warn("skipping product with unknown creator",
				slog.String("product", p.Name), slog.String("creator_email", p.CreatorEmail))
			stats.productsSkipped++
			continue
		}

		existing, err := s.store.Products().ListByCreator(ctx, creator.ID, false)
		if err != nil {
			return stats, fmt.Errorf("list products of %s: %w", p.CreatorEmail, err)
		}
		if hasProduct(existing, p.Name) {
			stats.productsSkipped++
			continue
		}

		actor := access.Actor{ID: creator.ID, Email: creator.Email, IsAdmin: creator.IsAdmin, IsDesigner: creator.IsDesigner}
		_, err = s.catalog.Create(ctx, actor, service.NewProduct{
			Name:        p.Name,
			Description: p.Description,
			Price:       p.Price,
			ImageData: model.ImageData{
				ResizedImage:  p.ResizedImage,
				OriginalImage: p.OriginalImage,
			},
		})
		if rej, rejected := errors.AsRejection(err); rejected {
			s.log.Warn("skipping rejected product", slog.String("product", p.Name), slog.String("reason", rej.Message))
			stats.productsSkipped++
			continue
		}
		if err != nil {
			return stats, fmt.Errorf("create product %s: %w", p.Name, err)
		}
		stats.productsCreated++
	}

	return stats, nil
}

func hasProduct(products []model.Product, name string) bool {
	for _, p := range products {
		if p.Name == name {
			return true
		}
	}
	return false
}
