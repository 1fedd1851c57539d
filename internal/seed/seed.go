// Package seed fills empty stores with the demo users and the initial
// shipment dataset.
package seed

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"tms/internal/models"
	"tms/internal/repositories"
	"tms/internal/services"

	"go.uber.org/zap"
)

// Seed source modes.
const (
	SourceExternal = "external"
	SourceLocal    = "local"
	SourceAuto     = "auto"
)

// DefaultPassword is shared by both demo accounts.
const DefaultPassword = "password123"

// DefaultUsers are the demo accounts created on an empty user store.
var DefaultUsers = []models.User{
	{ID: "1", Username: "admin", Role: models.RoleAdmin},
	{ID: "2", Username: "employee", Role: models.RoleEmployee},
}

// SelectSource picks the product source for mode. Auto uses the external
// catalog everywhere except production.
func SelectSource(mode, appEnv string, external, local ProductSource) (ProductSource, error) {
	switch mode {
	case SourceExternal:
		return external, nil
	case SourceLocal:
		return local, nil
	case "", SourceAuto:
		if appEnv == "production" {
			return local, nil
		}
		return external, nil
	default:
		return nil, fmt.Errorf("unknown seed source %q", mode)
	}
}

// Seeder populates the stores at startup.
type Seeder struct {
	shipments repositories.ShipmentRepository
	users     repositories.UserRepository
	fallback  ProductSource
	rng       *rand.Rand
	now       func() time.Time
	log       *zap.Logger
}

// NewSeeder creates a Seeder. A zero randomSeed draws a random one.
func NewSeeder(shipments repositories.ShipmentRepository, users repositories.UserRepository, randomSeed uint64, log *zap.Logger) *Seeder {
	if randomSeed == 0 {
		randomSeed = rand.Uint64()
	}
	return &Seeder{
		shipments: shipments,
		users:     users,
		fallback:  LocalCatalog{},
		rng:       rand.New(rand.NewPCG(randomSeed, randomSeed)),
		now:       time.Now,
		log:       log,
	}
}

// SeedUsers creates the demo accounts if no user exists yet.
func (s *Seeder) SeedUsers(ctx context.Context) error {
	n, err := s.users.Count(ctx)
	if err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if n > 0 {
		s.log.Info("user store already populated, skipping", zap.Int("users", n))
		return nil
	}

	hashed, err := services.HashPassword(DefaultPassword)
	if err != nil {
		return err
	}
	now := s.now().UTC()
	for _, u := range DefaultUsers {
		u.Password = hashed
		u.CreatedAt = now
		if err := s.users.Create(ctx, &u); err != nil {
			return fmt.Errorf("create user %s: %w", u.Username, err)
		}
	}
	s.log.Info("seeded demo users", zap.Int("users", len(DefaultUsers)))
	return nil
}

// SeedShipments loads products from source, falling back to the local
// catalog, and stores the generated shipments. It returns the name of the
// source that was actually used. A non-empty store is left alone.
func (s *Seeder) SeedShipments(ctx context.Context, source ProductSource) (string, error) {
	n, err := s.shipments.Count(ctx)
	if err != nil {
		return "", fmt.Errorf("count shipments: %w", err)
	}
	if n > 0 {
		s.log.Info("shipment store already populated, skipping", zap.Int("shipments", n))
		return "existing data", nil
	}

	products, name := s.loadProducts(ctx, source)
	shipments := BuildShipments(products, s.rng, s.now())
	for i := range shipments {
		if err := s.shipments.Create(ctx, &shipments[i]); err != nil {
			return "", fmt.Errorf("store shipment %s: %w", shipments[i].ID, err)
		}
	}
	s.log.Info("seeded shipments", zap.Int("shipments", len(shipments)), zap.String("source", name))
	return name, nil
}

func (s *Seeder) loadProducts(ctx context.Context, source ProductSource) ([]Product, string) {
	products, err := source.Products(ctx)
	if err == nil {
		return products, source.Name()
	}
	s.log.Warn("product source failed, falling back",
		zap.String("source", source.Name()),
		zap.String("fallback", s.fallback.Name()),
		zap.Error(err))

	// the local catalog cannot fail
	products, _ = s.fallback.Products(ctx)
	return products, s.fallback.Name() + " (fallback)"
}
