// Package bootstrap holds one-off startup steps that run before the servers accept traffic.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	domain "user-directory-service/internal/domain/user"
	"user-directory-service/internal/usecase/user"
)

type sampleUser struct {
	name, email, phone, address string
}

var sampleUsers = []sampleUser{
	{"John Doe", "john.doe@example.com", "+1234567890", "123 Main St, New York, NY"},
	{"Jane Smith", "jane.smith@example.com", "+1234567891", "456 Oak Ave, Los Angeles, CA"},
	{"Bob Johnson", "bob.johnson@example.com", "+1234567892", "789 Pine Rd, Chicago, IL"},
	{"Alice Brown", "alice.brown@example.com", "+1234567893", "321 Elm St, Houston, TX"},
	{"Charlie Wilson", "charlie.wilson@example.com", "+1234567894", "654 Maple Dr, Phoenix, AZ"},
	{"Diana Davis", "diana.davis@example.com", "+1234567895", "987 Cedar Ln, Philadelphia, PA"},
	{"Edward Miller", "edward.miller@example.com", "+1234567896", "147 Birch St, San Antonio, TX"},
	{"Fiona Garcia", "fiona.garcia@example.com", "+1234567897", "258 Spruce Ave, San Diego, CA"},
	{"George Martinez", "george.martinez@example.com", "+1234567898", "369 Willow Way, Dallas, TX"},
	{"Helen Rodriguez", "helen.rodriguez@example.com", "+1234567899", "741 Poplar Pl, San Jose, CA"},
}

// SeedUsers inserts the sample users when the store is empty and reports how
// many were inserted. A non-empty store is left untouched.
func SeedUsers(ctx context.Context, repo user.Repository, clock clockwork.Clock, log *zap.Logger) (int, error) {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	n, err := repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count users before seeding: %w", err)
	}
	if n > 0 {
		log.Debug("skipping seed, users already present", zap.Int64("count", n))
		return 0, nil
	}

	now := clock.Now().UTC()
	for i, s := range sampleUsers {
		phone, address := s.phone, s.address
		u := &domain.User{
			Name:      s.name,
			Email:     s.email,
			Phone:     &phone,
			Address:   &address,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := repo.Save(ctx, u); err != nil {
			return i, fmt.Errorf("failed to seed user %s: %w", s.email, err)
		}
	}

	log.Info("loaded initial users", zap.Int("count", len(sampleUsers)))
	return len(sampleUsers), nil
}
