package persistence

import (
	"context"
	"testing"

	"github.com/landmarket/backend/internal/domain/identity"
	"github.com/landmarket/backend/internal/domain/listing"
	"github.com/landmarket/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens an in-memory SQLite database with every table migrated
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// every pooled connection would otherwise get its own empty database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string) *identity.User {
	t.Helper()
	u, err := identity.NewUser(email, "Jane", "Doe", "secret1")
	require.NoError(t, err)
	require.NoError(t, NewGormUserRepository(db).Create(context.Background(), u))
	return u
}

func seedSeller(t *testing.T, db *gorm.DB, email string) *identity.Seller {
	t.Helper()
	u := seedUser(t, db, email)
	s, err := identity.NewSeller(u.ID, identity.SellerProfile{
		Company:     "Acme Land",
		Email:       email,
		ClientURL:   "https://acme.example",
		FirstName:   "Sam",
		LastName:    "Houston",
		MailAddress: "1 Main St",
		PhoneNumber: "5125550100",
	})
	require.NoError(t, err)
	s.Slug = "seller-" + u.Email
	require.NoError(t, NewGormSellerRepository(db).Create(context.Background(), s))
	return s
}

type listingSeed struct {
	slug  string
	geo   *listing.Geo
	price *decimal.Decimal
}

func seedListing(t *testing.T, db *gorm.DB, sellerID uint64, seed listingSeed) *listing.Listing {
	t.Helper()
	l, err := listing.NewListing(sellerID, "Parcel "+seed.slug, "")
	require.NoError(t, err)
	l.Slug = seed.slug
	if seed.geo != nil {
		require.NoError(t, l.SetGeo(*seed.geo))
	}
	if seed.price != nil {
		require.NoError(t, l.SetPrice(*seed.price))
	}
	require.NoError(t, NewGormListingRepository(db, nil).Save(context.Background(), l))
	return l
}

func price(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func listingIDs(items []*listing.Listing) []uint64 {
	ids := make([]uint64, len(items))
	for i, l := range items {
		ids[i] = l.ID
	}
	return ids
}
