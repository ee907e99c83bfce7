package settings

import (
	"fmt"
	"testing"

	"go-storefront/internal/database"
	"go-storefront/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	database.Migrate(db)
	return db
}

func TestLoadMembershipDefaults(t *testing.T) {
	m, err := LoadMembership(openTestDB(t))
	require.NoError(t, err)
	assert.Equal(t, 5000, m.Threshold.Amount)
	assert.Equal(t, 5, m.DefaultDiscount.Value)
	assert.Equal(t, models.DiscountPercentage, m.DefaultDiscount.Type)
}

func TestSaveAndLoadMembership(t *testing.T) {
	db := openTestDB(t)

	saved := Membership{
		Threshold:       MembershipThreshold{Amount: 8000},
		DefaultDiscount: MemberDiscount{Value: 100, Type: models.DiscountFixed},
	}
	require.NoError(t, SaveMembership(db, saved))

	loaded, err := LoadMembership(db)
	require.NoError(t, err)
	assert.Equal(t, saved, loaded)
}

func TestLoadMembershipIgnoresCorruptRow(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.Create(&models.Setting{
		Key: KeyMembershipThreshold, Value: "not json at all",
	}).Error)

	m, err := LoadMembership(db)
	require.NoError(t, err)
	assert.Equal(t, 5000, m.Threshold.Amount)
}
