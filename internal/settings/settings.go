// Package settings reads the generic key/value settings rows into typed
// structs. Membership configuration is loaded once per checkout instead of
// threading a freeform map around.
package settings

import (
	"encoding/json"
	"errors"

	"go-storefront/internal/models"

	"gorm.io/gorm"
)

const (
	KeyMembershipThreshold   = "membership_threshold"
	KeyDefaultMemberDiscount = "default_member_discount"
)

// Defaults used when the rows have never been saved.
const (
	DefaultThresholdAmount = 5000
	DefaultDiscountValue   = 5
)

// MembershipThreshold - cumulative purchase amount that earns membership.
type MembershipThreshold struct {
	Amount int `json:"amount"`
}

// MemberDiscount - the discount new members are enrolled with.
type MemberDiscount struct {
	Value int    `json:"value"`
	Type  string `json:"type"`
}

// Membership bundles both settings for the checkout path.
type Membership struct {
	Threshold       MembershipThreshold `json:"threshold"`
	DefaultDiscount MemberDiscount      `json:"default_discount"`
}

// LoadMembership fetches the membership settings, falling back to defaults
// for any missing or unparseable row.
func LoadMembership(db *gorm.DB) (Membership, error) {
	m := Membership{
		Threshold:       MembershipThreshold{Amount: DefaultThresholdAmount},
		DefaultDiscount: MemberDiscount{Value: DefaultDiscountValue, Type: models.DiscountPercentage},
	}

	if err := load(db, KeyMembershipThreshold, &m.Threshold); err != nil {
		return m, err
	}
	if err := load(db, KeyDefaultMemberDiscount, &m.DefaultDiscount); err != nil {
		return m, err
	}
	return m, nil
}

// SaveMembership upserts both rows.
func SaveMembership(db *gorm.DB, m Membership) error {
	if err := save(db, KeyMembershipThreshold, m.Threshold); err != nil {
		return err
	}
	return save(db, KeyDefaultMemberDiscount, m.DefaultDiscount)
}

func load(db *gorm.DB, key string, dest interface{}) error {
	var row models.Setting
	err := db.First(&row, "`key` = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil // keep the default
	}
	if err != nil {
		return err
	}
	if jsonErr := json.Unmarshal([]byte(row.Value), dest); jsonErr != nil {
		return nil // a corrupted row falls back to the default
	}
	return nil
}

func save(db *gorm.DB, key string, value interface{}) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	row := models.Setting{Key: key, Value: string(b)}
	return db.Save(&row).Error
}
