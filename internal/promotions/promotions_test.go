package promotions

import (
	"fmt"
	"testing"
	"time"

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

func intPtr(n int) *int { return &n }

func TestValidateCouponUnknownCode(t *testing.T) {
	r := NewResolver(openTestDB(t))

	_, err := r.ValidateCoupon("NOPE", 1000)
	require.Error(t, err)
	assert.True(t, IsRejection(err))
	assert.EqualError(t, err, "Invalid coupon code")
}

func TestValidateCouponInactive(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.Create(&models.Coupon{
		Code: "SLEEPY", DiscountType: models.DiscountFixed, DiscountValue: 50, IsActive: false,
	}).Error)

	_, err := NewResolver(db).ValidateCoupon("SLEEPY", 1000)
	assert.EqualError(t, err, "Invalid coupon code")
}

func TestValidateCouponIsCaseInsensitive(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.Create(&models.Coupon{
		Code: "SAVE10", DiscountType: models.DiscountPercentage, DiscountValue: 10, IsActive: true,
	}).Error)

	applied, err := NewResolver(db).ValidateCoupon("save10", 1000)
	require.NoError(t, err)
	assert.Equal(t, "SAVE10", applied.Code)
	assert.Equal(t, 100, applied.Discount)
}

func TestValidateCouponExpired(t *testing.T) {
	db := openTestDB(t)
	yesterday := time.Now().Add(-24 * time.Hour)
	require.NoError(t, db.Create(&models.Coupon{
		Code: "OLD", DiscountType: models.DiscountFixed, DiscountValue: 50,
		ExpiryDate: &yesterday, IsActive: true,
	}).Error)

	_, err := NewResolver(db).ValidateCoupon("OLD", 1000)
	assert.EqualError(t, err, "Coupon has expired")
}

func TestValidateCouponMinPurchaseBoundary(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.Create(&models.Coupon{
		Code: "BIG", DiscountType: models.DiscountFixed, DiscountValue: 100,
		MinPurchase: intPtr(1000), IsActive: true,
	}).Error)
	r := NewResolver(db)

	_, err := r.ValidateCoupon("BIG", 999)
	require.Error(t, err)
	assert.EqualError(t, err, "Minimum purchase of ৳1000 required")

	applied, err := r.ValidateCoupon("BIG", 1000)
	require.NoError(t, err)
	assert.Equal(t, 100, applied.Discount)
}

func TestValidateCouponPercentageRounding(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.Create(&models.Coupon{
		Code: "SAVE10", DiscountType: models.DiscountPercentage, DiscountValue: 10, IsActive: true,
	}).Error)

	applied, err := NewResolver(db).ValidateCoupon("SAVE10", 999)
	require.NoError(t, err)
	assert.Equal(t, 100, applied.Discount) // round(99.9)
}

func TestValidateCouponIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.Create(&models.Coupon{
		Code: "TWICE", DiscountType: models.DiscountFixed, DiscountValue: 75, IsActive: true,
	}).Error)
	r := NewResolver(db)

	first, err := r.ValidateCoupon("TWICE", 500)
	require.NoError(t, err)
	second, err := r.ValidateCoupon("TWICE", 500)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestValidateReferral(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.Create(&models.Referral{
		Code: "FRIEND", ReferrerName: "Rafi", CommissionType: models.DiscountFixed,
		CommissionValue: 20, IsActive: true,
	}).Error)
	r := NewResolver(db)

	code, err := r.ValidateReferral("friend")
	require.NoError(t, err)
	assert.Equal(t, "FRIEND", code)

	_, err = r.ValidateReferral("STRANGER")
	require.Error(t, err)
	assert.True(t, IsRejection(err))
	assert.EqualError(t, err, "Invalid referral code")
}

func TestDetectMemberExactPhoneMatch(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.Create(&models.Member{
		MemberCode: "UCM-AABBCCDD", Name: "Nusrat", Phone: "01712345678",
		DiscountType: models.DiscountPercentage, DiscountValue: 5, IsActive: true,
	}).Error)
	r := NewResolver(db)

	match, err := r.DetectMember("01712345678", 2000)
	require.NoError(t, err)
	require.NotNil(t, match)
	assert.Equal(t, "Nusrat", match.Member.Name)
	assert.Equal(t, 100, match.Discount)

	// One digit off: no match, no error
	match, err = r.DetectMember("01712345679", 2000)
	require.NoError(t, err)
	assert.Nil(t, match)
}

func TestDetectMemberIgnoresShortPhones(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.Create(&models.Member{
		MemberCode: "UCM-11223344", Name: "Short", Phone: "0171234",
		DiscountType: models.DiscountFixed, DiscountValue: 50, IsActive: true,
	}).Error)

	match, err := NewResolver(db).DetectMember("0171234", 2000)
	require.NoError(t, err)
	assert.Nil(t, match)
}

func TestDetectMemberSkipsInactive(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.Create(&models.Member{
		MemberCode: "UCM-55667788", Name: "Gone", Phone: "01712345678",
		DiscountType: models.DiscountFixed, DiscountValue: 50, IsActive: false,
	}).Error)

	match, err := NewResolver(db).DetectMember("01712345678", 2000)
	require.NoError(t, err)
	assert.Nil(t, match)
}

func TestStatsForFixedCommission(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.Create(&models.Referral{
		Code: "FRIEND", ReferrerName: "Rafi", CommissionType: models.DiscountFixed,
		CommissionValue: 20, IsActive: true,
	}).Error)

	code := "FRIEND"
	seedOrder(t, db, "UC-0001", &code, models.StatusDelivered, 1000)
	seedOrder(t, db, "UC-0002", &code, models.StatusDelivered, 500)
	seedOrder(t, db, "UC-0003", &code, models.StatusPending, 700)
	seedOrder(t, db, "UC-0004", nil, models.StatusDelivered, 900)

	stats, err := NewResolver(db).StatsFor("FRIEND")
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalOrders)
	assert.Equal(t, int64(2), stats.DeliveredOrders)
	assert.Equal(t, 1500, stats.DeliveredSales)
	assert.Equal(t, 40, stats.Commission) // 2 delivered x 20
}

func TestStatsForPercentageCommission(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.Create(&models.Referral{
		Code: "FRIEND", ReferrerName: "Rafi", CommissionType: models.DiscountPercentage,
		CommissionValue: 10, IsActive: true,
	}).Error)

	code := "FRIEND"
	seedOrder(t, db, "UC-0001", &code, models.StatusDelivered, 999)
	seedOrder(t, db, "UC-0002", &code, models.StatusCancelled, 500)

	stats, err := NewResolver(db).StatsFor("FRIEND")
	require.NoError(t, err)
	assert.Equal(t, 100, stats.Commission) // round(10% of 999)
}

func seedOrder(t *testing.T, db *gorm.DB, orderID string, referral *string, status string, total int) {
	t.Helper()
	require.NoError(t, db.Create(&models.Order{
		OrderID:      orderID,
		CustomerName: "Test Customer",
		Phone:        "01700000000",
		Address:      "12 Shaheb Bazar, Rajshahi",
		DeliveryArea: models.AreaDhaka,
		Items:        models.OrderItems{{ProductID: 1, Name: "Shirt", Price: total, Quantity: 1}},
		Subtotal:     total,
		Total:        total,
		ReferralCode: referral,
		Status:       status,
	}).Error)
}
