package database

import (
	"time"

	"go-storefront/internal/models"
)

// SalesReportResult holds aggregate order numbers for a date range.
type SalesReportResult struct {
	TotalRevenue int
	TotalCount   int64
}

// GetSalesReport sums revenue of orders placed within a date range.
// Cancelled and returned orders don't count as revenue.
func GetSalesReport(start, end time.Time) (*SalesReportResult, error) {
	var result SalesReportResult

	// COALESCE ensures we get 0 instead of NULL when there are no orders
	err := DB.Model(&models.Order{}).
		Where("created_at BETWEEN ? AND ?", start, end).
		Where("status NOT IN ?", []string{models.StatusCancelled, models.StatusReturned}).
		Select("COALESCE(SUM(total), 0)").
		Scan(&result.TotalRevenue).Error

	if err != nil {
		return nil, err
	}

	err = DB.Model(&models.Order{}).
		Where("created_at BETWEEN ? AND ?", start, end).
		Where("status NOT IN ?", []string{models.StatusCancelled, models.StatusReturned}).
		Count(&result.TotalCount).Error

	if err != nil {
		return nil, err
	}

	return &result, nil
}
