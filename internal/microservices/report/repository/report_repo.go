package repository

import (
	"context"
	"fmt"
	"time"

	"restaurant-ops/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type DailySales struct {
	Date        string       `bson:"_id"`
	TotalSales  domain.Money `bson:"totalSales"`
	TotalOrders int          `bson:"totalOrders"`
}

type EmployeeTotals struct {
	EmployeeName string       `bson:"employeeName"`
	TotalOrders  int          `bson:"totalOrders"`
	TotalRevenue domain.Money `bson:"totalRevenue"`
}

type RatingCount struct {
	Rating int `bson:"_id"`
	Count  int `bson:"count"`
}

type MenuItemPopularity struct {
	MenuItemID  primitive.ObjectID `bson:"_id"`
	Name        string             `bson:"name"`
	TotalOrders int                `bson:"totalOrders"`
	TotalRating float64            `bson:"totalRating"`
	AvgRating   float64            `bson:"avgRating"`
}

type StatusGroup struct {
	Status    domain.UserStatus `bson:"_id"`
	Total     int               `bson:"total"`
	Usernames []string          `bson:"usernames"`
}

type ReportRepositoryInterface interface {
	SalesByDay(ctx context.Context, since time.Time, timezone string) ([]DailySales, error)
	EmployeeTotals(ctx context.Context, employeeID primitive.ObjectID) ([]EmployeeTotals, error)
	RatingCounts(ctx context.Context) ([]RatingCount, error)
	MenuItemPopularity(ctx context.Context, w Window) ([]MenuItemPopularity, error)
	UsersByStatus(ctx context.Context, statuses []domain.UserStatus) ([]StatusGroup, error)
}

type ReportRepository struct {
	db *mongo.Database
}

func NewReportRepository(db *mongo.Database) ReportRepositoryInterface {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) SalesByDay(ctx context.Context, since time.Time, timezone string) ([]DailySales, error) {
	var rows []DailySales
	if err := aggregate(ctx, r.db.Collection(domain.CollOrders), salesPipeline(since, timezone), &rows); err != nil {
		return nil, fmt.Errorf("sales by day: %w", err)
	}
	return rows, nil
}

func (r *ReportRepository) EmployeeTotals(ctx context.Context, employeeID primitive.ObjectID) ([]EmployeeTotals, error) {
	var rows []EmployeeTotals
	if err := aggregate(ctx, r.db.Collection(domain.CollOrders), employeePipeline(employeeID), &rows); err != nil {
		return nil, fmt.Errorf("employee totals %s: %w", employeeID.Hex(), err)
	}
	return rows, nil
}

func (r *ReportRepository) RatingCounts(ctx context.Context) ([]RatingCount, error) {
	var rows []RatingCount
	if err := aggregate(ctx, r.db.Collection(domain.CollFeedbacks), feedbackPipeline(), &rows); err != nil {
		return nil, fmt.Errorf("rating counts: %w", err)
	}
	return rows, nil
}

func (r *ReportRepository) MenuItemPopularity(ctx context.Context, w Window) ([]MenuItemPopularity, error) {
	var rows []MenuItemPopularity
	if err := aggregate(ctx, r.db.Collection(domain.CollOrders), menuPopularityPipeline(w), &rows); err != nil {
		return nil, fmt.Errorf("menu item popularity: %w", err)
	}
	return rows, nil
}

func (r *ReportRepository) UsersByStatus(ctx context.Context, statuses []domain.UserStatus) ([]StatusGroup, error) {
	var rows []StatusGroup
	if err := aggregate(ctx, r.db.Collection(domain.CollUsers), userStatusPipeline(statuses), &rows); err != nil {
		return nil, fmt.Errorf("users by status: %w", err)
	}
	return rows, nil
}

func aggregate(ctx context.Context, coll *mongo.Collection, pipeline mongo.Pipeline, out any) error {
	cur, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return err
	}
	return cur.All(ctx, out)
}
