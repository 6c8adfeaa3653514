package service

import (
	"context"
	"fmt"
	"time"

	"restaurant-ops/internal/common/logger"
	"restaurant-ops/internal/common/metrics"
	"restaurant-ops/internal/domain"
	"restaurant-ops/internal/microservices/report/repository"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrEmployeeReportNotFound is returned both for an unknown employee and for
// an employee without non-cancelled orders; the aggregation cannot tell them apart.
var ErrEmployeeReportNotFound = domain.NotFoundf("No report found for the given employee ID")

type SalesEntry struct {
	TotalSales  domain.Money `json:"totalSales"`
	TotalOrders int          `json:"totalOrders"`
}

type SalesReport struct {
	Message     string                `json:"message"`
	Period      string                `json:"period"`
	Dates       []string              `json:"dates"`
	ReportData  map[string]SalesEntry `json:"reportData"`
	TotalSales  domain.Money          `json:"totalSales"`
	TotalOrders int                   `json:"totalOrders"`
}

type EmployeeReport struct {
	EmployeeName string       `json:"employeeName"`
	TotalOrders  int          `json:"totalOrders"`
	TotalRevenue domain.Money `json:"totalRevenue"`
}

type RatingBucket struct {
	Rating     int     `json:"rating"`
	Label      string  `json:"label"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type FeedbackReport struct {
	Message        string         `json:"message"`
	TotalFeedbacks int            `json:"totalFeedbacks"`
	Report         []RatingBucket `json:"report"`
}

type MenuItemStats struct {
	MenuItemID  string  `json:"menuItemId"`
	Name        string  `json:"name"`
	TotalOrders int     `json:"totalOrders"`
	AvgRating   float64 `json:"avgRating"`
	TotalRating float64 `json:"totalRating"`
}

type MenuPopularityReport struct {
	Message      string                   `json:"message"`
	Period       string                   `json:"period"`
	From         time.Time                `json:"from"`
	To           *time.Time               `json:"to,omitempty"`
	Items        []MenuItemStats          `json:"items"`
	ReportData   map[string]MenuItemStats `json:"reportData"`
	TotalOrders  int                      `json:"totalOrders"`
	TotalRatings float64                  `json:"totalRatings"`
}

type StatusSummary struct {
	Total     int      `json:"total"`
	Usernames []string `json:"usernames"`
}

type ReportServiceInterface interface {
	GenerateSalesReport(ctx context.Context, period string) (SalesReport, error)
	GenerateEmployeeReport(ctx context.Context, employeeID string) ([]EmployeeReport, error)
	GenerateCustomerFeedbackReport(ctx context.Context) (FeedbackReport, error)
	GenerateMenuItemPopularityReport(ctx context.Context, period, startDate, endDate string) (MenuPopularityReport, error)
	GenerateUserStatusReport(ctx context.Context) (map[domain.UserStatus]StatusSummary, error)
}

type ReportService struct {
	db  repository.ReportRepositoryInterface
	loc *time.Location
	now func() time.Time
	log zerolog.Logger
}

func NewReportService(db repository.ReportRepositoryInterface, loc *time.Location) ReportServiceInterface {
	return newReportService(db, loc, time.Now)
}

func newReportService(db repository.ReportRepositoryInterface, loc *time.Location, now func() time.Time) *ReportService {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportService{db: db, loc: loc, now: now, log: logger.New("report-service")}
}

func (rs *ReportService) GenerateSalesReport(ctx context.Context, period string) (report SalesReport, err error) {
	defer observe("sales", &err)

	now := rs.now().In(rs.loc)
	var since time.Time
	switch period {
	case "":
		return SalesReport{}, domain.Validationf("Period is required")
	case PeriodDaily:
		since = startOfDay(now)
	case PeriodMonthly:
		since = startOfMonth(now)
	default:
		return SalesReport{}, domain.Validationf("Invalid period %q: use 'daily' or 'monthly'", period)
	}

	rows, err := rs.db.SalesByDay(ctx, since, rs.loc.String())
	if err != nil {
		return SalesReport{}, fmt.Errorf("generate sales report: %w", err)
	}

	report = SalesReport{
		Message:    fmt.Sprintf("Sales report for the %s period", period),
		Period:     period,
		Dates:      make([]string, 0, len(rows)),
		ReportData: make(map[string]SalesEntry, len(rows)),
	}
	for _, row := range rows {
		report.Dates = append(report.Dates, row.Date)
		report.ReportData[row.Date] = SalesEntry{TotalSales: row.TotalSales, TotalOrders: row.TotalOrders}
		report.TotalSales = report.TotalSales.Add(row.TotalSales)
		report.TotalOrders += row.TotalOrders
	}
	return report, nil
}

func (rs *ReportService) GenerateEmployeeReport(ctx context.Context, employeeID string) (report []EmployeeReport, err error) {
	defer observe("employee", &err)

	if employeeID == "" {
		return nil, domain.Validationf("Employee ID is required")
	}
	id, err := primitive.ObjectIDFromHex(employeeID)
	if err != nil {
		return nil, domain.Validationf("Invalid Employee ID format")
	}

	rows, err := rs.db.EmployeeTotals(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("generate employee report: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrEmployeeReportNotFound
	}

	report = make([]EmployeeReport, 0, len(rows))
	for _, row := range rows {
		report = append(report, EmployeeReport{
			EmployeeName: row.EmployeeName,
			TotalOrders:  row.TotalOrders,
			TotalRevenue: row.TotalRevenue,
		})
	}
	return report, nil
}

var ratingLabels = map[int]string{
	1: "Very Bad",
	2: "Bad",
	3: "Average",
	4: "Good",
	5: "Excellent",
}

func RatingLabel(rating int) string {
	if l, ok := ratingLabels[rating]; ok {
		return l
	}
	return "Unknown Rating"
}

func (rs *ReportService) GenerateCustomerFeedbackReport(ctx context.Context) (report FeedbackReport, err error) {
	defer observe("feedback", &err)

	rows, err := rs.db.RatingCounts(ctx)
	if err != nil {
		return FeedbackReport{}, fmt.Errorf("generate feedback report: %w", err)
	}

	total := 0
	for _, row := range rows {
		total += row.Count
	}

	report = FeedbackReport{
		Message:        "Customer Feedback Report",
		TotalFeedbacks: total,
		Report:         make([]RatingBucket, 0, len(rows)),
	}
	for _, row := range rows {
		report.Report = append(report.Report, RatingBucket{
			Rating:     row.Rating,
			Label:      RatingLabel(row.Rating),
			Count:      row.Count,
			Percentage: percentage(row.Count, total),
		})
	}
	return report, nil
}

// percentage is count/total*100 rounded half away from zero to 2 places; 0 when total is 0.
func percentage(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return decimal.NewFromInt(int64(count)).
		Mul(decimal.NewFromInt(100)).
		DivRound(decimal.NewFromInt(int64(total)), 2).
		InexactFloat64()
}

func (rs *ReportService) GenerateMenuItemPopularityReport(ctx context.Context, period, startDate, endDate string) (report MenuPopularityReport, err error) {
	defer observe("menu_popularity", &err)

	w, err := popularityWindow(period, startDate, endDate, rs.now().In(rs.loc))
	if err != nil {
		return MenuPopularityReport{}, err
	}

	rows, err := rs.db.MenuItemPopularity(ctx, w)
	if err != nil {
		return MenuPopularityReport{}, fmt.Errorf("generate menu popularity report: %w", err)
	}

	report = MenuPopularityReport{
		Message:    fmt.Sprintf("Menu item popularity report for the %s period", period),
		Period:     period,
		From:       w.From,
		Items:      make([]MenuItemStats, 0, len(rows)),
		ReportData: make(map[string]MenuItemStats, len(rows)),
	}
	if !w.To.IsZero() {
		to := w.To
		report.To = &to
	}

	for _, row := range rows {
		stats := MenuItemStats{
			MenuItemID:  row.MenuItemID.Hex(),
			Name:        row.Name,
			TotalOrders: row.TotalOrders,
			AvgRating:   row.AvgRating,
			TotalRating: row.TotalRating,
		}
		if stats.Name == "" {
			stats.Name = fmt.Sprintf("Unknown Item (%s)", stats.MenuItemID)
		}

		key := stats.Name
		if _, dup := report.ReportData[key]; dup {
			key = fmt.Sprintf("%s (%s)", stats.Name, stats.MenuItemID)
		}

		report.Items = append(report.Items, stats)
		report.ReportData[key] = stats
		report.TotalOrders += stats.TotalOrders
		report.TotalRatings += stats.TotalRating
	}

	rs.log.Debug().
		Str("period", period).
		Time("from", w.From).
		Int("items", len(report.Items)).
		Msg("menu popularity report generated")

	return report, nil
}

var reportedStatuses = []domain.UserStatus{domain.UserActive, domain.UserInactive, domain.UserSuspended}

func (rs *ReportService) GenerateUserStatusReport(ctx context.Context) (report map[domain.UserStatus]StatusSummary, err error) {
	defer observe("user_status", &err)

	rows, err := rs.db.UsersByStatus(ctx, reportedStatuses)
	if err != nil {
		return nil, fmt.Errorf("generate user status report: %w", err)
	}

	report = make(map[domain.UserStatus]StatusSummary, len(reportedStatuses))
	for _, s := range reportedStatuses {
		report[s] = StatusSummary{Usernames: []string{}}
	}
	for _, row := range rows {
		if _, ok := report[row.Status]; !ok {
			continue
		}
		names := row.Usernames
		if names == nil {
			names = []string{}
		}
		report[row.Status] = StatusSummary{Total: row.Total, Usernames: names}
	}
	return report, nil
}

func observe(report string, err *error) {
	metrics.ReportsGenerated.WithLabelValues(report, metrics.Outcome(*err)).Inc()
}
