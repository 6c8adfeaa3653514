package handlers

import (
	"errors"
	"io"
	"net/http"

	"restaurant-ops/internal/common/httpx"
	"restaurant-ops/internal/common/logger"
	"restaurant-ops/internal/domain"
	"restaurant-ops/internal/microservices/report/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type salesRequest struct {
	Period string `json:"period"`
}

type employeeRequest struct {
	EmployeeID string `json:"employeeId"`
}

type popularityRequest struct {
	Period    string `json:"period"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type ReportHandler struct {
	service service.ReportServiceInterface
	log     zerolog.Logger
}

func NewReportHandler(s service.ReportServiceInterface) *ReportHandler {
	return &ReportHandler{service: s, log: logger.New("report-handler")}
}

// Register mounts the report routes.
func (rh *ReportHandler) Register(r gin.IRouter) {
	order := r.Group("/order")
	order.POST("/report/sales", rh.SalesReport)
	order.POST("/report/employee", rh.EmployeeReport)
	order.GET("/feedback", rh.FeedbackReport)
	order.POST("/report/menu-popularity", rh.MenuPopularityReport)

	r.GET("/performance/user-status-report", rh.UserStatusReport)
}

func (rh *ReportHandler) SalesReport(c *gin.Context) {
	var req salesRequest
	if !rh.bind(c, &req) {
		return
	}
	report, err := rh.service.GenerateSalesReport(c.Request.Context(), req.Period)
	if err != nil {
		httpx.WriteError(c, rh.log, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (rh *ReportHandler) EmployeeReport(c *gin.Context) {
	var req employeeRequest
	if !rh.bind(c, &req) {
		return
	}
	report, err := rh.service.GenerateEmployeeReport(c.Request.Context(), req.EmployeeID)
	if err != nil {
		httpx.WriteError(c, rh.log, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (rh *ReportHandler) FeedbackReport(c *gin.Context) {
	report, err := rh.service.GenerateCustomerFeedbackReport(c.Request.Context())
	if err != nil {
		httpx.WriteError(c, rh.log, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (rh *ReportHandler) MenuPopularityReport(c *gin.Context) {
	var req popularityRequest
	if !rh.bind(c, &req) {
		return
	}
	report, err := rh.service.GenerateMenuItemPopularityReport(c.Request.Context(), req.Period, req.StartDate, req.EndDate)
	if err != nil {
		httpx.WriteError(c, rh.log, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (rh *ReportHandler) UserStatusReport(c *gin.Context) {
	report, err := rh.service.GenerateUserStatusReport(c.Request.Context())
	if err != nil {
		httpx.WriteError(c, rh.log, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (rh *ReportHandler) bind(c *gin.Context, dst any) bool {
	// an empty body leaves dst zero so the service reports the missing field
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		httpx.WriteError(c, rh.log, domain.Validationf("Invalid JSON body"))
		return false
	}
	return true
}
