package handlers

import (
	"context"
	"net/http"
	"strconv"

	"restaurant-ops/internal/common/httpx"
	"restaurant-ops/internal/common/logger"
	"restaurant-ops/internal/domain"
	"restaurant-ops/internal/microservices/notificator/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const defaultDeliveriesLimit = 50

type TriggerController interface {
	ControlTriggers(watchOrders, watchTables bool) service.TriggerState
	Status() service.TriggerStatus
}

type DeliveryLister interface {
	RecentDeliveries(ctx context.Context, limit int) ([]domain.Delivery, error)
}

type controlRequest struct {
	WatchOrders bool `json:"watchOrders"`
	WatchTables bool `json:"watchTables"`
}

// controlFailure carries the unchanged trigger state next to the error.
type controlFailure struct {
	Message string `json:"message"`
	service.TriggerState
}

type NotificationHandler struct {
	alerts     service.AlertServiceInterface
	triggers   TriggerController
	deliveries DeliveryLister
	log        zerolog.Logger
}

func NewNotificationHandler(alerts service.AlertServiceInterface, triggers TriggerController, deliveries DeliveryLister) *NotificationHandler {
	return &NotificationHandler{alerts: alerts, triggers: triggers, deliveries: deliveries, log: logger.New("notification-handler")}
}

// Register mounts the notification routes.
func (nh *NotificationHandler) Register(r gin.IRouter) {
	g := r.Group("/notification")
	g.GET("/low-stock", nh.LowStockItems)
	g.POST("/low-stock", nh.PushLowStockAlert)
	g.POST("/control-triggers", nh.ControlTriggers)
	g.GET("/triggers", nh.TriggerStatus)
	g.GET("/deliveries", nh.RecentDeliveries)
}

func (nh *NotificationHandler) LowStockItems(c *gin.Context) {
	items, err := nh.alerts.GetLowStockItems(c.Request.Context())
	if err != nil {
		httpx.WriteError(c, nh.log, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (nh *NotificationHandler) PushLowStockAlert(c *gin.Context) {
	res, err := nh.alerts.PushLowStockAlert(c.Request.Context())
	if err != nil {
		httpx.WriteError(c, nh.log, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// ControlTriggers always answers with the state reached, even when nothing changed.
func (nh *NotificationHandler) ControlTriggers(c *gin.Context) {
	var req controlRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, controlFailure{
			Message:      "Invalid JSON body",
			TriggerState: nh.triggers.Status().TriggerState,
		})
		return
	}
	c.JSON(http.StatusOK, nh.triggers.ControlTriggers(req.WatchOrders, req.WatchTables))
}

func (nh *NotificationHandler) TriggerStatus(c *gin.Context) {
	c.JSON(http.StatusOK, nh.triggers.Status())
}

func (nh *NotificationHandler) RecentDeliveries(c *gin.Context) {
	limit := defaultDeliveriesLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			httpx.WriteError(c, nh.log, domain.Validationf("limit must be an integer"))
			return
		}
		limit = n
	}
	deliveries, err := nh.deliveries.RecentDeliveries(c.Request.Context(), limit)
	if err != nil {
		httpx.WriteError(c, nh.log, err)
		return
	}
	c.JSON(http.StatusOK, deliveries)
}
