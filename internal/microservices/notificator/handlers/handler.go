package handlers

import "restaurant-ops/internal/microservices/notificator/service"

type Handler struct {
	NotificationHandler *NotificationHandler
}

func New(s *service.Service) *Handler {
	return &Handler{
		NotificationHandler: NewNotificationHandler(s.AlertService, s.Triggers, s.Notifier),
	}
}
