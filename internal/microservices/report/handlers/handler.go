package handlers

import "restaurant-ops/internal/microservices/report/service"

type Handler struct {
	ReportHandler *ReportHandler
}

func New(s *service.Service) *Handler {
	return &Handler{
		ReportHandler: NewReportHandler(s.ReportService),
	}
}
