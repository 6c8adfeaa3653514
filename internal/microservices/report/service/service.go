package service

import (
	"time"

	"restaurant-ops/internal/microservices/report/repository"
)

type Service struct {
	ReportService ReportServiceInterface
}

func New(repo repository.Repository, loc *time.Location) *Service {
	return &Service{
		ReportService: NewReportService(repo.ReportRepo, loc),
	}
}
