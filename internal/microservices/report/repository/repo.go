package repository

import "go.mongodb.org/mongo-driver/mongo"

type Repository struct {
	ReportRepo ReportRepositoryInterface
}

func New(db *mongo.Database) *Repository {
	return &Repository{
		ReportRepo: NewReportRepository(db),
	}
}
