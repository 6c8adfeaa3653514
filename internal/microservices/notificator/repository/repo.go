package repository

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"
)

type Repository struct {
	LookupRepo   LookupRepositoryInterface
	DeliveryRepo DeliveryRepositoryInterface // nil when Postgres is disabled
	Orders       ChangeSource
	Tables       ChangeSource
}

func New(db *mongo.Database, pool *pgxpool.Pool) *Repository {
	repo := &Repository{
		LookupRepo: NewLookupRepository(db),
		Orders:     NewOrderInsertSource(db),
		Tables:     NewTableChangeSource(db),
	}
	if pool != nil {
		repo.DeliveryRepo = NewDeliveryRepository(pool)
	}
	return repo
}
