package repository

import (
	"context"
	"errors"
	"fmt"

	"restaurant-ops/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type LookupRepositoryInterface interface {
	FindUser(ctx context.Context, id primitive.ObjectID) (domain.User, error)
	FindUsersByRole(ctx context.Context, role domain.Role) ([]domain.User, error)
	FindMenuItems(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]domain.MenuItem, error)
	FindTable(ctx context.Context, id primitive.ObjectID) (domain.Table, error)
	FindLatestReservation(ctx context.Context, tableID primitive.ObjectID) (domain.Reservation, error)
	FindLowStock(ctx context.Context) ([]domain.InventoryItem, error)
}

type LookupRepository struct {
	db *mongo.Database
}

func NewLookupRepository(db *mongo.Database) LookupRepositoryInterface {
	return &LookupRepository{db: db}
}

func (r *LookupRepository) FindUser(ctx context.Context, id primitive.ObjectID) (domain.User, error) {
	var u domain.User
	if err := findOne(ctx, r.db.Collection(domain.CollUsers), bson.D{{Key: "_id", Value: id}}, &u); err != nil {
		return domain.User{}, fmt.Errorf("user %s: %w", id.Hex(), err)
	}
	return u, nil
}

func (r *LookupRepository) FindUsersByRole(ctx context.Context, role domain.Role) ([]domain.User, error) {
	cur, err := r.db.Collection(domain.CollUsers).Find(ctx, bson.D{{Key: "role", Value: role}})
	if err != nil {
		return nil, fmt.Errorf("users by role %s: %w", role, err)
	}
	var users []domain.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("users by role %s: %w", role, err)
	}
	return users, nil
}

func (r *LookupRepository) FindMenuItems(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]domain.MenuItem, error) {
	items := make(map[primitive.ObjectID]domain.MenuItem, len(ids))
	if len(ids) == 0 {
		return items, nil
	}
	filter := bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: ids}}}}
	cur, err := r.db.Collection(domain.CollMenuItems).Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("menu items: %w", err)
	}
	var found []domain.MenuItem
	if err := cur.All(ctx, &found); err != nil {
		return nil, fmt.Errorf("menu items: %w", err)
	}
	for _, it := range found {
		items[it.ID] = it
	}
	return items, nil
}

func (r *LookupRepository) FindTable(ctx context.Context, id primitive.ObjectID) (domain.Table, error) {
	var t domain.Table
	if err := findOne(ctx, r.db.Collection(domain.CollTables), bson.D{{Key: "_id", Value: id}}, &t); err != nil {
		return domain.Table{}, fmt.Errorf("table %s: %w", id.Hex(), err)
	}
	return t, nil
}

// FindLatestReservation returns the reservation for the table with the latest date.
func (r *LookupRepository) FindLatestReservation(ctx context.Context, tableID primitive.ObjectID) (domain.Reservation, error) {
	var res domain.Reservation
	opts := options.FindOne().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: -1}})
	err := findOne(ctx, r.db.Collection(domain.CollReservations), bson.D{{Key: "table", Value: tableID}}, &res, opts)
	if err != nil {
		return domain.Reservation{}, fmt.Errorf("reservation for table %s: %w", tableID.Hex(), err)
	}
	return res, nil
}

func (r *LookupRepository) FindLowStock(ctx context.Context) ([]domain.InventoryItem, error) {
	filter := bson.D{{Key: "$expr", Value: bson.D{{Key: "$lte", Value: bson.A{"$quantity", "$lowStockThreshold"}}}}}
	cur, err := r.db.Collection(domain.CollInventories).Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "ingredient", Value: 1}}))
	if err != nil {
		return nil, lowStockErr(err)
	}
	var items []domain.InventoryItem
	if err := cur.All(ctx, &items); err != nil {
		return nil, lowStockErr(err)
	}
	return items, nil
}

func lowStockErr(err error) error {
	if mongo.IsTimeout(err) && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("low stock items: %w: %w", context.DeadlineExceeded, err)
	}
	return fmt.Errorf("low stock items: %w", err)
}

func findOne(ctx context.Context, coll *mongo.Collection, filter bson.D, out any, opts ...*options.FindOneOptions) error {
	err := coll.FindOne(ctx, filter, opts...).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.ErrNotFound
	}
	return err
}
