package repository

import (
	"time"

	"restaurant-ops/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Window bounds createdAt. A zero To leaves the window open-ended.
type Window struct {
	From time.Time
	To   time.Time
}

func (w Window) filter() bson.D {
	bounds := bson.D{{Key: "$gte", Value: w.From}}
	if !w.To.IsZero() {
		bounds = append(bounds, bson.E{Key: "$lte", Value: w.To})
	}
	return bson.D{{Key: "createdAt", Value: bounds}}
}

func stage(name string, value any) bson.D {
	return bson.D{{Key: name, Value: value}}
}

func salesPipeline(since time.Time, timezone string) mongo.Pipeline {
	return mongo.Pipeline{
		stage("$match", Window{From: since}.filter()),
		stage("$group", bson.D{
			{Key: "_id", Value: bson.D{{Key: "$dateToString", Value: bson.D{
				{Key: "format", Value: "%Y-%m-%d"},
				{Key: "date", Value: "$createdAt"},
				{Key: "timezone", Value: timezone},
			}}}},
			{Key: "totalSales", Value: bson.D{{Key: "$sum", Value: "$totalPrice"}}},
			{Key: "totalOrders", Value: bson.D{{Key: "$sum", Value: 1}}},
		}),
		stage("$sort", bson.D{{Key: "_id", Value: -1}}),
	}
}

func employeePipeline(employeeID primitive.ObjectID) mongo.Pipeline {
	return mongo.Pipeline{
		stage("$match", bson.D{
			{Key: "assignedStaff", Value: employeeID},
			{Key: "status", Value: bson.D{{Key: "$ne", Value: domain.OrderCancelled}}},
		}),
		stage("$group", bson.D{
			{Key: "_id", Value: "$assignedStaff"},
			{Key: "totalOrders", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "totalRevenue", Value: bson.D{{Key: "$sum", Value: "$totalPrice"}}},
		}),
		stage("$lookup", bson.D{
			{Key: "from", Value: domain.CollUsers},
			{Key: "localField", Value: "_id"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "employee"},
		}),
		stage("$unwind", "$employee"),
		stage("$project", bson.D{
			{Key: "_id", Value: 0},
			{Key: "employeeName", Value: bson.D{{Key: "$trim", Value: bson.D{{Key: "input", Value: bson.D{
				{Key: "$concat", Value: bson.A{
					bson.D{{Key: "$ifNull", Value: bson.A{"$employee.firstName", ""}}},
					" ",
					bson.D{{Key: "$ifNull", Value: bson.A{"$employee.lastName", ""}}},
				}},
			}}}}}},
			{Key: "totalOrders", Value: 1},
			{Key: "totalRevenue", Value: 1},
		}),
	}
}

func feedbackPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		stage("$match", bson.D{{Key: "rating", Value: bson.D{{Key: "$exists", Value: true}}}}),
		stage("$group", bson.D{
			{Key: "_id", Value: "$rating"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}),
		stage("$sort", bson.D{{Key: "_id", Value: 1}}),
	}
}

// menuPopularityPipeline counts order lines per menu item inside the window,
// left-joins the item name and joins only the ratings given to that item.
func menuPopularityPipeline(w Window) mongo.Pipeline {
	firstOrZero := func(field string) bson.D {
		return bson.D{{Key: "$ifNull", Value: bson.A{
			bson.D{{Key: "$arrayElemAt", Value: bson.A{field, 0}}},
			0,
		}}}
	}
	byPopularity := bson.D{{Key: "totalOrders", Value: -1}, {Key: "_id", Value: 1}}

	return mongo.Pipeline{
		stage("$match", w.filter()),
		stage("$unwind", "$items"),
		stage("$group", bson.D{
			{Key: "_id", Value: "$items.menuItem"},
			{Key: "totalOrders", Value: bson.D{{Key: "$sum", Value: 1}}},
		}),
		stage("$sort", byPopularity),
		stage("$lookup", bson.D{
			{Key: "from", Value: domain.CollMenuItems},
			{Key: "localField", Value: "_id"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "menuItem"},
		}),
		stage("$lookup", bson.D{
			{Key: "from", Value: domain.CollFeedbacks},
			{Key: "let", Value: bson.D{{Key: "itemId", Value: "$_id"}}},
			{Key: "pipeline", Value: mongo.Pipeline{
				stage("$unwind", "$menuItemRatings"),
				stage("$match", bson.D{{Key: "$expr", Value: bson.D{
					{Key: "$eq", Value: bson.A{"$menuItemRatings.menuItem", "$$itemId"}},
				}}}),
				stage("$group", bson.D{
					{Key: "_id", Value: nil},
					{Key: "totalRating", Value: bson.D{{Key: "$sum", Value: "$menuItemRatings.rating"}}},
					{Key: "avgRating", Value: bson.D{{Key: "$avg", Value: "$menuItemRatings.rating"}}},
				}),
			}},
			{Key: "as", Value: "ratings"},
		}),
		stage("$project", bson.D{
			{Key: "totalOrders", Value: 1},
			{Key: "name", Value: bson.D{{Key: "$arrayElemAt", Value: bson.A{"$menuItem.name", 0}}}},
			{Key: "totalRating", Value: firstOrZero("$ratings.totalRating")},
			{Key: "avgRating", Value: firstOrZero("$ratings.avgRating")},
		}),
		stage("$sort", byPopularity),
	}
}

func userStatusPipeline(statuses []domain.UserStatus) mongo.Pipeline {
	return mongo.Pipeline{
		stage("$match", bson.D{{Key: "status", Value: bson.D{{Key: "$in", Value: statuses}}}}),
		stage("$sort", bson.D{{Key: "username", Value: 1}}),
		stage("$group", bson.D{
			{Key: "_id", Value: "$status"},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "usernames", Value: bson.D{{Key: "$push", Value: "$username"}}},
		}),
	}
}
