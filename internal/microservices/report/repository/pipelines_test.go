package repository

import (
	"testing"
	"time"

	"restaurant-ops/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func stageNames(p mongo.Pipeline) []string {
	names := make([]string, 0, len(p))
	for _, s := range p {
		names = append(names, s[0].Key)
	}
	return names
}

func lookup(t *testing.T, d bson.D, key string) any {
	t.Helper()
	for _, e := range d {
		if e.Key == key {
			return e.Value
		}
	}
	t.Fatalf("key %q not found in %v", key, d)
	return nil
}

func TestSalesPipeline(t *testing.T) {
	since := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	p := salesPipeline(since, "Asia/Almaty")

	assert.Equal(t, []string{"$match", "$group", "$sort"}, stageNames(p))

	createdAt := lookup(t, p[0][0].Value.(bson.D), "createdAt").(bson.D)
	assert.Equal(t, since, lookup(t, createdAt, "$gte"))

	group := p[1][0].Value.(bson.D)
	dateToString := lookup(t, lookup(t, group, "_id").(bson.D), "$dateToString").(bson.D)
	assert.Equal(t, "%Y-%m-%d", lookup(t, dateToString, "format"))
	assert.Equal(t, "Asia/Almaty", lookup(t, dateToString, "timezone"))

	assert.Equal(t, -1, lookup(t, p[2][0].Value.(bson.D), "_id"))
}

func TestEmployeePipeline_ExcludesCancelled(t *testing.T) {
	id := primitive.NewObjectID()
	p := employeePipeline(id)

	assert.Equal(t, []string{"$match", "$group", "$lookup", "$unwind", "$project"}, stageNames(p))

	match := p[0][0].Value.(bson.D)
	assert.Equal(t, id, lookup(t, match, "assignedStaff"))
	assert.Equal(t, domain.OrderCancelled, lookup(t, lookup(t, match, "status").(bson.D), "$ne"))
	assert.Equal(t, domain.CollUsers, lookup(t, p[2][0].Value.(bson.D), "from"))
}

func TestMenuPopularityPipeline(t *testing.T) {
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 1, 31, 23, 59, 59, 0, time.UTC)
	p := menuPopularityPipeline(Window{From: from, To: to})

	assert.Equal(t,
		[]string{"$match", "$unwind", "$group", "$sort", "$lookup", "$lookup", "$project", "$sort"},
		stageNames(p))

	createdAt := lookup(t, p[0][0].Value.(bson.D), "createdAt").(bson.D)
	assert.Equal(t, from, lookup(t, createdAt, "$gte"))
	assert.Equal(t, to, lookup(t, createdAt, "$lte"))

	feedback := p[5][0].Value.(bson.D)
	assert.Equal(t, domain.CollFeedbacks, lookup(t, feedback, "from"))
	sub := lookup(t, feedback, "pipeline").(mongo.Pipeline)
	require.Len(t, sub, 3)
	assert.Equal(t, []string{"$unwind", "$match", "$group"}, stageNames(sub))

	project := p[6][0].Value.(bson.D)
	for _, field := range []string{"totalRating", "avgRating"} {
		ifNull := lookup(t, lookup(t, project, field).(bson.D), "$ifNull").(bson.A)
		assert.Equal(t, 0, ifNull[1], field)
	}
}

func TestWindowFilter_OpenEnded(t *testing.T) {
	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	createdAt := lookup(t, Window{From: from}.filter(), "createdAt").(bson.D)
	assert.Len(t, createdAt, 1)
}

func TestUserStatusPipeline(t *testing.T) {
	statuses := []domain.UserStatus{domain.UserActive, domain.UserSuspended}
	p := userStatusPipeline(statuses)

	assert.Equal(t, []string{"$match", "$sort", "$group"}, stageNames(p))
	status := lookup(t, p[0][0].Value.(bson.D), "status").(bson.D)
	assert.Equal(t, statuses, lookup(t, status, "$in"))
}
