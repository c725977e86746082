package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/toyfactory/toyfactory/backend/go-services/internal/catalog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const projectsCounter = "projects"

// MongoRepo stores projects in a collection keyed by integer _id. Ids come
// from an $inc on a counters document, so a deleted id is never handed out
// again.
type MongoRepo struct {
	col      *mongo.Collection
	counters *mongo.Collection
}

var (
	_ Repository = (*MongoRepo)(nil)
	_ Seeder     = (*MongoRepo)(nil)
)

// NewMongoRepo uses the "projects" and "counters" collections of db.
func NewMongoRepo(ctx context.Context, db *mongo.Database) (*MongoRepo, error) {
	r := &MongoRepo{col: db.Collection("projects"), counters: db.Collection("counters")}
	idx := mongo.IndexModel{Keys: bson.D{{Key: "category", Value: 1}, {Key: "_id", Value: 1}}}
	if _, err := r.col.Indexes().CreateOne(ctx, idx); err != nil {
		return nil, fmt.Errorf("create category index: %w", err)
	}
	return r, nil
}

func (m *MongoRepo) nextID(ctx context.Context) (int64, error) {
	var doc struct {
		Seq int64 `bson:"seq"`
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	err := m.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": projectsCounter},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		opts,
	).Decode(&doc)
	if err != nil {
		return 0, fmt.Errorf("next project id: %w", err)
	}
	return doc.Seq, nil
}

func (m *MongoRepo) find(ctx context.Context, filter bson.M) ([]*catalog.Project, error) {
	cur, err := m.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*catalog.Project{}
	for cur.Next(ctx) {
		var p catalog.Project
		if err := cur.Decode(&p); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, cur.Err()
}

func (m *MongoRepo) List(ctx context.Context) ([]*catalog.Project, error) {
	return m.find(ctx, bson.M{})
}

func (m *MongoRepo) ListByCategory(ctx context.Context, category string) ([]*catalog.Project, error) {
	return m.find(ctx, bson.M{"category": category})
}

func (m *MongoRepo) Get(ctx context.Context, id int64) (*catalog.Project, error) {
	var p catalog.Project
	err := m.col.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (m *MongoRepo) Create(ctx context.Context, in catalog.Input) (*catalog.Project, error) {
	id, err := m.nextID(ctx)
	if err != nil {
		return nil, err
	}
	p := catalog.NewProject(id, in, mongoNow())
	if _, err := m.col.InsertOne(ctx, p); err != nil {
		return nil, fmt.Errorf("insert project: %w", err)
	}
	return p, nil
}

// mongoNow matches the millisecond precision of BSON dates, so a created
// record equals what a later read returns.
func mongoNow() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// updatePipeline sets the patched fields and stamps updatedAt, never earlier
// than createdAt. Values go through $literal so strings starting with "$" are
// stored as text, not read as field paths.
func updatePipeline(patch catalog.Patch, now time.Time) mongo.Pipeline {
	set := bson.D{}
	for _, f := range patch.Fields() {
		set = append(set, bson.E{Key: f.Name, Value: bson.D{{Key: "$literal", Value: f.Value}}})
	}
	set = append(set, bson.E{Key: "updatedAt", Value: bson.D{{Key: "$max", Value: bson.A{now, "$createdAt"}}}})
	return mongo.Pipeline{{{Key: "$set", Value: set}}}
}

func (m *MongoRepo) Update(ctx context.Context, id int64, patch catalog.Patch) (*catalog.Project, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var p catalog.Project
	err := m.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, updatePipeline(patch, mongoNow()), opts).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (m *MongoRepo) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := m.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

// Seed inserts records with their own ids and raises the counter so later
// creates continue after the highest seeded id.
func (m *MongoRepo) Seed(ctx context.Context, projects []*catalog.Project) error {
	var maxID int64
	for _, p := range projects {
		if _, err := m.col.InsertOne(ctx, p); err != nil {
			return fmt.Errorf("seed project %d: %w", p.ID, err)
		}
		if p.ID > maxID {
			maxID = p.ID
		}
	}
	_, err := m.counters.UpdateOne(ctx,
		bson.M{"_id": projectsCounter},
		bson.M{"$max": bson.M{"seq": maxID}},
		options.Update().SetUpsert(true),
	)
	return err
}
