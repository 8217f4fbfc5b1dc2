// Package mongo loads timeline events from a MongoDB collection.
//
// Each document is one event. The time fields may be stored as BSON
// dates, numbers or date strings:
//
//	{ "key": "launch", "time": ISODate("2024-03-01"), "text": "Launch" }
//
// Documents without a key use their ObjectID as identity.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/timeline/pkg/cache"
	"github.com/matzehuels/timeline/pkg/errors"
	"github.com/matzehuels/timeline/pkg/source"
	"github.com/matzehuels/timeline/pkg/timeline"
)

// DefaultTimeout bounds connecting and each query.
const DefaultTimeout = 10 * time.Second

// Store is a connected event collection.
type Store struct {
	client *mongo.Client
	coll   *mongo.Collection
	name   string
}

// Connect opens the collection and checks the server is reachable,
// retrying transient failures.
func Connect(ctx context.Context, uri, database, collection string) (*Store, error) {
	if err := errors.ValidateURL(uri, "mongodb", "mongodb+srv"); err != nil {
		return nil, err
	}
	if database == "" || collection == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "database and collection are required")
	}

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(uri).
		SetConnectTimeout(DefaultTimeout).
		SetServerSelectionTimeout(DefaultTimeout))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect to %s", database)
	}
	err = cache.RetryWithBackoff(ctx, func() error {
		return cache.Retryable(client.Ping(ctx, nil))
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "ping MongoDB")
	}
	return &Store{
		client: client,
		coll:   client.Database(database).Collection(collection),
		name:   database + "." + collection,
	}, nil
}

// Name is database.collection.
func (s *Store) Name() string { return s.name }

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// document is the stored form of an event.
type document struct {
	ID            bson.RawValue `bson:"_id"`
	Key           string        `bson:"key"`
	Time          bson.RawValue `bson:"time"`
	EndTime       bson.RawValue `bson:"end_time"`
	Text          string        `bson:"text"`
	Offset        float64       `bson:"offset"`
	OffsetTangent float64       `bson:"offset_tangent"`
	TextOffset    float64       `bson:"text_offset"`
}

// Load returns the events matching filter in time order. A nil filter
// matches every document.
func (s *Store) Load(ctx context.Context, filter bson.M) ([]timeline.Event, error) {
	if filter == nil {
		filter = bson.M{}
	}
	ctx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()

	cur, err := s.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "time", Value: 1}}))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "query %s", s.name)
	}
	var docs []document
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "read %s", s.name)
	}

	events := make([]timeline.Event, 0, len(docs))
	for i, d := range docs {
		ev, err := d.event()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidEvent, err, "document %d of %s", i, s.name)
		}
		events = append(events, ev)
	}
	return events, nil
}

// Insert stores events as documents.
func (s *Store) Insert(ctx context.Context, events []timeline.Event) error {
	if len(events) == 0 {
		return nil
	}
	docs := make([]any, len(events))
	for i, ev := range events {
		docs[i] = ev
	}
	if _, err := s.coll.InsertMany(ctx, docs); err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "insert into %s", s.name)
	}
	return nil
}

func (d document) event() (timeline.Event, error) {
	t, ok, err := timeValue(d.Time)
	if err != nil {
		return timeline.Event{}, err
	}
	if !ok {
		return timeline.Event{}, fmt.Errorf("missing time")
	}
	ev := timeline.Event{
		Key:           d.Key,
		Time:          t,
		Text:          d.Text,
		Offset:        d.Offset,
		OffsetTangent: d.OffsetTangent,
		TextOffset:    d.TextOffset,
	}
	if ev.Key == "" {
		if oid, ok := d.ID.ObjectIDOK(); ok {
			ev.Key = oid.Hex()
		}
	}
	end, ok, err := timeValue(d.EndTime)
	if err != nil {
		return timeline.Event{}, err
	}
	if ok {
		ev.EndTime = &end
	}
	return ev, nil
}

// timeValue converts a stored time. ok is false when the field is absent
// or null.
func timeValue(v bson.RawValue) (t float64, ok bool, err error) {
	switch v.Type {
	case 0, bson.TypeNull, bson.TypeUndefined:
		return 0, false, nil
	case bson.TypeDateTime:
		return float64(v.DateTime()), true, nil
	case bson.TypeDouble:
		return v.Double(), true, nil
	case bson.TypeInt32:
		return float64(v.Int32()), true, nil
	case bson.TypeInt64:
		return float64(v.Int64()), true, nil
	case bson.TypeString:
		t, err := source.ParseTime(v.StringValue())
		return t, err == nil, err
	case bson.TypeTimestamp:
		sec, _ := v.Timestamp()
		return float64(int64(sec) * 1000), true, nil
	}
	return 0, false, fmt.Errorf("unsupported time type %s", v.Type)
}

// Query is a source.Source reading one filter from a store.
type Query struct {
	Store  *Store
	Filter bson.M
}

// ID names the collection.
func (q Query) ID() string { return "mongodb:" + q.Store.Name() }

// Load runs the query.
func (q Query) Load(ctx context.Context) ([]timeline.Event, error) {
	return q.Store.Load(ctx, q.Filter)
}

var _ source.Source = Query{}
