// Package mongostore implements docstore.Store on a MongoDB collection.
// Documents keep the native ObjectID in _id; callers only ever see it as the
// hex string id field.
package mongostore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/angelmondragon/storyboard-backend/pkg/docstore"
)

const nativeID = "_id"

type Store[T any] struct {
	coll *mongo.Collection
	desc docstore.Collection[T]
}

func New[T any](db *mongo.Database, desc docstore.Collection[T]) (*Store[T], error) {
	if db == nil {
		return nil, errors.New("mongo database required")
	}
	if desc.Name == "" {
		return nil, errors.New("collection name required")
	}
	return &Store[T]{coll: db.Collection(desc.Name), desc: desc}, nil
}

// EnsureUniqueIndex creates a single-field unique index when missing.
func (s *Store[T]) EnsureUniqueIndex(ctx context.Context, field string) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: field, Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("index %s.%s: %w", s.desc.Name, field, err)
	}
	return nil
}

func (s *Store[T]) Create(ctx context.Context, record *T) (*T, error) {
	if record == nil {
		return nil, errors.New("record required")
	}
	doc, err := toDocument(record)
	if err != nil {
		return nil, err
	}

	res, err := s.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, s.translate("insert", err)
	}

	created, err := s.findOne(ctx, bson.M{nativeID: res.InsertedID})
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, fmt.Errorf("%s %v missing after insert", s.desc.Name, res.InsertedID)
	}
	return created, nil
}

func (s *Store[T]) List(ctx context.Context, filter docstore.Filter, limit int) ([]T, error) {
	out := make([]T, 0)
	query, ok := translateFilter(filter)
	if !ok {
		return out, nil
	}

	// Driver-assigned ObjectIDs grow monotonically within a process, so _id
	// order is insertion order.
	opts := options.Find().
		SetSort(bson.D{{Key: nativeID, Value: 1}}).
		SetLimit(int64(docstore.EffectiveLimit(limit)))
	cur, err := s.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, s.translate("list", err)
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var raw bson.M
		if err := cur.Decode(&raw); err != nil {
			return nil, fmt.Errorf("decode %s: %w", s.desc.Name, err)
		}
		rec, err := fromDocument[T](raw)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	if err := cur.Err(); err != nil {
		return nil, s.translate("list", err)
	}
	return out, nil
}

func (s *Store[T]) GetOne(ctx context.Context, filter docstore.Filter) (*T, error) {
	query, ok := translateFilter(filter)
	if !ok {
		return nil, nil
	}
	return s.findOne(ctx, query)
}

func (s *Store[T]) Update(ctx context.Context, filter docstore.Filter, patch docstore.Patch) (*T, error) {
	query, ok := translateFilter(filter)
	if !ok {
		return nil, nil
	}

	var raw bson.M
	err := s.coll.FindOne(ctx, query).Decode(&raw)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, s.translate("update", err)
	}
	id := raw[nativeID]

	fields := bson.M{}
	for k, v := range docstore.WithoutID(patch) {
		if k == nativeID {
			continue
		}
		fields[k] = v
	}
	if len(fields) > 0 {
		if _, err := s.coll.UpdateByID(ctx, id, bson.M{"$set": fields}); err != nil {
			return nil, s.translate("update", err)
		}
	}
	return s.findOne(ctx, bson.M{nativeID: id})
}

func (s *Store[T]) Delete(ctx context.Context, filter docstore.Filter) (bool, error) {
	query, ok := translateFilter(filter)
	if !ok {
		return false, nil
	}
	res, err := s.coll.DeleteOne(ctx, query)
	if err != nil {
		return false, s.translate("delete", err)
	}
	return res.DeletedCount == 1, nil
}

func (s *Store[T]) findOne(ctx context.Context, query bson.M) (*T, error) {
	var raw bson.M
	err := s.coll.FindOne(ctx, query).Decode(&raw)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, s.translate("get", err)
	}
	return fromDocument[T](raw)
}

func (s *Store[T]) translate(op string, err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%s %s: %w: %v", op, s.desc.Name, docstore.ErrDuplicate, err)
	}
	return fmt.Errorf("%s %s: %w", op, s.desc.Name, err)
}

// translateFilter rewrites the id field into an _id ObjectID match. The
// second result is false when the id cannot be an ObjectID, meaning nothing
// can match.
func translateFilter(filter docstore.Filter) (bson.M, bool) {
	out := bson.M{}
	for k, v := range filter {
		if k != docstore.FieldID {
			out[k] = v
			continue
		}
		raw, ok := v.(string)
		if !ok {
			return nil, false
		}
		oid, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return nil, false
		}
		out[nativeID] = oid
	}
	return out, true
}

// toDocument encodes record and drops the id field so the server assigns _id.
func toDocument[T any](record *T) (bson.M, error) {
	raw, err := bson.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	doc := bson.M{}
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	delete(doc, docstore.FieldID)
	delete(doc, nativeID)
	return doc, nil
}

// normalize moves _id into id as a string.
func normalize(doc bson.M) bson.M {
	v, ok := doc[nativeID]
	if !ok {
		return doc
	}
	delete(doc, nativeID)
	switch id := v.(type) {
	case primitive.ObjectID:
		doc[docstore.FieldID] = id.Hex()
	case string:
		doc[docstore.FieldID] = id
	default:
		doc[docstore.FieldID] = fmt.Sprint(id)
	}
	return doc
}

func fromDocument[T any](doc bson.M) (*T, error) {
	raw, err := bson.Marshal(normalize(doc))
	if err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	var out T
	if err := bson.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return &out, nil
}
