package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Clark-Hu/movie-watchlist/internal/domain"
)

type movieDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Title     string             `bson:"title"`
	Genre     string             `bson:"genre"`
	Person    string             `bson:"person"`
	CreatedAt time.Time          `bson:"createdAt"`
}

func (d movieDocument) toDomain() domain.Movie {
	return domain.Movie{
		ID:        d.ID.Hex(),
		Title:     d.Title,
		Genre:     d.Genre,
		Person:    d.Person,
		CreatedAt: d.CreatedAt.UTC(),
	}
}

type watchlistDocument struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty"`
	Name      string               `bson:"name"`
	Movies    []primitive.ObjectID `bson:"movies"`
	CreatedAt time.Time            `bson:"createdAt"`
}

func (d watchlistDocument) toDomain() domain.Watchlist {
	ids := make([]string, 0, len(d.Movies))
	for _, oid := range d.Movies {
		ids = append(ids, oid.Hex())
	}
	return domain.Watchlist{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Movies:    ids,
		CreatedAt: d.CreatedAt.UTC(),
	}
}

// MongoMovies stores movies in a MongoDB collection.
type MongoMovies struct {
	coll *mongo.Collection
}

// Create inserts a new movie document.
func (r *MongoMovies) Create(ctx context.Context, in domain.MovieInput) (domain.Movie, error) {
	doc := movieDocument{
		ID:        primitive.NewObjectID(),
		Title:     in.Title,
		Genre:     in.Genre,
		Person:    in.Person,
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return domain.Movie{}, fmt.Errorf("insert movie: %w", err)
	}
	return doc.toDomain(), nil
}

// List returns every movie ordered by id, which follows insertion order.
func (r *MongoMovies) List(ctx context.Context) ([]domain.Movie, error) {
	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []movieDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode movies: %w", err)
	}
	items := make([]domain.Movie, 0, len(docs))
	for _, doc := range docs {
		items = append(items, doc.toDomain())
	}
	return items, nil
}

// GetByID fetches a movie by its hex identifier.
func (r *MongoMovies) GetByID(ctx context.Context, id string) (domain.Movie, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.Movie{}, ErrNotFound
	}
	var doc movieDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Movie{}, ErrNotFound
		}
		return domain.Movie{}, fmt.Errorf("get movie: %w", err)
	}
	return doc.toDomain(), nil
}

// FindByIDs fetches all movies whose id is in ids. Malformed ids are ignored.
func (r *MongoMovies) FindByIDs(ctx context.Context, ids []string) (map[string]domain.Movie, error) {
	out := make(map[string]domain.Movie, len(ids))
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}
	if len(oids) == 0 {
		return out, nil
	}

	cursor, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, fmt.Errorf("find movies: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []movieDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode movies: %w", err)
	}
	for _, doc := range docs {
		movie := doc.toDomain()
		out[movie.ID] = movie
	}
	return out, nil
}

// MongoWatchlists stores watchlists in a MongoDB collection guarded by a
// unique index on name.
type MongoWatchlists struct {
	coll *mongo.Collection
}

// Create inserts the named watchlist.
func (r *MongoWatchlists) Create(ctx context.Context, name string) (domain.Watchlist, error) {
	doc := watchlistDocument{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Movies:    []primitive.ObjectID{},
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.Watchlist{}, fmt.Errorf("%w: watchlist %q", ErrDuplicate, name)
		}
		return domain.Watchlist{}, fmt.Errorf("insert watchlist: %w", err)
	}
	return doc.toDomain(), nil
}

// Get returns the named watchlist.
func (r *MongoWatchlists) Get(ctx context.Context, name string) (domain.Watchlist, error) {
	var doc watchlistDocument
	if err := r.coll.FindOne(ctx, bson.M{"name": name}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Watchlist{}, ErrNotInitialized
		}
		return domain.Watchlist{}, fmt.Errorf("get watchlist: %w", err)
	}
	return doc.toDomain(), nil
}

// AppendMovie pushes movieID with $push and returns the post-update document.
func (r *MongoWatchlists) AppendMovie(ctx context.Context, name, movieID string) (domain.Watchlist, error) {
	oid, err := primitive.ObjectIDFromHex(movieID)
	if err != nil {
		return domain.Watchlist{}, fmt.Errorf("%w: movie %q", ErrNotFound, movieID)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$push": bson.M{"movies": oid}}

	var doc watchlistDocument
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"name": name}, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Watchlist{}, ErrNotInitialized
		}
		return domain.Watchlist{}, fmt.Errorf("append watchlist movie: %w", err)
	}
	return doc.toDomain(), nil
}

// List returns every watchlist with raw movie references.
func (r *MongoWatchlists) List(ctx context.Context) ([]domain.Watchlist, error) {
	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list watchlists: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []watchlistDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode watchlists: %w", err)
	}
	items := make([]domain.Watchlist, 0, len(docs))
	for _, doc := range docs {
		items = append(items, doc.toDomain())
	}
	return items, nil
}
