package store

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names used by the document backend.
const (
	MoviesCollection     = "movies"
	WatchlistsCollection = "watchlists"
)

// MongoOptions controls the document-store client.
type MongoOptions struct {
	ConnTimeout time.Duration
	Logger      *log.Logger
}

// Mongo owns the MongoDB client and the database holding both collections.
type Mongo struct {
	client *mongo.Client
	db     *mongo.Database
	logger *log.Logger
	opts   MongoOptions
}

// NewMongo connects to MongoDB, pings it and ensures the collection indexes.
func NewMongo(ctx context.Context, uri, database string, opts MongoOptions) (*Mongo, error) {
	logger := orDefault(opts.Logger)
	logger.Printf("store: connecting to mongodb (database=%s)", database)

	connCtx, cancel := withTimeout(ctx, opts.ConnTimeout)
	defer cancel()

	clientOpts := options.Client().ApplyURI(uri)
	if opts.ConnTimeout > 0 {
		clientOpts.SetConnectTimeout(opts.ConnTimeout)
	}
	client, err := mongo.Connect(connCtx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(connCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	m := &Mongo{client: client, db: client.Database(database), logger: logger, opts: opts}
	if err := m.EnsureIndexes(connCtx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	logger.Println("store: mongodb connection established")
	return m, nil
}

// EnsureIndexes creates the unique watchlist name index.
func (m *Mongo) EnsureIndexes(ctx context.Context) error {
	nameIdx := mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := m.db.Collection(WatchlistsCollection).Indexes().CreateOne(ctx, nameIdx); err != nil {
		return fmt.Errorf("create watchlist name index: %w", err)
	}
	return nil
}

// Close disconnects the client.
func (m *Mongo) Close() {
	if m == nil || m.client == nil {
		return
	}
	m.logger.Println("store: disconnecting mongodb")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := m.client.Disconnect(ctx); err != nil {
		m.logger.Printf("store: mongodb disconnect: %v", err)
	}
}

// HealthCheck verifies the server is reachable.
func (m *Mongo) HealthCheck(ctx context.Context) error {
	if m == nil || m.client == nil {
		return fmt.Errorf("store not initialized")
	}
	checkCtx, cancel := withTimeout(ctx, m.opts.ConnTimeout)
	defer cancel()
	return m.client.Ping(checkCtx, nil)
}

// Database exposes the database handle for repositories.
func (m *Mongo) Database() *mongo.Database {
	return m.db
}
