package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func ConnectMongoDB(ctx context.Context, uri, database string) (*mongo.Database, error) {
	clientOpts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(100).
		SetMinPoolSize(10)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	// Ping to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return client.Database(database), nil
}

// Repositories bundles the collection-backed repositories of one database.
type Repositories struct {
	Recipes RecipeRepository
	Carts   CartRepository
	Orders  OrderRepository
}

type indexer interface {
	CreateIndexes(ctx context.Context) error
}

// NewMongoRepositories builds every repository over db and creates their
// indexes.
func NewMongoRepositories(ctx context.Context, db *mongo.Database) (*Repositories, error) {
	recipes := NewMongoRecipeRepository(db)
	carts := NewMongoCartRepository(db)
	orders := NewMongoOrderRepository(db)

	for _, r := range []any{recipes, carts, orders} {
		if ix, ok := r.(indexer); ok {
			if err := ix.CreateIndexes(ctx); err != nil {
				return nil, err
			}
		}
	}

	return &Repositories{Recipes: recipes, Carts: carts, Orders: orders}, nil
}
