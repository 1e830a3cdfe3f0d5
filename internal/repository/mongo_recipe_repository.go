package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Priyanka-Kadel/Cookbook-backend/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoRecipeRepository struct {
	collection *mongo.Collection
}

func NewMongoRecipeRepository(db *mongo.Database) RecipeRepository {
	return &mongoRecipeRepository{
		collection: db.Collection("recipes"),
	}
}

func (m *mongoRecipeRepository) CreateRecipe(ctx context.Context, recipe *domain.Recipe) error {
	now := time.Now()
	if recipe.ID == "" {
		recipe.ID = primitive.NewObjectID().Hex()
	}
	if recipe.CreatedAt.IsZero() {
		recipe.CreatedAt = now
	}
	recipe.UpdatedAt = now

	if _, err := m.collection.InsertOne(ctx, recipe); err != nil {
		return fmt.Errorf("failed to create recipe: %w", err)
	}
	return nil
}

func (m *mongoRecipeRepository) GetRecipe(ctx context.Context, id string) (*domain.Recipe, error) {
	var recipe domain.Recipe

	err := m.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&recipe)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrRecipeNotFound
		}
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}

	return &recipe, nil
}

func (m *mongoRecipeRepository) DeleteRecipe(ctx context.Context, id string) error {
	result, err := m.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}

	if result.DeletedCount == 0 {
		return ErrRecipeNotFound
	}

	return nil
}

func (m *mongoRecipeRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_by", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}

	if _, err := m.collection.Indexes().CreateMany(ctx, indexes, options.CreateIndexes()); err != nil {
		return fmt.Errorf("failed to create recipe indexes: %w", err)
	}

	return nil
}
