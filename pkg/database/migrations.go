package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Migration struct {
	Version     int
	Description string
	Up          func(*mongo.Database) error
}

type Migrator struct {
	db         *mongo.Database
	migrations []Migration
}

func NewMigrator(db *mongo.Database) *Migrator {
	return &Migrator{
		db:         db,
		migrations: getMigrations(),
	}
}

func (m *Migrator) Up() error {
	currentVersion, err := m.getCurrentVersion()
	if err != nil {
		return err
	}

	for _, migration := range m.migrations {
		if migration.Version > currentVersion {
			log.Printf("Running migration %d: %s", migration.Version, migration.Description)

			if err := migration.Up(m.db); err != nil {
				return fmt.Errorf("migration %d failed: %w", migration.Version, err)
			}

			if err := m.setVersion(migration.Version); err != nil {
				return fmt.Errorf("failed to update migration version: %w", err)
			}
		}
	}

	return nil
}

func (m *Migrator) getCurrentVersion() (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var doc struct {
		Version int `bson:"version"`
	}
	err := m.db.Collection("migrations").FindOne(ctx, bson.M{"_id": "schema"}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return doc.Version, nil
}

func (m *Migrator) setVersion(version int) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := m.db.Collection("migrations").UpdateOne(
		ctx,
		bson.M{"_id": "schema"},
		bson.M{"$set": bson.M{"version": version, "updated_at": time.Now()}},
		options.Update().SetUpsert(true),
	)
	return err
}

func getMigrations() []Migration {
	return []Migration{
		{
			Version:     1,
			Description: "create product indexes",
			Up: func(db *mongo.Database) error {
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				_, err := db.Collection("products").Indexes().CreateMany(ctx, []mongo.IndexModel{
					{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
					{Keys: bson.D{{Key: "brands.slug", Value: 1}}},
					{Keys: bson.D{{Key: "name", Value: "text"}}},
					{Keys: bson.D{{Key: "variations._id", Value: 1}}},
				})
				return err
			},
		},
		{
			Version:     2,
			Description: "create order indexes",
			Up: func(db *mongo.Database) error {
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				_, err := db.Collection("orders").Indexes().CreateMany(ctx, []mongo.IndexModel{
					{Keys: bson.D{{Key: "number", Value: 1}}, Options: options.Index().SetUnique(true)},
					{Keys: bson.D{{Key: "commission.ref_code", Value: 1}}},
					{Keys: bson.D{{Key: "commission.status", Value: 1}}},
				})
				return err
			},
		},
		{
			Version:     3,
			Description: "create options key index",
			Up: func(db *mongo.Database) error {
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				_, err := db.Collection("options").Indexes().CreateOne(ctx, mongo.IndexModel{
					Keys:    bson.D{{Key: "key", Value: 1}},
					Options: options.Index().SetUnique(true),
				})
				return err
			},
		},
	}
}
