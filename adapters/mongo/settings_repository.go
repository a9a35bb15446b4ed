package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/satriahrh/voicesync/domain/entities"
	"github.com/satriahrh/voicesync/domain/repositories"
)

const (
	settingsCollection = "admin_settings"
	settingsDocumentID = "admin"
)

// settingsDocument is the stored form of the singleton admin settings
type settingsDocument struct {
	ID                     string `bson:"_id"`
	entities.AdminSettings `bson:",inline"`
}

type SettingsRepository struct {
	collection *mongo.Collection
}

// NewSettingsRepository creates a settings store backed by a single document
func NewSettingsRepository(db *mongo.Database) repositories.SettingsStore {
	return &SettingsRepository{
		collection: db.Collection(settingsCollection),
	}
}

// Load implements repositories.SettingsStore
func (r *SettingsRepository) Load(ctx context.Context) (*entities.AdminSettings, error) {
	var doc settingsDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": settingsDocumentID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return &entities.AdminSettings{}, nil
		}
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return &doc.AdminSettings, nil
}

// Save implements repositories.SettingsStore
func (r *SettingsRepository) Save(ctx context.Context, settings *entities.AdminSettings) error {
	if settings == nil {
		return errors.New("settings cannot be nil")
	}

	doc := settingsDocument{ID: settingsDocumentID, AdminSettings: *settings}
	_, err := r.collection.ReplaceOne(ctx,
		bson.M{"_id": settingsDocumentID},
		doc,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
