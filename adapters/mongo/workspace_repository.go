package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/satriahrh/voicesync/domain/entities"
	"github.com/satriahrh/voicesync/domain/repositories"
)

const workspacesCollection = "workspaces"

// WorkspaceRepository reads agent bindings out of workspace documents. The
// workspace subsystem owns the collection; this repository never writes.
type WorkspaceRepository struct {
	collection *mongo.Collection
}

// NewWorkspaceRepository creates a new MongoDB workspace repository
func NewWorkspaceRepository(db *mongo.Database) repositories.WorkspaceStore {
	return &WorkspaceRepository{
		collection: db.Collection(workspacesCollection),
	}
}

// ListAll implements repositories.WorkspaceStore
func (r *WorkspaceRepository) ListAll(ctx context.Context) ([]entities.WorkspaceAgentBinding, error) {
	opts := options.Find().SetProjection(bson.M{
		"associatedAgentId": 1,
		"selectedVoiceId":   1,
	})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}
	defer cursor.Close(ctx)

	var bindings []entities.WorkspaceAgentBinding
	if err := cursor.All(ctx, &bindings); err != nil {
		return nil, fmt.Errorf("failed to decode workspaces: %w", err)
	}
	return bindings, nil
}
