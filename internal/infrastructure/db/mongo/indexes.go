package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

type indexer interface {
	EnsureIndexes(ctx context.Context) error
}

// EnsureIndexes creates the indexes of every collection the service uses.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	repos := map[string]indexer{
		identityCollection:        NewIdentityRepository(db),
		collectionPatients:        NewPatientRepository(db),
		collectionServiceRequests: NewServiceRequestRepository(db),
		collectionTransactions:    NewTransactionRepository(db),
		collectionLifecycleEvents: NewAuditRepository(db),
	}
	for name, repo := range repos {
		if err := repo.EnsureIndexes(ctx); err != nil {
			return fmt.Errorf("ensure indexes on %s: %w", name, err)
		}
	}
	return nil
}
