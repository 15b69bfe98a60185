package mongo

import (
	"context"
	"fmt"

	"github.com/Abdurahmanit/GroupProject/plant-service/internal/repository"
	"go.mongodb.org/mongo-driver/mongo"
)

type transactor struct {
	client  *mongo.Client
	enabled bool
}

// NewTransactor returns a runner backed by session transactions. Transactions
// need a replica set; with enabled=false fn runs directly on the caller's ctx.
func NewTransactor(client *mongo.Client, enabled bool) repository.Transactor {
	return &transactor{client: client, enabled: enabled}
}

func (t *transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if !t.enabled || t.client == nil {
		return fn(ctx)
	}

	session, err := t.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start mongo session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		return nil, fn(sessCtx)
	})
	return err
}
