package mongostore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func TestNewStoreDisconnectsOnIndexFailure(t *testing.T) {
	ctx := context.Background()

	// Nothing listens here, so creating the indexes fails on server selection
	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI("mongodb://127.0.0.1:1").
		SetServerSelectionTimeout(100*time.Millisecond))
	require.NoError(t, err)

	s, err := newStore(ctx, client, "files_test")
	require.Error(t, err)
	assert.Nil(t, s)

	assert.ErrorIs(t, client.Disconnect(ctx), mongo.ErrClientDisconnected)
}
