package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const mongoTimeout = 10 * time.Second

// ConnectMongo connects to uri and returns the named database once the
// primary answers a ping.
func ConnectMongo(ctx context.Context, uri, dbName string, log *slog.Logger) (*mongo.Database, error) {
	var client *mongo.Client
	err := retry(ctx, log, connectAttempts, connectBackoff, func() error {
		connectCtx, cancel := context.WithTimeout(ctx, mongoTimeout)
		defer cancel()
		var err error
		client, err = mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
		if err != nil {
			return err
		}
		if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
			_ = client.Disconnect(context.Background())
			return err
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	log.Info("mongodb connection established", slog.String("database", dbName))
	return client.Database(dbName), nil
}
