package db

import (
	"context"
	"time"

	"github.com/geocoder89/cinemate/internal/repo/mongo"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

func NewMongo(ctx context.Context, uri, database string) (*mongodriver.Client, *mongodriver.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongodriver.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, err
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}

	mdb := client.Database(database)
	if err := mongo.EnsureIndexes(ctx, mdb); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}

	return client, mdb, nil
}
