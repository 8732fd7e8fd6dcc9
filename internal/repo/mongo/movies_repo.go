package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/geocoder89/cinemate/internal/domain/movie"
	"github.com/geocoder89/cinemate/internal/observability"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type movieDoc struct {
	ID          primitive.ObjectID `bson:"_id"`
	OwnerID     string             `bson:"ownerId"`
	Title       string             `bson:"title"`
	WatchedDate time.Time          `bson:"watchedDate"`
	Rating      int                `bson:"rating"`
	Genres      []string           `bson:"genres"`
	Tags        []string           `bson:"tags"`
	Director    string             `bson:"director"`
	Actors      []string           `bson:"actors"`
	Notes       string             `bson:"notes,omitempty"`
	PosterURL   string             `bson:"posterUrl,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt"`
}

func docFromMovie(id primitive.ObjectID, m movie.Movie) movieDoc {
	return movieDoc{
		ID:          id,
		OwnerID:     m.OwnerID,
		Title:       m.Title,
		WatchedDate: m.WatchedDate.Time,
		Rating:      m.Rating,
		Genres:      m.Genres,
		Tags:        m.Tags,
		Director:    m.Director,
		Actors:      m.Actors,
		Notes:       m.Notes,
		PosterURL:   m.PosterURL,
		CreatedAt:   m.CreatedAt,
	}
}

func (d movieDoc) toDomain() movie.Movie {
	return movie.Movie{
		ID:          d.ID.Hex(),
		OwnerID:     d.OwnerID,
		Title:       d.Title,
		WatchedDate: movie.NewDate(d.WatchedDate),
		Rating:      d.Rating,
		Genres:      d.Genres,
		Tags:        d.Tags,
		Director:    d.Director,
		Actors:      d.Actors,
		Notes:       d.Notes,
		PosterURL:   d.PosterURL,
		CreatedAt:   d.CreatedAt,
	}.WithLists()
}

type MoviesRepo struct {
	collection *mongo.Collection
	prom       *observability.Prom
}

func NewMoviesRepo(db *mongo.Database, prom *observability.Prom) *MoviesRepo {
	return &MoviesRepo{collection: db.Collection(moviesCollection), prom: prom}
}

func (r *MoviesRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func sortSpec(order movie.ListOrder) bson.D {
	switch order {
	case movie.OrderCreatedAsc:
		return bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}
	case movie.OrderCreatedDesc:
		return bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}}
	default:
		return bson.D{{Key: "watchedDate", Value: -1}, {Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}}
	}
}

// ownedBy is the single filter used by every id-scoped operation.
func ownedBy(id primitive.ObjectID, ownerID string) bson.M {
	return bson.M{"_id": id, "ownerId": ownerID}
}

func (r *MoviesRepo) ListByOwner(ctx context.Context, ownerID string, order movie.ListOrder) ([]movie.Movie, error) {
	var docs []movieDoc

	err := r.observe("movies.list_by_owner", func() error {
		cur, err := r.collection.Find(ctx, bson.M{"ownerId": ownerID}, options.Find().SetSort(sortSpec(order)))
		if err != nil {
			return err
		}
		return cur.All(ctx, &docs)
	})

	if err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}

	out := make([]movie.Movie, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}

	return out, nil
}

func (r *MoviesRepo) Create(ctx context.Context, ownerID string, req movie.CreateRequest) (movie.Movie, error) {
	m := movie.NewFromCreateRequest(ownerID, req)
	m.CreatedAt = m.CreatedAt.Truncate(time.Millisecond) // BSON dates have millisecond precision

	doc := docFromMovie(primitive.NewObjectID(), m)

	err := r.observe("movies.create", func() error {
		_, err := r.collection.InsertOne(ctx, doc)
		return err
	})

	if err != nil {
		return movie.Movie{}, fmt.Errorf("insert movie: %w", err)
	}

	return doc.toDomain(), nil
}

func (r *MoviesRepo) Update(ctx context.Context, id, ownerID string, req movie.UpdateRequest) (movie.Movie, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return movie.Movie{}, movie.ErrNotFound
	}

	var doc movieDoc

	if req.IsEmpty() {
		err = r.observe("movies.get", func() error {
			return r.collection.FindOne(ctx, ownedBy(oid, ownerID)).Decode(&doc)
		})
	} else {
		err = r.observe("movies.update", func() error {
			return r.collection.FindOneAndUpdate(ctx,
				ownedBy(oid, ownerID),
				bson.M{"$set": updateSet(req)},
				options.FindOneAndUpdate().SetReturnDocument(options.After),
			).Decode(&doc)
		})
	}

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return movie.Movie{}, movie.ErrNotFound
		}
		return movie.Movie{}, fmt.Errorf("update movie: %w", err)
	}

	return doc.toDomain(), nil
}

func (r *MoviesRepo) Delete(ctx context.Context, id, ownerID string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return movie.ErrNotFound
	}

	var res *mongo.DeleteResult
	err = r.observe("movies.delete", func() error {
		var err error
		res, err = r.collection.DeleteOne(ctx, ownedBy(oid, ownerID))
		return err
	})

	if err != nil {
		return fmt.Errorf("delete movie: %w", err)
	}

	if res.DeletedCount == 0 {
		return movie.ErrNotFound
	}

	return nil
}

func updateSet(req movie.UpdateRequest) bson.M {
	set := bson.M{}

	if req.Title != nil {
		set["title"] = *req.Title
	}
	if req.WatchedDate != nil {
		set["watchedDate"] = req.WatchedDate.Time
	}
	if req.Rating != nil {
		set["rating"] = *req.Rating
	}
	if req.Genres != nil {
		set["genres"] = *req.Genres
	}
	if req.Tags != nil {
		set["tags"] = *req.Tags
	}
	if req.Director != nil {
		set["director"] = *req.Director
	}
	if req.Actors != nil {
		set["actors"] = *req.Actors
	}
	if req.Notes != nil {
		set["notes"] = *req.Notes
	}
	if req.PosterURL != nil {
		set["posterUrl"] = *req.PosterURL
	}

	return set
}
