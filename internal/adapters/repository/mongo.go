package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/okian/mawsim/internal/domain/model"
	"github.com/okian/mawsim/internal/domain/types"
	"github.com/okian/mawsim/pkg/metrics"
)

const defaultConnectTimeout = 10 * time.Second

// MongoStore reads the records from the campaigns, contents and
// socialmedias collections of a MongoDB database.
type MongoStore struct {
	client         *mongo.Client
	db             *mongo.Database
	loc            *time.Location
	connectTimeout time.Duration
}

// NewMongoStore connects to uri and pings the server before returning.
func NewMongoStore(ctx context.Context, uri, database string, opts ...MongoOption) (*MongoStore, error) {
	if uri == "" || database == "" {
		return nil, fmt.Errorf("%w: mongo uri and database are required", ErrInvalidSource)
	}
	s := &MongoStore{loc: time.UTC, connectTimeout: defaultConnectTimeout}
	for _, opt := range opts {
		opt(s)
	}

	cctx, cancel := context.WithTimeout(ctx, s.connectTimeout)
	defer cancel()

	clientOptions := options.Client().ApplyURI(uri).
		SetConnectTimeout(s.connectTimeout).
		SetMaxPoolSize(50)
	client, err := mongo.Connect(cctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(cctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	s.client = client
	s.db = client.Database(database)
	return s, nil
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

type metricsDoc struct {
	Impressions *float64 `bson:"impressions,omitempty"`
	Clicks      *float64 `bson:"clicks,omitempty"`
	Conversions *float64 `bson:"conversions,omitempty"`
	Engagement  *float64 `bson:"engagement,omitempty"`
	ROI         *float64 `bson:"roi,omitempty"`
}

type performanceDoc struct {
	Date    *time.Time `bson:"date,omitempty"`
	Metrics metricsDoc `bson:"metrics"`
}

type campaignDoc struct {
	ID          primitive.ObjectID `bson:"_id"`
	Name        string             `bson:"name"`
	Status      string             `bson:"status"`
	CreatedAt   time.Time          `bson:"createdAt"`
	Performance []performanceDoc   `bson:"performance"`
}

type contentDoc struct {
	ID            primitive.ObjectID `bson:"_id"`
	Campaign      primitive.ObjectID `bson:"campaign"`
	Title         string             `bson:"title"`
	Type          string             `bson:"type"`
	Channel       string             `bson:"channel"`
	Status        string             `bson:"status"`
	PublishedDate *time.Time         `bson:"publishedDate,omitempty"`
	Performance   metricsDoc         `bson:"performance"`
}

type socialDoc struct {
	ID          primitive.ObjectID `bson:"_id"`
	Campaign    primitive.ObjectID `bson:"campaign"`
	Platform    string             `bson:"platform"`
	AccountName string             `bson:"accountName"`
	Followers   *float64           `bson:"followers,omitempty"`
}

func (d metricsDoc) model() model.Metrics {
	return model.Metrics{
		Impressions: types.FloatPtr(d.Impressions),
		Clicks:      types.FloatPtr(d.Clicks),
		Conversions: types.FloatPtr(d.Conversions),
		Engagement:  types.FloatPtr(d.Engagement),
		ROI:         types.FloatPtr(d.ROI),
	}
}

// dateIn converts a stored instant to the calendar date it falls on in loc.
// Nil stays the zero date.
func dateIn(t *time.Time, loc *time.Location) types.Date {
	if t == nil || t.IsZero() {
		return types.Date{}
	}
	return types.DateOf(t.In(loc))
}

func (d campaignDoc) model(loc *time.Location) model.Campaign {
	c := model.Campaign{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Status:      model.CampaignStatus(d.Status),
		CreatedAt:   d.CreatedAt,
		Performance: make([]model.PerformanceEntry, len(d.Performance)),
	}
	for i, p := range d.Performance {
		c.Performance[i] = model.PerformanceEntry{Date: dateIn(p.Date, loc), Metrics: p.Metrics.model()}
	}
	return c
}

func (d contentDoc) model(loc *time.Location) model.Content {
	return model.Content{
		ID:            d.ID.Hex(),
		CampaignID:    d.Campaign.Hex(),
		Title:         d.Title,
		Type:          model.ContentType(d.Type),
		Channel:       model.Channel(d.Channel),
		Status:        model.ContentStatus(d.Status),
		PublishedDate: dateIn(d.PublishedDate, loc),
		Performance:   d.Performance.model(),
	}
}

func (d socialDoc) model() model.SocialAccount {
	a := model.SocialAccount{
		ID:          d.ID.Hex(),
		CampaignID:  d.Campaign.Hex(),
		Platform:    model.Platform(d.Platform),
		AccountName: d.AccountName,
	}
	if d.Followers != nil {
		a.Followers = *d.Followers
	}
	return a
}

// find runs a query and decodes every document, recording latency.
func find[T any](ctx context.Context, coll *mongo.Collection, filter any, opts ...*options.FindOptions) ([]T, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreFetch(coll.Name(), float64(time.Since(start).Microseconds())/1000)
	}()

	cursor, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		metrics.RecordStoreFetchError(coll.Name())
		return nil, fmt.Errorf("find %s: %w", coll.Name(), err)
	}
	var docs []T
	if err := cursor.All(ctx, &docs); err != nil {
		metrics.RecordStoreFetchError(coll.Name())
		return nil, fmt.Errorf("decode %s: %w", coll.Name(), err)
	}
	return docs, nil
}

// Campaigns implements Store.
func (s *MongoStore) Campaigns(ctx context.Context) ([]model.Campaign, error) {
	docs, err := find[campaignDoc](ctx, s.db.Collection(CollectionCampaigns), bson.M{})
	if err != nil {
		return nil, err
	}
	out := make([]model.Campaign, len(docs))
	for i, d := range docs {
		out[i] = d.model(s.loc)
	}
	metrics.UpdateStoreRecords(CollectionCampaigns, len(out))
	return out, nil
}

// Campaign implements Store.
func (s *MongoStore) Campaign(ctx context.Context, id string) (model.Campaign, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return model.Campaign{}, fmt.Errorf("campaign %q: %w", id, ErrNotFound)
	}

	start := time.Now()
	defer func() {
		metrics.RecordStoreFetch(CollectionCampaigns, float64(time.Since(start).Microseconds())/1000)
	}()

	var doc campaignDoc
	err = s.db.Collection(CollectionCampaigns).FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.Campaign{}, fmt.Errorf("campaign %q: %w", id, ErrNotFound)
	}
	if err != nil {
		metrics.RecordStoreFetchError(CollectionCampaigns)
		return model.Campaign{}, fmt.Errorf("find campaign %q: %w", id, err)
	}
	return doc.model(s.loc), nil
}

// contentQuery translates f into a MongoDB filter. ok is false when the
// filter cannot match anything.
func contentQuery(f ContentFilter) (bson.M, bool) {
	q := bson.M{}
	if f.CampaignID != "" {
		oid, err := primitive.ObjectIDFromHex(f.CampaignID)
		if err != nil {
			return nil, false
		}
		q["campaign"] = oid
	}
	if f.Status != "" {
		q["status"] = string(f.Status)
	}
	return q, true
}

// Contents implements Store.
func (s *MongoStore) Contents(ctx context.Context, f ContentFilter) ([]model.Content, error) {
	q, ok := contentQuery(f)
	if !ok {
		return []model.Content{}, nil
	}
	docs, err := find[contentDoc](ctx, s.db.Collection(CollectionContents), q,
		options.Find().SetSort(bson.D{{Key: "publishedDate", Value: -1}}))
	if err != nil {
		return nil, err
	}

	names, err := s.campaignNames(ctx, docs)
	if err != nil {
		return nil, err
	}
	out := make([]model.Content, len(docs))
	for i, d := range docs {
		out[i] = d.model(s.loc)
		out[i].CampaignName = names[d.Campaign]
	}
	return out, nil
}

// campaignNames loads the names of the campaigns the contents belong to.
func (s *MongoStore) campaignNames(ctx context.Context, docs []contentDoc) (map[primitive.ObjectID]string, error) {
	names := make(map[primitive.ObjectID]string)
	ids := make([]primitive.ObjectID, 0)
	for _, d := range docs {
		if _, seen := names[d.Campaign]; !seen {
			names[d.Campaign] = ""
			ids = append(ids, d.Campaign)
		}
	}
	if len(ids) == 0 {
		return names, nil
	}

	type nameDoc struct {
		ID   primitive.ObjectID `bson:"_id"`
		Name string             `bson:"name"`
	}
	found, err := find[nameDoc](ctx, s.db.Collection(CollectionCampaigns),
		bson.M{"_id": bson.M{"$in": ids}},
		options.Find().SetProjection(bson.M{"name": 1}))
	if err != nil {
		return nil, err
	}
	for _, n := range found {
		names[n.ID] = n.Name
	}
	return names, nil
}

// SocialAccounts implements Store.
func (s *MongoStore) SocialAccounts(ctx context.Context) ([]model.SocialAccount, error) {
	docs, err := find[socialDoc](ctx, s.db.Collection(CollectionSocial), bson.M{})
	if err != nil {
		return nil, err
	}
	out := make([]model.SocialAccount, len(docs))
	for i, d := range docs {
		out[i] = d.model()
	}
	return out, nil
}
