package source

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/supplychain/pkg/chain"
	"github.com/matzehuels/supplychain/pkg/errors"
)

// Mongo reads items and connections from two MongoDB collections. Item
// documents without an id field use their _id.
type Mongo struct {
	uri  string
	opts Options

	mu     sync.Mutex
	client *mongo.Client
}

// NewMongo returns a source for the MongoDB deployment at uri.
func NewMongo(uri string, opts Options) *Mongo {
	return &Mongo{uri: uri, opts: opts.WithDefaults()}
}

func (m *Mongo) Name() string {
	return redact(m.uri) + "/" + m.opts.Database
}

func (m *Mongo) connect(ctx context.Context) (*mongo.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.client != nil {
		return m.client, nil
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(m.uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSource, err, "connect %s", redact(m.uri))
	}
	m.client = client
	return client, nil
}

func (m *Mongo) Load(ctx context.Context) (chain.Data, error) {
	client, err := m.connect(ctx)
	if err != nil {
		return chain.Data{}, err
	}
	db := client.Database(m.opts.Database)

	start := time.Now()
	items, err := findAll(ctx, db.Collection(m.opts.ItemsCollection))
	if err != nil {
		return chain.Data{}, err
	}
	conns, err := findAll(ctx, db.Collection(m.opts.ConnectionsCollection))
	if err != nil {
		return chain.Data{}, err
	}

	for _, doc := range items {
		if _, ok := doc["id"]; !ok {
			doc["id"] = doc["_id"]
		}
		delete(doc, "_id")
	}
	for _, doc := range conns {
		delete(doc, "_id")
	}
	data, skipped := chain.DataFromMaps(items, conns)
	m.opts.Logger.Debug("mongo load", "source", m.Name(),
		"items", len(data.Items), "connections", len(data.Connections),
		"skipped", skipped, "elapsed", time.Since(start))
	return data, nil
}

func findAll(ctx context.Context, coll *mongo.Collection) ([]map[string]any, error) {
	cur, err := coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSource, err, "find %s", coll.Name())
	}
	var docs []bson.M
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(errors.ErrCodeSource, err, "read %s", coll.Name())
	}
	out := make([]map[string]any, len(docs))
	for i, d := range docs {
		out[i] = fromBSON(d).(map[string]any)
	}
	return out, nil
}

// fromBSON converts driver types to plain Go values.
func fromBSON(v any) any {
	switch x := v.(type) {
	case bson.M:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = fromBSON(e)
		}
		return out
	case bson.D:
		out := make(map[string]any, len(x))
		for _, e := range x {
			out[e.Key] = fromBSON(e.Value)
		}
		return out
	case bson.A:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = fromBSON(e)
		}
		return out
	case primitive.ObjectID:
		return x.Hex()
	case primitive.DateTime:
		return x.Time().UTC().Format(time.RFC3339)
	case primitive.Decimal128:
		return x.String()
	}
	return v
}

func (m *Mongo) Close(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.client == nil {
		return nil
	}
	err := m.client.Disconnect(ctx)
	m.client = nil
	return err
}

var _ Source = (*Mongo)(nil)
