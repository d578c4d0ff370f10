package source

import (
	"context"
	"io"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/supplychain/pkg/chain"
	"github.com/matzehuels/supplychain/pkg/errors"
)

// Source defaults.
const (
	DefaultDatabase        = "supplychain"
	DefaultItemsCollection = "items"
	DefaultConnsCollection = "connections"
	DefaultItemLabel       = "Item"
	DefaultParentRelation  = "PART_OF"
	DefaultNeo4jUser       = "neo4j"
	DefaultNeo4jDatabase   = "neo4j"
)

// Source loads a dataset.
type Source interface {
	// Name describes the source for logs, without credentials.
	Name() string

	// Load reads the whole dataset.
	Load(ctx context.Context) (chain.Data, error)

	// Close releases connections.
	Close(ctx context.Context) error
}

// Options configure database sources. Zero fields select the defaults.
type Options struct {
	// Database names the MongoDB database.
	Database string

	// ItemsCollection and ConnectionsCollection name the MongoDB
	// collections.
	ItemsCollection       string
	ConnectionsCollection string

	// ItemLabel is the Neo4j node label of items.
	ItemLabel string

	// ParentRelation is the Neo4j relationship type from a child to its
	// group. Such relationships set parentId instead of becoming connections.
	ParentRelation string

	// Neo4jUser and Neo4jPassword authenticate against Neo4j.
	Neo4jUser     string
	Neo4jPassword string

	// Neo4jDatabase names the Neo4j database.
	Neo4jDatabase string

	Logger *log.Logger
}

// WithDefaults returns a copy with zero fields set to their defaults.
func (o Options) WithDefaults() Options {
	if o.Database == "" {
		o.Database = DefaultDatabase
	}
	if o.ItemsCollection == "" {
		o.ItemsCollection = DefaultItemsCollection
	}
	if o.ConnectionsCollection == "" {
		o.ConnectionsCollection = DefaultConnsCollection
	}
	if o.ItemLabel == "" {
		o.ItemLabel = DefaultItemLabel
	}
	if o.ParentRelation == "" {
		o.ParentRelation = DefaultParentRelation
	}
	if o.Neo4jUser == "" {
		o.Neo4jUser = DefaultNeo4jUser
	}
	if o.Neo4jDatabase == "" {
		o.Neo4jDatabase = DefaultNeo4jDatabase
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	return o
}

// Open returns the source named by ref. Database sources connect lazily on
// the first Load.
func Open(ctx context.Context, ref string, opts Options) (Source, error) {
	if err := errors.ValidateSource(ref); err != nil {
		return nil, err
	}
	opts = opts.WithDefaults()
	if !strings.Contains(ref, "://") {
		return NewFile(ref, opts.Logger), nil
	}
	u, err := url.Parse(ref)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSource, err, "parse %q", ref)
	}
	switch u.Scheme {
	case "file":
		return NewFile(u.Path, opts.Logger), nil
	case "mongodb", "mongodb+srv":
		return NewMongo(ref, opts), nil
	case "neo4j", "neo4j+s", "bolt":
		return NewNeo4j(ref, opts)
	}
	return nil, errors.New(errors.ErrCodeInvalidSource, "unsupported source scheme %q", u.Scheme)
}

// redact strips credentials from a URI for logging.
func redact(ref string) string {
	u, err := url.Parse(ref)
	if err != nil || u.User == nil {
		return ref
	}
	u.User = url.User(u.User.Username())
	return u.String()
}
