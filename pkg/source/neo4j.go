package source

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/matzehuels/supplychain/pkg/chain"
	"github.com/matzehuels/supplychain/pkg/errors"
)

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Neo4j reads items from nodes with the item label and connections from
// the relationships between them. Nodes without an id property use their
// element id. Relationships of the parent type set the child's parentId.
type Neo4j struct {
	uri    string
	opts   Options
	driver neo4j.DriverWithContext
}

// NewNeo4j returns a source for the Neo4j server at uri.
func NewNeo4j(uri string, opts Options) (*Neo4j, error) {
	opts = opts.WithDefaults()
	for _, id := range []string{opts.ItemLabel, opts.ParentRelation} {
		if !identifier.MatchString(id) {
			return nil, errors.New(errors.ErrCodeInvalidInput, "invalid neo4j identifier %q", id)
		}
	}
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(opts.Neo4jUser, opts.Neo4jPassword, ""))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSource, err, "neo4j driver for %s", redact(uri))
	}
	return &Neo4j{uri: uri, opts: opts, driver: driver}, nil
}

func (n *Neo4j) Name() string { return redact(n.uri) }

func (n *Neo4j) query(ctx context.Context, cypher string) (*neo4j.EagerResult, error) {
	res, err := neo4j.ExecuteQuery(ctx, n.driver, cypher, nil,
		neo4j.EagerResultTransformer,
		neo4j.ExecuteQueryWithDatabase(n.opts.Neo4jDatabase),
		neo4j.ExecuteQueryWithReadersRouting())
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSource, err, "query %s", n.Name())
	}
	return res, nil
}

func (n *Neo4j) Load(ctx context.Context) (chain.Data, error) {
	start := time.Now()
	nodes, err := n.query(ctx, fmt.Sprintf("MATCH (n:`%s`) RETURN n", n.opts.ItemLabel))
	if err != nil {
		return chain.Data{}, err
	}
	rels, err := n.query(ctx, fmt.Sprintf("MATCH (:`%[1]s`)-[r]->(:`%[1]s`) RETURN r", n.opts.ItemLabel))
	if err != nil {
		return chain.Data{}, err
	}

	var nodeList []neo4j.Node
	for _, rec := range nodes.Records {
		if v, ok := rec.Get("n"); ok {
			if node, ok := v.(neo4j.Node); ok {
				nodeList = append(nodeList, node)
			}
		}
	}
	var relList []neo4j.Relationship
	for _, rec := range rels.Records {
		if v, ok := rec.Get("r"); ok {
			if rel, ok := v.(neo4j.Relationship); ok {
				relList = append(relList, rel)
			}
		}
	}

	items, conns := graphRecords(nodeList, relList, n.opts.ParentRelation)
	data, skipped := chain.DataFromMaps(items, conns)
	n.opts.Logger.Debug("neo4j load", "source", n.Name(),
		"items", len(data.Items), "connections", len(data.Connections),
		"skipped", skipped, "elapsed", time.Since(start))
	return data, nil
}

// graphRecords converts nodes and relationships to item and connection
// records.
func graphRecords(nodes []neo4j.Node, rels []neo4j.Relationship, parentType string) (items, conns []map[string]any) {
	ids := make(map[string]any, len(nodes))
	byElement := make(map[string]map[string]any, len(nodes))
	for _, node := range nodes {
		rec := make(map[string]any, len(node.Props)+1)
		for k, v := range node.Props {
			rec[k] = v
		}
		if _, ok := rec["id"]; !ok {
			rec["id"] = node.ElementId
		}
		ids[node.ElementId] = rec["id"]
		byElement[node.ElementId] = rec
		items = append(items, rec)
	}
	for _, rel := range rels {
		src, ok1 := ids[rel.StartElementId]
		tgt, ok2 := ids[rel.EndElementId]
		if !ok1 || !ok2 {
			continue
		}
		if rel.Type == parentType {
			if child := byElement[rel.StartElementId]; child["parentId"] == nil {
				child["parentId"] = tgt
			}
			continue
		}
		rec := make(map[string]any, len(rel.Props)+3)
		for k, v := range rel.Props {
			rec[k] = v
		}
		rec["sourceId"] = src
		rec["targetId"] = tgt
		if _, ok := rec["name"]; !ok {
			rec["name"] = rel.Type
		}
		conns = append(conns, rec)
	}
	return items, conns
}

func (n *Neo4j) Close(ctx context.Context) error { return n.driver.Close(ctx) }

var _ Source = (*Neo4j)(nil)
