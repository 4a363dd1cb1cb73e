package docstore

import (
	"context"
	"fmt"
	"sort"

	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"
)

const (
	fieldID             = "id"
	fieldResource       = "resource"
	fieldRequiredFields = "required_fields"
	fieldText           = "text"
	fieldEmbedding      = "embedding"
)

// MilvusStore implements Store against a Milvus collection. Construct once
// per process and Close when done.
type MilvusStore struct {
	mc         client.Client
	collection string
	batchSize  int
	rowCap     int
	dimension  int
}

type MilvusOptions struct {
	Address    string
	Collection string
	BatchSize  int
	RowCap     int
	Dimension  int
}

func NewMilvusStore(ctx context.Context, opts MilvusOptions) (*MilvusStore, error) {
	mc, err := client.NewClient(ctx, client.Config{Address: opts.Address})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to milvus at %s: %w", opts.Address, err)
	}
	s := &MilvusStore{
		mc:         mc,
		collection: opts.Collection,
		batchSize:  opts.BatchSize,
		rowCap:     opts.RowCap,
		dimension:  opts.Dimension,
	}
	if s.batchSize <= 0 {
		s.batchSize = 1000
	}
	if s.rowCap <= 0 {
		s.rowCap = 16000
	}
	return s, nil
}

func (s *MilvusStore) Close() error {
	return s.mc.Close()
}

func (s *MilvusStore) Query(ctx context.Context, resource string) ([]string, []string, error) {
	expr := fmt.Sprintf("resource == %q", resource)
	rows := paginate(func(offset, limit int) ([]Row, error) {
		return s.queryPage(ctx, expr, offset, limit)
	}, s.batchSize, s.rowCap)

	chunks, required := collectRows(rows)
	if len(chunks) == 0 {
		return nil, nil, ErrNoDocumentation
	}
	return chunks, required, nil
}

func (s *MilvusStore) queryPage(ctx context.Context, expr string, offset, limit int) ([]Row, error) {
	rs, err := s.mc.Query(ctx, s.collection, nil, expr,
		[]string{fieldText, fieldRequiredFields},
		client.WithOffset(int64(offset)), client.WithLimit(int64(limit)))
	if err != nil {
		return nil, err
	}

	texts := varcharData(rs.GetColumn(fieldText))
	reqs := varcharData(rs.GetColumn(fieldRequiredFields))

	rows := make([]Row, 0, len(texts))
	for i, text := range texts {
		row := Row{Text: text}
		if i < len(reqs) {
			row.RequiredFields = reqs[i]
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ListResources reads distinct resource names, best effort via query.
func (s *MilvusStore) ListResources(ctx context.Context) ([]string, error) {
	rs, err := s.mc.Query(ctx, s.collection, nil, `resource != ""`,
		[]string{fieldResource}, client.WithLimit(int64(s.rowCap)))
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	for _, name := range varcharData(rs.GetColumn(fieldResource)) {
		if name != "" {
			seen[name] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out, nil
}

func varcharData(col entity.Column) []string {
	vc, ok := col.(*entity.ColumnVarChar)
	if !ok {
		return nil
	}
	return vc.Data()
}

// EnsureCollection creates and indexes the documentation collection if it
// does not exist yet, then loads it for querying.
func (s *MilvusStore) EnsureCollection(ctx context.Context) error {
	has, err := s.mc.HasCollection(ctx, s.collection)
	if err != nil {
		return err
	}
	if !has {
		schema := entity.NewSchema().
			WithName(s.collection).
			WithDescription("CloudStack Terraform docs + schema metadata").
			WithField(entity.NewField().WithName(fieldID).WithDataType(entity.FieldTypeVarChar).WithMaxLength(36).WithIsPrimaryKey(true)).
			WithField(entity.NewField().WithName(fieldResource).WithDataType(entity.FieldTypeVarChar).WithMaxLength(128)).
			WithField(entity.NewField().WithName(fieldRequiredFields).WithDataType(entity.FieldTypeVarChar).WithMaxLength(2048)).
			WithField(entity.NewField().WithName(fieldText).WithDataType(entity.FieldTypeVarChar).WithMaxLength(65535)).
			WithField(entity.NewField().WithName(fieldEmbedding).WithDataType(entity.FieldTypeFloatVector).WithDim(int64(s.dimension)))
		if err := s.mc.CreateCollection(ctx, schema, entity.DefaultShardNumber); err != nil {
			return fmt.Errorf("failed to create collection: %w", err)
		}
		idx, err := entity.NewIndexIvfFlat(entity.COSINE, 128)
		if err != nil {
			return err
		}
		if err := s.mc.CreateIndex(ctx, s.collection, fieldEmbedding, idx, false); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return s.mc.LoadCollection(ctx, s.collection, false)
}

// DocRow is one chunk ready for insertion at ingest time.
type DocRow struct {
	ID        string
	Resource  string
	Required  string // JSON array of field names
	Text      string
	Embedding []float32
}

func (s *MilvusStore) InsertRows(ctx context.Context, rows []DocRow) error {
	if len(rows) == 0 {
		return nil
	}
	ids := make([]string, len(rows))
	resources := make([]string, len(rows))
	required := make([]string, len(rows))
	texts := make([]string, len(rows))
	vectors := make([][]float32, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
		resources[i] = r.Resource
		required[i] = r.Required
		texts[i] = r.Text
		vectors[i] = r.Embedding
	}
	_, err := s.mc.Insert(ctx, s.collection, "",
		entity.NewColumnVarChar(fieldID, ids),
		entity.NewColumnVarChar(fieldResource, resources),
		entity.NewColumnVarChar(fieldRequiredFields, required),
		entity.NewColumnVarChar(fieldText, texts),
		entity.NewColumnFloatVector(fieldEmbedding, s.dimension, vectors),
	)
	return err
}

func (s *MilvusStore) Flush(ctx context.Context) error {
	return s.mc.Flush(ctx, s.collection, false)
}
