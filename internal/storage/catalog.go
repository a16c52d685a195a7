package storage

import (
	"sort"

	"github.com/ghosecorp/fdbreader/internal/metadata"
	"github.com/ghosecorp/fdbreader/internal/util"
)

// discoverTables lists the relations recorded in RDB$RELATIONS in page and
// slot order.
func discoverTables(ps *PageStore, charset Charset, logger *util.Logger) ([]*Table, error) {
	tables := make([]*Table, 0)

	err := ps.scanRelation(RelationRelations, func(data []byte) error {
		entry, ok := metadata.ParseRelation(data)
		if !ok {
			return nil
		}
		tables = append(tables, &Table{
			Name:     entry.Name,
			Relation: entry.ID,
			store:    ps,
			charset:  charset,
			logger:   logger,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tables, nil
}

// fieldIndex reads every RDB$FIELDS record into a name index.
func fieldIndex(ps *PageStore) (*metadata.Store, error) {
	store := metadata.NewStore()
	err := ps.scanRelation(RelationFields, func(data []byte) error {
		if entry, ok := metadata.ParseField(data); ok {
			store.Add(entry)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

// resolveColumns joins the RDB$RELATION_FIELDS rows of the named relation
// with their RDB$FIELDS definitions. The result is ordered by position. A
// field without a definition is read as a zero-width SMALLINT.
func resolveColumns(ps *PageStore, table string, logger *util.Logger) ([]Column, error) {
	fields, err := fieldIndex(ps)
	if err != nil {
		return nil, err
	}

	columns := make([]Column, 0)
	err = ps.scanRelation(RelationRelationFields, func(data []byte) error {
		entry, ok := metadata.ParseRelationField(data)
		if !ok || entry.Relation != table {
			return nil
		}

		def, ok := fields.Lookup(entry.Source)
		if !ok {
			logger.Warn("%v, reading it as SMALLINT", util.MissingType(entry.Name, entry.Source))
			def = metadata.FieldEntry{Name: entry.Source, TypeCode: int16(TypeSmallint)}
		}
		ct, ok := ParseColumnType(def.TypeCode)
		if !ok {
			return util.UnknownType(entry.Name, entry.Source, def.TypeCode)
		}

		columns = append(columns, Column{
			Name:     entry.Name,
			Position: entry.Position,
			Source:   entry.Source,
			Size:     def.Size,
			Scale:    def.Scale,
			Type:     ct,
			NotNull:  entry.NotNull,
			Computed: def.Computed,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(columns, func(i, j int) bool {
		return columns[i].Position < columns[j].Position
	})
	return columns, nil
}
