package sqlite

import (
	"context"
	"database/sql"

	"github.com/mesh-intelligence/satzkarte/pkg/types"
)

const exportQuery = `SELECT h.satznummer, h.machine, h.zestaw, h.operator, h.data,
       d.code, d.diameter, d.status
FROM history h
JOIN details d ON h.satznummer = d.satznummer`

// ExportRows returns the joined (card, item) rows matching f in card, then
// item, insertion order. Cards without items do not appear.
func (b *Backend) ExportRows(ctx context.Context, f types.Filter) ([]types.ExportRow, error) {
	p := headerPredicates("h", f)
	itemPredicates(p, "d", f)
	return b.selectExportRows(ctx, p)
}

// ExportCardRows is ExportRows restricted to exactly one card identifier.
func (b *Backend) ExportCardRows(ctx context.Context, cardID string) ([]types.ExportRow, error) {
	if cardID == "" {
		return nil, types.ErrInvalidID
	}
	p := &predicates{}
	p.add("h.satznummer = ?", cardID)
	return b.selectExportRows(ctx, p)
}

func (b *Backend) selectExportRows(ctx context.Context, p *predicates) ([]types.ExportRow, error) {
	query := exportQuery + p.where() + " ORDER BY h.id ASC, d.id ASC"

	out := []types.ExportRow{}
	err := b.withConn(ctx, "export rows", func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, query, p.args...)
		if err != nil {
			return storageErr("select export rows", err)
		}
		defer rows.Close()

		for rows.Next() {
			var (
				r                                         types.ExportRow
				id, machine, zestaw, operator, data, code sql.NullString
				status                                    sql.NullString
				diameter                                  sql.NullFloat64
			)
			if err := rows.Scan(&id, &machine, &zestaw, &operator, &data, &code, &diameter, &status); err != nil {
				return storageErr("scan export row", err)
			}
			r.CardID = id.String
			r.Machine = machine.String
			r.Set, _ = types.ParseDiameterSet(zestaw.String)
			r.Operator = operator.String
			r.CreatedAt = data.String
			r.Code = code.String
			r.Diameter = diameter.Float64
			r.Status = status.String
			out = append(out, r)
		}
		if err := rows.Err(); err != nil {
			return storageErr("iterate export rows", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
