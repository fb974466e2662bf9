package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/mesh-intelligence/satzkarte/pkg/types"
)

const detailsColumns = "d.id, d.satznummer, d.code, d.diameter, d.status"

// SaveLineItems inserts lines for the card in the given order, each with
// status New. There is no surrounding transaction: a failure part way leaves
// the rows inserted so far.
func (b *Backend) SaveLineItems(ctx context.Context, cardID string, lines []types.Line) error {
	if cardID == "" {
		return types.ErrInvalidID
	}

	return b.withConn(ctx, "save line items", func(conn *sql.Conn) error {
		for _, l := range lines {
			if _, err := insertLineItem(ctx, conn, cardID, l); err != nil {
				return err
			}
		}
		return nil
	})
}

// AddLineItem inserts a single line for an existing card. The diameter must
// belong to the catalog of set, and set must match the card's declared set
// when the card is on record. Otherwise nothing is written and added is
// false.
func (b *Backend) AddLineItem(ctx context.Context, cardID string, line types.Line, set types.DiameterSet) (added bool, err error) {
	if cardID == "" {
		return false, types.ErrInvalidID
	}
	if !set.Contains(line.Diameter) {
		return false, nil
	}

	err = b.withConn(ctx, "add line item", func(conn *sql.Conn) error {
		declared, ok, err := b.cardSet(ctx, conn, cardID)
		if err != nil {
			return err
		}
		if ok && declared != set {
			return nil
		}
		if _, err := insertLineItem(ctx, conn, cardID, line); err != nil {
			return err
		}
		added = true
		return nil
	})
	return added, err
}

// CardLineItems returns the items of exactly this card in insertion order,
// which is the order they are printed in.
func (b *Backend) CardLineItems(ctx context.Context, cardID string) ([]*types.LineItem, error) {
	if cardID == "" {
		return nil, types.ErrInvalidID
	}
	return b.selectLineItems(ctx, "card line items",
		"SELECT "+detailsColumns+" FROM details d WHERE d.satznummer = ? ORDER BY d.id ASC",
		cardID,
	)
}

// QueryLineItems returns the items matching f, newest first. Header fields
// of f restrict the items to cards matching them; an item whose card is not
// on record never matches.
func (b *Backend) QueryLineItems(ctx context.Context, f types.Filter) ([]*types.LineItem, error) {
	header := headerPredicates("h", f)

	p := &predicates{}
	p.add("d.satznummer IN (SELECT h.satznummer FROM history h"+header.where()+")", header.args...)
	itemPredicates(p, "d", f)

	query := "SELECT " + detailsColumns + " FROM details d" + p.where() + " ORDER BY d.id DESC"
	return b.selectLineItems(ctx, "query line items", query, p.args...)
}

// UpdateLineItemStatus overwrites the status of one item.
// Returns ErrItemNotFound when no item has this id.
func (b *Backend) UpdateLineItemStatus(ctx context.Context, itemID int64, status string) error {
	return b.withConn(ctx, "update line item status", func(conn *sql.Conn) error {
		res, err := conn.ExecContext(ctx, "UPDATE details SET status = ? WHERE id = ?", strings.TrimSpace(status), itemID)
		if err != nil {
			return storageErr("update details", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return storageErr("update details", err)
		}
		if n == 0 {
			return types.ErrItemNotFound
		}
		return nil
	})
}

// DeleteLineItem removes exactly one item. The parent card and sibling items
// are untouched. Deleting an unknown item is not an error.
func (b *Backend) DeleteLineItem(ctx context.Context, itemID int64) error {
	return b.withConn(ctx, "delete line item", func(conn *sql.Conn) error {
		if _, err := conn.ExecContext(ctx, "DELETE FROM details WHERE id = ?", itemID); err != nil {
			return storageErr("delete details", err)
		}
		return nil
	})
}

func insertLineItem(ctx context.Context, conn *sql.Conn, cardID string, l types.Line) (int64, error) {
	res, err := conn.ExecContext(ctx,
		"INSERT INTO details (satznummer, code, diameter, status) VALUES (?, ?, ?, ?)",
		cardID, strings.TrimSpace(l.Code), l.Diameter, types.StatusNew,
	)
	if err != nil {
		return 0, storageErr("insert details", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, storageErr("insert details", err)
	}
	return id, nil
}

func (b *Backend) selectLineItems(ctx context.Context, op, query string, args ...any) ([]*types.LineItem, error) {
	items := []*types.LineItem{}
	err := b.withConn(ctx, op, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, query, args...)
		if err != nil {
			return storageErr("select details", err)
		}
		defer rows.Close()

		for rows.Next() {
			item, err := hydrateLineItem(rows)
			if err != nil {
				return storageErr("scan details", err)
			}
			items = append(items, item)
		}
		if err := rows.Err(); err != nil {
			return storageErr("iterate details", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

func hydrateLineItem(row interface{ Scan(...any) error }) (*types.LineItem, error) {
	var (
		li                   types.LineItem
		cardID, code, status sql.NullString
		diameter             sql.NullFloat64
	)
	if err := row.Scan(&li.ID, &cardID, &code, &diameter, &status); err != nil {
		return nil, err
	}
	li.CardID = cardID.String
	li.Code = code.String
	li.Diameter = diameter.Float64
	li.Status = status.String
	return &li, nil
}
