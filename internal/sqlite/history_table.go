package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/mesh-intelligence/satzkarte/pkg/types"
)

const historyColumns = "h.id, h.satznummer, h.machine, h.zestaw, h.operator, h.stone_type, h.data"

// CreateCard persists a new card header. An empty card.ID is replaced by a
// generated one; a zero CreatedAt is set to now. card is updated in place
// with the assigned ID, timestamp and row id. Returns the card ID.
func (b *Backend) CreateCard(ctx context.Context, card *types.Card) (string, error) {
	if !card.Set.Valid() {
		return "", types.ErrInvalidSet
	}

	err := b.withConn(ctx, "create card", func(conn *sql.Conn) error {
		if card.ID == "" {
			card.ID = types.NewCardID()
		}
		if card.CreatedAt.IsZero() {
			card.CreatedAt = b.timestamp()
		} else {
			card.CreatedAt = card.CreatedAt.In(b.loc).Truncate(time.Second)
		}

		res, err := conn.ExecContext(ctx,
			"INSERT INTO history (satznummer, machine, zestaw, operator, stone_type, data) VALUES (?, ?, ?, ?, ?, ?)",
			card.ID, card.Machine, card.Set.Selector(), card.Operator, card.StoneType, formatTimestamp(card.CreatedAt),
		)
		if err != nil {
			return storageErr("insert history", err)
		}
		seq, err := res.LastInsertId()
		if err != nil {
			return storageErr("insert history", err)
		}
		card.Seq = seq
		return nil
	})
	if err != nil {
		return "", err
	}
	return card.ID, nil
}

// GetCard returns the card with exactly this identifier. Identifiers are not
// unique in the table; the newest row wins.
// Returns ErrNotFound if there is no such card.
func (b *Backend) GetCard(ctx context.Context, id string) (*types.Card, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}

	var card *types.Card
	err := b.withConn(ctx, "get card", func(conn *sql.Conn) error {
		row := conn.QueryRowContext(ctx,
			"SELECT "+historyColumns+" FROM history h WHERE h.satznummer = ? ORDER BY h.id DESC LIMIT 1",
			id,
		)
		c, err := b.hydrateCard(row)
		if errors.Is(err, sql.ErrNoRows) {
			return types.ErrNotFound
		}
		if err != nil {
			return storageErr("select history", err)
		}
		card = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return card, nil
}

// QueryCards returns the cards matching every set field of f, newest first.
// Line-item fields of f (Code, Diameter) are ignored.
func (b *Backend) QueryCards(ctx context.Context, f types.Filter) ([]*types.Card, error) {
	p := headerPredicates("h", f)
	query := "SELECT " + historyColumns + " FROM history h" + p.where() + " ORDER BY h.id DESC"

	cards := []*types.Card{}
	err := b.withConn(ctx, "query cards", func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, query, p.args...)
		if err != nil {
			return storageErr("select history", err)
		}
		defer rows.Close()

		for rows.Next() {
			c, err := b.hydrateCard(rows)
			if err != nil {
				return storageErr("scan history", err)
			}
			cards = append(cards, c)
		}
		if err := rows.Err(); err != nil {
			return storageErr("iterate history", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cards, nil
}

// DeleteCard removes every line item of the card, then the card itself.
// Deleting an unknown card is not an error.
func (b *Backend) DeleteCard(ctx context.Context, id string) error {
	if id == "" {
		return types.ErrInvalidID
	}

	return b.withConn(ctx, "delete card", func(conn *sql.Conn) error {
		tx, err := conn.BeginTx(ctx, nil)
		if err != nil {
			return storageErr("begin transaction", err)
		}
		defer tx.Rollback()

		if _, err := tx.ExecContext(ctx, "DELETE FROM details WHERE satznummer = ?", id); err != nil {
			return storageErr("delete details", err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM history WHERE satznummer = ?", id); err != nil {
			return storageErr("delete history", err)
		}
		if err := tx.Commit(); err != nil {
			return storageErr("commit card deletion", err)
		}
		return nil
	})
}

// cardSet returns the declared set of the newest card with this id, and
// false when the card does not exist.
func (b *Backend) cardSet(ctx context.Context, conn *sql.Conn, id string) (types.DiameterSet, bool, error) {
	var selector sql.NullString
	err := conn.QueryRowContext(ctx,
		"SELECT zestaw FROM history WHERE satznummer = ? ORDER BY id DESC LIMIT 1", id,
	).Scan(&selector)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, storageErr("select history", err)
	}
	set, _ := types.ParseDiameterSet(selector.String)
	return set, true, nil
}

// hydrateCard scans one history row selected with historyColumns.
func (b *Backend) hydrateCard(row interface{ Scan(...any) error }) (*types.Card, error) {
	var (
		c                                    types.Card
		id, machine, zestaw, operator, stone sql.NullString
		data                                 sql.NullString
	)
	if err := row.Scan(&c.Seq, &id, &machine, &zestaw, &operator, &stone, &data); err != nil {
		return nil, err
	}
	c.ID = id.String
	c.Machine = machine.String
	c.Set, _ = types.ParseDiameterSet(zestaw.String)
	c.Operator = operator.String
	c.StoneType = stone.String
	c.CreatedAt = b.parseTimestamp(data.String)
	return &c, nil
}
