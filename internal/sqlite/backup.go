package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// BackupStats counts the rows written or read by Backup and Restore.
type BackupStats struct {
	Cards int
	Items int
}

// Backup writes every history and details row to dir/history.jsonl and
// dir/details.jsonl. Each file is replaced atomically.
func (b *Backend) Backup(ctx context.Context, dir string) (BackupStats, error) {
	var stats BackupStats
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return stats, fmt.Errorf("creating backup dir: %w", err)
	}

	var (
		history []historyJSON
		details []detailJSON
	)
	err := b.withConn(ctx, "backup", func(conn *sql.Conn) error {
		var err error
		if history, err = dumpHistory(ctx, conn); err != nil {
			return err
		}
		details, err = dumpDetails(ctx, conn)
		return err
	})
	if err != nil {
		return stats, err
	}

	hr, err := marshalRecords(history)
	if err != nil {
		return stats, err
	}
	if err := writeJSONL(filepath.Join(dir, historyJSONL), hr); err != nil {
		return stats, fmt.Errorf("persisting %s: %w", historyJSONL, err)
	}
	dr, err := marshalRecords(details)
	if err != nil {
		return stats, err
	}
	if err := writeJSONL(filepath.Join(dir, detailsJSONL), dr); err != nil {
		return stats, fmt.Errorf("persisting %s: %w", detailsJSONL, err)
	}

	stats.Cards = len(history)
	stats.Items = len(details)
	return stats, nil
}

// Restore loads a backup written by Backup. Rows keep their ids; a row whose
// id already exists is replaced. Malformed lines are skipped.
func (b *Backend) Restore(ctx context.Context, dir string) (BackupStats, error) {
	var stats BackupStats

	hr, err := readJSONL(filepath.Join(dir, historyJSONL))
	if err != nil {
		return stats, err
	}
	dr, err := readJSONL(filepath.Join(dir, detailsJSONL))
	if err != nil {
		return stats, err
	}

	err = b.withConn(ctx, "restore", func(conn *sql.Conn) error {
		tx, err := conn.BeginTx(ctx, nil)
		if err != nil {
			return storageErr("begin transaction", err)
		}
		defer tx.Rollback()

		for _, raw := range hr {
			var h historyJSON
			if err := json.Unmarshal(raw, &h); err != nil {
				continue
			}
			_, err := tx.ExecContext(ctx,
				"INSERT OR REPLACE INTO history (id, satznummer, machine, zestaw, operator, stone_type, data) VALUES (?, ?, ?, ?, ?, ?, ?)",
				h.ID, h.Satznummer, h.Machine, h.Zestaw, h.Operator, h.StoneType, h.Data,
			)
			if err != nil {
				return storageErr("restore history", err)
			}
			stats.Cards++
		}
		for _, raw := range dr {
			var d detailJSON
			if err := json.Unmarshal(raw, &d); err != nil {
				continue
			}
			_, err := tx.ExecContext(ctx,
				"INSERT OR REPLACE INTO details (id, satznummer, code, diameter, status) VALUES (?, ?, ?, ?, ?)",
				d.ID, d.Satznummer, d.Code, d.Diameter, d.Status,
			)
			if err != nil {
				return storageErr("restore details", err)
			}
			stats.Items++
		}
		if err := tx.Commit(); err != nil {
			return storageErr("commit restore", err)
		}
		return nil
	})
	if err != nil {
		return BackupStats{}, err
	}
	return stats, nil
}

func dumpHistory(ctx context.Context, conn *sql.Conn) ([]historyJSON, error) {
	rows, err := conn.QueryContext(ctx,
		"SELECT id, COALESCE(satznummer, ''), COALESCE(machine, ''), COALESCE(zestaw, ''), operator, stone_type, COALESCE(data, '') FROM history ORDER BY id",
	)
	if err != nil {
		return nil, storageErr("select history", err)
	}
	defer rows.Close()

	out := []historyJSON{}
	for rows.Next() {
		var h historyJSON
		if err := rows.Scan(&h.ID, &h.Satznummer, &h.Machine, &h.Zestaw, &h.Operator, &h.StoneType, &h.Data); err != nil {
			return nil, storageErr("scan history", err)
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate history", err)
	}
	return out, nil
}

func dumpDetails(ctx context.Context, conn *sql.Conn) ([]detailJSON, error) {
	rows, err := conn.QueryContext(ctx,
		"SELECT id, COALESCE(satznummer, ''), COALESCE(code, ''), COALESCE(diameter, 0), COALESCE(status, '') FROM details ORDER BY id",
	)
	if err != nil {
		return nil, storageErr("select details", err)
	}
	defer rows.Close()

	out := []detailJSON{}
	for rows.Next() {
		var d detailJSON
		if err := rows.Scan(&d.ID, &d.Satznummer, &d.Code, &d.Diameter, &d.Status); err != nil {
			return nil, storageErr("scan details", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate details", err)
	}
	return out, nil
}
