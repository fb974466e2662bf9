package sqlite

import "github.com/mesh-intelligence/satzkarte/pkg/types"

// JSON record structures of the backup files. Field names follow the
// column names so a backup can be read next to the database.

// historyJSON represents a card header in history.jsonl.
type historyJSON struct {
	ID         int64  `json:"id"`
	Satznummer string `json:"satznummer"`
	Machine    string `json:"machine"`
	Zestaw     string `json:"zestaw"`
	Operator   string `json:"operator"`
	StoneType  string `json:"stone_type"`
	Data       string `json:"data"`
}

// detailJSON represents a line item in details.jsonl.
type detailJSON struct {
	ID         int64   `json:"id"`
	Satznummer string  `json:"satznummer"`
	Code       string  `json:"code"`
	Diameter   float64 `json:"diameter"`
	Status     string  `json:"status"`
}

// Backup file names inside the backup directory.
const (
	historyJSONL = types.HistoryTable + ".jsonl"
	detailsJSONL = types.DetailsTable + ".jsonl"
)
