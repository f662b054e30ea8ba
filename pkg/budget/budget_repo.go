package budget

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

// StorageKey is the fixed versioned key the snapshot blob is stored under.
// Bump the suffix when the persisted shape changes incompatibly.
const StorageKey = "zenbudget_data_v1"

type SnapshotRepo interface {
	// Load reads the persisted snapshot. The second return value is false
	// when no snapshot has been persisted yet.
	Load(ctx context.Context) (BudgetSnapshot, bool, error)
	// Save writes the full snapshot, replacing any previous one.
	Save(ctx context.Context, snapshot BudgetSnapshot) error
}

type SnapshotRepoImpl struct {
	db *sql.DB
}

func NewSnapshotRepo(db *sql.DB) *SnapshotRepoImpl {
	return &SnapshotRepoImpl{db: db}
}

func (r *SnapshotRepoImpl) Load(ctx context.Context) (BudgetSnapshot, bool, error) {
	query := "SELECT data FROM budget_snapshot WHERE storage_key = ?"
	row := r.db.QueryRowContext(ctx, query, StorageKey)

	var data string
	if err := row.Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return BudgetSnapshot{}, false, nil
		}
		err := fmt.Errorf("could not read budget snapshot: %w", err)
		log.Error(err)
		return BudgetSnapshot{}, false, err
	}

	var dto SnapshotDTO
	if err := json.Unmarshal([]byte(data), &dto); err != nil {
		err := fmt.Errorf("could not parse persisted budget snapshot: %w", err)
		log.Error(err)
		return BudgetSnapshot{}, false, err
	}

	return DTOToSnapshot(dto), true, nil
}

func (r *SnapshotRepoImpl) Save(ctx context.Context, snapshot BudgetSnapshot) error {
	data, err := json.Marshal(SnapshotToDTO(snapshot))
	if err != nil {
		err := fmt.Errorf("could not serialize budget snapshot: %w", err)
		log.Error(err)
		return err
	}

	query := `INSERT INTO budget_snapshot (storage_key, data, updated_at) VALUES (?, ?, ?)
				ON CONFLICT(storage_key) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`
	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not prepare query: %w", err)
		log.Error(err)
		return err
	}
	defer stmt.Close()

	if _, err := stmt.ExecContext(ctx, StorageKey, string(data), time.Now().UTC().Format(time.RFC3339)); err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return err
	}

	return nil
}
