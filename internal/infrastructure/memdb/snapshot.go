package memdb

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	gomemdb "github.com/hashicorp/go-memdb"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

const snapshotVersion = 1

type snapshot struct {
	Version    int                      `json:"version"`
	SavedAt    time.Time                `json:"saved_at"`
	Seq        int64                    `json:"seq"`
	Products   []*entity.Product        `json:"products"`
	Movements  []*entity.StockMovement  `json:"movements"`
	Openings   []*entity.OpeningBalance `json:"openings"`
	Activities []*entity.ActivityLog    `json:"activities"`
}

// Save escribe una instantánea consistente del almacén en path (escritura atómica vía rename).
func (s *Store) Save(path string) error {
	txn := s.db.Txn(false)
	snap := snapshot{Version: snapshotVersion, SavedAt: time.Now().UTC(), Seq: s.seq.Load()}
	if err := collect(txn, tableProducts, &snap.Products); err != nil {
		return err
	}
	if err := collect(txn, tableMovements, &snap.Movements); err != nil {
		return err
	}
	if err := collect(txn, tableOpenings, &snap.Openings); err != nil {
		return err
	}
	if err := collect(txn, tableActivities, &snap.Activities); err != nil {
		return err
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("snapshot dir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return os.Rename(tmp, path)
}

// Load restaura la instantánea en un almacén vacío. Si el archivo no existe no hace nada.
func (s *Store) Load(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}
	if snap.Version != snapshotVersion {
		return fmt.Errorf("versión de snapshot no soportada: %d", snap.Version)
	}

	txn := s.db.Txn(true)
	defer txn.Abort()
	seq := snap.Seq
	for _, p := range snap.Products {
		if err := txn.Insert(tableProducts, p); err != nil {
			return fmt.Errorf("restore product: %w", err)
		}
	}
	for _, m := range snap.Movements {
		if err := txn.Insert(tableMovements, m); err != nil {
			return fmt.Errorf("restore movement: %w", err)
		}
		seq = max(seq, m.Seq)
	}
	for _, ob := range snap.Openings {
		if err := txn.Insert(tableOpenings, ob); err != nil {
			return fmt.Errorf("restore opening balance: %w", err)
		}
	}
	for _, a := range snap.Activities {
		if err := txn.Insert(tableActivities, a); err != nil {
			return fmt.Errorf("restore activity: %w", err)
		}
	}
	txn.Commit()
	s.seq.Store(seq)
	return nil
}

func collect[T any](txn *gomemdb.Txn, table string, out *[]*T) error {
	it, err := txn.Get(table, "id")
	if err != nil {
		return fmt.Errorf("snapshot %s: %w", table, err)
	}
	for obj := it.Next(); obj != nil; obj = it.Next() {
		*out = append(*out, obj.(*T))
	}
	return nil
}
