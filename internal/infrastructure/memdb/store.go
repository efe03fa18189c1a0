// Package memdb backend embebido (en memoria, con snapshot JSON opcional) sobre hashicorp/go-memdb.
// Pensado para un único proceso: escritorio, pruebas y entornos sin base de datos.
package memdb

import (
	"fmt"
	"sync/atomic"

	gomemdb "github.com/hashicorp/go-memdb"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

const (
	tableProducts   = "products"
	tableMovements  = "movements"
	tableOpenings   = "openings"
	tableActivities = "activities"
)

var _ inventory.Store = (*Store)(nil)

func schema() *gomemdb.DBSchema {
	return &gomemdb.DBSchema{
		Tables: map[string]*gomemdb.TableSchema{
			tableProducts: {
				Name: tableProducts,
				Indexes: map[string]*gomemdb.IndexSchema{
					"id":  {Name: "id", Unique: true, Indexer: &gomemdb.StringFieldIndex{Field: "ID"}},
					"sku": {Name: "sku", AllowMissing: true, Indexer: &gomemdb.StringFieldIndex{Field: "SKU"}},
				},
			},
			tableMovements: {
				Name: tableMovements,
				Indexes: map[string]*gomemdb.IndexSchema{
					"id":      {Name: "id", Unique: true, Indexer: &gomemdb.StringFieldIndex{Field: "ID"}},
					"product": {Name: "product", Indexer: &gomemdb.StringFieldIndex{Field: "ProductID"}},
				},
			},
			tableOpenings: {
				Name: tableOpenings,
				Indexes: map[string]*gomemdb.IndexSchema{
					"id": {
						Name:   "id",
						Unique: true,
						Indexer: &gomemdb.CompoundIndex{Indexes: []gomemdb.Indexer{
							&gomemdb.StringFieldIndex{Field: "ProductID"},
							&gomemdb.StringFieldIndex{Field: "Period"},
						}},
					},
					"product": {Name: "product", Indexer: &gomemdb.StringFieldIndex{Field: "ProductID"}},
				},
			},
			tableActivities: {
				Name: tableActivities,
				Indexes: map[string]*gomemdb.IndexSchema{
					"id": {Name: "id", Unique: true, Indexer: &gomemdb.StringFieldIndex{Field: "ID"}},
				},
			},
		},
	}
}

// Store base de datos en memoria. Las transacciones de escritura de go-memdb son exclusivas,
// las lecturas trabajan sobre una instantánea inmutable.
type Store struct {
	db  *gomemdb.MemDB
	seq atomic.Int64
}

// New crea un almacén vacío.
func New() (*Store, error) {
	db, err := gomemdb.NewMemDB(schema())
	if err != nil {
		return nil, fmt.Errorf("crear memdb: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Movements() repository.MovementRepository {
	return &MovementRepo{base{store: s}}
}

func (s *Store) Products() repository.ProductRepository {
	return &ProductRepo{base{store: s}}
}

func (s *Store) Openings() repository.OpeningBalanceRepository {
	return &OpeningBalanceRepo{base{store: s}}
}

func (s *Store) Activity() repository.ActivityLogRepository {
	return &ActivityLogRepo{base{store: s}}
}

// base comparte la lógica de repos atados o no a una transacción de escritura.
type base struct {
	store *Store
	txn   *gomemdb.Txn // nil = cada llamada abre su propia transacción
}

func (b base) read() *gomemdb.Txn {
	if b.txn != nil {
		return b.txn
	}
	return b.store.db.Txn(false)
}

func (b base) write(fn func(txn *gomemdb.Txn) error) error {
	if b.txn != nil {
		return fn(b.txn)
	}
	txn := b.store.db.Txn(true)
	defer txn.Abort()
	if err := fn(txn); err != nil {
		return err
	}
	txn.Commit()
	return nil
}
