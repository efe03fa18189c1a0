package redis

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo producto como hash {id, sku, name, stock, created_at, updated_at}.
type ProductRepo struct{ base }

func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	key := r.s.keys.product(p.ID)
	n, err := r.r().Exists(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("exists product: %w", err)
	}
	if n > 0 {
		return fmt.Errorf("producto duplicado: %w", domain.ErrInvalidInput)
	}
	fields := map[string]any{
		"id":         p.ID,
		"sku":        p.SKU,
		"name":       p.Name,
		"stock":      p.CurrentStock,
		"created_at": p.CreatedAt.UTC().Format(time.RFC3339Nano),
		"updated_at": p.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
	return r.write(ctx, func(ctx context.Context, pipe goredis.Pipeliner) {
		pipe.HSet(ctx, key, fields)
		pipe.SAdd(ctx, r.s.keys.products(), p.ID)
		if p.SKU != "" {
			pipe.Set(ctx, r.s.keys.sku(p.SKU), p.ID, 0)
		}
	})
}

func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return r.load(ctx, id)
}

func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	id, err := r.r().Get(ctx, r.s.keys.sku(sku)).Result()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get product by sku: %w", err)
	}
	return r.load(ctx, id)
}

// GetForUpdate observa la clave del producto: si cambia antes del EXEC la transacción falla.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	if err := r.watch(ctx, r.s.keys.product(id)); err != nil {
		return nil, fmt.Errorf("watch product: %w", err)
	}
	if r.tx != nil {
		r.tx.productID = id
	}
	return r.load(ctx, id)
}

func (r *ProductRepo) SetStock(ctx context.Context, id string, stock int64) error {
	key := r.s.keys.product(id)
	if r.tx == nil {
		n, err := r.r().Exists(ctx, key).Result()
		if err != nil {
			return fmt.Errorf("exists product: %w", err)
		}
		if n == 0 {
			return domain.ErrProductNotFound
		}
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	return r.write(ctx, func(ctx context.Context, pipe goredis.Pipeliner) {
		pipe.HSet(ctx, key, "stock", stock, "updated_at", now)
	})
}

func (r *ProductRepo) List(ctx context.Context) ([]*entity.Product, error) {
	ids, err := r.r().SMembers(ctx, r.s.keys.products()).Result()
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	list := make([]*entity.Product, 0, len(ids))
	for _, id := range ids {
		p, err := r.load(ctx, id)
		if err != nil {
			return nil, err
		}
		if p != nil {
			list = append(list, p)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Name != list[j].Name {
			return list[i].Name < list[j].Name
		}
		return list[i].ID < list[j].ID
	})
	return list, nil
}

func (r *ProductRepo) load(ctx context.Context, id string) (*entity.Product, error) {
	h, err := r.r().HGetAll(ctx, r.s.keys.product(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if len(h) == 0 {
		return nil, nil
	}
	return decodeProduct(h)
}

func decodeProduct(h map[string]string) (*entity.Product, error) {
	stock, err := strconv.ParseInt(h["stock"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("product %s: stock inválido %q", h["id"], h["stock"])
	}
	p := &entity.Product{ID: h["id"], SKU: h["sku"], Name: h["name"], CurrentStock: stock}
	p.CreatedAt, _ = time.Parse(time.RFC3339Nano, h["created_at"])
	p.UpdatedAt, _ = time.Parse(time.RFC3339Nano, h["updated_at"])
	return p, nil
}
