package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/Costeo-api/internal/domain/entity"
	"github.com/jhoicas/Costeo-api/internal/infrastructure/cache"
	"github.com/jhoicas/Costeo-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Costeo-api/pkg/config"
	"github.com/jhoicas/Costeo-api/pkg/logger"
	"github.com/urfave/cli/v2"
)

// ── migrate ───────────────────────────────────────────────────────────────────

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Aplica las migraciones pendientes (DATABASE_URL o DB_*)",
		Action: func(c *cli.Context) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			return withPool(c.Context, cfg, func(pool *pgxpool.Pool) error {
				return postgres.Migrate(c.Context, pool, log)
			})
		},
	}
}

// ── import ────────────────────────────────────────────────────────────────────

func importCommand() *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Carga una foto JSON en PostgreSQL para un taller (una sola transacción)",
		Flags: []cli.Flag{
			snapshotFlag(),
			&cli.StringFlag{Name: "tenant", Usage: "ID del taller destino", Required: true},
		},
		Action: func(c *cli.Context) error {
			snap, err := readSnapshot(c.String("snapshot"))
			if err != nil {
				return err
			}
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			tenantID := c.String("tenant")
			err = withPool(c.Context, cfg, func(pool *pgxpool.Pool) error {
				return importSnapshot(c.Context, pool, tenantID, snap)
			})
			if err != nil {
				return err
			}
			log.Info().
				Str("tenant_id", tenantID).
				Int("materials", len(snap.Materials)).
				Int("lots", len(snap.Lots)).
				Int("ledger", len(snap.Ledger)).
				Int("products", len(snap.Products)).
				Msg("foto importada")

			// Los reportes cacheados del taller ya no reflejan los datos.
			if rc, err := cache.NewReportCache(cfg.Cache); err == nil {
				defer func() { _ = rc.Close() }()
				if err := rc.Invalidate(c.Context, tenantID); err != nil {
					log.Warn().Err(err).Msg("no se pudo invalidar el cache")
				}
			}
			fmt.Fprintf(c.App.Writer, "importado: %d materias primas, %d lotes, %d movimientos, %d productos\n",
				len(snap.Materials), len(snap.Lots), len(snap.Ledger), len(snap.Products))
			return nil
		},
	}
}

func importSnapshot(ctx context.Context, pool *pgxpool.Pool, tenantID string, snap entity.Snapshot) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	now := time.Now()
	materialRepo := postgres.NewMaterialRepository(tx)
	for _, m := range snap.Materials {
		m.TenantID = tenantID
		m.CreatedAt, m.UpdatedAt = now, now
		if err := materialRepo.Create(ctx, &m); err != nil {
			return fmt.Errorf("materia prima %s: %w", m.ID, err)
		}
	}
	lotRepo := postgres.NewLotRepository(tx)
	for _, l := range snap.Lots {
		l.TenantID = tenantID
		l.CreatedAt = now
		if err := lotRepo.Create(ctx, &l); err != nil {
			return fmt.Errorf("lote %s: %w", l.ID, err)
		}
	}
	entries := make([]entity.LedgerEntry, 0, len(snap.Ledger))
	for _, e := range snap.Ledger {
		e.TenantID = tenantID
		e.CreatedAt = now
		entries = append(entries, e)
	}
	if err := postgres.NewLedgerRepository(tx).Append(ctx, entries...); err != nil {
		return err
	}
	productRepo := postgres.NewProductRepository(tx)
	for _, p := range snap.Products {
		p.TenantID = tenantID
		p.CreatedAt, p.UpdatedAt = now, now
		if err := productRepo.Create(ctx, &p); err != nil {
			return fmt.Errorf("producto %s: %w", p.ID, err)
		}
	}
	productionRepo := postgres.NewProductionRepository(tx)
	for _, mv := range snap.Movements {
		mv.TenantID = tenantID
		if mv.UnitCost.IsZero() && mv.Quantity.IsPositive() {
			mv.UnitCost = mv.TotalCost.Div(mv.Quantity)
		}
		if err := productionRepo.Create(ctx, &mv); err != nil {
			return fmt.Errorf("producción %s: %w", mv.ID, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// ── flush-cache ───────────────────────────────────────────────────────────────

func flushCacheCommand() *cli.Command {
	return &cli.Command{
		Name:  "flush-cache",
		Usage: "Borra todos los reportes de protección cacheados en Redis",
		Action: func(c *cli.Context) error {
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}
			if !cfg.Cache.Enabled {
				fmt.Fprintln(c.App.Writer, "cache deshabilitado (CACHE_ENABLED=false)")
				return nil
			}
			rc, err := cache.NewReportCache(cfg.Cache)
			if err != nil {
				return err
			}
			defer func() { _ = rc.Close() }()
			n, err := rc.InvalidateAll(c.Context)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "reportes borrados: %d\n", n)
			return nil
		},
	}
}

// ── helpers ───────────────────────────────────────────────────────────────────

func loadConfig() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
	return cfg, log, nil
}

func withPool(ctx context.Context, cfg *config.Config, fn func(pool *pgxpool.Pool) error) error {
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer pool.Close()
	return fn(pool)
}
