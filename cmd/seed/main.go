// Package main provides a CLI tool for seeding the item master with demo data.
package main

import (
	"context"
	"fmt"
	"os"

	"millstock/internal/app"
	"millstock/internal/config"
	"millstock/internal/core/apperror"
	appctx "millstock/internal/core/context"
	"millstock/internal/core/types"
	"millstock/internal/domain/auth"
	"millstock/internal/domain/catalogs/item"
	"millstock/internal/infrastructure/numerator"
	"millstock/internal/infrastructure/storage/postgres"
	"millstock/pkg/logger"
)

type demoItem struct {
	code, name, category, subcategory, uom, rate string
	opening                                      int64
}

var demoItems = []demoItem{
	{"RAST-001", "MS Round Bar 12mm", "Raw Material", "Steel", "KG", "62.50", 500},
	{"RAST-002", "MS Sheet 2mm", "Raw Material", "Steel", "KG", "71.00", 300},
	{"RAPA-001", "Primer Grey", "Raw Material", "Paint", "LTR", "240.00", 40},
	{"COFA-001", "Hex Bolt M10x40", "Consumable", "Fasteners", "PC", "4.20", 2000},
	{"FIGO-001", "Conveyor Roller 89mm", "Finished", "Goods", "PC", "850.00", 0},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{Level: "info", Development: true})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}
	logger.SetDefault(log)

	ctx := appctx.WithUser(context.Background(), &appctx.UserContext{UserID: "seed"})

	pool, err := postgres.NewPool(ctx, cfg.PoolConfig())
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	txm := postgres.NewTxManager(pool, cfg.TxOptions())
	services := app.NewServices(app.PostgresRepositories(txm), numerator.New(txm), app.Options{
		DefaultUOM:     cfg.FloorDefaultUOM,
		NumberPadWidth: cfg.NumberPadWidth,
	})

	if err := seedItems(ctx, services.Items, log); err != nil {
		log.Fatalw("failed to seed items", "error", err)
	}

	if os.Getenv("SEED_PRINT_TOKEN") == "true" {
		if !cfg.AuthEnabled() {
			log.Warn("SEED_PRINT_TOKEN set but JWT_SECRET is empty; no token issued")
		} else {
			printToken(cfg, log)
		}
	}

	log.Info("seeding completed successfully")
}

func seedItems(ctx context.Context, svc *item.Service, log *logger.Logger) error {
	for _, d := range demoItems {
		rate, err := types.NewRateFromString(d.rate)
		if err != nil {
			return fmt.Errorf("rate for %s: %w", d.code, err)
		}

		it := item.NewItem(d.name, d.category, d.subcategory, d.uom, rate)
		it.Code = d.code

		err = svc.Create(ctx, it, types.NewQuantityFromInt(d.opening))
		switch {
		case apperror.HasCode(err, apperror.CodeDuplicate):
			log.Infow("item already exists, skipping", "code", d.code)
		case err != nil:
			return fmt.Errorf("create %s: %w", d.code, err)
		default:
			log.Infow("item seeded", "code", it.Code, "stock", it.Stock)
		}
	}
	return nil
}

func printToken(cfg *config.Config, log *logger.Logger) {
	jwtCfg := auth.DefaultJWTConfig(cfg.JWTSecret)
	if cfg.JWTIssuer != "" {
		jwtCfg.Issuer = cfg.JWTIssuer
	}

	token, expires, err := auth.NewJWTService(jwtCfg).GenerateAccessToken("dev", "Developer", []string{"storekeeper"})
	if err != nil {
		log.Errorw("failed to issue dev token", "error", err)
		return
	}
	fmt.Printf("dev token (expires %s):\n%s\n", expires.Format("2006-01-02 15:04"), token)
}
