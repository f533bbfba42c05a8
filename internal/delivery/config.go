package delivery

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"zaiqa-pos/internal/money"
)

// LoadConfig fetches the branch's delivery charge configuration. A
// missing or inactive row falls back to DefaultConfig; the fallback is
// logged so operators can spot unconfigured branches.
func LoadConfig(ctx context.Context, db *pgxpool.Pool, logger *zap.Logger, branchID int64) (Config, error) {
	var (
		cfg          Config
		staticCharge pgtype.Numeric
		baseCharge   pgtype.Numeric
		perKm        pgtype.Numeric
		maxDistance  pgtype.Numeric
		freeAbove    pgtype.Numeric
		isActive     bool
	)

	err := db.QueryRow(ctx, `
		select branch_id, pricing_model, static_charge, base_charge, per_km_charge,
		       max_distance_km, free_delivery_threshold, is_active
		from delivery_charge_configs
		where branch_id = $1
	`, branchID).Scan(
		&cfg.BranchID,
		&cfg.PricingModel,
		&staticCharge,
		&baseCharge,
		&perKm,
		&maxDistance,
		&freeAbove,
		&isActive,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		logger.Warn("no delivery config for branch, using default static charge",
			zap.Int64("branchId", branchID),
			zap.String("defaultCharge", DefaultConfig.StaticCharge.StringFixed(2)))
		fallback := DefaultConfig
		fallback.BranchID = branchID
		return fallback, nil
	}
	if err != nil {
		return Config{}, err
	}
	if !isActive {
		logger.Warn("delivery config inactive for branch, using default static charge",
			zap.Int64("branchId", branchID))
		fallback := DefaultConfig
		fallback.BranchID = branchID
		return fallback, nil
	}

	cfg.StaticCharge = money.FromNumeric(staticCharge)
	cfg.BaseCharge = money.FromNumeric(baseCharge)
	cfg.PerKmCharge = money.FromNumeric(perKm)
	cfg.MaxDistanceKm = money.FromNumericPtr(maxDistance)
	cfg.FreeDeliveryThreshold = money.FromNumericPtr(freeAbove)
	return cfg, nil
}
