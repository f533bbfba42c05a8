package handlers

import (
	"zaiqa-pos/internal/config"
	"zaiqa-pos/internal/order"
	"zaiqa-pos/internal/payment"
	"zaiqa-pos/internal/register"
	"zaiqa-pos/internal/storage"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type Handler struct {
	DB       *pgxpool.Pool
	Logger   *zap.Logger
	Config   config.Config
	Ledger   *order.Ledger
	Payments *payment.Processor
	Sessions *register.Reconciler
	Store    *storage.ObjectStore
}
