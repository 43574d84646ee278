package courierrepo

import (
	"context"
	"database/sql"
	"time"

	"goship/internal/domain"
	"goship/internal/errors"
	"goship/internal/pkg/logger"
)

// CourierRepository persiste os overrides de custo de courier por caixa.
type CourierRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewCourierRepository cria e retorna uma nova instância do Repositório de Courier.
func NewCourierRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *CourierRepository {
	return &CourierRepository{DB: db, DBTimeout: dbTimeout, logger: logger}
}

// Create registra um override.
func (r *CourierRepository) Create(ctx context.Context, o domain.CourierOverride) (domain.CourierOverride, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	_, err := r.DB.ExecContext(ctxTimeout, `
		INSERT INTO courier_overrides (id, shipment_id, box_id, courier, amount, reason, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		o.ID, o.ShipmentID, o.BoxID, o.Courier, o.Amount, o.Reason, o.CreatedBy, o.CreatedAt)
	if err != nil {
		r.logger.Error("Falha ao inserir override de courier.", err)
		return domain.CourierOverride{}, errors.NewDBError("Falha ao inserir override de courier", err)
	}
	return o, nil
}

// ListByShipment retorna os overrides da remessa em ordem de criação.
func (r *CourierRepository) ListByShipment(ctx context.Context, shipmentID string) ([]domain.CourierOverride, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	rows, err := r.DB.QueryContext(ctxTimeout, `
		SELECT id, shipment_id, box_id, courier, amount, reason, created_by, created_at
		FROM courier_overrides
		WHERE shipment_id = $1
		ORDER BY created_at, id`, shipmentID)
	if err != nil {
		r.logger.Error("Falha ao listar overrides de courier.", err)
		return nil, errors.NewDBError("Falha ao listar overrides de courier", err)
	}
	defer rows.Close()

	overrides := []domain.CourierOverride{}
	for rows.Next() {
		var o domain.CourierOverride
		if err := rows.Scan(&o.ID, &o.ShipmentID, &o.BoxID, &o.Courier, &o.Amount, &o.Reason, &o.CreatedBy, &o.CreatedAt); err != nil {
			return nil, errors.NewDBError("Falha ao mapear override de courier", err)
		}
		overrides = append(overrides, o)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDBError("Erro após iteração de overrides", err)
	}
	return overrides, nil
}
