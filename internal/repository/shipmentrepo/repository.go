package shipmentrepo

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"goship/internal/domain"
	"goship/internal/errors"
	"goship/internal/pkg/database"
	"goship/internal/pkg/logger"
)

// ShipmentRepository persiste remessas, caixas e peças das caixas no PostgreSQL.
type ShipmentRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewShipmentRepository cria e retorna uma nova instância do Repositório de Remessas.
func NewShipmentRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *ShipmentRepository {
	return &ShipmentRepository{DB: db, DBTimeout: dbTimeout, logger: logger}
}

// queryer é o subconjunto comum de *sql.DB e *sql.Tx usado para carregar caixas.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

// List retorna as remessas do escopo, mais recentes primeiro, com caixas e peças.
func (r *ShipmentRepository) List(ctx context.Context, scope domain.ShipmentScope) ([]domain.Shipment, error) {
	r.logger.Debug("Listando remessas no repositório.", map[string]interface{}{
		"brand_id":          scope.BrandID,
		"service_center_id": scope.ServiceCenterID,
	})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT id, brand_id, service_center_id, status, courier, created_at, updated_at FROM shipments`
	var (
		where []string
		args  []interface{}
	)
	if scope.BrandID != "" {
		args = append(args, scope.BrandID)
		where = append(where, fmt.Sprintf("brand_id = $%d", len(args)))
	}
	if scope.ServiceCenterID != "" {
		args = append(args, scope.ServiceCenterID)
		where = append(where, fmt.Sprintf("service_center_id = $%d", len(args)))
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id"

	rows, err := r.DB.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		r.logger.Error("Falha ao listar remessas no DB.", err)
		return nil, errors.NewDBError("Falha ao listar remessas", err)
	}
	defer rows.Close()

	shipments := []domain.Shipment{}
	ids := []string{}
	for rows.Next() {
		var s domain.Shipment
		if err := rows.Scan(&s.ID, &s.BrandID, &s.ServiceCenterID, &s.Status, &s.Courier, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, errors.NewDBError("Falha ao ler remessa", err)
		}
		shipments = append(shipments, s)
		ids = append(ids, s.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDBError("Falha ao iterar remessas", err)
	}
	if len(ids) == 0 {
		return shipments, nil
	}

	boxes, err := loadBoxes(ctxTimeout, r.DB, ids)
	if err != nil {
		r.logger.Error("Falha ao carregar caixas das remessas.", err)
		return nil, err
	}
	for i := range shipments {
		shipments[i].Boxes = boxes[shipments[i].ID]
	}

	r.logger.Debug("Remessas listadas.", map[string]interface{}{"count": len(shipments)})
	return shipments, nil
}

// FindByID busca uma remessa com suas caixas.
func (r *ShipmentRepository) FindByID(ctx context.Context, id string) (domain.Shipment, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var s domain.Shipment
	err := r.DB.QueryRowContext(ctxTimeout,
		`SELECT id, brand_id, service_center_id, status, courier, created_at, updated_at FROM shipments WHERE id = $1`, id,
	).Scan(&s.ID, &s.BrandID, &s.ServiceCenterID, &s.Status, &s.Courier, &s.CreatedAt, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return domain.Shipment{}, errors.NewNotFoundError(fmt.Sprintf("Remessa com ID %s não existe.", id))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar remessa no DB.", err)
		return domain.Shipment{}, errors.NewDBError("Falha ao buscar remessa", err)
	}

	boxes, err := loadBoxes(ctxTimeout, r.DB, []string{id})
	if err != nil {
		return domain.Shipment{}, err
	}
	s.Boxes = boxes[id]
	return s, nil
}

// loadBoxes carrega caixas e peças das remessas informadas, agrupadas por shipment_id
// e ordenadas por box_number.
func loadBoxes(ctx context.Context, q queryer, shipmentIDs []string) (map[string][]domain.Box, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, shipment_id, box_number, awb_number, status, weight
		FROM boxes
		WHERE shipment_id = ANY($1)
		ORDER BY shipment_id, box_number`, pq.Array(shipmentIDs))
	if err != nil {
		return nil, errors.NewDBError("Falha ao buscar caixas", err)
	}
	defer rows.Close()

	type boxRef struct {
		shipmentID string
		index      int
	}
	result := make(map[string][]domain.Box, len(shipmentIDs))
	refs := map[string]boxRef{}
	boxIDs := []string{}
	for rows.Next() {
		var (
			b   domain.Box
			awb sql.NullString
		)
		if err := rows.Scan(&b.ID, &b.ShipmentID, &b.BoxNumber, &awb, &b.Status, &b.Weight); err != nil {
			return nil, errors.NewDBError("Falha ao ler caixa", err)
		}
		if awb.Valid {
			v := awb.String
			b.AWBNumber = &v
		}
		b.Parts = []domain.BoxPart{}
		refs[b.ID] = boxRef{shipmentID: b.ShipmentID, index: len(result[b.ShipmentID])}
		result[b.ShipmentID] = append(result[b.ShipmentID], b)
		boxIDs = append(boxIDs, b.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDBError("Falha ao iterar caixas", err)
	}
	if len(boxIDs) == 0 {
		return result, nil
	}

	partRows, err := q.QueryContext(ctx,
		`SELECT box_id, part_id, quantity FROM box_parts WHERE box_id = ANY($1) ORDER BY box_id, part_id`,
		pq.Array(boxIDs))
	if err != nil {
		return nil, errors.NewDBError("Falha ao buscar peças das caixas", err)
	}
	defer partRows.Close()

	for partRows.Next() {
		var (
			boxID string
			p     domain.BoxPart
		)
		if err := partRows.Scan(&boxID, &p.PartID, &p.Quantity); err != nil {
			return nil, errors.NewDBError("Falha ao ler peça da caixa", err)
		}
		ref := refs[boxID]
		box := &result[ref.shipmentID][ref.index]
		box.Parts = append(box.Parts, p)
	}
	if err := partRows.Err(); err != nil {
		return nil, errors.NewDBError("Falha ao iterar peças das caixas", err)
	}
	return result, nil
}

// Create insere a remessa, suas caixas e peças numa única transação.
func (r *ShipmentRepository) Create(ctx context.Context, s domain.Shipment) (domain.Shipment, error) {
	r.logger.Debug("Criando remessa no repositório.", map[string]interface{}{"shipment_id": s.ID, "boxes": len(s.Boxes)})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	err := database.WithTx(ctxTimeout, r.DB, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctxTimeout, `
			INSERT INTO shipments (id, brand_id, service_center_id, status, courier, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			s.ID, s.BrandID, s.ServiceCenterID, s.Status, s.Courier, s.CreatedAt, s.UpdatedAt,
		); err != nil {
			return errors.NewDBError("Falha ao inserir remessa", err)
		}

		for _, b := range s.Boxes {
			if _, err := tx.ExecContext(ctxTimeout, `
				INSERT INTO boxes (id, shipment_id, box_number, awb_number, status, weight)
				VALUES ($1, $2, $3, $4, $5, $6)`,
				b.ID, s.ID, b.BoxNumber, b.AWBNumber, b.Status, b.Weight,
			); err != nil {
				if database.IsUniqueViolation(err) {
					return errors.NewConflictError(fmt.Sprintf("AWB %s já está em uso por outra caixa.", awbText(b.AWBNumber)))
				}
				return errors.NewDBError("Falha ao inserir caixa", err)
			}
			for _, p := range b.Parts {
				if _, err := tx.ExecContext(ctxTimeout,
					`INSERT INTO box_parts (box_id, part_id, quantity) VALUES ($1, $2, $3)`,
					b.ID, p.PartID, p.Quantity,
				); err != nil {
					if database.IsUniqueViolation(err) {
						return errors.NewConflictError(fmt.Sprintf("Peça %s repetida na caixa %d.", p.PartID, b.BoxNumber))
					}
					return errors.NewDBError("Falha ao inserir peça da caixa", err)
				}
			}
		}
		return nil
	})
	if err != nil {
		r.logger.Error("Falha ao criar remessa.", err)
		return domain.Shipment{}, asAppError("Falha ao criar remessa", err)
	}

	r.logger.Info("Remessa criada no DB.", map[string]interface{}{"shipment_id": s.ID})
	return s, nil
}

// UpdateStatus grava o novo status/courier da remessa e os status de caixas informados.
// Uma caixa que não pertence à remessa gera NotFoundError e desfaz tudo.
func (r *ShipmentRepository) UpdateStatus(ctx context.Context, id string, upd domain.ShipmentStatusUpdate) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	err := database.WithTx(ctxTimeout, r.DB, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctxTimeout, `
			UPDATE shipments
			SET status = COALESCE(NULLIF($1, ''), status),
			    courier = COALESCE(NULLIF($2, ''), courier),
			    updated_at = $3
			WHERE id = $4`,
			upd.Status, upd.Courier, time.Now().UTC(), id)
		if err != nil {
			return errors.NewDBError("Falha ao atualizar remessa", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return errors.NewNotFoundError(fmt.Sprintf("Remessa com ID %s não existe.", id))
		}

		for _, b := range upd.Boxes {
			res, err := tx.ExecContext(ctxTimeout,
				`UPDATE boxes SET status = $1 WHERE id = $2 AND shipment_id = $3`, b.Status, b.BoxID, id)
			if err != nil {
				return errors.NewDBError("Falha ao atualizar caixa", err)
			}
			if n, _ := res.RowsAffected(); n == 0 {
				return errors.NewNotFoundError(fmt.Sprintf("Caixa %s não pertence à remessa %s.", b.BoxID, id))
			}
		}
		return nil
	})
	if err != nil {
		return asAppError("Falha ao atualizar remessa", err)
	}
	r.logger.Info("Status da remessa atualizado no DB.", map[string]interface{}{"shipment_id": id})
	return nil
}

// SetBoxAWBs grava AWB e status de cada caixa informada (regeneração de AWB).
func (r *ShipmentRepository) SetBoxAWBs(ctx context.Context, shipmentID string, boxes []domain.Box) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	err := database.WithTx(ctxTimeout, r.DB, func(tx *sql.Tx) error {
		for _, b := range boxes {
			if _, err := tx.ExecContext(ctxTimeout,
				`UPDATE boxes SET awb_number = $1, status = $2 WHERE id = $3 AND shipment_id = $4`,
				b.AWBNumber, b.Status, b.ID, shipmentID,
			); err != nil {
				if database.IsUniqueViolation(err) {
					return errors.NewConflictError(fmt.Sprintf("AWB %s já está em uso por outra caixa.", awbText(b.AWBNumber)))
				}
				return errors.NewDBError("Falha ao gravar AWB", err)
			}
		}
		if _, err := tx.ExecContext(ctxTimeout,
			`UPDATE shipments SET updated_at = $1 WHERE id = $2`, time.Now().UTC(), shipmentID,
		); err != nil {
			return errors.NewDBError("Falha ao atualizar remessa", err)
		}
		return nil
	})
	if err != nil {
		r.logger.Error("Falha ao gravar AWBs.", err)
		return asAppError("Falha ao gravar AWBs", err)
	}
	return nil
}

// Delete remove a remessa; caixas e peças caem por ON DELETE CASCADE.
func (r *ShipmentRepository) Delete(ctx context.Context, id string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	res, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM shipments WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Falha ao remover remessa.", err)
		return errors.NewDBError("Falha ao remover remessa", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("Remessa com ID %s não existe.", id))
	}
	r.logger.Info("Remessa removida do DB.", map[string]interface{}{"shipment_id": id})
	return nil
}

func awbText(awb *string) string {
	if awb == nil {
		return ""
	}
	return *awb
}

// asAppError preserva erros de aplicação vindos de dentro da transação.
func asAppError(msg string, err error) error {
	if errors.IsAppError(err) {
		return err
	}
	return errors.NewDBError(msg, err)
}
