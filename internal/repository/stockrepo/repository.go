package stockrepo

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"goship/internal/domain"
	"goship/internal/errors"
	"goship/internal/pkg/logger"
)

// StockRepository persiste níveis de estoque por peça e local.
type StockRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewStockRepository cria e retorna uma nova instância do Repositório de Estoque.
func NewStockRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *StockRepository {
	return &StockRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

// UpdateStockLevel aplica um ajuste ao estoque, utilizando transação e controle de concorrência otimista (OCC).
func (r *StockRepository) UpdateStockLevel(ctx context.Context, adjustment domain.StockAdjustmentRequest) (domain.StockLevel, error) {
	fields := map[string]interface{}{
		"part_id":     adjustment.PartID,
		"location_id": adjustment.LocationID,
		"delta":       adjustment.Delta,
	}
	r.logger.Debug("Iniciando atualização de estoque no repositório.", fields)

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		r.logger.Error("Falha ao iniciar transação para atualização de estoque.", err)
		return domain.StockLevel{}, errors.NewDBError("Falha ao iniciar transação", err)
	}
	defer tx.Rollback() // no-op após Commit

	// 1. Nível atual com FOR UPDATE; a 'version' lida aqui é a usada no OCC.
	var currentStock domain.StockLevel
	querySelect := `
        SELECT id, part_id, location_id, quantity, version, created_at, updated_at
        FROM stock_levels
        WHERE part_id = $1 AND location_id = $2 FOR UPDATE`

	err = tx.QueryRowContext(ctxTimeout, querySelect, adjustment.PartID, adjustment.LocationID).Scan(
		&currentStock.ID, &currentStock.PartID, &currentStock.LocationID, &currentStock.Quantity,
		&currentStock.Version, &currentStock.CreatedAt, &currentStock.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		// Sem registro: inserção inicial.
		if adjustment.Delta < 0 {
			r.logger.Warn("Tentativa de criar estoque com quantidade negativa.", fields)
			return domain.StockLevel{}, errors.NewValidationError("Não é possível criar estoque com quantidade negativa.")
		}

		queryInsert := `
            INSERT INTO stock_levels (id, part_id, location_id, quantity, version, created_at, updated_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7)
            RETURNING id, part_id, location_id, quantity, version, created_at, updated_at`

		now := time.Now().UTC()
		var newSl domain.StockLevel
		err = tx.QueryRowContext(ctxTimeout, queryInsert,
			uuid.New().String(), adjustment.PartID, adjustment.LocationID, adjustment.Delta, 1, now, now,
		).Scan(
			&newSl.ID, &newSl.PartID, &newSl.LocationID, &newSl.Quantity,
			&newSl.Version, &newSl.CreatedAt, &newSl.UpdatedAt,
		)
		if err != nil {
			r.logger.Error("Falha ao inserir novo nível de estoque.", err)
			return domain.StockLevel{}, errors.NewDBError("Falha ao inserir novo nível de estoque", err)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			r.logger.Error("Falha ao commitar transação de inserção de estoque.", commitErr)
			return domain.StockLevel{}, errors.NewDBError("Falha ao commitar transação", commitErr)
		}
		r.logger.Info("Novo nível de estoque criado com sucesso.", map[string]interface{}{"part_id": adjustment.PartID, "location_id": adjustment.LocationID, "quantity": newSl.Quantity})
		return newSl, nil

	} else if err != nil {
		r.logger.Error("Falha ao selecionar nível de estoque para atualização.", err)
		return domain.StockLevel{}, errors.NewDBError("Falha ao buscar estoque para atualização", err)
	}

	// 2. O ajuste não pode deixar a quantidade negativa.
	newQuantity := currentStock.Quantity + adjustment.Delta
	if newQuantity < 0 {
		r.logger.Warn("Tentativa de ajustar estoque para quantidade negativa.", map[string]interface{}{
			"part_id":          adjustment.PartID,
			"location_id":      adjustment.LocationID,
			"current_quantity": currentStock.Quantity,
			"delta":            adjustment.Delta,
		})
		return domain.StockLevel{}, errors.NewValidationError("Ajuste resultaria em quantidade de estoque negativa.")
	}

	// 3. Atualizar com OCC.
	now := time.Now().UTC()
	queryUpdate := `
        UPDATE stock_levels
        SET quantity = $1, version = $2, updated_at = $3
        WHERE part_id = $4 AND location_id = $5 AND version = $6`

	result, err := tx.ExecContext(ctxTimeout, queryUpdate,
		newQuantity,
		currentStock.Version+1,
		now,
		adjustment.PartID,
		adjustment.LocationID,
		currentStock.Version,
	)
	if err != nil {
		r.logger.Error("Falha ao atualizar nível de estoque.", err)
		return domain.StockLevel{}, errors.NewDBError("Falha ao atualizar estoque", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.logger.Error("Falha ao verificar linhas afetadas após atualização de estoque.", err)
		return domain.StockLevel{}, errors.NewDBError("Falha ao verificar linhas afetadas", err)
	}

	if rowsAffected == 0 {
		r.logger.Warn("Falha no controle de concorrência otimista (OCC). Versão do registro desatualizada.", map[string]interface{}{
			"part_id":          adjustment.PartID,
			"location_id":      adjustment.LocationID,
			"expected_version": currentStock.Version,
		})
		return domain.StockLevel{}, errors.NewConflictError("O estoque foi modificado por outra operação. Tente novamente.")
	}

	// 4. Commit.
	if commitErr := tx.Commit(); commitErr != nil {
		r.logger.Error("Falha ao commitar transação de atualização de estoque.", commitErr)
		return domain.StockLevel{}, errors.NewDBError("Falha ao commitar transação", commitErr)
	}

	currentStock.Quantity = newQuantity
	currentStock.Version++
	currentStock.UpdatedAt = now
	r.logger.Info("Nível de estoque atualizado com sucesso.", map[string]interface{}{
		"part_id":      adjustment.PartID,
		"location_id":  adjustment.LocationID,
		"new_quantity": newQuantity,
		"new_version":  currentStock.Version,
	})
	return currentStock, nil
}

// ListStock lista níveis de estoque com dados da peça. O status é derivado pelo serviço.
func (r *StockRepository) ListStock(ctx context.Context, filter domain.StockFilter) ([]domain.StockView, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        SELECT s.id, s.part_id, s.location_id, s.quantity, s.version, s.created_at, s.updated_at,
               p.code, p.name, p.msl
        FROM stock_levels s
        JOIN parts p ON p.id = s.part_id`
	var (
		where []string
		args  []interface{}
	)
	if filter.BrandID != "" {
		args = append(args, filter.BrandID)
		where = append(where, fmt.Sprintf("p.brand_id = $%d", len(args)))
	}
	if filter.LocationID != "" {
		args = append(args, filter.LocationID)
		where = append(where, fmt.Sprintf("s.location_id = $%d", len(args)))
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY p.code, s.location_id"

	rows, err := r.DB.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		r.logger.Error("Falha ao listar estoque.", err)
		return nil, errors.NewDBError("Falha ao listar estoque", err)
	}
	defer rows.Close()

	views := []domain.StockView{}
	for rows.Next() {
		var v domain.StockView
		if err := rows.Scan(&v.ID, &v.PartID, &v.LocationID, &v.Quantity, &v.Version, &v.CreatedAt, &v.UpdatedAt,
			&v.PartCode, &v.PartName, &v.MSL); err != nil {
			return nil, errors.NewDBError("Falha ao mapear estoque", err)
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDBError("Erro após iteração de estoque", err)
	}
	return views, nil
}

// PartStockTotals soma o estoque de cada peça aprovada da marca em todos os locais.
// Peças sem nenhum nível de estoque aparecem com OnHand zero.
func (r *StockRepository) PartStockTotals(ctx context.Context, brandID string) ([]domain.PartStockTotal, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	rows, err := r.DB.QueryContext(ctxTimeout, `
        SELECT p.id, p.code, p.name, p.brand_id, p.msl, COALESCE(SUM(s.quantity), 0)
        FROM parts p
        LEFT JOIN stock_levels s ON s.part_id = p.id
        WHERE p.brand_id = $1 AND p.approval_status = $2
        GROUP BY p.id, p.code, p.name, p.brand_id, p.msl
        ORDER BY p.code`, brandID, domain.ApprovalApproved)
	if err != nil {
		r.logger.Error("Falha ao somar estoque por peça.", err)
		return nil, errors.NewDBError("Falha ao somar estoque por peça", err)
	}
	defer rows.Close()

	totals := []domain.PartStockTotal{}
	for rows.Next() {
		var t domain.PartStockTotal
		if err := rows.Scan(&t.PartID, &t.PartCode, &t.PartName, &t.BrandID, &t.MSL, &t.OnHand); err != nil {
			return nil, errors.NewDBError("Falha ao mapear total de estoque", err)
		}
		totals = append(totals, t)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDBError("Erro após iteração de totais", err)
	}
	return totals, nil
}
