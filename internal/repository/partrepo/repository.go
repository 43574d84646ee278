package partrepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"goship/internal/domain"
	"goship/internal/errors"
	"goship/internal/pkg/cache"
	"goship/internal/pkg/database"
	"goship/internal/pkg/logger"
)

// Define a chave de cache para peças.
const partCacheKey = "part:%s"

// partCacheTTL é a expiração das peças no cache.
const partCacheTTL = 5 * time.Minute

// PartRepository persiste o catálogo de peças e o histórico de aprovação.
// Ela contém as conexões necessárias para acessar dados.
type PartRepository struct {
	DB           *sql.DB      // Conexão principal com o banco de dados (PostgreSQL)
	Cache        cache.Client // Cliente para operações de cache (Redis)
	DBTimeout    time.Duration
	CacheTimeout time.Duration
	logger       logger.Logger
}

// NewPartRepository cria e retorna uma nova instância do Repositório.
// Aqui injetamos as dependências de Infraestrutura (DB e Cache).
func NewPartRepository(db *sql.DB, cacheClient cache.Client, dbTimeout, cacheTimeout time.Duration, logger logger.Logger) *PartRepository {
	return &PartRepository{
		DB:           db,
		Cache:        cacheClient,
		DBTimeout:    dbTimeout,
		CacheTimeout: cacheTimeout,
		logger:       logger,
	}
}

const partColumns = `id, brand_id, code, name, description, price, msl, approval_status, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPart(row rowScanner) (domain.Part, error) {
	var p domain.Part
	err := row.Scan(&p.ID, &p.BrandID, &p.Code, &p.Name, &p.Description, &p.Price, &p.MSL,
		&p.ApprovalStatus, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// Save persiste uma nova peça. Código duplicado na mesma marca vira ConflictError.
func (r *PartRepository) Save(ctx context.Context, part domain.Part) (domain.Part, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	_, err := r.DB.ExecContext(ctxTimeout, `
		INSERT INTO parts (`+partColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		part.ID, part.BrandID, part.Code, part.Name, part.Description, part.Price, part.MSL,
		part.ApprovalStatus, part.CreatedAt, part.UpdatedAt,
	)
	if database.IsUniqueViolation(err) {
		return domain.Part{}, errors.NewConflictError(fmt.Sprintf("Já existe uma peça com código %s nesta marca.", part.Code))
	}
	if err != nil {
		r.logger.Error("Falha ao inserir peça no DB.", err)
		return domain.Part{}, errors.NewDBError("failed to insert part", err)
	}
	return part, nil
}

// FindByID busca uma peça pelo ID, utilizando a estratégia Cache-Aside.
func (r *PartRepository) FindByID(ctx context.Context, id string) (domain.Part, error) {
	key := fmt.Sprintf(partCacheKey, id)

	// --- 1. Cache-Aside (READ) ---
	if part, ok := r.readCache(ctx, key); ok {
		return part, nil
	}

	// --- 2. Busca no Banco de Dados (PostgreSQL) ---
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	part, err := scanPart(r.DB.QueryRowContext(ctxTimeout, `SELECT `+partColumns+` FROM parts WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		// O Serviço receberá isso e o Handler o mapeará para 404.
		return domain.Part{}, errors.NewNotFoundError(fmt.Sprintf("Peça com ID %s não existe na base de dados.", id))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar peça no DB.", err)
		return domain.Part{}, errors.NewDBError("Falha ao buscar peça no DB", err)
	}

	// --- 3. Cache-Aside (WRITE) ---
	r.writeCache(ctx, key, part)
	return part, nil
}

func (r *PartRepository) readCache(ctx context.Context, key string) (domain.Part, bool) {
	ctxCache, cancel := context.WithTimeout(ctx, r.CacheTimeout)
	defer cancel()

	var part domain.Part
	cached, err := r.Cache.Get(ctxCache, key)
	if err != nil {
		if err != cache.ErrCacheMiss {
			// Erro real de cache (ex: conexão perdida): seguimos para o DB.
			r.logger.Warn("Falha ao ler do cache.", map[string]interface{}{"key": key, "error": err.Error()})
		}
		return part, false
	}
	if err := json.Unmarshal([]byte(cached), &part); err != nil {
		r.logger.Warn("Entrada de cache corrompida, ignorando.", map[string]interface{}{"key": key})
		return part, false
	}
	return part, true
}

func (r *PartRepository) writeCache(ctx context.Context, key string, part domain.Part) {
	ctxCache, cancel := context.WithTimeout(ctx, r.CacheTimeout)
	defer cancel()

	data, err := json.Marshal(part)
	if err != nil {
		return
	}
	if err := r.Cache.Set(ctxCache, key, data, partCacheTTL); err != nil {
		r.logger.Warn("Falha ao escrever no cache.", map[string]interface{}{"key": key, "error": err.Error()})
	}
}

func (r *PartRepository) invalidate(ctx context.Context, id string) {
	ctxCache, cancel := context.WithTimeout(ctx, r.CacheTimeout)
	defer cancel()

	key := fmt.Sprintf(partCacheKey, id)
	if err := r.Cache.Delete(ctxCache, key); err != nil && err != cache.ErrCacheMiss {
		r.logger.Warn("Falha ao invalidar cache.", map[string]interface{}{"key": key, "error": err.Error()})
	}
}

// FindAll lista peças aplicando filtros e paginação.
func (r *PartRepository) FindAll(ctx context.Context, filter domain.PartFilter) ([]domain.Part, error) {
	filter = filter.Normalize()

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	where, args := buildWhere(filter.BrandID, filter.Name, filter.Code, filter.ApprovalStatus)
	args = append(args, filter.Limit, filter.Offset())
	query := fmt.Sprintf(`SELECT %s FROM parts%s ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d`,
		partColumns, where, len(args)-1, len(args))

	rows, err := r.DB.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		r.logger.Error("Falha ao listar peças.", err)
		return nil, errors.NewDBError("Falha ao listar peças", err)
	}
	defer rows.Close()

	parts := []domain.Part{}
	for rows.Next() {
		p, err := scanPart(rows)
		if err != nil {
			return nil, errors.NewDBError("Falha ao ler peça", err)
		}
		parts = append(parts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDBError("Falha ao iterar peças", err)
	}
	return parts, nil
}

// CountByApprovalStatus conta peças da marca (vazio = todas) nos status informados.
func (r *PartRepository) CountByApprovalStatus(ctx context.Context, brandID string, statuses []domain.ApprovalStatus) (int, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	where, args := buildWhere(brandID, "", "", statuses)
	var n int
	if err := r.DB.QueryRowContext(ctxTimeout, `SELECT COUNT(*) FROM parts`+where, args...).Scan(&n); err != nil {
		r.logger.Error("Falha ao contar peças.", err)
		return 0, errors.NewDBError("Falha ao contar peças", err)
	}
	return n, nil
}

func buildWhere(brandID, name, code string, statuses []domain.ApprovalStatus) (string, []interface{}) {
	var (
		clauses []string
		args    []interface{}
	)
	if brandID != "" {
		args = append(args, brandID)
		clauses = append(clauses, fmt.Sprintf("brand_id = $%d", len(args)))
	}
	if name != "" {
		args = append(args, "%"+name+"%")
		clauses = append(clauses, fmt.Sprintf("name ILIKE $%d", len(args)))
	}
	if code != "" {
		args = append(args, code)
		clauses = append(clauses, fmt.Sprintf("code = $%d", len(args)))
	}
	if len(statuses) > 0 {
		values := make([]string, len(statuses))
		for i, s := range statuses {
			values[i] = string(s)
		}
		args = append(args, pq.Array(values))
		clauses = append(clauses, fmt.Sprintf("approval_status = ANY($%d)", len(args)))
	}
	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// Update grava os campos editáveis da peça e invalida o cache.
func (r *PartRepository) Update(ctx context.Context, part domain.Part) (domain.Part, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	res, err := r.DB.ExecContext(ctxTimeout, `
		UPDATE parts SET code = $1, name = $2, description = $3, price = $4, msl = $5, updated_at = $6
		WHERE id = $7`,
		part.Code, part.Name, part.Description, part.Price, part.MSL, part.UpdatedAt, part.ID)
	if database.IsUniqueViolation(err) {
		return domain.Part{}, errors.NewConflictError(fmt.Sprintf("Já existe uma peça com código %s nesta marca.", part.Code))
	}
	if err != nil {
		r.logger.Error("Falha ao atualizar peça.", err)
		return domain.Part{}, errors.NewDBError("Falha ao atualizar peça", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.Part{}, errors.NewNotFoundError(fmt.Sprintf("Peça com ID %s não existe na base de dados.", part.ID))
	}

	r.invalidate(ctx, part.ID)
	return part, nil
}

// Delete remove a peça e invalida o cache.
func (r *PartRepository) Delete(ctx context.Context, id string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	res, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM parts WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Falha ao remover peça.", err)
		return errors.NewDBError("Falha ao remover peça", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("Peça com ID %s não existe na base de dados.", id))
	}

	r.invalidate(ctx, id)
	return nil
}

// TransitionApproval muda o status de aprovação e registra o evento na mesma transação.
// O UPDATE exige que o status atual ainda seja event.FromStatus; se outra decisão
// chegou antes, nenhuma linha é afetada e retornamos ConflictError.
func (r *PartRepository) TransitionApproval(ctx context.Context, event domain.ApprovalEvent) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	err := database.WithTx(ctxTimeout, r.DB, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctxTimeout,
			`UPDATE parts SET approval_status = $1, updated_at = $2 WHERE id = $3 AND approval_status = $4`,
			event.ToStatus, event.CreatedAt, event.PartID, event.FromStatus)
		if err != nil {
			return errors.NewDBError("Falha ao atualizar status de aprovação", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return errors.NewConflictError("O status de aprovação foi alterado por outra operação. Tente novamente.")
		}

		if _, err := tx.ExecContext(ctxTimeout, `
			INSERT INTO part_approval_events (id, part_id, from_status, to_status, reason, actor_id, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			event.ID, event.PartID, event.FromStatus, event.ToStatus, event.Reason, event.ActorID, event.CreatedAt,
		); err != nil {
			return errors.NewDBError("Falha ao registrar evento de aprovação", err)
		}
		return nil
	})
	if err != nil {
		if errors.IsAppError(err) {
			return err
		}
		r.logger.Error("Falha na transição de aprovação.", err)
		return errors.NewDBError("Falha na transição de aprovação", err)
	}

	r.invalidate(ctx, event.PartID)
	return nil
}

// ListApprovalEvents retorna o histórico de aprovação da peça em ordem cronológica.
func (r *PartRepository) ListApprovalEvents(ctx context.Context, partID string) ([]domain.ApprovalEvent, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	rows, err := r.DB.QueryContext(ctxTimeout, `
		SELECT id, part_id, from_status, to_status, reason, actor_id, created_at
		FROM part_approval_events
		WHERE part_id = $1
		ORDER BY created_at, id`, partID)
	if err != nil {
		r.logger.Error("Falha ao buscar histórico de aprovação.", err)
		return nil, errors.NewDBError("Falha ao buscar histórico de aprovação", err)
	}
	defer rows.Close()

	events := []domain.ApprovalEvent{}
	for rows.Next() {
		var e domain.ApprovalEvent
		if err := rows.Scan(&e.ID, &e.PartID, &e.FromStatus, &e.ToStatus, &e.Reason, &e.ActorID, &e.CreatedAt); err != nil {
			return nil, errors.NewDBError("Falha ao ler evento de aprovação", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDBError("Falha ao iterar histórico", err)
	}
	return events, nil
}
