package networkrepo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"goship/internal/domain"
	"goship/internal/errors"
	"goship/internal/pkg/logger"
)

// NetworkRepository persiste a rede autorizada (centros de serviço e distribuidores) das marcas.
type NetworkRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewNetworkRepository cria e retorna uma nova instância do Repositório da Rede.
func NewNetworkRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *NetworkRepository {
	return &NetworkRepository{DB: db, DBTimeout: dbTimeout, logger: logger}
}

// List retorna os membros da rede da marca; role vazio não filtra.
func (r *NetworkRepository) List(ctx context.Context, brandID string, role domain.NetworkRole) ([]domain.NetworkMember, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	rows, err := r.DB.QueryContext(ctxTimeout, `
		SELECT id, brand_id, user_id, role_type, authorized_at
		FROM network_members
		WHERE brand_id = $1 AND ($2 = '' OR role_type = $2)
		ORDER BY authorized_at DESC, user_id`, brandID, string(role))
	if err != nil {
		r.logger.Error("Falha ao listar rede.", err)
		return nil, errors.NewDBError("Falha ao listar rede", err)
	}
	defer rows.Close()

	members := []domain.NetworkMember{}
	for rows.Next() {
		var m domain.NetworkMember
		if err := rows.Scan(&m.ID, &m.BrandID, &m.UserID, &m.RoleType, &m.AuthorizedAt); err != nil {
			return nil, errors.NewDBError("Falha ao mapear membro da rede", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDBError("Erro após iteração da rede", err)
	}
	return members, nil
}

// Add autoriza um membro. Retorna false (sem erro) quando o usuário já está na rede da marca.
func (r *NetworkRepository) Add(ctx context.Context, m domain.NetworkMember) (bool, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	res, err := r.DB.ExecContext(ctxTimeout, `
		INSERT INTO network_members (id, brand_id, user_id, role_type, authorized_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (brand_id, user_id) DO NOTHING`,
		m.ID, m.BrandID, m.UserID, m.RoleType, m.AuthorizedAt)
	if err != nil {
		r.logger.Error("Falha ao inserir membro da rede.", err)
		return false, errors.NewDBError("Falha ao inserir membro da rede", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.NewDBError("Falha ao verificar linhas afetadas", err)
	}
	return n == 1, nil
}

// Remove revoga a autorização de um usuário na rede da marca.
func (r *NetworkRepository) Remove(ctx context.Context, brandID, userID string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	res, err := r.DB.ExecContext(ctxTimeout,
		`DELETE FROM network_members WHERE brand_id = $1 AND user_id = $2`, brandID, userID)
	if err != nil {
		r.logger.Error("Falha ao remover membro da rede.", err)
		return errors.NewDBError("Falha ao remover membro da rede", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("Usuário %s não faz parte da rede.", userID))
	}
	return nil
}
