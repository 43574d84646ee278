package locationrepo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"goship/internal/domain"
	"goship/internal/errors"
	"goship/internal/pkg/logger"
)

// LocationRepository implementa o CRUD de locais de estoque, sempre escopado pela marca.
type LocationRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewLocationRepository cria e retorna uma nova instância do Repositório de Locais.
func NewLocationRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *LocationRepository {
	return &LocationRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

// CreateLocation insere um novo local no banco de dados.
func (r *LocationRepository) CreateLocation(ctx context.Context, location domain.Location) (domain.Location, error) {
	r.logger.Debug("Iniciando CreateLocation no repositório.", map[string]interface{}{"name": location.Name, "brand_id": location.BrandID})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	if location.ID == "" {
		location.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	location.CreatedAt = now
	location.UpdatedAt = now

	query := `
        INSERT INTO locations (id, brand_id, name, address, type, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, brand_id, name, address, type, created_at, updated_at`

	err := r.DB.QueryRowContext(ctxTimeout, query,
		location.ID, location.BrandID, location.Name, location.Address, location.Type, location.CreatedAt, location.UpdatedAt,
	).Scan(
		&location.ID, &location.BrandID, &location.Name, &location.Address, &location.Type, &location.CreatedAt, &location.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Falha ao inserir local no DB.", err)
		return domain.Location{}, errors.NewDBError("Falha ao criar local", err)
	}

	r.logger.Info("Local criado com sucesso.", map[string]interface{}{"id": location.ID, "name": location.Name})
	return location, nil
}

// GetLocationByID busca um local da marca pelo ID.
func (r *LocationRepository) GetLocationByID(ctx context.Context, brandID, id string) (domain.Location, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        SELECT id, brand_id, name, address, type, created_at, updated_at
        FROM locations
        WHERE id = $1 AND brand_id = $2`

	var location domain.Location
	err := r.DB.QueryRowContext(ctxTimeout, query, id, brandID).Scan(
		&location.ID, &location.BrandID, &location.Name, &location.Address, &location.Type, &location.CreatedAt, &location.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		r.logger.Info("Local não encontrado.", map[string]interface{}{"id": id, "brand_id": brandID})
		return domain.Location{}, errors.NewNotFoundError(fmt.Sprintf("Local com ID %s não encontrado.", id))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar local no DB.", err)
		return domain.Location{}, errors.NewDBError("Falha ao buscar local", err)
	}
	return location, nil
}

// ListLocations busca todos os locais da marca, em ordem alfabética.
func (r *LocationRepository) ListLocations(ctx context.Context, brandID string) ([]domain.Location, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        SELECT id, brand_id, name, address, type, created_at, updated_at
        FROM locations
        WHERE brand_id = $1
        ORDER BY name`

	rows, err := r.DB.QueryContext(ctxTimeout, query, brandID)
	if err != nil {
		r.logger.Error("Falha ao executar ListLocations query.", err)
		return nil, errors.NewDBError("Falha ao buscar locais", err)
	}
	defer rows.Close()

	locations := []domain.Location{}
	for rows.Next() {
		var location domain.Location
		if err := rows.Scan(
			&location.ID, &location.BrandID, &location.Name, &location.Address, &location.Type, &location.CreatedAt, &location.UpdatedAt,
		); err != nil {
			r.logger.Error("Falha ao mapear local na iteração de ListLocations.", err)
			return nil, errors.NewDBError("Falha ao mapear locais do DB", err)
		}
		locations = append(locations, location)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Erro após iteração das linhas de locais.", err)
		return nil, errors.NewDBError("Erro após iteração de locais", err)
	}

	r.logger.Debug("ListLocations concluído.", map[string]interface{}{"brand_id": brandID, "total": len(locations)})
	return locations, nil
}

// UpdateLocation atualiza um local existente da marca.
func (r *LocationRepository) UpdateLocation(ctx context.Context, location domain.Location) (domain.Location, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	location.UpdatedAt = time.Now().UTC()

	query := `
        UPDATE locations
        SET name = $1, address = $2, type = $3, updated_at = $4
        WHERE id = $5 AND brand_id = $6
        RETURNING id, brand_id, name, address, type, created_at, updated_at`

	err := r.DB.QueryRowContext(ctxTimeout, query,
		location.Name, location.Address, location.Type, location.UpdatedAt, location.ID, location.BrandID,
	).Scan(
		&location.ID, &location.BrandID, &location.Name, &location.Address, &location.Type, &location.CreatedAt, &location.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return domain.Location{}, errors.NewNotFoundError(fmt.Sprintf("Local com ID %s não encontrado para atualização.", location.ID))
	}
	if err != nil {
		r.logger.Error("Falha ao atualizar local no DB.", err)
		return domain.Location{}, errors.NewDBError("Falha ao atualizar local", err)
	}

	r.logger.Info("Local atualizado com sucesso.", map[string]interface{}{"id": location.ID})
	return location, nil
}

// DeleteLocation remove um local da marca.
func (r *LocationRepository) DeleteLocation(ctx context.Context, brandID, id string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM locations WHERE id = $1 AND brand_id = $2`, id, brandID)
	if err != nil {
		r.logger.Error("Falha ao deletar local do DB.", err)
		return errors.NewDBError("Falha ao deletar local", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewDBError("Falha ao verificar linhas afetadas", err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("Local com ID %s não encontrado para exclusão.", id))
	}

	r.logger.Info("Local deletado com sucesso.", map[string]interface{}{"id": id})
	return nil
}
