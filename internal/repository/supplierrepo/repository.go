package supplierrepo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"goship/internal/domain"
	"goship/internal/errors"
	"goship/internal/pkg/logger"
)

// SupplierRepository persiste fornecedores. Certifications vai para uma coluna TEXT
// separada por vírgulas.
type SupplierRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewSupplierRepository cria e retorna uma nova instância do Repositório de Fornecedores.
func NewSupplierRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *SupplierRepository {
	return &SupplierRepository{DB: db, DBTimeout: dbTimeout, logger: logger}
}

const supplierColumns = `id, brand_id, name, contact_email, phone, certifications, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSupplier(row rowScanner) (domain.Supplier, error) {
	var (
		s     domain.Supplier
		certs string
	)
	if err := row.Scan(&s.ID, &s.BrandID, &s.Name, &s.ContactEmail, &s.Phone, &certs, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return domain.Supplier{}, err
	}
	s.Certifications = domain.SplitCertifications(certs)
	return s, nil
}

// Create insere um fornecedor.
func (r *SupplierRepository) Create(ctx context.Context, s domain.Supplier) (domain.Supplier, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	_, err := r.DB.ExecContext(ctxTimeout, `
		INSERT INTO suppliers (`+supplierColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		s.ID, s.BrandID, s.Name, s.ContactEmail, s.Phone, s.Certifications.Join(), s.CreatedAt, s.UpdatedAt)
	if err != nil {
		r.logger.Error("Falha ao inserir fornecedor no DB.", err)
		return domain.Supplier{}, errors.NewDBError("Falha ao criar fornecedor", err)
	}
	s.Certifications = domain.SplitCertifications(s.Certifications.Join())
	return s, nil
}

// FindByID busca um fornecedor da marca.
func (r *SupplierRepository) FindByID(ctx context.Context, brandID, id string) (domain.Supplier, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	s, err := scanSupplier(r.DB.QueryRowContext(ctxTimeout,
		`SELECT `+supplierColumns+` FROM suppliers WHERE id = $1 AND brand_id = $2`, id, brandID))
	if err == sql.ErrNoRows {
		return domain.Supplier{}, errors.NewNotFoundError(fmt.Sprintf("Fornecedor com ID %s não encontrado.", id))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar fornecedor no DB.", err)
		return domain.Supplier{}, errors.NewDBError("Falha ao buscar fornecedor", err)
	}
	return s, nil
}

// List retorna os fornecedores da marca por nome.
func (r *SupplierRepository) List(ctx context.Context, brandID string) ([]domain.Supplier, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	rows, err := r.DB.QueryContext(ctxTimeout,
		`SELECT `+supplierColumns+` FROM suppliers WHERE brand_id = $1 ORDER BY name, id`, brandID)
	if err != nil {
		r.logger.Error("Falha ao listar fornecedores.", err)
		return nil, errors.NewDBError("Falha ao listar fornecedores", err)
	}
	defer rows.Close()

	suppliers := []domain.Supplier{}
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, errors.NewDBError("Falha ao mapear fornecedor", err)
		}
		suppliers = append(suppliers, s)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDBError("Erro após iteração de fornecedores", err)
	}
	return suppliers, nil
}

// Update grava os campos editáveis do fornecedor.
func (r *SupplierRepository) Update(ctx context.Context, s domain.Supplier) (domain.Supplier, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	updated, err := scanSupplier(r.DB.QueryRowContext(ctxTimeout, `
		UPDATE suppliers
		SET name = $1, contact_email = $2, phone = $3, certifications = $4, updated_at = $5
		WHERE id = $6 AND brand_id = $7
		RETURNING `+supplierColumns,
		s.Name, s.ContactEmail, s.Phone, s.Certifications.Join(), s.UpdatedAt, s.ID, s.BrandID))
	if err == sql.ErrNoRows {
		return domain.Supplier{}, errors.NewNotFoundError(fmt.Sprintf("Fornecedor com ID %s não encontrado para atualização.", s.ID))
	}
	if err != nil {
		r.logger.Error("Falha ao atualizar fornecedor.", err)
		return domain.Supplier{}, errors.NewDBError("Falha ao atualizar fornecedor", err)
	}
	return updated, nil
}

// Delete remove um fornecedor da marca.
func (r *SupplierRepository) Delete(ctx context.Context, brandID, id string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	res, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM suppliers WHERE id = $1 AND brand_id = $2`, id, brandID)
	if err != nil {
		r.logger.Error("Falha ao remover fornecedor.", err)
		return errors.NewDBError("Falha ao remover fornecedor", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("Fornecedor com ID %s não encontrado para exclusão.", id))
	}
	return nil
}
