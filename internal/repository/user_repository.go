package repository

import (
	"context"

	"asistente-fincas/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type UserRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewUserRepository(db *pgxpool.Pool, logger *zap.Logger) *UserRepository {
	return &UserRepository{
		db:     db,
		logger: logger,
	}
}

func (r *UserRepository) GetByNombre(ctx context.Context, nombre string) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"nombre": nombre})
}

// GetByPhone looks a user up by mobile number, used for automatic
// authentication on channels where the sender's number is known.
func (r *UserRepository) GetByPhone(ctx context.Context, telefono string) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"telefono_movil": telefono})
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

func (r *UserRepository) getOne(ctx context.Context, where squirrel.Eq) (*models.User, error) {
	query := squirrel.Select("id", "nombre", "telefono_movil", "password", "rol", "created_at", "updated_at").
		From("usuarios").
		Where(where).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var user models.User
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&user.ID, &user.Nombre, &user.TelefonoMovil, &user.Password, &user.Rol, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &user, nil
}
