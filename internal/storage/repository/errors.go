package repository

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// Сигнальные ошибки хранилища. Сервисы различают по ним отсутствие
// записи и нарушение уникальности, не заглядывая в коды PostgreSQL.
var (
	// ErrNotFound запись с указанным ключом отсутствует.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists нарушено ограничение уникальности.
	ErrAlreadyExists = errors.New("record already exists")
)

// mapError переводит ошибки драйвера в сигнальные ошибки хранилища.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return ErrAlreadyExists
	}
	return err
}
