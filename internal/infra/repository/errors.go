package repository

import (
	"errors"

	repo "buildseason/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Postgresのエラーコード
const (
	pgInvalidTextRepresentation = "22P02"
	pgForeignKeyViolation       = "23503"
	pgUniqueViolation           = "23505"
)

// DBのエラーをrepositoryのエラーへ寄せる。
// 該当しないものはそのまま返す（usecase側で500扱い）。
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return repo.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		// uuid列に不正な文字列が来た＝その行は無い
		case pgInvalidTextRepresentation, pgForeignKeyViolation:
			return repo.ErrNotFound
		case pgUniqueViolation:
			return repo.ErrConflict
		}
	}
	return err
}
