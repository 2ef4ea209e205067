package repository

import (
	"errors"
	"fmt"
	"testing"

	repo "buildseason/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestMapError(t *testing.T) {
	other := errors.New("connection reset")

	tests := []struct {
		name string
		in   error
		want error
	}{
		{"nil", nil, nil},
		{"record not found", gorm.ErrRecordNotFound, repo.ErrNotFound},
		// WHERE id = 'not-a-uuid'
		{"invalid uuid text", &pgconn.PgError{Code: "22P02"}, repo.ErrNotFound},
		{"wrapped invalid uuid text", fmt.Errorf("find order: %w", &pgconn.PgError{Code: "22P02"}), repo.ErrNotFound},
		{"foreign key", &pgconn.PgError{Code: "23503"}, repo.ErrNotFound},
		{"unique", &pgconn.PgError{Code: "23505"}, repo.ErrConflict},
		{"numeric out of range", &pgconn.PgError{Code: "22003"}, nil},
		{"other", other, other},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapError(tt.in)
			switch {
			case tt.in == nil:
				assert.NoError(t, got)
			case tt.want == nil:
				// 対応しないコードはそのまま
				assert.Same(t, tt.in, got)
			default:
				assert.ErrorIs(t, got, tt.want)
			}
		})
	}
}
