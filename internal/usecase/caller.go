package usecase

import (
	"buildseason/internal/domain/model"

	"github.com/google/uuid"
)

// Caller はリクエストごとに解決した「誰が・どのチームで・どのロールか」。
// middlewareで作ってhandlerから毎回明示的に渡す。
type Caller struct {
	TeamID string
	UserID string
	Role   model.Role
}

func (c Caller) validate() error {
	if c.UserID == "" {
		return NewUnauthorizedError("unauthorized")
	}
	if c.TeamID == "" {
		return NewNotFoundError("team not found")
	}
	if _, ok := model.ParseRole(string(c.Role)); !ok {
		return NewForbiddenError("forbidden")
	}
	return nil
}

// admin / mentor のみ
func (c Caller) requireElevated(message string) error {
	if err := c.validate(); err != nil {
		return err
	}
	if !c.Role.IsElevated() {
		return NewForbiddenError(message)
	}
	return nil
}

// パスのIDがUUIDでなければ、その資源は存在しない扱い
func requireID(id string, notFound string) error {
	if _, err := uuid.Parse(id); err != nil {
		return NewNotFoundError(notFound)
	}
	return nil
}
