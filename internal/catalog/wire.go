package catalog

import (
	"database/sql"

	"hornero/internal/catalog/repository"

	"go.uber.org/zap"
)

func NewModule(db *sql.DB, logger *zap.Logger) *Controller {
	repo := repository.NewMySQLRepository(db)
	svc := NewService(repo)
	uc := NewSearchUseCase(svc)
	return NewController(uc, svc, logger)
}
