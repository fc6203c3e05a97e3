package cart

import (
	"database/sql"

	"hornero/internal/cart/controller"
	"hornero/internal/cart/repository"
	"hornero/internal/cart/service"
	catalogrepo "hornero/internal/catalog/repository"

	"go.uber.org/zap"
)

func NewModule(db *sql.DB, logger *zap.Logger) *controller.CartController {
	cartRepo := repository.NewMySQLCartRepository(db)
	productRepo := catalogrepo.NewMySQLRepository(db)
	svc := service.NewCartService(cartRepo, productRepo, logger)
	return controller.NewCartController(svc, logger)
}
