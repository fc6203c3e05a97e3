package order

import (
	"database/sql"

	cartrepo "hornero/internal/cart/repository"
	"hornero/internal/config"
	"hornero/internal/infrastructure/mercadopago"
	"hornero/internal/order/controller"
	orderrepo "hornero/internal/order/repository"
	"hornero/internal/order/service"
	"hornero/internal/order/usecase"

	"go.uber.org/zap"
)

func NewModule(db *sql.DB, cfg *config.Config, logger *zap.Logger) *controller.OrderController {
	orderRepo := orderrepo.NewMySQLOrderRepository(db)
	cartRepo := cartrepo.NewMySQLCartRepository(db)
	gateway := mercadopago.NewClient(cfg.Payment, logger)

	checkout := usecase.NewCheckoutUseCase(
		cartRepo,
		orderRepo,
		gateway,
		usecase.CheckoutURLs{
			Success: cfg.Payment.SuccessURL,
			Failure: cfg.Payment.FailureURL,
			Notify:  cfg.Payment.NotifyURL,
		},
		logger,
	)
	webhook := usecase.NewPaymentWebhookUseCase(orderRepo, gateway, logger)
	svc := service.NewOrderService(orderRepo, gateway, logger)

	return controller.NewOrderController(checkout, webhook, svc, logger)
}
