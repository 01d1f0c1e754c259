package handlers

import (
	"go.uber.org/zap"

	"github.com/ledgerline/inventory-core/internal/service"
)

var (
	stockService     *service.StockService
	financialService *service.FinancialService

	logger = zap.NewNop()
)

func SetStockService(s *service.StockService) {
	stockService = s
}

func SetFinancialService(s *service.FinancialService) {
	financialService = s
}

func SetLogger(l *zap.Logger) {
	logger = l
}
