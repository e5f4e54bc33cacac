package sale

import (
	"context"

	"github.com/BruksfildServices01/barberia-api/internal/domain/sale"
	"github.com/BruksfildServices01/barberia-api/internal/models"
)

type SaleDetail struct {
	models.Sale
	Lines        []models.SaleLine           `json:"lines"`
	Transactions []models.PaymentTransaction `json:"transactions"`
}

type GetSale struct {
	sales sale.Repository
}

func NewGetSale(sales sale.Repository) *GetSale {
	return &GetSale{sales: sales}
}

func (uc *GetSale) Execute(ctx context.Context, id uint) (*SaleDetail, error) {
	s, err := uc.sales.GetSale(ctx, id)
	if err != nil {
		return nil, err
	}
	lines, err := uc.sales.ListLines(ctx, id)
	if err != nil {
		return nil, err
	}
	txs, err := uc.sales.ListTransactions(ctx, id)
	if err != nil {
		return nil, err
	}
	return &SaleDetail{Sale: *s, Lines: lines, Transactions: txs}, nil
}
