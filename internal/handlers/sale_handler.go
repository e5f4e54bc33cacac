package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barberia-api/internal/domain/payment"
	"github.com/BruksfildServices01/barberia-api/internal/httperr"
	"github.com/BruksfildServices01/barberia-api/internal/usecase/sale"
)

type SaleHandler struct {
	pay    *sale.PaySale
	cancel *sale.CancelSale
	get    *sale.GetSale
}

func NewSaleHandler(pay *sale.PaySale, cancel *sale.CancelSale, get *sale.GetSale) *SaleHandler {
	return &SaleHandler{pay: pay, cancel: cancel, get: get}
}

// --------- Requests ---------

// PayRequest mirrors the bank's field names; tokenized providers use the
// lower-case fields instead of card data.
type PayRequest struct {
	CardNumber  string  `json:"NumeroTarjetaOrigen"`
	Destination string  `json:"NumeroTarjetaDestino"`
	Holder      string  `json:"NombreCliente"`
	ExpMonth    int     `json:"MesExp"`
	ExpYear     int     `json:"AnioExp"`
	CVV         string  `json:"Cvv"`
	Amount      float64 `json:"Monto"`

	Token           string `json:"token"`
	PaymentMethodID string `json:"payment_method_id"`
	Installments    int    `json:"installments"`
	Email           string `json:"email"`
}

func (r PayRequest) card() payment.Card {
	return payment.Card{
		Number:          r.CardNumber,
		Holder:          r.Holder,
		ExpMonth:        r.ExpMonth,
		ExpYear:         r.ExpYear,
		CVV:             r.CVV,
		Token:           r.Token,
		PaymentMethodID: r.PaymentMethodID,
		Installments:    r.Installments,
		Email:           r.Email,
		Destination:     r.Destination,
	}
}

// --------- Handlers ---------

func (h *SaleHandler) Get(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	detail, err := h.get.Execute(c.Request.Context(), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

func (h *SaleHandler) Pay(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req PayRequest
	if !bindJSON(c, &req) {
		return
	}

	tx, err := h.pay.Execute(c.Request.Context(), sale.PayInput{
		SaleID: id,
		Amount: req.Amount,
		Card:   req.card(),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, tx)
}

func (h *SaleHandler) Cancel(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req CancelRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	s, err := h.cancel.Execute(c.Request.Context(), id, req.Reason, actorID(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, s)
}
