package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barberia-api/internal/httperr"
	"github.com/BruksfildServices01/barberia-api/internal/usecase/availability"
	"github.com/BruksfildServices01/barberia-api/internal/usecase/sale"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

// MallHandler serves the partner mall. Field names follow the mall's
// contract, typos included.
type MallHandler struct {
	day      *availability.MallDay
	register *sale.RegisterMallSale
}

func NewMallHandler(day *availability.MallDay, register *sale.RegisterMallSale) *MallHandler {
	return &MallHandler{day: day, register: register}
}

////////////////////////////////////////////////////////
// DTOs
////////////////////////////////////////////////////////

type MallDayRequest struct {
	StoreID           uint   `json:"store_id" binding:"required"`
	ServiceExternalID string `json:"service_external_id" binding:"required"`
	AppointmentDate   string `json:"appointment_date" binding:"required"`
}

type MallSaleRequest struct {
	ID          *int64 `json:"id"`
	MallOrderID string `json:"mall_order_id"`
	UserID      string `json:"user_id"`
	StoreID     uint   `json:"store_id" binding:"required"`

	ServiceExternalID  string  `json:"service_external_id"`
	ServiceName        string  `json:"service_name"`
	ServiceDescription string  `json:"service_description"`
	ServicePrice       float64 `json:"service_price"`

	// The mall sends "apointment_*"; the corrected spelling is accepted too.
	ApointmentDate  string `json:"apointment_date"`
	ApointmentTime  string `json:"apointment_time"`
	AppointmentDate string `json:"appointment_date"`
	AppointmentTime string `json:"appointment_time"`

	DurationMinutes int     `json:"duration_minutes"`
	PaymentStatus   string  `json:"payment_status"`
	PaymentMethod   string  `json:"payment_method"`
	Quantity        int     `json:"quantity"`
	DiscountAmount  float64 `json:"discount_amount"`
	Origin          string  `json:"origin"`
	Comments        string  `json:"comments"`
}

func (r MallSaleRequest) input() sale.MallSaleInput {
	orderID := r.MallOrderID
	if orderID == "" && r.ID != nil {
		orderID = strconv.FormatInt(*r.ID, 10)
	}
	return sale.MallSaleInput{
		MallOrderID:        orderID,
		UserID:             r.UserID,
		StoreID:            r.StoreID,
		ServiceExternalID:  r.ServiceExternalID,
		ServiceName:        r.ServiceName,
		ServiceDescription: r.ServiceDescription,
		ServicePrice:       r.ServicePrice,
		AppointmentDate:    firstNonEmpty(r.ApointmentDate, r.AppointmentDate),
		AppointmentTime:    firstNonEmpty(r.ApointmentTime, r.AppointmentTime),
		DurationMinutes:    r.DurationMinutes,
		PaymentStatus:      r.PaymentStatus,
		PaymentMethod:      r.PaymentMethod,
		Quantity:           r.Quantity,
		DiscountAmount:     r.DiscountAmount,
		Origin:             r.Origin,
		Comments:           r.Comments,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

////////////////////////////////////////////////////////
// AVAILABILITY (SOL_DISP_FECHA)
////////////////////////////////////////////////////////

func (h *MallHandler) DayAvailability(c *gin.Context) {
	var req MallDayRequest
	if !bindJSON(c, &req) {
		return
	}

	slots, err := h.day.Execute(c.Request.Context(), availability.MallDayInput{
		StoreID:           req.StoreID,
		ServiceExternalID: req.ServiceExternalID,
		Date:              req.AppointmentDate,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, slots)
}

////////////////////////////////////////////////////////
// SALE (REG_VTA_SERV)
////////////////////////////////////////////////////////

func (h *MallHandler) RegisterSale(c *gin.Context) {
	var req MallSaleRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.register.Execute(c.Request.Context(), req.input())
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}
