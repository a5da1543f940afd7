package handler

import (
	"dormitory-backend/internal/models"
	"dormitory-backend/internal/repository"
	"dormitory-backend/internal/service"
	"dormitory-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	paymentService *service.PaymentService
}

func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// GetAllPayments lists payments; students only ever see their own
func (h *PaymentHandler) GetAllPayments(c *gin.Context) {
	filter := repository.PaymentFilter{
		StudentID: queryUint(c, "student_id"),
		Status:    models.PaymentStatus(c.Query("status")),
		Method:    models.PaymentMethod(c.Query("method")),
		From:      queryDate(c, "from"),
		To:        queryDate(c, "to"),
	}
	page := pageFrom(c)

	payments, total, err := h.paymentService.GetPayments(scopeOf(c), filter, page)
	if err != nil {
		respondError(c, err)
		return
	}
	listResponse(c, payments, total, page)
}

func (h *PaymentHandler) GetPayment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	payment, err := h.paymentService.GetPayment(scopeOf(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, payment)
}

func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	var in service.PaymentInput
	if !bindJSON(c, &in) {
		return
	}
	payment, err := h.paymentService.CreatePayment(scopeOf(c), in, actorID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.CreatedResponse(c, payment)
}

func (h *PaymentHandler) UpdatePayment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in service.PaymentInput
	if !bindJSON(c, &in) {
		return
	}
	payment, err := h.paymentService.UpdatePayment(scopeOf(c), id, in, actorID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, payment)
}

func (h *PaymentHandler) DeletePayment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.paymentService.DeletePayment(scopeOf(c), id, actorID(c)); err != nil {
		respondError(c, err)
		return
	}
	utils.MessageResponse(c, "Payment deleted successfully")
}

// MyPayments lists the payments of the caller's own student record
func (h *PaymentHandler) MyPayments(c *gin.Context) {
	scope := repository.Scope{UserID: actorID(c), Role: models.RoleStudent}
	page := pageFrom(c)

	payments, total, err := h.paymentService.GetPayments(scope, repository.PaymentFilter{}, page)
	if err != nil {
		respondError(c, err)
		return
	}
	listResponse(c, payments, total, page)
}
