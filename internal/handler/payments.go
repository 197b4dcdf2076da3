package handler

import (
	"net/http"

	"ledgercore/internal/dto"
	"ledgercore/internal/service"

	"github.com/gin-gonic/gin"
)

type PaymentsHandler struct{ svc service.PaymentService }

func NewPaymentsHandler(svc service.PaymentService) *PaymentsHandler {
	return &PaymentsHandler{svc: svc}
}

// Record settles a document and posts the movement into bank or cash.
func (h *PaymentsHandler) Record(c *gin.Context) {
	var req dto.RecordPaymentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RecordDocumentPayment(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
