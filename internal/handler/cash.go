package handler

import (
	"net/http"

	"ledgercore/internal/apierror"
	"ledgercore/internal/dto"
	"ledgercore/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CashHandler struct{ svc service.CashService }

func NewCashHandler(svc service.CashService) *CashHandler { return &CashHandler{svc: svc} }

func (h *CashHandler) OpenSession(c *gin.Context) {
	var req dto.OpenSessionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.OpenSession(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CashHandler) CloseSession(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	var req dto.CloseSessionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CloseSession(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CashHandler) AddTransaction(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	var req dto.AddCashTransactionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AddTransaction(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CashHandler) GetActive(c *gin.Context) {
	resp, err := h.svc.GetActive(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CashHandler) Report(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	resp, err := h.svc.Report(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CashHandler) ListSessions(c *gin.Context) {
	resp, err := h.svc.ListSessions(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}
