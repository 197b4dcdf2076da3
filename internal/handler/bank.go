package handler

import (
	"net/http"

	"ledgercore/internal/apierror"
	"ledgercore/internal/dto"
	"ledgercore/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BankHandler struct{ svc service.BankService }

func NewBankHandler(svc service.BankService) *BankHandler { return &BankHandler{svc: svc} }

func (h *BankHandler) CreateAccount(c *gin.Context) {
	var req dto.CreateBankAccountRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateAccount(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *BankHandler) GetAccount(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	resp, err := h.svc.GetAccount(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *BankHandler) UpdateAccount(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	var req dto.UpdateBankAccountRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateAccount(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *BankHandler) DeleteAccount(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	if err := h.svc.DeleteAccount(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *BankHandler) ListAccounts(c *gin.Context) {
	resp, err := h.svc.ListAccounts(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (h *BankHandler) AddTransaction(c *gin.Context) {
	var req dto.AddBankTransactionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AddTransaction(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *BankHandler) DeleteTransaction(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	if err := h.svc.DeleteTransaction(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *BankHandler) ListTransactions(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	resp, err := h.svc.ListTransactions(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}
