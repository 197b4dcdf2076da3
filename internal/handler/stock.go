package handler

import (
	"net/http"

	"ledgercore/internal/apierror"
	"ledgercore/internal/dto"
	"ledgercore/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type StockHandler struct{ svc service.StockService }

func NewStockHandler(svc service.StockService) *StockHandler { return &StockHandler{svc: svc} }

func (h *StockHandler) CreateWarehouse(c *gin.Context) {
	var req dto.CreateWarehouseRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateWarehouse(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *StockHandler) ListWarehouses(c *gin.Context) {
	resp, err := h.svc.ListWarehouses(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (h *StockHandler) CreateProduct(c *gin.Context) {
	var req dto.CreateProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateProduct(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *StockHandler) GetProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	resp, err := h.svc.GetProduct(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *StockHandler) ListProducts(c *gin.Context) {
	resp, err := h.svc.ListProducts(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (h *StockHandler) Transfer(c *gin.Context) {
	var req dto.TransferStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Transfer(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *StockHandler) ListTransfers(c *gin.Context) {
	resp, err := h.svc.ListTransfers(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (h *StockHandler) Adjust(c *gin.Context) {
	var req dto.AdjustStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Adjust(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *StockHandler) Alerts(c *gin.Context) {
	resp, err := h.svc.Alerts(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}
