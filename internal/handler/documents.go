package handler

import (
	"net/http"

	"ledgercore/internal/apierror"
	"ledgercore/internal/dto"
	"ledgercore/internal/model"
	"ledgercore/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type DocumentsHandler struct{ svc service.DocumentService }

func NewDocumentsHandler(svc service.DocumentService) *DocumentsHandler {
	return &DocumentsHandler{svc: svc}
}

func (h *DocumentsHandler) CreateSales(c *gin.Context) {
	h.create(c, model.KindSales)
}

func (h *DocumentsHandler) CreatePurchase(c *gin.Context) {
	h.create(c, model.KindPurchase)
}

func (h *DocumentsHandler) create(c *gin.Context, kind model.DocumentKind) {
	var req dto.CreateDocumentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	var resp *dto.DocumentResponse
	var err error
	if kind == model.KindSales {
		resp, err = h.svc.CreateSales(c.Request.Context(), req)
	} else {
		resp, err = h.svc.CreatePurchase(c.Request.Context(), req)
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *DocumentsHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *DocumentsHandler) Update(c *gin.Context) {
	var req dto.UpdateDocumentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	req.ID = c.Param("id")
	resp, err := h.svc.Update(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *DocumentsHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *DocumentsHandler) ListSales(c *gin.Context) {
	h.list(c, model.KindSales)
}

func (h *DocumentsHandler) ListPurchases(c *gin.Context) {
	h.list(c, model.KindPurchase)
}

func (h *DocumentsHandler) list(c *gin.Context, kind model.DocumentKind) {
	resp, err := h.svc.List(c.Request.Context(), kind)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}
