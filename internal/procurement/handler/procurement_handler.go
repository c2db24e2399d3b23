package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dssolutions-mx/mtto-server/internal/procurement/repository"
	"github.com/dssolutions-mx/mtto-server/internal/procurement/service"
	"github.com/gin-gonic/gin"
)

type ProcurementHandler struct {
	svc *service.ProcurementService
}

func NewProcurementHandler(svc *service.ProcurementService) *ProcurementHandler {
	return &ProcurementHandler{svc: svc}
}

// --- Drafts ---

func (h *ProcurementHandler) CreateDraft(c *gin.Context) {
	var req service.CreateDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
		return
	}
	userID, _ := c.Get("user_id")
	draft, err := h.svc.CreateDraft(c.Request.Context(), userID.(string), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 50001, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": draft})
}

func (h *ProcurementHandler) GetDraft(c *gin.Context) {
	draft, err := h.svc.GetDraft(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrDraftNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"code": 10002, "message": "draft not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"code": 50001, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": draft})
}

func (h *ProcurementHandler) UpdateDraft(c *gin.Context) {
	var req service.UpdateDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
		return
	}
	draft, err := h.svc.UpdateDraft(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.draftError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": draft})
}

func (h *ProcurementHandler) DiscardDraft(c *gin.Context) {
	if err := h.svc.DiscardDraft(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 50001, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success"})
}

// --- Items ---

func (h *ProcurementHandler) AddItem(c *gin.Context) {
	var req service.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
		return
	}
	draft, err := h.svc.AddItem(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.draftError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": draft})
}

func (h *ProcurementHandler) UpdateItem(c *gin.Context) {
	var req service.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
		return
	}
	draft, err := h.svc.UpdateItem(c.Request.Context(), c.Param("id"), c.Param("itemId"), req)
	if err != nil {
		h.draftError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": draft})
}

func (h *ProcurementHandler) RemoveItem(c *gin.Context) {
	draft, err := h.svc.RemoveItem(c.Request.Context(), c.Param("id"), c.Param("itemId"))
	if err != nil {
		h.draftError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": draft})
}

// --- Quotation requirement ---

func (h *ProcurementHandler) Evaluate(c *gin.Context) {
	requirement, err := h.svc.Evaluate(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.draftError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": requirement})
}

// --- Quotation composition ---

func (h *ProcurementHandler) BeginQuotation(c *gin.Context) {
	var req service.BeginQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
		return
	}
	draft, err := h.svc.BeginQuotation(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.draftError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": draft})
}

func (h *ProcurementHandler) AddQuotationItem(c *gin.Context) {
	var req service.AddQuotationItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
		return
	}
	draft, err := h.svc.AddQuotationItem(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.draftError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": draft})
}

func (h *ProcurementHandler) RemoveQuotationItem(c *gin.Context) {
	draft, err := h.svc.RemoveQuotationItem(c.Request.Context(), c.Param("id"), c.Param("itemId"))
	if err != nil {
		h.draftError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": draft})
}

func (h *ProcurementHandler) AttachQuotationFile(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": "a quotation file is required"})
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	draft, err := h.svc.AttachQuotationFile(c.Request.Context(), c.Param("id"), header.Filename, file, header.Size, contentType)
	if err != nil {
		h.draftError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": draft})
}

func (h *ProcurementHandler) CommitQuotation(c *gin.Context) {
	draft, err := h.svc.CommitQuotation(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.draftError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": draft})
}

func (h *ProcurementHandler) RemoveQuotation(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": "quotation index must be a number"})
		return
	}
	draft, err := h.svc.RemoveQuotation(c.Request.Context(), c.Param("id"), index)
	if err != nil {
		h.draftError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": draft})
}

// --- Submission ---

func (h *ProcurementHandler) Submit(c *gin.Context) {
	result, err := h.svc.Submit(c.Request.Context(), c.Param("id"))
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"code": 10004, "message": "draft validation failed", "data": gin.H{"errors": verr.Errors}})
			return
		}
		if errors.Is(err, service.ErrDraftNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"code": 10002, "message": "draft not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"code": 50001, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": result})
}

// --- Orders (read side) ---

func (h *ProcurementHandler) GetOrder(c *gin.Context) {
	po, err := h.svc.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"code": 10002, "message": "purchase order not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": po})
}

func (h *ProcurementHandler) ListOrders(c *gin.Context) {
	params := orderListParams(c)
	orders, total, err := h.svc.ListOrders(c.Request.Context(), params)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 50001, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": gin.H{"items": orders, "total": total, "page": params.Page, "size": params.Size}})
}

func (h *ProcurementHandler) ExportOrders(c *gin.Context) {
	f, filename, err := h.svc.ExportOrders(c.Request.Context(), orderListParams(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 50001, "message": err.Error()})
		return
	}
	defer f.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=\""+filename+"\"")
	c.Header("Content-Transfer-Encoding", "binary")

	if err := f.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 50001, "message": "write excel: " + err.Error()})
	}
}

func (h *ProcurementHandler) QuotationFileURL(c *gin.Context) {
	url, err := h.svc.QuotationFileURL(c.Request.Context(), c.Param("id"), c.Param("quotationId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"code": 10002, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": gin.H{"url": url}})
}

func (h *ProcurementHandler) draftError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrDraftNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"code": 10002, "message": "draft not found"})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"code": 10004, "message": err.Error()})
}

func orderListParams(c *gin.Context) repository.OrderListParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	return repository.OrderListParams{
		Status:      c.Query("status"),
		OrderType:   c.Query("order_type"),
		Purpose:     c.Query("purpose"),
		WorkOrderID: c.Query("work_order_id"),
		PlantID:     c.Query("plant_id"),
		Keyword:     c.Query("keyword"),
		Page:        page,
		Size:        size,
	}
}
