// backend-go/internal/api/handlers/po_handler.go
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vendorpulse/backend-go/internal/domain"
	"github.com/vendorpulse/backend-go/internal/service"
)

type POHandler struct {
	poService *service.PurchaseOrderService
}

func NewPOHandler(poService *service.PurchaseOrderService) *POHandler {
	return &POHandler{poService: poService}
}

type createPORequest struct {
	PONumber     string         `json:"po_number"`
	VendorCode   string         `json:"vendor_code"`
	Items        domain.ItemMap `json:"items"`
	DeliveryDate *time.Time     `json:"delivery_date"`
}

type transitionRequest struct {
	Status        string   `json:"status"`
	QualityRating *float64 `json:"quality_rating"`
}

// CreatePO places a new purchase order with an existing vendor
func (h *POHandler) CreatePO(c *gin.Context) {
	var req createPORequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	po, err := h.poService.CreatePurchaseOrder(c.Request.Context(), service.CreatePurchaseOrderInput{
		PONumber:     req.PONumber,
		VendorCode:   req.VendorCode,
		Items:        req.Items,
		DeliveryDate: req.DeliveryDate,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, po)
}

// ListPOs returns all purchase orders, optionally scoped to one vendor
func (h *POHandler) ListPOs(c *gin.Context) {
	orders, err := h.poService.ListPurchaseOrders(c.Request.Context(), c.Query("vendor_code"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, orders)
}

// GetPO returns one purchase order by number
func (h *POHandler) GetPO(c *gin.Context) {
	po, err := h.poService.GetPurchaseOrder(c.Request.Context(), c.Param("po_number"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, po)
}

type updatePORequest struct {
	Items        domain.ItemMap `json:"items"`
	DeliveryDate *time.Time     `json:"delivery_date"`
}

// UpdatePO edits the mutable order fields
func (h *POHandler) UpdatePO(c *gin.Context) {
	var req updatePORequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	po, err := h.poService.UpdatePurchaseOrder(c.Request.Context(), c.Param("po_number"), service.UpdatePurchaseOrderInput{
		Items:        req.Items,
		DeliveryDate: req.DeliveryDate,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, po)
}

// DeletePO removes a purchase order
func (h *POHandler) DeletePO(c *gin.Context) {
	if err := h.poService.DeletePurchaseOrder(c.Request.Context(), c.Param("po_number")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Transition moves an order to a new lifecycle status and kicks off the
// metric recomputation
func (h *POHandler) Transition(c *gin.Context) {
	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	status, ok := domain.ParseOrderStatus(req.Status)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status value"})
		return
	}

	po, err := h.poService.ApplyTransition(c.Request.Context(), c.Param("po_number"), status, req.QualityRating)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, po)
}

// Acknowledge stamps the vendor acknowledgment time on an order
func (h *POHandler) Acknowledge(c *gin.Context) {
	po, err := h.poService.Acknowledge(c.Request.Context(), c.Param("po_number"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, po)
}
