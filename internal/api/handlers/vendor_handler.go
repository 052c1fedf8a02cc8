// backend-go/internal/api/handlers/vendor_handler.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vendorpulse/backend-go/internal/service"
)

type VendorHandler struct {
	vendorService *service.VendorService
}

func NewVendorHandler(vendorService *service.VendorService) *VendorHandler {
	return &VendorHandler{vendorService: vendorService}
}

type vendorRequest struct {
	Code           string `json:"vendor_code"`
	Name           string `json:"name"`
	ContactDetails string `json:"contact_details"`
	Address        string `json:"address"`
}

// CreateVendor registers a new vendor
func (h *VendorHandler) CreateVendor(c *gin.Context) {
	var req vendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	vendor, err := h.vendorService.CreateVendor(c.Request.Context(), service.VendorInput{
		Code:           req.Code,
		Name:           req.Name,
		ContactDetails: req.ContactDetails,
		Address:        req.Address,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, vendor)
}

// ListVendors returns all vendors
func (h *VendorHandler) ListVendors(c *gin.Context) {
	vendors, err := h.vendorService.ListVendors(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, vendors)
}

// GetVendor returns one vendor by code
func (h *VendorHandler) GetVendor(c *gin.Context) {
	vendor, err := h.vendorService.GetVendor(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, vendor)
}

// UpdateVendor edits a vendor's identity fields
func (h *VendorHandler) UpdateVendor(c *gin.Context) {
	var req vendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	vendor, err := h.vendorService.UpdateVendor(c.Request.Context(), c.Param("code"), service.VendorInput{
		Name:           req.Name,
		ContactDetails: req.ContactDetails,
		Address:        req.Address,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, vendor)
}

// DeleteVendor removes a vendor and everything hanging off it
func (h *VendorHandler) DeleteVendor(c *gin.Context) {
	if err := h.vendorService.DeleteVendor(c.Request.Context(), c.Param("code")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetPerformance returns the vendor's current metric snapshot
func (h *VendorHandler) GetPerformance(c *gin.Context) {
	snapshot, err := h.vendorService.GetPerformance(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

// GetHistory returns the vendor's metric snapshots in recording order
func (h *VendorHandler) GetHistory(c *gin.Context) {
	history, err := h.vendorService.GetHistory(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, history)
}
