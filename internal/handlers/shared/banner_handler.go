package handlers

import (
	"ekuseyecom/internal/services"
	"ekuseyecom/internal/utils"

	"github.com/gin-gonic/gin"
)

type BannerHandler struct {
	bannerService services.BannerService
}

func NewBannerHandler(bannerService services.BannerService) *BannerHandler {
	return &BannerHandler{
		bannerService: bannerService,
	}
}

// GetHomepageBanner serves the storefront banner rows
func (h *BannerHandler) GetHomepageBanner(c *gin.Context) {
	rows, err := h.bannerService.GetHomepageBanner(c.Request.Context())
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Homepage banner retrieved successfully", gin.H{
		"count": len(rows),
		"rows":  rows,
	})
}

// ProbeOptions reports what each candidate banner option key holds
func (h *BannerHandler) ProbeOptions(c *gin.Context) {
	probes, err := h.bannerService.ProbeOptions(c.Request.Context())
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Options probed successfully", probes)
}
