package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"runclub-api/filters"
	"runclub-api/services"
	"runclub-api/utils"
)

type TipController struct {
	tips *services.TipService
}

func NewTipController(tips *services.TipService) *TipController {
	return &TipController{tips: tips}
}

// GetTips supports ?search= (title, content) and ?category=, which accepts the
// Health and Motivation aliases.
func (tc *TipController) GetTips(c *gin.Context) {
	tips, err := tc.tips.List(c.Request.Context(), filters.Query{
		Search:   c.Query("search"),
		Selector: utils.NormalizeCategory(c.Query("category")),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SendList(c, tips)
}

func (tc *TipController) GetTip(c *gin.Context) {
	tip, err := tc.tips.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tip)
}
