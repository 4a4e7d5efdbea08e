package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"runclub-api/services"
)

type AdminController struct {
	stats *services.StatsService
	users *services.UserService
}

func NewAdminController(stats *services.StatsService, users *services.UserService) *AdminController {
	return &AdminController{stats: stats, users: users}
}

func (ac *AdminController) GetStats(c *gin.Context) {
	stats, err := ac.stats.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (ac *AdminController) SuspendUser(c *gin.Context) {
	ac.setSuspended(c, true)
}

func (ac *AdminController) UnsuspendUser(c *gin.Context) {
	ac.setSuspended(c, false)
}

func (ac *AdminController) setSuspended(c *gin.Context, suspended bool) {
	user, err := ac.users.SetSuspended(c.Request.Context(), actor(c), c.Param("id"), suspended)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
