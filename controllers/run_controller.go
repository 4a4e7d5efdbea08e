// File: /controllers/run_controller.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"runclub-api/services"
	"runclub-api/utils"
)

type RunController struct {
	runs *services.RunService
}

func NewRunController(runs *services.RunService) *RunController {
	return &RunController{runs: runs}
}

// GetRuns supports ?search=, ?difficulty=, ?available_only=true and ?upcoming_only=true.
func (rc *RunController) GetRuns(c *gin.Context) {
	filter := services.RunFilter{
		Search:        c.Query("search"),
		Difficulty:    utils.NormalizeDifficulty(c.Query("difficulty")),
		AvailableOnly: c.Query("available_only") == "true",
		UpcomingOnly:  c.Query("upcoming_only") == "true",
	}
	runs, err := rc.runs.List(c.Request.Context(), filter, actor(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SendList(c, runs)
}

func (rc *RunController) GetRun(c *gin.Context) {
	run, err := rc.runs.Get(c.Request.Context(), c.Param("id"), actor(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, run)
}

func (rc *RunController) GetJoinedRuns(c *gin.Context) {
	runs, err := rc.runs.Joined(c.Request.Context(), actor(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SendList(c, runs)
}

func (rc *RunController) CreateRun(c *gin.Context) {
	var req services.RunInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	run, err := rc.runs.Create(c.Request.Context(), req, actor(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SendCreated(c, run)
}

func (rc *RunController) UpdateRun(c *gin.Context) {
	var patch services.RunPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	run, err := rc.runs.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, run)
}

func (rc *RunController) DeleteRun(c *gin.Context) {
	if err := rc.runs.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (rc *RunController) JoinRun(c *gin.Context) {
	run, err := rc.runs.Join(c.Request.Context(), c.Param("id"), actor(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, run)
}

func (rc *RunController) LeaveRun(c *gin.Context) {
	run, err := rc.runs.Leave(c.Request.Context(), c.Param("id"), actor(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, run)
}
