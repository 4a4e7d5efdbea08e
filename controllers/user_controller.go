// File: /controllers/user_controller.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"runclub-api/filters"
	"runclub-api/services"
	"runclub-api/utils"
)

type UserController struct {
	users *services.UserService
	runs  *services.RunService
}

func NewUserController(users *services.UserService, runs *services.RunService) *UserController {
	return &UserController{users: users, runs: runs}
}

// GetUsers supports ?search= (name, email) and ?role=.
func (uc *UserController) GetUsers(c *gin.Context) {
	users, err := uc.users.List(c.Request.Context(), filters.Query{
		Search:   c.Query("search"),
		Selector: c.Query("role"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SendList(c, users)
}

func (uc *UserController) GetUser(c *gin.Context) {
	user, err := uc.users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// GetProfile returns the authenticated user.
func (uc *UserController) GetProfile(c *gin.Context) {
	user, err := uc.users.Get(c.Request.Context(), actor(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (uc *UserController) UpdateUser(c *gin.Context) {
	var patch services.UserPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	user, err := uc.users.Update(c.Request.Context(), actor(c), c.Param("id"), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (uc *UserController) GetStats(c *gin.Context) {
	stats, err := uc.users.Stats(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetUserRuns lists the runs a user is signed up for.
func (uc *UserController) GetUserRuns(c *gin.Context) {
	id := c.Param("id")
	if _, err := uc.users.Get(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	runs, err := uc.runs.Joined(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SendList(c, runs)
}
