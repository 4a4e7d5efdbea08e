// File: /controllers/post_controller.go
package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"runclub-api/services"
	"runclub-api/utils"
)

type PostController struct {
	posts *services.PostService
}

func NewPostController(posts *services.PostService) *PostController {
	return &PostController{posts: posts}
}

type CommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// GetPosts returns the feed newest first, paged with ?page= and ?limit=.
func (pc *PostController) GetPosts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(services.DefaultPageSize)))

	feed, err := pc.posts.Feed(c.Request.Context(), actor(c).ID, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, feed)
}

func (pc *PostController) GetPost(c *gin.Context) {
	post, err := pc.posts.Get(c.Request.Context(), c.Param("id"), actor(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (pc *PostController) CreatePost(c *gin.Context) {
	var req services.CreatePostInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	post, err := pc.posts.Create(c.Request.Context(), actor(c).ID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SendCreated(c, post)
}

// LikePost toggles the caller's like.
func (pc *PostController) LikePost(c *gin.Context) {
	post, err := pc.posts.ToggleLike(c.Request.Context(), c.Param("id"), actor(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (pc *PostController) GetComments(c *gin.Context) {
	comments, err := pc.posts.Comments(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SendList(c, comments)
}

func (pc *PostController) AddComment(c *gin.Context) {
	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	comment, err := pc.posts.AddComment(c.Request.Context(), c.Param("id"), actor(c).ID, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SendCreated(c, comment)
}
