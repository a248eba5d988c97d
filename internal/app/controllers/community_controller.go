package controllers

import (
	"net/http"

	"github.com/bizlink/alliance/internal/app/models/dto"
	"github.com/bizlink/alliance/internal/app/services"
	"github.com/bizlink/alliance/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// CommunityController handles the community board
type CommunityController struct {
	communityService services.CommunityService
	logger           zerolog.Logger
}

// NewCommunityController creates a new CommunityController
func NewCommunityController(communityService services.CommunityService, logger zerolog.Logger) *CommunityController {
	return &CommunityController{
		communityService: communityService,
		logger:           logger,
	}
}

// ListPosts returns the board
// @Summary List community posts
// @Description Newest first
// @Tags community
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]models.CommunityPost}
// @Router /community/posts [get]
func (c *CommunityController) ListPosts(ctx *gin.Context) {
	posts, err := c.communityService.ListPosts(ctx.Request.Context())
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to list community posts")
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(posts, ""))
}

// CreatePost publishes a post
// @Summary Create community post
// @Tags community
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreatePostRequest true "Post"
// @Success 201 {object} dto.APIResponse{data=models.CommunityPost}
// @Failure 400 {object} dto.ErrorResponse "Empty post"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /community/posts [post]
func (c *CommunityController) CreatePost(ctx *gin.Context) {
	var req dto.CreatePostRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	post, err := c.communityService.CreatePost(ctx.Request.Context(), middleware.GetViewer(ctx), req.Content)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(post, "Post published"))
}

// LikePost likes a post
// @Summary Like community post
// @Tags community
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Success 200 {object} dto.APIResponse{data=models.CommunityPost}
// @Failure 404 {object} dto.ErrorResponse "Post not found"
// @Router /community/posts/{id}/like [post]
func (c *CommunityController) LikePost(ctx *gin.Context) {
	post, err := c.communityService.LikePost(ctx.Request.Context(), middleware.GetViewer(ctx), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(post, ""))
}

// AddComment replies under a post
// @Summary Comment on community post
// @Tags community
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Param request body dto.CommentRequest true "Comment"
// @Success 201 {object} dto.APIResponse{data=models.CommunityPost}
// @Failure 404 {object} dto.ErrorResponse "Post not found"
// @Router /community/posts/{id}/comments [post]
func (c *CommunityController) AddComment(ctx *gin.Context) {
	var req dto.CommentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	post, err := c.communityService.AddComment(ctx.Request.Context(), middleware.GetViewer(ctx), ctx.Param("id"), req.Text)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(post, ""))
}
