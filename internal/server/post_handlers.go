package server

import (
	"inkwell/internal/pagination"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createPostRequest struct {
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	IsPrivate *bool    `json:"isPrivate"`
	Tags      []string `json:"tags"`
	ImageURLs []string `json:"imageUrls"`
}

type updatePostRequest struct {
	Title     *string   `json:"title"`
	Content   *string   `json:"content"`
	IsPrivate *bool     `json:"isPrivate"`
	Tags      *[]string `json:"tags"`
	ImageURLs *[]string `json:"imageUrls"`
}

type commentRequest struct {
	Content string `json:"content"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// CreatePost handles POST /api/v1/blog
// @Summary Create a post
// @Tags blog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body createPostRequest true "Post"
// @Success 200 {object} models.Post
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} object{message=string}
// @Router /blog [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	var req createPostRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody()
	}

	post, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		AuthorID:  userID,
		Title:     req.Title,
		Content:   req.Content,
		IsPrivate: req.IsPrivate,
		ImageURLs: req.ImageURLs,
		Tags:      req.Tags,
	})
	if err != nil {
		return err
	}
	return c.JSON(post)
}

// ListPosts handles GET /api/v1/blog
// @Summary List visible posts
// @Description Public posts and the caller's own private posts, newest first
// @Tags blog
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Page size (default 10, max 50)"
// @Success 200 {object} service.PostPage
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} object{message=string}
// @Router /blog [get]
func (s *Server) ListPosts(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	params, err := pagination.Parse(c.Query("page"), c.Query("limit"))
	if err != nil {
		return err
	}

	page, err := s.postService.ListPosts(c.UserContext(), userID, params)
	if err != nil {
		return err
	}
	return c.JSON(page)
}

// GetPost handles GET /api/v1/blog/:id
// @Summary Get a post
// @Description Returns the post with author, images, tags, likes and comments. Private posts of other users are not found.
// @Tags blog
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Success 200 {object} service.PostDetail
// @Failure 403 {object} object{message=string}
// @Failure 404 {object} models.ErrorResponse
// @Router /blog/{id} [get]
func (s *Server) GetPost(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	post, err := s.postService.GetPost(c.UserContext(), c.Params("id"), userID)
	if err != nil {
		return err
	}
	return c.JSON(post)
}

// UpdatePost handles PUT /api/v1/blog/:id
// @Summary Update an owned post
// @Description Only supplied fields change. Supplying imageUrls or tags replaces the whole set.
// @Tags blog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Param request body updatePostRequest true "Fields to change"
// @Success 200 {object} models.Post
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /blog/{id} [put]
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	var req updatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody()
	}

	post, err := s.postService.UpdatePost(c.UserContext(), service.UpdatePostInput{
		PostID:    c.Params("id"),
		AuthorID:  userID,
		Title:     req.Title,
		Content:   req.Content,
		IsPrivate: req.IsPrivate,
		ImageURLs: req.ImageURLs,
		Tags:      req.Tags,
	})
	if err != nil {
		return err
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /api/v1/blog/:id
// @Summary Delete an owned post
// @Tags blog
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Success 200 {object} messageResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /blog/{id} [delete]
func (s *Server) DeletePost(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	if err := s.postService.DeletePost(c.UserContext(), c.Params("id"), userID); err != nil {
		return err
	}
	return c.JSON(messageResponse{Message: service.MessagePostDeleted})
}

// ToggleLike handles POST /api/v1/blog/:id/like
// @Summary Like or unlike a post
// @Tags blog
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Success 200 {object} messageResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /blog/{id}/like [post]
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	result, err := s.engagementService.ToggleLike(c.UserContext(), userID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(messageResponse{Message: result.Message()})
}

// AddComment handles POST /api/v1/blog/:id/comment
// @Summary Comment on a post
// @Tags blog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Param request body commentRequest true "Comment"
// @Success 200 {object} models.Comment
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /blog/{id}/comment [post]
func (s *Server) AddComment(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	var req commentRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody()
	}

	comment, err := s.engagementService.AddComment(c.UserContext(), userID, c.Params("id"), req.Content)
	if err != nil {
		return err
	}
	return c.JSON(comment)
}
