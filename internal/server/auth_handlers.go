package server

import (
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

type signupRequest struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Name     *string `json:"name"`
}

type signinRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateProfileRequest struct {
	Name  *string `json:"name"`
	Bio   *string `json:"bio"`
	Image *string `json:"image"`
}

// Signup handles POST /api/v1/user/signup
// @Summary User signup
// @Description Register a new user account and return a token
// @Tags user
// @Accept json
// @Produce json
// @Param request body signupRequest true "Signup request"
// @Success 200 {object} service.AuthResult
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /user/signup [post]
func (s *Server) Signup(c *fiber.Ctx) error {
	var req signupRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody()
	}

	res, err := s.authService.Signup(c.UserContext(), service.SignupInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		return err
	}
	return c.JSON(res)
}

// Signin handles POST /api/v1/user/signin
// @Summary User signin
// @Description Authenticate with email and password and return a token
// @Tags user
// @Accept json
// @Produce json
// @Param request body signinRequest true "Signin request"
// @Success 200 {object} service.AuthResult
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /user/signin [post]
func (s *Server) Signin(c *fiber.Ctx) error {
	var req signinRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody()
	}

	res, err := s.authService.Signin(c.UserContext(), service.SigninInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return c.JSON(res)
}

// GetMe handles GET /api/v1/user/me
// @Summary Current user profile
// @Tags user
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Profile
// @Failure 401 {object} object{error=string}
// @Failure 404 {object} models.ErrorResponse
// @Router /user/me [get]
func (s *Server) GetMe(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	profile, err := s.userService.GetProfile(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(profile)
}

// UpdateMe handles PUT /api/v1/user/me
// @Summary Update current user profile
// @Tags user
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body updateProfileRequest true "Profile fields to change"
// @Success 200 {object} models.Profile
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} object{error=string}
// @Router /user/me [put]
func (s *Server) UpdateMe(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody()
	}

	profile, err := s.userService.UpdateProfile(c.UserContext(), userID, service.UpdateProfileInput{
		Name:  req.Name,
		Bio:   req.Bio,
		Image: req.Image,
	})
	if err != nil {
		return err
	}
	return c.JSON(profile)
}

// currentUser returns the id set by the auth gate. Routes without a gate never call it.
func currentUser(c *fiber.Ctx) (string, error) {
	userID, ok := middleware.UserID(c)
	if !ok {
		return "", models.NewUnauthorizedError("Unauthorized")
	}
	return userID, nil
}
