package controller

import (
	"campus-chatbot-be/internal/dto"
	"campus-chatbot-be/internal/pkg/serverutils"
	"campus-chatbot-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAuthController interface {
	RegisterRoutes(r fiber.Router)
	VerifyStaff(ctx *fiber.Ctx) error
}

type authController struct {
	staffService service.IStaffService
}

func NewAuthController(staffService service.IStaffService) IAuthController {
	return &authController{
		staffService: staffService,
	}
}

func (c *authController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/auth/v1")
	h.Post("verify-staff", c.VerifyStaff)
}

func (c *authController) VerifyStaff(ctx *fiber.Ctx) error {
	var req dto.VerifyStaffRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.staffService.Verify(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success verify staff", res))
}
