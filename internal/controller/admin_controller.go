package controller

import (
	"campus-chatbot-be/internal/dto"
	"campus-chatbot-be/internal/pkg/serverutils"
	"campus-chatbot-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAdminController interface {
	RegisterRoutes(r fiber.Router)
	AuditLogs(ctx *fiber.Ctx) error
	ExportAuditLogs(ctx *fiber.Ctx) error
	ListStaff(ctx *fiber.Ctx) error
}

type adminController struct {
	auditService service.IAuditService
	staffService service.IStaffService
}

func NewAdminController(
	auditService service.IAuditService,
	staffService service.IStaffService,
) IAdminController {
	return &adminController{
		auditService: auditService,
		staffService: staffService,
	}
}

func (c *adminController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/admin/v1")
	h.Use(serverutils.StaffJwtMiddleware)
	h.Get("audit-logs", c.AuditLogs)
	h.Get("audit-logs/export", c.ExportAuditLogs)
	h.Get("staff", c.ListStaff)
}

func (c *adminController) AuditLogs(ctx *fiber.Ctx) error {
	req := dto.GetAuditLogsRequest{
		Search: ctx.Query("search"),
		Window: ctx.Query("window"),
	}

	res, err := c.auditService.Query(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get audit logs", res))
}

func (c *adminController) ExportAuditLogs(ctx *fiber.Ctx) error {
	req := dto.GetAuditLogsRequest{
		Search: ctx.Query("search"),
		Window: ctx.Query("window"),
	}

	data, err := c.auditService.ExportCSV(ctx.Context(), &req)
	if err != nil {
		return err
	}

	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="audit_logs.csv"`)
	ctx.Set(fiber.HeaderContentType, "text/csv")
	return ctx.Send(data)
}

func (c *adminController) ListStaff(ctx *fiber.Ctx) error {
	res, err := c.staffService.List(ctx.Context(), ctx.Query("search"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list staff", res))
}
