package controller

import (
	"fmt"
	"io"

	"campus-chatbot-be/internal/dto"
	"campus-chatbot-be/internal/entity"
	"campus-chatbot-be/internal/pkg/serverutils"
	"campus-chatbot-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IEditorController interface {
	RegisterRoutes(r fiber.Router)
	ListFolders(ctx *fiber.Ctx) error
	ListDocuments(ctx *fiber.Ctx) error
	GetContent(ctx *fiber.Ctx) error
	Add(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Upload(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	Download(ctx *fiber.Ctx) error
	Commit(ctx *fiber.Ctx) error
	CommitStatus(ctx *fiber.Ctx) error
}

type editorController struct {
	documentService service.IDocumentService
	commitService   service.ICommitService
}

func NewEditorController(
	documentService service.IDocumentService,
	commitService service.ICommitService,
) IEditorController {
	return &editorController{
		documentService: documentService,
		commitService:   commitService,
	}
}

func (c *editorController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/editor/v1")
	h.Use(serverutils.StaffJwtMiddleware)
	h.Get("folders", c.ListFolders)
	h.Get("documents", c.ListDocuments)
	h.Get("documents/content", c.GetContent)
	h.Post("documents", c.Add)
	h.Put("documents", c.Update)
	h.Post("documents/upload", c.Upload)
	h.Delete("documents", c.Delete)
	h.Get("documents/download", c.Download)
	h.Post("commit", c.Commit)
	h.Get("commit/status", c.CommitStatus)
}

func staffFromLocals(ctx *fiber.Ctx) (string, string) {
	staffId, _ := ctx.Locals("staff_id").(string)
	staffName, _ := ctx.Locals("staff_name").(string)
	return staffId, staffName
}

// keyFromQuery resolves the ?key= store key into folder + filename.
func keyFromQuery(ctx *fiber.Ctx) (string, string, error) {
	key := ctx.Query("key")
	if key == "" {
		return "", "", serverutils.NewValidationError("key is required")
	}
	folder, filename := entity.SplitKey(key)
	return folder.Name(), filename, nil
}

func (c *editorController) ListFolders(ctx *fiber.Ctx) error {
	res, err := c.documentService.ListFolders(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list folders", res))
}

func (c *editorController) ListDocuments(ctx *fiber.Ctx) error {
	res, err := c.documentService.List(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list documents", res))
}

func (c *editorController) GetContent(ctx *fiber.Ctx) error {
	folder, filename, err := keyFromQuery(ctx)
	if err != nil {
		return err
	}

	res, err := c.documentService.Show(ctx.Context(), folder, filename)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get document content", res))
}

func (c *editorController) Add(ctx *fiber.Ctx) error {
	staffId, staffName := staffFromLocals(ctx)

	var req dto.AddDocumentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.documentService.Add(ctx.Context(), staffId, staffName, &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success add document", res))
}

func (c *editorController) Update(ctx *fiber.Ctx) error {
	staffId, staffName := staffFromLocals(ctx)

	folder, filename, err := keyFromQuery(ctx)
	if err != nil {
		return err
	}

	var req dto.UpdateDocumentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.Folder = folder
	req.Filename = filename

	res, err := c.documentService.Update(ctx.Context(), staffId, staffName, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update document", res))
}

func (c *editorController) Upload(ctx *fiber.Ctx) error {
	staffId, staffName := staffFromLocals(ctx)

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return serverutils.NewValidationError("file is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return err
	}

	req := dto.UploadDocumentRequest{
		Folder:   ctx.FormValue("folder"),
		Filename: fileHeader.Filename,
		Content:  content,
	}

	res, err := c.documentService.Upload(ctx.Context(), staffId, staffName, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success upload file", res))
}

func (c *editorController) Delete(ctx *fiber.Ctx) error {
	staffId, staffName := staffFromLocals(ctx)

	folder, filename, err := keyFromQuery(ctx)
	if err != nil {
		return err
	}

	if err := c.documentService.Delete(ctx.Context(), staffId, staffName, folder, filename); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete document", nil))
}

func (c *editorController) Download(ctx *fiber.Ctx) error {
	folder, filename, err := keyFromQuery(ctx)
	if err != nil {
		return err
	}

	doc, err := c.documentService.Download(ctx.Context(), folder, filename)
	if err != nil {
		return err
	}

	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, doc.Filename))
	ctx.Set(fiber.HeaderContentType, fiber.MIMEOctetStream)
	return ctx.Send(doc.Content)
}

func (c *editorController) Commit(ctx *fiber.Ctx) error {
	staffId, staffName := staffFromLocals(ctx)

	res, err := c.commitService.Commit(ctx.Context(), staffId, staffName)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success commit index", res))
}

func (c *editorController) CommitStatus(ctx *fiber.Ctx) error {
	res, err := c.commitService.Status(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get commit status", res))
}
