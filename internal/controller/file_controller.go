package controller

import (
	"errors"

	"kb-platform-be/internal/dto"
	"kb-platform-be/internal/pkg/serverutils"
	"kb-platform-be/internal/service"
	"kb-platform-be/pkg/parser"

	"github.com/gofiber/fiber/v2"
)

type IFileController interface {
	RegisterRoutes(r fiber.Router)
	Register(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type fileController struct {
	fileService service.IFileService
}

func NewFileController(fileService service.IFileService) IFileController {
	return &fileController{
		fileService: fileService,
	}
}

func (c *fileController) RegisterRoutes(r fiber.Router) {
	r.Post("/knowledge-bases/:id/files", serverutils.AuthMiddleware, c.Register)

	h := r.Group("/files")
	h.Use(serverutils.AuthMiddleware)
	h.Delete(":id", c.Delete)
}

// Register records an already-uploaded blob as a knowledge base file
// and queues it for ingestion.
func (c *fileController) Register(ctx *fiber.Ctx) error {
	userId := serverutils.UserId(ctx)
	knowledgeBaseId := ctx.Params("id")

	var req dto.RegisterFileRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.fileService.RegisterFile(ctx.Context(), userId, knowledgeBaseId, &req)
	if errors.Is(err, service.ErrKnowledgeBaseNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "Knowledge base not found")
	}
	if errors.Is(err, parser.ErrUnsupportedFileType) {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "Unsupported file type")
	}
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse("File registered, processing queued", res))
}

func (c *fileController) Delete(ctx *fiber.Ctx) error {
	userId := serverutils.UserId(ctx)
	id := ctx.Params("id")

	err := c.fileService.DeleteFile(ctx.Context(), userId, id)
	if errors.Is(err, service.ErrFileNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "File not found")
	}
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("File deleted", nil))
}
