package controller

import (
	"errors"

	"kb-platform-be/internal/dto"
	"kb-platform-be/internal/pkg/serverutils"
	"kb-platform-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IKnowledgeBaseController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	ListFiles(ctx *fiber.Ctx) error
}

type knowledgeBaseController struct {
	knowledgeBaseService service.IKnowledgeBaseService
}

func NewKnowledgeBaseController(knowledgeBaseService service.IKnowledgeBaseService) IKnowledgeBaseController {
	return &knowledgeBaseController{
		knowledgeBaseService: knowledgeBaseService,
	}
}

func (c *knowledgeBaseController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/knowledge-bases")
	h.Use(serverutils.AuthMiddleware)
	h.Post("", c.Create)
	h.Get("", c.List)
	h.Delete(":id", c.Delete)
	h.Get(":id/files", c.ListFiles)
}

func (c *knowledgeBaseController) Create(ctx *fiber.Ctx) error {
	userId := serverutils.UserId(ctx)

	var req dto.CreateKnowledgeBaseRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.knowledgeBaseService.Create(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Knowledge base created", res))
}

func (c *knowledgeBaseController) List(ctx *fiber.Ctx) error {
	userId := serverutils.UserId(ctx)

	res, err := c.knowledgeBaseService.List(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Knowledge base list", res))
}

func (c *knowledgeBaseController) Delete(ctx *fiber.Ctx) error {
	userId := serverutils.UserId(ctx)
	id := ctx.Params("id")

	err := c.knowledgeBaseService.Delete(ctx.Context(), userId, id)
	if errors.Is(err, service.ErrKnowledgeBaseNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "Knowledge base not found")
	}
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Knowledge base deleted", nil))
}

func (c *knowledgeBaseController) ListFiles(ctx *fiber.Ctx) error {
	userId := serverutils.UserId(ctx)
	id := ctx.Params("id")

	res, err := c.knowledgeBaseService.ListFiles(ctx.Context(), userId, id)
	if errors.Is(err, service.ErrKnowledgeBaseNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "Knowledge base not found")
	}
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Knowledge base files", res))
}
