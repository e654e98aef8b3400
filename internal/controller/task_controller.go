package controller

import (
	"kb-platform-be/internal/pkg/serverutils"
	"kb-platform-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ITaskController interface {
	RegisterRoutes(r fiber.Router)
	Show(ctx *fiber.Ctx) error
}

type taskController struct {
	taskService service.ITaskService
}

func NewTaskController(taskService service.ITaskService) ITaskController {
	return &taskController{
		taskService: taskService,
	}
}

func (c *taskController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/tasks")
	h.Use(serverutils.AuthMiddleware)
	h.Get(":id", c.Show)
}

func (c *taskController) Show(ctx *fiber.Ctx) error {
	userId := serverutils.UserId(ctx)

	taskId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid task id")
	}

	res, err := c.taskService.GetTaskStatus(ctx.Context(), userId, taskId)
	if err != nil {
		return err
	}
	if res == nil {
		return fiber.NewError(fiber.StatusNotFound, "Task not found")
	}

	return ctx.JSON(serverutils.SuccessResponse("Task status", res))
}
