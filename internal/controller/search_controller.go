package controller

import (
	"kb-platform-be/internal/dto"
	"kb-platform-be/internal/pkg/serverutils"
	"kb-platform-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ISearchController interface {
	RegisterRoutes(r fiber.Router)
	Search(ctx *fiber.Ctx) error
	GlobalSearch(ctx *fiber.Ctx) error
	RelevantContext(ctx *fiber.Ctx) error
}

type searchController struct {
	searchService service.ISearchService
}

func NewSearchController(searchService service.ISearchService) ISearchController {
	return &searchController{
		searchService: searchService,
	}
}

func (c *searchController) RegisterRoutes(r fiber.Router) {
	r.Post("/knowledge-bases/:id/search", serverutils.AuthMiddleware, c.Search)
	r.Post("/knowledge-bases/:id/context", serverutils.AuthMiddleware, c.RelevantContext)
	r.Post("/search", serverutils.AuthMiddleware, c.GlobalSearch)
}

func (c *searchController) Search(ctx *fiber.Ctx) error {
	return c.search(ctx, ctx.Params("id"))
}

// GlobalSearch covers everything the user has ingested, across all
// knowledge bases.
func (c *searchController) GlobalSearch(ctx *fiber.Ctx) error {
	return c.search(ctx, "")
}

func (c *searchController) search(ctx *fiber.Ctx, knowledgeBaseId string) error {
	userId := serverutils.UserId(ctx)

	var req dto.SearchRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	opts := service.SearchOptions{
		Limit:          req.Limit,
		Threshold:      req.Threshold,
		IncludeContent: req.IncludeContent,
	}

	var (
		results []*dto.SearchResultItem
		err     error
	)
	switch req.Mode {
	case dto.SearchModeVector:
		results, err = c.searchService.SemanticSearch(ctx.Context(), userId, knowledgeBaseId, req.Query, opts)
	case dto.SearchModeKeyword:
		results, err = c.searchService.KeywordSearch(ctx.Context(), userId, knowledgeBaseId, req.Query, opts)
	default:
		results, err = c.searchService.HybridSearch(ctx.Context(), userId, knowledgeBaseId, req.Query, opts)
	}
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Search results", &dto.SearchResponse{
		Results: results,
		Count:   len(results),
	}))
}

func (c *searchController) RelevantContext(ctx *fiber.Ctx) error {
	userId := serverutils.UserId(ctx)
	knowledgeBaseId := ctx.Params("id")

	var req dto.RelevantContextRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.searchService.GetRelevantContext(ctx.Context(), userId, knowledgeBaseId, req.Query, req.MaxChunks)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Relevant context", res))
}
