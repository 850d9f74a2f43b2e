package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/SankarSubbayya/Finnie/internal/pkg/serverutils"
	"github.com/SankarSubbayya/Finnie/internal/service"
)

type IMarketController interface {
	RegisterRoutes(r fiber.Router)
	GetQuotes(ctx *fiber.Ctx) error
	GetNews(ctx *fiber.Ctx) error
	GetSectors(ctx *fiber.Ctx) error
	GetCalendar(ctx *fiber.Ctx) error
}

type marketController struct {
	service service.IMarketService
}

func NewMarketController(service service.IMarketService) IMarketController {
	return &marketController{service: service}
}

func (c *marketController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/market/v1")
	h.Get("/quotes", c.GetQuotes)
	h.Get("/news", c.GetNews)
	h.Get("/sectors", c.GetSectors)
	h.Get("/calendar", c.GetCalendar)
}

// GetQuotes serves ?symbols=AAPL,MSFT; without symbols it returns the
// index overview
func (c *marketController) GetQuotes(ctx *fiber.Ctx) error {
	var symbols []string
	if raw := ctx.Query("symbols"); raw != "" {
		for _, symbol := range strings.Split(raw, ",") {
			symbol = strings.ToUpper(strings.TrimSpace(symbol))
			if symbol != "" {
				symbols = append(symbols, symbol)
			}
		}
	}

	res, err := c.service.GetQuotes(ctx.Context(), symbols)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get quotes", res))
}

func (c *marketController) GetNews(ctx *fiber.Ctx) error {
	query := ctx.Query("q")
	if query == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing query parameter q")
	}
	limit := ctx.QueryInt("limit", 10)

	res, err := c.service.GetNews(ctx.Context(), query, limit)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get news", res))
}

func (c *marketController) GetSectors(ctx *fiber.Ctx) error {
	res, err := c.service.GetSectors(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get sector performance", res))
}

func (c *marketController) GetCalendar(ctx *fiber.Ctx) error {
	res, err := c.service.GetCalendar(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get market calendar", res))
}
