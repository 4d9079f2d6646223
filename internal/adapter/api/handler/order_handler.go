package handler

import (
	"github.com/labstack/echo/v4"

	"bazaarflow/internal/usecase"
	"bazaarflow/pkg/response"
)

type OrderHandler struct {
	orderUseCase *usecase.OrderUseCase
}

func NewOrderHandler(orderUseCase *usecase.OrderUseCase) *OrderHandler {
	return &OrderHandler{
		orderUseCase: orderUseCase,
	}
}

func (h *OrderHandler) GetOrderHistory(c echo.Context) error {
	userID := c.Get("uid").(string)

	history, err := h.orderUseCase.GetOrderHistory(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, history)
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	userID := c.Get("uid").(string)

	order, err := h.orderUseCase.GetOrder(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, order)
}
