package handler

import (
	"github.com/labstack/echo/v4"

	"bazaarflow/internal/usecase"
	"bazaarflow/pkg/response"
)

type ConversationHandler struct {
	conversationUseCase *usecase.ConversationUseCase
}

func NewConversationHandler(conversationUseCase *usecase.ConversationUseCase) *ConversationHandler {
	return &ConversationHandler{
		conversationUseCase: conversationUseCase,
	}
}

type createConversationRequest struct {
	RecipientID string `json:"recipient_id" validate:"required"`
	ListingID   string `json:"listing_id"`
}

type sendMessageRequest struct {
	Content string `json:"content" validate:"required,max=2000"`
}

func (h *ConversationHandler) CreateConversation(c echo.Context) error {
	var req createConversationRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	requester := identityFromContext(c)

	result, err := h.conversationUseCase.CreateConversation(c.Request().Context(), requester, usecase.CreateConversationInput{
		RecipientID: req.RecipientID,
		ListingID:   req.ListingID,
	})
	if err != nil {
		return response.Error(c, err)
	}

	if result.IsNew {
		return response.Created(c, result)
	}
	return response.Success(c, result)
}

func (h *ConversationHandler) ListConversations(c echo.Context) error {
	userID := c.Get("uid").(string)

	summaries, err := h.conversationUseCase.ListConversations(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, summaries)
}

func (h *ConversationHandler) GetMessages(c echo.Context) error {
	userID := c.Get("uid").(string)

	thread, err := h.conversationUseCase.GetMessages(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, thread)
}

func (h *ConversationHandler) SendMessage(c echo.Context) error {
	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	sender := identityFromContext(c)

	message, err := h.conversationUseCase.SendMessage(c.Request().Context(), sender, c.Param("id"), usecase.SendMessageInput{
		Content: req.Content,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, message)
}

func (h *ConversationHandler) GetUnreadTotal(c echo.Context) error {
	userID := c.Get("uid").(string)

	total, err := h.conversationUseCase.UnreadTotal(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]int64{"unread": total})
}

func (h *ConversationHandler) CleanupDuplicates(c echo.Context) error {
	result, err := h.conversationUseCase.CleanupDuplicates(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, result)
}
