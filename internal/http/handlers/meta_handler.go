package handlers

import (
	"github.com/earngage/backend/internal/http/dto"
	"github.com/earngage/backend/internal/models"
	"github.com/gofiber/fiber/v2"
)

type MetaHandler struct{}

func NewMetaHandler() *MetaHandler {
	return &MetaHandler{}
}

type MetaCategory struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

var predefinedCategories = []MetaCategory{
	{ID: "beauty", Label: "Beauty"},
	{ID: "fashion", Label: "Fashion"},
	{ID: "lifestyle", Label: "Lifestyle"},
	{ID: "tech", Label: "Technology"},
	{ID: "gaming", Label: "Gaming"},
	{ID: "fitness", Label: "Health & Fitness"},
	{ID: "food", Label: "Food & Cooking"},
	{ID: "travel", Label: "Travel"},
	{ID: "finance", Label: "Finance"},
	{ID: "crypto", Label: "Crypto & Web3"},
	{ID: "education", Label: "Education"},
	{ID: "entertainment", Label: "Entertainment"},
	{ID: "music", Label: "Music"},
	{ID: "parenting", Label: "Parenting"},
	{ID: "sports", Label: "Sports"},
	{ID: "other", Label: "Other"},
}

// MetaStatuses lists the statuses a client may send.
type MetaStatuses struct {
	Campaign    []string            `json:"campaign"`
	Application []string            `json:"application"`
	Transitions map[string][]string `json:"applicationTransitions"`
}

func (h *MetaHandler) GetCategories(c *fiber.Ctx) error {
	return c.JSON(dto.SuccessResponse{OK: true, Data: predefinedCategories})
}

func (h *MetaHandler) GetStatuses(c *fiber.Ctx) error {
	return c.JSON(dto.SuccessResponse{OK: true, Data: MetaStatuses{
		Campaign:    models.CampaignStatuses,
		Application: models.ApplicationStatuses,
		Transitions: models.ValidApplicationTransitions,
	}})
}
