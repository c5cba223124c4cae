package actionitems

import (
	"time"

	"github.com/google/uuid"
)

type CreateActionItemRequest struct {
	Title        string  `json:"title" validate:"required"`
	Description  string  `json:"description"`
	AssignedTo   string  `json:"assignedTo"`
	Priority     string  `json:"priority" validate:"omitempty,oneof=Low Medium High"`
	Status       string  `json:"status" validate:"omitempty,oneof=Open 'In Progress' Completed"`
	DueDate      *string `json:"dueDate"`
	LinkedTaskID string  `json:"linkedTaskId"`
}

type UpdateActionItemRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	AssignedTo  *string `json:"assignedTo"`
	Priority    *string `json:"priority" validate:"omitempty,oneof=Low Medium High"`
	Status      *string `json:"status" validate:"omitempty,oneof=Open 'In Progress' Completed"`
	DueDate     *string `json:"dueDate"`
}

type ActionItemResponse struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	AssignedTo   string    `json:"assignedTo"`
	Priority     string    `json:"priority"`
	Status       string    `json:"status"`
	DueDate      *string   `json:"dueDate,omitempty"`
	LinkedTaskID string    `json:"linkedTaskId,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func toResponse(item ActionItem) ActionItemResponse {
	return ActionItemResponse{
		ID:           item.ID,
		Title:        item.Title,
		Description:  item.Description,
		AssignedTo:   item.AssignedTo,
		Priority:     item.Priority,
		Status:       item.Status,
		DueDate:      item.DueDate,
		LinkedTaskID: item.LinkedTaskID,
		CreatedAt:    item.CreatedAt,
		UpdatedAt:    item.UpdatedAt,
	}
}

func toResponses(items []ActionItem) []ActionItemResponse {
	out := make([]ActionItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toResponse(item))
	}
	return out
}
