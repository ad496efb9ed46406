package controllers

import (
	"errors"
	"net/http"
	"time"

	"aicruel-backend/config"
	"aicruel-backend/models"
	"aicruel-backend/store"
	"aicruel-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateDeadlineInput defines the expected JSON structure for creating a deadline
type CreateDeadlineInput struct {
	Title          string    `json:"title" binding:"required"`
	Description    string    `json:"description"`
	DueDate        time.Time `json:"dueDate" binding:"required"`
	Priority       string    `json:"priority"`
	SourceURL      string    `json:"sourceUrl"`
	Tags           string    `json:"tags"`
	EstimatedHours float64   `json:"estimatedHours"`
	// Reminders lists lead-time classes; defaults to 1_hour and 1_day.
	Reminders []string `json:"reminders"`
}

// UpdateDeadlineInput defines the expected JSON structure for updating a deadline
type UpdateDeadlineInput struct {
	Title          *string    `json:"title"`
	Description    *string    `json:"description"`
	DueDate        *time.Time `json:"dueDate"`
	Priority       *string    `json:"priority"`
	Status         *string    `json:"status"`
	SourceURL      *string    `json:"sourceUrl"`
	Tags           *string    `json:"tags"`
	EstimatedHours *float64   `json:"estimatedHours"`
}

// CreateDeadline creates a deadline plus one unsent reminder instance per
// requested lead-time class
func CreateDeadline(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	var input CreateDeadlineInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.Priority == "" {
		input.Priority = models.PriorityMedium
	}
	if !models.ValidPriority(input.Priority) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid priority")
		return
	}

	leadTimes := input.Reminders
	if len(leadTimes) == 0 {
		leadTimes = models.DefaultLeadTimes
	}
	for _, lt := range leadTimes {
		if !models.ValidLeadTime(lt) {
			utils.RespondWithError(c, http.StatusBadRequest, "Unknown reminder lead time: "+lt)
			return
		}
	}

	deadline := models.Deadline{
		UserID:         userID,
		Title:          input.Title,
		Description:    input.Description,
		DueDate:        input.DueDate,
		Priority:       input.Priority,
		Status:         models.StatusPending,
		SourceURL:      input.SourceURL,
		Tags:           input.Tags,
		EstimatedHours: input.EstimatedHours,
	}

	if err := config.DB.Create(&deadline).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create deadline")
		return
	}

	if err := store.New(config.DB).CreateReminders(deadline.ID, leadTimes); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to schedule reminders")
		return
	}

	c.JSON(http.StatusCreated, deadline)
}

// GetDeadlines retrieves the user's deadlines, optionally filtered by
// status and priority
func GetDeadlines(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	query := config.DB.Where("user_id = ?", userID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if priority := c.Query("priority"); priority != "" {
		query = query.Where("priority = ?", priority)
	}

	var deadlines []models.Deadline
	if err := query.Order("due_date asc").Find(&deadlines).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve deadlines")
		return
	}

	now := time.Now()
	response := make([]gin.H, 0, len(deadlines))
	for _, d := range deadlines {
		response = append(response, deadlineResponse(&d, now))
	}

	c.JSON(http.StatusOK, response)
}

// GetDeadline retrieves a single deadline with its reminder instances
func GetDeadline(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	deadlineID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid deadline ID")
		return
	}

	var deadline models.Deadline
	err = config.DB.Preload("Reminders").
		Where("id = ? AND user_id = ?", deadlineID, userID).
		First(&deadline).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusNotFound, "Deadline not found")
		return
	} else if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	resp := deadlineResponse(&deadline, time.Now())
	resp["reminders"] = deadline.Reminders
	c.JSON(http.StatusOK, resp)
}

// UpdateDeadline updates deadline fields. Completed deadlines are immutable.
func UpdateDeadline(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	deadlineID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid deadline ID")
		return
	}

	var input UpdateDeadlineInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var deadline models.Deadline
	err = config.DB.Where("id = ? AND user_id = ?", deadlineID, userID).First(&deadline).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusNotFound, "Deadline not found")
		return
	} else if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	if deadline.Status == models.StatusCompleted {
		utils.RespondWithError(c, http.StatusConflict, "Completed deadlines cannot be modified")
		return
	}

	updates := map[string]interface{}{}
	if input.Title != nil {
		updates["title"] = *input.Title
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.DueDate != nil {
		updates["due_date"] = *input.DueDate
	}
	if input.Priority != nil {
		if !models.ValidPriority(*input.Priority) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid priority")
			return
		}
		updates["priority"] = *input.Priority
	}
	if input.Status != nil {
		if !models.ValidStatus(*input.Status) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid status")
			return
		}
		updates["status"] = *input.Status
	}
	if input.SourceURL != nil {
		updates["source_url"] = *input.SourceURL
	}
	if input.Tags != nil {
		updates["tags"] = *input.Tags
	}
	if input.EstimatedHours != nil {
		updates["estimated_hours"] = *input.EstimatedHours
	}

	if len(updates) > 0 {
		if err := config.DB.Model(&deadline).Updates(updates).Error; err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update deadline")
			return
		}
	}

	c.JSON(http.StatusOK, deadlineResponse(&deadline, time.Now()))
}

// DeleteDeadline removes a deadline and its reminder instances
func DeleteDeadline(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	deadlineID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid deadline ID")
		return
	}

	var deadline models.Deadline
	err = config.DB.Where("id = ? AND user_id = ?", deadlineID, userID).First(&deadline).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusNotFound, "Deadline not found")
		return
	} else if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	// Reminder instances cascade with their deadline.
	if err := config.DB.Where("deadline_id = ?", deadline.ID).
		Delete(&models.ReminderInstance{}).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete reminders")
		return
	}
	if err := config.DB.Delete(&deadline).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete deadline")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Deadline deleted"})
}

func deadlineResponse(d *models.Deadline, now time.Time) gin.H {
	return gin.H{
		"id":             d.ID,
		"title":          d.Title,
		"description":    d.Description,
		"dueDate":        d.DueDate,
		"priority":       d.Priority,
		"status":         d.EffectiveStatus(now),
		"sourceUrl":      d.SourceURL,
		"tags":           d.Tags,
		"estimatedHours": d.EstimatedHours,
		"createdAt":      d.CreatedAt,
		"updatedAt":      d.UpdatedAt,
	}
}
