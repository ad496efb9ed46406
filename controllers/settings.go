package controllers

import (
	"net/http"

	"aicruel-backend/config"
	"aicruel-backend/store"
	"aicruel-backend/utils"

	"github.com/gin-gonic/gin"
)

// UpdateSettingsInput defines the expected JSON structure for updating
// notification settings
type UpdateSettingsInput struct {
	Email           *string `json:"email"`
	PhoneNumber     *string `json:"phoneNumber"`
	WhatsAppNumber  *string `json:"whatsappNumber"`
	EmailEnabled    *bool   `json:"emailEnabled"`
	SMSEnabled      *bool   `json:"smsEnabled"`
	WhatsAppEnabled *bool   `json:"whatsappEnabled"`
	PushEnabled     *bool   `json:"pushEnabled"`
}

// GetNotificationSettings returns the user's settings, materializing the
// default row (email only) on first read
func GetNotificationSettings(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	st := store.New(config.DB)
	settings, err := st.GetSettings(userID)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load settings")
		return
	}
	if settings == nil {
		settings, err = st.EnsureDefaultSettings(userID)
		if err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create default settings")
			return
		}
	}

	c.JSON(http.StatusOK, settings)
}

// UpdateNotificationSettings applies a partial update to the user's settings
func UpdateNotificationSettings(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	var input UpdateSettingsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.PhoneNumber != nil && *input.PhoneNumber != "" && !utils.ValidatePhone(*input.PhoneNumber) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
		return
	}
	if input.WhatsAppNumber != nil && *input.WhatsAppNumber != "" && !utils.ValidatePhone(*input.WhatsAppNumber) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid WhatsApp number format")
		return
	}
	if input.Email != nil && *input.Email != "" && !utils.ValidateEmail(*input.Email) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid email address")
		return
	}

	st := store.New(config.DB)
	settings, err := st.GetSettings(userID)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load settings")
		return
	}
	if settings == nil {
		settings, err = st.EnsureDefaultSettings(userID)
		if err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create default settings")
			return
		}
	}

	updates := map[string]interface{}{}
	if input.Email != nil {
		updates["email"] = *input.Email
	}
	if input.PhoneNumber != nil {
		updates["phone_number"] = *input.PhoneNumber
	}
	if input.WhatsAppNumber != nil {
		updates["whatsapp_number"] = *input.WhatsAppNumber
	}
	if input.EmailEnabled != nil {
		updates["email_enabled"] = *input.EmailEnabled
	}
	if input.SMSEnabled != nil {
		updates["sms_enabled"] = *input.SMSEnabled
	}
	if input.WhatsAppEnabled != nil {
		updates["whatsapp_enabled"] = *input.WhatsAppEnabled
	}
	if input.PushEnabled != nil {
		updates["push_enabled"] = *input.PushEnabled
	}

	if len(updates) > 0 {
		if err := config.DB.Model(settings).Updates(updates).Error; err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update settings")
			return
		}
	}

	c.JSON(http.StatusOK, settings)
}

// ChannelStatus reports which channels have working provider configuration
func ChannelStatus(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"email":    cfg.SMTP.Host != "" && cfg.SMTP.Username != "" && cfg.SMTP.Password != "",
			"sms":      cfg.Twilio.AccountSID != "" && cfg.Twilio.AuthToken != "" && cfg.Twilio.SMSFrom != "",
			"whatsapp": cfg.Twilio.AccountSID != "" && cfg.Twilio.AuthToken != "" && cfg.Twilio.WhatsAppFrom != "",
			"push":     true, // queued stub always accepts
		})
	}
}
