package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stowage/internal/domain"
	"stowage/internal/service"
)

// NotificationHandler handles outbound notification endpoints.
type NotificationHandler struct {
	notificationService service.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(notificationService service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// SendSMS handles POST /api/v1/notifications/sms
// @Summary Send an SMS
// @Tags notifications
// @Accept json
// @Produce json
// @Param request body SendSMSRequest true "Message and recipient"
// @Success 202 {object} Response{data=domain.PublishResult}
// @Failure 400 {object} ErrorResponseBody "Invalid message type"
// @Security BearerAuth
// @Router /notifications/sms [post]
func (h *NotificationHandler) SendSMS(c *gin.Context) {
	var req SendSMSRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	res, err := h.notificationService.SendSMS(c.Request.Context(), service.SendSMSInput{
		Message:     req.Message,
		PhoneNumber: req.PhoneNumber,
		Type:        domain.SMSType(req.Type),
		SenderID:    req.SenderID,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, APIResponse{Success: true, Data: res})
}

// SendEmail handles POST /api/v1/notifications/email
// @Summary Send an email
// @Tags notifications
// @Accept json
// @Produce json
// @Param request body SendEmailRequest true "Recipient and content"
// @Success 202 {object} Response{data=domain.PublishResult}
// @Security BearerAuth
// @Router /notifications/email [post]
func (h *NotificationHandler) SendEmail(c *gin.Context) {
	var req SendEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	res, err := h.notificationService.SendEmail(c.Request.Context(), service.SendEmailInput{
		To:       req.To,
		Subject:  req.Subject,
		TextBody: req.TextBody,
		HTMLBody: req.HTMLBody,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, APIResponse{Success: true, Data: res})
}
