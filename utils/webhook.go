package utils

import (
	"log"
	"time"

	"clx/config"

	"github.com/go-resty/resty/v2"
)

// NotifyProgrammeCompleted posts a completion event to the configured HR
// webhook. Disabled when no URL is configured; failures are logged and
// never surfaced to the learner.
func NotifyProgrammeCompleted(userID, programmeID, enrollmentID uint, certificateNumber string) {
	url := config.AppConfig.CompletionWebhookURL
	if url == "" {
		return
	}

	client := resty.New().SetTimeout(10 * time.Second)
	resp, err := client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]interface{}{
			"event":              "programme.completed",
			"user_id":            userID,
			"programme_id":       programmeID,
			"enrollment_id":      enrollmentID,
			"certificate_number": certificateNumber,
			"completed_at":       time.Now().Format(time.RFC3339),
		}).
		Post(url)
	if err != nil {
		log.Printf("Completion webhook failed for enrollment %d: %v", enrollmentID, err)
		return
	}
	if resp.StatusCode() >= 300 {
		log.Printf("Completion webhook for enrollment %d returned %d: %s", enrollmentID, resp.StatusCode(), resp.String())
	}
}
