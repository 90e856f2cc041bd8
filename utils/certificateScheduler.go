package utils

import (
	"log"
	"time"

	"clx/database"
	"clx/models"

	"github.com/robfig/cron/v3"
)

// logScheduler logs scheduler events with timestamp
func logScheduler(message string) {
	log.Printf("[CERT-SCHEDULER %s] %s", time.Now().Format(time.RFC3339), message)
}

// expireCertificates flags certificates whose validity window has passed.
// Verification responses also check valid_until directly, so the flag is a
// reporting convenience, not the source of truth.
func expireCertificates() {
	result := database.Database.Db.Model(&models.Certificate{}).
		Where("valid_until < ? AND is_expired = ?", time.Now(), false).
		Update("is_expired", true)
	if result.Error != nil {
		logScheduler("Error expiring certificates: " + result.Error.Error())
		return
	}
	if result.RowsAffected > 0 {
		logScheduler("Expired certificates flagged")
	}
}

// StartCertificateScheduler runs the daily certificate expiry sweep
func StartCertificateScheduler() *cron.Cron {
	c := cron.New()

	if _, err := c.AddFunc("@daily", expireCertificates); err != nil {
		log.Fatalf("Failed to register certificate expiry job: %v", err)
	}

	c.Start()
	logScheduler("Certificate scheduler started")

	// Sweep once at startup so a restart does not wait a day
	go expireCertificates()

	return c
}
