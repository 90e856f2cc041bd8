package controllers

import (
	"clx/database"
	"clx/middleware"
	"clx/models"

	"github.com/gofiber/fiber/v2"
)

// GetProgrammes lists the programme catalogue, optionally filtered by category
func GetProgrammes(c *fiber.Ctx) error {
	category := c.Query("category")

	db := database.Database.Db.Where("is_deleted = ?", false)
	if category != "" && category != "All" {
		db = db.Where("category = ?", category)
	}

	var programmes []models.Programme
	if err := db.Order("id asc").Find(&programmes).Error; err != nil {
		return middleware.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch programmes")
	}

	return c.Status(fiber.StatusOK).JSON(programmes)
}

// GetProgrammeBySlug gets one programme with its ordered modules
func GetProgrammeBySlug(c *fiber.Ctx) error {
	slug := c.Locals("programmeSlug").(string)

	var programme models.Programme
	if err := database.Database.Db.Where("slug = ? AND is_deleted = ?", slug, false).First(&programme).Error; err != nil {
		return middleware.JsonError(c, fiber.StatusNotFound, "Programme not found")
	}

	var modules []models.Module
	if err := database.Database.Db.Where("programme_id = ? AND is_deleted = ?", programme.ID, false).
		Order("order_index asc").Find(&modules).Error; err != nil {
		return middleware.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch modules")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"programme": programme,
		"modules":   modules,
	})
}
