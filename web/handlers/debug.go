package handlers

import (
	"github.com/agridash/database"
	"github.com/gofiber/fiber/v2"
)

// GetSQLLogs returns the most recent captured SQL statements
func GetSQLLogs(c *fiber.Ctx) error {
	return c.JSON(database.SQLLogger.Recent(20))
}

// ClearSQLLogs drops all captured SQL statements
func ClearSQLLogs(c *fiber.Ctx) error {
	database.SQLLogger.Clear()
	return c.SendStatus(fiber.StatusOK)
}
