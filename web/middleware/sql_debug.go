package middleware

import (
	"github.com/agridash/database"
	"github.com/gofiber/fiber/v2"
)

// SQLDebug attaches the SQL statements executed during the request to
// the context locals, for the debug endpoint and error responses.
func SQLDebug() fiber.Handler {
	return func(c *fiber.Ctx) error {
		before := len(database.SQLLogger.Queries())

		err := c.Next()

		after := database.SQLLogger.Queries()
		var requestQueries []database.QueryLog
		if diff := len(after) - before; diff > 0 && diff <= len(after) {
			// Newest first, so this request's statements lead the slice.
			requestQueries = after[:diff]
		}

		c.Locals("SQLQueries", requestQueries)
		c.Locals("TotalSQLQueries", len(requestQueries))
		return err
	}
}
