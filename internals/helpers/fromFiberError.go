package helper

import "github.com/gofiber/fiber/v2"

// FromFiberError mengubah *fiber.Error (parse body, param invalid, dsb)
// menjadi response JSON standar via JsonError.
// Jika bukan *fiber.Error, fallback ke 500.
func FromFiberError(c *fiber.Ctx, err error) error {
	if fe, ok := err.(*fiber.Error); ok {
		return JsonError(c, fe.Code, fe.Message)
	}
	return JsonError(c, fiber.StatusInternalServerError, err.Error())
}
