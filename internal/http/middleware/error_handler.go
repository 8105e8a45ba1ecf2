package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/realty-backend/internal/logger"
	"github.com/ignatzorin/realty-backend/internal/pkg/apperror"
	"github.com/ignatzorin/realty-backend/internal/repository"
)

// ErrorHandler обрабатывает ошибки централизованно.
// Маскирует внутренние ошибки и возвращает понятные сообщения клиенту.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Проверяем, не был ли уже отправлен ответ
		if c.Writer.Written() {
			return
		}

		if len(c.Errors) > 0 {
			err := c.Errors.Last()

			// Определяем тип ошибки и статус код
			statusCode := http.StatusInternalServerError
			message := "внутренняя ошибка сервера"

			// Логируем ошибку
			if logger.Log != nil {
				logger.Log.WithFields(logrus.Fields{
					"error":  err.Error(),
					"path":   c.Request.URL.Path,
					"method": c.Request.Method,
				}).Error("Request error")
			}

			// Типизированные ошибки приложения несут статус и сообщение сами
			var appErr *apperror.AppError
			if errors.As(err.Err, &appErr) {
				c.JSON(appErr.HTTPStatus, gin.H{"error": appErr.Message})
				return
			}

			// Обрабатываем известные ошибки хранилища
			switch {
			case errors.Is(err.Err, repository.ErrUserNotFound):
				statusCode = http.StatusNotFound
				message = "пользователь не найден"
			case errors.Is(err.Err, repository.ErrReferralNotFound):
				statusCode = http.StatusNotFound
				message = "рекомендация не найдена"
			case errors.Is(err.Err, repository.ErrOfferNotFound):
				statusCode = http.StatusNotFound
				message = "оффер не найден"
			case errors.Is(err.Err, repository.ErrProjectNotFound):
				statusCode = http.StatusNotFound
				message = "проект не найден"
			default:
				if err.Error() != "" {
					// Если ошибка содержит понятное сообщение, используем его
					// Но только если это не внутренняя ошибка
					errStr := err.Error()
					if !containsInternalKeywords(errStr) {
						message = errStr
						// Для некоторых ошибок меняем статус код
						if contains(errStr, "неверный") || contains(errStr, "невалид") {
							statusCode = http.StatusBadRequest
						} else if contains(errStr, "нет прав") || contains(errStr, "не авторизован") {
							statusCode = http.StatusForbidden
						}
					}
				}
			}

			c.JSON(statusCode, gin.H{"error": message})
		}
	}
}

// containsInternalKeywords проверяет, содержит ли строка ключевые слова внутренних ошибок.
func containsInternalKeywords(s string) bool {
	keywords := []string{
		"sql:",
		"database",
		"connection",
		"timeout",
		"internal",
		"panic",
		"runtime",
	}

	for _, keyword := range keywords {
		if contains(s, keyword) {
			return true
		}
	}
	return false
}

// contains проверяет, содержит ли строка подстроку (case-insensitive).
func contains(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
