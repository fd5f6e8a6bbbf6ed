package handler

import (
	"bytes"
	"context"
	"net/http"
	"strings"

	"github.com/ahmed-elshahat-702/recipe-hub/pkg/logger"
	"github.com/ahmed-elshahat-702/recipe-hub/pkg/metrics"
	"github.com/ahmed-elshahat-702/recipe-hub/recipes-service/internal/app/recipes/entity"
	"github.com/ahmed-elshahat-702/recipe-hub/recipes-service/internal/app/recipes/infrastructure"

	"github.com/gin-gonic/gin"
)

const (
	IdempotencyKeyHeader = "Idempotency-Key"
	ReplayedHeader       = "Idempotent-Replayed"
	maxIdempotencyKeyLen = 128
)

// bodyCaptureWriter дублирует тело ответа в буфер для сохранения
type bodyCaptureWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *bodyCaptureWriter) Write(data []byte) (int, error) {
	w.body.Write(data)
	return w.ResponseWriter.Write(data)
}

func (w *bodyCaptureWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Idempotency повторяет сохранённый успешный ответ для запросов с уже виденным
// Idempotency-Key. Запросы без заголовка проходят как есть.
// Должен стоять после Authenticate: ключ привязан к пользователю
func Idempotency(store infrastructure.IdempotencyStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader))
		if key == "" || store == nil {
			c.Next()
			return
		}
		if len(key) > maxIdempotencyKeyLen {
			writeError(c, http.StatusBadRequest, "Idempotency-Key is too long", CodeInvalidInput)
			return
		}

		scope := idempotencyScope(c, key)
		state, stored, err := store.Reserve(c.Request.Context(), scope)
		if err != nil {
			// Без Redis запрос выполняется без защиты от повторов
			logger.Warn().
				Err(err).
				Str("request_id", c.GetString("request_id")).
				Msg("Idempotency store unavailable, processing request without deduplication")
			c.Next()
			return
		}

		switch state {
		case infrastructure.KeyCompleted:
			metrics.IdempotentReplays.WithLabelValues("replayed").Inc()
			c.Header(ReplayedHeader, "true")
			c.Data(stored.Status, stored.ContentType, stored.Body)
			c.Abort()
			return
		case infrastructure.KeyInProgress:
			metrics.IdempotentReplays.WithLabelValues("in_progress").Inc()
			writeError(c, http.StatusConflict, "A request with this Idempotency-Key is still in progress", CodeRequestInProgress)
			return
		}

		writer := &bodyCaptureWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = writer

		c.Next()

		// Ответ уже отправлен клиенту, отмена запроса не должна терять ключ
		ctx := context.WithoutCancel(c.Request.Context())
		status := writer.Status()

		// Сохраняются только успешные ответы. Ошибка означает, что запись не состоялась,
		// и повтор с тем же ключом должен дойти до сервиса
		if status < http.StatusOK || status >= http.StatusMultipleChoices {
			if err := store.Release(ctx, scope); err != nil {
				logger.Warn().Err(err).Str("request_id", c.GetString("request_id")).Msg("Failed to release idempotency key")
			}
			return
		}

		response := entity.StoredResponse{
			Status:      status,
			ContentType: writer.Header().Get("Content-Type"),
			Body:        writer.body.Bytes(),
		}
		if err := store.Complete(ctx, scope, response); err != nil {
			logger.Warn().Err(err).Str("request_id", c.GetString("request_id")).Msg("Failed to store idempotent response")
		}
	}
}

func idempotencyScope(c *gin.Context, key string) string {
	return strings.Join([]string{c.GetString(ctxUserID), c.Request.Method, c.Request.URL.Path, key}, ":")
}
