package smartlead

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-resty/resty/v2"
)

// ShouldRetry determines if an HTTP status code should trigger a retry
// only retries on server errors (5xx) and rate limits (429)
func ShouldRetry(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests ||
		(statusCode >= 500 && statusCode < 600)
}

// retryCondition adapts ShouldRetry for resty and logs each retry decision
func retryCondition(logger *slog.Logger) resty.RetryConditionFunc {
	return func(rsp *resty.Response, err error) bool {
		if err != nil {
			if logger != nil {
				logger.Debug("Network error, will retry", "error", err.Error())
			}
			return true
		}
		if rsp != nil && ShouldRetry(rsp.StatusCode()) {
			if logger != nil {
				logger.Debug("HTTP request returned retryable status code",
					"status_code", rsp.StatusCode())
			}
			return true
		}
		return false
	}
}

// logResponse logs basic HTTP response information
func logResponse(logger *slog.Logger, endpoint string, rsp *resty.Response) {
	if logger == nil || rsp == nil {
		return
	}
	logger.Debug("Received API response",
		"endpoint", endpoint,
		"status_code", rsp.StatusCode(),
		"body_length", len(rsp.Body()),
		"duration", rsp.Time())
}

// restyLogger routes resty's internal logging through slog
type restyLogger struct {
	logger *slog.Logger
}

func newRestyLogger(logger *slog.Logger) *restyLogger {
	return &restyLogger{logger: logger}
}

func (l *restyLogger) Errorf(format string, v ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, v...))
}

func (l *restyLogger) Warnf(format string, v ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, v...))
}

func (l *restyLogger) Debugf(format string, v ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, v...))
}
