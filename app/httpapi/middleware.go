package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const (
	headerRequestID = "X-Request-ID"

	logMsgRequestServed = "http request served"
	logMsgRequestFailed = "http request failed"
	logMsgPanic         = "recovered from panic in http handler"

	logAttrRequestID  = "request_id"
	logAttrMethod     = "method"
	logAttrPath       = "path"
	logAttrStatus     = "status"
	logAttrDurationMS = "duration_ms"
	logAttrError      = "error"
	logAttrErrorKind  = "error_kind"
	logAttrPanic      = "panic"
)

type requestIDKey struct{}

// RequestIDFrom returns the request id stored by the request id middleware, or "".
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(headerRequestID)
		if id == "" {
			id = uuid.NewString()
		}

		w.Header().Set(headerRequestID, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) withAccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(recorder, r)

		s.logInfo(r, logMsgRequestServed,
			logAttrRequestID, RequestIDFrom(r.Context()),
			logAttrMethod, r.Method,
			logAttrPath, r.URL.Path,
			logAttrStatus, recorder.status,
			logAttrDurationMS, float64(time.Since(start).Nanoseconds())/1e6,
		)
	})
}

func (s *Server) withRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				s.logError(r, logMsgPanic, logAttrRequestID, RequestIDFrom(r.Context()), logAttrPanic, rec)
				writeJSON(w, http.StatusInternalServerError, ErrorResponse{
					Error:            ErrorCodeServerError,
					ErrorDescription: DescriptionInternal,
				})
			}
		}()

		next.ServeHTTP(w, r)
	})
}

func (s *Server) logInfo(r *http.Request, msg string, args ...any) {
	if s.contextualLogger != nil {
		s.contextualLogger.InfoContext(r.Context(), msg, args...)
	} else if s.logger != nil {
		s.logger.Info(msg, args...)
	}
}

func (s *Server) logError(r *http.Request, msg string, args ...any) {
	if s.contextualLogger != nil {
		s.contextualLogger.ErrorContext(r.Context(), msg, args...)
	} else if s.logger != nil {
		s.logger.Error(msg, args...)
	}
}

// Client mistakes are logged at warn level, server failures at error level.
func (s *Server) logWarnOrError(r *http.Request, status int, msg string, args ...any) {
	if status >= http.StatusInternalServerError {
		s.logError(r, msg, args...)
		return
	}

	if s.contextualLogger != nil {
		s.contextualLogger.WarnContext(r.Context(), msg, args...)
	} else if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}
