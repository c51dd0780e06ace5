package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rpupo63/baglist-backend/errs"
	"github.com/rpupo63/baglist-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// actorResolver maps a verified account id to the profile it acts as.
type actorResolver interface {
	ResolveActor(ctx context.Context, accountID string) (services.Actor, error)
}

type authMiddleware struct {
	responder Responder
	verifier  TokenVerifier
	actors    actorResolver
}

func newAuthMiddleware(verifier TokenVerifier, actors actorResolver) authMiddleware {
	logger := log.With().Str("handlerName", "authMiddleware").Logger()
	return authMiddleware{
		responder: NewResponder(logger),
		verifier:  verifier,
		actors:    actors,
	}
}

// resolve reads the bearer token of r. A request without an Authorization header acts anonymously.
func (m authMiddleware) resolve(r *http.Request) (services.Actor, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return services.Anonymous(), nil
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return services.Anonymous(), errs.NewInvalidTokenError()
	}

	accountID, err := m.verifier.Verify(strings.TrimPrefix(authHeader, "Bearer "))
	if err != nil {
		return services.Anonymous(), err
	}
	return m.actors.ResolveActor(r.Context(), accountID)
}

// authenticate rejects requests without a valid bearer token.
func (m authMiddleware) authenticate(next http.Handler) http.Handler {
	return m.guard(true, m.responder.WriteError, next)
}

// authenticateForm is authenticate for the inline-edit endpoints, which answer in their own shape.
func (m authMiddleware) authenticateForm(next http.Handler) http.Handler {
	return m.guard(true, m.responder.WriteFormError, next)
}

// identify attaches the actor when a token is present. Invalid tokens are still rejected.
func (m authMiddleware) identify(next http.Handler) http.Handler {
	return m.guard(false, m.responder.WriteError, next)
}

func (m authMiddleware) guard(required bool, writeErr func(http.ResponseWriter, error), next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, err := m.resolve(r)
		if err != nil {
			writeErr(w, err)
			return
		}
		if required && !actor.Authenticated() {
			writeErr(w, errs.NewMissingTokenError())
			return
		}
		next.ServeHTTP(w, r.WithContext(ctxWithActor(r.Context(), actor)))
	})
}

type statusResponseWriter struct {
	http.ResponseWriter
	status      int
	bytes       int
	wroteHeader bool
}

func (w *statusResponseWriter) WriteHeader(statusCode int) {
	if !w.wroteHeader {
		w.status = statusCode
		w.wroteHeader = true
		w.ResponseWriter.WriteHeader(statusCode)
	}
}

func (w *statusResponseWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// logInternalServerErrors turns panics into a JSON 500 and logs every 500 with its request id.
func logInternalServerErrors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		srw := &statusResponseWriter{ResponseWriter: w, status: http.StatusOK}
		requestID := middleware.GetReqID(r.Context())

		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			log.Error().
				Str("request_id", requestID).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Interface("panic", rec).
				Str("stack", string(debug.Stack())).
				Msg("Recovered from panic")

			if !srw.wroteHeader {
				NewResponder(log.Logger).WriteError(srw, errs.NewInternalErrorWithCause("internal error", fmt.Errorf("panic: %v", rec)))
			}
		}()

		next.ServeHTTP(srw, r)

		if srw.status == http.StatusInternalServerError {
			log.Error().
				Str("request_id", requestID).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Msg("500 error response")
		}
	})
}

// CORSCheckMiddleware rejects preflight requests from origins that are not allowed
func CORSCheckMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" || r.Method != http.MethodOptions || originAllowed(allowedOrigins, origin) {
				next.ServeHTTP(w, r)
				return
			}
			responder := NewResponder(log.Logger)
			responder.WriteError(w, errs.NewCORSError(origin))
		})
	}
}

func originAllowed(allowedOrigins []string, origin string) bool {
	for _, allowedOrigin := range allowedOrigins {
		if allowedOrigin == "*" || allowedOrigin == origin {
			return true
		}
	}
	return false
}

// corsMiddleware sets the CORS headers for allowed origins and answers preflight requests
func corsMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "HX-Request", "HX-Target", "HX-Current-URL"},
		AllowCredentials: true,
		MaxAge:           300,
	})
}

// requestLogger logs one line per request, leveled by status code.
func requestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			srw := &statusResponseWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(srw, r)

			var event *zerolog.Event
			switch {
			case srw.status >= 500:
				event = logger.Error()
			case srw.status >= 400:
				event = logger.Warn()
			default:
				event = logger.Info()
			}

			event.
				Str("request_id", middleware.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", srw.status).
				Int("bytes", srw.bytes).
				Dur("duration", time.Since(start)).
				Str("remote_addr", r.RemoteAddr).
				Msg("HTTP Request")
		})
	}
}

// consoleLogger is the colored development logger used for request lines.
func consoleLogger() zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}).With().Timestamp().Logger()
}
