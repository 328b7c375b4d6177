package app

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pennywise/pennywise/internal/config"
	"github.com/pennywise/pennywise/internal/rest"
	"github.com/pennywise/pennywise/pkg/user"
	log "github.com/sirupsen/logrus"
)

const userIdHeader = "X-User-Id"

// SetupMiddleware wires all HTTP middlewares for the application.
func SetupMiddleware(r *mux.Router, deps *Dependencies, cfg config.Application) {
	r.Use(userContext(deps.UserService))
}

// userContext resolves the X-User-Id header into the request context for downstream services.
func userContext(users user.Service) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			uid := req.Header.Get(userIdHeader)
			ctx := req.Context()

			if uid != "" {
				u, err := users.GetUserByUid(ctx, uid)
				if err != nil {
					if errors.Is(err, user.ErrUserNotFound) {
						log.Debugf("user not found: %s", uid)
						rest.WriteErrorResponse(w, http.StatusForbidden, rest.ErrorResponse{Error: "User not found"})
						return
					}
					log.Errorf("failed to get user: %v", err)
					rest.WriteError(w, "Failed to resolve user", err)
					return
				}
				log.Tracef("user found: %s", u.Uid)
				ctx = user.WithUser(ctx, u)
			}
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	}
}

// requireUser rejects requests that reached it without a resolved user.
func requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if _, err := user.CurrentUser(req.Context()); err != nil {
			rest.WriteErrorResponse(w, http.StatusForbidden, rest.ErrorResponse{
				Error:   "User not found",
				Details: "log in and send the returned uid in the " + userIdHeader + " header",
			})
			return
		}
		next.ServeHTTP(w, req)
	})
}
