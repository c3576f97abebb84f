package middleware

import (
	"context"
	"net/http"

	"popcorn/services"
	"popcorn/shared/logger"
)

type contextKey string

const workspaceKey contextKey = "workspace"

// RequireClient identifies the browser by its session cookie and attaches its
// workspace to the request context. New browsers get a client id on their
// first request.
func RequireClient(sessions *services.Sessions, workspaces *services.Workspaces) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientID, err := sessions.ClientID(w, r)
			if err != nil {
				logger.Error("Failed to identify client", "error", err)
				http.Error(w, "Failed to create session", http.StatusInternalServerError)
				return
			}

			ws, err := workspaces.Get(r.Context(), clientID)
			if err != nil {
				logger.Error("Failed to load workspace", "client_id", clientID, "error", err)
				http.Error(w, "Failed to load watched list", http.StatusInternalServerError)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithWorkspace(r.Context(), ws)))
		})
	}
}

// WithWorkspace returns a copy of ctx carrying ws.
func WithWorkspace(ctx context.Context, ws *services.Workspace) context.Context {
	return context.WithValue(ctx, workspaceKey, ws)
}

// WorkspaceFromContext returns the workspace set by RequireClient.
func WorkspaceFromContext(ctx context.Context) (*services.Workspace, bool) {
	ws, ok := ctx.Value(workspaceKey).(*services.Workspace)
	return ws, ok && ws != nil
}
