// internal/adapters/in/http/middleware/avatar_context.go
package middleware

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
)

type ctxKeyAvatarIDType struct{}

var ctxKeyAvatarID = ctxKeyAvatarIDType{}

// AvatarResolver resolves the shopping identity (avatarId) for a Firebase uid.
type AvatarResolver interface {
	ResolveAvatarByUID(ctx context.Context, uid string) (avatarID string, err error)
}

// AvatarContextMiddleware resolves uid -> avatarId and stores it into the
// request context. Intended to run AFTER UserAuthMiddleware.
type AvatarContextMiddleware struct {
	Resolver AvatarResolver
}

func (m *AvatarContextMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// allow CORS preflight to pass through
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		// fail-closed if middleware wiring is broken
		if m == nil || m.Resolver == nil {
			writeJSONErrorAvatar(w, http.StatusServiceUnavailable, "avatar_resolver_not_initialized")
			return
		}

		uid, ok := CurrentUserUID(r)
		if !ok {
			writeJSONErrorAvatar(w, http.StatusUnauthorized, "unauthorized: missing uid")
			return
		}

		avatarID, err := m.Resolver.ResolveAvatarByUID(r.Context(), uid)
		if err != nil {
			// prefer 404 for "no avatar for uid" without hiding real infra errors
			if isNotFoundLike(err) {
				writeJSONErrorAvatar(w, http.StatusNotFound, "avatar_not_found_for_uid")
				return
			}
			log.Printf("[avatar_context] ResolveAvatarByUID failed uid=%q err=%v", maskID(uid), err)
			writeJSONErrorAvatar(w, http.StatusInternalServerError, "avatar_resolve_failed")
			return
		}

		avatarID = strings.TrimSpace(avatarID)
		if avatarID == "" {
			writeJSONErrorAvatar(w, http.StatusNotFound, "avatar_not_found_for_uid")
			return
		}

		ctx := context.WithValue(r.Context(), ctxKeyAvatarID, avatarID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CurrentAvatarID returns the avatarId stored by AvatarContextMiddleware.
func CurrentAvatarID(r *http.Request) (string, bool) {
	v := r.Context().Value(ctxKeyAvatarID)
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	return s, true
}

// AvatarIDFromContext is the context-level variant for non-HTTP callers.
func AvatarIDFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(ctxKeyAvatarID)
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return strings.TrimSpace(s), true
}

// ContextWithAvatarID injects an avatarId (tests, internal jobs).
func ContextWithAvatarID(ctx context.Context, avatarID string) context.Context {
	return context.WithValue(ctx, ctxKeyAvatarID, strings.TrimSpace(avatarID))
}

// Heuristic to classify "not found" errors without importing
// domain-specific packages.
func isNotFoundLike(err error) bool {
	if err == nil {
		return false
	}
	s := strings.ToLower(strings.TrimSpace(err.Error()))
	if s == "" {
		return false
	}
	return strings.Contains(s, "not_found") ||
		strings.Contains(s, "not found") ||
		strings.Contains(s, "no such document") ||
		strings.Contains(s, "document not found") ||
		strings.Contains(s, "no documents") ||
		strings.Contains(s, "does not exist")
}

func maskID(s string) string {
	t := strings.TrimSpace(s)
	if len(t) <= 8 {
		return t
	}
	return t[:4] + "***" + t[len(t)-4:]
}

func writeJSONErrorAvatar(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
