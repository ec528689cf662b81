package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/umoc/basecamp/backend/internal/domain"
)

// TokenValidator turns a bearer token into the profile id it names.
// *auth.JWTManager satisfies it.
type TokenValidator interface {
	Validate(token string) (uuid.UUID, error)
}

// ActorResolver loads the caller's current permission level.
// *service.ProfileService satisfies it.
type ActorResolver interface {
	ResolveActor(ctx context.Context, profileID uuid.UUID) (domain.Actor, error)
}

type contextKey string

const (
	actorKey     contextKey = "actor"
	actorSlotKey contextKey = "actor_slot"
)

// actorSlot lets an outer middleware observe the actor set further in.
type actorSlot struct {
	actor domain.Actor
	set   bool
}

func withActorSlot(ctx context.Context, s *actorSlot) context.Context {
	return context.WithValue(ctx, actorSlotKey, s)
}

// WithActor returns a copy of ctx carrying actor.
func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	if slot, ok := ctx.Value(actorSlotKey).(*actorSlot); ok {
		slot.actor, slot.set = actor, true
	}
	return context.WithValue(ctx, actorKey, actor)
}

// ActorFrom returns the authenticated caller stored by an Authenticator.
func ActorFrom(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorKey).(domain.Actor)
	return actor, ok
}

// Authenticator turns "Authorization: Bearer <token>" headers into a
// domain.Actor stored in the request context. The level is resolved on
// every request.
type Authenticator struct {
	tokens TokenValidator
	actors ActorResolver
	log    *slog.Logger
}

// NewAuthenticator returns an Authenticator.
func NewAuthenticator(tokens TokenValidator, actors ActorResolver, log *slog.Logger) *Authenticator {
	return &Authenticator{tokens: tokens, actors: actors, log: log}
}

// Require rejects requests without a valid bearer token with 401.
func (a *Authenticator) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			writeError(w, http.StatusUnauthorized, "unauthenticated", "authorization token required")
			return
		}
		a.serve(w, r, next)
	})
}

// Optional lets anonymous requests through without an actor. A token that
// is present but invalid is still rejected.
func (a *Authenticator) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			next.ServeHTTP(w, r)
			return
		}
		a.serve(w, r, next)
	})
}

func (a *Authenticator) serve(w http.ResponseWriter, r *http.Request, next http.Handler) {
	token, ok := bearerToken(r.Header.Get("Authorization"))
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated", "authorization token required")
		return
	}

	profileID, err := a.tokens.Validate(token)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthenticated", "invalid or expired token")
		return
	}

	actor, err := a.actors.ResolveActor(r.Context(), profileID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusUnauthorized, "unauthenticated", "no profile for this token")
		return
	case err != nil:
		a.log.ErrorContext(r.Context(), "resolve actor", "profile_id", profileID, "error", err)
		writeError(w, http.StatusServiceUnavailable, "store_unavailable", "please retry")
		return
	}

	next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
