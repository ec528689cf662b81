// Package service contains the business logic for the club trip API.
// Services validate inputs, enforce authorization through domain policies,
// run roster transitions under the trip lock and emit notifications.
// No SQL lives here: services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/umoc/basecamp/backend/internal/domain"
)

// Notifier delivers a notification on a best-effort basis.
// notify.Dispatcher satisfies it.
type Notifier interface {
	Notify(ctx context.Context, n domain.Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, n domain.Notification)

func (f NotifierFunc) Notify(ctx context.Context, n domain.Notification) { f(ctx, n) }

// tripLink is the client path of a trip page.
func tripLink(id uuid.UUID) string {
	return "/trips/" + id.String()
}

// commentLink is the client path of a comment anchored in its trip thread.
func commentLink(tripID, commentID uuid.UUID) string {
	return fmt.Sprintf("/trips/%s/comments#comment-%s", tripID, commentID)
}

// profileLink is the client path of the caller's own profile page.
const profileLink = "/profile"

// outcome labels a roster result for metrics: "ok", the refusal reason,
// or "error" for anything else.
func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	if reason, ok := domain.ReasonOf(err); ok {
		return string(reason)
	}
	if errors.Is(err, domain.ErrNotFound) {
		return "not_found"
	}
	return "error"
}

// systemClock is the default clock for services that compare against now.
func systemClock() time.Time { return time.Now() }
