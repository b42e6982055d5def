package site

import (
	"context"

	"github.com/pkg/errors"
)

type contextKey string

const contextKeySessionID contextKey = "sessionID"

func ContextSessionID(ctx context.Context) (string, error) {
	sessionID, ok := ctx.Value(contextKeySessionID).(string)
	if !ok || sessionID == "" {
		return "", errors.New("no session id in context")
	}

	return sessionID, nil
}

func setContextSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, contextKeySessionID, sessionID)
}
