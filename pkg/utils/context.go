package utils

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	UserIDKey    contextKey = "user_id"
	UsernameKey  contextKey = "username"
	RoleKey      contextKey = "role"
	SuperuserKey contextKey = "superuser"
)

func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userIDVal := ctx.Value(UserIDKey)
	if userIDVal == nil {
		return uuid.Nil, false
	}

	userIDStr, ok := userIDVal.(string)
	if !ok {
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, false
	}

	return userID, true
}

func GetUsernameFromContext(ctx context.Context) (string, bool) {
	usernameVal := ctx.Value(UsernameKey)
	if usernameVal == nil {
		return "", false
	}

	username, ok := usernameVal.(string)
	return username, ok
}

func GetRoleFromContext(ctx context.Context) (string, bool) {
	roleVal := ctx.Value(RoleKey)
	if roleVal == nil {
		return "", false
	}

	role, ok := roleVal.(string)
	return role, ok
}

func IsSuperuserFromContext(ctx context.Context) bool {
	superVal := ctx.Value(SuperuserKey)
	if superVal == nil {
		return false
	}

	super, ok := superVal.(bool)
	return ok && super
}

func SetUserContext(ctx context.Context, userID uuid.UUID, username, role string, superuser bool) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, userID.String())
	ctx = context.WithValue(ctx, UsernameKey, username)
	ctx = context.WithValue(ctx, RoleKey, role)
	ctx = context.WithValue(ctx, SuperuserKey, superuser)
	return ctx
}
