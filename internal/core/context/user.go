package context

import "context"

// UserContext identifies the operator behind a request: the JWT subject when
// authentication is on, otherwise whatever the X-Operator header named.
type UserContext struct {
	UserID string
	Name   string
	Roles  []string
}

type userKey struct{}

// WithUser stores the operator in ctx.
func WithUser(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

// GetUser returns the operator stored in ctx, or nil.
func GetUser(ctx context.Context) *UserContext {
	u, _ := ctx.Value(userKey{}).(*UserContext)
	return u
}

// GetUserID returns the operator id, empty for anonymous calls. Documents
// record it as created_by / updated_by.
func GetUserID(ctx context.Context) string {
	if u := GetUser(ctx); u != nil {
		return u.UserID
	}
	return ""
}
