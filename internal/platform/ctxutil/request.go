package ctxutil

import "context"

type requestDataKey struct{}

// RequestData carries the caller identity and transport metadata of one HTTP request.
type RequestData struct {
	RequestID string
	UserID    string
	AccountID string
	Email     string
	IP        string
	UserAgent string
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey{}, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	if ctx == nil {
		return nil
	}
	if rd, ok := ctx.Value(requestDataKey{}).(*RequestData); ok {
		return rd
	}
	return nil
}

// ActorID returns the authenticated user id or "system" when the call has no caller.
func ActorID(ctx context.Context) string {
	if rd := GetRequestData(ctx); rd != nil && rd.UserID != "" {
		return rd.UserID
	}
	return "system"
}
