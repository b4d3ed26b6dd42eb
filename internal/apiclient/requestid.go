package apiclient

import "context"

type requestIDKey struct{}

// WithRequestID tags outgoing calls so both sides' logs line up.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
