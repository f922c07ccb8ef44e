package ctxutil

import "context"

type requestDataKey struct{}

// RequestData carries the mobile caller identity resolved by a handler, so the
// request logger can tag the line after the handler returns.
type RequestData struct {
	ParticipantUUID string
	SurveyName      string
	APIVersion      string
}

func WithRequestData(ctx context.Context) context.Context {
	if GetRequestData(ctx) != nil {
		return ctx
	}
	return context.WithValue(ctx, requestDataKey{}, &RequestData{})
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
