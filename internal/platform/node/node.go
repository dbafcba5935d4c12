package node

import (
	"context"
	"encoding/json"
	"time"
)

// ctxKey represents the type of value for the context key.
type ctxKey int

// KeyValues is how request values are stored/retrieved.
const KeyValues ctxKey = 1

// Values represent state for each request.
type Values struct {
	TraceID string
	Now     time.Time
}

// ContextWithValues returns a context carrying request values for a single
// settlement attempt. Now is the time used for all expiry checks within the
// attempt.
func ContextWithValues(ctx context.Context, traceID string, now time.Time) context.Context {
	v := Values{
		TraceID: traceID,
		Now:     now,
	}
	return context.WithValue(ctx, KeyValues, &v)
}

// Convert assigns all available compatible values with matching member names
// from one object to another. The dst object needs to be a pointer so that
// it can be written to. Members of these objects that are "specialized",
// like a struct containing only a string, need to have json.Marshaler and
// json.Unmarshaler interfaces implemented.
func Convert(src interface{}, dst interface{}) error {
	// Marshal source object to json.
	data, err := json.Marshal(src)
	if err != nil {
		return err
	}

	// Unmarshal json back into destination object.
	return json.Unmarshal(data, dst)
}
