package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
)

// Persistence is the key-value port behind the ledgers. Sequence keys are
// append-only; setting keys hold a single value.
type Persistence interface {
	// Append adds record to the end of the sequence stored under key
	Append(ctx context.Context, key string, record interface{}) error
	// List decodes the whole sequence under key into dest, a pointer to a
	// slice. A missing key leaves dest untouched.
	List(ctx context.Context, key string, dest interface{}) error
	// Count returns the length of the sequence under key
	Count(ctx context.Context, key string) (int, error)
	// Get decodes the value under key into dest and reports whether it existed
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	// Put replaces the value under key
	Put(ctx context.Context, key string, value interface{}) error
}

// DecodeSequence decodes JSON-encoded records, in order, into dest
func DecodeSequence(payloads [][]byte, dest interface{}) error {
	if len(payloads) == 0 {
		return nil
	}

	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, p := range payloads {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(p)
	}
	buf.WriteByte(']')

	if err := json.Unmarshal(buf.Bytes(), dest); err != nil {
		return fmt.Errorf("failed to decode sequence: %w", err)
	}
	return nil
}
