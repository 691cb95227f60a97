package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"time"

	"roomdesk/internal/app/commands"
)

// IdempotentCommand must be implemented by commands that want idempotency guarantees.
type IdempotentCommand interface {
	commands.Command
	IdempotencyKey() string
	ResultPrototype() any // should match the handler result type
}

// IdempotencyRecord is the stored outcome of a command. Pending marks a key
// whose first attempt is still running.
type IdempotencyRecord struct {
	Key        string    `json:"key"`
	Pending    bool      `json:"pending,omitempty"`
	Payload    []byte    `json:"payload,omitempty"`
	Error      string    `json:"error,omitempty"`
	Reason     string    `json:"reason,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type IdempotencyStore interface {
	Get(ctx context.Context, key string) (IdempotencyRecord, bool, error)
	// Reserve stores rec for lease only if key is absent and reports whether it did.
	Reserve(ctx context.Context, rec IdempotencyRecord, lease time.Duration) (bool, error)
	Save(ctx context.Context, rec IdempotencyRecord) error
	// Release drops a pending reservation so the key can be retried.
	Release(ctx context.Context, key string) error
}

// ReasonedError is implemented by failures that carry a machine-readable reason.
type ReasonedError interface {
	error
	FailureReason() string
}

type ResultCodec interface {
	Encode(v any) ([]byte, error)
	Decode(data []byte, out any) error
}

type JSONResultCodec struct{}

func (JSONResultCodec) Encode(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (JSONResultCodec) Decode(data []byte, out any) error {
	return json.Unmarshal(data, out)
}

var errMissingPrototype = errors.New("middleware: idempotent command requires result prototype")

// ErrReplayedFailure wraps the stored message of a command that failed under
// the same idempotency key.
var ErrReplayedFailure = errors.New("middleware: idempotent command previously failed")

// ReplayedFailureError is returned when a key's first attempt failed.
type ReplayedFailureError struct {
	Message string
	Reason  string
}

func (e *ReplayedFailureError) Error() string {
	return ErrReplayedFailure.Error() + ": " + e.Message
}

func (e *ReplayedFailureError) Unwrap() error { return ErrReplayedFailure }

var (
	// reservationLease bounds how long a crashed attempt can hold a key.
	reservationLease = time.Minute
	inFlightPoll     = 25 * time.Millisecond
)

// Idempotency replays the stored outcome of a command whose key was seen
// before. Keys are scoped by command key so two commands cannot collide. A
// duplicate that arrives while the first attempt runs waits for its outcome.
func Idempotency(store IdempotencyStore, codec ResultCodec) CommandMiddleware {
	if store == nil {
		panic("middleware: idempotency store required")
	}
	if codec == nil {
		codec = JSONResultCodec{}
	}
	return func(next commands.Bus) commands.Bus {
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			idCmd, ok := cmd.(IdempotentCommand)
			if !ok || idCmd.IdempotencyKey() == "" {
				return next.Dispatch(ctx, cmd)
			}
			key := idCmd.Key() + ":" + idCmd.IdempotencyKey()
			rec, done, err := claim(ctx, store, key)
			if err != nil {
				return nil, err
			}
			if done {
				return replay(rec, idCmd, codec)
			}

			// Stored outcomes must outlive a caller that hangs up after the handler returned.
			storeCtx := context.WithoutCancel(ctx)
			result, err := next.Dispatch(ctx, cmd)
			if err != nil {
				// Cancelled or timed-out attempts are not terminal; let the client retry.
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					if relErr := store.Release(storeCtx, key); relErr != nil {
						return nil, errors.Join(err, relErr)
					}
					return nil, err
				}
				record := IdempotencyRecord{Key: key, Error: err.Error(), OccurredAt: time.Now().UTC()}
				var reasoned ReasonedError
				if errors.As(err, &reasoned) {
					record.Reason = reasoned.FailureReason()
				}
				if saveErr := store.Save(storeCtx, record); saveErr != nil {
					return nil, errors.Join(err, saveErr)
				}
				return nil, err
			}
			record := IdempotencyRecord{Key: key, OccurredAt: time.Now().UTC()}
			if result != nil {
				payload, encErr := codec.Encode(result)
				if encErr != nil {
					_ = store.Release(storeCtx, key)
					return nil, encErr
				}
				record.Payload = payload
			}
			if saveErr := store.Save(storeCtx, record); saveErr != nil {
				return nil, saveErr
			}
			return result, nil
		})
	}
}

// claim returns the finished record for key, or reserves key for the caller
// (done=false). It waits while another attempt holds the reservation.
func claim(ctx context.Context, store IdempotencyStore, key string) (IdempotencyRecord, bool, error) {
	for {
		rec, found, err := store.Get(ctx, key)
		if err != nil {
			return IdempotencyRecord{}, false, err
		}
		if found && !rec.Pending {
			return rec, true, nil
		}
		if !found {
			reserved, err := store.Reserve(ctx, IdempotencyRecord{Key: key, Pending: true, OccurredAt: time.Now().UTC()}, reservationLease)
			if err != nil {
				return IdempotencyRecord{}, false, err
			}
			if reserved {
				return IdempotencyRecord{}, false, nil
			}
			continue
		}
		timer := time.NewTimer(inFlightPoll)
		select {
		case <-ctx.Done():
			timer.Stop()
			return IdempotencyRecord{}, false, ctx.Err()
		case <-timer.C:
		}
	}
}

func replay(rec IdempotencyRecord, cmd IdempotentCommand, codec ResultCodec) (any, error) {
	if rec.Error != "" {
		return nil, &ReplayedFailureError{Message: rec.Error, Reason: rec.Reason}
	}
	proto := cmd.ResultPrototype()
	if proto == nil {
		return nil, errMissingPrototype
	}
	if len(rec.Payload) == 0 {
		return nil, nil
	}
	if err := codec.Decode(rec.Payload, proto); err != nil {
		return nil, fmt.Errorf("decode stored result for %s: %w", rec.Key, err)
	}
	return normalizePrototype(proto), nil
}

func normalizePrototype(proto any) any {
	rv := reflect.ValueOf(proto)
	if rv.Kind() == reflect.Ptr && !rv.IsNil() {
		return rv.Interface()
	}
	return proto
}
