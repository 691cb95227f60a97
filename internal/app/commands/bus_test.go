package commands

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingCommand struct{ Value string }

func (pingCommand) Key() string { return "test.ping" }

type otherCommand struct{}

func (otherCommand) Key() string { return "test.other" }

func TestDispatchRoutesToTypedHandler(t *testing.T) {
	bus := NewInMemoryBus()
	RegisterHandler[pingCommand, string](bus, pingCommand{}.Key(), HandlerFunc[pingCommand, string](func(ctx context.Context, cmd pingCommand) (string, error) {
		return "pong:" + cmd.Value, nil
	}))

	res, err := Dispatch[pingCommand, string](context.Background(), bus, pingCommand{Value: "a"})
	require.NoError(t, err)
	assert.Equal(t, "pong:a", res)
	assert.Equal(t, []string{"test.ping"}, bus.Keys())
}

func TestDispatchErrors(t *testing.T) {
	bus := NewInMemoryBus()
	_, err := Dispatch[otherCommand, string](context.Background(), bus, otherCommand{})
	assert.ErrorIs(t, err, ErrHandlerNotFound)

	_, err = Dispatch[pingCommand, string](context.Background(), nil, pingCommand{})
	assert.ErrorIs(t, err, ErrNilBus)

	RegisterHandler[pingCommand, int](bus, pingCommand{}.Key(), HandlerFunc[pingCommand, int](func(context.Context, pingCommand) (int, error) {
		return 1, nil
	}))
	_, err = Dispatch[pingCommand, string](context.Background(), bus, pingCommand{})
	assert.ErrorIs(t, err, ErrResultType)

	bus.RegisterRaw(otherCommand{}.Key(), func(context.Context, Command) (any, error) {
		return nil, errors.New("boom")
	})
	_, err = bus.Dispatch(context.Background(), otherCommand{})
	assert.EqualError(t, err, "boom")
}

func TestRegisterRejectsEmptyKey(t *testing.T) {
	assert.Panics(t, func() {
		NewInMemoryBus().RegisterRaw("", nil)
	})
}
