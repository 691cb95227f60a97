package queries

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoQuery struct{ Value string }

func (echoQuery) Key() string { return "test.echo" }

type otherQuery struct{}

func (otherQuery) Key() string { return "test.other" }

type echoHandler struct{}

func (echoHandler) Handle(_ context.Context, q echoQuery) (string, error) {
	return "echo:" + q.Value, nil
}

func TestAskRoutesToRegisteredHandler(t *testing.T) {
	bus := NewInMemoryBus()
	RegisterHandler[echoQuery, string](bus, echoQuery{}.Key(), echoHandler{})

	got, err := Ask[echoQuery, string](context.Background(), bus, echoQuery{Value: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "echo:hi", got)
}

func TestAskErrors(t *testing.T) {
	bus := NewInMemoryBus()
	RegisterHandler[echoQuery, string](bus, echoQuery{}.Key(), echoHandler{})

	_, err := Ask[otherQuery, string](context.Background(), bus, otherQuery{})
	assert.ErrorIs(t, err, ErrHandlerNotFound)

	_, err = Ask[echoQuery, int](context.Background(), bus, echoQuery{})
	assert.ErrorIs(t, err, ErrResultType)

	_, err = Ask[echoQuery, string](context.Background(), nil, echoQuery{})
	assert.ErrorIs(t, err, ErrNilBus)

	bus.RegisterRaw(otherQuery{}.Key(), func(ctx context.Context, q Query) (any, error) { return nil, nil })
	got, err := Ask[otherQuery, string](context.Background(), bus, otherQuery{})
	require.NoError(t, err)
	assert.Empty(t, got)
}
