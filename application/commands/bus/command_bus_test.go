package bus

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type pingCommand struct{ fail bool }

func (c pingCommand) Validate() error {
	if c.fail {
		return errors.New("invalid ping")
	}
	return nil
}

type otherCommand struct{}

func (otherCommand) Validate() error { return nil }

func TestCommandBus_SendReturnsHandlerResult(t *testing.T) {
	bus := NewCommandBus(LoggingMiddleware(zap.NewNop()))
	require.NoError(t, bus.Register(pingCommand{}, CommandHandlerFunc(func(ctx context.Context, cmd Command) (interface{}, error) {
		return "pong", nil
	})))

	result, err := bus.Send(context.Background(), pingCommand{})

	require.NoError(t, err)
	assert.Equal(t, "pong", result)
}

func TestCommandBus_ValidationRunsFirst(t *testing.T) {
	called := false
	bus := NewCommandBus()
	require.NoError(t, bus.Register(pingCommand{}, CommandHandlerFunc(func(ctx context.Context, cmd Command) (interface{}, error) {
		called = true
		return nil, nil
	})))

	_, err := bus.Send(context.Background(), pingCommand{fail: true})

	assert.Error(t, err)
	assert.False(t, called)
}

func TestCommandBus_HandlerErrorIsUnwrapped(t *testing.T) {
	sentinel := errors.New("boom")
	bus := NewCommandBus(LoggingMiddleware(zap.NewNop()))
	require.NoError(t, bus.Register(pingCommand{}, CommandHandlerFunc(func(ctx context.Context, cmd Command) (interface{}, error) {
		return nil, sentinel
	})))

	_, err := bus.Send(context.Background(), pingCommand{})

	assert.Same(t, sentinel, err)
}

func TestCommandBus_UnknownCommand(t *testing.T) {
	bus := NewCommandBus()

	_, err := bus.Send(context.Background(), otherCommand{})

	assert.ErrorIs(t, err, ErrHandlerNotFound)
}

func TestCommandBus_DuplicateRegistration(t *testing.T) {
	bus := NewCommandBus()
	handler := CommandHandlerFunc(func(ctx context.Context, cmd Command) (interface{}, error) { return nil, nil })

	require.NoError(t, bus.Register(pingCommand{}, handler))
	assert.Error(t, bus.Register(pingCommand{}, handler))
}

func TestPipeline_OrderIsOutermostFirst(t *testing.T) {
	var order []string
	trace := func(name string) Middleware {
		return func(next CommandHandler) CommandHandler {
			return CommandHandlerFunc(func(ctx context.Context, cmd Command) (interface{}, error) {
				order = append(order, name)
				return next.Handle(ctx, cmd)
			})
		}
	}
	handler := NewPipeline(trace("a"), trace("b")).Execute(CommandHandlerFunc(func(ctx context.Context, cmd Command) (interface{}, error) {
		order = append(order, "handler")
		return nil, nil
	}))

	_, err := handler.Handle(context.Background(), pingCommand{})

	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "handler"}, order)
}
