package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"asistente-fincas/internal/breaker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeCompletionClient struct {
	calls  int
	answer string
	err    error
}

func (f *fakeCompletionClient) Complete(_ context.Context, _, user string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	if f.answer != "" {
		return f.answer, nil
	}
	return user, nil
}

func TestGenerate_PassesContextAndQuestion(t *testing.T) {
	client := &fakeCompletionClient{}
	g := NewAnswerGenerator(client, breaker.New(3, time.Minute), time.Second, zap.NewNop())

	answer, err := g.Generate(context.Background(), "¿Dónde está el portero?", "El portero está en el bajo A.")
	require.NoError(t, err)
	assert.True(t, strings.Contains(answer, "El portero está en el bajo A."))
	assert.True(t, strings.Contains(answer, "¿Dónde está el portero?"))
	assert.Equal(t, 1, client.calls)
}

func TestGenerate_WrapsClientError(t *testing.T) {
	client := &fakeCompletionClient{err: errors.New("upstream 500")}
	g := NewAnswerGenerator(client, breaker.New(3, time.Minute), time.Second, zap.NewNop())

	_, err := g.Generate(context.Background(), "pregunta", "contexto")
	assert.ErrorIs(t, err, ErrGeneration)
}

func TestGenerate_CircuitOpenSkipsClient(t *testing.T) {
	client := &fakeCompletionClient{err: errors.New("upstream down")}
	g := NewAnswerGenerator(client, breaker.New(3, time.Minute), time.Second, zap.NewNop())

	for i := 0; i < 3; i++ {
		_, err := g.Generate(context.Background(), "pregunta", "contexto")
		assert.ErrorIs(t, err, ErrGeneration)
	}
	require.Equal(t, 3, client.calls)

	_, err := g.Generate(context.Background(), "pregunta", "contexto")
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, 3, client.calls)
}

func TestGenerate_RecoversAfterTimeout(t *testing.T) {
	current := time.Unix(9000, 0)
	brk := breaker.New(3, time.Minute, breaker.WithClock(func() time.Time { return current }))
	client := &fakeCompletionClient{err: errors.New("upstream down")}
	g := NewAnswerGenerator(client, brk, time.Second, zap.NewNop())

	for i := 0; i < 3; i++ {
		_, _ = g.Generate(context.Background(), "pregunta", "contexto")
	}
	_, err := g.Generate(context.Background(), "pregunta", "contexto")
	require.ErrorIs(t, err, ErrCircuitOpen)

	current = current.Add(2 * time.Minute)
	client.err = nil
	client.answer = "todo en orden"

	answer, err := g.Generate(context.Background(), "pregunta", "contexto")
	require.NoError(t, err)
	assert.Equal(t, "todo en orden", answer)
}
