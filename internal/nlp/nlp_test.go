package nlp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticFinder struct {
	names []string
	err   error
}

func (f staticFinder) PersonNames(context.Context, string) ([]string, error) {
	return f.names, f.err
}

func TestFirstName(t *testing.T) {
	name, ok, err := FirstName(context.Background(), staticFinder{names: []string{"", "Jane Doe", "John"}}, "")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Jane Doe", name)

	_, ok, err = FirstName(context.Background(), staticFinder{}, "")
	require.NoError(t, err)
	assert.False(t, ok)

	boom := errors.New("boom")
	_, _, err = FirstName(context.Background(), staticFinder{err: boom}, "")
	require.ErrorIs(t, err, boom)
}

func TestProseSentences(t *testing.T) {
	p := NewProse()

	got := p.Sentences("We need a data scientist. A Bachelor's degree in statistics is required.")
	require.Len(t, got, 2)
	assert.Equal(t, "We need a data scientist.", got[0])
	assert.Contains(t, got[1], "Bachelor's degree")

	assert.Empty(t, p.Sentences("   "))
}

func TestProsePersonNamesEmptyText(t *testing.T) {
	names, err := NewProse().PersonNames(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, names)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewProse().PersonNames(ctx, "Jane Doe")
	require.ErrorIs(t, err, context.Canceled)
}
