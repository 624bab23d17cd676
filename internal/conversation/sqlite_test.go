package conversation

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ameympatil/AI-Chatbot/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func turn(role domain.Role, content string) domain.Turn {
	return domain.Turn{Role: role, Content: content}
}

func TestRecentSeedsEmptySession(t *testing.T) {
	s := newTestStore(t)

	turns, err := s.Recent(context.Background(), "fresh", 2)
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, domain.RoleUser, turns[0].Role)
	assert.Equal(t, "Hi", turns[0].Content)
	assert.Equal(t, domain.RoleAssistant, turns[1].Role)

	// The seed is synthetic and must not be persisted.
	history, err := s.History(context.Background(), "fresh")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestAppendAndRecentRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	t1 := turn(domain.RoleUser, "What is a mutual fund?")
	t2 := turn(domain.RoleAssistant, "A pooled investment vehicle.")
	t3 := turn(domain.RoleUser, "Why invest in them?")
	t4 := turn(domain.RoleAssistant, "Diversification and professional management.")

	require.NoError(t, s.Append(ctx, "s1", []domain.Turn{t1, t2}))
	require.NoError(t, s.Append(ctx, "s1", []domain.Turn{t3, t4}))

	got, err := s.Recent(ctx, "s1", 4)
	require.NoError(t, err)
	assert.Equal(t, []domain.Turn{t1, t2, t3, t4}, got)

	// Default window returns the last pair in chronological order.
	got, err = s.Recent(ctx, "s1", 2)
	require.NoError(t, err)
	assert.Equal(t, []domain.Turn{t3, t4}, got)
}

func TestRecentShorterHistory(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	t1 := turn(domain.RoleUser, "hello")
	require.NoError(t, s.Append(ctx, "s1", []domain.Turn{t1}))

	got, err := s.Recent(ctx, "s1", 4)
	require.NoError(t, err)
	assert.Equal(t, []domain.Turn{t1}, got)
}

func TestSessionsAreIsolated(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, "a", []domain.Turn{turn(domain.RoleUser, "from a")}))
	require.NoError(t, s.Append(ctx, "b", []domain.Turn{turn(domain.RoleUser, "from b")}))

	got, err := s.History(ctx, "a")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "from a", got[0].Content)

	ids, err := s.ListSessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids)
}

func TestConcurrentAppendsKeepPairsIntact(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	const writers = 8
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			pair := []domain.Turn{
				turn(domain.RoleUser, fmt.Sprintf("q%d", i)),
				turn(domain.RoleAssistant, fmt.Sprintf("a%d", i)),
			}
			assert.NoError(t, s.Append(ctx, "shared", pair))
		}(i)
	}
	wg.Wait()

	history, err := s.History(ctx, "shared")
	require.NoError(t, err)
	require.Len(t, history, writers*2)
	for i := 0; i < len(history); i += 2 {
		assert.Equal(t, domain.RoleUser, history[i].Role)
		assert.Equal(t, domain.RoleAssistant, history[i+1].Role)
		// Each answer follows its own question.
		assert.Equal(t, history[i].Content[1:], history[i+1].Content[1:])
	}
}
