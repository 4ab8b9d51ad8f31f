package sandbox_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glintlauncher/glint/internal/adapters/logging"
	"github.com/glintlauncher/glint/internal/domain/intent"
	"github.com/glintlauncher/glint/internal/domain/result"
	"github.com/glintlauncher/glint/internal/domain/sandbox"
)

func newInterpreter() *sandbox.Interpreter {
	return sandbox.NewInterpreter(logging.NewNopLogger())
}

func mod(source string) sandbox.Module {
	return sandbox.Module{PluginID: "demo", EntryPath: "index.js", Source: source}
}

func TestExecuteReturnsCandidates(t *testing.T) {
	t.Parallel()

	s := newInterpreter()
	defer func() { _ = s.Close() }()

	src := `function onSearch(query) {
		return [{
			id: "demo/greeting",
			title: "Hello " + query.text,
			subtitle: "a greeting",
			score: 0.7,
			actionIntent: {type: "clipboard-write", text: "hi"}
		}];
	}`

	candidates, err := s.Execute(context.Background(), mod(src), result.NewQuery("world"), time.Second)
	require.NoError(t, err)
	require.Len(t, candidates, 1)

	c := candidates[0]
	assert.Equal(t, "demo/greeting", c.ID)
	assert.Equal(t, "Hello world", c.Title)
	assert.Equal(t, result.KindPlugin, c.Kind)
	assert.Equal(t, "demo", c.SourceID)
	assert.InDelta(t, 0.7, c.RawScore, 1e-9)
	assert.Equal(t, intent.TypeClipboardWrite, c.Intent.Type())
}

func TestExecuteThrowIsException(t *testing.T) {
	t.Parallel()

	s := newInterpreter()
	defer func() { _ = s.Close() }()

	src := `function onSearch(query) { throw new Error("boom"); }`

	_, err := s.Execute(context.Background(), mod(src), result.NewQuery("x"), time.Second)
	se, ok := sandbox.AsError(err)
	require.True(t, ok)
	assert.Equal(t, sandbox.CodeException, se.Code)
	assert.Contains(t, se.Message, "boom")
}

func TestExecuteInfiniteLoopTimesOut(t *testing.T) {
	t.Parallel()

	s := newInterpreter()
	defer func() { _ = s.Close() }()

	src := `function onSearch(query) { while (true) {} }`

	start := time.Now()
	_, err := s.Execute(context.Background(), mod(src), result.NewQuery("x"), 50*time.Millisecond)
	elapsed := time.Since(start)

	assert.True(t, sandbox.IsTimeout(err))
	assert.Less(t, elapsed, 2*time.Second)
}

func TestExecuteMissingEntryIsException(t *testing.T) {
	t.Parallel()

	s := newInterpreter()
	defer func() { _ = s.Close() }()

	_, err := s.Execute(context.Background(), mod(`var x = 1;`), result.NewQuery("x"), time.Second)
	se, ok := sandbox.AsError(err)
	require.True(t, ok)
	assert.Equal(t, sandbox.CodeException, se.Code)
}

func TestExecuteNonSerializableResultIsBadResult(t *testing.T) {
	t.Parallel()

	s := newInterpreter()
	defer func() { _ = s.Close() }()

	src := `function onSearch(query) {
		return [{title: "bad", actionIntent: {type: "none"}, extra: function() {}}];
	}`

	_, err := s.Execute(context.Background(), mod(src), result.NewQuery("x"), time.Second)
	se, ok := sandbox.AsError(err)
	require.True(t, ok)
	assert.Equal(t, sandbox.CodeBadResult, se.Code)
}

func TestExecuteNonArrayResultIsBadResult(t *testing.T) {
	t.Parallel()

	s := newInterpreter()
	defer func() { _ = s.Close() }()

	src := `function onSearch(query) { return "not an array"; }`

	_, err := s.Execute(context.Background(), mod(src), result.NewQuery("x"), time.Second)
	se, ok := sandbox.AsError(err)
	require.True(t, ok)
	assert.Equal(t, sandbox.CodeBadResult, se.Code)
}

func TestExecuteIsAllOrNothing(t *testing.T) {
	t.Parallel()

	s := newInterpreter()
	defer func() { _ = s.Close() }()

	// One good candidate and one with a malformed intent: the whole
	// invocation is discarded.
	src := `function onSearch(query) {
		return [
			{title: "good", actionIntent: {type: "none"}},
			{title: "bad", actionIntent: {type: "launch"}}
		];
	}`

	candidates, err := s.Execute(context.Background(), mod(src), result.NewQuery("x"), time.Second)
	require.Error(t, err)
	assert.Nil(t, candidates)
}

func TestExecuteCandidateWithoutTitleIsBadResult(t *testing.T) {
	t.Parallel()

	s := newInterpreter()
	defer func() { _ = s.Close() }()

	src := `function onSearch(query) { return [{subtitle: "no title"}]; }`

	_, err := s.Execute(context.Background(), mod(src), result.NewQuery("x"), time.Second)
	se, ok := sandbox.AsError(err)
	require.True(t, ok)
	assert.Equal(t, sandbox.CodeBadResult, se.Code)
}

func TestExecuteNullResultIsEmpty(t *testing.T) {
	t.Parallel()

	s := newInterpreter()
	defer func() { _ = s.Close() }()

	src := `function onSearch(query) { return null; }`

	candidates, err := s.Execute(context.Background(), mod(src), result.NewQuery("x"), time.Second)
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestExecuteCancellationIsNotASandboxFailure(t *testing.T) {
	t.Parallel()

	s := newInterpreter()
	defer func() { _ = s.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	src := `function onSearch(query) { while (true) {} }`
	_, err := s.Execute(ctx, mod(src), result.NewQuery("x"), 5*time.Second)

	assert.ErrorIs(t, err, context.Canceled)
	_, isSandboxErr := sandbox.AsError(err)
	assert.False(t, isSandboxErr)
}

func TestExecuteClampsScores(t *testing.T) {
	t.Parallel()

	s := newInterpreter()
	defer func() { _ = s.Close() }()

	src := `function onSearch(query) {
		return [
			{title: "too high", score: 7},
			{title: "too low", score: -3}
		];
	}`

	candidates, err := s.Execute(context.Background(), mod(src), result.NewQuery("x"), time.Second)
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	assert.Equal(t, 1.0, candidates[0].RawScore)
	assert.Equal(t, 0.0, candidates[1].RawScore)
}

func TestExecuteAssignsDefaultIDs(t *testing.T) {
	t.Parallel()

	s := newInterpreter()
	defer func() { _ = s.Close() }()

	src := `function onSearch(query) { return [{title: "a"}, {title: "b"}]; }`

	candidates, err := s.Execute(context.Background(), mod(src), result.NewQuery("x"), time.Second)
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	assert.Equal(t, "demo/0", candidates[0].ID)
	assert.Equal(t, "demo/1", candidates[1].ID)
	assert.Equal(t, intent.TypeNone, candidates[0].Intent.Type())
}

func TestValidate(t *testing.T) {
	t.Parallel()

	s := newInterpreter()
	defer func() { _ = s.Close() }()

	assert.NoError(t, s.Validate(mod(`function onSearch(q) { return []; }`)))

	err := s.Validate(mod(`function onSearch(q) {`))
	se, ok := sandbox.AsError(err)
	require.True(t, ok)
	assert.Equal(t, sandbox.CodeException, se.Code)
}

func TestClosedInterpreterRejectsExecution(t *testing.T) {
	t.Parallel()

	s := newInterpreter()
	require.NoError(t, s.Close())

	_, err := s.Execute(context.Background(), mod(`function onSearch(q) { return []; }`), result.NewQuery("x"), time.Second)
	assert.ErrorIs(t, err, sandbox.ErrClosed)
}
