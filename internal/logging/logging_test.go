package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitDefaultsToInfoLevel(t *testing.T) {
	Init(nil, false)

	assert.True(t, logger.Enabled(context.Background(), LevelInfo))
	assert.False(t, logger.Enabled(context.Background(), LevelDebug))
}

func TestShouldEmitAlwaysTrueOutsideShellMode(t *testing.T) {
	mu.Lock()
	shellMode = false
	mu.Unlock()

	assert.True(t, shouldEmit("install", "starting"))
	assert.True(t, shouldEmit("install", "starting"))
}

func TestShouldEmitDedupesWithinShellMode(t *testing.T) {
	mu.Lock()
	shellMode = true
	shellModeSeen = map[string]struct{}{}
	mu.Unlock()
	t.Cleanup(func() {
		mu.Lock()
		shellMode = false
		shellModeSeen = map[string]struct{}{}
		mu.Unlock()
	})

	assert.True(t, shouldEmit("shell", "env ready"))
	assert.False(t, shouldEmit("shell", "env ready"))
	assert.True(t, shouldEmit("shell", "a different message"))
}

func TestResetDedupClearsSeenSet(t *testing.T) {
	mu.Lock()
	shellMode = true
	shellModeSeen = map[string]struct{}{"install\x00done": {}}
	mu.Unlock()
	t.Cleanup(func() {
		mu.Lock()
		shellMode = false
		shellModeSeen = map[string]struct{}{}
		mu.Unlock()
	})

	ResetDedup()
	assert.True(t, shouldEmit("install", "done"))
}

func TestDedupKeySeparatesSubsystemFromMessage(t *testing.T) {
	assert.NotEqual(t, dedupKey("a", "bc"), dedupKey("ab", "c"))
}
