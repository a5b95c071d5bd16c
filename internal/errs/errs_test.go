package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorIncludesRemediationWhenPresent(t *testing.T) {
	e := Network("download nodejs.org", errors.New("connection refused"))
	assert.Contains(t, e.Error(), "download nodejs.org")
	assert.Contains(t, e.Error(), "connection refused")
	assert.Contains(t, e.Error(), "LAUNCHPAD_ALLOW_NETWORK")
}

func TestErrorOmitsRemediationWhenEmpty(t *testing.T) {
	e := Resolution("resolve nodejs.org@99", errors.New("no matching version"))
	assert.Equal(t, "resolve nodejs.org@99: no matching version", e.Error())
}

func TestUnwrapExposesUnderlyingError(t *testing.T) {
	underlying := errors.New("disk full")
	e := Filesystem("write cache entry", underlying)
	assert.ErrorIs(t, e, underlying)
}

func TestIsMatchesKindThroughWrapping(t *testing.T) {
	e := Timeout("install nodejs.org", errors.New("deadline exceeded"))
	wrapped := fmt.Errorf("installing package: %w", e)

	assert.True(t, Is(wrapped, KindTimeout))
	assert.False(t, Is(wrapped, KindNetwork))
}

func TestIsFalseForPlainError(t *testing.T) {
	assert.False(t, Is(errors.New("plain"), KindService))
}

func TestEachConstructorSetsExpectedKind(t *testing.T) {
	cases := []struct {
		kind Kind
		err  *Error
	}{
		{KindResolution, Resolution("op", errors.New("x"))},
		{KindNetwork, Network("op", errors.New("x"))},
		{KindIntegrity, Integrity("op", errors.New("x"))},
		{KindFilesystem, Filesystem("op", errors.New("x"))},
		{KindService, Service("op", errors.New("x"))},
		{KindTimeout, Timeout("op", errors.New("x"))},
	}
	for _, c := range cases {
		assert.Equal(t, c.kind, c.err.Kind)
	}
}
