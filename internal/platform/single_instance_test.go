package platform

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPortFromNameIsStableAndInRange(t *testing.T) {
	for _, name := range []string{"GreenX", "greenx", "", "GreenX Board"} {
		port := portFromName(name)
		assert.GreaterOrEqual(t, port, 20000, name)
		assert.LessOrEqual(t, port, 39999, name)
		assert.Equal(t, port, portFromName(name), name)
	}
	assert.NotEqual(t, portFromName("GreenX"), portFromName("greenx"))
}

func TestAcquireSingleInstanceRejectsSecondHolder(t *testing.T) {
	name := "greenx-test-" + t.Name()
	guard, err := AcquireSingleInstance(name)
	require.NoError(t, err)
	assert.NotEmpty(t, guard.Address())

	_, err = AcquireSingleInstance(name)
	require.ErrorIs(t, err, ErrAlreadyRunning)

	require.NoError(t, guard.Release())
	again, err := AcquireSingleInstance(name)
	require.NoError(t, err)
	require.NoError(t, again.Release())
}

func TestLaterLaunchActivatesHolder(t *testing.T) {
	name := "greenx-test-" + t.Name()
	guard, err := AcquireSingleInstance(name)
	require.NoError(t, err)
	defer guard.Release()

	activated := make(chan struct{}, 1)
	guard.OnActivate(func() {
		select {
		case activated <- struct{}{}:
		default:
		}
	})

	_, err = AcquireSingleInstance(name)
	require.ErrorIs(t, err, ErrAlreadyRunning)

	select {
	case <-activated:
	case <-time.After(2 * time.Second):
		t.Fatal("running instance was not activated")
	}
}

func TestNilGuardIsSafe(t *testing.T) {
	var guard *InstanceGuard
	assert.NoError(t, guard.Release())
	assert.Empty(t, guard.Address())
	guard.OnActivate(func() {})
}
