package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_RejectsEmptyAddress(t *testing.T) {
	err := Init(Config{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "address cannot be empty")
	assert.False(t, IsInitialized())
	assert.Nil(t, Client())
}

func TestInit_ConnectFailureLeavesClientUnset(t *testing.T) {
	err := Init(Config{
		Address:     "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
	})

	require.Error(t, err)
	assert.False(t, IsInitialized())
	assert.Nil(t, Client())
}

func TestClose_ErrorWhenUninitialized(t *testing.T) {
	require.False(t, IsInitialized())

	err := Close()

	assert.Error(t, err)
}
