// Copyright 2025 ZapStore Authors
// SPDX-License-Identifier: Apache-2.0

package objstore

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Registry Tests
// ============================================================================

func TestRegister_CustomType(t *testing.T) {
	t.Parallel()

	customType := StoreType("test-custom")

	Register(customType, func(cfg Config) (Store, error) {
		return NewMemory(), nil
	})

	store, err := Open(Config{Type: customType})
	require.NoError(t, err)
	require.NotNil(t, store)
	defer store.Close()

	assert.Equal(t, StoreTypeMemory, store.Type())
}

func TestOpen_UnknownType(t *testing.T) {
	t.Parallel()

	_, err := Open(Config{Type: "unknown-type"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown store type")
}

func TestOpen_MemoryType(t *testing.T) {
	t.Parallel()

	store, err := Open(Config{Type: StoreTypeMemory})
	require.NoError(t, err)
	require.NotNil(t, store)
	defer store.Close()

	assert.Equal(t, StoreTypeMemory, store.Type())
}

// ============================================================================
// Manager Tests
// ============================================================================

func TestNewManager(t *testing.T) {
	t.Parallel()

	mgr := NewManager()
	require.NotNil(t, mgr)

	ids := mgr.List()
	assert.Empty(t, ids)
}

func TestManager_Add_Memory(t *testing.T) {
	t.Parallel()

	mgr := NewManager()
	defer mgr.Close()

	err := mgr.AddMemory("test-mem")
	require.NoError(t, err)

	store, ok := mgr.Get("test-mem")
	assert.True(t, ok)
	require.NotNil(t, store)
	assert.Equal(t, StoreTypeMemory, store.Type())
}

func TestManager_Add_UnknownType(t *testing.T) {
	t.Parallel()

	mgr := NewManager()
	defer mgr.Close()

	err := mgr.Add("test", Config{Type: "invalid"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown store type")
}

func TestManager_Add_ReplacesExisting(t *testing.T) {
	t.Parallel()

	mgr := NewManager()
	defer mgr.Close()

	err := mgr.AddMemory("test")
	require.NoError(t, err)

	store1, ok := mgr.Get("test")
	require.True(t, ok)
	_, err = store1.Put(context.Background(), "key1", []byte("data1"))
	require.NoError(t, err)

	// Add replacement store with same ID
	err = mgr.AddMemory("test")
	require.NoError(t, err)

	// New store should be empty
	store2, ok := mgr.Get("test")
	require.True(t, ok)
	_, err = store2.Head(context.Background(), "key1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestManager_Get_NotFound(t *testing.T) {
	t.Parallel()

	mgr := NewManager()
	defer mgr.Close()

	store, ok := mgr.Get("nonexistent")
	assert.False(t, ok)
	assert.Nil(t, store)
}

func TestManager_Remove(t *testing.T) {
	t.Parallel()

	mgr := NewManager()
	defer mgr.Close()

	err := mgr.AddMemory("test")
	require.NoError(t, err)

	err = mgr.Remove("test")
	require.NoError(t, err)

	_, ok := mgr.Get("test")
	assert.False(t, ok)

	// Removing non-existent should not error
	err = mgr.Remove("nonexistent")
	assert.NoError(t, err)
}

func TestManager_List(t *testing.T) {
	t.Parallel()

	mgr := NewManager()
	defer mgr.Close()

	require.NoError(t, mgr.AddMemory("store-a"))
	require.NoError(t, mgr.AddMemory("store-b"))
	require.NoError(t, mgr.AddMemory("store-c"))

	ids := mgr.List()
	assert.Len(t, ids, 3)
	assert.Contains(t, ids, "store-a")
	assert.Contains(t, ids, "store-b")
	assert.Contains(t, ids, "store-c")
}

func TestManager_Close(t *testing.T) {
	t.Parallel()

	mgr := NewManager()

	require.NoError(t, mgr.AddMemory("store1"))
	require.NoError(t, mgr.AddMemory("store2"))

	err := mgr.Close()
	require.NoError(t, err)

	ids := mgr.List()
	assert.Empty(t, ids)
}

func TestManager_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	mgr := NewManager()
	defer mgr.Close()

	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			_ = mgr.AddMemory("store-" + string(rune('a'+id)))
		}(i)
	}

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			mgr.Get("store-a")
		}()
	}

	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			mgr.List()
		}()
	}

	wg.Wait()

	_ = mgr.AddMemory("final")
	store, ok := mgr.Get("final")
	require.True(t, ok)
	_, err := store.Put(context.Background(), "test", []byte("data"))
	assert.NoError(t, err)
}
