package registry

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryRegisterAndGet(t *testing.T) {
	r := NewRegistry[string]()

	isNew, err := r.Register("a", "first")
	require.NoError(t, err)
	assert.True(t, isNew)

	value, exists := r.Get("a")
	require.True(t, exists)
	assert.Equal(t, "first", value)

	// Đăng ký lại cùng tên thì ghi đè
	isNew, err = r.Register("a", "second")
	require.NoError(t, err)
	assert.False(t, isNew)

	value, _ = r.Get("a")
	assert.Equal(t, "second", value)

	_, err = r.Register("", "x")
	assert.Error(t, err)
}

func TestRegistryGetOrCreate(t *testing.T) {
	r := NewRegistry[int]()
	calls := 0

	value, err := r.GetOrCreate("n", func() (int, error) {
		calls++
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, value)

	// Lần hai không gọi creator nữa
	value, err = r.GetOrCreate("n", func() (int, error) {
		calls++
		return 99, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, value)
	assert.Equal(t, 1, calls)

	_, err = r.GetOrCreate("bad", func() (int, error) {
		return 0, fmt.Errorf("creator failed")
	})
	assert.Error(t, err)
}

func TestRegistryClear(t *testing.T) {
	r := NewRegistry[string]()
	r.Register("a", "va")
	r.Register("b", "vb")

	cleaned := []string{}
	deleted, err := r.Clear("a", func(item string) error {
		cleaned = append(cleaned, item)
		return nil
	})
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Equal(t, []string{"va"}, cleaned)

	_, exists := r.Get("a")
	assert.False(t, exists)

	deleted, err = r.Clear("missing", nil)
	require.NoError(t, err)
	assert.False(t, deleted)

	count, err := r.ClearAll(nil)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
