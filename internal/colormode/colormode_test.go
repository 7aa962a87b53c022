package colormode

import (
	"path/filepath"
	"sync"
	"testing"

	"specter/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_DefaultsToLight(t *testing.T) {
	s := Open(storage.Open(filepath.Join(t.TempDir(), "storage.json")))
	assert.Equal(t, Light, s.Mode())
}

func TestOpen_IgnoresInvalidStoredValue(t *testing.T) {
	st := storage.Open(filepath.Join(t.TempDir(), "storage.json"))
	require.NoError(t, st.Set(StorageKey, "purple"))

	assert.Equal(t, Light, Open(st).Mode())
}

func TestDarkPersistsAcrossReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")

	s := Open(storage.Open(path))
	require.NoError(t, s.Set(Dark))

	reloaded := Open(storage.Open(path))
	assert.Equal(t, Dark, reloaded.Mode())
}

func TestRapidTogglesPersistLastResult(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	s := Open(storage.Open(path))

	first, err := s.Toggle()
	require.NoError(t, err)
	assert.Equal(t, Dark, first)

	second, err := s.Toggle()
	require.NoError(t, err)
	assert.Equal(t, Light, second)

	assert.Equal(t, second, Open(storage.Open(path)).Mode())
}

func TestConcurrentTogglesStayConsistent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	s := Open(storage.Open(path))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Toggle()
		}()
	}
	wg.Wait()

	// An even number of flips lands back on the starting mode
	assert.Equal(t, Light, s.Mode())
	assert.Equal(t, s.Mode(), Open(storage.Open(path)).Mode())
}

func TestParse(t *testing.T) {
	m, err := Parse(" Dark ")
	require.NoError(t, err)
	assert.Equal(t, Dark, m)

	_, err = Parse("sepia")
	assert.Error(t, err)

	assert.Error(t, Open(storage.Open(filepath.Join(t.TempDir(), "s.json"))).Set("sepia"))
}
