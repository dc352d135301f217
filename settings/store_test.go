// ABOUTME: Tests for rep settings storage
// ABOUTME: Uses a badger store in a temp directory, no charm server

package settings

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/callcoach/callflow"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	kv, err := OpenLocal(filepath.Join(t.TempDir(), "settings"))
	require.NoError(t, err)
	s := NewStore(kv)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStoreGetSet(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Get(KeyModel)
	assert.True(t, errors.Is(err, ErrNotFound))

	require.NoError(t, s.Set(KeyModel, "gemini-2.5-flash"))
	v, err := s.Get(KeyModel)
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-flash", v)

	require.NoError(t, s.Set(KeyModel, ""))
	assert.Equal(t, "fallback", s.GetOr(KeyModel, "fallback"))

	require.NoError(t, s.Set(KeyProduct, callflow.ProductDexit))
	all, err := s.All()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{KeyProduct: callflow.ProductDexit}, all)
}

func TestLoadRepDefaults(t *testing.T) {
	s := newTestStore(t)

	rep := s.LoadRep()
	assert.Equal(t, callflow.DefaultRepName, rep.Name)
	assert.Equal(t, callflow.DefaultRepFirstName, rep.FirstName)
	assert.Equal(t, callflow.DefaultRepCompany, rep.Company)
}

func TestSaveRepDerivesFirstName(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.SaveRep(callflow.RepContext{Name: "Jordan Lee", Company: "Acme Health"}))

	rep := s.LoadRep()
	assert.Equal(t, "Jordan Lee", rep.Name)
	assert.Equal(t, "Jordan", rep.FirstName)
	assert.Equal(t, "Acme Health", rep.Company)
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)

	cfg, err := loadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, BackendLocal, cfg.Backend)

	cfg.Backend = BackendCharm
	cfg.Host = "charm.example.com"
	require.NoError(t, cfg.saveFile(path))

	loaded, err := loadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, BackendCharm, loaded.Backend)
	assert.Equal(t, "charm.example.com", loaded.Host)
	assert.NotEmpty(t, loaded.Path)

	loaded.Backend = "redis"
	assert.Error(t, loaded.Validate())
}
