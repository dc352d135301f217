// ABOUTME: Rep settings read and written through a KV backend
// ABOUTME: Supplies the rep identity used in script variable substitution

package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/harperreed/callcoach/callflow"
)

const (
	KeyRepName      = "rep.name"
	KeyRepFirstName = "rep.first_name"
	KeyRepCompany   = "rep.company"
	KeyModel        = "llm.model"
	KeyProduct      = "default.product"
	KeyApproach     = "default.approach"
)

var knownKeys = []string{KeyRepName, KeyRepFirstName, KeyRepCompany, KeyModel, KeyProduct, KeyApproach}

// KnownKeys lists the settings the application reads.
func KnownKeys() []string {
	out := make([]string, len(knownKeys))
	copy(out, knownKeys)
	return out
}

// Store is a typed view over a KV backend.
type Store struct {
	kv KV
}

func NewStore(kv KV) *Store {
	return &Store{kv: kv}
}

func (s *Store) Close() error {
	return s.kv.Close()
}

func (s *Store) Sync() error {
	return s.kv.Sync()
}

// Get returns the value for key, or ErrNotFound.
func (s *Store) Get(key string) (string, error) {
	raw, err := s.kv.Get([]byte(key))
	if err != nil {
		return "", err
	}
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", fmt.Errorf("failed to decode setting %s: %w", key, err)
	}
	return v, nil
}

// GetOr returns the value for key, or fallback when it is unset or blank.
func (s *Store) GetOr(key, fallback string) string {
	v, err := s.Get(key)
	if err != nil || strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

// Set stores value under key. An empty value deletes the key.
func (s *Store) Set(key, value string) error {
	if strings.TrimSpace(value) == "" {
		err := s.kv.Delete([]byte(key))
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.kv.Set([]byte(key), raw)
}

// All returns every stored setting.
func (s *Store) All() (map[string]string, error) {
	keys, err := s.kv.Keys()
	if err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	out := make(map[string]string, len(keys))
	for _, k := range keys {
		v, err := s.Get(string(k))
		if err != nil {
			continue
		}
		out[string(k)] = v
	}
	return out, nil
}

// SortedKeys returns the keys of m in order.
func SortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// LoadRep returns the rep identity. Missing values fall back to the
// defaults used for substitution; a missing first name is taken from the
// stored full name.
func (s *Store) LoadRep() callflow.RepContext {
	name := s.GetOr(KeyRepName, "")
	first := s.GetOr(KeyRepFirstName, "")
	if first == "" && name != "" {
		first = strings.Fields(name)[0]
	}
	if name == "" {
		name = callflow.DefaultRepName
	}
	if first == "" {
		first = callflow.DefaultRepFirstName
	}
	return callflow.RepContext{
		Name:      name,
		FirstName: first,
		Company:   s.GetOr(KeyRepCompany, callflow.DefaultRepCompany),
	}
}

// SaveRep stores the rep identity.
func (s *Store) SaveRep(rep callflow.RepContext) error {
	for key, v := range map[string]string{
		KeyRepName:      rep.Name,
		KeyRepFirstName: rep.FirstName,
		KeyRepCompany:   rep.Company,
	} {
		if err := s.Set(key, v); err != nil {
			return fmt.Errorf("failed to save %s: %w", key, err)
		}
	}
	return nil
}
