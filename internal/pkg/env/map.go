package env

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/keboola/go-utils/pkg/orderedmap"

	"github.com/keboola/pipeline-trigger/internal/pkg/utils/errors"
)

// Provider is read-only interface to get ENV value.
type Provider interface {
	Lookup(key string) (string, bool)
	Get(key string) string
	Keys() []string
}

// Map - abstraction for ENV variables.
// Lookup is case-insensitive, the original key and the discovery order are kept.
type Map struct {
	lock *sync.RWMutex
	data *orderedmap.OrderedMap
}

type item struct {
	key   string
	value string
}

func Empty() *Map {
	return &Map{
		lock: &sync.RWMutex{},
		data: orderedmap.New(),
	}
}

// FromPairs creates the map from "KEY=VALUE" pairs, in the order.
func FromPairs(pairs []string) *Map {
	m := Empty()
	for _, pair := range pairs {
		if key, value, found := strings.Cut(pair, "="); found && key != "" {
			m.Set(key, value)
		}
	}
	return m
}

func FromOs() *Map {
	return FromPairs(os.Environ())
}

func (m *Map) Clone() *Map {
	out := Empty()
	out.Merge(m, true)
	return out
}

func (m *Map) ToString() (string, error) {
	return godotenv.Marshal(m.ToMap())
}

func (m *Map) ToSlice() []string {
	m.lock.RLock()
	defer m.lock.RUnlock()
	out := make([]string, 0, len(m.data.Keys()))
	for _, k := range m.data.Keys() {
		i := m.item(k)
		out = append(out, fmt.Sprintf(`%s=%s`, i.key, i.value))
	}
	return out
}

func (m *Map) ToMap() map[string]string {
	m.lock.RLock()
	defer m.lock.RUnlock()
	out := make(map[string]string)
	for _, k := range m.data.Keys() {
		i := m.item(k)
		out[i.key] = i.value
	}
	return out
}

// Keys returns original keys in the discovery order.
func (m *Map) Keys() []string {
	m.lock.RLock()
	defer m.lock.RUnlock()
	out := make([]string, 0, len(m.data.Keys()))
	for _, k := range m.data.Keys() {
		out = append(out, m.item(k).key)
	}
	return out
}

func (m *Map) Lookup(key string) (string, bool) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	if _, found := m.data.Get(strings.ToUpper(key)); !found {
		return "", false
	}
	return m.item(strings.ToUpper(key)).value, true
}

func (m *Map) Get(key string) string {
	value, _ := m.Lookup(key)
	return value
}

func (m *Map) GetOrErr(key string) (string, error) {
	value := m.Get(key)
	if len(value) == 0 {
		return "", errors.Errorf("missing ENV variable \"%s\"", strings.ToUpper(key))
	}
	return value, nil
}

// Set value, an existing key keeps its position.
func (m *Map) Set(key, value string) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.data.Set(strings.ToUpper(key), item{key: key, value: value})
}

func (m *Map) Unset(key string) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.data.Delete(strings.ToUpper(key))
}

// Merge keys from an env.Map, new keys are appended in their order.
func (m *Map) Merge(data *Map, overwrite bool) {
	for _, k := range data.Keys() {
		if _, found := m.Lookup(k); found && !overwrite {
			continue
		}
		m.Set(k, data.Get(k))
	}
}

func (m *Map) item(normalizedKey string) item {
	v, _ := m.data.Get(normalizedKey)
	return v.(item)
}
