package enum

import (
	"fmt"
	"reflect"
	"sync"
)

var (
	enumManager = map[reflect.Type]any{}
	mu          sync.RWMutex
)

type enum[T comparable] struct {
	toEnum   map[string]T
	toString map[T]string
}

// New registers value under name for the enum type T and returns value.
func New[T comparable](value T, name string) T {
	mu.Lock()
	defer mu.Unlock()

	t := reflect.TypeOf(value)
	if _, ok := enumManager[t]; !ok {
		enumManager[t] = enum[T]{toEnum: map[string]T{}, toString: map[T]string{}}
	}

	e := enumManager[t].(enum[T])
	e.toEnum[name] = value
	e.toString[value] = name
	return value
}

func ToEnum[T comparable](s string) (T, error) {
	mu.RLock()
	defer mu.RUnlock()

	var defaultT T
	e, ok := enumManager[reflect.TypeOf(defaultT)]
	if !ok {
		return defaultT, fmt.Errorf("not found enum type %T", defaultT)
	}

	t, ok := e.(enum[T]).toEnum[s]
	if !ok {
		return defaultT, fmt.Errorf("not found value %s in enum %T", s, defaultT)
	}

	return t, nil
}

// ToString returns the registered name of value, or an empty string.
func ToString[T comparable](value T) string {
	mu.RLock()
	defer mu.RUnlock()

	e, ok := enumManager[reflect.TypeOf(value)]
	if !ok {
		return ""
	}

	return e.(enum[T]).toString[value]
}
