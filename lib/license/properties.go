// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package license

import (
	"cmp"
	"reflect"
	"slices"
)

// Key names a property of type T. Two keys with the same name but
// different types address different entries.
type Key[T any] struct {
	name string
}

// NewKey returns a key for a property of type T.
func NewKey[T any](name string) Key[T] {
	return Key[T]{name: name}
}

// Name returns the key's name.
func (k Key[T]) Name() string { return k.name }

func (k Key[T]) id() PropertyKey {
	return PropertyKey{Name: k.name, Type: reflect.TypeFor[T]()}
}

// PropertyKey identifies a stored property.
type PropertyKey struct {
	Name string
	Type reflect.Type
}

func (k PropertyKey) String() string {
	return k.Name + " (" + k.Type.String() + ")"
}

// Properties is a typed property bag. The zero value is empty and
// ready to use. It is not safe for concurrent use.
type Properties struct {
	values map[PropertyKey]any
}

// Get returns the value stored under key and whether it was present.
func Get[T any](p *Properties, key Key[T]) (T, bool) {
	value, ok := p.values[key.id()]
	if !ok {
		var zero T
		return zero, false
	}
	typed, _ := value.(T)
	return typed, true
}

// Set stores value under key, replacing any previous value.
func Set[T any](p *Properties, key Key[T], value T) {
	if p.values == nil {
		p.values = make(map[PropertyKey]any)
	}
	p.values[key.id()] = value
}

// Remove deletes key and returns the value it held, if any.
func Remove[T any](p *Properties, key Key[T]) (T, bool) {
	previous, ok := Get(p, key)
	if ok {
		delete(p.values, key.id())
	}
	return previous, ok
}

// Has reports whether key is present.
func Has[T any](p *Properties, key Key[T]) bool {
	_, ok := p.values[key.id()]
	return ok
}

// Memoize returns the value under key, calling build and storing its
// result on first use. A build error is returned and nothing is stored.
func Memoize[T any](p *Properties, key Key[T], build func() (T, error)) (T, error) {
	if value, ok := Get(p, key); ok {
		return value, nil
	}
	value, err := build()
	if err != nil {
		var zero T
		return zero, err
	}
	Set(p, key, value)
	return value, nil
}

// Keys returns the stored keys ordered by name, then type.
func (p *Properties) Keys() []PropertyKey {
	keys := make([]PropertyKey, 0, len(p.values))
	for key := range p.values {
		keys = append(keys, key)
	}
	slices.SortFunc(keys, func(a, b PropertyKey) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.Type.String(), b.Type.String()))
	})
	return keys
}

// Len returns the number of stored properties.
func (p *Properties) Len() int { return len(p.values) }
