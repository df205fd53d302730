// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package params

import (
	"slices"
	"strings"
)

const (
	// PositionalKey is the key that holds positional arguments.
	PositionalKey = "_"
	// ListSeparator joins the values of a repeated key when it is read as a single string.
	ListSeparator = ","

	trueValue  = "true"
	falseValue = "false"
)

// Params is an ordered mapping of parameter names to one or more string values.
// Keys keep the order in which they were first set.
// The zero value is ready to use, and a nil *Params reads as empty.
type Params struct {
	keys   []string
	values map[string][]string
}

// New returns an empty Params.
func New() *Params {
	return &Params{}
}

// FromMap builds Params from a map. Keys are added in lexical order.
func FromMap(m map[string]string) *Params {
	p := New()

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	for _, k := range keys {
		p.Set(k, m[k])
	}

	return p
}

// Set replaces every value of key with value.
func (p *Params) Set(key, value string) {
	if p.values == nil {
		p.values = make(map[string][]string)
	}

	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}

	p.values[key] = []string{value}
}

// Add appends value to key.
func (p *Params) Add(key, value string) {
	if p.values == nil {
		p.values = make(map[string][]string)
	}

	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}

	p.values[key] = append(p.values[key], value)
}

// Delete removes key.
func (p *Params) Delete(key string) {
	if p == nil || p.values == nil {
		return
	}

	if _, ok := p.values[key]; !ok {
		return
	}

	delete(p.values, key)
	p.keys = slices.DeleteFunc(p.keys, func(k string) bool { return k == key })
}

// Has reports whether key was set.
func (p *Params) Has(key string) bool {
	if p == nil {
		return false
	}

	_, ok := p.values[key]

	return ok
}

// Get returns the value of key. Repeated values are joined with ListSeparator.
func (p *Params) Get(key string) (string, bool) {
	if p == nil {
		return "", false
	}

	v, ok := p.values[key]
	if !ok {
		return "", false
	}

	return strings.Join(v, ListSeparator), true
}

// Values returns a copy of every value of key, in the order they were added.
func (p *Params) Values(key string) []string {
	if p == nil {
		return nil
	}

	return slices.Clone(p.values[key])
}

// Bool interprets key as a flag. A key that is absent, "false", "0" or empty is false.
// When the key was repeated, the last value wins.
func (p *Params) Bool(key string) bool {
	v := p.Values(key)
	if len(v) == 0 {
		return false
	}

	switch v[len(v)-1] {
	case "", falseValue, "0":
		return false
	default:
		return true
	}
}

// Keys returns the keys in insertion order.
func (p *Params) Keys() []string {
	if p == nil {
		return nil
	}

	return slices.Clone(p.keys)
}

// Len returns the number of keys.
func (p *Params) Len() int {
	if p == nil {
		return 0
	}

	return len(p.keys)
}

// Clone returns a deep copy of p.
func (p *Params) Clone() *Params {
	c := New()
	if p == nil {
		return c
	}

	for _, k := range p.keys {
		for _, v := range p.values[k] {
			c.Add(k, v)
		}
	}

	return c
}

// Without returns a copy of p with the given keys removed.
func (p *Params) Without(keys ...string) *Params {
	c := p.Clone()
	for _, k := range keys {
		c.Delete(k)
	}

	return c
}
