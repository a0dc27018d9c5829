// Copyright (c) 2016-2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

package ircmap

import "strings"

// String is a casemapped string for nicks and channel names. It keeps the
// original casing for display and folds on comparison.
type String struct {
	cm    *CaseMapper
	value string
}

// NewString wraps a string with the mapper's folding rules.
func (cm *CaseMapper) NewString(value string) *String {
	s := &String{
		cm:    cm,
		value: value,
	}
	cm.track(s)
	return s
}

func (s *String) refold() {}

// String returns the original casing.
func (s *String) String() string {
	return s.value
}

// Set replaces the held value, keeping the mapper.
func (s *String) Set(value string) {
	s.value = value
}

// Folded returns the case-folded form, suitable for use as a map key.
func (s *String) Folded() string {
	return s.cm.Fold(s.value)
}

// Equal reports fold-aware equality with the given string.
func (s *String) Equal(other string) bool {
	return s.cm.Fold(s.value) == s.cm.Fold(other)
}

// Contains reports fold-aware substring containment.
func (s *String) Contains(sub string) bool {
	return strings.Contains(s.cm.Fold(s.value), s.cm.Fold(sub))
}

// Lower returns the folded form.
func (s *String) Lower() string {
	return s.cm.Fold(s.value)
}

// Upper returns the value upper-cased per ascii; fold pairs above 'z' have
// no meaningful upper form so they are left alone.
func (s *String) Upper() string {
	return strings.ToUpper(s.value)
}

// Split splits the original-cased value on the given separator.
func (s *String) Split(sep string) []string {
	return strings.Split(s.value, sep)
}

// List is an ordered list of casemapped strings; values are folded on
// insert so membership tests compare folded forms.
type List struct {
	cm    *CaseMapper
	store []string
}

// NewList returns an empty casemapped list.
func (cm *CaseMapper) NewList() *List {
	l := &List{
		cm: cm,
	}
	cm.track(l)
	return l
}

func (l *List) refold() {
	for i, value := range l.store {
		l.store[i] = l.cm.Fold(value)
	}
}

// Append adds a value to the end of the list.
func (l *List) Append(value string) {
	l.store = append(l.store, l.cm.Fold(value))
}

// Remove deletes the first occurrence of the value, fold-compared.
func (l *List) Remove(value string) {
	folded := l.cm.Fold(value)
	for i, existing := range l.store {
		if existing == folded {
			l.store = append(l.store[:i], l.store[i+1:]...)
			return
		}
	}
}

// Contains reports fold-aware membership.
func (l *List) Contains(value string) bool {
	folded := l.cm.Fold(value)
	for _, existing := range l.store {
		if existing == folded {
			return true
		}
	}
	return false
}

// Len returns the number of values held.
func (l *List) Len() int {
	return len(l.store)
}

// Values returns the folded values in insertion order.
func (l *List) Values() []string {
	values := make([]string, len(l.store))
	copy(values, l.store)
	return values
}

// Clear empties the list.
func (l *List) Clear() {
	l.store = nil
}

// Map is a mapping whose keys are compared fold-aware; values are opaque.
type Map struct {
	cm    *CaseMapper
	store map[string]interface{}
}

// NewMap returns an empty casemapped map.
func (cm *CaseMapper) NewMap() *Map {
	m := &Map{
		cm:    cm,
		store: make(map[string]interface{}),
	}
	cm.track(m)
	return m
}

func (m *Map) refold() {
	store := make(map[string]interface{}, len(m.store))
	for key, value := range m.store {
		store[m.cm.Fold(key)] = value
	}
	m.store = store
}

// Set stores a value under the folded key.
func (m *Map) Set(key string, value interface{}) {
	m.store[m.cm.Fold(key)] = value
}

// Get looks up a value by folded key.
func (m *Map) Get(key string) (interface{}, bool) {
	value, exists := m.store[m.cm.Fold(key)]
	return value, exists
}

// Has reports whether the folded key exists.
func (m *Map) Has(key string) bool {
	_, exists := m.store[m.cm.Fold(key)]
	return exists
}

// Delete removes the folded key.
func (m *Map) Delete(key string) {
	delete(m.store, m.cm.Fold(key))
}

// Len returns the number of entries held.
func (m *Map) Len() int {
	return len(m.store)
}

// Each calls fn for every folded key and value.
func (m *Map) Each(fn func(key string, value interface{})) {
	for key, value := range m.store {
		fn(key, value)
	}
}
