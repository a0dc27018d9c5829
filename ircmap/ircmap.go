// Copyright (c) 2016-2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

// Package ircmap implements IRC's case-folding standards and the
// casemapped string, list and map containers built on them.
//
// IRC servers declare their folding rule through the ISUPPORT CASEMAPPING
// feature, which arrives only after registration. Containers created before
// that are tracked by their CaseMapper and re-folded exactly once when the
// standard becomes known.
package ircmap

import (
	"strings"

	"golang.org/x/text/secure/precis"
)

// Mapping is one of the IRC case-folding standards.
type Mapping int

const (
	// ASCII only folds A-Z to a-z.
	ASCII Mapping = iota
	// RFC1459 additionally folds []\~ to {}|^.
	RFC1459
	// RFC1459Strict folds []\ to {}| but leaves ~ and ^ alone.
	RFC1459Strict
	// RFC3454 applies Unicode nameprep-style folding.
	RFC3454
)

// ParseMapping resolves a CASEMAPPING feature value to a Mapping.
func ParseMapping(name string) (Mapping, bool) {
	switch strings.ToLower(name) {
	case "ascii":
		return ASCII, true
	case "rfc1459":
		return RFC1459, true
	case "rfc1459-strict":
		return RFC1459Strict, true
	case "rfc3454":
		return RFC3454, true
	}
	return ASCII, false
}

// Fold lowercases the given string per the mapping standard.
func Fold(mapping Mapping, in string) string {
	if mapping == RFC3454 {
		folded, err := precis.UsernameCaseMapped.CompareKey(in)
		if err == nil {
			return folded
		}
		// fall through to ascii on strings precis rejects
	}

	var out strings.Builder
	out.Grow(len(in))
	for i := 0; i < len(in); i++ {
		c := in[i]
		switch {
		case 'A' <= c && c <= 'Z':
			c += 'a' - 'A'
		case mapping == RFC1459 && '[' <= c && c <= '^':
			// []\^ are the upper forms of {}|~
			c += '{' - '['
		case mapping == RFC1459Strict && '[' <= c && c <= ']':
			// as rfc1459, but the ^/~ pair is not folded
			c += '{' - '['
		}
		out.WriteByte(c)
	}
	return out.String()
}

type refoldable interface {
	refold()
}

// CaseMapper holds the case-folding standard for one connection. The
// standard is set at most once; the first SetMapping wins and later calls
// are no-ops, matching the CASEMAPPING-arrives-once assumption.
type CaseMapper struct {
	mapping Mapping
	set     bool
	tracked []refoldable
}

// NewCaseMapper returns a mapper defaulting to ascii. The default is ascii
// rather than rfc1459 so a later switch cannot un-munge already-folded data.
func NewCaseMapper() *CaseMapper {
	return &CaseMapper{
		mapping: ASCII,
	}
}

// Mapping returns the current standard.
func (cm *CaseMapper) Mapping() Mapping {
	return cm.mapping
}

// IsSet reports whether the standard has been locked in.
func (cm *CaseMapper) IsSet() bool {
	return cm.set
}

// SetMapping locks in the folding standard and re-folds every container
// created before it was known. Only the first call has any effect.
func (cm *CaseMapper) SetMapping(name string) {
	if cm.set {
		return
	}
	mapping, ok := ParseMapping(name)
	if !ok {
		return
	}

	cm.set = true
	cm.mapping = mapping

	for _, obj := range cm.tracked {
		obj.refold()
	}
	cm.tracked = nil
}

// Fold lowercases the given string per the mapper's current standard.
func (cm *CaseMapper) Fold(in string) string {
	return Fold(cm.mapping, in)
}

func (cm *CaseMapper) track(obj refoldable) {
	if !cm.set {
		cm.tracked = append(cm.tracked, obj)
	}
}
