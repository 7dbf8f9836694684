// Copyright 2017 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package settings holds the typed, process-wide registry of execution
// settings and the containers of their current values.
//
// A setting is registered once, at init time, by the package that consumes
// it:
//
//	var lenient = settings.RegisterBoolSetting(
//		"sql.exec.lazy_decode.lenient", "...", true)
//
// and read through a *Values, which is usually carried by the flow context:
//
//	if lenient.Get(sv) { ... }
package settings

import (
	"fmt"
	"sort"
	"sync/atomic"
)

// registry contains all defined settings, their types and default values.
//
// Registry should never be mutated after init (except in tests), as it is read
// concurrently by different callers.
var registry = map[string]internalSetting{}

// frozen becomes non-zero once the registry is "live".
var frozen int32

// Freeze ensures that no new settings can be defined after the first
// Values container has been created.
func Freeze() { atomic.StoreInt32(&frozen, 1) }

func assertNotFrozen(key string) {
	if atomic.LoadInt32(&frozen) > 0 {
		panic(fmt.Sprintf("registration must occur before execution starts: %s", key))
	}
}

// register adds a setting to the registry.
func register(key, desc string, s internalSetting) {
	assertNotFrozen(key)
	if _, ok := registry[key]; ok {
		panic(fmt.Sprintf("setting already defined: %s", key))
	}
	if len(registry) >= MaxSettings {
		panic(fmt.Sprintf("too many settings; increase MaxSettings: %s", key))
	}
	slot := slotIdx(len(registry))
	s.init(key, desc, slot)
	registry[key] = s
}

// Keys returns a sorted string array with all the known keys.
func Keys() (res []string) {
	res = make([]string, 0, len(registry))
	for k := range registry {
		res = append(res, k)
	}
	sort.Strings(res)
	return res
}

// Lookup returns a Setting by name along with its description.
func Lookup(name string) (Setting, string, bool) {
	v, ok := registry[name]
	if !ok {
		return nil, "", false
	}
	return v, v.Description(), true
}
