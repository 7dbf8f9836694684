// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package settings

import "sync/atomic"

// MaxSettings is the maximum number of settings that the system supports.
const MaxSettings = 64

// slotIdx is an index into the Values containers.
type slotIdx int32

// Values is a container that stores the values of all registered settings.
// Values can be read concurrently with updates.
type Values struct {
	intVals     [MaxSettings]atomic.Int64
	genericVals [MaxSettings]atomic.Value
}

// NewValues returns a container holding the default value of every
// registered setting. Creating the first container freezes the registry.
func NewValues() *Values {
	Freeze()
	sv := &Values{}
	for _, s := range registry {
		s.setToDefault(sv)
	}
	return sv
}

func (sv *Values) setInt64(slot slotIdx, newVal int64) {
	sv.intVals[slot].Store(newVal)
}

func (sv *Values) getInt64(slot slotIdx) int64 {
	return sv.intVals[slot].Load()
}

func (sv *Values) setGeneric(slot slotIdx, newVal interface{}) {
	sv.genericVals[slot].Store(newVal)
}

func (sv *Values) getGeneric(slot slotIdx) interface{} {
	return sv.genericVals[slot].Load()
}
