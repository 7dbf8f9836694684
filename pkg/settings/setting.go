// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package settings

// Setting is the interface exposing the metadata for a setting.
type Setting interface {
	// Key returns the name of the setting.
	Key() string
	// Typ returns the short (1 char) string denoting the type of setting.
	Typ() string
	// String returns the string representation of the setting's current
	// value in sv.
	String(sv *Values) string
	// Description contains a helpful text explaining what the specific
	// setting is for.
	Description() string
	// EncodedDefault returns the encoded default value.
	EncodedDefault() string
}

type internalSetting interface {
	Setting

	init(key, desc string, slot slotIdx)
	setToDefault(sv *Values)
	// decodeAndSet parses an encoded value and stores it in sv.
	decodeAndSet(sv *Values, encoded string) error
}

// common implements the basic functionality shared by all settings.
type common struct {
	key         string
	description string
	slot        slotIdx
}

func (c *common) init(key, desc string, slot slotIdx) {
	c.key = key
	c.description = desc
	c.slot = slot
}

// Key implements the Setting interface.
func (c *common) Key() string { return c.key }

// Description implements the Setting interface.
func (c *common) Description() string { return c.description }
