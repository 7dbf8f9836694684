// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package settings

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// EnumSetting is a StringSetting that restricts the values to be one of the
// `enumValues`. The value is stored as the integer key of the name.
type EnumSetting struct {
	IntSetting
	enumValues map[int64]string
}

var _ Setting = &EnumSetting{}

// Typ returns the short (1 char) string denoting the type of setting.
func (e *EnumSetting) Typ() string {
	return "e"
}

// String returns the enum's string value.
func (e *EnumSetting) String(sv *Values) string {
	enumID := e.Get(sv)
	if str, ok := e.enumValues[enumID]; ok {
		return str
	}
	return fmt.Sprintf("unknown(%d)", enumID)
}

// EncodedDefault returns the name of the default value.
func (e *EnumSetting) EncodedDefault() string {
	return e.enumValues[e.defaultValue]
}

// ParseEnum returns the enum value, and a boolean that indicates if it was
// parseable. Both names (case-insensitive) and integer keys are accepted.
func (e *EnumSetting) ParseEnum(raw string) (int64, bool) {
	rawLower := strings.ToLower(raw)
	for k, v := range e.enumValues {
		if v == rawLower {
			return k, true
		}
	}
	// Attempt to parse the string as an integer since it isn't a valid enum
	// string.
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	_, ok := e.enumValues[v]
	return v, ok
}

// Override changes the setting, ignoring values that are not part of the
// enum.
func (e *EnumSetting) Override(sv *Values, v int64) {
	if _, ok := e.enumValues[v]; ok {
		e.IntSetting.Override(sv, v)
	}
}

func (e *EnumSetting) decodeAndSet(sv *Values, encoded string) error {
	v, ok := e.ParseEnum(encoded)
	if !ok {
		return errors.Errorf("setting %s: invalid value %q, expected one of: %s",
			e.key, encoded, e.GetAvailableValuesAsHint())
	}
	e.IntSetting.Override(sv, v)
	return nil
}

// GetAvailableValuesAsHint returns the possible enum settings as a string
// that can be provided as an error hint to a user.
func (e *EnumSetting) GetAvailableValuesAsHint() string {
	// First stabilize output by sorting by key.
	valIdxs := make([]int, 0, len(e.enumValues))
	for i := range e.enumValues {
		valIdxs = append(valIdxs, int(i))
	}
	sort.Ints(valIdxs)

	// Now use those indices
	vals := make([]string, 0, len(e.enumValues))
	for _, enumIdx := range valIdxs {
		vals = append(vals, fmt.Sprintf("'%s'", e.enumValues[int64(enumIdx)]))
	}
	return strings.Join(vals, ", ")
}

// RegisterEnumSetting defines a new setting with type int whose values are
// restricted to the names of enumValues.
func RegisterEnumSetting(
	key, desc string, defaultValue string, enumValues map[int64]string,
) *EnumSetting {
	enumValuesLower := make(map[int64]string, len(enumValues))
	var i int64
	var found bool
	for k, v := range enumValues {
		enumValuesLower[k] = strings.ToLower(v)
		if v == defaultValue {
			i = k
			found = true
		}
	}
	if !found {
		panic(fmt.Sprintf("enum registered with default value %s not in map %v", defaultValue, enumValues))
	}
	setting := &EnumSetting{
		IntSetting: IntSetting{defaultValue: i},
		enumValues: enumValuesLower,
	}
	register(key, desc, setting)
	return setting
}
