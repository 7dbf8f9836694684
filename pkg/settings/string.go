// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package settings

import "github.com/cockroachdb/errors"

// StringSetting is the interface of a setting variable that will be
// updated automatically when the corresponding value of type "string" is
// updated.
type StringSetting struct {
	common
	defaultValue string
	validateFn   func(string) error
}

var _ Setting = &StringSetting{}

// Get retrieves the string value in the setting.
func (s *StringSetting) Get(sv *Values) string {
	loaded := sv.getGeneric(s.slot)
	if loaded == nil {
		return ""
	}
	return loaded.(string)
}

func (s *StringSetting) String(sv *Values) string {
	return s.Get(sv)
}

// EncodedDefault returns the encoded value of the default value.
func (s *StringSetting) EncodedDefault() string {
	return s.defaultValue
}

// Typ returns the short (1 char) string denoting the type of setting.
func (*StringSetting) Typ() string {
	return "s"
}

// Validate that a value conforms with the validation function.
func (s *StringSetting) Validate(v string) error {
	if s.validateFn != nil {
		if err := s.validateFn(v); err != nil {
			return err
		}
	}
	return nil
}

// Override changes the setting without validation.
func (s *StringSetting) Override(sv *Values, v string) {
	sv.setGeneric(s.slot, v)
}

func (s *StringSetting) setToDefault(sv *Values) {
	if err := s.decodeAndSet(sv, s.defaultValue); err != nil {
		panic(err)
	}
}

func (s *StringSetting) decodeAndSet(sv *Values, encoded string) error {
	if err := s.Validate(encoded); err != nil {
		return errors.Wrapf(err, "setting %s", s.key)
	}
	s.Override(sv, encoded)
	return nil
}

// RegisterStringSetting defines a new setting with type string with an
// optional validation function.
func RegisterStringSetting(
	key, desc string, defaultValue string, validateFn func(string) error,
) *StringSetting {
	if validateFn != nil {
		if err := validateFn(defaultValue); err != nil {
			panic(errors.Wrap(err, "invalid default"))
		}
	}
	setting := &StringSetting{
		defaultValue: defaultValue,
		validateFn:   validateFn,
	}
	register(key, desc, setting)
	return setting
}

// NonEmptyString can be passed to RegisterStringSetting.
func NonEmptyString(s string) error {
	if s == "" {
		return errors.New("cannot be set to an empty string")
	}
	return nil
}
