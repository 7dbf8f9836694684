// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package settings

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Set parses encoded and stores it as the value of the named setting.
func (sv *Values) Set(key, encoded string) error {
	s, ok := registry[key]
	if !ok {
		return errors.Errorf("unknown setting: %s", key)
	}
	return s.decodeAndSet(sv, encoded)
}

// LoadFile overrides the settings in sv with the values found in a YAML
// (.yaml, .yml) or TOML (.toml) file. Keys may be written either dotted
// ("sql.exec.join.algorithm: hash") or as nested maps. Unknown keys are an
// error.
func LoadFile(fs afero.Fs, path string, sv *Values) error {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return errors.Wrapf(err, "reading settings file")
	}
	raw := map[string]interface{}{}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &raw)
	case ".toml":
		err = toml.Unmarshal(data, &raw)
	default:
		return errors.Newf("unsupported settings file extension %q", ext)
	}
	if err != nil {
		return errors.Wrapf(err, "parsing settings file %s", path)
	}
	flat := map[string]string{}
	flatten("", raw, flat)
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := sv.Set(k, flat[k]); err != nil {
			return errors.Wrapf(err, "%s", path)
		}
	}
	return nil
}

func flatten(prefix string, m map[string]interface{}, out map[string]string) {
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if nested, ok := v.(map[string]interface{}); ok {
			flatten(key, nested, out)
			continue
		}
		out[key] = fmt.Sprint(v)
	}
}
