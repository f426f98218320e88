package config

import (
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/mitchellh/mapstructure"

	"github.com/delegat/stackdeploy/internal/errors"
)

// readTOML parses the given file into a generic map.
func readTOML(path string) (map[string]any, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(ReadFileError{File: path, Err: err})
	}

	raw := map[string]any{}
	if _, err := toml.Decode(string(content), &raw); err != nil {
		return nil, errors.New(ReadFileError{File: path, Err: err})
	}

	return raw, nil
}

// decodeStrict maps raw into result and reports every key the schema does not declare.
func decodeStrict(file string, raw map[string]any, result any) error {
	var md mapstructure.Metadata

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:     result,
		Metadata:   &md,
		DecodeHook: mapstructure.StringToSliceHookFunc(","),
	})
	if err != nil {
		return errors.New(err)
	}

	if err := decoder.Decode(raw); err != nil {
		return errors.New(InvalidValueError{File: file, Key: "(root)", Reason: err.Error()})
	}

	if len(md.Unused) > 0 {
		keys := append([]string(nil), md.Unused...)
		sort.Strings(keys)

		return errors.New(UnknownKeysError{File: file, Keys: keys})
	}

	return nil
}

// stringValue returns the string held by raw[key] and whether it was present with the right type.
func stringValue(raw map[string]any, key string) (string, bool) {
	val, ok := raw[key].(string)
	if !ok {
		return "", false
	}

	return strings.TrimSpace(val), true
}
