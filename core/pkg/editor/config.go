package editor

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/go-viper/mapstructure/v2"
	"github.com/madcok-co/editorkit/core/pkg/contracts"
)

// ErrInvalidConfig wraps every DecodeConfig decoding failure
var ErrInvalidConfig = errors.New("invalid editor config")

// DecodeConfig decodes cfg into out (a pointer to a struct with mapstructure
// tags). Fields already set on out act as defaults. Input is weakly typed, so
// "true", "12" and "a,b" decode into bool, int and []string fields.
//
// It returns the sorted list of keys that no field consumed.
func DecodeConfig(cfg contracts.EditorConfig, out any) ([]string, error) {
	var md mapstructure.Metadata

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Metadata:         &md,
		Result:           out,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToSliceHookFunc(","),
			mapstructure.StringToTimeDurationHookFunc(),
		),
	})
	if err != nil {
		return nil, fmt.Errorf("editor config decoder: %w", err)
	}

	input := map[string]any(cfg)
	if input == nil {
		input = map[string]any{}
	}
	if err := dec.Decode(input); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	unused := slices.Clone(md.Unused)
	slices.Sort(unused)
	return unused, nil
}

// ConfigKey returns a stable fingerprint of cfg, suitable for cache keys.
// Equal configs (by JSON encoding) always map to the same key.
func ConfigKey(cfg contracts.EditorConfig) string {
	if len(cfg) == 0 {
		return "0"
	}
	data, err := json.Marshal(cfg)
	if err != nil {
		data = []byte(fmt.Sprintf("%#v", map[string]any(cfg)))
	}
	return strconv.FormatUint(xxhash.Sum64(data), 16)
}
