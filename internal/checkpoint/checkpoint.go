// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package checkpoint

import (
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/fxamacker/cbor/v2"
)

const (
	// StateDictKey is the checkpoint entry holding the parameters.
	StateDictKey = "state_dict"

	// EncoderPrefix prefixes the parameter names of the encoder sub-model.
	EncoderPrefix = "encoder."
)

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error

	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("checkpoint: CBOR encoder initialization failed: " + err.Error())
	}

	// values decoded into any must be usable as map[string]any
	decMode, err = cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic("checkpoint: CBOR decoder initialization failed: " + err.Error())
	}
}

// SubState returns the entries of state whose key starts with prefix, with
// the prefix stripped. state is not modified; an empty prefix copies state.
func SubState(state map[string]any, prefix string) map[string]any {
	out := make(map[string]any)
	for k, v := range state {
		if rest, ok := strings.CutPrefix(k, prefix); ok {
			out[rest] = v
		}
	}
	return out
}

// EncoderState returns the encoder parameters of state.
func EncoderState(state map[string]any) map[string]any {
	return SubState(state, EncoderPrefix)
}

// Load reads the checkpoint file at path and returns its state_dict.
func Load(path string) (map[string]any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open checkpoint: %w", err)
	}
	defer f.Close()

	state, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return state, nil
}

// LoadEncoder reads the checkpoint file at path and returns the encoder
// parameters of its state_dict.
func LoadEncoder(path string) (map[string]any, error) {
	state, err := Load(path)
	if err != nil {
		return nil, err
	}
	return EncoderState(state), nil
}

// Decode reads a whole checkpoint from r and returns its state_dict.
func Decode(r io.Reader) (map[string]any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read checkpoint: %w", err)
	}

	data, err = decompress(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedCheckpoint, err)
	}

	var doc map[string]any
	if err := decMode.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedCheckpoint, err)
	}

	raw, ok := doc[StateDictKey]
	if !ok || raw == nil {
		return nil, ErrNoStateDict
	}
	state, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s is %T, not a map", ErrMalformedCheckpoint, StateDictKey, raw)
	}
	return state, nil
}

// Encode writes state as a checkpoint to w.
func Encode(w io.Writer, state map[string]any, c Compression) error {
	if state == nil {
		state = map[string]any{}
	}

	data, err := encMode.Marshal(map[string]any{StateDictKey: state})
	if err != nil {
		return fmt.Errorf("encode checkpoint: %w", err)
	}

	data, err = compress(data, c)
	if err != nil {
		return err
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write checkpoint: %w", err)
	}
	return nil
}
