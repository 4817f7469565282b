// Package porcelain converts between the decoded block/transaction object
// graph and the plain value-tree representation that mirrors the
// reference Zcash node's RPC JSON (spec.md §4.6): hash-hex endianness
// flip, coins-vs-zats rendering, coinbase-vs-standard vin shape, and
// validating construction back from that tree.
package porcelain

import (
	"encoding/hex"
	"encoding/json"

	"github.com/pkg/errors"

	"zcash-block/primitives"
)

// COIN is the number of zats in one ZEC.
const COIN = 100_000_000

// V is the value-tree type this package converts to and from: a plain,
// JSON-marshalable map mirroring the shape of the reference RPC output.
type V = map[string]interface{}

func requireString(v V, key string) (string, error) {
	raw, ok := v[key]
	if !ok {
		return "", errors.Errorf("missing required field %q", key)
	}
	s, ok := raw.(string)
	if !ok {
		return "", errors.Errorf("field %q must be a string", key)
	}
	return s, nil
}

func optionalString(v V, key string) (string, bool) {
	raw, ok := v[key]
	if !ok {
		return "", false
	}
	s, ok := raw.(string)
	return s, ok
}

func toFloat64(raw interface{}) (float64, bool) {
	switch n := raw.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func requireNumber(v V, key string) (float64, error) {
	raw, ok := v[key]
	if !ok {
		return 0, errors.Errorf("missing required field %q", key)
	}
	f, ok := toFloat64(raw)
	if !ok {
		return 0, errors.Errorf("field %q must be a number", key)
	}
	return f, nil
}

func requireUint32(v V, key string) (uint32, error) {
	f, err := requireNumber(v, key)
	if err != nil {
		return 0, err
	}
	if f < 0 || f > 0xFFFFFFFF {
		return 0, errors.Errorf("field %q out of uint32 range: %v", key, f)
	}
	return uint32(f), nil
}

func requireInt64(v V, key string) (int64, error) {
	f, err := requireNumber(v, key)
	if err != nil {
		return 0, err
	}
	return int64(f), nil
}

func requireHexBytes(v V, key string, wantLen int) ([]byte, error) {
	s, err := requireString(v, key)
	if err != nil {
		return nil, err
	}
	if wantLen >= 0 && len(s) != wantLen*2 {
		return nil, errors.Errorf("field %q must be %d hex characters, got %d", key, wantLen*2, len(s))
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Wrapf(err, "field %q is not valid hex", key)
	}
	return b, nil
}

func requireHash(v V, key string) (primitives.Hash, error) {
	s, err := requireString(v, key)
	if err != nil {
		return primitives.Hash{}, err
	}
	h, err := primitives.HashFromHex(s)
	if err != nil {
		return primitives.Hash{}, errors.Wrapf(err, "field %q", key)
	}
	return h, nil
}
