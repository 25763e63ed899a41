package abi

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"reflect"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

var bigIntType = reflect.TypeOf((*big.Int)(nil))

// EncoderAdapter turns command-line constructor arguments into ABI values
type EncoderAdapter struct{}

// NewEncoderAdapter creates a new EncoderAdapter
func NewEncoderAdapter() *EncoderAdapter {
	return &EncoderAdapter{}
}

// EncodeConstructorArgs returns the hex encoded constructor arguments, without
// 0x prefix, as block explorers expect them
func (e *EncoderAdapter) EncodeConstructorArgs(artifact *domain.CompilationArtifact, args []string) (string, error) {
	packed, _, err := PackConstructorArgs(artifact, args)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(packed), nil
}

// PackConstructorArgs parses args against the artifact's constructor and
// returns both the packed encoding and the typed values
func PackConstructorArgs(artifact *domain.CompilationArtifact, args []string) ([]byte, []any, error) {
	inputs, err := artifact.ConstructorInputs()
	if err != nil {
		return nil, nil, err
	}

	values, err := ParseConstructorArgs(inputs, args)
	if err != nil {
		return nil, nil, err
	}

	packed, err := inputs.Pack(values...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode constructor arguments: %w", err)
	}
	return packed, values, nil
}

// ParseConstructorArgs coerces each raw argument to the Go type go-ethereum
// expects for the matching input
func ParseConstructorArgs(inputs abi.Arguments, args []string) ([]any, error) {
	if len(args) != len(inputs) {
		return nil, fmt.Errorf("expected %d constructor argument(s) %s, got %d",
			len(inputs), signature(inputs), len(args))
	}

	values := make([]any, len(inputs))
	for i, input := range inputs {
		v, err := ParseArgument(input.Type, args[i])
		if err != nil {
			name := input.Name
			if name == "" {
				name = fmt.Sprintf("#%d", i)
			}
			return nil, fmt.Errorf("argument %s (%s): %w", name, input.Type.String(), err)
		}
		values[i] = v
	}
	return values, nil
}

// ParseArgument converts a single textual value. Arrays are given as JSON
// arrays, bytes as hex.
func ParseArgument(t abi.Type, raw string) (any, error) {
	v, err := parseValue(t, strings.TrimSpace(raw))
	if err != nil {
		return nil, err
	}
	return v.Interface(), nil
}

func parseValue(t abi.Type, raw string) (reflect.Value, error) {
	switch t.T {
	case abi.AddressTy:
		if !common.IsHexAddress(raw) {
			return reflect.Value{}, fmt.Errorf("%w: %q", domain.ErrInvalidAddress, raw)
		}
		return reflect.ValueOf(common.HexToAddress(raw)), nil

	case abi.IntTy, abi.UintTy:
		return parseInteger(t, raw)

	case abi.BoolTy:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("invalid bool %q", raw)
		}
		return reflect.ValueOf(b), nil

	case abi.StringTy:
		return reflect.ValueOf(raw), nil

	case abi.BytesTy:
		b, err := decodeHex(raw)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(b), nil

	case abi.FixedBytesTy:
		b, err := decodeHex(raw)
		if err != nil {
			return reflect.Value{}, err
		}
		if len(b) != t.Size {
			return reflect.Value{}, fmt.Errorf("expected %d bytes, got %d", t.Size, len(b))
		}
		arr := reflect.New(t.GetType()).Elem()
		reflect.Copy(arr, reflect.ValueOf(b))
		return arr, nil

	case abi.SliceTy, abi.ArrayTy:
		return parseList(t, raw)
	}

	return reflect.Value{}, fmt.Errorf("type %s is not supported as a command-line argument", t.String())
}

func parseInteger(t abi.Type, raw string) (reflect.Value, error) {
	n, ok := new(big.Int).SetString(raw, 0)
	if !ok {
		return reflect.Value{}, fmt.Errorf("invalid integer %q", raw)
	}

	if t.T == abi.UintTy {
		if n.Sign() < 0 {
			return reflect.Value{}, fmt.Errorf("negative value %s for unsigned type", raw)
		}
		if n.BitLen() > t.Size {
			return reflect.Value{}, fmt.Errorf("value %s overflows uint%d", raw, t.Size)
		}
	} else {
		limit := new(big.Int).Lsh(big.NewInt(1), uint(t.Size-1))
		if n.Cmp(limit) >= 0 || n.Cmp(new(big.Int).Neg(limit)) < 0 {
			return reflect.Value{}, fmt.Errorf("value %s overflows int%d", raw, t.Size)
		}
	}

	goType := t.GetType()
	if goType == bigIntType {
		return reflect.ValueOf(n), nil
	}
	v := reflect.New(goType).Elem()
	if t.T == abi.UintTy {
		v.SetUint(n.Uint64())
	} else {
		v.SetInt(n.Int64())
	}
	return v, nil
}

func parseList(t abi.Type, raw string) (reflect.Value, error) {
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return reflect.Value{}, fmt.Errorf("expected a JSON array, got %q", raw)
	}
	if t.T == abi.ArrayTy && len(items) != t.Size {
		return reflect.Value{}, fmt.Errorf("expected %d elements, got %d", t.Size, len(items))
	}

	var out reflect.Value
	if t.T == abi.ArrayTy {
		out = reflect.New(t.GetType()).Elem()
	} else {
		out = reflect.MakeSlice(t.GetType(), len(items), len(items))
	}

	for i, item := range items {
		elem, err := parseValue(*t.Elem, elementText(item))
		if err != nil {
			return reflect.Value{}, fmt.Errorf("element %d: %w", i, err)
		}
		out.Index(i).Set(elem)
	}
	return out, nil
}

// elementText unquotes JSON strings and passes everything else through
func elementText(item json.RawMessage) string {
	var s string
	if err := json.Unmarshal(item, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(item))
}

func decodeHex(raw string) ([]byte, error) {
	if !strings.HasPrefix(raw, "0x") && !strings.HasPrefix(raw, "0X") {
		raw = "0x" + raw
	}
	b, err := hexutil.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid hex %q: %w", raw, err)
	}
	return b, nil
}

func signature(inputs abi.Arguments) string {
	types := make([]string, len(inputs))
	for i, input := range inputs {
		types[i] = input.Type.String()
	}
	return "(" + strings.Join(types, ",") + ")"
}

// Ensure EncoderAdapter implements ArgumentEncoder
var _ usecase.ArgumentEncoder = (*EncoderAdapter)(nil)
