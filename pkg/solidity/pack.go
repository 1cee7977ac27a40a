// Package solidity implements tightly packed, type-directed encoding of values and the
// Keccak-256 hash over it, the pre-image used for typed-data digests.
package solidity

import (
	"encoding/json"
	"fmt"
	"math/big"
	"reflect"
	"strings"

	"github.com/Layr-Labs/eigenx-sigutil-go/pkg/bytecodec"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"
	"golang.org/x/crypto/sha3"
)

// arrayElementBits is the width array elements are padded to. bytesN elements keep their size.
const arrayElementBits = 256

var (
	ErrLengthMismatch  = errors.New("number of types does not match number of values")
	ErrUnsupportedType = errors.New("unsupported or invalid type")
	ErrInvalidValue    = errors.New("invalid value for type")
)

// packFunc encodes value for typ. bits is zero for top level values and
// arrayElementBits for array elements.
type packFunc func(typ abi.Type, value interface{}, bits int) ([]byte, error)

var packers map[byte]packFunc

func init() {
	packers = map[byte]packFunc{
		abi.StringTy:     packString,
		abi.BytesTy:      packBytes,
		abi.BoolTy:       packBool,
		abi.AddressTy:    packAddress,
		abi.FixedBytesTy: packFixedBytes,
		abi.UintTy:       packInteger,
		abi.IntTy:        packInteger,
		abi.SliceTy:      packArray,
		abi.ArrayTy:      packArray,
	}
}

// Pack encodes each value according to the paired type tag and concatenates the results.
func Pack(types []string, values []interface{}) ([]byte, error) {
	if len(types) != len(values) {
		return nil, errors.Wrapf(ErrLengthMismatch, "%d types, %d values", len(types), len(values))
	}

	var out []byte
	for i, tag := range types {
		encoded, err := PackValue(tag, values[i])
		if err != nil {
			return nil, fmt.Errorf("failed to pack value %d: %w", i, err)
		}
		out = append(out, encoded...)
	}
	return out, nil
}

// PackValue encodes a single value according to its type tag.
func PackValue(tag string, value interface{}) ([]byte, error) {
	typ, err := ParseType(tag)
	if err != nil {
		return nil, err
	}
	return pack(typ, value, 0)
}

// SHA3 returns the Keccak-256 hash of the packed encoding of values.
func SHA3(types []string, values []interface{}) (common.Hash, error) {
	if len(types) != len(values) {
		return common.Hash{}, errors.Wrapf(ErrLengthMismatch, "%d types, %d values", len(types), len(values))
	}

	hasher := sha3.NewLegacyKeccak256()
	for i, tag := range types {
		encoded, err := PackValue(tag, values[i])
		if err != nil {
			return common.Hash{}, fmt.Errorf("failed to pack value %d: %w", i, err)
		}
		hasher.Write(encoded)
	}

	var h common.Hash
	hasher.Sum(h[:0])
	return h, nil
}

// ParseType resolves a type tag, accepting the "uint", "int" and "byte" shorthands.
func ParseType(tag string) (abi.Type, error) {
	typ, err := abi.NewType(canonicalTypeName(tag), "", nil)
	if err != nil {
		return abi.Type{}, errors.Wrapf(ErrUnsupportedType, "%s: %v", tag, err)
	}
	if _, ok := packers[typ.T]; !ok {
		return abi.Type{}, errors.Wrapf(ErrUnsupportedType, "%s", tag)
	}
	if err := validateSize(tag, typ); err != nil {
		return abi.Type{}, err
	}
	return typ, nil
}

func canonicalTypeName(tag string) string {
	base, suffix := tag, ""
	if i := strings.Index(tag, "["); i >= 0 {
		base, suffix = tag[:i], tag[i:]
	}
	switch base {
	case "uint", "int":
		base += "256"
	case "byte":
		base = "bytes1"
	}
	return base + suffix
}

func validateSize(tag string, typ abi.Type) error {
	switch typ.T {
	case abi.UintTy, abi.IntTy:
		if typ.Size < 8 || typ.Size > 256 || typ.Size%8 != 0 {
			return errors.Wrapf(ErrUnsupportedType, "%s: invalid integer width %d", tag, typ.Size)
		}
	case abi.FixedBytesTy:
		if typ.Size < 1 || typ.Size > 32 {
			return errors.Wrapf(ErrUnsupportedType, "%s: invalid byte width %d", tag, typ.Size)
		}
	case abi.SliceTy, abi.ArrayTy:
		if _, ok := packers[typ.Elem.T]; !ok || typ.Elem.T == abi.SliceTy || typ.Elem.T == abi.ArrayTy {
			return errors.Wrapf(ErrUnsupportedType, "%s: unsupported array element", tag)
		}
		return validateSize(tag, *typ.Elem)
	}
	return nil
}

func pack(typ abi.Type, value interface{}, bits int) ([]byte, error) {
	packer, ok := packers[typ.T]
	if !ok {
		return nil, errors.Wrapf(ErrUnsupportedType, "%s", typ.String())
	}
	return packer(typ, value, bits)
}

func invalidValue(typ abi.Type, value interface{}) error {
	return errors.Wrapf(ErrInvalidValue, "%s cannot encode %T(%v)", typ.String(), value, value)
}

func packString(typ abi.Type, value interface{}, _ int) ([]byte, error) {
	switch v := value.(type) {
	case string:
		return []byte(v), nil
	case []byte:
		return common.CopyBytes(v), nil
	}
	return nil, invalidValue(typ, value)
}

func packBytes(typ abi.Type, value interface{}, _ int) ([]byte, error) {
	b, err := bytecodec.ToBuffer(value)
	if err != nil {
		return nil, invalidValue(typ, value)
	}
	return b, nil
}

func packBool(typ abi.Type, value interface{}, bits int) ([]byte, error) {
	v, ok := value.(bool)
	if !ok {
		return nil, invalidValue(typ, value)
	}
	width := 1
	if bits > 0 {
		width = bits / 8
	}
	out := make([]byte, width)
	if v {
		out[width-1] = 1
	}
	return out, nil
}

func packAddress(typ abi.Type, value interface{}, bits int) ([]byte, error) {
	if s, ok := value.(string); ok && !bytecodec.IsHexString(s) {
		return nil, invalidValue(typ, value)
	}
	b, err := bytecodec.ToBuffer(value)
	if err != nil || len(b) > common.AddressLength {
		return nil, invalidValue(typ, value)
	}
	width := common.AddressLength
	if bits > 0 {
		width = bits / 8
	}
	return common.LeftPadBytes(b, width), nil
}

func packFixedBytes(typ abi.Type, value interface{}, _ int) ([]byte, error) {
	b, err := bytecodec.ToBuffer(value)
	if err != nil || len(b) > typ.Size {
		return nil, invalidValue(typ, value)
	}
	// bytesN keeps its own width inside arrays too.
	return common.RightPadBytes(b, typ.Size), nil
}

func packInteger(typ abi.Type, value interface{}, bits int) ([]byte, error) {
	n, err := ParseNumber(value)
	if err != nil {
		return nil, invalidValue(typ, value)
	}

	size := typ.Size
	if typ.T == abi.UintTy {
		if n.Sign() < 0 || n.BitLen() > size {
			return nil, errors.Wrapf(ErrInvalidValue, "%s out of range: %s", typ.String(), n.String())
		}
	} else {
		limit := new(big.Int).Lsh(big.NewInt(1), uint(size-1))
		if n.Cmp(limit) >= 0 || n.Cmp(new(big.Int).Neg(limit)) < 0 {
			return nil, errors.Wrapf(ErrInvalidValue, "%s out of range: %s", typ.String(), n.String())
		}
	}

	// U256Bytes yields the 256-bit two's complement; keep the low size/8 bytes.
	full := math.U256Bytes(n)
	encoded := full[len(full)-size/8:]
	if bits > size {
		// Array elements are zero extended, not sign extended.
		return common.LeftPadBytes(encoded, bits/8), nil
	}
	return encoded, nil
}

func packArray(typ abi.Type, value interface{}, _ int) ([]byte, error) {
	rv := reflect.ValueOf(value)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return nil, invalidValue(typ, value)
	}
	if typ.T == abi.ArrayTy && rv.Len() > typ.Size {
		return nil, errors.Wrapf(ErrInvalidValue, "%s holds at most %d elements, got %d", typ.String(), typ.Size, rv.Len())
	}

	var out []byte
	for i := 0; i < rv.Len(); i++ {
		encoded, err := pack(*typ.Elem, rv.Index(i).Interface(), arrayElementBits)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out = append(out, encoded...)
	}
	return out, nil
}

// ParseNumber converts integer-like values into a big.Int. Strings are read as decimal,
// or as hex when 0x-prefixed.
func ParseNumber(value interface{}) (*big.Int, error) {
	switch v := value.(type) {
	case *big.Int:
		if v == nil {
			return nil, errors.Wrapf(ErrInvalidValue, "nil integer")
		}
		return new(big.Int).Set(v), nil
	case json.Number:
		return parseNumberString(v.String())
	case string:
		return parseNumberString(v)
	case int:
		return big.NewInt(int64(v)), nil
	case int8:
		return big.NewInt(int64(v)), nil
	case int16:
		return big.NewInt(int64(v)), nil
	case int32:
		return big.NewInt(int64(v)), nil
	case int64:
		return big.NewInt(v), nil
	case uint:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint8:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint16:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint32:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint64:
		return new(big.Int).SetUint64(v), nil
	}
	return nil, errors.Wrapf(ErrInvalidValue, "%T is not a number", value)
}

func parseNumberString(s string) (*big.Int, error) {
	base := 10
	digits := s
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		base = 16
		digits = s[2:]
	} else if strings.HasPrefix(s, "-0x") {
		base = 16
		digits = "-" + s[3:]
	}
	n, ok := new(big.Int).SetString(digits, base)
	if !ok {
		return nil, errors.Wrapf(ErrInvalidValue, "%q is not a number", s)
	}
	return n, nil
}
