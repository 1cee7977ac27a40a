// Package bytecodec holds the canonical conversions between integers, hex strings and
// byte slices shared by the signature and typed-data packages.
package bytecodec

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
)

const HexPrefix = "0x"

var (
	hexStringRegex = regexp.MustCompile(`^0x[0-9A-Fa-f]*$`)

	tt255 = math.BigPow(2, 255)
	tt256 = math.BigPow(2, 256)
)

// InputTypeError is returned when a value cannot be rendered as hex.
type InputTypeError struct {
	Type  string
	Value string
}

func (e *InputTypeError) Error() string {
	return fmt.Sprintf("normalize requires hex string or integer input, received %s: %s", e.Type, e.Value)
}

func newInputTypeError(input interface{}) *InputTypeError {
	return &InputTypeError{
		Type:  fmt.Sprintf("%T", input),
		Value: fmt.Sprintf("%v", input),
	}
}

// Normalize renders input as a lower-case 0x-prefixed hex string.
//
// Absent input (nil, an empty string or a zero integer) yields "" and no error.
// Non-negative integers are encoded as their minimal big-endian bytes first. Integral
// float64 and json.Number values, as decoded from JSON, count as integers.
// Every other input is rejected with an *InputTypeError.
func Normalize(input interface{}) (string, error) {
	if input == nil {
		return "", nil
	}

	var str string
	if s, ok := input.(string); ok {
		if s == "" {
			return "", nil
		}
		str = s
	} else {
		n, ok := toBigInt(input)
		if !ok || n.Sign() < 0 {
			return "", newInputTypeError(input)
		}
		if n.Sign() == 0 {
			return "", nil
		}
		str = hexutil.Encode(n.Bytes())
	}

	return AddHexPrefix(strings.ToLower(str)), nil
}

// PadToWidth left-pads hexDigits with '0' up to width characters. Longer input is returned as is.
func PadToWidth(hexDigits string, width int) string {
	if len(hexDigits) >= width {
		return hexDigits
	}
	return strings.Repeat("0", width-len(hexDigits)) + hexDigits
}

func IsHexString(s string) bool {
	return hexStringRegex.MatchString(s)
}

func AddHexPrefix(s string) string {
	if strings.HasPrefix(s, HexPrefix) {
		return s
	}
	return HexPrefix + s
}

func StripHexPrefix(s string) string {
	return strings.TrimPrefix(s, HexPrefix)
}

// ToBuffer converts a loosely typed value into bytes.
//
// 0x-prefixed hex strings are decoded (odd lengths gain a leading zero nibble), any other
// string is taken as UTF-8 text, integers become their minimal big-endian encoding and nil
// becomes an empty slice.
func ToBuffer(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case nil:
		return []byte{}, nil
	case []byte:
		return common.CopyBytes(v), nil
	case hexutil.Bytes:
		return common.CopyBytes(v), nil
	case common.Address:
		return v.Bytes(), nil
	case common.Hash:
		return v.Bytes(), nil
	case string:
		if !IsHexString(v) {
			return []byte(v), nil
		}
		digits := StripHexPrefix(v)
		if len(digits)%2 == 1 {
			digits = "0" + digits
		}
		return hex.DecodeString(digits)
	}

	n, ok := toBigInt(value)
	if !ok || n.Sign() < 0 {
		return nil, newInputTypeError(value)
	}
	return n.Bytes(), nil
}

// BytesToHex renders b as lower-case 0x-prefixed hex. An empty slice renders as "0x".
func BytesToHex(b []byte) string {
	return HexPrefix + hex.EncodeToString(b)
}

func IntToHex(i uint64) string {
	return hexutil.EncodeUint64(i)
}

// FromSigned interprets b as a 256-bit two's-complement integer.
func FromSigned(b []byte) *big.Int {
	x := new(big.Int).SetBytes(b)
	if x.Cmp(tt255) < 0 {
		return x
	}
	return x.Sub(x, tt256)
}

// ToUnsigned maps x into [0, 2^256), undoing a two's-complement sign.
func ToUnsigned(x *big.Int) *big.Int {
	return math.U256(new(big.Int).Set(x))
}

func toBigInt(value interface{}) (*big.Int, bool) {
	switch v := value.(type) {
	case int:
		return big.NewInt(int64(v)), true
	case int8:
		return big.NewInt(int64(v)), true
	case int16:
		return big.NewInt(int64(v)), true
	case int32:
		return big.NewInt(int64(v)), true
	case int64:
		return big.NewInt(v), true
	case uint:
		return new(big.Int).SetUint64(uint64(v)), true
	case uint8:
		return new(big.Int).SetUint64(uint64(v)), true
	case uint16:
		return new(big.Int).SetUint64(uint64(v)), true
	case uint32:
		return new(big.Int).SetUint64(uint64(v)), true
	case uint64:
		return new(big.Int).SetUint64(v), true
	case *big.Int:
		if v == nil {
			return new(big.Int), true
		}
		return new(big.Int).Set(v), true
	case float32:
		return floatToBigInt(float64(v))
	case float64:
		return floatToBigInt(v)
	case json.Number:
		if n, ok := new(big.Int).SetString(v.String(), 10); ok {
			return n, true
		}
		f, ok := new(big.Float).SetPrec(512).SetString(v.String())
		if !ok {
			return nil, false
		}
		return bigFloatToBigInt(f)
	default:
		return nil, false
	}
}

func floatToBigInt(v float64) (*big.Int, bool) {
	if v != v {
		return nil, false
	}
	return bigFloatToBigInt(new(big.Float).SetFloat64(v))
}

// bigFloatToBigInt accepts only finite values without a fractional part.
func bigFloatToBigInt(f *big.Float) (*big.Int, bool) {
	if !f.IsInt() {
		return nil, false
	}
	n, _ := f.Int(nil)
	return n, true
}
