package typeddata

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/Layr-Labs/eigenx-sigutil-go/pkg/bytecodec"
	"github.com/Layr-Labs/eigenx-sigutil-go/pkg/crypto"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

const (
	TypeBytes   = "bytes"
	TypeString  = "string"
	TypeBytes32 = "bytes32"
)

var ErrSchema = errors.New("non-empty array with named entries required")

// Entry is one named, typed field of a typed-data array.
type Entry struct {
	Type  string      `json:"type"`
	Name  string      `json:"name"`
	Value interface{} `json:"value"`
}

// SchemaLine is the "<type> <name>" descriptor committed to by the schema digest.
func (e Entry) SchemaLine() string {
	return e.Type + " " + e.Name
}

// Hasher computes the digest of a typed-data array. It commits to the schema
// (ordered type/name pairs) and to the values separately, then hashes both digests.
type Hasher struct {
	crypto crypto.ICrypto
}

func NewHasher(c crypto.ICrypto) *Hasher {
	return &Hasher{crypto: c}
}

func (h *Hasher) Hash(entries []Entry) (common.Hash, error) {
	if len(entries) == 0 {
		return common.Hash{}, errors.Wrap(ErrSchema, "empty typed data")
	}

	values := make([]interface{}, len(entries))
	types := make([]string, len(entries))
	schema := make([]interface{}, len(entries))
	schemaTypes := make([]string, len(entries))

	for i, e := range entries {
		if e.Name == "" {
			return common.Hash{}, errors.Wrapf(ErrSchema, "entry %d has no name", i)
		}

		value := e.Value
		if e.Type == TypeBytes {
			b, err := bytecodec.ToBuffer(e.Value)
			if err != nil {
				return common.Hash{}, fmt.Errorf("failed to convert %q to bytes: %w", e.Name, err)
			}
			value = b
		}

		values[i] = value
		types[i] = e.Type
		schema[i] = e.SchemaLine()
		schemaTypes[i] = TypeString
	}

	schemaHash, err := h.crypto.TypedHash(schemaTypes, schema)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to hash typed data schema: %w", err)
	}

	contentHash, err := h.crypto.TypedHash(types, values)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to hash typed data values: %w", err)
	}

	return h.crypto.TypedHash(
		[]string{TypeBytes32, TypeBytes32},
		[]interface{}{schemaHash.Bytes(), contentHash.Bytes()},
	)
}

// ParseEntries decodes a JSON typed-data array. Numbers are kept as json.Number so
// 256 bit integers are not rounded through float64.
func ParseEntries(raw []byte) ([]Entry, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var entries []Entry
	if err := dec.Decode(&entries); err != nil {
		return nil, errors.Wrapf(ErrSchema, "failed to decode typed data: %v", err)
	}
	return entries, nil
}
