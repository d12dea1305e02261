package utils

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SixIDHookFunc defines the signature for the NewSixID test hook.
// It returns a SixID and a boolean indicating whether to override the default generation.
type SixIDHookFunc func() (id SixID, override bool)

// NewSixIDHook is a package-level variable that tests can set to override NewSixID behavior.
var NewSixIDHook SixIDHookFunc

// SixID is a 6-byte ID stored as BSON BinData with custom subtype 0x80.
// Its text form is Crockford Base32 (10 characters).
type SixID [6]byte

// NewSixID creates a new 6-byte SixID using random data.
func NewSixID() SixID {
	if NewSixIDHook != nil {
		if id, override := NewSixIDHook(); override {
			return id
		}
	}

	var id SixID
	if _, err := rand.Read(id[:]); err != nil {
		// fallback to zeros if random fails
		for i := range id {
			id[i] = 0
		}
	}
	return id
}

// IsZero reports whether the ID is the all-zero value.
func (u SixID) IsZero() bool {
	return u == SixID{}
}

// ParseSixID parses a Crockford Base32 string into a SixID.
func ParseSixID(s string) (SixID, error) {
	return parseCrockford(s)
}

const crockfordAlphabet = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

var crockfordDecodeMap map[byte]byte

func init() {
	crockfordDecodeMap = make(map[byte]byte, 40)
	for i := range crockfordAlphabet {
		crockfordDecodeMap[crockfordAlphabet[i]] = byte(i)
	}

	lower := strings.ToLower(crockfordAlphabet)
	for i := range lower {
		if i >= 10 { // skip digits
			crockfordDecodeMap[lower[i]] = byte(i)
		}
	}

	// Commonly confused characters.
	crockfordDecodeMap['o'] = crockfordDecodeMap['O']
	crockfordDecodeMap['i'] = crockfordDecodeMap['1']
	crockfordDecodeMap['l'] = crockfordDecodeMap['1']
}

// String returns the Crockford Base32 (uppercase) representation of the ID.
func (u SixID) String() string {
	// 6 bytes = 48 bits = 10 Base32 characters
	result := make([]byte, 0, 10)
	var bits, offset uint

	for i := 0; i < 6; i++ {
		bits |= uint(u[i]) << offset
		offset += 8

		for offset >= 5 {
			result = append(result, crockfordAlphabet[bits&0x1F])
			bits >>= 5
			offset -= 5
		}
	}
	if offset > 0 {
		result = append(result, crockfordAlphabet[bits&0x1F])
	}

	return string(result)
}

func parseCrockford(s string) (SixID, error) {
	if s == "" {
		return SixID{}, nil
	}

	// Tolerate hyphens and spaces.
	s = strings.ReplaceAll(s, "-", "")
	s = strings.ReplaceAll(s, " ", "")

	if len(s) != 10 {
		return SixID{}, errors.New("invalid SixID: string length must be 10")
	}

	var bits uint64
	var offset uint
	var id SixID
	byteIndex := 0

	for i := 0; i < 10; i++ {
		val, ok := crockfordDecodeMap[s[i]]
		if !ok {
			return SixID{}, errors.New("invalid character in SixID")
		}

		bits |= uint64(val) << offset
		offset += 5

		for offset >= 8 && byteIndex < 6 {
			id[byteIndex] = byte(bits & 0xFF)
			byteIndex++
			bits >>= 8
			offset -= 8
		}
	}

	if byteIndex != 6 {
		return SixID{}, errors.New("invalid SixID: couldn't decode 6 bytes")
	}
	return id, nil
}

// MarshalBSONValue implements bsoncodec.ValueMarshaler so the ID is stored
// as BinData subtype 0x80 rather than an array of ints.
func (u SixID) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(primitive.Binary{Subtype: 0x80, Data: u[:]})
}

// UnmarshalBSONValue implements bsoncodec.ValueUnmarshaler.
func (u *SixID) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	if t == bson.TypeNull {
		*u = SixID{}
		return nil
	}
	if t != bson.TypeBinary {
		return errors.New("invalid BSON type for SixID: expected binary")
	}
	raw := bson.RawValue{Type: t, Value: data}
	var bin primitive.Binary
	if err := raw.Unmarshal(&bin); err != nil {
		return err
	}
	if bin.Subtype != 0x80 || len(bin.Data) != 6 {
		*u = SixID{}
		return errors.New("invalid BSON binary data for SixID: incorrect subtype or length")
	}
	copy((*u)[:], bin.Data)
	return nil
}

// MarshalJSON marshals the SixID as a JSON string in Crockford Base32 format.
func (u SixID) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.String())
}

// UnmarshalJSON unmarshals a SixID from a JSON string in Crockford Base32 format.
func (u *SixID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseSixID(s)
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}
