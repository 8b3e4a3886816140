package conditions

import (
	"encoding/json"
)

type decoder func(fields) (Condition, error)

// decoders is the closed tag table. Tags missing from it decode as OtherCondition.
var decoders = map[Type]decoder{
	TypeComparison: decodeComparison,
	TypeCheck:      decodeCheck,
	TypeLocation:   decodeLocation,
	TypeLogical:    decodeLogical,
	TypeTimePassed: decodeTimePassed,
	TypeTimeRange:  decodeTimeRange,
	TypeTrue:       decodeTrue,
	TypeFalse:      decodeFalse,
	TypeOther:      decodeOther,
}

// Decode builds the condition variant named by the payload's type tag.
// Unknown or missing tags yield an OtherCondition; malformed fields of a known
// variant yield a *ValidationError naming the field.
func Decode(data json.RawMessage) (Condition, error) {
	f, err := parseFields(data)
	if err != nil {
		return nil, err
	}
	tag, err := f.string("type")
	if err != nil {
		return decodeOther(f)
	}
	decode, ok := decoders[Type(tag)]
	if !ok {
		return decodeOther(f)
	}
	return decode(f)
}
