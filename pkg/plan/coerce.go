package plan

import (
	"strconv"
	"strings"

	"github.com/liquers-go/liquers/pkg/command"
	"github.com/liquers-go/liquers/pkg/liquererr"
	"github.com/liquers-go/liquers/pkg/query"
)

var truthy = map[string]bool{
	"true": true, "t": true, "yes": true, "y": true, "1": true,
	"false": false, "f": false, "no": false, "n": false, "0": false,
}

// coerce converts a literal query-text parameter to the JSON-ready value
// its formal ArgumentType expects: numeric types via numeric parse,
// booleans via the case-insensitive truthy table above, enums by alias
// lookup. Errors raise ConversionError carrying the argument's source
// position.
func coerce(argType command.ArgumentType, enum *command.EnumArgument, raw string, argName string, pos query.Position) (any, error) {
	switch argType {
	case command.ArgString, command.ArgAny, command.ArgNone:
		return raw, nil

	case command.ArgInteger, command.ArgIntegerOption:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, &liquererr.ConversionError{From: raw, To: "integer", Message: err.Error(), Position: pos}
		}
		return n, nil

	case command.ArgFloat, command.ArgFloatOption:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, &liquererr.ConversionError{From: raw, To: "float", Message: err.Error(), Position: pos}
		}
		return f, nil

	case command.ArgBoolean:
		b, ok := truthy[strings.ToLower(raw)]
		if !ok {
			return nil, &liquererr.ConversionError{From: raw, To: "boolean", Message: "not one of true/t/yes/y/1/false/f/no/n/0", Position: pos}
		}
		return b, nil

	case command.ArgEnum:
		if enum == nil {
			return raw, nil
		}
		if v, ok := enum.Aliases[raw]; ok {
			return v, nil
		}
		return nil, &liquererr.ConversionError{From: raw, To: "enum " + enum.Name, Message: "no matching alias for argument " + argName, Position: pos}

	default:
		return raw, nil
	}
}
