package lang

import (
	"encoding/hex"
	"strconv"
	"strings"
)

// String renders v in its printed form. A nil pointer prints as "null".
func (v *Value) String() string {
	var sb strings.Builder
	writeValue(&sb, v)
	return sb.String()
}

func writeValue(sb *strings.Builder, v *Value) {
	if v == nil {
		sb.WriteString("null")
		return
	}
	switch v.Type {
	case TypeInt:
		sb.WriteString(strconv.FormatInt(v.Int, 10))
	case TypeBignum, TypeSymbol:
		sb.Write(v.Buf)
	case TypeString:
		sb.WriteByte('"')
		sb.Write(v.Buf)
		sb.WriteByte('"')
	case TypeBytes:
		sb.WriteByte('[')
		sb.WriteString(hex.EncodeToString(v.Buf))
		sb.WriteByte(']')
	case TypePair:
		if v.IsNil() {
			sb.WriteString("nil")
			return
		}
		writePair(sb, v)
	case TypeClosure:
		sb.WriteString("<proc ")
		writeValue(sb, v.Next)
		sb.WriteByte('>')
	case TypeLet:
		sb.WriteString("<let ")
		writeValue(sb, v.Next)
		sb.WriteByte('>')
	case TypeBuiltin:
		sb.WriteString("<op ")
		sb.WriteString(strconv.FormatInt(v.Int, 10))
		sb.WriteByte('>')
	case TypeError:
		sb.WriteString("<e")
		sb.WriteString(strconv.FormatInt(v.Int, 10))
		sb.WriteByte(':')
		sb.WriteString(v.Code().Description())
		sb.WriteByte('>')
	default:
		sb.WriteString("<tag:")
		sb.WriteString(strconv.Itoa(int(v.Type)))
		sb.WriteByte('>')
	}
}

func writePair(sb *strings.Builder, v *Value) {
	sb.WriteByte('(')
	cur := v
	for {
		writeValue(sb, cur.Car)
		next := cur.Next
		if next == nil || next.IsNil() {
			break
		}
		if next.Type != TypePair {
			sb.WriteByte('.')
			writeValue(sb, next)
			break
		}
		sb.WriteByte(' ')
		cur = next
	}
	sb.WriteByte(')')
}
