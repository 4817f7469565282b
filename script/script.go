// Package script implements the "external script utility" consumed by
// the porcelain layer (spec.md §1): ASM disassembly, output-script
// classification, OP_RETURN payload extraction, and Zcash transparent
// address encoding. It never interprets or verifies a script; it only
// renders and classifies the opaque bytes the tx package stores.
package script

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"
)

// Disassemble converts script bytes to a space-separated human-readable
// ASM string: OP_0, OP_1..OP_16, OP_PUSHBYTES_<n> <hex> for direct
// pushes, OP_PUSHDATA1/2/4 <hex>, a named opcode for every other known
// byte, and OP_UNKNOWN_0x<nn> otherwise.
func Disassemble(script []byte) string {
	if len(script) == 0 {
		return ""
	}

	var parts []string
	i := 0
	for i < len(script) {
		op := script[i]
		i++

		switch {
		case op == 0x00:
			parts = append(parts, "OP_0")

		case op >= 0x01 && op <= 0x4b:
			n := int(op)
			if i+n > len(script) {
				parts = append(parts, fmt.Sprintf("OP_PUSHBYTES_%d", n))
				i = len(script)
				break
			}
			data := script[i : i+n]
			parts = append(parts, fmt.Sprintf("OP_PUSHBYTES_%d %s", n, hex.EncodeToString(data)))
			i += n

		case op == 0x4c: // OP_PUSHDATA1
			if i >= len(script) {
				parts = append(parts, "OP_PUSHDATA1")
				break
			}
			n := int(script[i])
			i++
			if i+n > len(script) {
				n = len(script) - i
			}
			data := script[i : i+n]
			parts = append(parts, fmt.Sprintf("OP_PUSHDATA1 %s", hex.EncodeToString(data)))
			i += n

		case op == 0x4d: // OP_PUSHDATA2
			if i+1 >= len(script) {
				parts = append(parts, "OP_PUSHDATA2")
				break
			}
			n := int(binary.LittleEndian.Uint16(script[i : i+2]))
			i += 2
			if i+n > len(script) {
				n = len(script) - i
			}
			data := script[i : i+n]
			parts = append(parts, fmt.Sprintf("OP_PUSHDATA2 %s", hex.EncodeToString(data)))
			i += n

		case op == 0x4e: // OP_PUSHDATA4
			if i+3 >= len(script) {
				parts = append(parts, "OP_PUSHDATA4")
				break
			}
			n := int(binary.LittleEndian.Uint32(script[i : i+4]))
			i += 4
			if i+n > len(script) {
				n = len(script) - i
			}
			data := script[i : i+n]
			parts = append(parts, fmt.Sprintf("OP_PUSHDATA4 %s", hex.EncodeToString(data)))
			i += n

		default:
			parts = append(parts, opcodeToName(op))
		}
	}

	return strings.Join(parts, " ")
}

// OutputType names the transparent output templates Zcash recognizes.
// Zcash's transparent layer carries no witness field, so there is no
// segwit/taproot counterpart to classify.
type OutputType string

const (
	TypeP2PKH    OutputType = "pubkeyhash"
	TypeP2SH     OutputType = "scripthash"
	TypeOpReturn OutputType = "nulldata"
	TypeUnknown  OutputType = "nonstandard"
)

// ClassifyOutput identifies an output script's template.
func ClassifyOutput(scriptPubKey []byte) OutputType {
	if len(scriptPubKey) == 0 {
		return TypeUnknown
	}

	// P2PKH: OP_DUP OP_HASH160 <20 bytes> OP_EQUALVERIFY OP_CHECKSIG
	if len(scriptPubKey) == 25 &&
		scriptPubKey[0] == 0x76 &&
		scriptPubKey[1] == 0xa9 &&
		scriptPubKey[2] == 0x14 &&
		scriptPubKey[23] == 0x88 &&
		scriptPubKey[24] == 0xac {
		return TypeP2PKH
	}

	// P2SH: OP_HASH160 <20 bytes> OP_EQUAL
	if len(scriptPubKey) == 23 &&
		scriptPubKey[0] == 0xa9 &&
		scriptPubKey[1] == 0x14 &&
		scriptPubKey[22] == 0x87 {
		return TypeP2SH
	}

	if scriptPubKey[0] == 0x6a {
		return TypeOpReturn
	}

	return TypeUnknown
}

// ScriptHash extracts the 20-byte hash from a P2PKH or P2SH script. ok is
// false for any other classification.
func ScriptHash(scriptPubKey []byte) (hash [20]byte, ok bool) {
	switch ClassifyOutput(scriptPubKey) {
	case TypeP2PKH:
		copy(hash[:], scriptPubKey[3:23])
		return hash, true
	case TypeP2SH:
		copy(hash[:], scriptPubKey[2:22])
		return hash, true
	default:
		return hash, false
	}
}

// OpReturnPayload extracts and concatenates the data pushes following an
// OP_RETURN. protocol is a best-effort identification of a well-known
// data-carrier convention; dataUTF8 is nil when the payload isn't valid
// UTF-8.
func OpReturnPayload(scriptPubKey []byte) (dataHex string, dataUTF8 *string, protocol string) {
	if len(scriptPubKey) == 0 || scriptPubKey[0] != 0x6a {
		return "", nil, "unknown"
	}

	var allData []byte
	i := 1
	for i < len(scriptPubKey) {
		opcode := scriptPubKey[i]
		i++

		var pushLen int
		switch {
		case opcode >= 0x01 && opcode <= 0x4b:
			pushLen = int(opcode)
		case opcode == 0x4c:
			if i >= len(scriptPubKey) {
				i = len(scriptPubKey)
				continue
			}
			pushLen = int(scriptPubKey[i])
			i++
		case opcode == 0x4d:
			if i+1 >= len(scriptPubKey) {
				i = len(scriptPubKey)
				continue
			}
			pushLen = int(binary.LittleEndian.Uint16(scriptPubKey[i : i+2]))
			i += 2
		case opcode == 0x4e:
			if i+3 >= len(scriptPubKey) {
				i = len(scriptPubKey)
				continue
			}
			pushLen = int(binary.LittleEndian.Uint32(scriptPubKey[i : i+4]))
			i += 4
		default:
			i = len(scriptPubKey)
			continue
		}

		if i+pushLen > len(scriptPubKey) {
			break
		}
		allData = append(allData, scriptPubKey[i:i+pushLen]...)
		i += pushLen
	}

	dataHex = hex.EncodeToString(allData)
	if len(allData) > 0 && isValidUTF8(allData) {
		s := string(allData)
		dataUTF8 = &s
	}

	switch {
	case len(allData) >= 4 && string(allData[:4]) == "omni":
		protocol = "omni"
	default:
		protocol = "unknown"
	}

	return dataHex, dataUTF8, protocol
}

func isValidUTF8(data []byte) bool {
	s := string(data)
	for _, r := range s {
		if r == '�' {
			return false
		}
	}
	return true
}

// opcodeToName returns the canonical name for a Bitcoin-lineage script
// opcode byte, matching Bitcoin Core's script/script.h table (Zcash's
// transparent scripts reuse the same opcode set).
func opcodeToName(op byte) string {
	switch op {
	case 0x4f:
		return "OP_1NEGATE"
	case 0x50:
		return "OP_RESERVED"
	case 0x51:
		return "OP_1"
	case 0x52:
		return "OP_2"
	case 0x53:
		return "OP_3"
	case 0x54:
		return "OP_4"
	case 0x55:
		return "OP_5"
	case 0x56:
		return "OP_6"
	case 0x57:
		return "OP_7"
	case 0x58:
		return "OP_8"
	case 0x59:
		return "OP_9"
	case 0x5a:
		return "OP_10"
	case 0x5b:
		return "OP_11"
	case 0x5c:
		return "OP_12"
	case 0x5d:
		return "OP_13"
	case 0x5e:
		return "OP_14"
	case 0x5f:
		return "OP_15"
	case 0x60:
		return "OP_16"
	case 0x61:
		return "OP_NOP"
	case 0x62:
		return "OP_VER"
	case 0x63:
		return "OP_IF"
	case 0x64:
		return "OP_NOTIF"
	case 0x65:
		return "OP_VERIF"
	case 0x66:
		return "OP_VERNOTIF"
	case 0x67:
		return "OP_ELSE"
	case 0x68:
		return "OP_ENDIF"
	case 0x69:
		return "OP_VERIFY"
	case 0x6a:
		return "OP_RETURN"
	case 0x6b:
		return "OP_TOALTSTACK"
	case 0x6c:
		return "OP_FROMALTSTACK"
	case 0x6d:
		return "OP_2DROP"
	case 0x6e:
		return "OP_2DUP"
	case 0x6f:
		return "OP_3DUP"
	case 0x70:
		return "OP_2OVER"
	case 0x71:
		return "OP_2ROT"
	case 0x72:
		return "OP_2SWAP"
	case 0x73:
		return "OP_IFDUP"
	case 0x74:
		return "OP_DEPTH"
	case 0x75:
		return "OP_DROP"
	case 0x76:
		return "OP_DUP"
	case 0x77:
		return "OP_NIP"
	case 0x78:
		return "OP_OVER"
	case 0x79:
		return "OP_PICK"
	case 0x7a:
		return "OP_ROLL"
	case 0x7b:
		return "OP_ROT"
	case 0x7c:
		return "OP_SWAP"
	case 0x7d:
		return "OP_TUCK"
	case 0x7e:
		return "OP_CAT"
	case 0x7f:
		return "OP_SUBSTR"
	case 0x80:
		return "OP_LEFT"
	case 0x81:
		return "OP_RIGHT"
	case 0x82:
		return "OP_SIZE"
	case 0x83:
		return "OP_INVERT"
	case 0x84:
		return "OP_AND"
	case 0x85:
		return "OP_OR"
	case 0x86:
		return "OP_XOR"
	case 0x87:
		return "OP_EQUAL"
	case 0x88:
		return "OP_EQUALVERIFY"
	case 0x89:
		return "OP_RESERVED1"
	case 0x8a:
		return "OP_RESERVED2"
	case 0x8b:
		return "OP_1ADD"
	case 0x8c:
		return "OP_1SUB"
	case 0x8d:
		return "OP_2MUL"
	case 0x8e:
		return "OP_2DIV"
	case 0x8f:
		return "OP_NEGATE"
	case 0x90:
		return "OP_ABS"
	case 0x91:
		return "OP_NOT"
	case 0x92:
		return "OP_0NOTEQUAL"
	case 0x93:
		return "OP_ADD"
	case 0x94:
		return "OP_SUB"
	case 0x95:
		return "OP_MUL"
	case 0x96:
		return "OP_DIV"
	case 0x97:
		return "OP_MOD"
	case 0x98:
		return "OP_LSHIFT"
	case 0x99:
		return "OP_RSHIFT"
	case 0x9a:
		return "OP_BOOLAND"
	case 0x9b:
		return "OP_BOOLOR"
	case 0x9c:
		return "OP_NUMEQUAL"
	case 0x9d:
		return "OP_NUMEQUALVERIFY"
	case 0x9e:
		return "OP_NUMNOTEQUAL"
	case 0x9f:
		return "OP_LESSTHAN"
	case 0xa0:
		return "OP_GREATERTHAN"
	case 0xa1:
		return "OP_LESSTHANOREQUAL"
	case 0xa2:
		return "OP_GREATERTHANOREQUAL"
	case 0xa3:
		return "OP_MIN"
	case 0xa4:
		return "OP_MAX"
	case 0xa5:
		return "OP_WITHIN"
	case 0xa6:
		return "OP_RIPEMD160"
	case 0xa7:
		return "OP_SHA1"
	case 0xa8:
		return "OP_SHA256"
	case 0xa9:
		return "OP_HASH160"
	case 0xaa:
		return "OP_HASH256"
	case 0xab:
		return "OP_CODESEPARATOR"
	case 0xac:
		return "OP_CHECKSIG"
	case 0xad:
		return "OP_CHECKSIGVERIFY"
	case 0xae:
		return "OP_CHECKMULTISIG"
	case 0xaf:
		return "OP_CHECKMULTISIGVERIFY"
	case 0xb0:
		return "OP_NOP1"
	case 0xb1:
		return "OP_CHECKLOCKTIMEVERIFY"
	case 0xb2:
		return "OP_CHECKSEQUENCEVERIFY"
	case 0xb3:
		return "OP_NOP4"
	case 0xb4:
		return "OP_NOP5"
	case 0xb5:
		return "OP_NOP6"
	case 0xb6:
		return "OP_NOP7"
	case 0xb7:
		return "OP_NOP8"
	case 0xb8:
		return "OP_NOP9"
	case 0xb9:
		return "OP_NOP10"
	case 0xfd:
		return "OP_PUBKEYHASH"
	case 0xfe:
		return "OP_PUBKEY"
	case 0xff:
		return "OP_INVALIDOPCODE"
	}
	return fmt.Sprintf("OP_UNKNOWN_0x%02x", op)
}
