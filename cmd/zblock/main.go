// Command zblock decodes a hex-encoded Zcash block or transaction and
// prints its porcelain JSON to stdout.
package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"zcash-block/block"
	"zcash-block/porcelain"
	"zcash-block/tx"
)

func main() {
	if len(os.Args) < 2 {
		printError("INVALID_ARGS", "usage: zblock [--tx] [--mode header|min|default] <hexfile|->")
		os.Exit(1)
	}

	mode := porcelain.ModeDefault
	isTx := false
	var path string

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--tx":
			isTx = true
		case "--mode":
			if i+1 >= len(args) {
				printError("INVALID_ARGS", "--mode requires a value")
				os.Exit(1)
			}
			i++
			mode = porcelain.BlockMode(args[i])
		default:
			path = args[i]
		}
	}

	if path == "" {
		printError("INVALID_ARGS", "missing input file")
		os.Exit(1)
	}

	raw, err := readHex(path)
	if err != nil {
		printError("FILE_NOT_FOUND", err.Error())
		os.Exit(1)
	}

	var result interface{}
	if isTx {
		t, err := tx.Decode(raw, true)
		if err != nil {
			printError("INVALID_TX", err.Error())
			os.Exit(1)
		}
		result = porcelain.TransactionToPorcelain(t)
	} else {
		var b *block.Block
		var err error
		if mode == porcelain.ModeHeader {
			b, err = block.DecodeHeaderOnly(raw, true)
		} else {
			b, err = block.Decode(raw, true)
		}
		if err != nil {
			printError("INVALID_BLOCK", err.Error())
			os.Exit(1)
		}
		result = porcelain.BlockToPorcelain(b, mode)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		printError("ENCODE_ERROR", err.Error())
		os.Exit(1)
	}
	fmt.Println(string(out))
}

func readHex(path string) ([]byte, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = os.ReadFile("/dev/stdin")
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}
	return hex.DecodeString(strings.TrimSpace(string(data)))
}

func printError(code, message string) {
	errOutput := map[string]interface{}{
		"ok": false,
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	}
	errJSON, _ := json.Marshal(errOutput)
	fmt.Println(string(errJSON))
	fmt.Fprintf(os.Stderr, "Error: %s\n", message)
}
