package porcelain

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"

	"zcash-block/primitives"
	"zcash-block/script"
	"zcash-block/tx"
)

// TransactionToPorcelain renders t as a value-tree mirroring the
// reference RPC's decoded-transaction shape.
func TransactionToPorcelain(t *tx.Transaction) V {
	v := V{
		"txid":     primitives.ToHex(t.TxID()),
		"version":  t.Version,
		"locktime": t.LockTime,
		"vin":      vinToPorcelain(t),
		"vout":     voutToPorcelain(t),
	}
	if t.Overwintered {
		v["overwintered"] = true
		v["versiongroupid"] = fmt.Sprintf("%08x", t.VersionGroupID)
	}
	if t.Overwintered && (t.Version == 3 || t.Version == 4) {
		v["expiryheight"] = t.ExpiryHeight
	}
	if t.Overwintered && t.Version == 4 {
		v["valueBalance"] = float64(t.ValueBalanceZat) / COIN
		v["valueBalanceZat"] = t.ValueBalanceZat
		v["vShieldedSpend"] = spendsToPorcelain(t.ShieldedSpends)
		v["vShieldedOutput"] = outputsToPorcelain(t.ShieldedOutputs)
	}
	if t.Version >= 2 {
		v["vjoinsplit"] = joinSplitsToPorcelain(t.JoinSplits)
		if len(t.JoinSplits) > 0 {
			v["joinSplitPubKey"] = hex.EncodeToString(t.JoinSplitPubKey[:])
			v["joinSplitSig"] = hex.EncodeToString(t.JoinSplitSig[:])
		}
	}
	if t.BindingSig != nil {
		v["bindingSig"] = hex.EncodeToString(t.BindingSig[:])
	}
	return v
}

func vinToPorcelain(t *tx.Transaction) []V {
	out := make([]V, len(t.Vin))
	for i, in := range t.Vin {
		if t.IsCoinbase() {
			out[i] = V{
				"coinbase": hex.EncodeToString(in.ScriptSig),
				"sequence": in.Sequence,
			}
			continue
		}
		out[i] = V{
			"txid":     primitives.ToHex(in.PrevTxHash),
			"vout":     in.PrevTxOutIndex,
			"sequence": in.Sequence,
			"scriptSig": V{
				"asm": script.Disassemble(in.ScriptSig),
				"hex": hex.EncodeToString(in.ScriptSig),
			},
		}
	}
	return out
}

func voutToPorcelain(t *tx.Transaction) []V {
	out := make([]V, len(t.Vout))
	for i, o := range t.Vout {
		entry := V{
			"value":    float64(o.ValueZat) / COIN,
			"valueZat": o.ValueZat,
			"valueSat": o.ValueZat,
			"n":        i,
			"scriptPubKey": V{
				"asm": script.Disassemble(o.ScriptPubKey),
				"hex": hex.EncodeToString(o.ScriptPubKey),
			},
		}
		spk := entry["scriptPubKey"].(V)
		switch script.ClassifyOutput(o.ScriptPubKey) {
		case script.TypeP2PKH:
			spk["type"] = "pubkeyhash"
		case script.TypeP2SH:
			spk["type"] = "scripthash"
		case script.TypeOpReturn:
			spk["type"] = "nulldata"
		default:
			spk["type"] = "nonstandard"
		}
		if addrs, reqSigs, ok := script.AddressesForOutput(o.ScriptPubKey); ok {
			spk["reqSigs"] = reqSigs
			spk["addresses"] = addrs
		}
		out[i] = entry
	}
	return out
}

func spendsToPorcelain(spends []*tx.SpendDescription) []V {
	out := make([]V, len(spends))
	for i, s := range spends {
		out[i] = V{
			"cv":           primitives.ToHex(s.CV),
			"anchor":       primitives.ToHex(s.Anchor),
			"nullifier":    primitives.ToHex(s.Nullifier),
			"rk":           primitives.ToHex(s.RK),
			"proof":        hex.EncodeToString(s.Proof[:]),
			"spendAuthSig": hex.EncodeToString(s.SpendAuthSig[:]),
		}
	}
	return out
}

func outputsToPorcelain(outputs []*tx.OutputDescription) []V {
	out := make([]V, len(outputs))
	for i, o := range outputs {
		out[i] = V{
			"cv":            primitives.ToHex(o.CV),
			"cmu":           primitives.ToHex(o.CMU),
			"ephemeralKey":  primitives.ToHex(o.EphemeralKey),
			"encCiphertext": hex.EncodeToString(o.EncCiphertext[:]),
			"outCiphertext": hex.EncodeToString(o.OutCiphertext[:]),
			"proof":         hex.EncodeToString(o.Proof[:]),
		}
	}
	return out
}

func joinSplitsToPorcelain(joinSplits []*tx.JoinSplitDescription) []V {
	out := make([]V, len(joinSplits))
	for i, j := range joinSplits {
		nullifiers := make([]string, len(j.Nullifiers))
		for k, n := range j.Nullifiers {
			nullifiers[k] = primitives.ToHex(n)
		}
		commitments := make([]string, len(j.Commitments))
		for k, c := range j.Commitments {
			commitments[k] = primitives.ToHex(c)
		}
		macs := make([]string, len(j.Macs))
		for k, m := range j.Macs {
			macs[k] = primitives.ToHex(m)
		}
		ciphertexts := make([]string, len(j.Ciphertexts))
		for k, c := range j.Ciphertexts {
			ciphertexts[k] = hex.EncodeToString(c[:])
		}
		out[i] = V{
			"vpub_old":      float64(j.VpubOldZat) / COIN,
			"vpub_oldZat":   j.VpubOldZat,
			"vpub_new":      float64(j.VpubNewZat) / COIN,
			"vpub_newZat":   j.VpubNewZat,
			"anchor":        primitives.ToHex(j.Anchor),
			"nullifiers":    nullifiers,
			"commitments":   commitments,
			"onetimePubKey": primitives.ToHex(j.OnetimePubKey),
			"randomSeed":    primitives.ToHex(j.RandomSeed),
			"macs":          macs,
			"proof":         hex.EncodeToString(j.Proof),
			"ciphertexts":   ciphertexts,
		}
	}
	return out
}

// TransactionFromPorcelain validates and reconstructs a Transaction from
// a value-tree produced by TransactionToPorcelain, recomputing rawBytes
// and txid.
func TransactionFromPorcelain(v V) (*tx.Transaction, error) {
	// Round-trip the tree through JSON so that lists built by
	// TransactionToPorcelain ([]V, []string) and lists decoded from JSON
	// ([]interface{}) reach the field readers below in the same shape.
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "porcelain")
	}
	var norm V
	if err := json.Unmarshal(raw, &norm); err != nil {
		return nil, errors.Wrap(err, "porcelain")
	}
	v = norm

	t := &tx.Transaction{}

	version, err := requireNumber(v, "version")
	if err != nil {
		return nil, err
	}
	t.Version = uint32(version)

	if overwintered, ok := v["overwintered"].(bool); ok {
		t.Overwintered = overwintered
	}
	if t.Overwintered {
		gidHex, err := requireString(v, "versiongroupid")
		if err != nil {
			return nil, err
		}
		var gid uint32
		if _, err := fmt.Sscanf(gidHex, "%x", &gid); err != nil {
			return nil, errors.Wrap(err, "versiongroupid")
		}
		t.VersionGroupID = gid
	}

	if t.LockTime, err = requireUint32(v, "locktime"); err != nil {
		return nil, err
	}

	if vin, ok := v["vin"].([]interface{}); ok {
		t.Vin, err = vinFromPorcelain(vin)
		if err != nil {
			return nil, errors.Wrap(err, "vin")
		}
	}
	if vout, ok := v["vout"].([]interface{}); ok {
		t.Vout, err = voutFromPorcelain(vout)
		if err != nil {
			return nil, errors.Wrap(err, "vout")
		}
	}

	if t.Overwintered && (t.Version == 3 || t.Version == 4) {
		if t.ExpiryHeight, err = requireUint32(v, "expiryheight"); err != nil {
			return nil, err
		}
	}

	if t.Overwintered && t.Version == 4 {
		if t.ValueBalanceZat, err = requireInt64(v, "valueBalanceZat"); err != nil {
			return nil, err
		}
		if spends, ok := v["vShieldedSpend"].([]interface{}); ok {
			t.ShieldedSpends, err = spendsFromPorcelain(spends)
			if err != nil {
				return nil, errors.Wrap(err, "vShieldedSpend")
			}
		}
		if outputs, ok := v["vShieldedOutput"].([]interface{}); ok {
			t.ShieldedOutputs, err = outputsFromPorcelain(outputs)
			if err != nil {
				return nil, errors.Wrap(err, "vShieldedOutput")
			}
		}
	}

	if t.Version >= 2 {
		if joinSplits, ok := v["vjoinsplit"].([]interface{}); ok {
			useGroth := t.Overwintered && t.Version == 4
			t.JoinSplits, err = joinSplitsFromPorcelain(joinSplits, useGroth)
			if err != nil {
				return nil, errors.Wrap(err, "vjoinsplit")
			}
		}
		if len(t.JoinSplits) > 0 {
			pubKey, err := requireHash(v, "joinSplitPubKey")
			if err != nil {
				return nil, err
			}
			t.JoinSplitPubKey = &pubKey
			sig, err := requireHexBytes(v, "joinSplitSig", 64)
			if err != nil {
				return nil, err
			}
			var sigArr [64]byte
			copy(sigArr[:], sig)
			t.JoinSplitSig = &sigArr
		}
	}

	if t.Overwintered && t.Version == 4 && (len(t.ShieldedSpends)+len(t.ShieldedOutputs) > 0) {
		sig, err := requireHexBytes(v, "bindingSig", 64)
		if err != nil {
			return nil, err
		}
		var sigArr [64]byte
		copy(sigArr[:], sig)
		t.BindingSig = &sigArr
	}

	t.Finalize()
	return t, nil
}

func vinFromPorcelain(items []interface{}) ([]*tx.TxIn, error) {
	out := make([]*tx.TxIn, len(items))
	for i, item := range items {
		entry, ok := item.(V)
		if !ok {
			return nil, errors.Errorf("vin[%d] must be an object", i)
		}
		in := &tx.TxIn{}
		if coinbase, ok := optionalString(entry, "coinbase"); ok {
			script, err := hex.DecodeString(coinbase)
			if err != nil {
				return nil, errors.Wrapf(err, "vin[%d] coinbase", i)
			}
			in.ScriptSig = script
			in.PrevTxOutIndex = 0xFFFFFFFF
		} else {
			hash, err := requireHash(entry, "txid")
			if err != nil {
				return nil, errors.Wrapf(err, "vin[%d]", i)
			}
			in.PrevTxHash = hash
			if in.PrevTxOutIndex, err = requireUint32(entry, "vout"); err != nil {
				return nil, errors.Wrapf(err, "vin[%d]", i)
			}
			sigObj, ok := entry["scriptSig"].(V)
			if !ok {
				return nil, errors.Errorf("vin[%d] missing scriptSig", i)
			}
			scriptHex, err := requireString(sigObj, "hex")
			if err != nil {
				return nil, errors.Wrapf(err, "vin[%d] scriptSig", i)
			}
			sig, err := hex.DecodeString(scriptHex)
			if err != nil {
				return nil, errors.Wrapf(err, "vin[%d] scriptSig.hex", i)
			}
			in.ScriptSig = sig
		}
		seq, err := requireUint32(entry, "sequence")
		if err != nil {
			return nil, errors.Wrapf(err, "vin[%d]", i)
		}
		in.Sequence = seq
		out[i] = in
	}
	return out, nil
}

func voutFromPorcelain(items []interface{}) ([]*tx.TxOut, error) {
	out := make([]*tx.TxOut, len(items))
	for i, item := range items {
		entry, ok := item.(V)
		if !ok {
			return nil, errors.Errorf("vout[%d] must be an object", i)
		}
		valueZat, err := requireInt64(entry, "valueZat")
		if err != nil {
			return nil, errors.Wrapf(err, "vout[%d]", i)
		}
		spk, ok := entry["scriptPubKey"].(V)
		if !ok {
			return nil, errors.Errorf("vout[%d] missing scriptPubKey", i)
		}
		scriptHex, err := requireString(spk, "hex")
		if err != nil {
			return nil, errors.Wrapf(err, "vout[%d] scriptPubKey", i)
		}
		scriptBytes, err := hex.DecodeString(scriptHex)
		if err != nil {
			return nil, errors.Wrapf(err, "vout[%d] scriptPubKey.hex", i)
		}
		out[i] = &tx.TxOut{ValueZat: valueZat, ScriptPubKey: scriptBytes}
	}
	return out, nil
}

func spendsFromPorcelain(items []interface{}) ([]*tx.SpendDescription, error) {
	out := make([]*tx.SpendDescription, len(items))
	for i, item := range items {
		entry, ok := item.(V)
		if !ok {
			return nil, errors.Errorf("[%d] must be an object", i)
		}
		s := &tx.SpendDescription{}
		var err error
		if s.CV, err = requireHash(entry, "cv"); err != nil {
			return nil, err
		}
		if s.Anchor, err = requireHash(entry, "anchor"); err != nil {
			return nil, err
		}
		if s.Nullifier, err = requireHash(entry, "nullifier"); err != nil {
			return nil, err
		}
		if s.RK, err = requireHash(entry, "rk"); err != nil {
			return nil, err
		}
		proof, err := requireHexBytes(entry, "proof", 192)
		if err != nil {
			return nil, err
		}
		copy(s.Proof[:], proof)
		sig, err := requireHexBytes(entry, "spendAuthSig", 64)
		if err != nil {
			return nil, err
		}
		copy(s.SpendAuthSig[:], sig)
		out[i] = s
	}
	return out, nil
}

func outputsFromPorcelain(items []interface{}) ([]*tx.OutputDescription, error) {
	out := make([]*tx.OutputDescription, len(items))
	for i, item := range items {
		entry, ok := item.(V)
		if !ok {
			return nil, errors.Errorf("[%d] must be an object", i)
		}
		o := &tx.OutputDescription{}
		var err error
		if o.CV, err = requireHash(entry, "cv"); err != nil {
			return nil, err
		}
		if o.CMU, err = requireHash(entry, "cmu"); err != nil {
			return nil, err
		}
		if o.EphemeralKey, err = requireHash(entry, "ephemeralKey"); err != nil {
			return nil, err
		}
		enc, err := requireHexBytes(entry, "encCiphertext", 580)
		if err != nil {
			return nil, err
		}
		copy(o.EncCiphertext[:], enc)
		outCt, err := requireHexBytes(entry, "outCiphertext", 80)
		if err != nil {
			return nil, err
		}
		copy(o.OutCiphertext[:], outCt)
		proof, err := requireHexBytes(entry, "proof", 192)
		if err != nil {
			return nil, err
		}
		copy(o.Proof[:], proof)
		out[i] = o
	}
	return out, nil
}

func joinSplitsFromPorcelain(items []interface{}, useGroth bool) ([]*tx.JoinSplitDescription, error) {
	proofLen := tx.PHGRProofSize
	if useGroth {
		proofLen = tx.GrothProofSize
	}
	out := make([]*tx.JoinSplitDescription, len(items))
	for i, item := range items {
		entry, ok := item.(V)
		if !ok {
			return nil, errors.Errorf("[%d] must be an object", i)
		}
		j := &tx.JoinSplitDescription{}
		var err error
		if j.VpubOldZat, err = requireInt64(entry, "vpub_oldZat"); err != nil {
			return nil, err
		}
		if j.VpubNewZat, err = requireInt64(entry, "vpub_newZat"); err != nil {
			return nil, err
		}
		if j.Anchor, err = requireHash(entry, "anchor"); err != nil {
			return nil, err
		}
		nullifiers, ok := entry["nullifiers"].([]interface{})
		if !ok || len(nullifiers) != 2 {
			return nil, errors.Errorf("[%d] nullifiers must be an array of 2", i)
		}
		for k, n := range nullifiers {
			s, ok := n.(string)
			if !ok {
				return nil, errors.Errorf("[%d] nullifiers[%d] must be a string", i, k)
			}
			h, err := primitives.HashFromHex(s)
			if err != nil {
				return nil, errors.Wrapf(err, "[%d] nullifiers[%d]", i, k)
			}
			j.Nullifiers[k] = h
		}
		commitments, ok := entry["commitments"].([]interface{})
		if !ok || len(commitments) != 2 {
			return nil, errors.Errorf("[%d] commitments must be an array of 2", i)
		}
		for k, c := range commitments {
			s, ok := c.(string)
			if !ok {
				return nil, errors.Errorf("[%d] commitments[%d] must be a string", i, k)
			}
			h, err := primitives.HashFromHex(s)
			if err != nil {
				return nil, errors.Wrapf(err, "[%d] commitments[%d]", i, k)
			}
			j.Commitments[k] = h
		}
		if j.OnetimePubKey, err = requireHash(entry, "onetimePubKey"); err != nil {
			return nil, err
		}
		if j.RandomSeed, err = requireHash(entry, "randomSeed"); err != nil {
			return nil, err
		}
		macs, ok := entry["macs"].([]interface{})
		if !ok || len(macs) != 2 {
			return nil, errors.Errorf("[%d] macs must be an array of 2", i)
		}
		for k, m := range macs {
			s, ok := m.(string)
			if !ok {
				return nil, errors.Errorf("[%d] macs[%d] must be a string", i, k)
			}
			h, err := primitives.HashFromHex(s)
			if err != nil {
				return nil, errors.Wrapf(err, "[%d] macs[%d]", i, k)
			}
			j.Macs[k] = h
		}
		proof, err := requireHexBytes(entry, "proof", proofLen)
		if err != nil {
			return nil, err
		}
		j.Proof = proof
		ciphertexts, ok := entry["ciphertexts"].([]interface{})
		if !ok || len(ciphertexts) != 2 {
			return nil, errors.Errorf("[%d] ciphertexts must be an array of 2", i)
		}
		for k, c := range ciphertexts {
			s, ok := c.(string)
			if !ok {
				return nil, errors.Errorf("[%d] ciphertexts[%d] must be a string", i, k)
			}
			b, err := hex.DecodeString(s)
			if err != nil || len(b) != 601 {
				return nil, errors.Errorf("[%d] ciphertexts[%d] must be 601 hex-encoded bytes", i, k)
			}
			copy(j.Ciphertexts[k][:], b)
		}
		out[i] = j
	}
	return out, nil
}
