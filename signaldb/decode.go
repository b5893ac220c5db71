package signaldb

import (
	"github.com/canscope/canscope/engine"
)

// Decoder decodes frames against a loaded database. It is stateless and
// safe for concurrent use once the database is built.
type Decoder struct {
	db *Database
}

// NewDecoder wraps a database as an engine.SignalDecoder.
func NewDecoder(db *Database) *Decoder {
	return &Decoder{db: db}
}

// Decode extracts every defined signal of the frame's message. A frame
// whose ID has no definition, or whose payload is shorter than the
// definition expects, decodes to nil; neither is an error.
func (d *Decoder) Decode(f *engine.Frame) *engine.DecodedMessage {
	if d == nil || d.db == nil {
		return nil
	}

	def := d.db.MessageByID(f.ID)
	if def == nil {
		return nil
	}
	if def.Length > 0 && f.Length() < def.Length {
		return nil
	}

	decoded := &engine.DecodedMessage{
		Name:    def.Name,
		Signals: make([]engine.SignalValue, 0, len(def.Signals)),
	}

	for i := range def.Signals {
		sig := &def.Signals[i]
		raw, ok := extractBits(f.Data, sig.StartBit, sig.Length, sig.ByteOrder == "big")
		if !ok {
			continue // signal exceeds this payload; skip it, keep the rest
		}

		value := scale(raw, sig)
		decoded.Signals = append(decoded.Signals, engine.SignalValue{
			Name:  sig.Name,
			Value: value,
			Unit:  sig.Unit,
			Raw:   raw,
		})
	}

	if len(decoded.Signals) == 0 {
		return nil
	}
	return decoded
}

// extractBits pulls length bits starting at startBit out of the payload.
// Little endian counts bits Intel-style (LSB first across ascending
// bytes); big endian follows the Motorola convention where startBit names
// the most significant bit.
func extractBits(data []byte, startBit, length int, bigEndian bool) (uint64, bool) {
	if length <= 0 || length > 64 || startBit < 0 {
		return 0, false
	}

	totalBits := len(data) * 8
	var raw uint64

	if !bigEndian {
		if startBit+length > totalBits {
			return 0, false
		}
		for i := 0; i < length; i++ {
			bit := startBit + i
			if data[bit/8]&(1<<(bit%8)) != 0 {
				raw |= 1 << i
			}
		}
		return raw, true
	}

	// Motorola: walk from the MSB downwards within each byte, moving to
	// the next byte's bit 7 after bit 0.
	bit := startBit
	for i := 0; i < length; i++ {
		if bit < 0 || bit >= totalBits {
			return 0, false
		}
		raw <<= 1
		if data[bit/8]&(1<<(bit%8)) != 0 {
			raw |= 1
		}
		if bit%8 == 0 {
			bit += 15
		} else {
			bit--
		}
	}
	return raw, true
}

// scale applies sign extension, factor and offset.
func scale(raw uint64, sig *SignalDef) float64 {
	if sig.Signed && sig.Length < 64 {
		signBit := uint64(1) << (sig.Length - 1)
		if raw&signBit != 0 {
			// two's complement within the signal width
			extended := int64(raw) - int64(uint64(1)<<sig.Length)
			return float64(extended)*sig.Factor + sig.Offset
		}
	}
	return float64(raw)*sig.Factor + sig.Offset
}
