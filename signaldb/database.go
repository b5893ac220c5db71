// Package signaldb loads CAN message and signal definitions from YAML
// files and decodes frame payloads into engineering-unit values. It
// implements the engine's SignalDecoder contract; an arbitration ID with
// no definition decodes to nil, which the table renders as an empty
// signal column.
package signaldb

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// SignalDef describes how to extract and scale one signal.
type SignalDef struct {
	Name      string  `yaml:"name"`
	StartBit  int     `yaml:"start_bit"`
	Length    int     `yaml:"length"`
	ByteOrder string  `yaml:"byte_order"` // "little" (default) or "big"
	Signed    bool    `yaml:"signed"`
	Factor    float64 `yaml:"factor"`
	Offset    float64 `yaml:"offset"`
	Unit      string  `yaml:"unit"`
}

// MessageDef describes one CAN message and its signals.
type MessageDef struct {
	ID      uint32      `yaml:"id"`
	Name    string      `yaml:"name"`
	Length  int         `yaml:"length"`
	Signals []SignalDef `yaml:"signals"`
}

type databaseFile struct {
	Name     string       `yaml:"name"`
	Messages []MessageDef `yaml:"messages"`
}

// Database is an indexed set of message definitions.
type Database struct {
	Name     string
	FilePath string
	byID     map[uint32]*MessageDef
}

// Load reads a YAML definition file and validates it.
func Load(path string) (*Database, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("signaldb: reading %s: %w", path, err)
	}

	var file databaseFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("signaldb: parsing %s: %w", path, err)
	}

	db := &Database{
		Name:     file.Name,
		FilePath: path,
		byID:     make(map[uint32]*MessageDef, len(file.Messages)),
	}

	for i := range file.Messages {
		msg := &file.Messages[i]
		if msg.Name == "" {
			return nil, fmt.Errorf("signaldb: %s: message 0x%X has no name", path, msg.ID)
		}
		for j := range msg.Signals {
			sig := &msg.Signals[j]
			if sig.Factor == 0 {
				sig.Factor = 1
			}
			if sig.Length <= 0 || sig.Length > 64 {
				return nil, fmt.Errorf("signaldb: %s: signal %s.%s has invalid length %d",
					path, msg.Name, sig.Name, sig.Length)
			}
			switch sig.ByteOrder {
			case "", "little", "big":
			default:
				return nil, fmt.Errorf("signaldb: %s: signal %s.%s has unknown byte order %q",
					path, msg.Name, sig.Name, sig.ByteOrder)
			}
		}
		db.byID[msg.ID] = msg
	}

	return db, nil
}

// MessageByID returns the definition for an arbitration ID, or nil.
func (db *Database) MessageByID(id uint32) *MessageDef {
	return db.byID[id]
}

// MessageCount returns the number of message definitions.
func (db *Database) MessageCount() int {
	return len(db.byID)
}

// IDs returns the defined arbitration IDs in ascending order.
func (db *Database) IDs() []uint32 {
	ids := make([]uint32, 0, len(db.byID))
	for id := range db.byID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
