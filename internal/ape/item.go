package ape

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/simonhull/audiotag/internal/types"
)

// ItemType is the value kind stored in an item's flags (bits 2-1). The
// set is closed; decode and render switch over it exhaustively.
type ItemType int

const (
	// ItemText is UTF-8 text, possibly multi-valued (values separated
	// by zero bytes on the wire).
	ItemText ItemType = 0
	// ItemBinary is opaque binary data.
	ItemBinary ItemType = 1
	// ItemLocator is a link to external stored information (a URL),
	// stored like text.
	ItemLocator ItemType = 2
)

// String returns the item type name.
func (t ItemType) String() string {
	switch t {
	case ItemText:
		return "text"
	case ItemBinary:
		return "binary"
	case ItemLocator:
		return "locator"
	default:
		return "reserved"
	}
}

// Item is a single APE tag item: a printable-ASCII key plus one typed
// value. Keys are looked up case-insensitively but stored with their
// original case.
type Item struct {
	Key      string
	Type     ItemType
	ReadOnly bool

	// Values holds the decoded strings for ItemText and ItemLocator.
	Values []string

	// Data holds the payload for ItemBinary.
	Data []byte
}

// Reserved keys that must not be used for items; they collide with other
// tagging systems' magic strings.
var reservedKeys = []string{"ID3", "TAG", "OggS", "MP+"}

// ValidateKey checks the APE item key constraints: 2-255 characters,
// printable ASCII only, and not one of the reserved words. The reserved
// check is case-insensitive.
func ValidateKey(key string) error {
	if len(key) < 2 || len(key) > 255 {
		return &types.ParseError{
			Kind:   types.ErrInvalidIdentifier,
			What:   "item key",
			Detail: fmt.Sprintf("key length %d outside 2..255", len(key)),
		}
	}
	for i := 0; i < len(key); i++ {
		if key[i] < 0x20 || key[i] > 0x7E {
			return &types.ParseError{
				Kind:   types.ErrInvalidIdentifier,
				What:   "item key",
				Detail: fmt.Sprintf("non-printable byte 0x%02X in key", key[i]),
			}
		}
	}
	for _, reserved := range reservedKeys {
		if strings.EqualFold(key, reserved) {
			return &types.ParseError{
				Kind:   types.ErrInvalidIdentifier,
				What:   "item key",
				Detail: fmt.Sprintf("%q is reserved", key),
			}
		}
	}
	return nil
}

// NewTextItem constructs a text item, validating the key.
func NewTextItem(key string, values ...string) (Item, error) {
	if err := ValidateKey(key); err != nil {
		return Item{}, err
	}
	return Item{Key: key, Type: ItemText, Values: append([]string(nil), values...)}, nil
}

// NewBinaryItem constructs a binary item, validating the key.
func NewBinaryItem(key string, data []byte) (Item, error) {
	if err := ValidateKey(key); err != nil {
		return Item{}, err
	}
	return Item{Key: key, Type: ItemBinary, Data: bytes.Clone(data)}, nil
}

// NewLocatorItem constructs an external-locator item, validating the key.
func NewLocatorItem(key, location string) (Item, error) {
	if err := ValidateKey(key); err != nil {
		return Item{}, err
	}
	return Item{Key: key, Type: ItemLocator, Values: []string{location}}, nil
}

// Value returns the first value of a text or locator item, or "".
func (i *Item) Value() string {
	if len(i.Values) == 0 {
		return ""
	}
	return i.Values[0]
}

// valueBytes encodes the item's value for the wire, switching
// exhaustively over the closed type set.
func (i *Item) valueBytes() ([]byte, error) {
	switch i.Type {
	case ItemText, ItemLocator:
		return []byte(strings.Join(i.Values, "\x00")), nil
	case ItemBinary:
		return i.Data, nil
	default:
		return nil, &types.ParseError{
			Kind:   types.ErrInvalidEncoding,
			What:   "item type",
			Detail: fmt.Sprintf("reserved type %d", i.Type),
		}
	}
}

// decodeValue fills the item's value from wire bytes per its type.
func (i *Item) decodeValue(value []byte) error {
	switch i.Type {
	case ItemText, ItemLocator:
		if len(value) == 0 {
			i.Values = []string{""}
			return nil
		}
		for _, part := range bytes.Split(value, []byte{0}) {
			i.Values = append(i.Values, string(part))
		}
		return nil
	case ItemBinary:
		i.Data = bytes.Clone(value)
		return nil
	default:
		return &types.ParseError{
			Kind:   types.ErrInvalidEncoding,
			What:   "item type",
			Detail: fmt.Sprintf("reserved type %d", i.Type),
		}
	}
}
