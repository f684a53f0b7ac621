// Package domain contains the core entities for fast.
// These entities model fasting protocols, the session timer and the
// history aggregates derived from finished sessions. They are independent
// of any storage, terminal or scheduling infrastructure.
package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Common domain errors.
var (
	ErrInvalidTransition = errors.New("invalid session transition")
	ErrInvalidProtocol   = errors.New("invalid protocol")
	ErrProtocolNotFound  = errors.New("protocol not found")
	ErrNoActiveSession   = errors.New("no active fasting session")
	ErrRecordNotFound    = errors.New("record not found")
	ErrInvalidRecord     = errors.New("invalid session record")
	ErrStaleCheckpoint   = errors.New("active session changed since it was loaded")
)

// Protocol is a named fast/eat duration pair such as "16:8".
type Protocol struct {
	Name      string
	FastHours int
	EatHours  int
}

// NewProtocol validates and builds a protocol. An empty name defaults to
// the "fast:eat" notation.
func NewProtocol(name string, fastHours, eatHours int) (Protocol, error) {
	if fastHours <= 0 {
		return Protocol{}, fmt.Errorf("%w: fast hours must be positive, got %d", ErrInvalidProtocol, fastHours)
	}
	if eatHours < 0 {
		return Protocol{}, fmt.Errorf("%w: eat hours cannot be negative, got %d", ErrInvalidProtocol, eatHours)
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = fmt.Sprintf("%d:%d", fastHours, eatHours)
	}

	return Protocol{Name: name, FastHours: fastHours, EatHours: eatHours}, nil
}

// TargetSeconds is the fast duration in seconds.
func (p Protocol) TargetSeconds() int {
	return p.FastHours * 3600
}

// Label returns a human-readable description, e.g. "16h fast · 8h eating".
func (p Protocol) Label() string {
	if p.EatHours == 0 {
		return fmt.Sprintf("%dh fast", p.FastHours)
	}
	return fmt.Sprintf("%dh fast · %dh eating", p.FastHours, p.EatHours)
}

// DefaultProtocols returns the built-in protocols.
func DefaultProtocols() []Protocol {
	return []Protocol{
		{Name: "16:8", FastHours: 16, EatHours: 8},
		{Name: "18:6", FastHours: 18, EatHours: 6},
		{Name: "20:4", FastHours: 20, EatHours: 4},
		{Name: "24:0", FastHours: 24, EatHours: 0},
	}
}

// Catalog is the immutable list of protocols available to a session.
type Catalog struct {
	protocols []Protocol
}

// NewCatalog builds a catalog, rejecting invalid protocols and duplicate names.
func NewCatalog(protocols ...Protocol) (*Catalog, error) {
	seen := make(map[string]bool, len(protocols))
	list := make([]Protocol, 0, len(protocols))

	for _, p := range protocols {
		valid, err := NewProtocol(p.Name, p.FastHours, p.EatHours)
		if err != nil {
			return nil, err
		}
		key := strings.ToLower(valid.Name)
		if seen[key] {
			return nil, fmt.Errorf("%w: duplicate name %q", ErrInvalidProtocol, valid.Name)
		}
		seen[key] = true
		list = append(list, valid)
	}

	if len(list) == 0 {
		return nil, fmt.Errorf("%w: catalog is empty", ErrInvalidProtocol)
	}

	return &Catalog{protocols: list}, nil
}

// DefaultCatalog returns a catalog with the built-in protocols.
func DefaultCatalog() *Catalog {
	return &Catalog{protocols: DefaultProtocols()}
}

// All returns a copy of the protocols in catalog order.
func (c *Catalog) All() []Protocol {
	out := make([]Protocol, len(c.protocols))
	copy(out, c.protocols)
	return out
}

// Names returns the protocol names in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.protocols))
	for i, p := range c.protocols {
		names[i] = p.Name
	}
	return names
}

// Find looks up a protocol by name, ignoring case.
func (c *Catalog) Find(name string) (Protocol, error) {
	name = strings.TrimSpace(name)
	for _, p := range c.protocols {
		if strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	return Protocol{}, fmt.Errorf("%w: %q", ErrProtocolNotFound, name)
}
