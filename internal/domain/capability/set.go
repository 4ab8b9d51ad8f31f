package capability

import "sort"

// Set represents a collection of granted or declared capabilities.
type Set struct {
	capabilities map[string]Capability
}

// NewSet creates an empty capability set.
func NewSet() *Set {
	return &Set{capabilities: make(map[string]Capability)}
}

// NewSetFrom creates a set from a slice of capabilities.
func NewSetFrom(caps []Capability) *Set {
	s := NewSet()
	for _, c := range caps {
		s.Add(c)
	}
	return s
}

// ParseSet parses a set from string representations.
func ParseSet(strs []string) (*Set, error) {
	s := NewSet()
	for _, str := range strs {
		c, err := Parse(str)
		if err != nil {
			return nil, err
		}
		s.Add(c)
	}
	return s, nil
}

// Add adds a capability to the set.
func (s *Set) Add(c Capability) {
	if !c.IsZero() {
		s.capabilities[c.String()] = c
	}
}

// Remove removes a capability from the set.
func (s *Set) Remove(c Capability) {
	delete(s.capabilities, c.String())
}

// Has checks if the set contains a capability.
func (s *Set) Has(c Capability) bool {
	if s == nil {
		return false
	}
	_, ok := s.capabilities[c.String()]
	return ok
}

// ContainsAll checks if the set contains every capability of other.
func (s *Set) ContainsAll(other *Set) bool {
	if other == nil {
		return true
	}
	for _, c := range other.capabilities {
		if !s.Has(c) {
			return false
		}
	}
	return true
}

// List returns all capabilities sorted by string representation.
func (s *Set) List() []Capability {
	if s == nil {
		return nil
	}
	result := make([]Capability, 0, len(s.capabilities))
	for _, c := range s.capabilities {
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].String() < result[j].String()
	})
	return result
}

// Strings returns all capabilities as sorted strings.
func (s *Set) Strings() []string {
	caps := s.List()
	result := make([]string, len(caps))
	for i, c := range caps {
		result[i] = c.String()
	}
	return result
}

// Count returns the number of capabilities.
func (s *Set) Count() int {
	if s == nil {
		return 0
	}
	return len(s.capabilities)
}

// IsEmpty returns true if the set has no capabilities.
func (s *Set) IsEmpty() bool {
	return s.Count() == 0
}

// Dangerous returns the dangerous capabilities in the set.
func (s *Set) Dangerous() []Capability {
	var result []Capability
	for _, c := range s.List() {
		if c.IsDangerous() {
			result = append(result, c)
		}
	}
	return result
}

// Clone creates a copy of the set.
func (s *Set) Clone() *Set {
	result := NewSet()
	if s == nil {
		return result
	}
	for _, c := range s.capabilities {
		result.Add(c)
	}
	return result
}
