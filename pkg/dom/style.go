package dom

import "strings"

// StyleDecl is an element's style surface: an ordered key/value list that
// can also be read and written as one CSS declaration string.
type StyleDecl struct {
	owner *Node
	keys  []string
	vals  map[string]string
}

func newStyleDecl(owner *Node) *StyleDecl {
	return &StyleDecl{owner: owner, vals: make(map[string]string)}
}

func (s *StyleDecl) clone() *StyleDecl {
	c := newStyleDecl(nil)
	c.keys = append(c.keys, s.keys...)
	for k, v := range s.vals {
		c.vals[k] = v
	}
	return c
}

// Style returns the element's style surface, creating it on first use.
func (n *Node) Style() *StyleDecl {
	if n.style == nil {
		n.style = newStyleDecl(n)
	}
	n.style.owner = n
	return n.style
}

// SetProperty sets one style key. An empty value removes the key, which
// is how the reconciler resets keys dropped from a style mapping.
func (s *StyleDecl) SetProperty(key, value string) {
	if value == "" {
		s.RemoveProperty(key)
		return
	}
	if old, ok := s.vals[key]; ok {
		if old == value {
			return
		}
		s.vals[key] = value
		s.countOp()
		return
	}
	s.keys = append(s.keys, key)
	s.vals[key] = value
	s.countOp()
}

// GetProperty returns the value for one style key, or "".
func (s *StyleDecl) GetProperty(key string) string {
	return s.vals[key]
}

// RemoveProperty removes one style key if present.
func (s *StyleDecl) RemoveProperty(key string) {
	if _, ok := s.vals[key]; !ok {
		return
	}
	delete(s.vals, key)
	for i, k := range s.keys {
		if k == key {
			copy(s.keys[i:], s.keys[i+1:])
			s.keys = s.keys[:len(s.keys)-1]
			break
		}
	}
	s.countOp()
}

// Clear removes every style key.
func (s *StyleDecl) Clear() {
	if len(s.keys) == 0 {
		return
	}
	s.keys = s.keys[:0]
	s.vals = make(map[string]string)
	s.countOp()
}

// Len returns the number of style keys.
func (s *StyleDecl) Len() int { return len(s.keys) }

// CSSText returns the whole declaration as a CSS string.
func (s *StyleDecl) CSSText() string {
	var b strings.Builder
	for i, k := range s.keys {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(k)
		b.WriteByte(':')
		b.WriteString(s.vals[k])
	}
	return b.String()
}

// SetCSSText replaces the whole declaration from a CSS string. Parsing is
// deliberately loose: "key:value" pairs separated by semicolons.
func (s *StyleDecl) SetCSSText(css string) {
	s.keys = s.keys[:0]
	s.vals = make(map[string]string)
	for _, decl := range strings.Split(css, ";") {
		k, v, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		k = strings.TrimSpace(k)
		v = strings.TrimSpace(v)
		if k == "" || v == "" {
			continue
		}
		if _, dup := s.vals[k]; !dup {
			s.keys = append(s.keys, k)
		}
		s.vals[k] = v
	}
	s.countOp()
}

func (s *StyleDecl) countOp() {
	if s.owner != nil && s.owner.doc != nil {
		s.owner.doc.countOp()
	}
}
