package input

import "sort"

// Capabilities is the set of event codes a device can produce, keyed by type.
type Capabilities map[uint16]map[uint16]struct{}

// Add records one (type, code) pair.
func (c Capabilities) Add(typ, code uint16) {
	codes, ok := c[typ]
	if !ok {
		codes = make(map[uint16]struct{})
		c[typ] = codes
	}
	codes[code] = struct{}{}
}

// AddType records a type without codes (EV_REP, EV_SYN).
func (c Capabilities) AddType(typ uint16) {
	if _, ok := c[typ]; !ok {
		c[typ] = make(map[uint16]struct{})
	}
}

// Has reports whether (type, code) is declared.
func (c Capabilities) Has(typ, code uint16) bool {
	_, ok := c[typ][code]
	return ok
}

// HasType reports whether any code of typ is declared.
func (c Capabilities) HasType(typ uint16) bool {
	_, ok := c[typ]
	return ok
}

// Types returns the declared types in ascending order.
func (c Capabilities) Types() []uint16 {
	types := make([]uint16, 0, len(c))
	for typ := range c {
		types = append(types, typ)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// Codes returns the declared codes of typ in ascending order.
func (c Capabilities) Codes(typ uint16) []uint16 {
	codes := make([]uint16, 0, len(c[typ]))
	for code := range c[typ] {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}

// Union returns a new set holding every pair of c and other.
func (c Capabilities) Union(other Capabilities) Capabilities {
	out := make(Capabilities, len(c))
	for _, src := range []Capabilities{c, other} {
		for typ, codes := range src {
			out.AddType(typ)
			for code := range codes {
				out.Add(typ, code)
			}
		}
	}
	return out
}

// MouseBaseline is the capability set every virtual mouse declares, so a
// source that under-reports its buttons or hi-res wheel still replays.
func MouseBaseline() Capabilities {
	c := make(Capabilities)
	c.AddType(EvSyn)
	for _, btn := range []uint16{BtnLeft, BtnRight, BtnMiddle, BtnSide, BtnExtra, BtnForward, BtnBack, BtnTask} {
		c.Add(EvKey, btn)
	}
	for _, rel := range []uint16{RelX, RelY, RelWheel, RelWheelHiRes, RelHWheel, RelHWheelHiRes} {
		c.Add(EvRel, rel)
	}
	c.Add(EvMsc, MscScan)
	return c
}
