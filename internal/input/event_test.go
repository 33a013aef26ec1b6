package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		ev     Event
		axis   Axis
		scroll ScrollAxis
	}{
		{"wheel", Event{Type: EvRel, Code: RelWheel, Value: 1}, AxisVerticalWheel, ScrollVertical},
		{"hwheel", Event{Type: EvRel, Code: RelHWheel, Value: -1}, AxisHorizontalWheel, ScrollHorizontal},
		{"wheel hi-res", Event{Type: EvRel, Code: RelWheelHiRes, Value: 120}, AxisHighResVerticalWheel, ScrollVertical},
		{"hwheel hi-res", Event{Type: EvRel, Code: RelHWheelHiRes, Value: 120}, AxisHighResHorizontalWheel, ScrollHorizontal},
		{"pointer motion", Event{Type: EvRel, Code: RelX, Value: 4}, AxisOther, ScrollNone},
		{"dial", Event{Type: EvRel, Code: RelDial, Value: 1}, AxisOther, ScrollNone},
		{"button", Event{Type: EvKey, Code: BtnLeft, Value: 1}, AxisOther, ScrollNone},
		{"sync", Event{Type: EvSyn, Code: SynReport}, AxisOther, ScrollNone},
		{"wheel code on other type", Event{Type: EvAbs, Code: RelWheel}, AxisOther, ScrollNone},
		{"out of range rel code", Event{Type: EvRel, Code: 0x40}, AxisOther, ScrollNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			axis := Classify(tt.ev)
			assert.Equal(t, tt.axis, axis)
			assert.Equal(t, tt.scroll, axis.Scroll())
			assert.Equal(t, tt.axis != AxisOther, axis.IsWheel())
		})
	}
}

func TestAxis_IsHighRes(t *testing.T) {
	assert.True(t, AxisHighResVerticalWheel.IsHighRes())
	assert.True(t, AxisHighResHorizontalWheel.IsHighRes())
	assert.False(t, AxisVerticalWheel.IsHighRes())
	assert.False(t, AxisOther.IsHighRes())
}

func TestEvent_String(t *testing.T) {
	assert.Equal(t, "REL REL_WHEEL -1", Event{Type: EvRel, Code: RelWheel, Value: -1}.String())
	assert.Equal(t, "SYN SYN_REPORT 0", Event{Type: EvSyn, Code: SynReport}.String())
	assert.Equal(t, "0x30 0x001 7", Event{Type: 0x30, Code: 1, Value: 7}.String())
}

func TestEvent_IsSyncReport(t *testing.T) {
	assert.True(t, Event{Type: EvSyn, Code: SynReport}.IsSyncReport())
	assert.False(t, Event{Type: EvSyn, Code: SynDropped}.IsSyncReport())
	assert.False(t, Event{Type: EvRel, Code: 0}.IsSyncReport())
}

func TestParseTypeAndCode(t *testing.T) {
	typ, err := ParseType("rel")
	require.NoError(t, err)
	assert.Equal(t, EvRel, typ)

	typ, err = ParseType("EV_KEY")
	require.NoError(t, err)
	assert.Equal(t, EvKey, typ)

	typ, err = ParseType("0x04")
	require.NoError(t, err)
	assert.Equal(t, EvMsc, typ)

	_, err = ParseType("bogus")
	assert.Error(t, err)

	code, err := ParseCode(EvRel, "rel_wheel_hi_res")
	require.NoError(t, err)
	assert.Equal(t, RelWheelHiRes, code)

	code, err = ParseCode(EvKey, "272")
	require.NoError(t, err)
	assert.Equal(t, BtnLeft, code)

	_, err = ParseCode(EvSyn, "REL_WHEEL")
	assert.Error(t, err)
}

func TestCapabilities(t *testing.T) {
	caps := make(Capabilities)
	caps.Add(EvRel, RelWheel)
	caps.Add(EvRel, RelX)
	caps.AddType(EvRep)

	assert.True(t, caps.Has(EvRel, RelWheel))
	assert.False(t, caps.Has(EvRel, RelHWheel))
	assert.True(t, caps.HasType(EvRep))
	assert.Empty(t, caps.Codes(EvRep))
	assert.Equal(t, []uint16{EvRel, EvRep}, caps.Types())
	assert.Equal(t, []uint16{RelX, RelWheel}, caps.Codes(EvRel))

	union := caps.Union(MouseBaseline())
	assert.True(t, union.Has(EvRel, RelWheelHiRes))
	assert.True(t, union.Has(EvKey, BtnTask))
	assert.True(t, union.HasType(EvRep))
	assert.False(t, caps.Has(EvKey, BtnLeft), "union must not mutate the receiver")
}
