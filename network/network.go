// Package network implements the IC10 network fabric: a two-tier
// (data/power) membership set plus eight shared f64 channel registers,
// grounded on ic10emu's vm/object Network trait generalized from the
// teacher's emul CPU bus/peripheral wiring pattern.
package network

import (
	"fmt"
	"math"

	"github.com/Ryex/ic10emu-sub001/enums"
	"github.com/Ryex/ic10emu-sub001/object"
)

const channelCount = 8

// Network is one cable network: an ID, a data-set, a power-set, and an
// 8-register channel file initialized to NaN (spec.md §4.5).
type Network struct {
	ID       object.NetworkID
	DataSet  map[object.ID]bool
	PowerSet map[object.ID]bool
	Channels [channelCount]float64
}

// New returns an empty network with all channels set to NaN (spec.md
// §4.5 "channel register file ... initialized to NaN").
func New(id object.NetworkID) *Network {
	n := &Network{
		ID:       id,
		DataSet:  make(map[object.ID]bool),
		PowerSet: make(map[object.ID]bool),
	}
	for i := range n.Channels {
		n.Channels[i] = math.NaN()
	}
	return n
}

func (n *Network) ContainsData(id object.ID) bool { return n.DataSet[id] }

func (n *Network) ContainsAllData(ids []object.ID) bool {
	for _, id := range ids {
		if !n.DataSet[id] {
			return false
		}
	}
	return true
}

func (n *Network) ContainsPower(id object.ID) bool { return n.PowerSet[id] }

// DataVisible returns the data-set minus the caller (spec.md §4.5
// "data_visible(source)").
func (n *Network) DataVisible(source object.ID) []object.ID {
	out := make([]object.ID, 0, len(n.DataSet))
	for id := range n.DataSet {
		if id != source {
			out = append(out, id)
		}
	}
	return out
}

func (n *Network) AddData(id object.ID)     { n.DataSet[id] = true }
func (n *Network) RemoveData(id object.ID)  { delete(n.DataSet, id) }
func (n *Network) AddPower(id object.ID)    { n.PowerSet[id] = true }
func (n *Network) RemovePower(id object.ID) { delete(n.PowerSet, id) }

// RemoveAll scrubs an id from both tiers (spec.md §4.6
// "remove_device_from_network").
func (n *Network) RemoveAll(id object.ID) {
	delete(n.DataSet, id)
	delete(n.PowerSet, id)
}

var channelFields [channelCount]enums.LogicType

func init() {
	for i := 0; i < channelCount; i++ {
		name := fmt.Sprintf("Channel%d", i)
		lt, ok := enums.LogicTypeFromName(name)
		if !ok {
			panic("network: missing LogicType for " + name)
		}
		channelFields[i] = lt
	}
}

// ChannelField maps a 0-based channel index to the LogicType GetLogic/
// SetLogic expect, for callers (the coordinator's get/set_network_channel)
// that address channels by index rather than by field name.
func ChannelField(idx int) (enums.LogicType, bool) {
	if idx < 0 || idx >= channelCount {
		return 0, false
	}
	return channelFields[idx], true
}

// GetLogic reads one of the eight Channel{0..7} fields (spec.md §4.5
// "Channels are exposed as 8 logic fields").
func (n *Network) GetLogic(field enums.LogicType) (float64, bool) {
	for i, f := range channelFields {
		if f == field {
			return n.Channels[i], true
		}
	}
	return 0, false
}

// SetLogic writes one of the eight Channel{0..7} fields. force has no
// effect: channels carry no write-only restriction in the base design
// (spec.md §4.5 "no write-only restriction in the base design").
func (n *Network) SetLogic(field enums.LogicType, value float64, force bool) bool {
	for i, f := range channelFields {
		if f == field {
			n.Channels[i] = value
			return true
		}
	}
	return false
}
