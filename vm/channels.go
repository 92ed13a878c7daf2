package vm

import (
	"github.com/Ryex/ic10emu-sub001/network"
	"github.com/Ryex/ic10emu-sub001/object"
)

// GetNetworkChannel reads one of a network's eight Channel0..Channel7
// registers by index (spec.md §4.6 "get_network_channel").
func (c *Coordinator) GetNetworkChannel(netID object.NetworkID, idx int) (float64, error) {
	n, ok := c.Networks[netID]
	if !ok {
		return 0, fault("BadNetworkId", "no network with id %d", netID)
	}
	field, ok := network.ChannelField(idx)
	if !ok {
		return 0, fault("ChannelIndexOutOfRange", "channel index %d out of range", idx)
	}
	v, _ := n.GetLogic(field)
	return v, nil
}

// SetNetworkChannel writes one of a network's eight Channel0..Channel7
// registers by index (spec.md §4.6 "set_network_channel"); channels carry
// no write-only restriction, so force has no bearing on success here.
func (c *Coordinator) SetNetworkChannel(netID object.NetworkID, idx int, value float64, force bool) error {
	n, ok := c.Networks[netID]
	if !ok {
		return fault("BadNetworkId", "no network with id %d", netID)
	}
	field, ok := network.ChannelField(idx)
	if !ok {
		return fault("ChannelIndexOutOfRange", "channel index %d out of range", idx)
	}
	if !n.SetLogic(field, value, force) {
		return fault("ChannelIndexOutOfRange", "channel index %d out of range", idx)
	}
	return nil
}
