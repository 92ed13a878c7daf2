package vm

import "github.com/Ryex/ic10emu-sub001/object"

// SetPin wires a chip's pin index to a target device id, the
// coordinator-side half of an `alias`/d0..d5 device reference (spec.md
// §4.6 "pin wiring").
func (c *Coordinator) SetPin(chip object.ID, pin int, target object.ID) error {
	o, err := c.obj(chip)
	if err != nil {
		return err
	}
	if o.IC == nil {
		return fault("NotAnIntegratedCircuit", "object %d has no pins", chip)
	}
	if pin < 0 || pin >= len(o.IC.Pins) {
		return fault("PinIndexOutOfRange", "pin %d out of range", pin)
	}
	o.IC.Pins[pin] = target
	o.IC.HasPin[pin] = true
	return nil
}

// ClearPin disconnects a chip's pin.
func (c *Coordinator) ClearPin(chip object.ID, pin int) error {
	o, err := c.obj(chip)
	if err != nil {
		return err
	}
	if o.IC == nil || pin < 0 || pin >= len(o.IC.Pins) {
		return fault("PinIndexOutOfRange", "pin %d out of range", pin)
	}
	o.IC.Pins[pin] = 0
	o.IC.HasPin[pin] = false
	return nil
}

// SetCircuitHolder records which device holds a chip -- the target of
// the `db` device spec (spec.md §4.6).
func (c *Coordinator) SetCircuitHolder(chip, holder object.ID) error {
	o, err := c.obj(chip)
	if err != nil {
		return err
	}
	if o.IC == nil {
		return fault("NotAnIntegratedCircuit", "object %d cannot be held", chip)
	}
	o.IC.CircuitHolder = holder
	o.IC.HasCircuitHolder = true
	return nil
}

// SetDeviceConnection attaches a device's cable slot to a network,
// updating the network's membership sets by the connection's carried
// type (spec.md §4.5/§4.6 "set_device_connection"). Rewiring an
// already-connected slot to a different network drops it from the old
// network's tiers first, unless another still-connected slot on the same
// device keeps a tier alive there.
func (c *Coordinator) SetDeviceConnection(device object.ID, connIdx int, netID object.NetworkID) error {
	o, err := c.obj(device)
	if err != nil {
		return err
	}
	if o.Device == nil || connIdx < 0 || connIdx >= len(o.Device.Connections) {
		return fault("ConnectionIndexOutOfRange", "connection %d out of range on object %d", connIdx, device)
	}
	n, ok := c.Networks[netID]
	if !ok {
		return fault("NetworkNotFound", "no network with id %d", netID)
	}
	conn := &o.Device.Connections[connIdx]
	if conn.Connected && conn.Network != netID {
		if old, ok := c.Networks[conn.Network]; ok {
			if !otherConnectionSupplies(o, connIdx, conn.Network, object.ConnData) {
				old.RemoveData(device)
			}
			if !otherConnectionSupplies(o, connIdx, conn.Network, object.ConnPower) {
				old.RemovePower(device)
			}
		}
	}
	conn.Network = netID
	conn.Connected = true
	switch conn.Type {
	case object.ConnData:
		n.AddData(device)
	case object.ConnPower:
		n.AddPower(device)
	case object.ConnPowerAndData:
		n.AddData(device)
		n.AddPower(device)
	}
	return nil
}

// DisconnectDevice removes a device's cable slot from its network. A tier
// (data/power) is only dropped from the network's membership sets if no
// other still-connected slot on the same device also feeds that tier into
// the same network (spec.md §4.6 "set_device_connection" disconnect path;
// mirrors vm.rs's set_device_connection sibling-connection check).
func (c *Coordinator) DisconnectDevice(device object.ID, connIdx int) error {
	o, err := c.obj(device)
	if err != nil {
		return err
	}
	if o.Device == nil || connIdx < 0 || connIdx >= len(o.Device.Connections) {
		return fault("ConnectionIndexOutOfRange", "connection %d out of range on object %d", connIdx, device)
	}
	conn := &o.Device.Connections[connIdx]
	if conn.Connected {
		if n, ok := c.Networks[conn.Network]; ok {
			net := conn.Network
			if !otherConnectionSupplies(o, connIdx, net, object.ConnData) {
				n.RemoveData(device)
			}
			if !otherConnectionSupplies(o, connIdx, net, object.ConnPower) {
				n.RemovePower(device)
			}
		}
	}
	conn.Connected = false
	return nil
}

// otherConnectionSupplies reports whether some connection on o other than
// connIdx is still connected to net and carries tier (or PowerAndData,
// which carries both).
func otherConnectionSupplies(o *object.Object, connIdx int, net object.NetworkID, tier object.ConnectionType) bool {
	for i, sibling := range o.Device.Connections {
		if i == connIdx || !sibling.Connected || sibling.Network != net {
			continue
		}
		if sibling.Type == tier || sibling.Type == object.ConnPowerAndData {
			return true
		}
	}
	return false
}
