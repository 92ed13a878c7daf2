package vm

import (
	"github.com/Ryex/ic10emu-sub001/compiler"
	"github.com/Ryex/ic10emu-sub001/enums"
	"github.com/Ryex/ic10emu-sub001/ic"
	"github.com/Ryex/ic10emu-sub001/network"
	"github.com/Ryex/ic10emu-sub001/object"
)

// Snapshot is a deep-copied point-in-time capture of every object and
// network the coordinator owns, grounded on lib.rs's save/restore
// transaction (spec.md §4.7): freeze copies out, thaw validates a whole
// replacement state before committing it, so a malformed snapshot never
// leaves the coordinator half-restored.
type Snapshot struct {
	Objects       map[object.ID]*object.Object
	Networks      map[object.NetworkID]*network.Network
	NextID        object.ID
	NextNetworkID object.NetworkID
}

// Freeze deep-copies the coordinator's full state.
func (c *Coordinator) Freeze() *Snapshot {
	s := &Snapshot{
		Objects:       make(map[object.ID]*object.Object, len(c.Objects)),
		Networks:      make(map[object.NetworkID]*network.Network, len(c.Networks)),
		NextID:        c.nextID,
		NextNetworkID: c.nextNetworkID,
	}
	for id, o := range c.Objects {
		s.Objects[id] = cloneObject(o)
	}
	for id, n := range c.Networks {
		s.Networks[id] = cloneNetwork(n)
	}
	return s
}

// Thaw validates a snapshot (every Device connection must name a
// network present in the same snapshot) and, only if it passes whole,
// replaces the coordinator's live state (spec.md §4.7 "finalize-then-
// commit").
func (c *Coordinator) Thaw(s *Snapshot) error {
	for id, o := range s.Objects {
		if o.Device == nil {
			continue
		}
		for _, conn := range o.Device.Connections {
			if conn.Connected {
				if _, ok := s.Networks[conn.Network]; !ok {
					return fault("InvalidSnapshot", "object %d references missing network %d", id, conn.Network)
				}
			}
		}
	}

	objects := make(map[object.ID]*object.Object, len(s.Objects))
	for id, o := range s.Objects {
		objects[id] = cloneObject(o)
	}
	networks := make(map[object.NetworkID]*network.Network, len(s.Networks))
	for id, n := range s.Networks {
		networks[id] = cloneNetwork(n)
	}

	c.Objects = objects
	c.Networks = networks
	c.nextID = s.NextID
	c.nextNetworkID = s.NextNetworkID
	c.Chips = make(map[object.ID]*ic.Chip, len(objects))
	for id, o := range c.Objects {
		if o.IC != nil {
			c.Chips[id] = ic.New(id, o.IC)
		}
	}
	return nil
}

func cloneObject(o *object.Object) *object.Object {
	cp := *o
	if o.Item != nil {
		v := *o.Item
		cp.Item = &v
	}
	if o.Storage != nil {
		v := *o.Storage
		v.Slots = append([]object.Slot(nil), o.Storage.Slots...)
		cp.Storage = &v
	}
	if o.Logicable != nil {
		v := *o.Logicable
		v.Fields = cloneAccessMap(o.Logicable.Fields)
		v.Values = cloneFloatMap(o.Logicable.Values)
		cp.Logicable = &v
	}
	if o.Memory != nil {
		v := *o.Memory
		v.Cells = append([]float64(nil), o.Memory.Cells...)
		cp.Memory = &v
	}
	if o.Device != nil {
		v := *o.Device
		v.Connections = append([]object.Connection(nil), o.Device.Connections...)
		v.Pins = append([]object.ID(nil), o.Device.Pins...)
		v.HasPins = append([]bool(nil), o.Device.HasPins...)
		cp.Device = &v
	}
	if o.Programmable != nil {
		v := *o.Programmable
		cp.Programmable = &v
	}
	if o.IC != nil {
		cp.IC = cloneIC(o.IC)
	}
	return &cp
}

func cloneIC(src *object.IntegratedCircuit) *object.IntegratedCircuit {
	cp := *src
	cp.Defines = make(map[string]float64, len(src.Defines))
	for k, v := range src.Defines {
		cp.Defines[k] = v
	}
	cp.Aliases = make(map[string]object.AliasTarget, len(src.Aliases))
	for k, v := range src.Aliases {
		cp.Aliases[k] = v
	}
	if src.Program != nil {
		cp.Program = compiler.CompileWithInvalid(src.SourceCode)
	}
	return &cp
}

func cloneAccessMap(m map[enums.LogicType]object.AccessKind) map[enums.LogicType]object.AccessKind {
	out := make(map[enums.LogicType]object.AccessKind, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneFloatMap(m map[enums.LogicType]float64) map[enums.LogicType]float64 {
	out := make(map[enums.LogicType]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneNetwork(n *network.Network) *network.Network {
	cp := network.New(n.ID)
	for id := range n.DataSet {
		cp.AddData(id)
	}
	for id := range n.PowerSet {
		cp.AddPower(id)
	}
	cp.Channels = n.Channels
	return cp
}
