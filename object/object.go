// Package object implements the IC10 object model: a tagged-variant
// Object whose capabilities (Item, Storage, Logicable, Memory, Device,
// Programmable, IntegratedCircuit) are fixed at construction from its
// ObjectTemplate and never change afterward. There is no separate
// CircuitHolder capability: a chip's holder is recorded on its
// IntegratedCircuit.
// Grounded on ic10emu's vm/object/generic + stationpedia struct set,
// translated from Rust's per-struct trait impls into Go's
// optional-capability-pointer idiom used by the teacher's own tagged
// CPU/device structs in emul/cpu.go.
package object

import (
	"fmt"
	"hash/crc32"

	"github.com/Ryex/ic10emu-sub001/enums"
)

// ID is an object identifier; objects share one ID space (spec.md §3).
type ID uint32

// NetworkID is a network identifier; networks have a separate ID space.
type NetworkID uint32

// AccessKind is the per-field read/write permission bitmap entry
// (spec.md §4.4 "Field access control").
type AccessKind uint8

const (
	AccessNone AccessKind = iota
	AccessRead
	AccessWrite
	AccessReadWrite
)

func (a AccessKind) CanRead() bool  { return a == AccessRead || a == AccessReadWrite }
func (a AccessKind) CanWrite() bool { return a == AccessWrite || a == AccessReadWrite }

// ConnectionType tags what a Device's cable connection can carry
// (spec.md §3 Device capability).
type ConnectionType uint8

const (
	ConnPower ConnectionType = iota
	ConnData
	ConnPowerAndData
)

// Connection is one cable slot on a Device; Connected reports whether it
// currently names a live network.
type Connection struct {
	Type      ConnectionType
	Network   NetworkID
	Connected bool
}

// HashName computes the display-name hash used for NameHash and for
// batch_device's optional name filter (spec.md §3, §4.6).
func HashName(name string) int32 {
	return int32(crc32.ChecksumIEEE([]byte(name)))
}

// Prefab is an object's immutable identity (spec.md §3).
type Prefab struct {
	Name string
	Hash int32
}

// Slot is one Storage slot: a fixed class and an optional occupant.
type Slot struct {
	SlotClass   string
	MaxQuantity uint32
	Occupant    ID
	HasOccupant bool
	Quantity    uint32
}

// ItemData is the Item capability (spec.md §3).
type ItemData struct {
	SlotClass     string
	MaxQuantity   uint32
	FilterGas     string
	HasFilterGas  bool
	ParentOwner   ID
	ParentSlot    uint32
	HasParentSlot bool
}

// StorageData is the Storage capability: a fixed-length slot array.
type StorageData struct {
	Slots []Slot
}

// LogicableData is the Logicable capability: per-field access control
// plus the live field values for non-synthetic fields.
type LogicableData struct {
	Fields map[enums.LogicType]AccessKind
	Values map[enums.LogicType]float64
}

// MemoryData backs MemoryReadable/MemoryWritable.
type MemoryData struct {
	Cells []float64
}

// DeviceData is the Device capability: cable connections and pins.
type DeviceData struct {
	Connections []Connection
	Pins        []ID
	HasPins     []bool
	On          bool
}

// ProgrammableData is the Programmable capability (spec.md §4.3's
// Programmable operations operate on the IC held by an object's IC field;
// the holder relationship itself lives on IntegratedCircuit.CircuitHolder).
type ProgrammableData struct {
	SourceCode string
}

// Object is the tagged-variant object: id, immutable prefab, mutable
// display name, plus whichever capability structs are non-nil.
type Object struct {
	ID              ID
	Prefab          Prefab
	DisplayName     string
	DisplayNameHash int32

	Item         *ItemData
	Storage      *StorageData
	Logicable    *LogicableData
	Memory       *MemoryData
	Device       *DeviceData
	Programmable *ProgrammableData
	IC           *IntegratedCircuit
}

// SetDisplayName updates the mutable display name and its hash together
// (spec.md §3: "display-name {value, hash=crc32(value)}").
func (o *Object) SetDisplayName(name string) {
	o.DisplayName = name
	o.DisplayNameHash = HashName(name)
}

// GetLogic reads a non-synthetic Logicable field, honoring the
// access-kind bitmap (spec.md §4.4). Synthetic fields (ReferenceId,
// PrefabHash, NameHash, On, Power, LineNumber) are resolved by the
// caller (ic/vm packages), which have the coordinator context those
// fields need.
func (o *Object) GetLogic(field enums.LogicType) (float64, error) {
	if o.Logicable == nil {
		return 0, fmt.Errorf("object %d is not Logicable", o.ID)
	}
	access, ok := o.Logicable.Fields[field]
	if !ok {
		return 0, fmt.Errorf("field %s not present on object %d", field, o.ID)
	}
	if !access.CanRead() {
		return 0, fmt.Errorf("field %s is write-only on object %d", field, o.ID)
	}
	return o.Logicable.Values[field], nil
}

// SetLogic writes a non-synthetic Logicable field (spec.md §4.4).
func (o *Object) SetLogic(field enums.LogicType, value float64, force bool) error {
	if o.Logicable == nil {
		return fmt.Errorf("object %d is not Logicable", o.ID)
	}
	access, ok := o.Logicable.Fields[field]
	if !ok {
		return fmt.Errorf("field %s not present on object %d", field, o.ID)
	}
	if !force && !access.CanWrite() {
		return fmt.Errorf("field %s is read-only on object %d", field, o.ID)
	}
	o.Logicable.Values[field] = value
	return nil
}

var (
	slotFieldOccupied, _    = enums.LogicSlotTypeFromName("Occupied")
	slotFieldQuantity, _    = enums.LogicSlotTypeFromName("Quantity")
	slotFieldMaxQuantity, _ = enums.LogicSlotTypeFromName("MaxQuantity")
	slotFieldReferenceId, _ = enums.LogicSlotTypeFromName("ReferenceId")
)

// GetSlotLogic reads a field of a Storage slot's occupant info.
func (o *Object) GetSlotLogic(slotIdx uint32, field enums.LogicSlotType) (float64, error) {
	if o.Storage == nil {
		return 0, fmt.Errorf("object %d is not Storage", o.ID)
	}
	if int(slotIdx) >= len(o.Storage.Slots) {
		return 0, fmt.Errorf("slot index %d out of range on object %d", slotIdx, o.ID)
	}
	slot := &o.Storage.Slots[slotIdx]
	switch field {
	case slotFieldOccupied:
		if slot.HasOccupant {
			return 1, nil
		}
		return 0, nil
	case slotFieldQuantity:
		return float64(slot.Quantity), nil
	case slotFieldMaxQuantity:
		return float64(slot.MaxQuantity), nil
	case slotFieldReferenceId:
		if slot.HasOccupant {
			return float64(slot.Occupant), nil
		}
		return 0, nil
	}
	return 0, fmt.Errorf("slot field %s not supported on object %d", field, o.ID)
}

// SetSlotLogic writes a field of a Storage slot's occupant info. Only
// Quantity is mutable through logic; the rest describe the occupant
// itself and are set by item movement, not by script (spec.md §4.4).
func (o *Object) SetSlotLogic(slotIdx uint32, field enums.LogicSlotType, value float64) error {
	if o.Storage == nil {
		return fmt.Errorf("object %d is not Storage", o.ID)
	}
	if int(slotIdx) >= len(o.Storage.Slots) {
		return fmt.Errorf("slot index %d out of range on object %d", slotIdx, o.ID)
	}
	if field != slotFieldQuantity {
		return fmt.Errorf("slot field %s is read-only on object %d", field, o.ID)
	}
	o.Storage.Slots[slotIdx].Quantity = uint32(value)
	return nil
}

// ReadMemory implements MemoryReadable (spec.md §3).
func (o *Object) ReadMemory(addr int) (float64, error) {
	if o.Memory == nil {
		return 0, fmt.Errorf("object %d is not MemoryReadable", o.ID)
	}
	if addr < 0 || addr >= len(o.Memory.Cells) {
		return 0, fmt.Errorf("memory address %d out of range on object %d", addr, o.ID)
	}
	return o.Memory.Cells[addr], nil
}

// WriteMemory implements MemoryWritable.
func (o *Object) WriteMemory(addr int, val float64) error {
	if o.Memory == nil {
		return fmt.Errorf("object %d is not MemoryWritable", o.ID)
	}
	if addr < 0 || addr >= len(o.Memory.Cells) {
		return fmt.Errorf("memory address %d out of range on object %d", addr, o.ID)
	}
	o.Memory.Cells[addr] = val
	return nil
}

// ClearMemory zeroes every memory cell.
func (o *Object) ClearMemory() error {
	if o.Memory == nil {
		return fmt.Errorf("object %d is not MemoryWritable", o.ID)
	}
	for i := range o.Memory.Cells {
		o.Memory.Cells[i] = 0
	}
	return nil
}
