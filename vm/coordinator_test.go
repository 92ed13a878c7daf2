package vm

import (
	"math"
	"testing"

	"github.com/Ryex/ic10emu-sub001/enums"
	"github.com/Ryex/ic10emu-sub001/network"
	"github.com/Ryex/ic10emu-sub001/object"
)

func newDevice(id object.ID, prefab string, fields map[string]object.AccessKind) *object.Object {
	f := make(map[enums.LogicType]object.AccessKind)
	v := make(map[enums.LogicType]float64)
	for name, access := range fields {
		lt, ok := enums.LogicTypeFromName(name)
		if !ok {
			panic("unknown logic type " + name)
		}
		f[lt] = access
		v[lt] = 0
	}
	return &object.Object{
		ID:              id,
		Prefab:          object.Prefab{Name: prefab, Hash: object.HashName(prefab)},
		DisplayNameHash: object.HashName(prefab),
		Logicable:       &object.LogicableData{Fields: f, Values: v},
		Device:          &object.DeviceData{Connections: []object.Connection{{Type: object.ConnData}}},
	}
}

func newChipObject(id object.ID) *object.Object {
	return &object.Object{
		ID: id,
		IC: object.NewIntegratedCircuit(),
	}
}

func TestDeviceReadWriteLogicThroughCoordinator(t *testing.T) {
	c := New(1)
	chip := newChipObject(1)
	dev := newDevice(2, "StructureFurnace", map[string]object.AccessKind{"Setting": object.AccessReadWrite})
	c.AddObject(chip)
	c.AddObject(dev)
	if err := c.SetPin(1, 0, 2); err != nil {
		t.Fatalf("SetPin: %v", err)
	}

	ic := c.Chips[1]
	if err := ic.SetSourceStrict("s d0 Setting 5\nl r0 d0 Setting\nyield\n"); err != nil {
		t.Fatalf("SetSourceStrict: %v", err)
	}
	if err := c.RunChip(1); err != nil {
		t.Fatalf("RunChip: %v", err)
	}
	if ic.IC.Registers[0] != 5 {
		t.Errorf("r0 = %v, want 5", ic.IC.Registers[0])
	}
}

func TestPrefabHashSyntheticFieldIsReadOnly(t *testing.T) {
	c := New(1)
	dev := newDevice(1, "StructureSolarPanel", nil)
	c.AddObject(dev)

	v, err := c.ReadLogic(1, 1, mustLogicType(t, "PrefabHash"))
	if err != nil {
		t.Fatalf("ReadLogic(PrefabHash): %v", err)
	}
	if v != float64(dev.Prefab.Hash) {
		t.Errorf("PrefabHash = %v, want %v", v, dev.Prefab.Hash)
	}

	if err := c.WriteLogic(1, 1, mustLogicType(t, "PrefabHash"), 1, true); err == nil {
		t.Errorf("WriteLogic(PrefabHash): want error, got nil")
	}
}

func TestLineNumberSelfBorrowReadsZeroAndWriteIsNoop(t *testing.T) {
	c := New(1)
	chip := newChipObject(1)
	c.AddObject(chip)
	c.Chips[1].IC.IP = 3

	lineNumber := mustLogicType(t, "LineNumber")
	v, err := c.ReadLogic(1, 1, lineNumber)
	if err != nil {
		t.Fatalf("ReadLogic(self LineNumber): %v", err)
	}
	if v != 0 {
		t.Errorf("ReadLogic(self LineNumber) = %v, want 0 (tolerated re-entrant borrow)", v)
	}

	if err := c.WriteLogic(1, 1, lineNumber, 9, true); err != nil {
		t.Fatalf("WriteLogic(self LineNumber): %v", err)
	}
	if c.Chips[1].IC.HasNextIP {
		t.Errorf("WriteLogic(self LineNumber) set HasNextIP, want no-op")
	}

	other := newChipObject(2)
	c.AddObject(other)
	v, err = c.ReadLogic(1, 2, lineNumber)
	if err != nil {
		t.Fatalf("ReadLogic(other LineNumber): %v", err)
	}
	if v != 0 {
		t.Errorf("ReadLogic(other LineNumber) = %v, want IP 0", v)
	}
	if err := c.WriteLogic(1, 2, lineNumber, 5, true); err != nil {
		t.Fatalf("WriteLogic(other LineNumber): %v", err)
	}
	if !c.Chips[2].IC.HasNextIP || c.Chips[2].IC.NextIP != 5 {
		t.Errorf("WriteLogic(other LineNumber) did not set NextIP=5")
	}
}

func TestBatchReadAveragesAcrossNetwork(t *testing.T) {
	c := New(1)
	n := network.New(c.AllocNetworkID())
	c.AddNetwork(n)

	self := newDevice(1, "StructureSensor", nil)
	a := newDevice(2, "StructureFurnace", map[string]object.AccessKind{"Temperature": object.AccessRead})
	b := newDevice(3, "StructureFurnace", map[string]object.AccessKind{"Temperature": object.AccessRead})
	c.AddObject(self)
	c.AddObject(a)
	c.AddObject(b)

	temp := mustLogicType(t, "Temperature")
	a.Logicable.Values[temp] = 10
	b.Logicable.Values[temp] = 20

	if err := c.SetDeviceConnection(1, 0, n.ID); err != nil {
		t.Fatalf("SetDeviceConnection(self): %v", err)
	}
	if err := c.SetDeviceConnection(2, 0, n.ID); err != nil {
		t.Fatalf("SetDeviceConnection(a): %v", err)
	}
	if err := c.SetDeviceConnection(3, 0, n.ID); err != nil {
		t.Fatalf("SetDeviceConnection(b): %v", err)
	}

	avg, err := c.BatchRead(1, float64(a.Prefab.Hash), 0, false, temp, enums.BatchAverage)
	if err != nil {
		t.Fatalf("BatchRead: %v", err)
	}
	if avg != 15 {
		t.Errorf("BatchRead average = %v, want 15", avg)
	}
}

func TestBatchReadFiltersNaNBeforeAggregating(t *testing.T) {
	c := New(1)
	n := network.New(c.AllocNetworkID())
	c.AddNetwork(n)

	self := newDevice(1, "StructureSensor", nil)
	a := newDevice(2, "StructureFurnace", map[string]object.AccessKind{"Temperature": object.AccessRead})
	b := newDevice(3, "StructureFurnace", map[string]object.AccessKind{"Temperature": object.AccessRead})
	c.AddObject(self)
	c.AddObject(a)
	c.AddObject(b)

	temp := mustLogicType(t, "Temperature")
	a.Logicable.Values[temp] = math.NaN()
	b.Logicable.Values[temp] = 20

	for _, id := range []object.ID{1, 2, 3} {
		if err := c.SetDeviceConnection(id, 0, n.ID); err != nil {
			t.Fatalf("SetDeviceConnection(%d): %v", id, err)
		}
	}

	avg, err := c.BatchRead(1, float64(a.Prefab.Hash), 0, false, temp, enums.BatchAverage)
	if err != nil {
		t.Fatalf("BatchRead: %v", err)
	}
	if avg != 20 {
		t.Errorf("BatchRead average = %v, want 20 (NaN reading filtered out)", avg)
	}
}

func TestBatchReadEmptyMatchDefaultsMinMaxToInfinities(t *testing.T) {
	c := New(1)
	self := newDevice(1, "StructureSensor", nil)
	c.AddObject(self)

	temp := mustLogicType(t, "Temperature")
	min, err := c.BatchRead(1, 12345, 0, false, temp, enums.BatchMinimum)
	if err != nil {
		t.Fatalf("BatchRead(Minimum): %v", err)
	}
	if !math.IsInf(min, 1) {
		t.Errorf("BatchRead(Minimum) on empty match = %v, want +Inf", min)
	}

	max, err := c.BatchRead(1, 12345, 0, false, temp, enums.BatchMaximum)
	if err != nil {
		t.Fatalf("BatchRead(Maximum): %v", err)
	}
	if !math.IsInf(max, -1) {
		t.Errorf("BatchRead(Maximum) on empty match = %v, want -Inf", max)
	}
}

func TestFreezeThawRoundTrip(t *testing.T) {
	c := New(1)
	chip := newChipObject(1)
	c.AddObject(chip)
	c.Chips[1].IC.Registers[0] = 42

	snap := c.Freeze()
	c.Chips[1].IC.Registers[0] = 0

	if err := c.Thaw(snap); err != nil {
		t.Fatalf("Thaw: %v", err)
	}
	if c.Chips[1].IC.Registers[0] != 42 {
		t.Errorf("Registers[0] after thaw = %v, want 42", c.Chips[1].IC.Registers[0])
	}
}

func TestThawRejectsDanglingNetworkReference(t *testing.T) {
	c := New(1)
	dev := newDevice(1, "StructureFurnace", nil)
	dev.Device.Connections[0].Connected = true
	dev.Device.Connections[0].Network = 99
	c.AddObject(dev)

	snap := c.Freeze()
	if err := c.Thaw(snap); err == nil {
		t.Errorf("Thaw: want error for dangling network reference, got nil")
	}
}

func TestOnAndPowerSyntheticFields(t *testing.T) {
	c := New(1)
	n := network.New(c.AllocNetworkID())
	c.AddNetwork(n)
	dev := newDevice(1, "StructureFurnace", nil)
	c.AddObject(dev)

	onField := mustLogicType(t, "On")
	powerField := mustLogicType(t, "Power")

	v, err := c.ReadLogic(0, 1, onField)
	if err != nil {
		t.Fatalf("ReadLogic(On): %v", err)
	}
	if v != 0 {
		t.Errorf("On = %v, want 0 before being switched on", v)
	}

	if err := c.WriteLogic(0, 1, onField, 1, true); err != nil {
		t.Fatalf("WriteLogic(On): %v", err)
	}
	v, err = c.ReadLogic(0, 1, onField)
	if err != nil {
		t.Fatalf("ReadLogic(On) after write: %v", err)
	}
	if v != 1 {
		t.Errorf("On = %v, want 1 after being switched on", v)
	}

	v, err = c.ReadLogic(0, 1, powerField)
	if err != nil {
		t.Fatalf("ReadLogic(Power): %v", err)
	}
	if v != 0 {
		t.Errorf("Power = %v, want 0 before joining a power network", v)
	}

	n.AddPower(1)

	v, err = c.ReadLogic(0, 1, powerField)
	if err != nil {
		t.Fatalf("ReadLogic(Power) after joining network: %v", err)
	}
	if v != 1 {
		t.Errorf("Power = %v, want 1 once the device is in the network's power-set", v)
	}

	if err := c.WriteLogic(0, 1, powerField, 1, true); err == nil {
		t.Errorf("WriteLogic(Power): want error (read-only field), got nil")
	}
}

func TestDisconnectDeviceKeepsTierAliveViaSiblingConnection(t *testing.T) {
	c := New(1)
	n := network.New(c.AllocNetworkID())
	c.AddNetwork(n)

	dev := &object.Object{
		ID:     1,
		Prefab: object.Prefab{Name: "StructureFurnace", Hash: object.HashName("StructureFurnace")},
		Device: &object.DeviceData{Connections: []object.Connection{
			{Type: object.ConnData},
			{Type: object.ConnPower},
		}},
	}
	c.AddObject(dev)

	if err := c.SetDeviceConnection(1, 0, n.ID); err != nil {
		t.Fatalf("SetDeviceConnection(0): %v", err)
	}
	if err := c.SetDeviceConnection(1, 1, n.ID); err != nil {
		t.Fatalf("SetDeviceConnection(1): %v", err)
	}
	if !n.ContainsData(1) || !n.ContainsPower(1) {
		t.Fatalf("device not in both tiers after connecting both slots")
	}

	if err := c.DisconnectDevice(1, 0); err != nil {
		t.Fatalf("DisconnectDevice(0): %v", err)
	}
	if n.ContainsData(1) {
		t.Errorf("device still in DataSet after its only data connection was disconnected")
	}
	if !n.ContainsPower(1) {
		t.Errorf("device dropped from PowerSet even though its power connection (slot 1) is still connected")
	}
}

func TestSetDeviceConnectionRewireDropsOldNetworkMembership(t *testing.T) {
	c := New(1)
	a := network.New(c.AllocNetworkID())
	b := network.New(c.AllocNetworkID())
	c.AddNetwork(a)
	c.AddNetwork(b)
	dev := newDevice(1, "StructureFurnace", nil)
	c.AddObject(dev)

	if err := c.SetDeviceConnection(1, 0, a.ID); err != nil {
		t.Fatalf("SetDeviceConnection(a): %v", err)
	}
	if !a.ContainsData(1) {
		t.Fatalf("device not in network a's data-set after connecting")
	}

	if err := c.SetDeviceConnection(1, 0, b.ID); err != nil {
		t.Fatalf("SetDeviceConnection(b): %v", err)
	}
	if a.ContainsData(1) {
		t.Errorf("device still in network a's data-set after its only connection rewired to b")
	}
	if !b.ContainsData(1) {
		t.Errorf("device not in network b's data-set after rewiring")
	}
}

func TestNetworkChannelReadWriteAndIndexBounds(t *testing.T) {
	c := New(1)
	n := network.New(c.AllocNetworkID())
	c.AddNetwork(n)

	v, err := c.GetNetworkChannel(n.ID, 0)
	if err != nil {
		t.Fatalf("GetNetworkChannel: %v", err)
	}
	if !math.IsNaN(v) {
		t.Errorf("GetNetworkChannel(0) = %v, want NaN before any write", v)
	}

	if err := c.SetNetworkChannel(n.ID, 3, 42, false); err != nil {
		t.Fatalf("SetNetworkChannel: %v", err)
	}
	v, err = c.GetNetworkChannel(n.ID, 3)
	if err != nil {
		t.Fatalf("GetNetworkChannel(3): %v", err)
	}
	if v != 42 {
		t.Errorf("GetNetworkChannel(3) = %v, want 42", v)
	}

	if _, err := c.GetNetworkChannel(n.ID, 8); err == nil {
		t.Errorf("GetNetworkChannel(8): want ChannelIndexOutOfRange error, got nil")
	}
	if err := c.SetNetworkChannel(n.ID, -1, 1, false); err == nil {
		t.Errorf("SetNetworkChannel(-1): want ChannelIndexOutOfRange error, got nil")
	}
	if _, err := c.GetNetworkChannel(99, 0); err == nil {
		t.Errorf("GetNetworkChannel(unknown network): want BadNetworkId error, got nil")
	}
}

func TestRandIsWithinUnitInterval(t *testing.T) {
	c := New(1)
	v := c.Rand()
	if math.IsNaN(v) || v < 0 || v >= 1 {
		t.Errorf("Rand() = %v, want [0,1)", v)
	}
}

func mustLogicType(t *testing.T, name string) enums.LogicType {
	t.Helper()
	lt, ok := enums.LogicTypeFromName(name)
	if !ok {
		t.Fatalf("unknown logic type %s", name)
	}
	return lt
}
