package network

import (
	"testing"

	"github.com/Ryex/ic10emu-sub001/enums"
	"github.com/Ryex/ic10emu-sub001/object"
)

func TestNewChannelsAreNaN(t *testing.T) {
	n := New(1)
	for i, v := range n.Channels {
		if v == v { // NaN != NaN
			t.Errorf("Channels[%d] = %v, want NaN", i, v)
		}
	}
}

func TestDataVisibleExcludesSource(t *testing.T) {
	n := New(1)
	n.AddData(1)
	n.AddData(2)
	n.AddData(3)
	visible := n.DataVisible(2)
	if len(visible) != 2 {
		t.Fatalf("DataVisible: got %d ids, want 2", len(visible))
	}
	for _, id := range visible {
		if id == 2 {
			t.Errorf("DataVisible(2) included the source id")
		}
	}
}

func TestContainsAllData(t *testing.T) {
	n := New(1)
	n.AddData(1)
	n.AddData(2)
	if !n.ContainsAllData([]object.ID{1, 2}) {
		t.Errorf("ContainsAllData([1,2]) = false, want true")
	}
	if n.ContainsAllData([]object.ID{1, 2, 3}) {
		t.Errorf("ContainsAllData([1,2,3]) = true, want false")
	}
}

func TestChannelLogic(t *testing.T) {
	n := New(1)
	ch3, _ := enums.LogicTypeFromName("Channel3")
	if ok := n.SetLogic(ch3, 42, false); !ok {
		t.Fatalf("SetLogic(Channel3): want ok=true")
	}
	v, ok := n.GetLogic(ch3)
	if !ok || v != 42 {
		t.Errorf("GetLogic(Channel3) = (%v, %v), want (42, true)", v, ok)
	}
}

func TestRemoveAllScrubsBothTiers(t *testing.T) {
	n := New(1)
	n.AddData(5)
	n.AddPower(5)
	n.RemoveAll(5)
	if n.ContainsData(5) || n.ContainsPower(5) {
		t.Errorf("RemoveAll(5) left membership in one of the tiers")
	}
}
