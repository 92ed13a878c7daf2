package ic

import (
	"math"
	"testing"

	"github.com/Ryex/ic10emu-sub001/enums"
	"github.com/Ryex/ic10emu-sub001/object"
)

// fakeHost is a minimal in-memory Host stand-in for unit tests -- it
// keeps one logic-field map per target id and a pin table for the chip
// under test, following the teacher's in-process table-driven test style
// (emul/decode_test.go) rather than any network/transport simulation.
type fakeHost struct {
	pins     map[int]object.ID
	hasPin   map[int]bool
	holder   object.ID
	hasHolder bool
	logic    map[object.ID]map[enums.LogicType]float64
	slots    map[object.ID]map[uint32]map[enums.LogicSlotType]float64
	mem      map[object.ID][]float64
	modified []object.ID
	randVal  float64
	fired    bool
}

func newFakeHost() *fakeHost {
	return &fakeHost{
		pins:   make(map[int]object.ID),
		hasPin: make(map[int]bool),
		logic:  make(map[object.ID]map[enums.LogicType]float64),
		slots:  make(map[object.ID]map[uint32]map[enums.LogicSlotType]float64),
		mem:    make(map[object.ID][]float64),
	}
}

func (f *fakeHost) ResolvePin(chip object.ID, pin int) (object.ID, bool, error) {
	return f.pins[pin], f.hasPin[pin], nil
}
func (f *fakeHost) CircuitHolder(chip object.ID) (object.ID, bool, error) {
	return f.holder, f.hasHolder, nil
}
func (f *fakeHost) ReadLogic(self, target object.ID, field enums.LogicType) (float64, error) {
	m, ok := f.logic[target]
	if !ok {
		return 0, nil
	}
	return m[field], nil
}
func (f *fakeHost) WriteLogic(self, target object.ID, field enums.LogicType, value float64, force bool) error {
	m, ok := f.logic[target]
	if !ok {
		m = make(map[enums.LogicType]float64)
		f.logic[target] = m
	}
	m[field] = value
	return nil
}
func (f *fakeHost) ReadSlotLogic(target object.ID, slot uint32, field enums.LogicSlotType) (float64, error) {
	return f.slots[target][slot][field], nil
}
func (f *fakeHost) WriteSlotLogic(target object.ID, slot uint32, field enums.LogicSlotType, value float64, force bool) error {
	ts, ok := f.slots[target]
	if !ok {
		ts = make(map[uint32]map[enums.LogicSlotType]float64)
		f.slots[target] = ts
	}
	sf, ok := ts[slot]
	if !ok {
		sf = make(map[enums.LogicSlotType]float64)
		ts[slot] = sf
	}
	sf[field] = value
	return nil
}
func (f *fakeHost) ReadMemory(target object.ID, addr int) (float64, error) {
	cells := f.mem[target]
	if addr < 0 || addr >= len(cells) {
		return 0, nil
	}
	return cells[addr], nil
}
func (f *fakeHost) WriteMemory(target object.ID, addr int, value float64) error {
	cells, ok := f.mem[target]
	if !ok {
		cells = make([]float64, 512)
		f.mem[target] = cells
	}
	cells[addr] = value
	return nil
}
func (f *fakeHost) ClearMemory(target object.ID) error {
	for i := range f.mem[target] {
		f.mem[target][i] = 0
	}
	return nil
}
func (f *fakeHost) ReadReagent(target object.ID, mode enums.LogicReagentMode, hash float64) (float64, error) {
	return 0, nil
}
func (f *fakeHost) BatchRead(self object.ID, prefabHash, nameHash float64, hasName bool, field enums.LogicType, method enums.LogicBatchMethod) (float64, error) {
	return 0, nil
}
func (f *fakeHost) BatchWrite(self object.ID, prefabHash, nameHash float64, hasName bool, field enums.LogicType, value float64) error {
	return nil
}
func (f *fakeHost) BatchSlotRead(self object.ID, prefabHash, nameHash float64, hasName bool, slot uint32, field enums.LogicSlotType, method enums.LogicBatchMethod) (float64, error) {
	return 0, nil
}
func (f *fakeHost) BatchWriteSlot(self object.ID, prefabHash float64, slot uint32, field enums.LogicSlotType, value float64) error {
	return nil
}
func (f *fakeHost) HaltAndCatchFire(chip object.ID) error {
	f.fired = true
	return nil
}
func (f *fakeHost) Rand() float64            { return f.randVal }
func (f *fakeHost) MarkModified(id object.ID) { f.modified = append(f.modified, id) }

func newTestChip(t *testing.T, source string) (*Chip, Host) {
	t.Helper()
	ic := object.NewIntegratedCircuit()
	c := New(1, ic)
	if err := c.SetSourceStrict(source); err != nil {
		t.Fatalf("SetSourceStrict: %v", err)
	}
	return c, newFakeHost()
}

func TestArithmeticAddAndMove(t *testing.T) {
	c, h := newTestChip(t, "add r0 r1 r2\nmove r3 r0\nyield\n")
	c.IC.Registers[1] = 2
	c.IC.Registers[2] = 3
	if err := c.Run(h); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if c.IC.Registers[0] != 5 {
		t.Errorf("r0 = %v, want 5", c.IC.Registers[0])
	}
	if c.IC.Registers[3] != 5 {
		t.Errorf("r3 = %v, want 5", c.IC.Registers[3])
	}
}

func TestBranchBeqTakesAndFallsThrough(t *testing.T) {
	tests := []struct {
		name   string
		rA, rB float64
		wantIP uint32
	}{
		{"equal branches", 1, 1, 3},
		{"unequal falls through", 1, 2, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, h := newTestChip(t, "beq r0 r1 3\nnop\nnop\nnop\n")
			c.IC.Registers[0] = tt.rA
			c.IC.Registers[1] = tt.rB
			if err := c.Step(h); err != nil {
				t.Fatalf("Step: %v", err)
			}
			if c.IC.IP != tt.wantIP {
				t.Errorf("IP = %d, want %d", c.IC.IP, tt.wantIP)
			}
		})
	}
}

func TestBapzBranchesWhenApproximatelyZero(t *testing.T) {
	// corrected semantics: bapz branches when the operand IS approx-zero,
	// matching the bap/bna family's "branch when condition true" shape.
	c, h := newTestChip(t, "bapz r0 0.001 2\nnop\nnop\n")
	c.IC.Registers[0] = 0
	if err := c.Step(h); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if c.IC.IP != 2 {
		t.Errorf("IP = %d, want 2 (branch taken on approx-zero)", c.IC.IP)
	}
}

func TestSelectPicksByCondition(t *testing.T) {
	c, h := newTestChip(t, "select r0 r1 r2 r3\nyield\n")
	c.IC.Registers[1] = 0
	c.IC.Registers[2] = 10
	c.IC.Registers[3] = 20
	if err := c.Run(h); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if c.IC.Registers[0] != 20 {
		t.Errorf("r0 = %v, want 20 (cond false picks third operand)", c.IC.Registers[0])
	}
}

func TestStackPushPop(t *testing.T) {
	c, h := newTestChip(t, "push r0\npop r1\nyield\n")
	c.IC.Registers[0] = 7
	c.IC.Registers[object.StackPointerIndex] = 0
	if err := c.Run(h); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if c.IC.Registers[1] != 7 {
		t.Errorf("r1 = %v, want 7", c.IC.Registers[1])
	}
	if c.IC.Registers[object.StackPointerIndex] != 0 {
		t.Errorf("sp = %v, want 0 after balanced push/pop", c.IC.Registers[object.StackPointerIndex])
	}
}

func TestDeviceLoadStore(t *testing.T) {
	c, h := newTestChip(t, "s d0 Setting r0\nl r1 d0 Setting\nyield\n")
	fh := h.(*fakeHost)
	fh.pins[0] = 42
	fh.hasPin[0] = true
	c.IC.Registers[0] = 3.5
	if err := c.Run(h); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if c.IC.Registers[1] != 3.5 {
		t.Errorf("r1 = %v, want 3.5", c.IC.Registers[1])
	}
}

func TestDefineDuplicateIsFault(t *testing.T) {
	c, h := newTestChip(t, "define foo 1\ndefine foo 2\n")
	err := c.Run(h)
	if err == nil {
		t.Fatalf("Run: want error for duplicate define, got nil")
	}
	if c.IC.State != object.StateError {
		t.Errorf("State = %v, want Error", c.IC.State)
	}
}

func TestYieldStopsRunAndAdvancesPastIt(t *testing.T) {
	c, h := newTestChip(t, "yield\nnop\n")
	if err := c.Run(h); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if c.IC.State != object.StateYield {
		t.Errorf("State = %v, want Yield", c.IC.State)
	}
	if c.IC.IP != 1 {
		t.Errorf("IP = %d, want 1 (advanced past the yield instruction)", c.IC.IP)
	}
}

func TestHcfCallsHost(t *testing.T) {
	c, h := newTestChip(t, "hcf\n")
	if err := c.Run(h); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !h.(*fakeHost).fired {
		t.Errorf("HaltAndCatchFire was not invoked")
	}
}

func TestApproxEqualToleranceFormula(t *testing.T) {
	if !approxEqual(1.0, 1.0000001, 0.001) {
		t.Errorf("approxEqual(1.0, 1.0000001, 0.001) = false, want true")
	}
	if approxEqual(1.0, 2.0, 0.0001) {
		t.Errorf("approxEqual(1.0, 2.0, 0.0001) = true, want false")
	}
}

func TestBitwiseShiftMasksCount(t *testing.T) {
	c, h := newTestChip(t, "sll r0 r1 r2\nyield\n")
	c.IC.Registers[1] = 1
	c.IC.Registers[2] = 70 // masked to 70&63 = 6
	if err := c.Run(h); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if c.IC.Registers[0] != float64(int64(1)<<6) {
		t.Errorf("r0 = %v, want %v", c.IC.Registers[0], float64(int64(1)<<6))
	}
}

func TestRunBudgetStopsInfiniteLoop(t *testing.T) {
	c, h := newTestChip(t, "j 0\n")
	if err := c.Run(h); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if c.IC.ICCount != runBudget {
		t.Errorf("ICCount = %d, want %d (run budget exhausted)", c.IC.ICCount, runBudget)
	}
	if c.IC.State != object.StateYield {
		t.Errorf("State = %v, want Yield (forced after exhausting the run budget)", c.IC.State)
	}
}

func TestModRejectsNegativeResult(t *testing.T) {
	c, h := newTestChip(t, "mod r0 r1 r2\nyield\n")
	c.IC.Registers[1] = -1
	c.IC.Registers[2] = 4
	if err := c.Run(h); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if c.IC.Registers[0] != 3 {
		t.Errorf("r0 = %v, want 3 (non-negative mod)", c.IC.Registers[0])
	}
}

func TestNanPropagatesThroughSnan(t *testing.T) {
	c, h := newTestChip(t, "snan r0 r1\nyield\n")
	c.IC.Registers[1] = math.NaN()
	if err := c.Run(h); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if c.IC.Registers[0] != 1 {
		t.Errorf("r0 = %v, want 1", c.IC.Registers[0])
	}
}

func TestSnanzIsInvertedSnan(t *testing.T) {
	c, h := newTestChip(t, "snanz r0 r1\nyield\n")
	c.IC.Registers[1] = 5
	if err := c.Run(h); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if c.IC.Registers[0] != 1 {
		t.Errorf("r0 = %v, want 1 (snanz is true for non-NaN values)", c.IC.Registers[0])
	}

	c, h = newTestChip(t, "snanz r0 r1\nyield\n")
	c.IC.Registers[1] = math.NaN()
	if err := c.Run(h); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if c.IC.Registers[0] != 0 {
		t.Errorf("r0 = %v, want 0 (snanz is false for NaN)", c.IC.Registers[0])
	}
}
