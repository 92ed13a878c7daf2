package vm

import (
	"sort"

	"github.com/Ryex/ic10emu-sub001/object"
)

// StepChip single-steps one chip through this coordinator, the thin
// driver ic10emu's lib.rs exposes as step_ic.
func (c *Coordinator) StepChip(id object.ID) error {
	chip, ok := c.Chips[id]
	if !ok {
		return fault("ObjectNotFound", "no chip with id %d", id)
	}
	return chip.Step(c)
}

// RunChip runs one chip to its next suspension point (yield, sleep,
// error, fire) or its per-call step budget, mirroring lib.rs's run_ic.
func (c *Coordinator) RunChip(id object.ID) error {
	chip, ok := c.Chips[id]
	if !ok {
		return fault("ObjectNotFound", "no chip with id %d", id)
	}
	return chip.Run(c)
}

// RunAll runs every chip once, in ascending object-id order for
// deterministic replay, and returns the accumulated change-feed.
func (c *Coordinator) RunAll() []object.ID {
	ids := make([]object.ID, 0, len(c.Chips))
	for id := range c.Chips {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		_ = c.RunChip(id)
	}
	return c.Modified()
}
