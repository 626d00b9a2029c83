package modelbuilder

import (
	"github.com/udp-timetabling/scheduler-core/internal/model"
	"github.com/udp-timetabling/scheduler-core/internal/solveengine"
)

// buildLabCapacity caps, at every slot, the number of chosen
// lab-block starts whose cover includes it may not exceed the shared
// lab-room pool size, independent of any individual section's own
// classroom.
func buildLabCapacity(m solveengine.Model, in Input, labCover map[model.Slot][]solveengine.VarHandle) {
	capacity := int64(in.LabRoomCapacity)
	forEachSlot(in.Grid, func(slot model.Slot) {
		cover := labCover[slot]
		if len(cover) == 0 {
			return
		}
		terms := make([]solveengine.Term, len(cover))
		for i, v := range cover {
			terms[i] = solveengine.Term{Var: v, Coeff: 1}
		}
		m.AddLinear(solveengine.LinearConstraint{Terms: terms, Op: solveengine.OpLE, Bound: capacity})
	})
}
