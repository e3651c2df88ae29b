package analysis

import (
	"github.com/elfringham/iresearch/core/token"
)

// stage holds one analyzer in the pipeline plus the bookkeeping
// PipelineTokenStream needs to cascade tokens between stages.
//
// Grounded on the per-stage state the teacher's TokenStream caches
// (current attribute refs) but widened with lastPos/dataSize, which the
// original port never needed because it had no multi-analyzer pipeline.
type stage struct {
	analyzer Analyzer
	// lastPos is the last position this stage emitted, or
	// token.MaxPosition if it has not yet emitted since its last Reset.
	lastPos uint32
	// dataSize is the byte length of the input most recently fed to
	// this stage via Reset.
	dataSize uint32
}

func (s *stage) reset(input string) error {
	s.lastPos = token.MaxPosition
	s.dataSize = uint32(len(input))
	return s.analyzer.Reset(input)
}

// next advances this stage and folds the position increment into
// lastPos, returning whether a token was produced.
func (s *stage) next() (bool, error) {
	ok, err := s.analyzer.Next()
	if err != nil || !ok {
		return ok, err
	}
	attrs := s.analyzer.Attributes()
	if s.lastPos == token.MaxPosition {
		s.lastPos = 0
	} else {
		s.lastPos += attrs.PosInc
	}
	return true, nil
}

// PipelineTokenStream composes [A0, A1, ..., An-1] into a single
// Analyzer: each term emitted by stage i becomes the input text of stage
// i+1, so a downstream analyzer re-tokenizes the upstream one's output.
// It publishes the composite position and offset semantics specified in
// spec.md §4.1.
//
// Grounded on the teacher's TokenStream/TokenFilter composition idiom
// (core/analysis/tokenStream.go), generalized from "one filter wraps one
// stream" to an arbitrary chain with its own position/offset algebra,
// since the teacher never implemented a multi-stage pipeline itself.
type PipelineTokenStream struct {
	stages []*stage
	// current is the index of the stage the cursor is presently
	// positioned at during a Next() call's failure cascade.
	current int
	attrs   token.Attributes
}

// NewPipelineTokenStream composes the given analyzers in order. analyzers
// must contain at least one analyzer.
func NewPipelineTokenStream(analyzers ...Analyzer) *PipelineTokenStream {
	assert2(len(analyzers) > 0, "pipeline requires at least one analyzer")
	stages := make([]*stage, len(analyzers))
	for i, a := range analyzers {
		stages[i] = &stage{analyzer: a, lastPos: token.MaxPosition}
	}
	return &PipelineTokenStream{stages: stages}
}

// Reset stores input, resets the top (index 0) stage on it, and
// positions the internal cursor at the top stage. It does not pull a
// token.
func (p *PipelineTokenStream) Reset(input string) error {
	if err := p.stages[0].reset(input); err != nil {
		return err
	}
	for i := 1; i < len(p.stages); i++ {
		p.stages[i].lastPos = token.MaxPosition
		p.stages[i].dataSize = 0
	}
	p.current = 0
	return nil
}

func (p *PipelineTokenStream) Attributes() *token.Attributes { return &p.attrs }

// pullUpward implements step 1: call Next() at the current stage; while
// it returns false, move one stage upstream and retry. Returns false
// only once the top stage itself is exhausted.
func (p *PipelineTokenStream) pullUpward() (bool, error) {
	for {
		ok, err := p.stages[p.current].next()
		if err != nil || ok {
			return ok, err
		}
		if p.current == 0 {
			return false, nil
		}
		p.current--
	}
}

// Next advances the pipeline to the next composite token, following the
// algorithm in spec.md §4.1. Every cascade attempt that bottoms out in a
// downstream stage exhausting immediately restarts from step 1 at that
// stage, per the spec's "re-entering the failure cascade" clause.
func (p *PipelineTokenStream) Next() (bool, error) {
	bottom := len(p.stages) - 1

	var upstreamInc int
	for {
		// Step 1.
		found, err := p.pullUpward()
		if err != nil || !found {
			return false, err
		}

		// Step 2: record the upstream stage's position increment.
		upstreamInc = int(p.stages[p.current].analyzer.Attributes().PosInc)

		// Pinned once from the stage just pulled in step 1, before any
		// downstream reset below changes what p.current (and hence
		// "upstream") refers to.
		upstreamHeldPosition := p.stages[p.current].analyzer.Attributes().PosInc == 0

		// Step 3: cascade downstream, re-tokenizing each stage's
		// current term as the input to the next stage.
		cascadeFailed := false
		needsRollbackStep := false
		for p.current < bottom {
			upstream := p.stages[p.current]
			nextTerm := string(upstream.analyzer.Attributes().Term)

			down := p.stages[p.current+1]
			downPrevLastPos := down.lastPos
			if err := down.reset(nextTerm); err != nil {
				return false, err
			}
			p.current++

			ok, err := down.next()
			if err != nil {
				return false, err
			}
			if !ok {
				// Downstream exhausted on a fresh reset: re-enter the
				// failure cascade (step 1) from here.
				cascadeFailed = true
				break
			}

			upstreamInc += int(down.analyzer.Attributes().PosInc)
			// Compensate for the downstream stage's transition from the
			// max-sentinel position to 0: that transition is a reset,
			// not a forward move.
			upstreamInc--

			// Step 4: if the downstream stage rolled back from a
			// strictly positive lastPos to 0 while upstream held
			// position, that is one real pipeline step; add it back.
			// Accumulated once across the whole cascade (OR'd, not summed)
			// and applied a single time below, so a 3+ stage cascade where
			// more than one downstream stage satisfies this condition
			// doesn't multiply-count it.
			if upstreamHeldPosition && downPrevLastPos != token.MaxPosition &&
				downPrevLastPos > 0 && down.lastPos == 0 {
				needsRollbackStep = true
			}
		}
		if cascadeFailed {
			continue
		}
		if needsRollbackStep {
			upstreamInc++
		}
		break
	}

	// Step 5: publish the bottom stage's term.
	bottomAttrs := p.stages[bottom].analyzer.Attributes()
	p.attrs.Term = append(p.attrs.Term[:0], bottomAttrs.Term...)
	if upstreamInc < 0 {
		upstreamInc = 0
	}
	p.attrs.PosInc = uint32(upstreamInc)
	if bottomAttrs.Payload != nil {
		p.attrs.Payload = append(p.attrs.Payload[:0], bottomAttrs.Payload...)
	} else {
		p.attrs.Payload = nil
	}

	// Step 6: compute the composite offset by walking top-to-bottom.
	start, end := p.compositeOffset()
	p.attrs.OffsetStart = start
	p.attrs.OffsetEnd = end

	return true, nil
}

// compositeOffset implements the offset recomputation in spec.md §4.1
// step 6: walk top-to-bottom summing offset.start, and let the end be
// fixed by the last stage that did not consume all of its input, or by
// the top stage's data size if every stage consumed everything.
//
// The source marks this "FIXME: get rid of full recalc"; this keeps the
// full-scan semantics, which is sufficient to satisfy the offset law in
// spec.md §8 (0 <= start <= end <= len(input)).
func (p *PipelineTokenStream) compositeOffset() (start, end uint32) {
	end = p.stages[0].dataSize // default: bounded by the top stage's input size
	cum := uint32(0)
	for _, s := range p.stages {
		attrs := s.analyzer.Attributes()
		stageStart := cum + attrs.OffsetStart
		if attrs.OffsetEnd < s.dataSize {
			// This stage did not consume all of its input; it fixes
			// the end unless a stage further downstream also doesn't.
			end = cum + attrs.OffsetEnd
		}
		cum = stageStart
	}
	return cum, end
}
