// Copyright 2024 The Ferret Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package fst

import (
	"github.com/blevesearch/vellum"
)

// streamFrame is one level of the descent stack a Streamer maintains:
// levelsRemaining counts this level and everything below it down to (and
// including) the leaf, so levelsRemaining == 1 marks a leaf frame.
type streamFrame struct {
	itr             vellum.Iterator
	levelsRemaining int
}

// Streamer walks a Dictionary's entries in ascending key order, optionally
// bounded to [geKey, ltKey). It is a stack of FST iterators, one per
// cascade level, matching spec.md §4.1's "stack of FST streams" streaming
// description: advancing at leaf EOF pops one level, steps the parent, and
// descends into the new child block.
type Streamer struct {
	d      *Dictionary
	endKey []byte

	stack   []streamFrame
	started bool
	done    bool
	err     error
}

// Stream returns a Streamer over [geKey, ltKey). A nil geKey starts at the
// smallest key; a nil ltKey has no upper bound.
func (d *Dictionary) Stream(geKey, ltKey []byte) (*Streamer, error) {
	s := &Streamer{d: d, endKey: ltKey}
	if d.depth == 0 {
		s.done = true
		return s, nil
	}
	if err := s.descend(d.topFstOffset, int(d.depth), geKey); err != nil {
		return nil, err
	}
	return s, nil
}

// descend pushes iterators from the block at offset down to the leaf,
// consuming levelsRemaining levels. startKey bounds every iterator it
// creates; the stream's ltKey bounds only the leaf iterator, because an
// inner entry is keyed by its child block's last key and that block can
// hold keys below ltKey even when its last key is not below it.
func (s *Streamer) descend(offset uint64, levelsRemaining int, startKey []byte) error {
	for levelsRemaining >= 1 {
		blockBytes, err := s.d.readBlock(offset)
		if err != nil {
			return err
		}
		f, err := vellum.Load(blockBytes)
		if err != nil {
			return err
		}
		endKey := s.endKey
		if levelsRemaining > 1 {
			endKey = nil
		}
		itr, err := f.Iterator(startKey, endKey)
		if err == vellum.ErrIteratorDone {
			return nil
		}
		if err != nil {
			return err
		}
		s.stack = append(s.stack, streamFrame{itr: itr, levelsRemaining: levelsRemaining})
		if levelsRemaining == 1 {
			return nil
		}
		_, val := itr.Current()
		offset = val
		levelsRemaining--
	}
	return nil
}

// Advance moves to the next entry, returning false once the stream (or
// bound) is exhausted. Like DocSet, it starts in a pre-positioned state
// after Stream() returns, so the first Advance call surfaces the first
// matching entry.
func (s *Streamer) Advance() bool {
	if s.done {
		return false
	}
	if !s.started {
		s.started = true
		if len(s.stack) == 0 {
			s.done = true
			return false
		}
		if s.stack[len(s.stack)-1].levelsRemaining == 1 {
			return true
		}
		// The initial descent stopped above the leaf (the block it reached
		// holds nothing in range); step the parent like any later EOF.
	}
	for {
		if len(s.stack) == 0 {
			s.done = true
			return false
		}
		top := &s.stack[len(s.stack)-1]
		err := top.itr.Next()
		if err == nil {
			if top.levelsRemaining == 1 {
				return true
			}
			_, val := top.itr.Current()
			remaining := top.levelsRemaining - 1
			if err2 := s.descend(val, remaining, nil); err2 != nil {
				s.err = err2
				s.done = true
				return false
			}
			if len(s.stack) > 0 && s.stack[len(s.stack)-1].levelsRemaining == 1 {
				return true
			}
			continue
		}
		if err == vellum.ErrIteratorDone {
			s.stack = s.stack[:len(s.stack)-1]
			continue
		}
		s.err = err
		s.done = true
		return false
	}
}

// Err reports any error encountered during iteration.
func (s *Streamer) Err() error {
	return s.err
}

// Key returns the current entry's key. Only valid after Advance returns
// true.
func (s *Streamer) Key() []byte {
	k, _ := s.stack[len(s.stack)-1].itr.Current()
	return k
}

// ValueOffset returns the current entry's value-blob offset. Only valid
// after Advance returns true.
func (s *Streamer) ValueOffset() uint64 {
	_, v := s.stack[len(s.stack)-1].itr.Current()
	return v
}
