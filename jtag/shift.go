// Copyright 2024 The usbblaster Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package jtag

// shiftBits implements the queue_tdi algorithm of spec.md §4.2: a run of
// full bytes goes through byte-shift headers, the trailing bits go through
// bit-bang so the final bit can raise TMS while clocking, and everything
// ends with one idle-clock byte.
//
// data == nil means "clock zeros"; read requests TDO capture, returned as
// out (which aliases data when data is already long enough). exit raises
// TMS on the final clocked bit when data is non-nil, so the bit lands
// while the TAP transitions to Exit1.
func (s *Session) shiftBits(data []byte, nbBits int, read, exit bool) ([]byte, error) {
	if nbBits == 0 {
		return data, nil
	}

	nb8 := nbBits / 8
	nb1 := nbBits % 8
	if exit && nb1 == 0 && nb8 > 0 {
		nb8--
		nb1 = 8
	}

	var out []byte
	if read {
		need := (nbBits + 7) / 8
		if len(data) >= need {
			out = data
		} else {
			out = make([]byte, need)
		}
	}

	getBit := func(i int) bool {
		if data == nil {
			return false
		}
		bi := i / 8
		if bi >= len(data) {
			return false
		}
		return data[bi]&(1<<uint(i%8)) != 0
	}
	setBit := func(i int, v bool) {
		bi := i / 8
		if v {
			out[bi] |= 1 << uint(i%8)
		} else {
			out[bi] &^= 1 << uint(i%8)
		}
	}

	bitIdx := 0
	byteIdx := 0
	for byteIdx < nb8 {
		if s.wbuf.remaining() < 2 {
			if err := s.wbuf.flush(); err != nil {
				return nil, err
			}
		}
		trans := s.wbuf.remaining() - 1
		if left := nb8 - byteIdx; trans > left {
			trans = left
		}
		if trans > maxShiftLength {
			trans = maxShiftLength
		}
		if err := s.queueByteFlushing(byteShiftHeader(trans, read)); err != nil {
			return nil, err
		}
		payload := make([]byte, trans)
		if data != nil {
			copy(payload, data[byteIdx:byteIdx+trans])
		}
		if err := s.wbuf.queueBytes(payload, trans); err != nil {
			return nil, err
		}
		if read {
			if err := s.wbuf.flush(); err != nil {
				return nil, err
			}
			got := make([]byte, trans)
			if err := s.readFull(got); err != nil {
				return nil, err
			}
			copy(out[byteIdx:byteIdx+trans], got)
		}
		byteIdx += trans
		bitIdx += trans * 8
	}

	for i := 0; i < nb1; i++ {
		bit := getBit(bitIdx)
		last := i == nb1-1
		tms := s.tms
		if last && exit && data != nil {
			tms = true
		}
		if err := s.pulse(tms, bit, read); err != nil {
			return nil, err
		}
		if last && exit && data != nil {
			s.tms = false
		}
		bitIdx++
	}
	if read && nb1 > 0 {
		if err := s.wbuf.flush(); err != nil {
			return nil, err
		}
		base := nbBits - nb1
		for i := 0; i < nb1; i++ {
			var rb [1]byte
			if err := s.readFull(rb[:]); err != nil {
				return nil, err
			}
			setBit(base+i, rb[0]&1 != 0)
		}
	}

	if err := s.idleClock(); err != nil {
		return nil, err
	}
	return out, nil
}

// readFull reads exactly len(buf) bytes from the transport, busy-polling
// until they arrive (spec.md §5: reads are not bounded by a deadline here;
// the transport is expected to fail internally on stall).
func (s *Session) readFull(buf []byte) error {
	total := 0
	for total < len(buf) {
		n, err := s.backend.Read(buf[total:])
		if err != nil {
			return err
		}
		total += n
	}
	return nil
}
