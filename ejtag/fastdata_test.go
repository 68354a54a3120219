// Copyright 2024 The usbblaster Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ejtag

import (
	"errors"
	"testing"
)

// fakeBlockWriter records WriteBlock32 calls instead of running a real
// PrAcc dialog, since FastdataEngine only needs to know the handler was
// deposited -- not reproduce MIPS execution.
type fakeBlockWriter struct {
	calls int
	last  []uint32
	err   error
}

func (f *fakeBlockWriter) WriteBlock32(addr uint32, src []uint32) error {
	f.calls++
	f.last = append([]uint32(nil), src...)
	return f.err
}

// fakeFastdataLink scripts the Address/FastData/Data dialog Transfer
// drives, independent of any real target.
type fakeFastdataLink struct {
	addrReads  []uint32
	fastWrites []uint32
	fastReads  []uint32
	dataWrites int
	addrIdx    int
	fastIdx    int
}

func (f *fakeFastdataLink) SetInstruction(ir uint32) error { return nil }

func (f *fakeFastdataLink) ScanData(ir uint32, word uint32, write bool) (uint32, error) {
	switch ir {
	case irData:
		f.dataWrites++
		return 0, nil
	case irAddress:
		a := f.addrReads[f.addrIdx]
		f.addrIdx++
		return a, nil
	case irFastData:
		if write {
			f.fastWrites = append(f.fastWrites, word)
			return 0, nil
		}
		v := f.fastReads[f.fastIdx]
		f.fastIdx++
		return v, nil
	default:
		return 0, errors.New("fastdata_test: unexpected IR")
	}
}

func TestTransferRejectsSmallWorkArea(t *testing.T) {
	bw := &fakeBlockWriter{}
	link := &fakeFastdataLink{}
	f := &FastdataEngine{exec: bw, link: link, workBase: 0x1000, workSize: 4}
	buf := make([]uint32, 2)
	err := f.Transfer(0x8000, buf, true)
	if !errors.Is(err, ErrResourceUnavailable) {
		t.Fatalf("got %v, want ErrResourceUnavailable", err)
	}
	if bw.calls != 0 {
		t.Fatalf("WriteBlock32 called %d times, want 0 (no transport writes on rejection)", bw.calls)
	}
}

func TestTransferWriteUploadsHandlerOnce(t *testing.T) {
	bw := &fakeBlockWriter{}
	link := &fakeFastdataLink{
		addrReads: []uint32{0x1000, PrAccText, 0x1000, PrAccText},
		fastReads: []uint32{1, 2, 3, 4},
	}
	f := NewFastdataEngine(nil, link, 0x1000, handlerWords*4)
	f.exec = bw

	buf := make([]uint32, 2)
	if err := f.Transfer(0x80000000, buf, false); err != nil {
		t.Fatalf("Transfer: %v", err)
	}
	if bw.calls != 1 {
		t.Fatalf("handler uploaded %d times, want 1", bw.calls)
	}
	if len(bw.last) != handlerWords {
		t.Fatalf("handler has %d words, want %d", len(bw.last), handlerWords)
	}

	// same direction again: no re-upload.
	if err := f.Transfer(0x80000010, buf, false); err != nil {
		t.Fatalf("Transfer (2nd): %v", err)
	}
	if bw.calls != 1 {
		t.Fatalf("handler re-uploaded on unchanged direction, calls=%d", bw.calls)
	}
}

func TestTransferReUploadsOnDirectionChange(t *testing.T) {
	bw := &fakeBlockWriter{}
	link := &fakeFastdataLink{
		addrReads: []uint32{0x1000, PrAccText, 0x1000, PrAccText},
		fastReads: []uint32{1, 2, 3, 4},
	}
	f := NewFastdataEngine(nil, link, 0x1000, handlerWords*4)
	f.exec = bw

	buf := make([]uint32, 1)
	if err := f.Transfer(0x8000, buf, true); err != nil {
		t.Fatalf("read transfer: %v", err)
	}
	if err := f.Transfer(0x8000, buf, false); err != nil {
		t.Fatalf("write transfer: %v", err)
	}
	if bw.calls != 2 {
		t.Fatalf("expected re-upload on direction flip, calls=%d", bw.calls)
	}
}

func TestTransferRejectsHandlerEntryMismatch(t *testing.T) {
	bw := &fakeBlockWriter{}
	link := &fakeFastdataLink{
		addrReads: []uint32{0xBADADD12},
	}
	f := NewFastdataEngine(nil, link, 0x1000, handlerWords*4)
	f.exec = bw

	buf := make([]uint32, 1)
	err := f.Transfer(0x8000, buf, true)
	if err == nil {
		t.Fatal("expected error on handler entry mismatch")
	}
}

func TestTransferStreamsReadWords(t *testing.T) {
	bw := &fakeBlockWriter{}
	link := &fakeFastdataLink{
		addrReads: []uint32{0x1000, PrAccText},
		fastReads: []uint32{0xaa, 0xbb, 0xcc},
	}
	f := NewFastdataEngine(nil, link, 0x1000, handlerWords*4)
	f.exec = bw

	buf := make([]uint32, 3)
	if err := f.Transfer(0x8000, buf, true); err != nil {
		t.Fatalf("Transfer: %v", err)
	}
	want := []uint32{0xaa, 0xbb, 0xcc}
	for i, v := range want {
		if buf[i] != v {
			t.Fatalf("buf[%d] = %#x, want %#x", i, buf[i], v)
		}
	}
	// 2 outbound start/end words + 3 inbound data words.
	if len(link.fastWrites) != 2 {
		t.Fatalf("fastWrites = %d, want 2 (start_addr, end_addr)", len(link.fastWrites))
	}
}

func TestTransferLogsExitMismatchWithoutFailing(t *testing.T) {
	bw := &fakeBlockWriter{}
	link := &fakeFastdataLink{
		addrReads: []uint32{0x1000, 0xdeadbeef},
		fastReads: []uint32{1},
	}
	f := NewFastdataEngine(nil, link, 0x1000, handlerWords*4)
	f.exec = bw

	buf := make([]uint32, 1)
	if err := f.Transfer(0x8000, buf, true); err != nil {
		t.Fatalf("expected exit-address mismatch to be a warning, got error: %v", err)
	}
}
