package custody

import (
	"testing"
	"time"
)

func chainEntry() CustodyLogEntry {
	return CustodyLogEntry{
		EvidenceID:    "ev-1",
		Seq:           1,
		Action:        ActionCreated,
		PerformedBy:   "investigator",
		Timestamp:     time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		HashVerified:  HashPass,
		PrevEntryHash: ZeroEntryHash(),
	}
}

func TestComputeEntryHashDeterministic(t *testing.T) {
	first, err := ComputeEntryHash(chainEntry())
	if err != nil {
		t.Fatalf("ComputeEntryHash: %v", err)
	}
	second, err := ComputeEntryHash(chainEntry())
	if err != nil {
		t.Fatalf("ComputeEntryHash: %v", err)
	}
	if first != second {
		t.Errorf("hash not deterministic: %s vs %s", first, second)
	}
	if len(first) != 64 {
		t.Errorf("hash length = %d, want 64 hex chars", len(first))
	}
}

func TestComputeEntryHashCoversFields(t *testing.T) {
	base, _ := ComputeEntryHash(chainEntry())

	mutations := map[string]func(*CustodyLogEntry){
		"performed_by":    func(e *CustodyLogEntry) { e.PerformedBy = "intruder" },
		"action":          func(e *CustodyLogEntry) { e.Action = ActionSealed },
		"transferred_to":  func(e *CustodyLogEntry) { e.TransferredTo = "analyst" },
		"hash_verified":   func(e *CustodyLogEntry) { e.HashVerified = HashFail },
		"notes":           func(e *CustodyLogEntry) { e.Notes = "Hash check: PASS" },
		"timestamp":       func(e *CustodyLogEntry) { e.Timestamp = e.Timestamp.Add(time.Nanosecond) },
		"seq":             func(e *CustodyLogEntry) { e.Seq = 2 },
		"prev_entry_hash": func(e *CustodyLogEntry) { e.PrevEntryHash = base },
	}
	for name, mutate := range mutations {
		entry := chainEntry()
		mutate(&entry)
		got, err := ComputeEntryHash(entry)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if got == base {
			t.Errorf("changing %s did not change the hash", name)
		}
	}
}

func TestComputeEntryHashRejectsIncompleteEntries(t *testing.T) {
	tests := map[string]func(*CustodyLogEntry){
		"missing evidence id": func(e *CustodyLogEntry) { e.EvidenceID = "" },
		"missing action":      func(e *CustodyLogEntry) { e.Action = "" },
		"zero seq":            func(e *CustodyLogEntry) { e.Seq = 0 },
		"missing prev hash":   func(e *CustodyLogEntry) { e.PrevEntryHash = "" },
	}
	for name, mutate := range tests {
		entry := chainEntry()
		mutate(&entry)
		if _, err := ComputeEntryHash(entry); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestSnapshotHashVerified(t *testing.T) {
	item := EvidenceItem{OriginalHash: "a", CurrentHash: "a"}
	if got := SnapshotHashVerified(item); got != HashPass {
		t.Errorf("matching hashes: got %s, want PASS", got)
	}
	item.CurrentHash = "b"
	if got := SnapshotHashVerified(item); got != HashFail {
		t.Errorf("mismatched hashes: got %s, want FAIL", got)
	}
}

func TestMetadataHashChangesWithInputs(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	base := MetadataHash("CASE-1", "desc", "Digital", at)
	if base == MetadataHash("CASE-2", "desc", "Digital", at) {
		t.Error("case number not covered")
	}
	if base == MetadataHash("CASE-1", "desc", "Digital", at.Add(time.Nanosecond)) {
		t.Error("timestamp not covered")
	}
	if base != MetadataHash("CASE-1", "desc", "Digital", at) {
		t.Error("hash not deterministic")
	}
}
