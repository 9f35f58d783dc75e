// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/poiesic/skillsearch/core"
)

// snapshotMetadata is the leading line of a snapshot file. Its presence
// distinguishes an intentionally empty snapshot from a truncated one.
type snapshotMetadata struct {
	Metadata snapshotMetaBody `json:"_metadata"`
}

type snapshotMetaBody struct {
	LastUpdated time.Time `json:"lastUpdated"`
	RunCount    int64     `json:"runCount"`
	Records     int       `json:"records"`
}

// WriteSnapshot writes the store contents as JSON Lines: one metadata line
// followed by one embedding record per line, sorted by skill id. The format
// is the portable interchange form of the store, usable for backup and for
// seeding a fresh database.
func WriteSnapshot(w io.Writer, meta *core.StoreMeta, records []*core.EmbeddingRecord) error {
	sorted := slices.Clone(records)
	slices.SortFunc(sorted, func(a, b *core.EmbeddingRecord) int {
		return strings.Compare(a.ID, b.ID)
	})

	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)

	head := snapshotMetadata{
		Metadata: snapshotMetaBody{Records: len(sorted)},
	}
	if meta != nil {
		head.Metadata.LastUpdated = meta.LastUpdated
		head.Metadata.RunCount = meta.RunCount
	}
	if err := enc.Encode(head); err != nil {
		return err
	}

	for _, rec := range sorted {
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("snapshot record %s: %w", rec.ID, err)
		}
	}
	return bw.Flush()
}

// ReadSnapshot parses a snapshot previously written by WriteSnapshot.
// Malformed record lines are skipped with a warning rather than failing the
// whole restore; a missing or malformed metadata line is an error since it
// indicates the file is not a snapshot at all.
func ReadSnapshot(r io.Reader) (*core.StoreMeta, []*core.EmbeddingRecord, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("%w: missing metadata line", ErrSnapshotFormat)
	}

	var head snapshotMetadata
	if err := json.Unmarshal(scanner.Bytes(), &head); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrSnapshotFormat, err)
	}

	meta := &core.StoreMeta{
		LastUpdated: head.Metadata.LastUpdated,
		RunCount:    head.Metadata.RunCount,
	}

	var records []*core.EmbeddingRecord
	line := 1
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(strings.TrimSpace(string(raw))) == 0 {
			continue
		}
		var rec core.EmbeddingRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			slog.Warn("skipping malformed snapshot line", "line", line, "err", err)
			continue
		}
		if rec.ID == "" {
			slog.Warn("skipping snapshot record without id", "line", line)
			continue
		}
		records = append(records, &rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, err
	}
	return meta, records, nil
}
