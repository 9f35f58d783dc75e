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
	"slices"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/skillsearch/ai"
	"github.com/poiesic/skillsearch/core"
)

// MarshalEmbeddingRecord serializes an EmbeddingRecord to bytes.
func MarshalEmbeddingRecord(record *core.EmbeddingRecord) []byte {
	buf := make([]byte, core.EmbeddingRecordMUS.Size(*record))
	core.EmbeddingRecordMUS.Marshal(*record, buf)
	return buf
}

// UnmarshalEmbeddingRecord deserializes an EmbeddingRecord from bytes.
func UnmarshalEmbeddingRecord(data []byte) (*core.EmbeddingRecord, error) {
	record, _, err := core.EmbeddingRecordMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// MarshalStoreMeta serializes StoreMeta to bytes.
func MarshalStoreMeta(meta *core.StoreMeta) []byte {
	buf := make([]byte, core.StoreMetaMUS.Size(*meta))
	core.StoreMetaMUS.Marshal(*meta, buf)
	return buf
}

// UnmarshalStoreMeta deserializes StoreMeta from bytes.
func UnmarshalStoreMeta(data []byte) (*core.StoreMeta, error) {
	meta, _, err := core.StoreMetaMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &meta, nil
}

var (
	stringSliceMUS  = ord.NewSliceSer[string](ord.String)
	float32SliceMUS = ord.NewSliceSer[float32](varint.Float32)
)

// MarshalVectorEntry serializes an ai.VectorEntry to bytes. The metadata
// map is flattened to sorted parallel key/value slices so the encoding is
// deterministic.
func MarshalVectorEntry(entry *ai.VectorEntry) []byte {
	keys, values := flattenMetadata(entry.Metadata)

	size := ord.String.Size(entry.Key) +
		float32SliceMUS.Size(entry.Vector) +
		stringSliceMUS.Size(keys) +
		stringSliceMUS.Size(values)

	buf := make([]byte, size)
	n := ord.String.Marshal(entry.Key, buf)
	n += float32SliceMUS.Marshal(entry.Vector, buf[n:])
	n += stringSliceMUS.Marshal(keys, buf[n:])
	stringSliceMUS.Marshal(values, buf[n:])
	return buf
}

// UnmarshalVectorEntry deserializes an ai.VectorEntry from bytes.
func UnmarshalVectorEntry(data []byte) (*ai.VectorEntry, error) {
	var entry ai.VectorEntry

	key, n, err := ord.String.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	entry.Key = key

	vector, n1, err := float32SliceMUS.Unmarshal(data[n:])
	n += n1
	if err != nil {
		return nil, err
	}
	entry.Vector = vector

	keys, n1, err := stringSliceMUS.Unmarshal(data[n:])
	n += n1
	if err != nil {
		return nil, err
	}
	values, _, err := stringSliceMUS.Unmarshal(data[n:])
	if err != nil {
		return nil, err
	}
	if len(keys) != len(values) {
		return nil, ErrSerializationFailed
	}
	if len(keys) > 0 {
		entry.Metadata = make(map[string]string, len(keys))
		for i, k := range keys {
			entry.Metadata[k] = values[i]
		}
	}
	return &entry, nil
}

func flattenMetadata(metadata map[string]string) (keys, values []string) {
	if len(metadata) == 0 {
		return nil, nil
	}
	keys = make([]string, 0, len(metadata))
	for k := range metadata {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	values = make([]string, len(keys))
	for i, k := range keys {
		values[i] = metadata[k]
	}
	return keys, values
}
