package core

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// MUS serializers for the persisted record types. The schema is small and
// fixed, so the serializers are written out rather than generated.
// Timestamps are encoded as Unix microseconds.

var (
	stringSliceMUS  = ord.NewSliceSer[string](ord.String)
	float32SliceMUS = ord.NewSliceSer[float32](varint.Float32)
)

// EmbeddingRecordMUS serializes EmbeddingRecord values.
var EmbeddingRecordMUS = embeddingRecordMUS{}

type embeddingRecordMUS struct{}

func (embeddingRecordMUS) Marshal(r EmbeddingRecord, bs []byte) (n int) {
	n = ord.String.Marshal(r.ID, bs)
	n += varint.Int.Marshal(r.Level, bs[n:])
	n += ord.String.Marshal(r.Title, bs[n:])
	n += ord.String.Marshal(r.Description, bs[n:])
	n += ord.String.Marshal(r.ParentID, bs[n:])
	n += stringSliceMUS.Marshal(r.AncestorIDs, bs[n:])
	n += ord.String.Marshal(r.Fingerprint, bs[n:])
	n += ord.String.Marshal(r.Text, bs[n:])
	n += float32SliceMUS.Marshal(r.Vector, bs[n:])
	n += varint.Int64.Marshal(r.UpdatedAt.UnixMicro(), bs[n:])
	return
}

func (embeddingRecordMUS) Unmarshal(bs []byte) (r EmbeddingRecord, n int, err error) {
	var n1 int
	r.ID, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	r.Level, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	r.Title, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	r.Description, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	r.ParentID, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	r.AncestorIDs, n1, err = stringSliceMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	r.Fingerprint, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	r.Text, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	r.Vector, n1, err = float32SliceMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var micros int64
	micros, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	r.UpdatedAt = time.UnixMicro(micros).UTC()
	return
}

func (embeddingRecordMUS) Size(r EmbeddingRecord) (size int) {
	size = ord.String.Size(r.ID)
	size += varint.Int.Size(r.Level)
	size += ord.String.Size(r.Title)
	size += ord.String.Size(r.Description)
	size += ord.String.Size(r.ParentID)
	size += stringSliceMUS.Size(r.AncestorIDs)
	size += ord.String.Size(r.Fingerprint)
	size += ord.String.Size(r.Text)
	size += float32SliceMUS.Size(r.Vector)
	size += varint.Int64.Size(r.UpdatedAt.UnixMicro())
	return
}

func (embeddingRecordMUS) Skip(bs []byte) (n int, err error) {
	var n1 int
	for _, skip := range []func([]byte) (int, error){
		ord.String.Skip,
		varint.Int.Skip,
		ord.String.Skip,
		ord.String.Skip,
		ord.String.Skip,
		stringSliceMUS.Skip,
		ord.String.Skip,
		ord.String.Skip,
		float32SliceMUS.Skip,
		varint.Int64.Skip,
	} {
		n1, err = skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}

// StoreMetaMUS serializes StoreMeta values.
var StoreMetaMUS = storeMetaMUS{}

// StoreMeta is the per-store bookkeeping record. Its presence in the
// store distinguishes "never written" from "written but empty".
type StoreMeta struct {
	LastUpdated time.Time
	RunCount    int64
}

type storeMetaMUS struct{}

func (storeMetaMUS) Marshal(m StoreMeta, bs []byte) (n int) {
	n = varint.Int64.Marshal(m.LastUpdated.UnixMicro(), bs)
	n += varint.Int64.Marshal(m.RunCount, bs[n:])
	return
}

func (storeMetaMUS) Unmarshal(bs []byte) (m StoreMeta, n int, err error) {
	var micros int64
	micros, n, err = varint.Int64.Unmarshal(bs)
	if err != nil {
		return
	}
	m.LastUpdated = time.UnixMicro(micros).UTC()
	var n1 int
	m.RunCount, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	return
}

func (storeMetaMUS) Size(m StoreMeta) (size int) {
	size = varint.Int64.Size(m.LastUpdated.UnixMicro())
	size += varint.Int64.Size(m.RunCount)
	return
}

func (storeMetaMUS) Skip(bs []byte) (n int, err error) {
	var n1 int
	n, err = varint.Int64.Skip(bs)
	if err != nil {
		return
	}
	n1, err = varint.Int64.Skip(bs[n:])
	n += n1
	return
}
