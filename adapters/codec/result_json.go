// Package codec reads and writes q-value result documents.
package codec

import (
	"fmt"
	"io"
	"os"

	"fdrtidy/domain/core"
	"fdrtidy/domain/fdr"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// resultDocument is the wire form of fdr.Result. Both the underscore and the
// dotted spellings of the pi0 sequences are read; the underscore one wins.
// A JSON null reads the same as an absent key.
type resultDocument struct {
	ID        string          `json:"id,omitempty"`
	Label     string          `json:"label,omitempty"`
	CreatedAt *core.Timestamp `json:"created_at,omitempty"`

	PValues      *[]float64 `json:"pvalues,omitempty"`
	QValues      *[]float64 `json:"qvalues,omitempty"`
	LFDR         *[]float64 `json:"lfdr,omitempty"`
	Lambda       *[]float64 `json:"lambda,omitempty"`
	Pi0Lambda    *[]float64 `json:"pi0_lambda,omitempty"`
	Pi0Smooth    *[]float64 `json:"pi0_smooth,omitempty"`
	Pi0LambdaDot *[]float64 `json:"pi0.lambda,omitempty"`
	Pi0SmoothDot *[]float64 `json:"pi0.smooth,omitempty"`
	Pi0          *float64   `json:"pi0,omitempty"`
}

// UnmarshalResult decodes a result document. Missing fields are not an
// error here; they surface when a tabulator first reads them.
func UnmarshalResult(data []byte) (*fdr.Result, error) {
	var doc resultDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrMalformedResult, err)
	}
	return doc.toResult(), nil
}

// DecodeResult reads one result document from r
func DecodeResult(r io.Reader) (*fdr.Result, error) {
	var doc resultDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrMalformedResult, err)
	}
	return doc.toResult(), nil
}

// ReadResultFile decodes the result document stored at path
func ReadResultFile(path string) (*fdr.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open result file: %w", err)
	}
	defer f.Close()
	return DecodeResult(f)
}

// MarshalResult encodes res with the canonical field names. Absent fields are
// left out and empty ones are kept, so a round trip preserves both.
func MarshalResult(res *fdr.Result) ([]byte, error) {
	return json.Marshal(fromResult(res))
}

// EncodeResult writes res to w
func EncodeResult(w io.Writer, res *fdr.Result) error {
	return json.NewEncoder(w).Encode(fromResult(res))
}

func (d *resultDocument) toResult() *fdr.Result {
	res := &fdr.Result{
		ID:        core.ResultID(d.ID),
		Label:     d.Label,
		PValues:   deref(d.PValues),
		QValues:   deref(d.QValues),
		LFDR:      deref(d.LFDR),
		Lambda:    deref(d.Lambda),
		Pi0Lambda: deref(firstPresent(d.Pi0Lambda, d.Pi0LambdaDot)),
		Pi0Smooth: deref(firstPresent(d.Pi0Smooth, d.Pi0SmoothDot)),
		Pi0:       d.Pi0,
	}
	if d.CreatedAt != nil {
		res.CreatedAt = *d.CreatedAt
	}
	return res
}

func fromResult(res *fdr.Result) *resultDocument {
	doc := &resultDocument{
		ID:        res.ID.String(),
		Label:     res.Label,
		PValues:   ref(res.PValues),
		QValues:   ref(res.QValues),
		LFDR:      ref(res.LFDR),
		Lambda:    ref(res.Lambda),
		Pi0Lambda: ref(res.Pi0Lambda),
		Pi0Smooth: ref(res.Pi0Smooth),
		Pi0:       res.Pi0,
	}
	if !res.CreatedAt.IsZero() {
		ts := res.CreatedAt
		doc.CreatedAt = &ts
	}
	return doc
}

func firstPresent(seqs ...*[]float64) *[]float64 {
	for _, s := range seqs {
		if s != nil {
			return s
		}
	}
	return nil
}

func deref(s *[]float64) []float64 {
	if s == nil {
		return nil
	}
	if *s == nil {
		return []float64{}
	}
	return *s
}

func ref(s []float64) *[]float64 {
	if s == nil {
		return nil
	}
	return &s
}
