package importer

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/shiftboard/internal/domain"
	"github.com/google/uuid"
)

// recordNamespace seeds content-derived record ids.
var recordNamespace = uuid.MustParse("6f1c2a4e-3b7d-4e59-9a0c-5d8e2f71b6a3")

// Normalizer turns raw rows into canonical records and owns the id counter.
// The counter is reset at the start of every NormalizeAll call.
type Normalizer struct {
	scheme domain.IDScheme
	seq    int
}

// NewNormalizer creates a Normalizer using the given id scheme. An empty
// scheme means IDSchemeSequence.
func NewNormalizer(scheme domain.IDScheme) *Normalizer {
	if scheme == "" {
		scheme = domain.IDSchemeSequence
	}
	return &Normalizer{scheme: scheme}
}

// Reset restarts the sequence counter.
func (n *Normalizer) Reset() { n.seq = 0 }

// Scheme returns the id scheme in use.
func (n *Normalizer) Scheme() domain.IDScheme { return n.scheme }

// GenerateID returns an id of the form A<yyyymmdd>-<suffix>. With the
// sequence scheme the suffix is a 4-digit counter unique within one batch;
// with the content scheme it is derived from date, worker, process and start.
func (n *Normalizer) GenerateID(date, worker, process, start, end string) string {
	prefix := "A" + strings.ReplaceAll(date, "-", "")
	if n.scheme == domain.IDSchemeContent {
		key := strings.Join([]string{date, worker, process, start}, "|")
		sum := uuid.NewSHA1(recordNamespace, []byte(key))
		return prefix + "-" + strings.ReplaceAll(sum.String(), "-", "")[:8]
	}
	n.seq++
	return fmt.Sprintf("%s-%04d", prefix, n.seq)
}
