package report

import (
	"testing"

	"github.com/fenwicklabs/dtwin/internal/membership"
	"github.com/fenwicklabs/dtwin/internal/ringbuffer"
	"github.com/stretchr/testify/assert"
)

func TestReport_ConformsWhenNoFailures(t *testing.T) {
	r := New(true)
	r.RecordVerdict(membership.OK)
	r.RecordVerdict(membership.OK)
	assert.True(t, r.Conforms())
	assert.Contains(t, r.String(), "verdict           : CONFORMS")
}

func TestReport_NonconformantAfterFailure(t *testing.T) {
	r := New(true)
	r.RecordVerdict(membership.OK)
	r.RecordVerdict(membership.FAIL)
	assert.False(t, r.Conforms())
	assert.Contains(t, r.String(), "verdict           : NONCONFORMANT")
	assert.Contains(t, r.String(), "total steps       : 2")
}

func TestReport_OmitsVerificationSectionWhenNotVerifying(t *testing.T) {
	r := New(false)
	assert.NotContains(t, r.String(), "verdict")
}

func TestReport_IncludesBufferAndSequencerCounters(t *testing.T) {
	r := New(false)
	r.SetReadingsProduced(10)
	r.SetBufferStats(ringbuffer.Stats{Capacity: 5, PeakSize: 5, TotalWritten: 10, TotalRead: 8, TotalDropped: 2})
	r.SetSequencerCounts(8, 7)

	s := r.String()
	assert.Contains(t, s, "readings produced : 10")
	assert.Contains(t, s, "capacity          : 5")
	assert.Contains(t, s, "total dropped     : 2")
	assert.Contains(t, s, "sequencer inputs  : 8")
	assert.Contains(t, s, "sequencer outputs : 7")
}
