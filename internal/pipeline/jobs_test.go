package pipeline

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentHashHex_Consistency(t *testing.T) {
	data := []byte("hello world")
	h1 := ContentHashHex(data)
	h2 := ContentHashHex(data)
	assert.Equal(t, h1, h2)
	// SHA-256 of "hello world" is well-known.
	assert.Equal(t, "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9", h1)
}

func TestContentHashHex_DifferentInputs(t *testing.T) {
	assert.NotEqual(t, ContentHashHex([]byte("aaa")), ContentHashHex([]byte("bbb")))
}

func TestContentHashHex_EmptyInput(t *testing.T) {
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", ContentHashHex([]byte{}))
}

func TestNewBatch(t *testing.T) {
	b := NewBatch("notes.md")
	assert.NotEmpty(t, b.ID)
	assert.Equal(t, StatusRunning, b.Status)
	assert.Equal(t, "notes.md", b.Input)
	assert.NotEqual(t, b.ID, NewBatch("notes.md").ID)
}

func TestBatch_SetStatusAdvancesUpdatedAt(t *testing.T) {
	b := NewBatch("x")
	before := b.UpdatedAt
	time.Sleep(time.Millisecond)
	b.SetStatus(StatusFailed)
	assert.Equal(t, StatusFailed, b.Status)
	assert.True(t, b.UpdatedAt.After(before))
}

func TestBatch_FinishStatus(t *testing.T) {
	tests := []struct {
		name    string
		outputs int
		errors  int
		want    BatchStatus
	}{
		{"all written", 2, 0, StatusCompleted},
		{"nothing to do", 0, 0, StatusCompleted},
		{"some failed", 1, 1, StatusPartial},
		{"all failed", 0, 2, StatusFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBatch("x")
			for range tt.outputs {
				b.AddOutput(Output{Tag: "a"})
			}
			for range tt.errors {
				b.AddError("boom")
			}
			b.finish([]string{"a"})
			assert.Equal(t, tt.want, b.Status)
		})
	}
}

func TestBatch_FinishOrdersOutputs(t *testing.T) {
	b := NewBatch("x")
	b.AddOutput(Output{Tag: "c"})
	b.AddOutput(Output{Tag: "a"})
	b.AddOutput(Output{Tag: "b"})
	b.finish([]string{"a", "b", "c"})

	snap := b.Snapshot()
	require.Len(t, snap.Outputs, 3)
	assert.Equal(t, "a", snap.Outputs[0].Tag)
	assert.Equal(t, "b", snap.Outputs[1].Tag)
	assert.Equal(t, "c", snap.Outputs[2].Tag)
}

func TestBatch_ConcurrentUpdates(t *testing.T) {
	b := NewBatch("x")
	b.SetTotal(50)

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if i%5 == 0 {
				b.AddError("e")
				return
			}
			b.AddOutput(Output{Tag: "t"})
		}()
	}
	wg.Wait()

	snap := b.Snapshot()
	assert.Equal(t, 50, snap.Progress.TotalTags)
	assert.Equal(t, 40, snap.Progress.TagsWritten)
	assert.Len(t, snap.Progress.Errors, 10)
}

func TestBatch_SnapshotEmptySlices(t *testing.T) {
	snap := NewBatch("x").Snapshot()
	assert.NotNil(t, snap.Outputs)
	assert.NotNil(t, snap.Progress.Errors)
}
