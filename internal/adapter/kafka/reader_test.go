package kafka

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedFetcher replays a fixed sequence of fetch results. Once the script
// is exhausted it blocks until the fetch context is done.
type scriptedFetcher struct {
	results   []fetchResult
	committed []kafkago.Message
}

type fetchResult struct {
	msg kafkago.Message
	err error
}

func (f *scriptedFetcher) FetchMessage(ctx context.Context) (kafkago.Message, error) {
	if len(f.results) == 0 {
		<-ctx.Done()
		return kafkago.Message{}, ctx.Err()
	}
	next := f.results[0]
	f.results = f.results[1:]
	return next.msg, next.err
}

func (f *scriptedFetcher) CommitMessages(_ context.Context, msgs ...kafkago.Message) error {
	f.committed = append(f.committed, msgs...)
	return nil
}

func (f *scriptedFetcher) Close() error { return nil }

func newScriptedReader(results ...fetchResult) (*Reader, *scriptedFetcher) {
	f := &scriptedFetcher{results: results}
	return &Reader{
		reader:        f,
		flushInterval: 20 * time.Millisecond,
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, f
}

func inboundMessage(offset int64) kafkago.Message {
	return kafkago.Message{
		Topic:  "inbound-sms",
		Key:    []byte("+16478036114"),
		Value:  []byte(`{"from":"+16478036114","body":"weather"}`),
		Offset: offset,
	}
}

func TestExtractBatch_FullBatch(t *testing.T) {
	r, _ := newScriptedReader(
		fetchResult{msg: inboundMessage(1)},
		fetchResult{msg: inboundMessage(2)},
		fetchResult{msg: inboundMessage(3)},
	)

	batch, err := r.ExtractBatch(context.Background(), 2)

	require.NoError(t, err)
	require.Len(t, batch, 2)
	assert.Equal(t, int64(1), batch[0].Offset)
	assert.Equal(t, int64(2), batch[1].Offset)
}

func TestExtractBatch_FlushIntervalEndsBatch(t *testing.T) {
	r, _ := newScriptedReader(fetchResult{msg: inboundMessage(7)})

	batch, err := r.ExtractBatch(context.Background(), 10)

	require.NoError(t, err)
	require.Len(t, batch, 1)
	assert.Equal(t, int64(7), batch[0].Offset)
}

func TestExtractBatch_FirstFetchError(t *testing.T) {
	r, _ := newScriptedReader(fetchResult{err: errors.New("broker unavailable")})

	batch, err := r.ExtractBatch(context.Background(), 10)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker unavailable")
	assert.Empty(t, batch)
}

func TestExtractBatch_MidBatchErrorKeepsFetchedMessages(t *testing.T) {
	r, f := newScriptedReader(
		fetchResult{msg: inboundMessage(1)},
		fetchResult{msg: inboundMessage(2)},
		fetchResult{err: errors.New("broker unavailable")},
		fetchResult{msg: inboundMessage(3)},
	)

	batch, err := r.ExtractBatch(context.Background(), 10)

	require.NoError(t, err)
	require.Len(t, batch, 2)
	assert.Equal(t, int64(1), batch[0].Offset)
	assert.Equal(t, int64(2), batch[1].Offset)

	for _, raw := range batch {
		require.NoError(t, raw.Commit(context.Background()))
	}
	require.Len(t, f.committed, 2)
	assert.Equal(t, int64(2), f.committed[1].Offset)
}

func TestExtractBatch_CancelledMidBatch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r, _ := newScriptedReader(fetchResult{msg: inboundMessage(1)})
	r.flushInterval = time.Minute

	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	batch, err := r.ExtractBatch(ctx, 10)

	require.NoError(t, err)
	assert.Len(t, batch, 1)
}
