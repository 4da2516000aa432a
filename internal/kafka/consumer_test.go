package kafka

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"

	cachemem "github.com/Gunvolt24/techshop/internal/cache/memory"
	"github.com/Gunvolt24/techshop/internal/domain"
	"github.com/Gunvolt24/techshop/internal/kafka/mocks"
	portmocks "github.com/Gunvolt24/techshop/internal/ports/mocks"
	"github.com/Gunvolt24/techshop/internal/usecase"
)

type nopLogger struct{}

func (nopLogger) Infof(context.Context, string, ...any)  {}
func (nopLogger) Warnf(context.Context, string, ...any)  {}
func (nopLogger) Errorf(context.Context, string, ...any) {}

var testReaderConfig = kafka.ReaderConfig{Topic: "product-updates", GroupID: "techshop", Brokers: []string{"b:9092"}}

func newTestConsumer(r reader, h messageHandler) *Consumer {
	return &Consumer{
		reader: r, handler: h, log: nopLogger{},
		processTimeout: 30 * time.Millisecond,
		retryInitial:   5 * time.Millisecond,
		retryMax:       10 * time.Millisecond,
		jitterRand:     rand.New(rand.NewSource(1)),
	}
}

// blockUntilCancel — следующий FetchMessage ждёт отмены контекста.
func blockUntilCancel(r *mocks.Mockreader) {
	r.EXPECT().FetchMessage(gomock.Any()).
		DoAndReturn(func(ctx context.Context) (kafka.Message, error) {
			<-ctx.Done()
			return kafka.Message{}, ctx.Err()
		})
}

// runBriefly — запускает Run, даёт ему поработать и останавливает отменой контекста.
func runBriefly(t *testing.T, c *Consumer) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- c.Run(ctx) }()

	time.Sleep(60 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(200 * time.Millisecond):
		t.Fatal("timeout waiting for Run to stop")
	}
}

func TestRun_CommitDecision(t *testing.T) {
	tests := []struct {
		name        string
		payload     string
		handlerErrs []error // по ошибке на попытку
	}{
		{"processed", `{"id":1}`, []error{nil}},
		{"invalid event skipped", `not-json`, []error{usecase.ErrInvalidEvent}},
		{"wrapped invalid event skipped", `{}`, []error{errors.Join(errors.New("decode"), usecase.ErrInvalidEvent)}},
		{"temporary failure retried in place", `{"id":2}`, []error{errors.New("cache down"), errors.New("cache down"), nil}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			r := mocks.NewMockreader(ctrl)
			h := mocks.NewMockmessageHandler(ctrl)

			msg := kafka.Message{Offset: 1, Value: []byte(tt.payload)}
			r.EXPECT().Config().Return(testReaderConfig).AnyTimes()
			r.EXPECT().FetchMessage(gomock.Any()).Return(msg, nil)

			calls := make([]*gomock.Call, 0, len(tt.handlerErrs))
			for _, e := range tt.handlerErrs {
				calls = append(calls, h.EXPECT().InvalidateFromMessage(gomock.Any(), []byte(tt.payload)).Return(e))
			}
			gomock.InOrder(calls...)

			// коммит ровно один раз, после последней попытки
			r.EXPECT().CommitMessages(gomock.Any(), msg).Return(nil)
			blockUntilCancel(r)

			runBriefly(t, newTestConsumer(r, h))
		})
	}
}

func TestRun_GivesUpAfterMaxAttempts(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := mocks.NewMockreader(ctrl)
	h := mocks.NewMockmessageHandler(ctrl)

	r.EXPECT().Config().Return(testReaderConfig).AnyTimes()
	r.EXPECT().FetchMessage(gomock.Any()).Return(kafka.Message{Offset: 9, Value: []byte(`{"id":9}`)}, nil)
	h.EXPECT().InvalidateFromMessage(gomock.Any(), gomock.Any()).Return(errors.New("cache down")).Times(2)
	r.EXPECT().CommitMessages(gomock.Any(), gomock.Any()).Return(nil)
	blockUntilCancel(r)

	c := newTestConsumer(r, h)
	c.maxAttempts = 2
	runBriefly(t, c)
}

// Отмена во время повторов: оффсет не коммитится, сообщение придёт снова.
func TestRun_CancelDuringRetry_NoCommit(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := mocks.NewMockreader(ctrl)
	h := mocks.NewMockmessageHandler(ctrl)

	r.EXPECT().Config().Return(testReaderConfig).AnyTimes()
	r.EXPECT().FetchMessage(gomock.Any()).Return(kafka.Message{Offset: 4, Value: []byte(`{"id":4}`)}, nil)
	h.EXPECT().InvalidateFromMessage(gomock.Any(), gomock.Any()).Return(errors.New("cache down")).MinTimes(1)

	runBriefly(t, newTestConsumer(r, h))
}

func TestRun_CommitErrorIsOnlyLogged(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := mocks.NewMockreader(ctrl)
	h := mocks.NewMockmessageHandler(ctrl)

	r.EXPECT().Config().Return(testReaderConfig).AnyTimes()
	r.EXPECT().FetchMessage(gomock.Any()).Return(kafka.Message{Offset: 3, Value: []byte(`{"id":3}`)}, nil)
	h.EXPECT().InvalidateFromMessage(gomock.Any(), gomock.Any()).Return(nil)
	r.EXPECT().CommitMessages(gomock.Any(), gomock.Any()).Return(errors.New("temporary"))
	blockUntilCancel(r)

	runBriefly(t, newTestConsumer(r, h))
}

func TestRun_FetchErrorRetriesUntilDeadline(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := mocks.NewMockreader(ctrl)
	h := mocks.NewMockmessageHandler(ctrl)

	r.EXPECT().Config().Return(testReaderConfig).AnyTimes()
	r.EXPECT().FetchMessage(gomock.Any()).
		Return(kafka.Message{}, errors.New("broker error")).MinTimes(2)

	ctx, cancel := context.WithTimeout(context.Background(), 40*time.Millisecond)
	defer cancel()

	err := newTestConsumer(r, h).Run(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

// Сообщение проходит через настоящий резолвер и выкидывает товар из кэша.
func TestRun_InvalidatesProductCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := mocks.NewMockreader(ctrl)

	cache := cachemem.NewProductCache(10, 0)
	ctx := context.Background()
	require.NoError(t, cache.WarmUp(ctx, []domain.Product{{ID: 1}, {ID: 2}}))
	resolver := usecase.NewProductResolver(portmocks.NewMockCatalogAPI(ctrl), cache, nopLogger{})

	r.EXPECT().Config().Return(testReaderConfig).AnyTimes()
	r.EXPECT().FetchMessage(gomock.Any()).Return(kafka.Message{Offset: 5, Value: []byte(`{"ids":[1]}`)}, nil)
	r.EXPECT().CommitMessages(gomock.Any(), gomock.Any()).Return(nil)
	blockUntilCancel(r)

	runBriefly(t, newTestConsumer(r, resolver))

	_, ok := cache.Get(ctx, 1)
	require.False(t, ok)
	_, ok = cache.Get(ctx, 2)
	require.True(t, ok)
}

func TestClose_DelegatesToReaderOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := mocks.NewMockreader(ctrl)

	r.EXPECT().Close().Return(nil).Times(1)

	c := newTestConsumer(r, mocks.NewMockmessageHandler(ctrl))
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
}

func TestBackoff_DoublesUpToMaxAndResets(t *testing.T) {
	c := newTestConsumer(nil, nil)
	b := c.newBackoff()

	within := func(d, lo, hi time.Duration) {
		t.Helper()
		require.GreaterOrEqual(t, d, lo)
		require.LessOrEqual(t, d, hi)
	}
	within(b.next(), 2500*time.Microsecond, 5*time.Millisecond)
	within(b.next(), 5*time.Millisecond, 10*time.Millisecond)
	for i := 0; i < 10; i++ {
		within(b.next(), 5*time.Millisecond, 10*time.Millisecond)
	}

	b.reset()
	within(b.next(), 2500*time.Microsecond, 5*time.Millisecond)
}

func TestSleepCtx_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.False(t, sleepCtx(ctx, time.Second))
	require.True(t, sleepCtx(context.Background(), time.Millisecond))
}
