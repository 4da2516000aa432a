package kafka

import (
	"context"
	"math/rand"
	"time"
)

// backoff — экспоненциальная задержка с «равным» джиттером:
// половина фиксирована, половина случайна.
type backoff struct {
	initial time.Duration
	max     time.Duration
	cur     time.Duration
	rnd     *rand.Rand
}

func (c *Consumer) newBackoff() *backoff {
	return &backoff{initial: c.retryInitial, max: c.retryMax, cur: c.retryInitial, rnd: c.jitterRand}
}

// next — задержка для текущей попытки; следующая будет вдвое больше (до max).
func (b *backoff) next() time.Duration {
	d := b.cur
	b.cur *= 2
	if b.cur > b.max {
		b.cur = b.max
	}
	if d <= 0 {
		return 0
	}
	half := d / 2
	return half + time.Duration(b.rnd.Int63n(int64(d-half)+1))
}

func (b *backoff) reset() { b.cur = b.initial }

// sleepCtx — false, если ctx отменили раньше.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func positiveOr(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}
