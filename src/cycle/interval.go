package cycle

import (
	"context"
	"time"

	"textshot/src/notification"
	"textshot/src/screenshot"
)

const minPeriod = 10 * time.Millisecond

// Interval re-captures the region every Period until ctx is cancelled.
// Text is delivered only when it differs from the last delivered text.
// A pass that overruns the period drops the missed ticks.
type Interval struct {
	Period time.Duration
}

func (Interval) Name() string { return "interval" }

func (m Interval) Run(ctx context.Context, c *Controller, region screenshot.Region) {
	period := m.Period
	if period < minPeriod {
		period = minPeriod
	}
	c.log.Info().Stringer("region", region).Dur("period", period).Msg("interval capture started")

	var baseline Baseline
	m.tick(ctx, c, region, &baseline)

	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			c.log.Info().Msg("interval capture stopped")
			return
		case <-ticker.C:
			if ctx.Err() != nil {
				continue
			}
			m.tick(ctx, c, region, &baseline)
		}
	}
}

func (m Interval) tick(ctx context.Context, c *Controller, region screenshot.Region, baseline *Baseline) {
	out := c.Pass(ctx, region)
	switch {
	case out.Failed():
		if ctx.Err() != nil {
			return
		}
		c.fail(out.Err)
	case out.Empty():
		c.log.Error().Msg(notification.FailureMessage)
	case baseline.Changed(out.Text):
		if err := c.deliver(out.Text, false); err == nil {
			baseline.Set(out.Text)
		}
	}
}

// Baseline remembers the last delivered text of an interval run.
// Empty results and failures never replace it.
type Baseline struct {
	last string
	set  bool
}

// Changed reports whether text differs from the last delivered text.
func (b *Baseline) Changed(text string) bool { return !b.set || b.last != text }

func (b *Baseline) Set(text string) {
	b.last = text
	b.set = true
}

// Last returns the last delivered text, if any.
func (b *Baseline) Last() (string, bool) { return b.last, b.set }
