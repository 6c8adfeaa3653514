package service

import (
	"context"
	"strings"

	"restaurant-ops/internal/common/metrics"
	"restaurant-ops/internal/domain"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Sender delivers one plain-text e-mail.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

type Failure struct {
	Email string `json:"email"`
	Err   error  `json:"-"`
}

// DispatchResult partitions recipients by outcome, each side in input order.
type DispatchResult struct {
	Succeeded []string
	Failed    []Failure
}

func (r DispatchResult) FailedEmails() []string {
	out := make([]string, 0, len(r.Failed))
	for _, f := range r.Failed {
		out = append(out, f.Email)
	}
	return out
}

type Dispatcher struct {
	sender      Sender
	maxParallel int
	log         zerolog.Logger
}

// NewDispatcher returns a dispatcher issuing at most maxParallel sends at a
// time; zero means one goroutine per recipient.
func NewDispatcher(sender Sender, maxParallel int, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{sender: sender, maxParallel: maxParallel, log: log}
}

// Dispatch sends body to every recipient independently. A failed send is
// final for this call and never affects the other recipients.
func (d *Dispatcher) Dispatch(ctx context.Context, recipients []string, subject, body string) DispatchResult {
	errs := make([]error, len(recipients))

	var g errgroup.Group
	if d.maxParallel > 0 {
		g.SetLimit(d.maxParallel)
	}
	for i, to := range recipients {
		i, to := i, to
		g.Go(func() error {
			if strings.TrimSpace(to) == "" {
				errs[i] = domain.Validationf("empty recipient address")
				return nil
			}
			errs[i] = d.sender.Send(ctx, to, subject, body)
			return nil
		})
	}
	_ = g.Wait()

	res := DispatchResult{Succeeded: []string{}, Failed: []Failure{}}
	for i, to := range recipients {
		metrics.EmailsSent.WithLabelValues(metrics.Outcome(errs[i])).Inc()
		if errs[i] != nil {
			d.log.Warn().Err(errs[i]).Str("recipient", to).Str("subject", subject).Msg("email not sent")
			res.Failed = append(res.Failed, Failure{Email: to, Err: errs[i]})
			continue
		}
		res.Succeeded = append(res.Succeeded, to)
	}
	return res
}
