package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

var (
	ErrInterrupted = errors.New("interrupted by user")
	ErrFault       = errors.New("fault in protected region")
)

// Outcome is the path a run took through the protected region.
type Outcome int

const (
	Completed Outcome = iota
	Interrupted
	Faulted
)

func (o Outcome) String() string {
	switch o {
	case Completed:
		return "completed"
	case Interrupted:
		return "interrupted"
	case Faulted:
		return "faulted"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// Result describes how a run ended. Code is always 0.
type Result struct {
	Outcome Outcome
	Code    int
	Err     error
}

// Sleeper blocks for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// Sleep is the default Sleeper.
func Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", ErrInterrupted, context.Cause(ctx))
	}
}

type Option func(*Runner)

// WithSleeper replaces the timer-based sleep.
func WithSleeper(s Sleeper) Option {
	return func(r *Runner) { r.sleep = s }
}

// WithSignals sets the signals treated as a user interrupt. With no signals
// only cancellation of the caller's context interrupts the run.
func WithSignals(sig ...os.Signal) Option {
	return func(r *Runner) { r.signals = sig }
}

// WithLogger sends diagnostics to l instead of a logger built from
// Config.LogLevel.
func WithLogger(l *log.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

type Runner struct {
	cfg     Config
	out     io.Writer
	logger  *log.Logger
	sleep   Sleeper
	signals []os.Signal
}

// New returns a runner printing to out. Configuration problems are not
// reported here; they surface as a fault when the runner is run.
func New(cfg Config, out io.Writer, opts ...Option) *Runner {
	r := &Runner{
		cfg:     cfg,
		out:     out,
		sleep:   Sleep,
		signals: []os.Signal{os.Interrupt},
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = newLogger(cfg.LogLevel)
	}
	return r
}

func newLogger(level string) *log.Logger {
	l := log.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	if lvl, err := log.ParseLevel(level); err == nil {
		l.SetLevel(lvl)
	} else {
		l.SetLevel(log.InfoLevel)
		l.Warnf("invalid log level %s, defaulting to info", level)
	}
	return l
}

// Run prints the start notice, sleeps and prints the completion notice. An
// interrupt or fault replaces the completion notice with its own line. The
// termination notice is always printed last, exactly once.
func (r *Runner) Run(ctx context.Context) (res Result) {
	entry := r.logger.WithFields(log.Fields{
		"run_id":   uuid.NewString(),
		"duration": r.cfg.Duration,
	})

	defer func() {
		if err := r.println(r.cfg.Messages.Terminating); err != nil {
			res.Err = multierr.Append(res.Err, fmt.Errorf("writing termination message: %w", err))
		}
		res.Code = 0
		entry.WithField("outcome", res.Outcome).Debug("terminating")
	}()

	err := r.protect(ctx, entry)
	switch {
	case err == nil:
		res.Outcome = Completed
	case errors.Is(err, ErrInterrupted):
		res.Outcome = Interrupted
		res.Err = err
		if werr := r.println(r.cfg.Messages.Interrupted); werr != nil {
			res.Err = multierr.Append(res.Err, werr)
		}
	default:
		res.Outcome = Faulted
		res.Err = fmt.Errorf("%w: %w", ErrFault, err)
		entry.WithError(err).Debug("protected region faulted")
		if _, werr := fmt.Fprintf(r.out, r.cfg.Messages.Fault+"\n", err); werr != nil {
			res.Err = multierr.Append(res.Err, werr)
		}
	}
	return res
}

// protect runs the start, sleep and completion steps. Panics come back as
// errors; an error wrapping ErrInterrupted means the run was interrupted.
func (r *Runner) protect(ctx context.Context, entry *log.Entry) (err error) {
	var stop context.CancelFunc
	if len(r.signals) > 0 {
		ctx, stop = signal.NotifyContext(ctx, r.signals...)
	} else {
		ctx, stop = context.WithCancel(ctx)
	}
	defer stop()

	defer func() {
		if rec := recover(); rec != nil {
			entry.WithField("stack", string(debug.Stack())).Debug("recovered panic")
			err = fmt.Errorf("panic: %v", rec)
		}
	}()

	if err := r.cfg.Validate(); err != nil {
		return err
	}
	if err := r.println(r.cfg.Messages.Start); err != nil {
		return err
	}
	if err := r.println(fmt.Sprintf(r.cfg.Messages.Sleeping, r.cfg.Duration.Seconds())); err != nil {
		return err
	}

	entry.Debug("sleeping")
	if err := r.sleep(ctx, r.cfg.Duration); err != nil {
		if ctx.Err() != nil && !errors.Is(err, ErrInterrupted) {
			err = fmt.Errorf("%w: %w", ErrInterrupted, err)
		}
		return err
	}

	return r.println(r.cfg.Messages.Done)
}

func (r *Runner) println(msg string) error {
	_, err := fmt.Fprintln(r.out, msg)
	return err
}
