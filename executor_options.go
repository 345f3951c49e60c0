package asyncrt

import (
	"runtime"
	"time"
)

// executorConfig holds the resolved configuration for an Executor.
type executorConfig struct {
	processors      int
	stepsPerTurn    int
	logger          *Logger
	naiveIOInterval time.Duration
	ioWorkers       int
	ioWorkerType    IOWorkerType
}

// Option configures an Executor at construction time.
type Option interface {
	apply(*executorConfig)
}

type optionFunc func(*executorConfig)

func (f optionFunc) apply(c *executorConfig) { f(c) }

// WithProcessors sets the number of Processor/ProcessorWorker pairs the
// Executor runs. Defaults to runtime.GOMAXPROCS(0).
func WithProcessors(n int) Option {
	return optionFunc(func(c *executorConfig) {
		if n > 0 {
			c.processors = n
		}
	})
}

// WithStepsPerTurn bounds how many consecutive steps a ProcessorWorker
// gives one handle before cooperatively requeueing it behind other
// ready handles. Defaults to 1 (round-robin fairness); raise it to favor
// throughput over latency for workloads dominated by long REPEAT chains.
func WithStepsPerTurn(n int) Option {
	return optionFunc(func(c *executorConfig) {
		if n > 0 {
			c.stepsPerTurn = n
		}
	})
}

// WithLogger sets the structured logger the Executor and its workers log
// through. Passing nil disables logging entirely.
func WithLogger(l *Logger) Option {
	return optionFunc(func(c *executorConfig) {
		if l == nil {
			c.logger = nopLogger()
		} else {
			c.logger = l
		}
	})
}

// WithNaiveIOPollInterval sets the sweep interval used by the naive
// I/O worker: on platforms without a native poller (see poller_stub.go),
// or on any platform with WithIOWorkerType(IOWorkerNaive). Has no effect
// on sub-workers backed by the platform poller.
func WithNaiveIOPollInterval(d time.Duration) Option {
	return optionFunc(func(c *executorConfig) {
		if d > 0 {
			c.naiveIOInterval = d
		}
	})
}

// WithIOWorkers sets the number of IoEventWorkerForeman instances the
// Executor runs, each holding a READ-specialized and a WRITE-specialized
// sub-worker. Defaults to max(1, WithProcessors count / 2): I/O readiness
// fan-in typically needs fewer dedicated workers than there are
// Processors driving coroutine steps.
func WithIOWorkers(n int) Option {
	return optionFunc(func(c *executorConfig) {
		if n > 0 {
			c.ioWorkers = n
		}
	})
}

// WithIOWorkerType selects how each ioForeman's sub-workers are backed:
// IOWorkerAuto (default) prefers the platform poller, falling back to the
// portable naive worker if it can't be constructed; IOWorkerNaive always
// uses the naive worker.
func WithIOWorkerType(t IOWorkerType) Option {
	return optionFunc(func(c *executorConfig) {
		c.ioWorkerType = t
	})
}

func resolveOptions(opts []Option) *executorConfig {
	c := &executorConfig{
		processors:      runtime.GOMAXPROCS(0),
		stepsPerTurn:    1,
		logger:          newDefaultLogger(),
		naiveIOInterval: time.Second,
		ioWorkerType:    IOWorkerAuto,
	}
	for _, o := range opts {
		if o == nil {
			continue
		}
		o.apply(c)
	}
	return c
}
