package handletable

type options struct {
	growthIncrement int
	logger          *Logger
	metrics         MetricsCollector
}

func defaultOptions() options {
	return options{
		growthIncrement: DefaultGrowthIncrement,
		logger:          NoopLogger(),
		metrics:         NoopMetricsCollector{},
	}
}

// Option configures table construction. The structural parameters of a table
// (handle bit layout, growth increment) are fixed once the table exists; none
// of them are runtime-tunable afterwards.
type Option func(*options)

// WithGrowthIncrement sets the number of slots added per growth step, which
// is also the initial table length. Non-positive values fall back to
// DefaultGrowthIncrement.
//
// A smaller increment keeps sparse tables compact at the price of more growth
// steps; allocation is a first-fit scan, so dense small tables also scan
// faster.
func WithGrowthIncrement(n int) Option {
	return func(o *options) {
		if n <= 0 {
			n = DefaultGrowthIncrement
		}
		o.growthIncrement = n
	}
}

// WithLogger sets the logger used for table lifecycle events (growth steps).
// Table operations themselves never perform I/O; by default logging is
// disabled. If nil is passed, the noop logger is used.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetricsCollector configures a metrics collector for table operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &handletable.BasicMetricsCollector{}
//	table := handletable.New32[Thing](handletable.WithMetricsCollector(metrics))
//	// ...
//	fmt.Println(metrics.AcquireCount.Load())
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metrics = mc
	}
}
