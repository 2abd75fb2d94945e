package store

import "log/slog"

// Probe constructs one candidate backend. Probes are tried in order at
// startup; the first that succeeds and reports ready is bound for the
// lifetime of the process. There is no runtime re-selection.
type Probe func() (Backend, error)

// DefaultProbes returns the standard probe chain: the native SQLite engine
// through two initialization styles (the tuned DSN used by earlier
// releases, then a plain open), then the durable key-value fallback store.
// Select appends the in-memory fallback as the terminal option.
func DefaultProbes(sqlitePath, kvDir string, logger *slog.Logger) []Probe {
	return []Probe{
		func() (Backend, error) { return OpenSQLite(sqlitePath, TunedDSN) },
		func() (Backend, error) { return OpenSQLite(sqlitePath, "") },
		func() (Backend, error) {
			kv, err := OpenBadger(kvDir, logger)
			if err != nil {
				return nil, err
			}
			return NewFallback(kv), nil
		},
	}
}

// Select binds exactly one backend: the first probe whose backend reports
// ready. When every probe fails, it degrades to a fallback store over an
// in-memory medium, which cannot fail but loses data on exit.
func Select(logger *slog.Logger, probes ...Probe) Backend {
	for _, probe := range probes {
		b, err := probe()
		if err != nil {
			logger.Warn("store: probe failed", slog.String("error", err.Error()))
			continue
		}
		if b == nil || !b.Ready() {
			if b != nil {
				b.Close()
			}
			continue
		}
		logger.Info("store: backend selected", slog.String("backend", b.Name()))
		return b
	}

	logger.Warn("store: no durable backend available, using in-memory fallback")
	return NewFallback(NewMemKV())
}
