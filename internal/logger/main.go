// Package logger configures the process wide zerolog logger.
package logger

import (
	"fmt"
	"io"
	"os"
	"path"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
	"gopkg.in/natefinch/lumberjack.v2"
)

const logDirMode = 0o750

// LevelWriter splits output by level family.
// Trace, warn and error each get a writer; debug and info share InfoWriter.
type LevelWriter struct {
	io.Writer
	ErrorWriter io.Writer
	InfoWriter  io.Writer
	TraceWriter io.Writer
	WarnWriter  io.Writer
}

// WriteLevel implements zerolog.LevelWriter.
func (lw *LevelWriter) WriteLevel(l zerolog.Level, p []byte) (int, error) {
	var w io.Writer

	switch {
	case l == zerolog.Disabled:
		return 0, nil
	case l == zerolog.TraceLevel:
		w = lw.TraceWriter
	case l == zerolog.WarnLevel:
		w = lw.WarnWriter
	case l > zerolog.WarnLevel:
		w = lw.ErrorWriter
	default:
		w = lw.InfoWriter
	}

	if w == nil {
		return len(p), nil
	}

	return w.Write(p) //nolint:wrapcheck
}

// Init replaces log.Logger according to cfg.
// With neither console nor file enabled the logger writes nowhere.
func Init(cfg Log) error {
	logLevel, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return errors.Wrap(err, fmt.Sprintf("loglevel %s is not supported", cfg.LogLevel))
	}

	if cfg.ServiceName == "" {
		return ErrServiceNameIsEmpty
	}

	if cfg.AppName == "" {
		return ErrAppNameIsEmpty
	}

	stack := false
	if logLevel == zerolog.TraceLevel {
		zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack //nolint:reassign
		stack = true
	}

	zerolog.SetGlobalLevel(logLevel)
	zerolog.ErrorHandler = ErrorHandler

	var writers []io.Writer

	if cfg.Console.Enabled {
		writers = append(writers, NewConsoleWriter(cfg))
	}

	if cfg.File.Enabled {
		if w := newRollingLevelFiles(cfg.File); w != nil {
			writers = append(writers, w)
		}
	}

	ctx := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Hook(NewPrometheusHook(cfg.ServiceName, prometheus.DefaultRegisterer)).
		With().
		Timestamp().
		Str("app", cfg.AppName)

	switch {
	case cfg.ReportCaller && stack:
		ctx = ctx.Stack()
	case cfg.ReportCaller:
		ctx = ctx.Caller()
	}

	log.Logger = ctx.Logger()

	return nil
}

// RollingFile returns a lumberjack writer below dir, creating dir when needed.
func RollingFile(dir, name string, maxSize, maxAge, maxBackups int) (io.Writer, error) {
	if dir != "" {
		if err := os.MkdirAll(dir, logDirMode); err != nil {
			return nil, errors.Wrapf(err, "can't create log directory %s", dir)
		}
	}

	return &lumberjack.Logger{
		Filename:   path.Join(dir, name),
		MaxSize:    maxSize,
		MaxAge:     maxAge,
		MaxBackups: maxBackups,
	}, nil
}

func newRollingLevelFiles(f LogFile) io.Writer {
	files := []struct {
		target             *io.Writer
		name               string
		size, age, backups int
	}{
		{name: f.ErrorLog, size: f.ErrorMaxSize, age: f.ErrorMaxAge, backups: f.ErrorMaxBackups},
		{name: f.InfoLog, size: f.InfoMaxSize, age: f.InfoMaxAge, backups: f.InfoMaxBackups},
		{name: f.TraceLog, size: f.TraceMaxSize, age: f.TraceMaxAge, backups: f.TraceMaxBackups},
		{name: f.WarnLog, size: f.WarnMaxSize, age: f.WarnMaxAge, backups: f.WarnMaxBackups},
	}

	var lw LevelWriter

	files[0].target = &lw.ErrorWriter
	files[1].target = &lw.InfoWriter
	files[2].target = &lw.TraceWriter
	files[3].target = &lw.WarnWriter

	for _, file := range files {
		if file.name == "" {
			continue
		}

		w, err := RollingFile(f.Path, file.name, file.size, file.age, file.backups)
		if err != nil {
			log.Error().Err(err).Str("path", f.Path).Msg("file logging disabled")

			return nil
		}

		*file.target = w
	}

	return &lw
}

// NewConsoleWriter writes info to stdout and everything else to stderr.
func NewConsoleWriter(cfg Log) io.Writer {
	wrap := func(out io.Writer) io.Writer {
		if !cfg.Console.UseConsoleWriter {
			return out
		}

		return zerolog.ConsoleWriter{Out: out, TimeFormat: zerolog.TimeFieldFormat}
	}

	return &LevelWriter{
		ErrorWriter: wrap(os.Stderr),
		InfoWriter:  wrap(os.Stdout),
		TraceWriter: wrap(os.Stderr),
		WarnWriter:  wrap(os.Stderr),
	}
}
