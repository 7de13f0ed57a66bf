package restorecmd

import (
	"io"
	"log/slog"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/andrew-torda/cifrestore/config"
)

type noClose struct{}

func (noClose) Close() error { return nil }

// newLogger builds the logger. Where it goes depends on c.File:
//
//	""        stderr
//	"stdout"  stdout, mixed with the report
//	anything  that file, rotated by size
//
// The closer must be called when the program is done.
func newLogger(c config.LogConfig, stdout, stderr io.Writer) (*slog.Logger, io.Closer, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		return nil, nil, err
	}
	var w io.Writer = stderr
	var closer io.Closer = noClose{}
	switch c.File {
	case "":
	case "stdout":
		w = stdout
	default:
		lj := &lumberjack.Logger{
			Filename:   c.File,
			MaxSize:    c.MaxSizeMB,
			MaxBackups: c.MaxBackups,
		}
		w, closer = lj, lj
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(handler), closer, nil
}
