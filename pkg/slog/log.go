// Package slog is a simple, colorful leveled logger. Each package
// instantiates its own printers with New, and the Check set gives the
// log-and-test-error shortcut used all over this repository:
//
//	var log, chk = slog.New(os.Stderr)
//
//	if err = doThing(); chk.E(err) {
//		return
//	}
package slog

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"sync/atomic"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/gookit/color"
)

const (
	Off = iota
	Fatal
	Error
	Warn
	Info
	Debug
	Trace
)

var currentLevel atomic.Int32

func init() {
	SetLogLevel(LevelFromString(os.Getenv("SIMULATR_LOGLEVEL")))
}

// LevelFromString decodes a level name, matching on the first letter the same
// way nmcli arguments work. Unrecognized or empty means Info.
func LevelFromString(s string) int {
	if s == "" {
		return Info
	}
	switch strings.ToLower(s)[0] {
	case '0', 'o':
		return Off
	case 'f':
		return Fatal
	case 'e':
		return Error
	case 'w':
		return Warn
	case 'i':
		return Info
	case 'd':
		return Debug
	case 't':
		return Trace
	}
	return Info
}

func SetLogLevel(l int) { currentLevel.Store(int32(l)) }
func GetLogLevel() int  { return int(currentLevel.Load()) }

type (
	// Ln prints lists of interfaces with spaces in between
	Ln func(a ...interface{})
	// F prints like fmt.Printf surrounded by log details
	F func(format string, a ...interface{})
	// S prints a spew.Sdump for an interface slice
	S func(a ...interface{})
	// C accepts a closure so the extra computation can be avoided if the
	// level is not being viewed
	C func(closure func() string)
	// Chk prints and returns true if there is an error
	Chk func(e error) bool
	// Err passes through fmt.Errorf and returns the error after printing it
	Err func(format string, a ...interface{}) error

	LevelPrinter struct {
		Ln
		F
		S
		C
		Chk
		Err
	}
)

type levelSpec struct {
	id        int32
	name      string
	colorizer func(a ...interface{}) string
}

var levelSpecs = []levelSpec{
	{Off, "   ", color.Bit24(0, 0, 0, false).Sprint},
	{Fatal, "FTL", color.Bit24(128, 0, 0, false).Sprint},
	{Error, "ERR", color.Bit24(255, 0, 0, false).Sprint},
	{Warn, "WRN", color.Bit24(0, 255, 0, false).Sprint},
	{Info, "INF", color.Bit24(255, 255, 0, false).Sprint},
	{Debug, "DBG", color.Bit24(0, 125, 255, false).Sprint},
	{Trace, "TRC", color.Bit24(125, 0, 255, false).Sprint},
}

// Log is a set of log printers for the various levels.
type Log struct {
	F, E, W, I, D, T LevelPrinter
}

// Check is the set of error check printers extracted from a Log.
type Check struct {
	F, E, W, I, D, T Chk
}

func New(w io.Writer) (l *Log, c *Check) {
	l = &Log{
		F: getPrinter(Fatal, w),
		E: getPrinter(Error, w),
		W: getPrinter(Warn, w),
		I: getPrinter(Info, w),
		D: getPrinter(Debug, w),
		T: getPrinter(Trace, w),
	}
	c = &Check{
		F: l.F.Chk,
		E: l.E.Chk,
		W: l.W.Chk,
		I: l.I.Chk,
		D: l.D.Chk,
		T: l.T.Chk,
	}
	return
}

// GetStd returns a logger printing to stderr.
func GetStd() (l *Log) {
	l, _ = New(os.Stderr)
	return
}

func joinStrings(a ...any) (s string) {
	for i := range a {
		s += fmt.Sprint(a[i])
		if i < len(a)-1 {
			s += " "
		}
	}
	return
}

func timeStamp() string {
	return time.Now().Format("150405.000000")
}

func getLoc(skip int) (output string) {
	_, file, line, _ := runtime.Caller(skip)
	output = color.Bit24(0, 128, 255, false).Sprint(file, ":", line)
	return
}

func emit(w io.Writer, l int32, text string) {
	fmt.Fprintf(w, "%s %s %s %s\n",
		timeStamp(),
		levelSpecs[l].colorizer(levelSpecs[l].name),
		text,
		getLoc(3),
	)
}

func getPrinter(l int32, w io.Writer) LevelPrinter {
	return LevelPrinter{
		Ln: func(a ...interface{}) {
			if currentLevel.Load() < l {
				return
			}
			emit(w, l, joinStrings(a...))
		},
		F: func(format string, a ...interface{}) {
			if currentLevel.Load() < l {
				return
			}
			emit(w, l, fmt.Sprintf(format, a...))
		},
		S: func(a ...interface{}) {
			if currentLevel.Load() < l {
				return
			}
			emit(w, l, spew.Sdump(a...))
		},
		C: func(closure func() string) {
			if currentLevel.Load() < l {
				return
			}
			emit(w, l, closure())
		},
		Chk: func(e error) bool {
			if e != nil {
				if currentLevel.Load() >= l {
					emit(w, l, e.Error())
				}
				return true
			}
			return false
		},
		Err: func(format string, a ...interface{}) error {
			if currentLevel.Load() >= l {
				emit(w, l, fmt.Sprintf(format, a...))
			}
			return fmt.Errorf(format, a...)
		},
	}
}

// Fail is a convenience: log at error level and report whether err is set.
func (l *Log) Fail(err error) bool { return l.E.Chk(err) }
