package logger

import (
	"fmt"
	"io"
	"log"
)

type ColorLogger struct {
	*log.Logger
	color bool
}

type Color string

const (
	ColorRed    Color = "\u001b[31m"
	ColorGreen  Color = "\u001b[32m"
	ColorYellow Color = "\u001b[33m"
	ColorBlue   Color = "\u001b[34m"
	ColorReset  Color = "\u001b[0m"
)

func NewColorLogger(lg *log.Logger, color bool) *ColorLogger {
	return &ColorLogger{Logger: lg, color: color}
}

// New builds a logger writing to w with the date/time prefix used across
// the command.
func New(w io.Writer, prefix string, color bool) *ColorLogger {
	return NewColorLogger(log.New(w, prefix, log.Ldate|log.Ltime), color)
}

// Discard returns a logger that drops everything.
func Discard() *ColorLogger {
	return NewColorLogger(log.New(io.Discard, "", 0), false)
}

func (c *ColorLogger) Printcf(color Color, format string, args ...interface{}) {
	c.Printc(color, fmt.Sprintf(format, args...))
}

func (c *ColorLogger) Printc(color Color, s string) {
	if !c.color {
		c.Print(s)
		return
	}
	c.Print(string(color) + s + string(ColorReset))
}

func (c *ColorLogger) Infof(format string, args ...interface{}) {
	c.Printcf(ColorBlue, format, args...)
}

func (c *ColorLogger) Warnf(format string, args ...interface{}) {
	c.Printcf(ColorYellow, format, args...)
}

func (c *ColorLogger) Errorf(format string, args ...interface{}) {
	c.Printcf(ColorRed, format, args...)
}
