package logger

import (
	"log"
	"os"
)

const flags = log.Ldate | log.Ltime | log.Lshortfile

// The package loggers are usable from init; Setup re-targets them for the
// process entrypoints.
var (
	Info    = log.New(os.Stdout, "INFO: ", flags)
	Warning = log.New(os.Stdout, "WARNING: ", flags)
	Error   = log.New(os.Stderr, "ERROR: ", flags)
	Debug   = log.New(os.Stdout, "DEBUG: ", flags)
	HTTP    = log.New(os.Stdout, "HTTP: ", log.Ldate|log.Ltime)
)

// Setup rebuilds the application loggers, called once in main.
func Setup() {
	Info = log.New(os.Stdout, "INFO: ", flags)
	Warning = log.New(os.Stdout, "WARNING: ", flags)
	Error = log.New(os.Stderr, "ERROR: ", flags)
	Debug = log.New(os.Stdout, "DEBUG: ", flags)
	HTTP = log.New(os.Stdout, "HTTP: ", log.Ldate|log.Ltime)
}
