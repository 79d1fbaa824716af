package log

import (
	"io"
	"io/ioutil"
	"log"
	"os"
)

var (
	Trace   = log.New(ioutil.Discard, "TRACE: ", log.Ldate|log.Ltime|log.Lshortfile)
	Info    = log.New(os.Stdout, "", 0)
	Warning = log.New(os.Stdout, "WARNING: ", log.Ldate|log.Ltime|log.Lshortfile)
	Error   = log.New(os.Stderr, "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile)
)

func Init(
	traceHandle io.Writer,
	infoHandle io.Writer,
	warningHandle io.Writer,
	errorHandle io.Writer) {

	Trace = log.New(traceHandle,
		"TRACE: ",
		log.Ldate|log.Ltime|log.Lshortfile)

	Info = log.New(infoHandle,
		"",
		0)

	Warning = log.New(warningHandle,
		"WARNING: ",
		log.Ldate|log.Ltime|log.Lshortfile)

	Error = log.New(errorHandle,
		"ERROR: ",
		log.Ldate|log.Ltime|log.Lshortfile)
}

// InitLog wires the loggers to stdout/stderr. Trace output is only
// enabled when MATHBOARD_TRACE is set to 1 or 2; 2 also routes it to a file.
func InitLog() {
	var trace io.Writer = ioutil.Discard

	switch os.Getenv("MATHBOARD_TRACE") {
	case "1":
		trace = os.Stdout
	case "2":
		f, err := os.OpenFile("mathboard-trace.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			trace = os.Stdout
		} else {
			trace = f
		}
	}

	Init(trace, os.Stdout, os.Stdout, os.Stderr)
}
