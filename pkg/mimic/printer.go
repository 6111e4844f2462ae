package mimic

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	mimicerrors "github.com/AndreyAkinshin/mimic/internal/errors"
	"github.com/AndreyAkinshin/mimic/internal/output"
)

// printer renders the libtest report. It is the first Reporter of every
// run and receives events on the dispatching goroutine.
type printer struct {
	w      *output.Writer
	file   *os.File
	format FormatSetting
	// serial prints the "test name ... " prefix on start instead of on
	// completion, so a slow case shows which case is running.
	serial    bool
	nameWidth int
	kindWidth int
	started   time.Time
}

// newPrinter opens the report destination selected by args. The column
// widths are taken from cases, which should be the filtered set.
func newPrinter[T any](args *Arguments, cases []Case[T], serial bool) (*printer, error) {
	p := &printer{format: args.format(), serial: serial}

	if args.Logfile != "" {
		f, err := os.Create(args.Logfile)
		if err != nil {
			return nil, mimicerrors.Environmentf(err, "failed to create logfile %s", args.Logfile)
		}
		mode := output.ColorNever
		if args.Color == ColorAlways {
			mode = output.ColorAlways
		}
		p.file = f
		p.w = output.New(f, mode)
	} else {
		p.w = output.New(os.Stdout, colorMode(args.Color))
	}

	for _, c := range cases {
		p.nameWidth = max(p.nameWidth, output.Width(c.name))
		if c.kind != "" {
			// Two brackets and a trailing space.
			p.kindWidth = max(p.kindWidth, output.Width(c.kind)+3)
		}
	}
	return p, nil
}

func colorMode(c ColorSetting) output.ColorMode {
	switch c {
	case ColorAlways:
		return output.ColorAlways
	case ColorNever:
		return output.ColorNever
	default:
		return output.ColorAuto
	}
}

// Close releases the log file, if any.
func (p *printer) Close() error {
	if p.file == nil {
		return nil
	}
	return p.file.Close()
}

// title prints "running N tests".
func (p *printer) title(n int) {
	p.started = time.Now()
	if p.format == FormatJSON {
		p.json(jsonEvent{Type: "suite", Event: "started", TestCount: uint64Ptr(uint64(n))})
		return
	}
	plural := "s"
	if n == 1 {
		plural = ""
	}
	p.w.Newline()
	p.w.Println("running %d test%s", n, plural)
}

// listed prints one "[kind] name: test|bench" line of --list output.
func (p *printer) listed(name, kind string, bench bool) {
	what := "test"
	if bench {
		what = "bench"
	}
	p.w.Println("%s%s: %s", kindPrefix(kind), name, what)
}

// CaseStarted implements Reporter.
func (p *printer) CaseStarted(name, kind string) {
	switch p.format {
	case FormatPretty:
		if p.serial {
			p.w.Print("%s", p.prefix(name, kind))
		}
	case FormatJSON:
		p.json(jsonEvent{Type: "test", Event: "started", Name: name, Kind: kind})
	}
}

// CaseCompleted implements Reporter.
func (p *printer) CaseCompleted(name, kind string, o Outcome, elapsed time.Duration) {
	switch p.format {
	case FormatPretty:
		if !p.serial {
			p.w.Print("%s", p.prefix(name, kind))
		}
		p.w.Println("%s", p.outcomePretty(o))
	case FormatTerse:
		switch o.Status {
		case StatusPassed:
			p.w.Print("%s", p.w.Colored(output.ToneOK, "."))
		case StatusFailed:
			p.w.Print("%s", p.w.Colored(output.ToneFailed, "F"))
		case StatusIgnored:
			p.w.Print("%s", p.w.Colored(output.ToneIgnored, "i"))
		case StatusMeasured:
			p.w.Println("%s", p.outcomePretty(o))
		}
	case FormatJSON:
		p.json(completedEvent(name, kind, o, elapsed))
	}
}

// RunFinished implements Reporter. It prints the failures block, if any,
// and the summary line.
func (p *printer) RunFinished(c Conclusion) {
	if p.format == FormatJSON {
		event := "ok"
		if c.HasFailed() {
			event = "failed"
		}
		p.json(jsonEvent{
			Type:        "suite",
			Event:       event,
			Passed:      uint64Ptr(c.NumPassed),
			Failed:      uint64Ptr(c.NumFailed),
			Ignored:     uint64Ptr(c.NumIgnored),
			Measured:    uint64Ptr(c.NumMeasured),
			FilteredOut: uint64Ptr(c.NumFilteredOut),
			ExecTime:    time.Since(p.started).Seconds(),
		})
		return
	}

	if c.HasFailed() {
		p.failures(c.Failures)
	}

	result := p.w.Colored(output.ToneOK, "ok")
	if c.HasFailed() {
		result = p.w.Colored(output.ToneFailed, "FAILED")
	}
	p.w.Newline()
	p.w.Println("test result: %s. %d passed; %d failed; %d ignored; %d measured; %d filtered out",
		result, c.NumPassed, c.NumFailed, c.NumIgnored, c.NumMeasured, c.NumFilteredOut)
	p.w.Newline()
}

func (p *printer) failures(fails []Failure) {
	p.w.Newline()
	p.w.Println("failures:")
	p.w.Newline()
	for _, f := range fails {
		p.w.Println("---- %s ----", f.Name)
		if f.HasMessage {
			p.w.Println("%s", f.Message)
		}
		p.w.Newline()
	}

	p.w.Newline()
	p.w.Println("failures:")
	for _, f := range fails {
		p.w.Println("    %s", f.Name)
	}
}

func (p *printer) prefix(name, kind string) string {
	return "test " + output.PadRight(kindPrefix(kind), p.kindWidth) + output.PadRight(name, p.nameWidth) + " ... "
}

func (p *printer) outcomePretty(o Outcome) string {
	switch o.Status {
	case StatusPassed:
		return p.w.Colored(output.ToneOK, "ok")
	case StatusFailed:
		return p.w.Colored(output.ToneFailed, "FAILED")
	case StatusIgnored:
		return p.w.Colored(output.ToneIgnored, "ignored")
	default:
		return fmt.Sprintf("%s: %11s ns/iter (+/- %s)",
			p.w.Colored(output.ToneBench, "bench"),
			output.Thousands(o.Measurement.Avg),
			output.Thousands(o.Measurement.Variance))
	}
}

func kindPrefix(kind string) string {
	if kind == "" {
		return ""
	}
	return "[" + kind + "] "
}

// jsonEvent is one line of --format=json output, modeled on libtest's
// unstable JSON format.
type jsonEvent struct {
	Type        string  `json:"type"`
	Event       string  `json:"event,omitempty"`
	Name        string  `json:"name,omitempty"`
	Kind        string  `json:"kind,omitempty"`
	Message     string  `json:"message,omitempty"`
	TestCount   *uint64 `json:"test_count,omitempty"`
	Passed      *uint64 `json:"passed,omitempty"`
	Failed      *uint64 `json:"failed,omitempty"`
	Ignored     *uint64 `json:"ignored,omitempty"`
	Measured    *uint64 `json:"measured,omitempty"`
	FilteredOut *uint64 `json:"filtered_out,omitempty"`
	Median      *uint64 `json:"median,omitempty"`
	Deviation   *uint64 `json:"deviation,omitempty"`
	ExecTime    float64 `json:"exec_time,omitempty"`
}

func completedEvent(name, kind string, o Outcome, elapsed time.Duration) jsonEvent {
	ev := jsonEvent{Type: "test", Name: name, Kind: kind, ExecTime: elapsed.Seconds()}
	switch o.Status {
	case StatusPassed:
		ev.Event = "ok"
	case StatusFailed:
		ev.Event = "failed"
		ev.Message = o.Message
	case StatusIgnored:
		ev.Event = "ignored"
		ev.ExecTime = 0
	case StatusMeasured:
		ev.Type = "bench"
		ev.Event = ""
		ev.Median = uint64Ptr(o.Measurement.Avg)
		ev.Deviation = uint64Ptr(o.Measurement.Variance)
	}
	return ev
}

func (p *printer) json(ev jsonEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		logger.WithError(err).Warn("failed to encode report event")
		return
	}
	_, _ = p.w.Write(append(data, '\n'))
}

func uint64Ptr(v uint64) *uint64 { return &v }
