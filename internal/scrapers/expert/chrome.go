package expert

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
	"uwsched/internal/components/assert"
	"uwsched/internal/components/telemetry"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	stepLaunch   = "launch"
	stepNavigate = "navigate"
	stepSubjects = "subjects"
	stepFill     = "fill"
	stepSubmit   = "submit"
	stepResults  = "results"
)

type ChromeConfig struct {
	URL string
	// empty means chromedp looks for a chrome binary on its own
	ExecPath string
	// show the browser window instead of running headless
	Headful bool
	// extra boolean command line switches, ex. "no-sandbox"
	Flags []string
	// how long a single step (navigating, finding an element, reading results) may take
	StepTimeout time.Duration
	// how long to wait after submitting before reading the results frame
	SettleDelay time.Duration
	// how often the results frame is checked for text
	PollInterval time.Duration
}

func DefaultChromeConfig() ChromeConfig {
	return ChromeConfig{
		URL: DefaultURL,
		Flags: []string{
			"disable-gpu",
			"no-sandbox",
			"disable-dev-shm-usage",
		},
		StepTimeout:  10 * time.Second,
		SettleDelay:  2 * time.Second,
		PollInterval: 100 * time.Millisecond,
	}
}

// ChromeFetcher drives a real chrome instance, it launches a new browser for
// every call and always shuts it down before returning.
type ChromeFetcher struct {
	config ChromeConfig
	tel    telemetry.API
}

func NewChromeFetcher(config ChromeConfig, tel telemetry.API) ChromeFetcher {
	assert.NotNil(tel)
	assert.NotEmptyStr(config.URL)
	assert.Positive(config.StepTimeout)
	if config.PollInterval <= 0 {
		config.PollInterval = 100 * time.Millisecond
	}
	return ChromeFetcher{
		config: config,
		tel:    telemetry.NewScopedAPI("scrapers_expert", tel),
	}
}

func (f ChromeFetcher) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	if f.config.Headful {
		opts = append(opts, chromedp.Flag("headless", false))
	}
	for _, flag := range f.config.Flags {
		opts = append(opts, chromedp.Flag(flag, true))
	}
	if f.config.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(f.config.ExecPath))
	}
	return opts
}

// withBrowser launches a browser, runs fn with a context bound to it and
// then closes the browser regardless of how fn exits.
func (f ChromeFetcher) withBrowser(ctx context.Context, fn func(ctx context.Context) error) error {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, f.allocatorOptions()...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(
		allocCtx,
		chromedp.WithLogf(func(format string, args ...any) {
			f.tel.ReportDebug(fmt.Sprintf("chromedp: "+format, args...))
		}),
	)
	defer cancelBrowser()

	// an empty run starts the browser on a context without a deadline, so
	// step timeouts only ever cancel the step and not the browser itself
	err := chromedp.Run(browserCtx)
	if err != nil {
		return automationError(stepLaunch, err)
	}
	f.tel.ReportDebug("launched browser")

	return fn(browserCtx)
}

func (f ChromeFetcher) step(ctx context.Context, name string, actions ...chromedp.Action) error {
	ctx, span := tracer.Start(ctx, name)
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, f.config.StepTimeout)
	defer cancel()

	f.tel.ReportDebug("step", name)
	err := chromedp.Run(ctx, actions...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return automationError(name, err)
	}
	return nil
}

// frameExpr evaluates to the document of the named frame, or null if it
// hasn't loaded yet.
func frameExpr(name string) string {
	return fmt.Sprintf(
		`(() => { const f = document.querySelector("frame[name='%s'], iframe[name='%s']"); return f ? f.contentDocument : null })()`,
		name, name,
	)
}

func jsString(value string) string {
	out, err := json.Marshal(value)
	if err != nil {
		// marshalling a string never fails
		panic(err)
	}
	return string(out)
}

func subjectsExpr() string {
	return fmt.Sprintf(`(() => {
	const doc = %s;
	const select = doc ? doc.querySelector("select[name='%s']") : null;
	return select && select.options.length > 0 ? select.outerHTML : false;
})()`, frameExpr(selectFrameName), subjectField)
}

func fillExpr(subjectValue, courseNumber string) string {
	return fmt.Sprintf(`(() => {
	const doc = %s;
	if (!doc) return "select frame is not loaded";
	const select = doc.querySelector("select[name='%s']");
	if (!select) return "subject dropdown is missing";
	select.value = %s;
	select.dispatchEvent(new Event("change", { bubbles: true }));
	const input = doc.querySelector("input[name='%s']");
	if (!input) return "course number input is missing";
	input.value = "";
	input.value = %s;
	input.dispatchEvent(new Event("input", { bubbles: true }));
	return "";
})()`,
		frameExpr(selectFrameName), subjectField, jsString(subjectValue),
		courseField, jsString(courseNumber),
	)
}

func submitExpr() string {
	return fmt.Sprintf(`(() => {
	const doc = %s;
	const button = doc ? doc.querySelector("input[value='%s']") : null;
	if (!button) return "submit button is missing";
	button.click();
	return "";
})()`, frameExpr(selectFrameName), submitLabel)
}

func resultsExpr() string {
	return fmt.Sprintf(`(() => {
	const doc = %s;
	if (!doc || doc.readyState !== "complete" || !doc.body) return false;
	// a blank page still counts as loaded
	return doc.body.innerText || " ";
})()`, frameExpr(resultsFrameName))
}

func asUserGesture(p *runtime.EvaluateParams) *runtime.EvaluateParams {
	return p.WithUserGesture(true)
}

// evalCheck evaluates an expression that returns an empty string on success
// and a description of the problem otherwise.
func evalCheck(expr string) chromedp.ActionFunc {
	return func(ctx context.Context) error {
		var problem string
		err := chromedp.Evaluate(expr, &problem, asUserGesture).Do(ctx)
		if err != nil {
			return err
		}
		if problem != "" {
			return errors.New(problem)
		}
		return nil
	}
}

func (f ChromeFetcher) navigate(ctx context.Context) error {
	return f.step(
		ctx, stepNavigate,
		chromedp.Navigate(f.config.URL),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
}

func (f ChromeFetcher) readSubjects(ctx context.Context) ([]Subject, error) {
	var html string
	err := f.step(
		ctx, stepSubjects,
		chromedp.Poll(
			subjectsExpr(), &html,
			chromedp.WithPollingInterval(f.config.PollInterval),
			chromedp.WithPollingTimeout(f.config.StepTimeout),
		),
	)
	if err != nil {
		return nil, err
	}
	subjects, err := ParseSubjects(html)
	if err != nil {
		return nil, automationError(stepSubjects, err)
	}
	return subjects, nil
}

func (f ChromeFetcher) FetchScheduleText(ctx context.Context, subject, courseNumber string) (string, error) {
	ctx, span := tracer.Start(ctx, "ChromeFetcher.FetchScheduleText")
	defer span.End()
	span.SetAttributes(
		attribute.String("subject", subject),
		attribute.String("course_number", courseNumber),
	)

	var text string
	err := f.withBrowser(ctx, func(ctx context.Context) error {
		err := f.navigate(ctx)
		if err != nil {
			return err
		}
		subjects, err := f.readSubjects(ctx)
		if err != nil {
			return err
		}
		selected, err := lookupSubject(subjects, subject)
		if err != nil {
			return err
		}
		f.tel.ReportDebug("selected subject", selected.Label, selected.Value)

		err = f.step(ctx, stepFill, evalCheck(fillExpr(selected.Value, courseNumber)))
		if err != nil {
			return err
		}
		err = f.step(ctx, stepSubmit, evalCheck(submitExpr()))
		if err != nil {
			return err
		}

		err = chromedp.Run(ctx, chromedp.Sleep(f.config.SettleDelay))
		if err != nil {
			return automationError(stepResults, err)
		}
		return f.step(
			ctx, stepResults,
			chromedp.Poll(
				resultsExpr(), &text,
				chromedp.WithPollingInterval(f.config.PollInterval),
				chromedp.WithPollingTimeout(f.config.StepTimeout),
			),
		)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		var automationErr *AutomationError
		if errors.As(err, &automationErr) {
			f.tel.ReportBroken(report_chrome_fetch_schedule_text, automationErr.Step, automationErr.Err)
		}
		return "", err
	}
	return text, nil
}

func (f ChromeFetcher) Subjects(ctx context.Context) ([]Subject, error) {
	ctx, span := tracer.Start(ctx, "ChromeFetcher.Subjects")
	defer span.End()

	var subjects []Subject
	err := f.withBrowser(ctx, func(ctx context.Context) error {
		err := f.navigate(ctx)
		if err != nil {
			return err
		}
		subjects, err = f.readSubjects(ctx)
		return err
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		f.tel.ReportBroken(report_chrome_subjects, err)
		return nil, err
	}
	return subjects, nil
}
