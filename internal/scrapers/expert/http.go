package expert

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"
	"uwsched/internal/components/assert"
	"uwsched/internal/components/telemetry"
	"uwsched/lib/htmlutil"
	libtelemetry "uwsched/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/time/rate"
)

type HTTPConfig struct {
	URL     string
	Timeout time.Duration
	// nil means http messages are not written anywhere
	Output telemetry.MessageOutput
}

func DefaultHTTPConfig() HTTPConfig {
	return HTTPConfig{
		URL:     DefaultURL,
		Timeout: 30 * time.Second,
	}
}

// HTTPFetcher submits the query form directly without a browser, it starts a
// fresh cookie session for every call.
//
// It is not safe for concurrent use.
type HTTPFetcher struct {
	config  HTTPConfig
	baseUrl *url.URL
	client  *resty.Client
	tel     telemetry.API
}

func NewHTTPFetcher(config HTTPConfig, tel telemetry.API) (HTTPFetcher, error) {
	assert.NotNil(tel)
	assert.NotEmptyStr(config.URL)

	baseUrl, err := url.Parse(config.URL)
	if err != nil {
		return HTTPFetcher{}, err
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}

	tel = telemetry.NewScopedAPI("scrapers_expert", tel)

	client := resty.New()
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseUrl.Hostname()))
	client.SetTimeout(config.Timeout)

	// 2 requests max per second
	// max burst >= 2 just means that no requests will be dropped
	rateLimiter := rate.NewLimiter(2, 2)
	client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		return rateLimiter.Wait(req.Context())
	})

	telemetry.InstrumentResty(client, tel, config.Output)
	libtelemetry.TraceResty(client, "uwsched.scrapers.expert.http")

	return HTTPFetcher{
		config:  config,
		baseUrl: baseUrl,
		client:  client,
		tel:     tel,
	}, nil
}

// newSession drops the cookies of the previous call.
func (f HTTPFetcher) newSession() (*resty.Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	f.client.SetCookieJar(jar)
	return f.client, nil
}

type page struct {
	url *url.URL
	doc *goquery.Document
}

func getPage(res *resty.Response) (page, error) {
	if res.IsError() {
		return page{}, fmt.Errorf("unexpected status: %s", res.Status())
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		return page{}, err
	}
	return page{
		url: res.RawResponse.Request.URL,
		doc: doc,
	}, nil
}

// queryForm is the form in the select frame.
type queryForm struct {
	method   string
	action   *url.URL
	values   url.Values
	subjects []Subject
}

func parseQueryForm(p page) (queryForm, error) {
	subjectSelect := p.doc.Find(fmt.Sprintf("select[name='%s']", subjectField)).First()
	if subjectSelect.Length() == 0 {
		return queryForm{}, fmt.Errorf("subject dropdown is missing")
	}
	form := subjectSelect.Closest("form")
	if form.Length() == 0 {
		return queryForm{}, fmt.Errorf("query form is missing")
	}

	action, err := htmlutil.ResolveLink(p.url, form.AttrOr("action", ""))
	if err != nil {
		return queryForm{}, err
	}
	method := strings.ToUpper(strings.TrimSpace(form.AttrOr("method", "get")))

	values := url.Values{}
	form.Find("input[name]").Each(func(_ int, input *goquery.Selection) {
		name := input.AttrOr("name", "")
		switch strings.ToLower(input.AttrOr("type", "text")) {
		case "submit", "button", "image", "reset", "file":
			// only the button that is clicked is submitted
			if input.AttrOr("value", "") == submitLabel {
				values.Set(name, submitLabel)
			}
			return
		case "checkbox", "radio":
			_, checked := input.Attr("checked")
			if !checked {
				return
			}
			values.Add(name, input.AttrOr("value", "on"))
			return
		}
		values.Add(name, input.AttrOr("value", ""))
	})
	form.Find("select[name]").Each(func(_ int, sel *goquery.Selection) {
		options := parseOptions(sel)
		if len(options) == 0 {
			return
		}
		selected := options[0]
		sel.Find("option").EachWithBreak(func(i int, option *goquery.Selection) bool {
			_, ok := option.Attr("selected")
			if ok {
				selected = options[i]
			}
			return !ok
		})
		values.Set(sel.AttrOr("name", ""), selected.Value)
	})

	return queryForm{
		method:   method,
		action:   action,
		values:   values,
		subjects: parseOptions(subjectSelect),
	}, nil
}

// openForm loads the frameset and then the select frame inside of it.
func (f HTTPFetcher) openForm(ctx context.Context, client *resty.Client) (queryForm, error) {
	res, err := client.R().
		SetContext(ctx).
		Get(f.baseUrl.String())
	if err != nil {
		return queryForm{}, automationError(stepNavigate, err)
	}
	frameset, err := getPage(res)
	if err != nil {
		return queryForm{}, automationError(stepNavigate, err)
	}

	selectPage := frameset
	frame := frameset.doc.Find(fmt.Sprintf(
		"frame[name='%s'], iframe[name='%s']",
		selectFrameName, selectFrameName,
	)).First()
	if frame.Length() > 0 {
		src, err := htmlutil.ResolveLink(frameset.url, frame.AttrOr("src", ""))
		if err != nil {
			return queryForm{}, automationError(stepSubjects, err)
		}
		f.tel.ReportDebug("select frame", src.String())

		res, err = client.R().
			SetContext(ctx).
			Get(src.String())
		if err != nil {
			return queryForm{}, automationError(stepSubjects, err)
		}
		selectPage, err = getPage(res)
		if err != nil {
			return queryForm{}, automationError(stepSubjects, err)
		}
	}

	form, err := parseQueryForm(selectPage)
	if err != nil {
		return queryForm{}, automationError(stepSubjects, err)
	}
	return form, nil
}

func (f HTTPFetcher) submit(ctx context.Context, client *resty.Client, form queryForm) (string, error) {
	req := client.R().SetContext(ctx)

	var res *resty.Response
	var err error
	if form.method == "POST" {
		res, err = req.SetFormDataFromValues(form.values).Post(form.action.String())
	} else {
		action := *form.action
		action.RawQuery = form.values.Encode()
		res, err = req.Get(action.String())
	}
	if err != nil {
		return "", automationError(stepSubmit, err)
	}

	results, err := getPage(res)
	if err != nil {
		return "", automationError(stepResults, err)
	}
	return htmlutil.DocumentText(results.doc), nil
}

func (f HTTPFetcher) FetchScheduleText(ctx context.Context, subject, courseNumber string) (string, error) {
	ctx, span := tracer.Start(ctx, "HTTPFetcher.FetchScheduleText")
	defer span.End()
	span.SetAttributes(
		attribute.String("subject", subject),
		attribute.String("course_number", courseNumber),
	)

	text, err := func() (string, error) {
		client, err := f.newSession()
		if err != nil {
			return "", automationError(stepLaunch, err)
		}
		form, err := f.openForm(ctx, client)
		if err != nil {
			return "", err
		}
		selected, err := lookupSubject(form.subjects, subject)
		if err != nil {
			return "", err
		}
		f.tel.ReportDebug("selected subject", selected.Label, selected.Value)

		form.values.Set(subjectField, selected.Value)
		form.values.Set(courseField, courseNumber)
		return f.submit(ctx, client, form)
	}()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		var automationErr *AutomationError
		if errors.As(err, &automationErr) {
			f.tel.ReportBroken(report_http_fetch_schedule_text, err)
		}
		return "", err
	}
	return text, nil
}

func (f HTTPFetcher) Subjects(ctx context.Context) ([]Subject, error) {
	ctx, span := tracer.Start(ctx, "HTTPFetcher.Subjects")
	defer span.End()

	client, err := f.newSession()
	if err != nil {
		return nil, automationError(stepLaunch, err)
	}
	form, err := f.openForm(ctx, client)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		f.tel.ReportBroken(report_http_subjects, err)
		return nil, err
	}
	return form.subjects, nil
}
