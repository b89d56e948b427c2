package timeplot

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/gogpu/timeplot/data"
	"github.com/gogpu/timeplot/overlay"
)

// ErrLoad wraps every data load failure.
var ErrLoad = errors.New("timeplot: load failed")

// LoadText fetches url and loads its rows into es. Columns are split by
// separator; filter, if not nil, rewrites the rows before parsing.
//
// The loading message is shown while the load runs and hidden whatever
// the outcome. On failure an alert is shown, nothing is added to es and
// the returned error wraps ErrLoad.
func (tp *Timeplot) LoadText(ctx context.Context, url string, separator rune, es *data.EventSource, filter data.Filter) error {
	return tp.load(ctx, "text", url, tp.env.Fetcher().Fetch, func(r io.Reader) error {
		return es.LoadText(r, separator, url, filter)
	})
}

// LoadXML fetches url and loads its Timeline XML events into es, with the
// same reporting as LoadText.
func (tp *Timeplot) LoadXML(ctx context.Context, url string, es *data.EventSource) error {
	return tp.load(ctx, "xml", url, tp.env.Fetcher().FetchRaw, func(r io.Reader) error {
		return es.LoadXML(r, url)
	})
}

func (tp *Timeplot) load(ctx context.Context, format, url string,
	fetch func(context.Context, string) (io.ReadCloser, error), parse func(io.Reader) error,
) error {
	if tp.isDisposed() {
		return ErrDisposed
	}

	tp.showLoading()
	defer tp.hideLoading()

	err := func() error {
		rc, err := fetch(ctx, url)
		if err != nil {
			return err
		}
		defer rc.Close()
		return parse(rc)
	}()
	if err != nil {
		tp.env.Metrics().LoadFailures.WithLabelValues(format).Inc()
		tp.logger.Error("timeplot: load failed", "url", url, "format", format, "err", err)
		tp.showAlert(fmt.Sprintf("Failed to load data from %s: %v", url, err))
		return fmt.Errorf("%w: %s: %w", ErrLoad, url, err)
	}
	tp.logger.Debug("timeplot: loaded", "url", url, "format", format)
	return nil
}

// showLoading shows the loading message and hides the alert of an
// earlier failure; concurrent loads share the message.
func (tp *Timeplot) showLoading() {
	tp.mu.Lock()
	tp.loads++
	if tp.alertTm != nil {
		tp.alertTm.Stop()
		tp.alertTm = nil
	}
	tp.mu.Unlock()

	if tp.alert != nil {
		tp.alert.Hide()
	}
	if tp.loading != nil {
		tp.loading.Show()
	}
}

func (tp *Timeplot) hideLoading() {
	tp.mu.Lock()
	tp.loads--
	last := tp.loads == 0
	tp.mu.Unlock()

	if last && tp.loading != nil {
		tp.loading.Hide()
	}
}

// Loading reports whether a load is in progress.
func (tp *Timeplot) Loading() bool {
	tp.mu.RLock()
	defer tp.mu.RUnlock()
	return tp.loads > 0
}

// showAlert shows text in the alert bubble, hiding it after the alert
// duration.
func (tp *Timeplot) showAlert(text string) {
	msg := tp.alert
	if msg == nil {
		return
	}
	msg.SetText(text)
	msg.Show()

	tp.mu.Lock()
	defer tp.mu.Unlock()

	if tp.alertTm != nil {
		tp.alertTm.Stop()
		tp.alertTm = nil
	}
	if tp.alertFor > 0 {
		tp.alertTm = tp.clock.AfterFunc(tp.alertFor, msg.Hide)
	}
}

// Alert returns the alert bubble, or nil when the surface is unsupported.
func (tp *Timeplot) Alert() *overlay.Message {
	return tp.alert
}

// LoadingMessage returns the loading bubble, or nil when the surface is
// unsupported.
func (tp *Timeplot) LoadingMessage() *overlay.Message {
	return tp.loading
}
