package rates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/AlexZav1327/currency-converter/internal/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

const DefaultBaseURL = "https://api.exchangerate-api.com/v4"

var ErrFetchFailed = errors.New("failed to load rates")

type Rates struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
	group   singleflight.Group
	log     *logrus.Entry
	metrics *metrics
}

// New returns a client for the rate lookup service at baseURL. perSecond
// caps outgoing requests; zero or less disables the cap.
func New(baseURL string, timeout time.Duration, perSecond float64, log *logrus.Logger) *Rates {
	limit := rate.Inf
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
	}

	return &Rates{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(limit, 1),
		log:     log.WithField("module", "rates"),
		metrics: defaultMetrics,
	}
}

// GetLatest fetches the rate table of base. Concurrent calls for the same
// base share one upstream request.
func (r *Rates) GetLatest(ctx context.Context, base string) (models.ExchangeRateResponse, error) {
	v, err, _ := r.group.Do(base, func() (interface{}, error) {
		return r.fetch(ctx, base)
	})
	if err != nil {
		return models.ExchangeRateResponse{}, err
	}

	resp, _ := v.(models.ExchangeRateResponse)

	return resp, nil
}

func (r *Rates) fetch(ctx context.Context, base string) (resp models.ExchangeRateResponse, err error) {
	defer func() {
		if err != nil {
			r.metrics.failures.WithLabelValues(base).Inc()
		}
	}()

	err = r.limiter.Wait(ctx)
	if err != nil {
		return models.ExchangeRateResponse{}, fmt.Errorf("%w: limiter.Wait: %w", ErrFetchFailed, err)
	}

	started := time.Now()
	defer func() {
		r.metrics.duration.Observe(time.Since(started).Seconds())
	}()

	endpoint := fmt.Sprintf("%s/latest/%s", r.baseURL, base)

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return models.ExchangeRateResponse{}, fmt.Errorf("%w: http.NewRequestWithContext: %w", ErrFetchFailed, err)
	}

	request.Header.Set("Accept", "application/json")

	response, err := r.client.Do(request)
	if err != nil {
		return models.ExchangeRateResponse{}, fmt.Errorf("%w: client.Do: %w", ErrFetchFailed, err)
	}

	defer func() {
		closeErr := response.Body.Close()
		if closeErr != nil {
			r.log.Warningf("resp.Body.Close: %s", closeErr)
		}
	}()

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		return models.ExchangeRateResponse{}, fmt.Errorf("%w: unexpected status %d", ErrFetchFailed, response.StatusCode)
	}

	var rates models.ExchangeRateResponse

	err = json.NewDecoder(response.Body).Decode(&rates)
	if err != nil {
		return models.ExchangeRateResponse{}, fmt.Errorf("%w: json.NewDecoder.Decode: %w", ErrFetchFailed, err)
	}

	if rates.Rates == nil {
		return models.ExchangeRateResponse{}, fmt.Errorf("%w: empty rates", ErrFetchFailed)
	}

	if rates.Base == "" {
		rates.Base = base
	}

	r.log.WithField("base", base).Debugf("loaded %d rates dated %s", len(rates.Rates), rates.Date)

	return rates, nil
}
