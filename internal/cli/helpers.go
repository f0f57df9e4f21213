package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/manifoldco/promptui"

	"github.com/gemlens/gemlens/internal/analytics"
	"github.com/gemlens/gemlens/internal/config"
	"github.com/gemlens/gemlens/internal/igems"
	"github.com/gemlens/gemlens/internal/render"
)

// nowFunc is swapped in tests.
var nowFunc = time.Now

// session bundles the loaded config and an API client for one command
// invocation.
type session struct {
	cfg    *config.Config
	client *igems.Client
}

// withSession loads configuration, builds the client, and executes fn.
func withSession(fn func(ctx context.Context, s *session) error) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	client := igems.NewClient(igems.Options{
		BaseURL:        cfg.API.BaseURL,
		APIKey:         cfg.API.Key,
		Timeout:        cfg.API.Timeout,
		RequestDelay:   cfg.API.RequestDelay,
		MaxRetries:     cfg.API.MaxRetries,
		RetryBaseDelay: cfg.API.RetryBaseDelay,
		Logger:         newLogger(),
	})
	return fn(context.Background(), &session{cfg: cfg, client: client})
}

// resolveExperiment returns the experiment ID to analyze: the first
// positional argument when given, otherwise an interactive pick from
// the currently running experiments.
func resolveExperiment(ctx context.Context, s *session, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}

	active, err := s.client.ActiveExperiments(ctx)
	if err != nil {
		return "", err
	}
	if len(active) == 0 {
		return "", fmt.Errorf("no running experiments found; pass an experiment ID")
	}

	items := make([]string, len(active))
	for i, exp := range active {
		items[i] = fmt.Sprintf("%s (%s, running %s)",
			exp.Name, exp.Type, render.FormatRuntime(exp.RuntimeDays(nowFunc())))
	}

	prompt := promptui.Select{
		Label: "Select an experiment",
		Items: items,
		Size:  10,
	}
	idx, _, err := prompt.Run()
	if err != nil {
		if err == promptui.ErrInterrupt {
			return "", fmt.Errorf("cancelled")
		}
		return "", err
	}
	return active[idx].ID, nil
}

// study is a fully loaded experiment ready for analysis: detail,
// overview feed, resolved control and best variant, and the primary
// revenue metric for this test.
type study struct {
	exp      *analytics.Experiment
	feed     analytics.Feed
	control  analytics.Variation
	variants []analytics.Variation
	best     analytics.Variation
	metric   string
}

// loadStudy fetches the experiment and its overview analytics and
// resolves the structural pieces every command needs. Experiments
// without a single control or without variants fail here.
func (s *session) loadStudy(ctx context.Context, id string) (*study, error) {
	exp, err := s.client.ExperienceDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	control, err := exp.Control()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", exp.Name, err)
	}
	variants, err := exp.Variants()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", exp.Name, err)
	}

	feed, err := s.client.OverviewAnalytics(ctx, id)
	if err != nil {
		return nil, err
	}

	metric := feed.PrimaryRevenueMetric()
	best := analytics.BestVariantOrFirst(feed, variants, metric)

	return &study{
		exp:      exp,
		feed:     feed,
		control:  control,
		variants: variants,
		best:     best,
		metric:   metric,
	}, nil
}

func (st *study) runtimeDays() int {
	return st.exp.RuntimeDays(nowFunc())
}

// bestUplift is the best variant's uplift on the primary metric.
func (st *study) bestUplift() *float64 {
	return st.feed.UpliftValue(st.metric, st.best.ID)
}

// bestConfidence is the best variant's p2bb on the primary metric.
func (st *study) bestConfidence() *float64 {
	return st.feed.Confidence(st.metric, st.best.ID)
}
