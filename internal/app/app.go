package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Vatsalbirla317/Medicine-Tracker-Bot/internal/config"
	"github.com/Vatsalbirla317/Medicine-Tracker-Bot/internal/interpreter"
	"github.com/Vatsalbirla317/Medicine-Tracker-Bot/internal/ledger"
	"github.com/Vatsalbirla317/Medicine-Tracker-Bot/internal/metrics"
	"github.com/Vatsalbirla317/Medicine-Tracker-Bot/internal/reminder"
	"github.com/Vatsalbirla317/Medicine-Tracker-Bot/internal/scheduler"
	"github.com/Vatsalbirla317/Medicine-Tracker-Bot/internal/telegram"
)

type App struct {
	cfg     config.Config
	log     *zap.Logger
	bot     *tgbotapi.BotAPI
	httpSrv *http.Server
	sched   *scheduler.Scheduler
	engine  *reminder.Engine
	router  *telegram.Router
}

func New(cfg config.Config, log *zap.Logger) (*App, error) {
	schedule, err := cfg.Schedule()
	if err != nil {
		return nil, err
	}
	phrases, err := interpreter.LoadPhrases(cfg.PhrasesFile)
	if err != nil {
		return nil, err
	}
	matcher, err := interpreter.MatcherFor(cfg.MatchMode)
	if err != nil {
		return nil, err
	}

	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("telegram auth: %w", err)
	}
	bot.Debug = false

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m, err := metrics.New(reg)
	if err != nil {
		return nil, err
	}

	sched := scheduler.New(schedule.Location, log.Named("scheduler"))
	tr := telegram.NewTransport(bot, log.Named("telegram"))
	engine := reminder.New(reminder.Config{
		ChatID:        cfg.GroupChatID,
		Location:      schedule.Location,
		MorningAt:     schedule.MorningAt,
		EveningAt:     schedule.EveningAt,
		ResetAt:       schedule.ResetAt,
		FollowUpDelay: schedule.FollowUpDelay,
	}, reminder.Deps{
		Ledger:     ledger.New(),
		Scheduler:  sched,
		Sender:     tr,
		Classifier: interpreter.New(phrases, matcher),
		Recorder:   m,
		Logger:     log.Named("reminder"),
	})
	router := telegram.NewRouter(tr, engine, bot.Self.ID, cfg.GroupChatID, log.Named("router"))

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      newMux(reg),
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}

	return &App{
		cfg:     cfg,
		log:     log,
		bot:     bot,
		httpSrv: srv,
		sched:   sched,
		engine:  engine,
		router:  router,
	}, nil
}

// newMux serves liveness and Prometheus metrics from reg.
func newMux(reg *prometheus.Registry) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	return mux
}

func (a *App) Run(ctx context.Context) error {
	a.log.Info("starting medicine-tracker-bot",
		zap.String("bot", a.bot.Self.UserName),
		zap.Int64("group", a.cfg.GroupChatID),
		zap.String("http", a.cfg.HTTPAddr),
	)

	if err := a.engine.Register(); err != nil {
		return fmt.Errorf("register jobs: %w", err)
	}
	a.sched.Start()
	defer a.sched.Stop()
	for _, job := range []string{reminder.JobMorningReminder, reminder.JobEveningReminder, reminder.JobReset} {
		if next, ok := a.sched.Next(job); ok {
			a.log.Info("job scheduled", zap.String("job", job), zap.Time("next", next))
		}
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("http server error", zap.Error(err))
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		a.log.Info("shutdown signal received")

		// Create a short-lived shutdown context and cancel it immediately after use.
		shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := a.httpSrv.Shutdown(shCtx)
		cancel()
		if err != nil {
			a.log.Warn("http server shutdown error", zap.Error(err))
		}
		a.bot.StopReceivingUpdates()
		return nil
	})

	g.Go(func() error {
		u := tgbotapi.NewUpdate(0)
		u.Timeout = 30
		updCh := a.bot.GetUpdatesChan(u)

		for {
			select {
			case <-ctx.Done():
				return nil
			case upd, ok := <-updCh:
				if !ok {
					return nil
				}
				a.router.HandleUpdate(ctx, upd)
			}
		}
	})

	return g.Wait()
}
