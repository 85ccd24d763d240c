package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/NikTak777/stankin-multitool-bot/internal/config"
	"github.com/NikTak777/stankin-multitool-bot/internal/scheduler"
	"github.com/NikTak777/stankin-multitool-bot/internal/store"
	"github.com/NikTak777/stankin-multitool-bot/internal/telegram"
	"github.com/NikTak777/stankin-multitool-bot/internal/timetable"
)

type App struct {
	cfg     config.Config
	log     *zap.Logger
	bot     *tgbotapi.BotAPI
	httpSrv *http.Server
	repo    store.Repo
	router  *telegram.Router
}

func New(cfg config.Config, log *zap.Logger) (*App, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, err
	}
	bot.Debug = false

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}

	return &App{cfg: cfg, log: log, bot: bot, httpSrv: srv}, nil
}

func (a *App) Run(ctx context.Context) error {
	a.log.Info("starting multitool-bot",
		zap.String("http", a.cfg.HTTPAddr),
		zap.String("tz", a.cfg.TZ),
	)

	loc, err := time.LoadLocation(a.cfg.TZ)
	if err != nil {
		a.log.Error("load timezone failed", zap.String("tz", a.cfg.TZ), zap.Error(err))
		return err
	}

	// Open SQLite and run migrations.
	repo, err := store.OpenSQLite(ctx, a.cfg.DBPath)
	if err != nil {
		a.log.Error("open sqlite failed", zap.Error(err))
		return err
	}
	a.repo = repo
	a.log.Info("sqlite ready")

	tt := timetable.New(a.cfg.ScheduleDir)
	disp := telegram.NewDispatcher(a.bot, a.log, a.cfg.SendRate)
	a.router = telegram.NewRouter(a.bot, a.log, a.repo, a.cfg.AdminID)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Background notification loops. All of them stop with ctx.
	broadcast := scheduler.NewDailyBroadcast(a.repo, tt, disp, a.log, loc, scheduler.BroadcastConfig{
		NightFrom:   a.cfg.NightFromHour,
		NightTo:     a.cfg.NightToHour,
		DefaultHour: a.cfg.BroadcastHour,
	})
	birthday := scheduler.NewBirthday(a.repo, disp, a.log, loc, a.cfg.BirthdayHour)
	lessons := scheduler.NewLessonNotify(a.repo, tt, disp, a.log, loc)
	greeting := scheduler.NewAnnualGreeting(a.repo, disp, a.log, loc)
	go broadcast.Run(ctx)
	go birthday.Run(ctx)
	go lessons.Run(ctx)
	go greeting.Run(ctx)

	go func() {
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("http server error", zap.Error(err))
		}
	}()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updCh := a.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			a.log.Info("shutdown signal received")

			shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			err := a.httpSrv.Shutdown(shCtx)
			cancel()

			if err != nil {
				a.log.Warn("http server shutdown error", zap.Error(err))
			}
			if a.repo != nil {
				_ = a.repo.Close()
			}
			return nil

		case upd := <-updCh:
			a.router.HandleUpdate(ctx, upd)
		}
	}
}
