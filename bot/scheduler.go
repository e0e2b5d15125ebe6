package bot

import (
	"context"
	"log"
	"sync"
	"time"

	"roster-bot/antispam"
	"roster-bot/model"
	"roster-bot/tasks"
	"roster-bot/utils"
	"roster-bot/utils/database/records"

	"github.com/robfig/cron/v3"
)

const jobTimeout = 30 * time.Second

// BotProvider defines the methods the scheduler needs from the Bot.
type BotProvider interface {
	GetConfig() *model.Config
	Settings() model.Settings
	Sweeper() *antispam.Enforcer
	Store() *records.Repository
	Sender() utils.EmbedSender
}

func (b *Bot) Sweeper() *antispam.Enforcer { return b.Enforcer }
func (b *Bot) Store() *records.Repository { return b.Repo }
func (b *Bot) Sender() utils.EmbedSender { return b.Gateway }

type job struct {
	name     string
	schedule string
	run      func(ctx context.Context) error
}

// Scheduler manages all scheduled tasks.
type Scheduler struct {
	bot    BotProvider
	cron   *cron.Cron
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	once   sync.Once
}

// NewScheduler creates a new scheduler.
func NewScheduler(bot BotProvider) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		bot:    bot,
		cron:   cron.New(),
		ctx:    ctx,
		cancel: cancel,
	}
}

func (s *Scheduler) jobs() []job {
	return []job{
		{name: "infraction-sweep", schedule: "@every 1m", run: s.sweepInfractions},
		{name: "open-shift-report", schedule: "0 8 * * *", run: s.openShiftReport},
		{name: "absence-digest", schedule: "0 9 * * 1", run: s.absenceDigest},
	}
}

// Start registers every job and starts the cron engine.
func (s *Scheduler) Start() error {
	for _, j := range s.jobs() {
		if _, err := s.cron.AddFunc(j.schedule, func() { s.execute(j) }); err != nil {
			return err
		}
		log.Printf("Scheduled task %s (%s)", j.name, j.schedule)
	}
	s.cron.Start()
	return nil
}

func (s *Scheduler) execute(j job) {
	s.wg.Add(1)
	defer s.wg.Done()
	defer utils.Recover("scheduler/" + j.name)

	ctx, cancel := context.WithTimeout(s.ctx, jobTimeout)
	defer cancel()
	if err := j.run(ctx); err != nil {
		log.Printf("Task %s failed: %v", j.name, err)
		utils.ReportError(j.name, err)
	}
}

// Stop terminates all scheduled tasks gracefully. Safe to call more than once.
func (s *Scheduler) Stop() {
	s.once.Do(func() {
		log.Println("Stopping scheduler...")
		<-s.cron.Stop().Done()
		s.cancel()
		s.wg.Wait()
		log.Println("Scheduler stopped.")
	})
}

func (s *Scheduler) sweepInfractions(ctx context.Context) error {
	n, err := s.bot.Sweeper().Sweep(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		log.Printf("Swept %d expired infractions", n)
	}
	return nil
}

func (s *Scheduler) openShiftReport(ctx context.Context) error {
	return tasks.PostOpenShiftReport(ctx, s.bot.Store(), s.bot.Sender(), s.bot.GetConfig().LogChannelID, time.Now())
}

func (s *Scheduler) absenceDigest(ctx context.Context) error {
	n, err := tasks.PostPendingAbsenceDigest(ctx, s.bot.Store(), s.bot.Sender(), s.bot.Settings().AbsenceChannelID, time.Now())
	if err != nil {
		return err
	}
	if n > 0 {
		log.Printf("Posted absence digest with %d pending requests", n)
	}
	return nil
}
