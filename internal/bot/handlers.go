package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	tele "gopkg.in/telebot.v3"

	"seniorcare-bot/internal/flow"
	"seniorcare-bot/internal/notify"
	"seniorcare-bot/internal/remind"
	"seniorcare-bot/internal/report"
	"seniorcare-bot/internal/store"
	"seniorcare-bot/pkg"
)

const historyLimit = 10

// Server wires Telegram updates into the flow engine and the supporting
// services. It owns no conversation state itself; everything stateful lives
// behind the engine and the stores.
type Server struct {
	bot     *tele.Bot
	engine  *flow.Engine
	sched   *remind.Scheduler
	reports *report.Service
	alerts  *notify.Dispatcher
	acts    *store.ActivityStore
	locs    *store.LocationStore
	snooze  time.Duration
	log     zerolog.Logger
}

func NewServer(b *tele.Bot, engine *flow.Engine, sched *remind.Scheduler, reports *report.Service,
	alerts *notify.Dispatcher, acts *store.ActivityStore, locs *store.LocationStore,
	snooze time.Duration, log zerolog.Logger) *Server {
	return &Server{
		bot:     b,
		engine:  engine,
		sched:   sched,
		reports: reports,
		alerts:  alerts,
		acts:    acts,
		locs:    locs,
		snooze:  snooze,
		log:     log.With().Str("component", "bot").Logger(),
	}
}

// Register installs middleware and all update handlers on the bot.
func (s *Server) Register() {
	s.bot.Use(s.middleware)

	s.bot.Handle("/start", func(c tele.Context) error { return c.Send(msgGreeting) })
	s.bot.Handle("/help", func(c tele.Context) error { return c.Send(msgHelp) })

	s.bot.Handle("/medications", func(c tele.Context) error {
		return s.reply(c, s.engine.OpenMedications(context.Background(), sessionKey(c)))
	})
	s.bot.Handle("/schedule", func(c tele.Context) error {
		return s.reply(c, s.engine.Schedule(userID(c)))
	})
	s.bot.Handle("/remind", func(c tele.Context) error {
		return s.reply(c, s.engine.OpenRemind(userID(c)))
	})
	s.bot.Handle("/family", func(c tele.Context) error {
		return s.reply(c, s.engine.OpenFamily(context.Background(), sessionKey(c)))
	})
	s.bot.Handle("/cancel", func(c tele.Context) error {
		return s.reply(c, s.engine.Handle(context.Background(), sessionKey(c), flow.Input{Kind: flow.InputCancel}))
	})

	s.bot.Handle("/report", s.handleReport)
	s.bot.Handle("/emergency", s.handleEmergency)
	s.bot.Handle("/history", s.handleHistory)
	s.bot.Handle("/fall", s.handleFall)

	s.bot.Handle(tele.OnText, s.handleText)
	s.bot.Handle(tele.OnCallback, s.handleCallback)
	s.bot.Handle(tele.OnLocation, s.handleLocation)
}

// middleware stamps user activity on every update so the inactivity check-in
// only fires for genuinely silent users.
func (s *Server) middleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		if u := c.Sender(); u != nil {
			uid := strconv.FormatInt(u.ID, 10)
			if err := s.acts.Touch(uid); err != nil {
				s.log.Warn().Err(err).Str("user", uid).Msg("activity stamp failed")
			}
		}
		return next(c)
	}
}

func (s *Server) handleText(c tele.Context) error {
	in := flow.Input{Kind: flow.InputText, Text: c.Text()}
	return s.reply(c, s.engine.Handle(context.Background(), sessionKey(c), in))
}

func (s *Server) handleCallback(c tele.Context) error {
	data := strings.TrimPrefix(c.Callback().Data, "\f")
	if err := c.Respond(); err != nil {
		s.log.Debug().Err(err).Msg("callback ack failed")
	}

	ctx := context.Background()
	key := sessionKey(c)
	uid := userID(c)

	switch {
	case strings.HasPrefix(data, tokTakenPrefix):
		medKey := strings.TrimPrefix(data, tokTakenPrefix)
		name, ok := s.sched.Acknowledge(uid, medKey)
		if !ok {
			return c.Send(msgReminderGone)
		}
		return c.Send(fmt.Sprintf(msgDoseLogged, name))
	case strings.HasPrefix(data, tokSnoozePrefix):
		medKey := strings.TrimPrefix(data, tokSnoozePrefix)
		name, ok := s.sched.Snooze(uid, medKey)
		if !ok {
			return c.Send(msgReminderGone)
		}
		return c.Send(fmt.Sprintf(msgDoseSnoozed, name, int(s.snooze.Minutes())))
	case data == tokFallYes:
		s.alerts.Emergency(uid, fmt.Sprintf(msgFallAlert, fullName(c.Sender())))
		return c.Send(msgFallSent)
	case data == tokFallNo:
		return c.Send(msgFallSafe)
	case strings.HasPrefix(data, flow.TokMedUpdatePrefix):
		return s.reply(c, s.engine.OpenUpdate(ctx, key, strings.TrimPrefix(data, flow.TokMedUpdatePrefix)))
	case strings.HasPrefix(data, flow.TokMedDeletePrefix):
		return s.reply(c, s.engine.DeleteMedication(ctx, uid, strings.TrimPrefix(data, flow.TokMedDeletePrefix)))
	case strings.HasPrefix(data, flow.TokRemindOnPrefix):
		return s.reply(c, s.engine.SetRemind(ctx, uid, strings.TrimPrefix(data, flow.TokRemindOnPrefix), true))
	case strings.HasPrefix(data, flow.TokRemindOffPrefix):
		return s.reply(c, s.engine.SetRemind(ctx, uid, strings.TrimPrefix(data, flow.TokRemindOffPrefix), false))
	case data == flow.TokFamilyAdd:
		return s.reply(c, s.engine.StartAddContact(key))
	case strings.HasPrefix(data, flow.TokFamilyEditPrefix):
		return s.reply(c, s.engine.StartEditContact(key, strings.TrimPrefix(data, flow.TokFamilyEditPrefix)))
	case strings.HasPrefix(data, flow.TokFamilyDelPrefix):
		return s.reply(c, s.engine.DeleteContact(key, strings.TrimPrefix(data, flow.TokFamilyDelPrefix)))
	}

	// Everything else is a flow token (illness picks, review buttons, ...).
	in := flow.Input{Kind: flow.InputSelect, Token: data}
	return s.reply(c, s.engine.Handle(ctx, key, in))
}

func (s *Server) handleReport(c tele.Context) error {
	text, err := s.reports.Render(context.Background(), userID(c))
	if err != nil {
		s.log.Error().Err(err).Str("user", userID(c)).Msg("weekly report failed")
		return c.Send(msgReportFailed)
	}
	return c.Send(text)
}

func (s *Server) handleEmergency(c tele.Context) error {
	s.engine.ArmLocation(sessionKey(c))
	return c.Send(msgEmergencyHowTo)
}

func (s *Server) handleLocation(c tele.Context) error {
	key := sessionKey(c)
	if !s.engine.LocationArmed(key) {
		// Unsolicited locations are treated as emergencies too; the original
		// workflow is "share location, family gets told".
		s.log.Debug().Str("user", userID(c)).Msg("location without /emergency, alerting anyway")
	}
	s.engine.DisarmLocation(key)

	raw := c.Message().Location
	if raw == nil {
		return nil
	}
	uid := userID(c)
	loc := pkg.Location{
		Lat: float64(raw.Lat),
		Lng: float64(raw.Lng),
		At:  time.Now().UTC(),
	}
	if err := s.locs.Append(uid, loc); err != nil {
		s.log.Error().Err(err).Str("user", uid).Msg("location store append failed")
	}
	s.alerts.Emergency(uid, fmt.Sprintf(msgLocationAlert, fullName(c.Sender()), loc.MapURL()))
	return c.Send(fmt.Sprintf(msgLocationSent, loc.MapURL()))
}

func (s *Server) handleHistory(c tele.Context) error {
	locs := s.locs.Recent(userID(c), historyLimit)
	if len(locs) == 0 {
		return c.Send(msgHistoryEmpty)
	}
	var b strings.Builder
	b.WriteString(msgHistoryHeader)
	for i := len(locs) - 1; i >= 0; i-- {
		loc := locs[i]
		fmt.Fprintf(&b, "\n%s\n%s", loc.At.Local().Format("Mon Jan 2 15:04"), loc.MapURL())
	}
	return c.Send(b.String())
}

func (s *Server) handleFall(c tele.Context) error {
	markup := &tele.ReplyMarkup{InlineKeyboard: [][]tele.InlineButton{
		{{Text: "Yes, I fell", Data: tokFallYes}},
		{{Text: "No, I'm okay", Data: tokFallNo}},
	}}
	return c.Send(msgFallQuestion, markup)
}

// reply renders flow replies as Telegram messages, attaching inline keyboards
// where the flow offered options.
func (s *Server) reply(c tele.Context, replies []flow.Reply) error {
	for _, r := range replies {
		if len(r.Options) == 0 {
			if err := c.Send(r.Text); err != nil {
				return err
			}
			continue
		}
		rows := make([][]tele.InlineButton, 0, len(r.Options))
		for _, optRow := range r.Options {
			btns := make([]tele.InlineButton, 0, len(optRow))
			for _, o := range optRow {
				btns = append(btns, tele.InlineButton{Text: o.Label, Data: o.Token})
			}
			rows = append(rows, btns)
		}
		if err := c.Send(r.Text, &tele.ReplyMarkup{InlineKeyboard: rows}); err != nil {
			return err
		}
	}
	return nil
}

func sessionKey(c tele.Context) flow.SessionKey {
	return flow.SessionKey{UserID: userID(c), ChatID: c.Chat().ID}
}

func userID(c tele.Context) string {
	return strconv.FormatInt(c.Sender().ID, 10)
}

func fullName(u *tele.User) string {
	if u == nil {
		return "Someone"
	}
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return "Someone"
	}
	return name
}
